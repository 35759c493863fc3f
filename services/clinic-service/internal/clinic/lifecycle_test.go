package clinic

import (
	"context"
	"testing"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

func bookAppointment(t *testing.T, svc *Service, st *memStore) (model.Appointment, model.Slot) {
	t.Helper()
	seedPractitioner(st, practitionerActor.UserID, "Ada", "Alvarez", "Cardiology")
	seedClient(st, clientActor.UserID, "Cleo", "Crane")
	start, end := slotAt(9, 0)
	slot := mustCreateSlot(t, svc, practitionerActor, start, end)
	appt, err := svc.Book(context.Background(), clientActor, slot.ID)
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	return appt, slot
}

func TestConfirmPendingAppointment(t *testing.T) {
	svc, st := newTestService(t)
	appt, _ := bookAppointment(t, svc, st)

	confirmed, err := svc.Confirm(context.Background(), practitionerActor, appt.ID)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if confirmed.Status != model.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", confirmed.Status)
	}

	clientNotes, _ := st.ListNotificationsByUser(context.Background(), clientActor.UserID)
	if len(clientNotes) != 2 { // booked + confirmed
		t.Fatalf("expected 2 client notifications, got %d", len(clientNotes))
	}
	if clientNotes[0].Kind != model.NotificationConfirmed {
		t.Fatalf("newest notification should be the confirmation, got %s", clientNotes[0].Kind)
	}
}

func TestConfirmIsIdempotent(t *testing.T) {
	svc, st := newTestService(t)
	appt, _ := bookAppointment(t, svc, st)

	if _, err := svc.Confirm(context.Background(), practitionerActor, appt.ID); err != nil {
		t.Fatalf("first Confirm failed: %v", err)
	}
	before := len(st.notifications)

	again, err := svc.Confirm(context.Background(), practitionerActor, appt.ID)
	if err != nil {
		t.Fatalf("re-confirm should be a no-op, got %v", err)
	}
	if again.Status != model.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", again.Status)
	}
	if len(st.notifications) != before {
		t.Fatalf("re-confirm must not emit notifications: had %d, now %d", before, len(st.notifications))
	}
}

func TestConfirmCancelledAppointment(t *testing.T) {
	svc, st := newTestService(t)
	appt, _ := bookAppointment(t, svc, st)

	if _, err := svc.Cancel(context.Background(), practitionerActor, appt.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	_, err := svc.Confirm(context.Background(), practitionerActor, appt.ID)
	if !apperr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestConfirmRequiresOwningPractitioner(t *testing.T) {
	svc, st := newTestService(t)
	appt, _ := bookAppointment(t, svc, st)
	seedPractitioner(st, "user-dr-b", "Bram", "Boone", "Dermatology")

	other := model.Actor{UserID: "user-dr-b", Role: model.RolePractitioner}
	if _, err := svc.Confirm(context.Background(), other, appt.ID); !apperr.IsPermission(err) {
		t.Fatalf("expected permission error for other practitioner, got %v", err)
	}
	if _, err := svc.Confirm(context.Background(), clientActor, appt.ID); !apperr.IsPermission(err) {
		t.Fatalf("expected permission error for client, got %v", err)
	}
	if _, err := svc.Confirm(context.Background(), adminActor, appt.ID); err != nil {
		t.Fatalf("administrator should be able to confirm: %v", err)
	}
}

func TestCancelReleasesSlot(t *testing.T) {
	svc, st := newTestService(t)
	appt, slot := bookAppointment(t, svc, st)

	cancelled, err := svc.Cancel(context.Background(), clientActor, appt.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if !st.slots[slot.ID].Available {
		t.Fatal("cancel should release the slot")
	}

	// 2 booked + 2 cancelled.
	if len(st.notifications) != 4 {
		t.Fatalf("expected 4 notifications after cancel, got %d", len(st.notifications))
	}

	_, err = svc.Cancel(context.Background(), clientActor, appt.ID)
	if !apperr.IsConflict(err) {
		t.Fatalf("second cancel should conflict, got %v", err)
	}
	if !st.slots[slot.ID].Available {
		t.Fatal("slot must stay available after failed second cancel")
	}
	if len(st.notifications) != 4 {
		t.Fatalf("failed cancel must not emit notifications, got %d", len(st.notifications))
	}
}

func TestCancelConfirmedAppointment(t *testing.T) {
	svc, st := newTestService(t)
	appt, slot := bookAppointment(t, svc, st)

	if _, err := svc.Confirm(context.Background(), practitionerActor, appt.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), practitionerActor, appt.ID); err != nil {
		t.Fatalf("Cancel of confirmed appointment failed: %v", err)
	}
	if !st.slots[slot.ID].Available {
		t.Fatal("cancel should release the slot")
	}
}

func TestCancelPermissions(t *testing.T) {
	svc, st := newTestService(t)
	appt, _ := bookAppointment(t, svc, st)
	seedClient(st, "user-client-d", "Dara", "Dunn")

	stranger := model.Actor{UserID: "user-client-d", Role: model.RoleClient}
	if _, err := svc.Cancel(context.Background(), stranger, appt.ID); !apperr.IsPermission(err) {
		t.Fatalf("expected permission error for other client, got %v", err)
	}
}

// Full lifecycle: book, confirm, cancel. Five notifications in total:
// 2 on booking, 1 on confirmation, 2 on cancellation.
func TestAppointmentLifecycleScenario(t *testing.T) {
	svc, st := newTestService(t)
	seedPractitioner(st, practitionerActor.UserID, "Ada", "Alvarez", "Cardiology")
	seedClient(st, clientActor.UserID, "Cleo", "Crane")

	start, end := slotAt(9, 0)
	slot := mustCreateSlot(t, svc, practitionerActor, start, end)

	appt, err := svc.Book(context.Background(), clientActor, slot.ID)
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if appt.Status != model.StatusPending || st.slots[slot.ID].Available {
		t.Fatal("booking should leave a pending appointment on an unavailable slot")
	}
	if len(st.notifications) != 2 {
		t.Fatalf("expected 2 notifications after booking, got %d", len(st.notifications))
	}

	if _, err := svc.Confirm(context.Background(), practitionerActor, appt.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if len(st.notifications) != 3 {
		t.Fatalf("expected 3 notifications after confirmation, got %d", len(st.notifications))
	}

	if _, err := svc.Cancel(context.Background(), clientActor, appt.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if st.appointments[appt.ID].Status != model.StatusCancelled {
		t.Fatal("appointment should be cancelled")
	}
	if !st.slots[slot.ID].Available {
		t.Fatal("slot should be available again")
	}
	if len(st.notifications) != 5 {
		t.Fatalf("expected 5 notifications after full lifecycle, got %d", len(st.notifications))
	}
	if len(st.events) != 3 {
		t.Fatalf("expected 3 outbox events, got %d", len(st.events))
	}
}

func TestListAppointmentsByRole(t *testing.T) {
	svc, st := newTestService(t)
	appt, _ := bookAppointment(t, svc, st)

	got, err := svc.ListAppointments(context.Background(), clientActor, nil)
	if err != nil {
		t.Fatalf("client list failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != appt.ID {
		t.Fatalf("client should see own appointment, got %+v", got)
	}

	got, err = svc.ListAppointments(context.Background(), practitionerActor, nil)
	if err != nil {
		t.Fatalf("practitioner list failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("practitioner should see appointments on own slots, got %d", len(got))
	}

	seedClient(st, "user-client-d", "Dara", "Dunn")
	other := model.Actor{UserID: "user-client-d", Role: model.RoleClient}
	got, err = svc.ListAppointments(context.Background(), other, nil)
	if err != nil {
		t.Fatalf("other client list failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("other client should see no appointments, got %d", len(got))
	}

	got, err = svc.ListAppointments(context.Background(), adminActor, nil)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("admin should see all appointments, got %d", len(got))
	}
}
