package clinic

import (
	"context"
	"testing"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

func TestMarkNotificationReadIsIdempotent(t *testing.T) {
	svc, st := newTestService(t)
	bookAppointment(t, svc, st)

	notes, err := svc.ListNotifications(context.Background(), clientActor)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notes))
	}
	if notes[0].Read {
		t.Fatal("notifications must start unread")
	}

	read, err := svc.MarkNotificationRead(context.Background(), clientActor, notes[0].ID)
	if err != nil {
		t.Fatalf("MarkNotificationRead failed: %v", err)
	}
	if !read.Read {
		t.Fatal("expected read flag set")
	}

	// Second mark is a no-op, not an error.
	again, err := svc.MarkNotificationRead(context.Background(), clientActor, notes[0].ID)
	if err != nil {
		t.Fatalf("second MarkNotificationRead failed: %v", err)
	}
	if !again.Read {
		t.Fatal("expected read flag to stay set")
	}
}

func TestMarkNotificationReadOwnership(t *testing.T) {
	svc, st := newTestService(t)
	bookAppointment(t, svc, st)

	notes, _ := svc.ListNotifications(context.Background(), clientActor)
	stranger := model.Actor{UserID: "user-client-d", Role: model.RoleClient}
	if _, err := svc.MarkNotificationRead(context.Background(), stranger, notes[0].ID); !apperr.IsNotFound(err) {
		t.Fatalf("foreign notification should read as not found, got %v", err)
	}
	if _, err := svc.MarkNotificationRead(context.Background(), clientActor, "no-such-id"); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListNotificationsNewestFirst(t *testing.T) {
	svc, st := newTestService(t)
	appt, _ := bookAppointment(t, svc, st)

	if _, err := svc.Confirm(context.Background(), practitionerActor, appt.ID); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), clientActor, appt.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	notes, err := svc.ListNotifications(context.Background(), clientActor)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("expected 3 client notifications, got %d", len(notes))
	}
	wantKinds := []model.NotificationKind{
		model.NotificationCancelled,
		model.NotificationConfirmed,
		model.NotificationBooked,
	}
	for i, kind := range wantKinds {
		if notes[i].Kind != kind {
			t.Fatalf("position %d: expected %s, got %s", i, kind, notes[i].Kind)
		}
	}
}

func TestUpdateProfileEmitsNoNotifications(t *testing.T) {
	svc, st := newTestService(t)
	seedPractitioner(st, practitionerActor.UserID, "Ada", "Alvarez", "Cardiology")

	specialty := "Pediatrics"
	updated, err := svc.UpdatePractitionerProfile(context.Background(), practitionerActor, ProfileUpdate{Specialty: &specialty})
	if err != nil {
		t.Fatalf("UpdatePractitionerProfile failed: %v", err)
	}
	if updated.Specialty != "Pediatrics" {
		t.Fatalf("expected updated specialty, got %q", updated.Specialty)
	}
	if updated.FirstName != "Ada" {
		t.Fatalf("partial update must not clear other fields, got %q", updated.FirstName)
	}
	if len(st.notifications) != 0 {
		t.Fatalf("profile updates must not notify, got %d", len(st.notifications))
	}
}

func TestListPractitionersBySpecialty(t *testing.T) {
	svc, st := newTestService(t)
	seedPractitioner(st, practitionerActor.UserID, "Ada", "Alvarez", "Cardiology")
	seedPractitioner(st, "user-dr-b", "Bram", "Boone", "Dermatology")

	all, err := svc.ListPractitioners(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPractitioners failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 practitioners, got %d", len(all))
	}

	cardio, err := svc.ListPractitioners(context.Background(), "cardio")
	if err != nil {
		t.Fatalf("ListPractitioners failed: %v", err)
	}
	if len(cardio) != 1 || cardio[0].Specialty != "Cardiology" {
		t.Fatalf("expected the cardiologist, got %+v", cardio)
	}
}
