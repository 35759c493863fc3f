package clinic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/outbox"
)

// Book claims an available slot for the calling client and creates a pending
// appointment. Preconditions are checked in order, first failure wins:
// missing slot, slot unavailable, slot already holding a live appointment,
// caller not a client. All side effects (appointment row, availability flip,
// both notifications, outbox event) commit atomically.
func (s *Service) Book(ctx context.Context, actor model.Actor, slotID string) (model.Appointment, error) {
	var appt model.Appointment
	err := s.db.InTx(ctx, func(st Store) error {
		slot, err := st.SlotForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		if !slot.Available {
			return apperr.Conflict("slot no longer available")
		}
		taken, err := st.SlotHasLiveAppointment(ctx, slot.ID)
		if err != nil {
			return err
		}
		if taken {
			// Narrows the race between the availability flag and a
			// concurrent booking; the partial unique index on
			// appointments.slot_id closes it.
			return apperr.Conflict("slot already booked")
		}
		if actor.Role != model.RoleClient {
			return apperr.Permission("only clients may book appointments")
		}

		client, err := s.ensureClient(ctx, st, actor.UserID)
		if err != nil {
			return err
		}
		practitioner, err := st.PractitionerByID(ctx, slot.PractitionerID)
		if err != nil {
			return err
		}

		appt = model.Appointment{
			ID:        s.newID(),
			ClientID:  client.ID,
			SlotID:    slot.ID,
			Status:    model.StatusPending,
			CreatedAt: s.now(),
		}
		if err := st.CreateAppointment(ctx, appt); err != nil {
			return err
		}
		if err := st.SetSlotAvailability(ctx, slot.ID, false); err != nil {
			return err
		}

		if err := s.notify(ctx, st, client.UserID, model.NotificationBooked, appt.ID,
			fmt.Sprintf("Your appointment with Dr. %s on %s at %s has been booked.",
				practitionerName(practitioner), slotDate(slot), slotTime(slot))); err != nil {
			return err
		}
		if err := s.notify(ctx, st, practitioner.UserID, model.NotificationBooked, appt.ID,
			fmt.Sprintf("New appointment booked by %s on %s at %s.",
				clientName(client), slotDate(slot), slotTime(slot))); err != nil {
			return err
		}

		return s.appendAppointmentEvent(ctx, st, outbox.EventAppointmentBooked, appt, slot)
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

// ensureClient returns the caller's client profile, creating an empty one on
// first booking (profile details can be filled in later).
func (s *Service) ensureClient(ctx context.Context, st Store, userID string) (model.Client, error) {
	client, err := st.ClientByUserID(ctx, userID)
	if err == nil {
		return client, nil
	}
	if !apperr.IsNotFound(err) {
		return model.Client{}, err
	}
	client = model.Client{
		ID:        s.newID(),
		UserID:    userID,
		CreatedAt: s.now(),
	}
	if err := st.CreateClient(ctx, client); err != nil {
		return model.Client{}, err
	}
	return client, nil
}

func (s *Service) appendAppointmentEvent(ctx context.Context, st Store, eventType string, appt model.Appointment, slot model.Slot) error {
	payload, err := json.Marshal(map[string]any{
		"appointment_id":  appt.ID,
		"slot_id":         slot.ID,
		"client_id":       appt.ClientID,
		"practitioner_id": slot.PractitionerID,
		"status":          string(appt.Status),
		"start_time":      slot.Start.UTC().Format(time.RFC3339),
		"end_time":        slot.End.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return st.AppendEvent(ctx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     eventType,
		Payload:       payload,
	})
}
