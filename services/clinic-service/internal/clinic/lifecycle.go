package clinic

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/outbox"
)

// Confirm moves a pending appointment to confirmed and notifies the client.
// Confirming an already-confirmed appointment is a no-op: no transition, no
// duplicate notification. A cancelled appointment cannot leave that state.
func (s *Service) Confirm(ctx context.Context, actor model.Actor, appointmentID string) (model.Appointment, error) {
	var appt model.Appointment
	err := s.db.InTx(ctx, func(st Store) error {
		var err error
		appt, err = st.AppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}
		slot, err := st.SlotForUpdate(ctx, appt.SlotID)
		if err != nil {
			return err
		}
		practitioner, err := st.PractitionerByID(ctx, slot.PractitionerID)
		if err != nil {
			return err
		}
		if err := requirePractitionerOrAdmin(actor, practitioner, "confirmed"); err != nil {
			return err
		}

		switch appt.Status {
		case model.StatusCancelled:
			return apperr.Conflict("appointment already cancelled")
		case model.StatusConfirmed:
			return nil
		}

		if err := st.SetAppointmentStatus(ctx, appt.ID, model.StatusConfirmed); err != nil {
			return err
		}
		appt.Status = model.StatusConfirmed

		client, err := st.ClientByID(ctx, appt.ClientID)
		if err != nil {
			return err
		}
		if err := s.notify(ctx, st, client.UserID, model.NotificationConfirmed, appt.ID,
			fmt.Sprintf("Your appointment with Dr. %s on %s at %s has been confirmed.",
				practitionerName(practitioner), slotDate(slot), slotTime(slot))); err != nil {
			return err
		}

		return s.appendAppointmentEvent(ctx, st, outbox.EventAppointmentConfirmed, appt, slot)
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

// Cancel moves a pending or confirmed appointment to cancelled, releases its
// slot, and notifies both parties. Cancellation is terminal: cancelling twice
// is a conflict. The owning client may cancel as well as the practitioner or
// an administrator.
func (s *Service) Cancel(ctx context.Context, actor model.Actor, appointmentID string) (model.Appointment, error) {
	var appt model.Appointment
	err := s.db.InTx(ctx, func(st Store) error {
		var err error
		appt, err = st.AppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			return err
		}
		slot, err := st.SlotForUpdate(ctx, appt.SlotID)
		if err != nil {
			return err
		}
		practitioner, err := st.PractitionerByID(ctx, slot.PractitionerID)
		if err != nil {
			return err
		}
		client, err := st.ClientByID(ctx, appt.ClientID)
		if err != nil {
			return err
		}

		switch actor.Role {
		case model.RoleAdministrator:
		case model.RolePractitioner:
			if practitioner.UserID != actor.UserID {
				return apperr.Permission("appointments can only be cancelled by their practitioner")
			}
		case model.RoleClient:
			if client.UserID != actor.UserID {
				return apperr.Permission("clients may only cancel their own appointments")
			}
		default:
			return apperr.Permission("caller may not cancel this appointment")
		}

		if appt.Status == model.StatusCancelled {
			return apperr.Conflict("appointment already cancelled")
		}

		if err := st.SetAppointmentStatus(ctx, appt.ID, model.StatusCancelled); err != nil {
			return err
		}
		appt.Status = model.StatusCancelled
		if err := st.SetSlotAvailability(ctx, slot.ID, true); err != nil {
			return err
		}

		if err := s.notify(ctx, st, client.UserID, model.NotificationCancelled, appt.ID,
			fmt.Sprintf("Your appointment with Dr. %s on %s at %s has been cancelled.",
				practitionerName(practitioner), slotDate(slot), slotTime(slot))); err != nil {
			return err
		}
		if err := s.notify(ctx, st, practitioner.UserID, model.NotificationCancelled, appt.ID,
			fmt.Sprintf("Appointment with %s on %s at %s has been cancelled.",
				clientName(client), slotDate(slot), slotTime(slot))); err != nil {
			return err
		}

		return s.appendAppointmentEvent(ctx, st, outbox.EventAppointmentCancelled, appt, slot)
	})
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

// ListAppointments returns the appointments visible to the actor: clients see
// their own, practitioners see appointments on their slots (optionally
// filtered to one day), administrators see all.
func (s *Service) ListAppointments(ctx context.Context, actor model.Actor, day *time.Time) ([]model.Appointment, error) {
	var appts []model.Appointment
	err := s.db.InTx(ctx, func(st Store) error {
		switch actor.Role {
		case model.RoleClient:
			client, err := st.ClientByUserID(ctx, actor.UserID)
			if err != nil {
				if apperr.IsNotFound(err) {
					// No profile yet means no bookings yet.
					return nil
				}
				return err
			}
			appts, err = st.ListAppointmentsByClient(ctx, client.ID)
			return err
		case model.RolePractitioner:
			practitioner, err := st.PractitionerByUserID(ctx, actor.UserID)
			if err != nil {
				if apperr.IsNotFound(err) {
					return nil
				}
				return err
			}
			appts, err = st.ListAppointmentsByPractitioner(ctx, practitioner.ID, day)
			return err
		case model.RoleAdministrator:
			var err error
			appts, err = st.ListAppointments(ctx)
			return err
		default:
			return apperr.Permission("unknown caller role")
		}
	})
	return appts, err
}

func requirePractitionerOrAdmin(actor model.Actor, practitioner model.Practitioner, verb string) error {
	switch actor.Role {
	case model.RoleAdministrator:
		return nil
	case model.RolePractitioner:
		if practitioner.UserID != actor.UserID {
			return apperr.Permission("appointments can only be %s by their practitioner", verb)
		}
		return nil
	default:
		return apperr.Permission("only practitioners or administrators may update appointment status")
	}
}
