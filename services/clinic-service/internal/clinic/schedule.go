package clinic

import (
	"context"
	"time"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

// CreateSlot creates an available schedule slot. Practitioners create slots
// on their own schedule; administrators must name the practitioner.
func (s *Service) CreateSlot(ctx context.Context, actor model.Actor, practitionerID string, start, end time.Time) (model.Slot, error) {
	if !start.Before(end) {
		return model.Slot{}, apperr.Validation("start time must be before end time")
	}

	var slot model.Slot
	err := s.db.InTx(ctx, func(st Store) error {
		practitioner, err := s.resolvePractitioner(ctx, st, actor, practitionerID)
		if err != nil {
			return err
		}
		slot = model.Slot{
			ID:             s.newID(),
			PractitionerID: practitioner.ID,
			Start:          start.UTC(),
			End:            end.UTC(),
			Available:      true,
			CreatedAt:      s.now(),
		}
		return st.CreateSlot(ctx, slot)
	})
	if err != nil {
		return model.Slot{}, err
	}
	return slot, nil
}

// DeleteSlot removes a slot. Practitioners may only delete their own slots.
func (s *Service) DeleteSlot(ctx context.Context, actor model.Actor, slotID string) error {
	return s.db.InTx(ctx, func(st Store) error {
		slot, err := st.SlotForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		switch actor.Role {
		case model.RoleAdministrator:
		case model.RolePractitioner:
			practitioner, err := st.PractitionerByUserID(ctx, actor.UserID)
			if err != nil {
				return err
			}
			if slot.PractitionerID != practitioner.ID {
				return apperr.Permission("practitioners may only delete their own slots")
			}
		default:
			return apperr.Permission("only practitioners or administrators may delete slots")
		}
		return st.DeleteSlot(ctx, slot.ID)
	})
}

// ListAvailable returns a practitioner's open slots on the given day,
// ordered by start time ascending. Public, no actor required.
func (s *Service) ListAvailable(ctx context.Context, practitionerID string, day time.Time) ([]model.Slot, error) {
	var slots []model.Slot
	err := s.db.InTx(ctx, func(st Store) error {
		var err error
		slots, err = st.ListAvailableSlots(ctx, practitionerID, day)
		return err
	})
	return slots, err
}

// ListSchedules returns the slots visible to the actor: practitioners see
// their own, administrators see all.
func (s *Service) ListSchedules(ctx context.Context, actor model.Actor) ([]model.Slot, error) {
	var slots []model.Slot
	err := s.db.InTx(ctx, func(st Store) error {
		switch actor.Role {
		case model.RoleAdministrator:
			var err error
			slots, err = st.ListSlots(ctx)
			return err
		case model.RolePractitioner:
			practitioner, err := st.PractitionerByUserID(ctx, actor.UserID)
			if err != nil {
				return err
			}
			slots, err = st.ListSlotsByPractitioner(ctx, practitioner.ID)
			return err
		default:
			return apperr.Permission("only practitioners or administrators may list schedules")
		}
	})
	return slots, err
}

func (s *Service) resolvePractitioner(ctx context.Context, st Store, actor model.Actor, practitionerID string) (model.Practitioner, error) {
	switch actor.Role {
	case model.RolePractitioner:
		return st.PractitionerByUserID(ctx, actor.UserID)
	case model.RoleAdministrator:
		if practitionerID == "" {
			return model.Practitioner{}, apperr.Validation("practitioner_id is required for administrators")
		}
		return st.PractitionerByID(ctx, practitionerID)
	default:
		return model.Practitioner{}, apperr.Permission("only practitioners or administrators may manage slots")
	}
}
