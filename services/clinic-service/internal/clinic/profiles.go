package clinic

import (
	"context"
	"strings"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

// ListPractitioners returns practitioners whose specialty contains the given
// filter, case-insensitively. An empty filter matches all. Public.
func (s *Service) ListPractitioners(ctx context.Context, specialty string) ([]model.Practitioner, error) {
	var practitioners []model.Practitioner
	err := s.db.InTx(ctx, func(st Store) error {
		var err error
		practitioners, err = st.ListPractitioners(ctx, strings.TrimSpace(specialty))
		return err
	})
	return practitioners, err
}

func (s *Service) GetPractitioner(ctx context.Context, id string) (model.Practitioner, error) {
	var practitioner model.Practitioner
	err := s.db.InTx(ctx, func(st Store) error {
		var err error
		practitioner, err = st.PractitionerByID(ctx, id)
		return err
	})
	return practitioner, err
}

// CurrentPractitioner returns the actor's own practitioner profile.
func (s *Service) CurrentPractitioner(ctx context.Context, actor model.Actor) (model.Practitioner, error) {
	if actor.Role != model.RolePractitioner {
		return model.Practitioner{}, apperr.Permission("caller has no practitioner profile")
	}
	var practitioner model.Practitioner
	err := s.db.InTx(ctx, func(st Store) error {
		var err error
		practitioner, err = st.PractitionerByUserID(ctx, actor.UserID)
		return err
	})
	return practitioner, err
}

// ProfileUpdate carries a partial practitioner profile update. Nil fields are
// left unchanged. Profile updates produce no notification side effects.
type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	Specialty     *string
	LicenseNumber *string
}

func (s *Service) UpdatePractitionerProfile(ctx context.Context, actor model.Actor, update ProfileUpdate) (model.Practitioner, error) {
	if actor.Role != model.RolePractitioner {
		return model.Practitioner{}, apperr.Permission("only practitioners may update their profile")
	}
	var practitioner model.Practitioner
	err := s.db.InTx(ctx, func(st Store) error {
		var err error
		practitioner, err = st.PractitionerByUserID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if update.FirstName != nil {
			practitioner.FirstName = strings.TrimSpace(*update.FirstName)
		}
		if update.LastName != nil {
			practitioner.LastName = strings.TrimSpace(*update.LastName)
		}
		if update.Specialty != nil {
			practitioner.Specialty = strings.TrimSpace(*update.Specialty)
		}
		if update.LicenseNumber != nil {
			license := strings.TrimSpace(*update.LicenseNumber)
			if license == "" {
				return apperr.Validation("license_number must not be empty")
			}
			practitioner.LicenseNumber = license
		}
		return st.UpdatePractitioner(ctx, practitioner)
	})
	if err != nil {
		return model.Practitioner{}, err
	}
	return practitioner, nil
}
