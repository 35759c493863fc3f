package storage

import (
	"context"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

const practitionerColumns = `id, user_id, first_name, last_name, specialty, license_number, created_at`

func (s *txStore) PractitionerByID(ctx context.Context, id string) (model.Practitioner, error) {
	var p model.Practitioner
	err := s.tx.QueryRow(ctx, `
		SELECT `+practitionerColumns+`
		FROM practitioners
		WHERE id = $1
	`, id).Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Specialty, &p.LicenseNumber, &p.CreatedAt)
	if err != nil {
		return model.Practitioner{}, notFoundOr(err, "practitioner not found")
	}
	return p, nil
}

func (s *txStore) PractitionerByUserID(ctx context.Context, userID string) (model.Practitioner, error) {
	var p model.Practitioner
	err := s.tx.QueryRow(ctx, `
		SELECT `+practitionerColumns+`
		FROM practitioners
		WHERE user_id = $1
	`, userID).Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Specialty, &p.LicenseNumber, &p.CreatedAt)
	if err != nil {
		return model.Practitioner{}, notFoundOr(err, "practitioner profile not found")
	}
	return p, nil
}

func (s *txStore) ListPractitioners(ctx context.Context, specialty string) ([]model.Practitioner, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT `+practitionerColumns+`
		FROM practitioners
		WHERE specialty ILIKE '%' || $1 || '%'
		ORDER BY created_at ASC
	`, specialty)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var practitioners []model.Practitioner
	for rows.Next() {
		var p model.Practitioner
		if err := rows.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Specialty, &p.LicenseNumber, &p.CreatedAt); err != nil {
			return nil, err
		}
		practitioners = append(practitioners, p)
	}
	return practitioners, rows.Err()
}

func (s *txStore) UpdatePractitioner(ctx context.Context, p model.Practitioner) error {
	tag, err := s.tx.Exec(ctx, `
		UPDATE practitioners
		SET first_name = $2,
			last_name = $3,
			specialty = $4,
			license_number = $5
		WHERE id = $1
	`, p.ID, p.FirstName, p.LastName, p.Specialty, p.LicenseNumber)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperr.Conflict("license number already registered")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("practitioner not found")
	}
	return nil
}
