package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

const appointmentColumns = `id, client_id, slot_id, status, created_at`

func (s *txStore) CreateAppointment(ctx context.Context, a model.Appointment) error {
	_, err := s.tx.Exec(ctx, `
		INSERT INTO appointments (id, client_id, slot_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.ClientID, a.SlotID, a.Status, a.CreatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperr.Conflict("slot already booked")
		}
		return err
	}
	return nil
}

func (s *txStore) SlotHasLiveAppointment(ctx context.Context, slotID string) (bool, error) {
	var exists bool
	err := s.tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE slot_id = $1 AND status <> 'cancelled'
		)
	`, slotID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *txStore) AppointmentForUpdate(ctx context.Context, id string) (model.Appointment, error) {
	var a model.Appointment
	err := s.tx.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&a.ID, &a.ClientID, &a.SlotID, &a.Status, &a.CreatedAt)
	if err != nil {
		return model.Appointment{}, notFoundOr(err, "appointment not found")
	}
	return a, nil
}

func (s *txStore) SetAppointmentStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	tag, err := s.tx.Exec(ctx, `
		UPDATE appointments SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment not found")
	}
	return nil
}

func (s *txStore) ListAppointmentsByClient(ctx context.Context, clientID string) ([]model.Appointment, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE client_id = $1
		ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (s *txStore) ListAppointmentsByPractitioner(ctx context.Context, practitionerID string, day *time.Time) ([]model.Appointment, error) {
	query := `
		SELECT a.id, a.client_id, a.slot_id, a.status, a.created_at
		FROM appointments a
		JOIN schedule_slots s ON s.id = a.slot_id
		WHERE s.practitioner_id = $1
	`
	args := []any{practitionerID}
	if day != nil {
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		query += ` AND s.start_time >= $2 AND s.start_time < $3`
		args = append(args, dayStart, dayStart.Add(24*time.Hour))
	}
	query += ` ORDER BY s.start_time ASC`

	rows, err := s.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func (s *txStore) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

func scanAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	defer rows.Close()
	var appts []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.ClientID, &a.SlotID, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}
