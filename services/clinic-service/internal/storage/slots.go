package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

const slotColumns = `id, practitioner_id, start_time, end_time, is_available, created_at`

func (s *txStore) CreateSlot(ctx context.Context, slot model.Slot) error {
	_, err := s.tx.Exec(ctx, `
		INSERT INTO schedule_slots (id, practitioner_id, start_time, end_time, is_available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, slot.ID, slot.PractitionerID, slot.Start, slot.End, slot.Available, slot.CreatedAt)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperr.Conflict("a slot for this practitioner already starts at this time")
		}
		return err
	}
	return nil
}

func (s *txStore) SlotForUpdate(ctx context.Context, id string) (model.Slot, error) {
	var slot model.Slot
	err := s.tx.QueryRow(ctx, `
		SELECT `+slotColumns+`
		FROM schedule_slots
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&slot.ID, &slot.PractitionerID, &slot.Start, &slot.End, &slot.Available, &slot.CreatedAt)
	if err != nil {
		return model.Slot{}, notFoundOr(err, "slot not found")
	}
	return slot, nil
}

func (s *txStore) DeleteSlot(ctx context.Context, id string) error {
	tag, err := s.tx.Exec(ctx, `DELETE FROM schedule_slots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("slot not found")
	}
	return nil
}

func (s *txStore) SetSlotAvailability(ctx context.Context, id string, available bool) error {
	tag, err := s.tx.Exec(ctx, `
		UPDATE schedule_slots SET is_available = $2 WHERE id = $1
	`, id, available)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("slot not found")
	}
	return nil
}

func (s *txStore) ListAvailableSlots(ctx context.Context, practitionerID string, day time.Time) ([]model.Slot, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)
	rows, err := s.tx.Query(ctx, `
		SELECT `+slotColumns+`
		FROM schedule_slots
		WHERE practitioner_id = $1
		  AND is_available
		  AND start_time >= $2
		  AND start_time < $3
		ORDER BY start_time ASC
	`, practitionerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	return scanSlots(rows)
}

func (s *txStore) ListSlotsByPractitioner(ctx context.Context, practitionerID string) ([]model.Slot, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT `+slotColumns+`
		FROM schedule_slots
		WHERE practitioner_id = $1
		ORDER BY start_time ASC
	`, practitionerID)
	if err != nil {
		return nil, err
	}
	return scanSlots(rows)
}

func (s *txStore) ListSlots(ctx context.Context) ([]model.Slot, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT `+slotColumns+`
		FROM schedule_slots
		ORDER BY start_time ASC
	`)
	if err != nil {
		return nil, err
	}
	return scanSlots(rows)
}

func scanSlots(rows pgx.Rows) ([]model.Slot, error) {
	defer rows.Close()
	var slots []model.Slot
	for rows.Next() {
		var slot model.Slot
		if err := rows.Scan(&slot.ID, &slot.PractitionerID, &slot.Start, &slot.End, &slot.Available, &slot.CreatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
