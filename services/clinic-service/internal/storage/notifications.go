package storage

import (
	"context"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

// appointment_id is a nullable uuid (nulled out when the appointment row
// goes away), while the model carries it as a plain string. Both statements
// go through text: the select casts the column before COALESCE so an absent
// reference scans as "", and the insert casts after NULLIF so "" stores as
// NULL. Without the casts Postgres tries to coerce '' to uuid and errors.
const notificationColumns = `id, user_id, message, kind, COALESCE(appointment_id::text, ''), is_read, created_at`

const insertNotificationSQL = `
	INSERT INTO notifications (id, user_id, message, kind, appointment_id, is_read, created_at)
	VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7)
`

func (s *txStore) AddNotification(ctx context.Context, n model.Notification) error {
	_, err := s.tx.Exec(ctx, insertNotificationSQL,
		n.ID, n.UserID, n.Message, n.Kind, n.AppointmentID, n.Read, n.CreatedAt)
	return err
}

func (s *txStore) NotificationForUpdate(ctx context.Context, id string) (model.Notification, error) {
	var n model.Notification
	err := s.tx.QueryRow(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&n.ID, &n.UserID, &n.Message, &n.Kind, &n.AppointmentID, &n.Read, &n.CreatedAt)
	if err != nil {
		return model.Notification{}, notFoundOr(err, "notification not found")
	}
	return n, nil
}

func (s *txStore) MarkNotificationRead(ctx context.Context, id string) error {
	tag, err := s.tx.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (s *txStore) ListNotificationsByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Kind, &n.AppointmentID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
