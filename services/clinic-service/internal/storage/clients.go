package storage

import (
	"context"

	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

const clientColumns = `id, user_id, first_name, last_name, date_of_birth, created_at`

func (s *txStore) ClientByID(ctx context.Context, id string) (model.Client, error) {
	var c model.Client
	err := s.tx.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE id = $1
	`, id).Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.DateOfBirth, &c.CreatedAt)
	if err != nil {
		return model.Client{}, notFoundOr(err, "client not found")
	}
	return c, nil
}

func (s *txStore) ClientByUserID(ctx context.Context, userID string) (model.Client, error) {
	var c model.Client
	err := s.tx.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE user_id = $1
	`, userID).Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.DateOfBirth, &c.CreatedAt)
	if err != nil {
		return model.Client{}, notFoundOr(err, "client profile not found")
	}
	return c, nil
}

func (s *txStore) CreateClient(ctx context.Context, c model.Client) error {
	_, err := s.tx.Exec(ctx, `
		INSERT INTO clients (id, user_id, first_name, last_name, date_of_birth, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.UserID, c.FirstName, c.LastName, c.DateOfBirth, c.CreatedAt)
	return err
}
