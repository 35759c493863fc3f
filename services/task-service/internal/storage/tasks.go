// Package storage implements the task repository on Postgres via pgx. Every
// query filters by owner_id, so a task belonging to someone else is
// indistinguishable from a missing one.
package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
	"github.com/clinicdesk/clinicdesk/libs/db"
	"github.com/clinicdesk/clinicdesk/services/task-service/internal/model"
)

type TaskRepository struct {
	pool *db.Pool
}

func NewTaskRepository(pool *db.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

const taskColumns = `id, owner_id, title, description, due_date, priority, completed, created_at, updated_at`

func (r *TaskRepository) Create(ctx context.Context, t model.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (id, owner_id, title, description, due_date, priority, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.OwnerID, t.Title, t.Description, t.DueDate, t.Priority, t.Completed, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *TaskRepository) Get(ctx context.Context, ownerID, id string) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, apperr.NotFound("task not found")
		}
		return model.Task{}, err
	}
	return t, nil
}

// List returns the owner's tasks ordered by due date ascending, optionally
// filtered by completion state.
func (r *TaskRepository) List(ctx context.Context, ownerID string, completed *bool) ([]model.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE owner_id = $1
	`
	args := []any{ownerID}
	if completed != nil {
		query += ` AND completed = $2`
		args = append(args, *completed)
	}
	query += ` ORDER BY due_date ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, t model.Task) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $3,
			description = $4,
			due_date = $5,
			priority = $6,
			updated_at = $7
		WHERE owner_id = $1 AND id = $2
	`, t.OwnerID, t.ID, t.Title, t.Description, t.DueDate, t.Priority, t.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("task not found")
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM tasks WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("task not found")
	}
	return nil
}

func (r *TaskRepository) SetCompleted(ctx context.Context, ownerID, id string, completed bool) (model.Task, error) {
	var t model.Task
	err := r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET completed = $3, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING `+taskColumns+`
	`, ownerID, id, completed).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, apperr.NotFound("task not found")
		}
		return model.Task{}, err
	}
	return t, nil
}
