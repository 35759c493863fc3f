package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/libs/httpx"
	"github.com/clinicdesk/clinicdesk/services/task-service/internal/model"
)

// Store is the persistence surface the handler needs. The pgx repository
// implements it; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, t model.Task) error
	Get(ctx context.Context, ownerID, id string) (model.Task, error)
	List(ctx context.Context, ownerID string, completed *bool) ([]model.Task, error)
	Update(ctx context.Context, t model.Task) error
	Delete(ctx context.Context, ownerID, id string) error
	SetCompleted(ctx context.Context, ownerID, id string, completed bool) (model.Task, error)
}

type TaskHandler struct {
	store  Store
	logger *slog.Logger

	// Overridable in tests.
	now   func() time.Time
	newID func() string
}

func NewTaskHandler(store Store, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

type taskItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func renderTask(t model.Task) taskItem {
	return taskItem{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.UTC().Format("2006-01-02"),
		Priority:    string(t.Priority),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
}

type updateTaskRequest struct {
	TaskID      string  `json:"task_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
}

type taskActionRequest struct {
	TaskID string `json:"task_id"`
}

func (h *TaskHandler) Tasks(w http.ResponseWriter, r *http.Request, userID string) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r, userID)
	case http.MethodPost:
		h.create(w, r, userID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TaskHandler) list(w http.ResponseWriter, r *http.Request, userID string) {
	if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
		task, err := h.store.Get(r.Context(), userID, id)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, renderTask(task))
		return
	}

	var completed *bool
	switch strings.TrimSpace(r.URL.Query().Get("completed")) {
	case "":
	case "true":
		v := true
		completed = &v
	case "false":
		v := false
		completed = &v
	default:
		http.Error(w, "completed must be true or false", http.StatusBadRequest)
		return
	}

	tasks, err := h.store.List(r.Context(), userID, completed)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	items := make([]taskItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, renderTask(t))
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *TaskHandler) create(w http.ResponseWriter, r *http.Request, userID string) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		http.Error(w, "title required", http.StatusBadRequest)
		return
	}
	dueDate, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.DueDate), time.UTC)
	if err != nil {
		http.Error(w, "invalid due_date", http.StatusBadRequest)
		return
	}
	priority, ok := model.ParsePriority(strings.TrimSpace(req.Priority))
	if !ok {
		http.Error(w, "priority must be high, medium, or low", http.StatusBadRequest)
		return
	}

	now := h.now()
	task := model.Task{
		ID:          h.newID(),
		OwnerID:     userID,
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		DueDate:     dueDate,
		Priority:    priority,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.Create(r.Context(), task); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, renderTask(task))
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.TaskID = strings.TrimSpace(req.TaskID)
	if req.TaskID == "" {
		http.Error(w, "task_id required", http.StatusBadRequest)
		return
	}

	task, err := h.store.Get(r.Context(), userID, req.TaskID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			http.Error(w, "title must not be empty", http.StatusBadRequest)
			return
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.DueDate != nil {
		dueDate, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(*req.DueDate), time.UTC)
		if err != nil {
			http.Error(w, "invalid due_date", http.StatusBadRequest)
			return
		}
		task.DueDate = dueDate
	}
	if req.Priority != nil {
		priority, ok := model.ParsePriority(strings.TrimSpace(*req.Priority))
		if !ok {
			http.Error(w, "priority must be high, medium, or low", http.StatusBadRequest)
			return
		}
		task.Priority = priority
	}
	task.UpdatedAt = h.now()

	if err := h.store.Update(r.Context(), task); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, renderTask(task))
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request, userID string) {
	taskID, ok := decodeAction(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), userID, taskID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Complete and Incomplete are idempotent: setting the flag to its current
// value succeeds.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request, userID string) {
	h.setCompleted(w, r, userID, true)
}

func (h *TaskHandler) Incomplete(w http.ResponseWriter, r *http.Request, userID string) {
	h.setCompleted(w, r, userID, false)
}

func (h *TaskHandler) setCompleted(w http.ResponseWriter, r *http.Request, userID string, completed bool) {
	taskID, ok := decodeAction(w, r)
	if !ok {
		return
	}
	task, err := h.store.SetCompleted(r.Context(), userID, taskID, completed)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, renderTask(task))
}

func decodeAction(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	var req taskActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return "", false
	}
	req.TaskID = strings.TrimSpace(req.TaskID)
	if req.TaskID == "" {
		http.Error(w, "task_id required", http.StatusBadRequest)
		return "", false
	}
	return req.TaskID, true
}
