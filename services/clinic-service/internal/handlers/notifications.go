package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clinicdesk/clinicdesk/libs/httpx"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/clinic"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

type NotificationHandler struct {
	svc *clinic.Service
}

func NewNotificationHandler(svc *clinic.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notes, err := h.svc.ListNotifications(r.Context(), actor)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	items := make([]notificationItem, 0, len(notes))
	for _, n := range notes {
		items = append(items, renderNotification(n))
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

type markReadRequest struct {
	NotificationID string `json:"notification_id"`
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.NotificationID = strings.TrimSpace(req.NotificationID)
	if req.NotificationID == "" {
		http.Error(w, "notification_id required", http.StatusBadRequest)
		return
	}

	note, err := h.svc.MarkNotificationRead(r.Context(), actor, req.NotificationID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, renderNotification(note))
}
