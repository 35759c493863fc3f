package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/clinicdesk/clinicdesk/libs/httpx"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/clinic"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

type AppointmentHandler struct {
	svc *clinic.Service
}

func NewAppointmentHandler(svc *clinic.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

type bookRequest struct {
	SlotID string `json:"slot_id"`
}

type appointmentActionRequest struct {
	AppointmentID string `json:"appointment_id"`
}

func (h *AppointmentHandler) Appointments(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r, actor)
	case http.MethodPost:
		h.book(w, r, actor)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AppointmentHandler) list(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	var day *time.Time
	if dateStr := strings.TrimSpace(r.URL.Query().Get("date")); dateStr != "" {
		d, ok := parseDay(dateStr)
		if !ok {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		day = &d
	}

	appts, err := h.svc.ListAppointments(r.Context(), actor, day)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	items := make([]appointmentItem, 0, len(appts))
	for _, a := range appts {
		items = append(items, renderAppointment(a))
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *AppointmentHandler) book(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.SlotID = strings.TrimSpace(req.SlotID)
	if req.SlotID == "" {
		http.Error(w, "slot_id required", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Book(r.Context(), actor, req.SlotID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, renderAppointment(appt))
}

func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	appointmentID, ok := decodeAction(w, r)
	if !ok {
		return
	}
	appt, err := h.svc.Confirm(r.Context(), actor, appointmentID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, renderAppointment(appt))
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	appointmentID, ok := decodeAction(w, r)
	if !ok {
		return
	}
	appt, err := h.svc.Cancel(r.Context(), actor, appointmentID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, renderAppointment(appt))
}

func decodeAction(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	var req appointmentActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return "", false
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.AppointmentID == "" {
		http.Error(w, "appointment_id required", http.StatusBadRequest)
		return "", false
	}
	return req.AppointmentID, true
}
