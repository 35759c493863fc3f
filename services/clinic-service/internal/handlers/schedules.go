package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clinicdesk/clinicdesk/libs/httpx"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/clinic"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

type ScheduleHandler struct {
	svc *clinic.Service
}

func NewScheduleHandler(svc *clinic.Service) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

type createSlotRequest struct {
	PractitionerID string `json:"practitioner_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
}

func (h *ScheduleHandler) Schedules(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r, actor)
	case http.MethodPost:
		h.create(w, r, actor)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ScheduleHandler) list(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	slots, err := h.svc.ListSchedules(r.Context(), actor)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, renderSlots(slots))
}

func (h *ScheduleHandler) create(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	var req createSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	day, ok := parseDay(strings.TrimSpace(req.Date))
	if !ok {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	start, ok := combineDayClock(day, strings.TrimSpace(req.StartTime))
	if !ok {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}
	end, ok := combineDayClock(day, strings.TrimSpace(req.EndTime))
	if !ok {
		http.Error(w, "invalid end_time", http.StatusBadRequest)
		return
	}

	slot, err := h.svc.CreateSlot(r.Context(), actor, strings.TrimSpace(req.PractitionerID), start, end)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, renderSlot(slot))
}

type deleteSlotRequest struct {
	SlotID string `json:"slot_id"`
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req deleteSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.SlotID = strings.TrimSpace(req.SlotID)
	if req.SlotID == "" {
		http.Error(w, "slot_id required", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteSlot(r.Context(), actor, req.SlotID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
