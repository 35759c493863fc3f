package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/clinicdesk/clinicdesk/libs/httpx"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/clinic"
)

// PublicHandler serves the unauthenticated discovery endpoints clients use
// before booking: the practitioner directory and open availability.
type PublicHandler struct {
	svc *clinic.Service
}

func NewPublicHandler(svc *clinic.Service) *PublicHandler {
	return &PublicHandler{svc: svc}
}

func (h *PublicHandler) Practitioners(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
		practitioner, err := h.svc.GetPractitioner(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		item := renderPractitioner(practitioner)
		item.LicenseNumber = ""
		httpx.WriteJSON(w, http.StatusOK, item)
		return
	}

	specialty := strings.TrimSpace(r.URL.Query().Get("specialty"))
	practitioners, err := h.svc.ListPractitioners(r.Context(), specialty)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	items := make([]practitionerItem, 0, len(practitioners))
	for _, p := range practitioners {
		item := renderPractitioner(p)
		// License numbers are not public.
		item.LicenseNumber = ""
		items = append(items, item)
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *PublicHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	practitionerID := strings.TrimSpace(r.URL.Query().Get("practitioner_id"))
	if practitionerID == "" {
		http.Error(w, "practitioner_id required", http.StatusBadRequest)
		return
	}

	// Absent date means today.
	day := time.Now().UTC()
	if dateStr := strings.TrimSpace(r.URL.Query().Get("date")); dateStr != "" {
		var ok bool
		day, ok = parseDay(dateStr)
		if !ok {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
	}

	slots, err := h.svc.ListAvailable(r.Context(), practitionerID, day)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, renderSlots(slots))
}
