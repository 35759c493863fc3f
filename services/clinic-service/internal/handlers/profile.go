package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/clinicdesk/clinicdesk/libs/httpx"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/clinic"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

type ProfileHandler struct {
	svc *clinic.Service
}

func NewProfileHandler(svc *clinic.Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type updateProfileRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Specialty     *string `json:"specialty"`
	LicenseNumber *string `json:"license_number"`
}

// Me serves the calling practitioner's own profile: GET reads it, PATCH
// applies a partial update.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	switch r.Method {
	case http.MethodGet:
		practitioner, err := h.svc.CurrentPractitioner(r.Context(), actor)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, renderPractitioner(practitioner))
	case http.MethodPatch:
		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json body", http.StatusBadRequest)
			return
		}
		practitioner, err := h.svc.UpdatePractitionerProfile(r.Context(), actor, clinic.ProfileUpdate{
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			Specialty:     req.Specialty,
			LicenseNumber: req.LicenseNumber,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, renderPractitioner(practitioner))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
