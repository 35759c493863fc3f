package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/clinicdesk/clinicdesk/libs/apperr"
)

// WriteError maps an apperr kind to an HTTP status and writes a JSON error
// body. Errors outside the taxonomy become 500 with a generic message so
// internals never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
		msg = err.Error()
	case apperr.KindConflict:
		status = http.StatusConflict
		msg = err.Error()
	case apperr.KindNotFound:
		status = http.StatusNotFound
		msg = err.Error()
	case apperr.KindPermission:
		status = http.StatusForbidden
		msg = err.Error()
	}
	WriteJSON(w, status, map[string]string{"error": msg})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
