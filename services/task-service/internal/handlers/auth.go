package handlers

import (
	"net/http"

	"github.com/clinicdesk/clinicdesk/libs/auth"
	"github.com/clinicdesk/clinicdesk/libs/httpx"
)

// Authenticator resolves the calling user from a Bearer JWT. Any role may own
// tasks, but the role claim must still be one the identity provider issues.
type Authenticator struct {
	secret string
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: secret}
}

var knownRoles = map[string]struct{}{
	"client":        {},
	"practitioner":  {},
	"administrator": {},
}

type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

func (a *Authenticator) Wrap(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		claims, err := auth.ParseAndVerifyHS256(token, a.secret)
		if err != nil || claims.Sub == "" {
			httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		if _, ok := knownRoles[claims.Role]; !ok {
			httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r, claims.Sub)
	}
}
