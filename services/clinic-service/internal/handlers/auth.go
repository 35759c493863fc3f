package handlers

import (
	"net/http"

	"github.com/clinicdesk/clinicdesk/libs/auth"
	"github.com/clinicdesk/clinicdesk/libs/httpx"
	"github.com/clinicdesk/clinicdesk/services/clinic-service/internal/model"
)

// Authenticator turns a Bearer JWT into an Actor. Roles are parsed at this
// boundary; a token carrying an unknown role is rejected outright.
type Authenticator struct {
	secret string
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: secret}
}

type authedHandler func(w http.ResponseWriter, r *http.Request, actor model.Actor)

func (a *Authenticator) Wrap(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := a.actorFromRequest(r)
		if !ok {
			httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r, actor)
	}
}

func (a *Authenticator) actorFromRequest(r *http.Request) (model.Actor, bool) {
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return model.Actor{}, false
	}
	claims, err := auth.ParseAndVerifyHS256(token, a.secret)
	if err != nil || claims.Sub == "" {
		return model.Actor{}, false
	}
	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return model.Actor{}, false
	}
	return model.Actor{UserID: claims.Sub, Role: role}, true
}
