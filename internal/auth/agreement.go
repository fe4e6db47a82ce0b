// Package auth holds the dataset usage-agreement gate. Token plumbing
// lives in auth/middleware.
package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	authmw "github.com/mind-engage/populism-atlas/internal/auth/middleware"
	"github.com/mind-engage/populism-atlas/internal/config"
)

const agreementCookie = "gpd_agreement"

// AgreementHandler issues a viewer token once the visitor accepts the
// dataset usage terms. POST /auth/agree {"agreed": true}
func AgreementHandler(a *authmw.AuthService, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Agreed bool `json:"agreed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if !req.Agreed {
			http.Error(w, "usage agreement must be accepted", http.StatusForbidden)
			return
		}

		var sub string
		if c, err := r.Cookie(agreementCookie); err == nil && c.Value != "" {
			sub = c.Value
		} else {
			sub = "viewer|" + uuid.NewString()
		}
		http.SetCookie(w, &http.Cookie{
			Name:     agreementCookie,
			Value:    sub,
			Path:     "/",
			HttpOnly: true,
			Secure:   cfg.Mode == config.ModeOnline,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(a.TTL()),
		})
		authmw.WriteToken(w, a, sub, authmw.RoleViewer)
	}
}
