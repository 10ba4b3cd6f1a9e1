package handler

import (
	"errors"
	"net/http"
	"time"

	mw "github.com/stratocrm/strato/internal/api/middleware"
	"github.com/stratocrm/strato/internal/api/response"
	"github.com/stratocrm/strato/internal/session"
	"github.com/stratocrm/strato/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// NewLoginHandler returns the handler for POST /api/auth/login.
//
// The tenant resolved from the hostname always wins; the body's tenant field
// only matters when the request arrived without a tenant hostname (the edge
// injects it from the subdomain, so browser logins normally carry both and
// they agree). Unknown tenant, unknown user, and bad password all produce the
// same 401 so callers cannot probe for accounts.
func NewLoginHandler(s store.Store, sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Tenant   string `json:"tenant"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Username == "" || req.Password == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"username and password are required", nil)
			return
		}

		ten, ok := mw.GetTenant(r)
		if !ok {
			if req.Tenant == "" {
				response.Error(w, http.StatusBadRequest, "TENANT_REQUIRED",
					"No tenant could be determined for this login", nil)
				return
			}
			var err error
			ten, err = s.GetTenantBySlug(r.Context(), req.Tenant)
			if errors.Is(err, store.ErrNotFound) {
				unauthorized(w)
				return
			}
			if err != nil {
				response.Error(w, http.StatusInternalServerError,
					"INTERNAL_ERROR", "Login failed", nil)
				return
			}
		}
		if !ten.Active {
			unauthorized(w)
			return
		}

		user, err := s.GetUserByUsername(r.Context(), ten.ID, req.Username)
		if errors.Is(err, store.ErrNotFound) {
			unauthorized(w)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Login failed", nil)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			unauthorized(w)
			return
		}

		sess, err := sessions.Create(r.Context(), user, ten)
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to create session", nil)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    sess.Token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.SetCookie(w, &http.Cookie{
			Name:  session.TenantCookieName,
			Value: ten.Slug,
			Path:  "/",
		})

		response.JSON(w, map[string]any{
			"token":  sess.Token,
			"user":   user,
			"tenant": ten,
		})
	}
}

// NewLogoutHandler returns the handler for POST /api/auth/logout.
func NewLogoutHandler(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
			_ = sessions.Revoke(r.Context(), c.Value)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
		})
		response.JSON(w, map[string]string{"status": "logged_out"})
	}
}

// NewMeHandler returns the handler for GET /api/auth/me.
func NewMeHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := mw.GetSession(r)
		if !ok {
			unauthorized(w)
			return
		}
		user, err := s.GetUser(r.Context(), sess.UserID, sess.TenantID)
		if errors.Is(err, store.ErrNotFound) {
			unauthorized(w)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to load user", nil)
			return
		}
		response.JSON(w, map[string]any{
			"user":        user,
			"tenant_id":   sess.TenantID,
			"tenant_slug": sess.TenantSlug,
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS",
		"Invalid username or password", nil)
}
