package handler

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/stratocrm/strato/internal/api/response"
	"github.com/stratocrm/strato/internal/store"
	"github.com/stratocrm/strato/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// NewCreateTenantHandler returns the platform-scoped handler for
// POST /api/v1/platform/tenants. It provisions a tenant together with its
// first admin user in one call. The slug becomes the tenant's subdomain, so
// it must be a valid DNS label and must not collide with a reserved alias.
func NewCreateTenantHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Slug          string   `json:"slug"`
			Name          string   `json:"name"`
			AdminEmail    string   `json:"admin_email"`
			Plan          string   `json:"plan"`
			Modules       []string `json:"modules"`
			AdminUsername string   `json:"admin_username"`
			AdminPassword string   `json:"admin_password"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" || req.AdminUsername == "" || req.AdminPassword == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"name, admin_username, and admin_password are required", nil)
			return
		}
		if !slugPattern.MatchString(req.Slug) {
			response.Error(w, http.StatusBadRequest, "INVALID_SLUG",
				"slug must be a lowercase DNS label", nil)
			return
		}
		if models.ReservedSlugs[req.Slug] {
			response.Error(w, http.StatusBadRequest, "INVALID_SLUG",
				"slug is reserved", nil)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to provision tenant", nil)
			return
		}

		plan := req.Plan
		if plan == "" {
			plan = "starter"
		}
		modules := req.Modules
		if modules == nil {
			modules = []string{}
		}

		now := time.Now().UTC()
		ten := &models.Tenant{
			ID:         models.NewTenantID(),
			Slug:       req.Slug,
			Name:       req.Name,
			AdminEmail: req.AdminEmail,
			Active:     true,
			Plan:       plan,
			Modules:    modules,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.CreateTenant(r.Context(), ten); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "SLUG_TAKEN",
					"A tenant with this slug already exists", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to provision tenant", nil)
			return
		}

		admin := &models.User{
			ID:           uuid.New(),
			TenantID:     ten.ID,
			Username:     req.AdminUsername,
			Email:        req.AdminEmail,
			PasswordHash: string(hash),
			Role:         "admin",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.CreateUser(r.Context(), admin); err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Tenant created but admin user failed", nil)
			return
		}

		response.Created(w, map[string]any{
			"tenant": ten,
			"admin":  admin,
		})
	}
}

// NewListTenantsHandler returns the platform-scoped handler for
// GET /api/v1/platform/tenants.
func NewListTenantsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenants, err := s.ListTenants(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to list tenants", nil)
			return
		}
		response.JSON(w, tenants)
	}
}

// NewUpdateTenantHandler returns the platform-scoped handler for
// PUT /api/v1/platform/tenants/{tenantID}. The slug is immutable; it is the
// tenant's address and changing it would orphan every bookmark and session.
func NewUpdateTenantHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "tenantID")
		if !ok {
			return
		}
		ten, err := s.GetTenant(r.Context(), models.TenantID(id))
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "TENANT_NOT_FOUND",
				"Tenant not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to load tenant", nil)
			return
		}

		var req struct {
			Name         *string   `json:"name"`
			AdminEmail   *string   `json:"admin_email"`
			Plan         *string   `json:"plan"`
			Modules      *[]string `json:"modules"`
			CustomDomain *string   `json:"custom_domain"`
			Active       *bool     `json:"active"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name != nil {
			ten.Name = *req.Name
		}
		if req.AdminEmail != nil {
			ten.AdminEmail = *req.AdminEmail
		}
		if req.Plan != nil {
			ten.Plan = *req.Plan
		}
		if req.Modules != nil {
			ten.Modules = *req.Modules
		}
		if req.CustomDomain != nil {
			ten.CustomDomain = req.CustomDomain
		}
		if req.Active != nil {
			ten.Active = *req.Active
		}

		if err := s.UpdateTenant(r.Context(), ten); err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to update tenant", nil)
			return
		}
		response.JSON(w, ten)
	}
}

// NewDeactivateTenantHandler returns the platform-scoped handler for
// DELETE /api/v1/platform/tenants/{tenantID}. Tenants are never hard-deleted.
func NewDeactivateTenantHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "tenantID")
		if !ok {
			return
		}
		err := s.DeactivateTenant(r.Context(), models.TenantID(id))
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "TENANT_NOT_FOUND",
				"Tenant not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to deactivate tenant", nil)
			return
		}
		response.JSON(w, map[string]string{"status": "deactivated"})
	}
}
