package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	mw "github.com/stratocrm/strato/internal/api/middleware"
	"github.com/stratocrm/strato/internal/api/response"
	"github.com/stratocrm/strato/internal/store"
	"github.com/stratocrm/strato/pkg/models"
)

// requireModule rejects requests from tenants whose plan does not include the
// named module.
func requireModule(w http.ResponseWriter, r *http.Request, name string) bool {
	ten, ok := mw.GetTenant(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
		return false
	}
	if !ten.HasModule(name) {
		response.Error(w, http.StatusForbidden, "MODULE_NOT_ENABLED",
			"The "+name+" module is not enabled for this tenant", nil)
		return false
	}
	return true
}

// --- Email templates ---

func NewCreateEmailTemplateHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		if !requireModule(w, r, "marketing") {
			return
		}
		var req struct {
			Name    string `json:"name"`
			Subject string `json:"subject"`
			Body    string `json:"body"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		now := time.Now().UTC()
		t := &models.EmailTemplate{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Name:      req.Name,
			Subject:   req.Subject,
			Body:      req.Body,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateEmailTemplate(r.Context(), t); err != nil {
			internalError(w, "Failed to create template")
			return
		}
		response.Created(w, t)
	}
}

func NewListEmailTemplatesHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		if !requireModule(w, r, "marketing") {
			return
		}
		templates, err := s.ListEmailTemplates(r.Context(), tenantID)
		if err != nil {
			internalError(w, "Failed to list templates")
			return
		}
		response.JSON(w, templates)
	}
}

func NewGetEmailTemplateHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		if !requireModule(w, r, "marketing") {
			return
		}
		id, ok := pathID(w, r, "templateID")
		if !ok {
			return
		}
		t, err := s.GetEmailTemplate(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load template")
			return
		}
		response.JSON(w, t)
	}
}

func NewUpdateEmailTemplateHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		if !requireModule(w, r, "marketing") {
			return
		}
		id, ok := pathID(w, r, "templateID")
		if !ok {
			return
		}
		t, err := s.GetEmailTemplate(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load template")
			return
		}
		var req struct {
			Name    *string `json:"name"`
			Subject *string `json:"subject"`
			Body    *string `json:"body"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name != nil {
			t.Name = *req.Name
		}
		if req.Subject != nil {
			t.Subject = *req.Subject
		}
		if req.Body != nil {
			t.Body = *req.Body
		}
		if err := s.UpdateEmailTemplate(r.Context(), t); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, "Failed to update template")
			return
		}
		response.JSON(w, t)
	}
}

// --- Digital journeys ---

func NewCreateDigitalJourneyHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		if !requireModule(w, r, "marketing") {
			return
		}
		var req struct {
			Name  string          `json:"name"`
			Steps json.RawMessage `json:"steps"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		steps := req.Steps
		if len(steps) == 0 {
			steps = json.RawMessage("[]")
		}
		now := time.Now().UTC()
		j := &models.DigitalJourney{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Name:      req.Name,
			Status:    "draft",
			Steps:     steps,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateDigitalJourney(r.Context(), j); err != nil {
			internalError(w, "Failed to create journey")
			return
		}
		response.Created(w, j)
	}
}

func NewListDigitalJourneysHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		if !requireModule(w, r, "marketing") {
			return
		}
		journeys, err := s.ListDigitalJourneys(r.Context(), tenantID)
		if err != nil {
			internalError(w, "Failed to list journeys")
			return
		}
		response.JSON(w, journeys)
	}
}

func NewGetDigitalJourneyHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		if !requireModule(w, r, "marketing") {
			return
		}
		id, ok := pathID(w, r, "journeyID")
		if !ok {
			return
		}
		j, err := s.GetDigitalJourney(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load journey")
			return
		}
		response.JSON(w, j)
	}
}

func NewUpdateDigitalJourneyHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		if !requireModule(w, r, "marketing") {
			return
		}
		id, ok := pathID(w, r, "journeyID")
		if !ok {
			return
		}
		j, err := s.GetDigitalJourney(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load journey")
			return
		}
		var req struct {
			Name   *string         `json:"name"`
			Status *string         `json:"status"`
			Steps  json.RawMessage `json:"steps"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name != nil {
			j.Name = *req.Name
		}
		if req.Status != nil {
			j.Status = *req.Status
		}
		if len(req.Steps) > 0 {
			j.Steps = req.Steps
		}
		if err := s.UpdateDigitalJourney(r.Context(), j); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, "Failed to update journey")
			return
		}
		response.JSON(w, j)
	}
}

// --- Module settings ---

func NewCreateModuleSettingHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		var req struct {
			Module   string          `json:"module"`
			Enabled  *bool           `json:"enabled"`
			Settings json.RawMessage `json:"settings"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Module == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "module is required", nil)
			return
		}
		enabled := true
		if req.Enabled != nil {
			enabled = *req.Enabled
		}
		now := time.Now().UTC()
		m := &models.ModuleSetting{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Module:    req.Module,
			Enabled:   enabled,
			Settings:  req.Settings,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateModuleSetting(r.Context(), m); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "DUPLICATE",
					"A setting for this module already exists", nil)
				return
			}
			internalError(w, "Failed to create setting")
			return
		}
		response.Created(w, m)
	}
}

func NewListModuleSettingsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		settings, err := s.ListModuleSettings(r.Context(), tenantID)
		if err != nil {
			internalError(w, "Failed to list settings")
			return
		}
		response.JSON(w, settings)
	}
}

func NewGetModuleSettingHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "settingID")
		if !ok {
			return
		}
		m, err := s.GetModuleSetting(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load setting")
			return
		}
		response.JSON(w, m)
	}
}

func NewUpdateModuleSettingHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "settingID")
		if !ok {
			return
		}
		m, err := s.GetModuleSetting(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load setting")
			return
		}
		var req struct {
			Enabled  *bool           `json:"enabled"`
			Settings json.RawMessage `json:"settings"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Enabled != nil {
			m.Enabled = *req.Enabled
		}
		if len(req.Settings) > 0 {
			m.Settings = req.Settings
		}
		if err := s.UpdateModuleSetting(r.Context(), m); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, "Failed to update setting")
			return
		}
		response.JSON(w, m)
	}
}
