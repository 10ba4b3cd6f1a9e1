package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stratocrm/strato/internal/api/response"
	"github.com/stratocrm/strato/internal/store"
	"github.com/stratocrm/strato/pkg/models"
)

// --- Deals ---

func NewCreateDealHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		var req struct {
			AccountID   *uuid.UUID `json:"account_id"`
			Name        string     `json:"name"`
			Stage       string     `json:"stage"`
			AmountCents int64      `json:"amount_cents"`
			CloseDate   *time.Time `json:"close_date"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		stage := req.Stage
		if stage == "" {
			stage = "prospecting"
		}
		now := time.Now().UTC()
		d := &models.Deal{
			ID:          uuid.New(),
			TenantID:    tenantID,
			AccountID:   req.AccountID,
			Name:        req.Name,
			Stage:       stage,
			AmountCents: req.AmountCents,
			CloseDate:   req.CloseDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.CreateDeal(r.Context(), d); err != nil {
			internalError(w, "Failed to create deal")
			return
		}
		response.Created(w, d)
	}
}

func NewListDealsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		deals, err := s.ListDeals(r.Context(), tenantID)
		if err != nil {
			internalError(w, "Failed to list deals")
			return
		}
		response.JSON(w, deals)
	}
}

func NewGetDealHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "dealID")
		if !ok {
			return
		}
		d, err := s.GetDeal(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load deal")
			return
		}
		response.JSON(w, d)
	}
}

func NewUpdateDealHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "dealID")
		if !ok {
			return
		}
		d, err := s.GetDeal(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load deal")
			return
		}
		var req struct {
			AccountID   *uuid.UUID `json:"account_id"`
			Name        *string    `json:"name"`
			Stage       *string    `json:"stage"`
			AmountCents *int64     `json:"amount_cents"`
			CloseDate   *time.Time `json:"close_date"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.AccountID != nil {
			d.AccountID = req.AccountID
		}
		if req.Name != nil {
			d.Name = *req.Name
		}
		if req.Stage != nil {
			d.Stage = *req.Stage
		}
		if req.AmountCents != nil {
			d.AmountCents = *req.AmountCents
		}
		if req.CloseDate != nil {
			d.CloseDate = req.CloseDate
		}
		if err := s.UpdateDeal(r.Context(), d); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, "Failed to update deal")
			return
		}
		response.JSON(w, d)
	}
}

// --- Projects ---

func NewCreateProjectHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		var req struct {
			AccountID *uuid.UUID `json:"account_id"`
			Name      string     `json:"name"`
			Status    string     `json:"status"`
			DueDate   *time.Time `json:"due_date"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		status := req.Status
		if status == "" {
			status = "active"
		}
		now := time.Now().UTC()
		p := &models.Project{
			ID:        uuid.New(),
			TenantID:  tenantID,
			AccountID: req.AccountID,
			Name:      req.Name,
			Status:    status,
			DueDate:   req.DueDate,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateProject(r.Context(), p); err != nil {
			internalError(w, "Failed to create project")
			return
		}
		response.Created(w, p)
	}
}

func NewListProjectsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		projects, err := s.ListProjects(r.Context(), tenantID)
		if err != nil {
			internalError(w, "Failed to list projects")
			return
		}
		response.JSON(w, projects)
	}
}

func NewGetProjectHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "projectID")
		if !ok {
			return
		}
		p, err := s.GetProject(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load project")
			return
		}
		response.JSON(w, p)
	}
}

func NewUpdateProjectHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "projectID")
		if !ok {
			return
		}
		p, err := s.GetProject(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load project")
			return
		}
		var req struct {
			AccountID *uuid.UUID `json:"account_id"`
			Name      *string    `json:"name"`
			Status    *string    `json:"status"`
			DueDate   *time.Time `json:"due_date"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.AccountID != nil {
			p.AccountID = req.AccountID
		}
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Status != nil {
			p.Status = *req.Status
		}
		if req.DueDate != nil {
			p.DueDate = req.DueDate
		}
		if err := s.UpdateProject(r.Context(), p); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, "Failed to update project")
			return
		}
		response.JSON(w, p)
	}
}

// --- Support tickets ---

func NewCreateSupportTicketHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		var req struct {
			AccountID *uuid.UUID `json:"account_id"`
			Subject   string     `json:"subject"`
			Body      string     `json:"body"`
			Priority  string     `json:"priority"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Subject == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "subject is required", nil)
			return
		}
		priority := req.Priority
		if priority == "" {
			priority = "normal"
		}
		now := time.Now().UTC()
		t := &models.SupportTicket{
			ID:        uuid.New(),
			TenantID:  tenantID,
			AccountID: req.AccountID,
			Subject:   req.Subject,
			Body:      req.Body,
			Status:    "open",
			Priority:  priority,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateSupportTicket(r.Context(), t); err != nil {
			internalError(w, "Failed to create ticket")
			return
		}
		response.Created(w, t)
	}
}

func NewListSupportTicketsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		tickets, err := s.ListSupportTickets(r.Context(), tenantID)
		if err != nil {
			internalError(w, "Failed to list tickets")
			return
		}
		response.JSON(w, tickets)
	}
}

func NewGetSupportTicketHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "ticketID")
		if !ok {
			return
		}
		t, err := s.GetSupportTicket(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load ticket")
			return
		}
		response.JSON(w, t)
	}
}

func NewUpdateSupportTicketHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "ticketID")
		if !ok {
			return
		}
		t, err := s.GetSupportTicket(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load ticket")
			return
		}
		var req struct {
			Subject  *string `json:"subject"`
			Body     *string `json:"body"`
			Status   *string `json:"status"`
			Priority *string `json:"priority"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Subject != nil {
			t.Subject = *req.Subject
		}
		if req.Body != nil {
			t.Body = *req.Body
		}
		if req.Status != nil {
			t.Status = *req.Status
		}
		if req.Priority != nil {
			t.Priority = *req.Priority
		}
		if err := s.UpdateSupportTicket(r.Context(), t); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, "Failed to update ticket")
			return
		}
		response.JSON(w, t)
	}
}
