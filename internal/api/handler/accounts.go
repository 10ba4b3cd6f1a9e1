package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	mw "github.com/stratocrm/strato/internal/api/middleware"
	"github.com/stratocrm/strato/internal/api/response"
	"github.com/stratocrm/strato/internal/store"
	"github.com/stratocrm/strato/pkg/models"
)

// requireTenantID reads the resolved tenant id or writes a 401. Routes using
// these handlers sit behind the tenancy middleware, so a miss here means the
// route was wired wrong, not that the client forgot something.
func requireTenantID(w http.ResponseWriter, r *http.Request) (models.TenantID, bool) {
	tenantID, ok := mw.GetTenantID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
	}
	return tenantID, ok
}

func notFound(w http.ResponseWriter) {
	response.Error(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
}

func internalError(w http.ResponseWriter, msg string) {
	response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", msg, nil)
}

// --- Accounts ---

func NewCreateAccountHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		var req struct {
			Name     string     `json:"name"`
			Industry string     `json:"industry"`
			Website  string     `json:"website"`
			OwnerID  *uuid.UUID `json:"owner_id"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		now := time.Now().UTC()
		a := &models.Account{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Name:      req.Name,
			Industry:  req.Industry,
			Website:   req.Website,
			OwnerID:   req.OwnerID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateAccount(r.Context(), a); err != nil {
			internalError(w, "Failed to create account")
			return
		}
		response.Created(w, a)
	}
}

func NewListAccountsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		accounts, err := s.ListAccounts(r.Context(), tenantID)
		if err != nil {
			internalError(w, "Failed to list accounts")
			return
		}
		response.JSON(w, accounts)
	}
}

func NewGetAccountHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "accountID")
		if !ok {
			return
		}
		a, err := s.GetAccount(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load account")
			return
		}
		response.JSON(w, a)
	}
}

func NewUpdateAccountHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "accountID")
		if !ok {
			return
		}
		a, err := s.GetAccount(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load account")
			return
		}
		var req struct {
			Name     *string    `json:"name"`
			Industry *string    `json:"industry"`
			Website  *string    `json:"website"`
			OwnerID  *uuid.UUID `json:"owner_id"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name != nil {
			a.Name = *req.Name
		}
		if req.Industry != nil {
			a.Industry = *req.Industry
		}
		if req.Website != nil {
			a.Website = *req.Website
		}
		if req.OwnerID != nil {
			a.OwnerID = req.OwnerID
		}
		if err := s.UpdateAccount(r.Context(), a); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, "Failed to update account")
			return
		}
		response.JSON(w, a)
	}
}

// --- Contacts ---

func NewCreateContactHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		var req struct {
			AccountID *uuid.UUID `json:"account_id"`
			FirstName string     `json:"first_name"`
			LastName  string     `json:"last_name"`
			Email     string     `json:"email"`
			Phone     string     `json:"phone"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.FirstName == "" && req.LastName == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"a first or last name is required", nil)
			return
		}
		now := time.Now().UTC()
		c := &models.Contact{
			ID:        uuid.New(),
			TenantID:  tenantID,
			AccountID: req.AccountID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.CreateContact(r.Context(), c); err != nil {
			internalError(w, "Failed to create contact")
			return
		}
		response.Created(w, c)
	}
}

func NewListContactsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		contacts, err := s.ListContacts(r.Context(), tenantID)
		if err != nil {
			internalError(w, "Failed to list contacts")
			return
		}
		response.JSON(w, contacts)
	}
}

func NewGetContactHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "contactID")
		if !ok {
			return
		}
		c, err := s.GetContact(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load contact")
			return
		}
		response.JSON(w, c)
	}
}

func NewUpdateContactHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "contactID")
		if !ok {
			return
		}
		c, err := s.GetContact(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load contact")
			return
		}
		var req struct {
			AccountID *uuid.UUID `json:"account_id"`
			FirstName *string    `json:"first_name"`
			LastName  *string    `json:"last_name"`
			Email     *string    `json:"email"`
			Phone     *string    `json:"phone"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.AccountID != nil {
			c.AccountID = req.AccountID
		}
		if req.FirstName != nil {
			c.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			c.LastName = *req.LastName
		}
		if req.Email != nil {
			c.Email = *req.Email
		}
		if req.Phone != nil {
			c.Phone = *req.Phone
		}
		if err := s.UpdateContact(r.Context(), c); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, "Failed to update contact")
			return
		}
		response.JSON(w, c)
	}
}

// --- Account tasks ---

func NewCreateAccountTaskHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		var req struct {
			AccountID  uuid.UUID  `json:"account_id"`
			Title      string     `json:"title"`
			AssigneeID *uuid.UUID `json:"assignee_id"`
			DueDate    *time.Time `json:"due_date"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Title == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "title is required", nil)
			return
		}
		if req.AccountID == uuid.Nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "account_id is required", nil)
			return
		}
		// The referenced account must live in the same tenant.
		if _, err := s.GetAccount(r.Context(), req.AccountID, tenantID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, "Failed to create task")
			return
		}
		now := time.Now().UTC()
		t := &models.AccountTask{
			ID:         uuid.New(),
			TenantID:   tenantID,
			AccountID:  req.AccountID,
			Title:      req.Title,
			Status:     "open",
			AssigneeID: req.AssigneeID,
			DueDate:    req.DueDate,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.CreateAccountTask(r.Context(), t); err != nil {
			internalError(w, "Failed to create task")
			return
		}
		response.Created(w, t)
	}
}

func NewListAccountTasksHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		tasks, err := s.ListAccountTasks(r.Context(), tenantID)
		if err != nil {
			internalError(w, "Failed to list tasks")
			return
		}
		response.JSON(w, tasks)
	}
}

func NewGetAccountTaskHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "taskID")
		if !ok {
			return
		}
		t, err := s.GetAccountTask(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load task")
			return
		}
		response.JSON(w, t)
	}
}

func NewUpdateAccountTaskHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := requireTenantID(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "taskID")
		if !ok {
			return
		}
		t, err := s.GetAccountTask(r.Context(), id, tenantID)
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		if err != nil {
			internalError(w, "Failed to load task")
			return
		}
		var req struct {
			Title      *string    `json:"title"`
			Status     *string    `json:"status"`
			AssigneeID *uuid.UUID `json:"assignee_id"`
			DueDate    *time.Time `json:"due_date"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Title != nil {
			t.Title = *req.Title
		}
		if req.Status != nil {
			t.Status = *req.Status
		}
		if req.AssigneeID != nil {
			t.AssigneeID = req.AssigneeID
		}
		if req.DueDate != nil {
			t.DueDate = req.DueDate
		}
		if err := s.UpdateAccountTask(r.Context(), t); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				notFound(w)
				return
			}
			internalError(w, "Failed to update task")
			return
		}
		response.JSON(w, t)
	}
}
