package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stratocrm/strato/internal/api/handler"
	mw "github.com/stratocrm/strato/internal/api/middleware"
	"github.com/stratocrm/strato/internal/api/response"
	"github.com/stratocrm/strato/internal/session"
	"github.com/stratocrm/strato/internal/store"
)

// Dependencies holds everything the router needs. Handlers are built from
// the store here so that every route shares one wiring point.
type Dependencies struct {
	Store    store.Store
	Sessions *session.Store

	Tenancy     *mw.Tenancy
	SessionAuth *mw.SessionAuth
	KeyAuth     *mw.KeyAuth
	RateLimit   *mw.RateLimit

	HealthHandler http.HandlerFunc
}

// NewRouter builds the Chi router with the middleware stack and all routes.
//
// Session-authenticated browser routes and key-authenticated programmatic
// routes are separate groups: sessions carry the tenant they logged into,
// keys carry the tenant that owns them, and neither trusts the other's
// mechanism.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	r.Group(func(r chi.Router) {
		r.Use(deps.Tenancy.Resolve)

		r.Post("/api/auth/login", handler.NewLoginHandler(deps.Store, deps.Sessions))
		r.Post("/api/auth/logout", handler.NewLogoutHandler(deps.Sessions))

		// Browser routes
		r.Group(func(r chi.Router) {
			r.Use(deps.SessionAuth.Authenticate)

			r.Get("/api/auth/me", handler.NewMeHandler(deps.Store))

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireTenant)
				r.Use(deps.RateLimit.Limit)

				r.Post("/api/v1/accounts", handler.NewCreateAccountHandler(deps.Store))
				r.Get("/api/v1/accounts", handler.NewListAccountsHandler(deps.Store))
				r.Get("/api/v1/accounts/{accountID}", handler.NewGetAccountHandler(deps.Store))
				r.Put("/api/v1/accounts/{accountID}", handler.NewUpdateAccountHandler(deps.Store))

				r.Post("/api/v1/contacts", handler.NewCreateContactHandler(deps.Store))
				r.Get("/api/v1/contacts", handler.NewListContactsHandler(deps.Store))
				r.Get("/api/v1/contacts/{contactID}", handler.NewGetContactHandler(deps.Store))
				r.Put("/api/v1/contacts/{contactID}", handler.NewUpdateContactHandler(deps.Store))

				r.Post("/api/v1/tasks", handler.NewCreateAccountTaskHandler(deps.Store))
				r.Get("/api/v1/tasks", handler.NewListAccountTasksHandler(deps.Store))
				r.Get("/api/v1/tasks/{taskID}", handler.NewGetAccountTaskHandler(deps.Store))
				r.Put("/api/v1/tasks/{taskID}", handler.NewUpdateAccountTaskHandler(deps.Store))

				r.Post("/api/v1/deals", handler.NewCreateDealHandler(deps.Store))
				r.Get("/api/v1/deals", handler.NewListDealsHandler(deps.Store))
				r.Get("/api/v1/deals/{dealID}", handler.NewGetDealHandler(deps.Store))
				r.Put("/api/v1/deals/{dealID}", handler.NewUpdateDealHandler(deps.Store))

				r.Post("/api/v1/projects", handler.NewCreateProjectHandler(deps.Store))
				r.Get("/api/v1/projects", handler.NewListProjectsHandler(deps.Store))
				r.Get("/api/v1/projects/{projectID}", handler.NewGetProjectHandler(deps.Store))
				r.Put("/api/v1/projects/{projectID}", handler.NewUpdateProjectHandler(deps.Store))

				r.Post("/api/v1/tickets", handler.NewCreateSupportTicketHandler(deps.Store))
				r.Get("/api/v1/tickets", handler.NewListSupportTicketsHandler(deps.Store))
				r.Get("/api/v1/tickets/{ticketID}", handler.NewGetSupportTicketHandler(deps.Store))
				r.Put("/api/v1/tickets/{ticketID}", handler.NewUpdateSupportTicketHandler(deps.Store))

				r.Post("/api/v1/templates", handler.NewCreateEmailTemplateHandler(deps.Store))
				r.Get("/api/v1/templates", handler.NewListEmailTemplatesHandler(deps.Store))
				r.Get("/api/v1/templates/{templateID}", handler.NewGetEmailTemplateHandler(deps.Store))
				r.Put("/api/v1/templates/{templateID}", handler.NewUpdateEmailTemplateHandler(deps.Store))

				r.Post("/api/v1/journeys", handler.NewCreateDigitalJourneyHandler(deps.Store))
				r.Get("/api/v1/journeys", handler.NewListDigitalJourneysHandler(deps.Store))
				r.Get("/api/v1/journeys/{journeyID}", handler.NewGetDigitalJourneyHandler(deps.Store))
				r.Put("/api/v1/journeys/{journeyID}", handler.NewUpdateDigitalJourneyHandler(deps.Store))

				r.Post("/api/v1/settings", handler.NewCreateModuleSettingHandler(deps.Store))
				r.Get("/api/v1/settings", handler.NewListModuleSettingsHandler(deps.Store))
				r.Get("/api/v1/settings/{settingID}", handler.NewGetModuleSettingHandler(deps.Store))
				r.Put("/api/v1/settings/{settingID}", handler.NewUpdateModuleSettingHandler(deps.Store))
			})
		})

		// Programmatic routes (bearer API keys)
		r.Group(func(r chi.Router) {
			r.Use(deps.KeyAuth.Authenticate)
			r.Use(deps.RateLimit.Limit)

			r.Group(func(r chi.Router) {
				r.Use(deps.KeyAuth.RequireScope("admin"))

				r.Post("/api/v1/admin/keys", handler.NewCreateKeyHandler(deps.Store))
				r.Get("/api/v1/admin/keys", handler.NewListKeysHandler(deps.Store))
				r.Delete("/api/v1/admin/keys/{keyID}", handler.NewRevokeKeyHandler(deps.Store))
			})

			r.Group(func(r chi.Router) {
				r.Use(deps.KeyAuth.RequireScope("platform"))

				r.Post("/api/v1/platform/tenants", handler.NewCreateTenantHandler(deps.Store))
				r.Get("/api/v1/platform/tenants", handler.NewListTenantsHandler(deps.Store))
				r.Put("/api/v1/platform/tenants/{tenantID}", handler.NewUpdateTenantHandler(deps.Store))
				r.Delete("/api/v1/platform/tenants/{tenantID}", handler.NewDeactivateTenantHandler(deps.Store))
			})
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
