package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/kiranshivaraju/weddingdesk/internal/api/middleware"
	"github.com/kiranshivaraju/weddingdesk/internal/api/response"
	"github.com/kiranshivaraju/weddingdesk/pkg/models"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth          *mw.Auth
	RateLimit     *mw.RateLimit
	VendorSession *mw.VendorSession
	CORSOrigins   []string

	HealthHandler http.HandlerFunc

	VendorLogin   http.HandlerFunc
	GetProfile    http.HandlerFunc
	UpdateProfile http.HandlerFunc

	ListTemplates  http.HandlerFunc
	AddTable       http.HandlerFunc
	ListTables     http.HandlerFunc
	DeleteTable    http.HandlerFunc
	ListChairs     http.HandlerFunc
	RecreateChairs http.HandlerFunc

	IssueAccess      http.HandlerFunc
	CreateKeyHandler http.HandlerFunc
	ListKeysHandler  http.HandlerFunc
	RevokeKeyHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	if len(deps.CORSOrigins) > 0 {
		r.Use(mw.CORS(deps.CORSOrigins))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Vendors sign in with their issued credential pair.
	r.With(deps.RateLimit.LimitByClient).
		Post("/api/v1/vendor-access/login", orNotImplemented(deps.VendorLogin))

	r.Group(func(r chi.Router) {
		r.Use(deps.VendorSession.Authenticate)
		r.Use(deps.VendorSession.RequireOwnRecord("vendorID"))

		r.Get("/api/v1/vendors/{vendorID}/profile", orNotImplemented(deps.GetProfile))
		r.Patch("/api/v1/vendors/{vendorID}/profile", orNotImplemented(deps.UpdateProfile))
	})

	// Planner routes, authenticated by account API key.
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Get("/api/v1/table-templates", orNotImplemented(deps.ListTemplates))
		r.Get("/api/v1/tables", orNotImplemented(deps.ListTables))
		r.Get("/api/v1/tables/{tableID}/chairs", orNotImplemented(deps.ListChairs))

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope(models.ScopeWrite))

			r.Post("/api/v1/tables", orNotImplemented(deps.AddTable))
			r.Delete("/api/v1/tables/{tableID}", orNotImplemented(deps.DeleteTable))
			r.Post("/api/v1/tables/{tableID}/chairs", orNotImplemented(deps.RecreateChairs))
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope(models.ScopeAdmin))

			r.Post("/api/v1/admin/vendors/{vendorID}/access", orNotImplemented(deps.IssueAccess))

			r.Post("/api/v1/admin/keys", orNotImplemented(deps.CreateKeyHandler))
			r.Get("/api/v1/admin/keys", orNotImplemented(deps.ListKeysHandler))
			r.Delete("/api/v1/admin/keys/{keyID}", orNotImplemented(deps.RevokeKeyHandler))
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
