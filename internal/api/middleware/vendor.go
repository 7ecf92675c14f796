package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/weddingdesk/internal/api/response"
)

// SessionParser resolves a vendor session token to the vendor it was
// issued to.
type SessionParser interface {
	Parse(token string) (uuid.UUID, error)
}

// VendorSession guards routes that only a signed-in vendor may call.
type VendorSession struct {
	sessions SessionParser
}

func NewVendorSession(p SessionParser) *VendorSession {
	return &VendorSession{sessions: p}
}

// Authenticate requires a valid vendor session token and puts the vendor id
// in the request context.
func (v *VendorSession) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		vendorID, err := v.sessions.Parse(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Vendor session is invalid or expired", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetVendorID(r.Context(), vendorID)))
	})
}

// RequireOwnRecord rejects requests whose URL parameter param names a vendor
// other than the one signed in.
func (v *VendorSession) RequireOwnRecord(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signedIn, ok := GetVendorID(r)
			if !ok {
				response.Error(w, http.StatusUnauthorized,
					"INVALID_TOKEN", "Vendor session required", nil)
				return
			}

			target, err := uuid.Parse(chi.URLParam(r, param))
			if err != nil || target != signedIn {
				response.Error(w, http.StatusForbidden,
					"FORBIDDEN", "Vendors may only access their own record", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
