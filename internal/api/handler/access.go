package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/weddingdesk/internal/access"
	"github.com/kiranshivaraju/weddingdesk/internal/api/response"
)

// AccessIssuer issues vendor credentials.
type AccessIssuer interface {
	IssueAccess(ctx context.Context, vendorID uuid.UUID) (*access.Issued, error)
}

// AccessVerifier checks a vendor credential pair.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, accessToken, password string) (uuid.UUID, error)
}

// SessionIssuer turns a verified vendor into a session token.
type SessionIssuer interface {
	Issue(vendorID uuid.UUID) (string, time.Time, error)
}

// NewIssueAccessHandler returns an http.HandlerFunc for
// POST /api/v1/admin/vendors/{vendorID}/access. The password appears in
// this response and nowhere else.
func NewIssueAccessHandler(svc AccessIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, ok := pathUUID(w, chi.URLParam(r, "vendorID"), "vendor ID")
		if !ok {
			return
		}

		issued, err := svc.IssueAccess(r.Context(), vendorID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		response.Created(w, issued)
	}
}

type loginRequest struct {
	AccessToken string `json:"access_token"`
	Password    string `json:"password"`
}

type loginResponse struct {
	VendorID     uuid.UUID `json:"vendor_id"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewVendorLoginHandler returns an http.HandlerFunc for
// POST /api/v1/vendor-access/login.
func NewVendorLoginHandler(verifier AccessVerifier, sessions SessionIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		vendorID, err := verifier.VerifyAccess(r.Context(), req.AccessToken, req.Password)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		token, expiresAt, err := sessions.Issue(vendorID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		response.JSON(w, loginResponse{
			VendorID:     vendorID,
			SessionToken: token,
			ExpiresAt:    expiresAt,
		})
	}
}
