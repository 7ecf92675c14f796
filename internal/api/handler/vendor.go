package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/weddingdesk/internal/api/response"
	"github.com/kiranshivaraju/weddingdesk/internal/vendor"
	"github.com/kiranshivaraju/weddingdesk/pkg/models"
)

// ProfileService reads and edits vendor profiles.
type ProfileService interface {
	GetProfile(ctx context.Context, vendorID uuid.UUID) (*models.VendorProfile, error)
	UpdateProfile(ctx context.Context, vendorID uuid.UUID, patch vendor.ProfilePatch) (*models.VendorProfile, error)
}

// NewGetProfileHandler serves GET /api/v1/vendors/{vendorID}/profile.
func NewGetProfileHandler(svc ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, ok := pathUUID(w, chi.URLParam(r, "vendorID"), "vendor ID")
		if !ok {
			return
		}

		profile, err := svc.GetProfile(r.Context(), vendorID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		response.JSON(w, profile)
	}
}

// NewUpdateProfileHandler serves PATCH /api/v1/vendors/{vendorID}/profile.
func NewUpdateProfileHandler(svc ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, ok := pathUUID(w, chi.URLParam(r, "vendorID"), "vendor ID")
		if !ok {
			return
		}

		var patch vendor.ProfilePatch
		if !decodeJSON(w, r, &patch) {
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), vendorID, patch)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		response.JSON(w, profile)
	}
}
