package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/kiranshivaraju/weddingdesk/internal/api/middleware"
	"github.com/kiranshivaraju/weddingdesk/internal/api/response"
	"github.com/kiranshivaraju/weddingdesk/internal/layout"
	"github.com/kiranshivaraju/weddingdesk/pkg/models"
)

// LayoutService places tables and their chairs.
type LayoutService interface {
	AddTable(ctx context.Context, p layout.AddTableParams) (*models.Table, error)
	RecreateChairs(ctx context.Context, tableID, ownerID uuid.UUID) ([]*models.Chair, error)
	ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]*models.TableTemplate, error)
	ListTables(ctx context.Context, ownerID uuid.UUID) ([]*models.Table, error)
	ListChairs(ctx context.Context, tableID, ownerID uuid.UUID) ([]*models.Chair, error)
	DeleteTable(ctx context.Context, tableID, ownerID uuid.UUID) error
}

// Layout serves the seating-plan endpoints. Every route requires an
// authenticated account, which owns what it creates.
type Layout struct {
	svc LayoutService
}

func NewLayout(svc LayoutService) *Layout {
	return &Layout{svc: svc}
}

type addTableRequest struct {
	Name       string `json:"name"`
	TemplateID string `json:"template_id"`
}

type tableWithChairs struct {
	*models.Table
	Chairs []*models.Chair `json:"chairs,omitempty"`
}

// AddTable serves POST /api/v1/tables.
func (h *Layout) AddTable(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := mw.GetAccountID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing account", nil)
		return
	}

	var req addTableRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// A blank id is left to the generator so it reports the missing field.
	templateID := uuid.Nil
	if req.TemplateID != "" {
		id, ok := pathUUID(w, req.TemplateID, "template_id")
		if !ok {
			return
		}
		templateID = id
	}

	table, err := h.svc.AddTable(r.Context(), layout.AddTableParams{
		Name:       req.Name,
		TemplateID: templateID,
		OwnerID:    ownerID,
	})
	if isChairsNotCreated(err) && table != nil {
		writeChairsNotCreated(w, r, err, table)
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	chairs, err := h.svc.ListChairs(r.Context(), table.ID, ownerID)
	if err != nil {
		// The table and chairs exist; only the echo failed.
		response.Created(w, tableWithChairs{Table: table})
		return
	}
	response.Created(w, tableWithChairs{Table: table, Chairs: chairs})
}

// ListTemplates serves GET /api/v1/table-templates.
func (h *Layout) ListTemplates(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := mw.GetAccountID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing account", nil)
		return
	}

	templates, err := h.svc.ListTemplates(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, nonNil(templates))
}

// ListTables serves GET /api/v1/tables.
func (h *Layout) ListTables(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := mw.GetAccountID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing account", nil)
		return
	}

	tables, err := h.svc.ListTables(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, nonNil(tables))
}

// ListChairs serves GET /api/v1/tables/{tableID}/chairs.
func (h *Layout) ListChairs(w http.ResponseWriter, r *http.Request) {
	ownerID, tableID, ok := h.tableRef(w, r)
	if !ok {
		return
	}

	chairs, err := h.svc.ListChairs(r.Context(), tableID, ownerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, nonNil(chairs))
}

// RecreateChairs serves POST /api/v1/tables/{tableID}/chairs.
func (h *Layout) RecreateChairs(w http.ResponseWriter, r *http.Request) {
	ownerID, tableID, ok := h.tableRef(w, r)
	if !ok {
		return
	}

	chairs, err := h.svc.RecreateChairs(r.Context(), tableID, ownerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Created(w, chairs)
}

// DeleteTable serves DELETE /api/v1/tables/{tableID}.
func (h *Layout) DeleteTable(w http.ResponseWriter, r *http.Request) {
	ownerID, tableID, ok := h.tableRef(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteTable(r.Context(), tableID, ownerID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.NoContent(w)
}

func (h *Layout) tableRef(w http.ResponseWriter, r *http.Request) (ownerID, tableID uuid.UUID, ok bool) {
	ownerID, ok = mw.GetAccountID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing account", nil)
		return uuid.Nil, uuid.Nil, false
	}
	tableID, ok = pathUUID(w, chi.URLParam(r, "tableID"), "table ID")
	return ownerID, tableID, ok
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
