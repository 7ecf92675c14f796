// Package layout turns table templates into placed tables with chairs.
package layout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/weddingdesk/internal/apperr"
	"github.com/kiranshivaraju/weddingdesk/internal/cache"
	"github.com/kiranshivaraju/weddingdesk/internal/store"
	"github.com/kiranshivaraju/weddingdesk/pkg/models"
)

const (
	DefaultOriginX = 400
	DefaultOriginY = 300
)

// AddTableParams is the input to AddTable.
type AddTableParams struct {
	Name       string
	TemplateID uuid.UUID
	OwnerID    uuid.UUID
}

// Generator creates tables and their chairs.
type Generator struct {
	store    store.LayoutStore
	cache    cache.Cache
	cacheTTL time.Duration
	originX  float64
	originY  float64
	now      func() time.Time
}

// Option customizes a Generator.
type Option func(*Generator)

// WithTemplateCache reads templates through c. Templates are read-only here,
// so entries only expire by ttl.
func WithTemplateCache(c cache.Cache, ttl time.Duration) Option {
	return func(g *Generator) {
		g.cache = c
		g.cacheTTL = ttl
	}
}

// WithOrigin sets where new tables are placed on the canvas.
func WithOrigin(x, y float64) Option {
	return func(g *Generator) {
		g.originX = x
		g.originY = y
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a Generator backed by st.
func NewGenerator(st store.LayoutStore, opts ...Option) *Generator {
	g := &Generator{
		store:   st,
		originX: DefaultOriginX,
		originY: DefaultOriginY,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddTable validates input, fetches the template, inserts the table, then
// inserts its chairs in one batch. The steps run strictly in that order.
//
// If the chair batch fails the table is returned along with an error
// wrapping ErrChairsNotCreated; the table is not rolled back.
func (g *Generator) AddTable(ctx context.Context, p AddTableParams) (*models.Table, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, apperr.Invalid("name", "is required")
	}
	if p.TemplateID == uuid.Nil {
		return nil, apperr.Invalid("template_id", "is required")
	}
	if p.OwnerID == uuid.Nil {
		return nil, apperr.Invalid("owner_id", "an authenticated account is required")
	}

	tpl, err := g.template(ctx, p.TemplateID, p.OwnerID)
	if err != nil {
		return nil, err
	}
	if tpl.SeatCount <= 0 {
		return nil, apperr.Invalid("template_id", "template has no seats")
	}

	width, length := Dimensions(tpl)
	now := g.now().UTC()
	table := &models.Table{
		ID:         uuid.New(),
		Name:       name,
		SeatCount:  tpl.SeatCount,
		Shape:      tpl.Shape,
		Width:      width,
		Length:     length,
		PositionX:  g.originX,
		PositionY:  g.originY,
		TemplateID: tpl.ID,
		OwnerID:    p.OwnerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := g.store.CreateTable(ctx, table); err != nil {
		return nil, apperr.Persistence("create table", err)
	}

	if err := g.store.CreateChairs(ctx, BuildChairs(table, now)); err != nil {
		slog.Error("chair creation failed",
			"table_id", table.ID,
			"owner_id", table.OwnerID,
			"error", err,
		)
		return table, fmt.Errorf("%w: %w", ErrChairsNotCreated, apperr.Persistence("create chairs", err))
	}

	slog.Info("table created",
		"table_id", table.ID,
		"owner_id", table.OwnerID,
		"shape", table.Shape,
		"seats", table.SeatCount,
	)
	return table, nil
}

// RecreateChairs creates the chairs for a table left without any by a
// failed AddTable. Tables that already have chairs are rejected.
func (g *Generator) RecreateChairs(ctx context.Context, tableID, ownerID uuid.UUID) ([]*models.Chair, error) {
	table, err := g.table(ctx, tableID, ownerID)
	if err != nil {
		return nil, err
	}

	existing, err := g.store.ListChairs(ctx, tableID, ownerID)
	if err != nil {
		return nil, apperr.Persistence("list chairs", err)
	}
	if len(existing) > 0 {
		return nil, apperr.Invalid("table_id", "table already has chairs")
	}

	chairs := BuildChairs(table, g.now().UTC())
	if err := g.store.CreateChairs(ctx, chairs); err != nil {
		return nil, apperr.Persistence("create chairs", err)
	}
	return chairs, nil
}

// ListTemplates returns the predefined templates plus ownerID's own.
func (g *Generator) ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]*models.TableTemplate, error) {
	templates, err := g.store.ListTableTemplates(ctx, ownerID)
	if err != nil {
		return nil, apperr.Persistence("list table templates", err)
	}
	return templates, nil
}

func (g *Generator) ListTables(ctx context.Context, ownerID uuid.UUID) ([]*models.Table, error) {
	tables, err := g.store.ListTables(ctx, ownerID)
	if err != nil {
		return nil, apperr.Persistence("list tables", err)
	}
	return tables, nil
}

func (g *Generator) ListChairs(ctx context.Context, tableID, ownerID uuid.UUID) ([]*models.Chair, error) {
	if _, err := g.table(ctx, tableID, ownerID); err != nil {
		return nil, err
	}
	chairs, err := g.store.ListChairs(ctx, tableID, ownerID)
	if err != nil {
		return nil, apperr.Persistence("list chairs", err)
	}
	return chairs, nil
}

func (g *Generator) DeleteTable(ctx context.Context, tableID, ownerID uuid.UUID) error {
	err := g.store.DeleteTable(ctx, tableID, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("table %s: %w", tableID, apperr.ErrNotFound)
	}
	if err != nil {
		return apperr.Persistence("delete table", err)
	}
	return nil
}

func (g *Generator) table(ctx context.Context, tableID, ownerID uuid.UUID) (*models.Table, error) {
	table, err := g.store.GetTable(ctx, tableID, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("table %s: %w", tableID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("get table", err)
	}
	return table, nil
}

// template loads a template ownerID may use, reading through the cache when
// one is set. Cache failures fall back to the store. Cached entries are keyed
// by id alone, so visibility is checked again on every hit.
func (g *Generator) template(ctx context.Context, id, ownerID uuid.UUID) (*models.TableTemplate, error) {
	key := cache.TableTemplateKey(id)
	if g.cache != nil {
		if raw, found, err := g.cache.Get(ctx, key); err == nil && found {
			var tpl models.TableTemplate
			if err := json.Unmarshal(raw, &tpl); err == nil && tpl.VisibleTo(ownerID) {
				return &tpl, nil
			}
		}
	}

	tpl, err := g.store.GetTableTemplate(ctx, id, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("template %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, apperr.Persistence("get table template", err)
	}

	if g.cache != nil {
		if raw, err := json.Marshal(tpl); err == nil {
			if err := g.cache.Set(ctx, key, raw, g.cacheTTL); err != nil {
				slog.Warn("template cache write failed", "template_id", id, "error", err)
			}
		}
	}
	return tpl, nil
}
