package models

import (
	"time"

	"github.com/google/uuid"
)

// Shape is the outline of a table. Values outside the known set are allowed
// and fall back to the template's stored dimensions.
type Shape string

const (
	ShapeRound       Shape = "round"
	ShapeRectangular Shape = "rectangular"
	ShapeSquare      Shape = "square"
	ShapeOval        Shape = "oval"
)

// TableTemplate describes a kind of table a user can place on the floor plan.
// Predefined templates have no owner.
type TableTemplate struct {
	ID           uuid.UUID  `db:"id"            json:"id"`
	Name         string     `db:"name"          json:"name"`
	Shape        Shape      `db:"shape"         json:"shape"`
	BaseWidth    float64    `db:"base_width"    json:"base_width"`
	BaseLength   float64    `db:"base_length"   json:"base_length"`
	SeatCount    int        `db:"seat_count"    json:"seat_count"`
	IsPredefined bool       `db:"is_predefined" json:"is_predefined"`
	OwnerID      *uuid.UUID `db:"owner_id"      json:"owner_id,omitempty"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
}

// VisibleTo reports whether ownerID may use the template: predefined
// templates are shared, the rest belong to one account.
func (t *TableTemplate) VisibleTo(ownerID uuid.UUID) bool {
	return t.IsPredefined || (t.OwnerID != nil && *t.OwnerID == ownerID)
}

// Table is a placed table on an account's seating chart.
type Table struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	Name       string    `db:"name"        json:"name"`
	SeatCount  int       `db:"seat_count"  json:"seat_count"`
	Shape      Shape     `db:"shape"       json:"shape"`
	Width      float64   `db:"width"       json:"width"`
	Length     float64   `db:"length"      json:"length"`
	PositionX  float64   `db:"position_x"  json:"position_x"`
	PositionY  float64   `db:"position_y"  json:"position_y"`
	Rotation   float64   `db:"rotation"    json:"rotation"`
	TemplateID uuid.UUID `db:"template_id" json:"template_id"`
	OwnerID    uuid.UUID `db:"owner_id"    json:"owner_id"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
}

// Chair is a seat around a table. Position is 1-based; Angle is in degrees.
type Chair struct {
	ID        uuid.UUID  `db:"id"         json:"id"`
	TableID   uuid.UUID  `db:"table_id"   json:"table_id"`
	Position  int        `db:"position"   json:"position"`
	Angle     float64    `db:"angle"      json:"angle"`
	GuestID   *uuid.UUID `db:"guest_id"   json:"guest_id,omitempty"`
	OwnerID   uuid.UUID  `db:"owner_id"   json:"owner_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
