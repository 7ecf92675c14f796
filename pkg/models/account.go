// Package models contains shared data models used across the weddingdesk codebase.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a planning account (a couple or a planner). Tables, chairs, and
// user-defined templates belong to an account.
type Account struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
