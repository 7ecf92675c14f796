package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorProfile is a vendor's entry in the directory. Pricing, Availability,
// and Team are stored as JSON columns but always travel as typed values.
type VendorProfile struct {
	ID           uuid.UUID      `db:"id"           json:"id"`
	Name         string         `db:"name"         json:"name"`
	Category     string         `db:"category"     json:"category"`
	Description  string         `db:"description"  json:"description"`
	Email        string         `db:"email"        json:"email"`
	Phone        string         `db:"phone"        json:"phone"`
	Website      string         `db:"website"      json:"website"`
	Pricing      PricingDetails `db:"pricing"      json:"pricing"`
	Availability Availability   `db:"availability" json:"availability"`
	Team         TeamInfo       `db:"team"         json:"team"`
	CreatedAt    time.Time      `db:"created_at"   json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"   json:"updated_at"`
}

// PricingDetails is a vendor's advertised price range.
type PricingDetails struct {
	Currency string    `json:"currency"           validate:"len=3,uppercase,alpha"`
	MinPrice float64   `json:"min_price"          validate:"min=0"`
	MaxPrice float64   `json:"max_price"          validate:"min=0,gtefield=MinPrice"`
	Packages []Package `json:"packages,omitempty" validate:"dive"`
}

// Package is a named price point offered by a vendor.
type Package struct {
	Name        string  `json:"name"                  validate:"notblank"`
	Price       float64 `json:"price"                 validate:"min=0"`
	Description string  `json:"description,omitempty"`
}

// Availability lists the weekdays a vendor works and dates they are booked.
// Weekdays are full English day names in any case.
type Availability struct {
	Weekdays      []string `json:"weekdays,omitempty"       validate:"dive,weekday"`
	BlackoutDates []string `json:"blackout_dates,omitempty" validate:"dive,datetime=2006-01-02"`
	LeadTimeDays  int      `json:"lead_time_days"           validate:"min=0"`
}

// TeamInfo describes who works for the vendor.
type TeamInfo struct {
	Size    int          `json:"size"              validate:"min=0"`
	Members []TeamMember `json:"members,omitempty" validate:"dive"`
}

// TeamMember is one person on a vendor's team.
type TeamMember struct {
	Name string `json:"name"           validate:"notblank"`
	Role string `json:"role,omitempty"`
}
