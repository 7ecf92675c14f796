package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessCredential is a temporary login that lets a vendor edit their own
// directory profile. The plaintext password is never stored.
type AccessCredential struct {
	ID           uuid.UUID `db:"id"            json:"id"`
	VendorID     uuid.UUID `db:"vendor_id"     json:"vendor_id"`
	AccessToken  string    `db:"access_token"  json:"access_token"`
	PasswordHash string    `db:"password_hash" json:"-"`
	ExpiresAt    time.Time `db:"expires_at"    json:"expires_at"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}

// Active reports whether the credential is still usable at now.
func (c *AccessCredential) Active(now time.Time) bool {
	return now.Before(c.ExpiresAt)
}
