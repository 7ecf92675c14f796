// Package apikey mints account API keys. The raw key is returned once; only
// its bcrypt hash and lookup prefix are kept.
package apikey

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/weddingdesk/internal/apperr"
	"github.com/kiranshivaraju/weddingdesk/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	// RawPrefix starts every raw key so leaked keys are easy to grep for.
	RawPrefix = "wdk_"

	// PrefixLen is how much of the raw key is stored in clear for lookup.
	PrefixLen = 8

	randomBytes = 32
)

var knownScopes = map[string]bool{
	models.ScopeRead:  true,
	models.ScopeWrite: true,
	models.ScopeAdmin: true,
}

// New generates a key for accountID. It returns the record to persist and
// the raw key to hand to the caller.
func New(accountID uuid.UUID, name string, scopes []string) (*models.APIKey, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", apperr.Invalid("name", "is required")
	}
	if err := ValidateScopes(scopes); err != nil {
		return nil, "", err
	}

	buf := make([]byte, randomBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, "", fmt.Errorf("generate key: %w", err)
	}
	raw := RawPrefix + hex.EncodeToString(buf)

	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash key: %w", err)
	}

	now := time.Now().UTC()
	return &models.APIKey{
		ID:        uuid.New(),
		AccountID: accountID,
		Name:      name,
		KeyHash:   string(hash),
		KeyPrefix: raw[:PrefixLen],
		Scopes:    scopes,
		CreatedAt: now,
		UpdatedAt: now,
	}, raw, nil
}

// ValidateScopes rejects an empty list and any scope other than read, write,
// or admin. Failures are apperr.ValidationError on field "scopes".
func ValidateScopes(scopes []string) error {
	if len(scopes) == 0 {
		return apperr.Invalid("scopes", "at least one scope is required")
	}
	for _, s := range scopes {
		if !knownScopes[s] {
			return apperr.Invalid("scopes", fmt.Sprintf("unknown scope %q", s))
		}
	}
	return nil
}
