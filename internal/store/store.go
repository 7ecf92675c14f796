package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/weddingdesk/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
// Services depend on the narrower interfaces embedded below.
type Store interface {
	Ping(ctx context.Context) error
	GetDefaultAccount(ctx context.Context) (*models.Account, error)

	APIKeyStore
	AccessStore
	LayoutStore
	VendorStore
}

// APIKeyStore persists API keys for account authentication.
type APIKeyStore interface {
	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context, accountID uuid.UUID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error
}

// AccessStore persists vendor access credentials (collection vendor_access).
type AccessStore interface {
	CreateAccessCredential(ctx context.Context, cred *models.AccessCredential) error
	// GetActiveAccessCredential returns the credential for token whose expiry
	// is strictly after now, or ErrNotFound.
	GetActiveAccessCredential(ctx context.Context, token string, now time.Time) (*models.AccessCredential, error)
}

// LayoutStore persists table templates, tables, and chairs
// (collections table_templates, seating_tables, table_chairs).
type LayoutStore interface {
	// GetTableTemplate returns a predefined template or one owned by
	// ownerID. Other accounts' templates are reported as ErrNotFound.
	GetTableTemplate(ctx context.Context, id, ownerID uuid.UUID) (*models.TableTemplate, error)
	ListTableTemplates(ctx context.Context, ownerID uuid.UUID) ([]*models.TableTemplate, error)

	CreateTable(ctx context.Context, table *models.Table) error
	GetTable(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.Table, error)
	ListTables(ctx context.Context, ownerID uuid.UUID) ([]*models.Table, error)
	DeleteTable(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error

	CreateChairs(ctx context.Context, chairs []*models.Chair) error
	ListChairs(ctx context.Context, tableID uuid.UUID, ownerID uuid.UUID) ([]*models.Chair, error)
}

// VendorStore reads and writes vendor directory profiles.
type VendorStore interface {
	GetVendorProfile(ctx context.Context, id uuid.UUID) (*models.VendorProfile, error)
	UpdateVendorProfile(ctx context.Context, profile *models.VendorProfile) error
}
