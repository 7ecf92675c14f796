// Package access issues temporary vendor credentials and verifies them.
//
// An administrator issues a credential for a vendor; the vendor exchanges the
// access token and password for proof that they may edit their own profile.
// Credentials stay valid for every request until they expire. There is no
// single-use invalidation and no revocation.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/weddingdesk/internal/apperr"
	"github.com/kiranshivaraju/weddingdesk/internal/store"
	"github.com/kiranshivaraju/weddingdesk/pkg/models"
)

// DefaultCredentialTTL is how long an issued credential stays active.
const DefaultCredentialTTL = 7 * 24 * time.Hour

// Issued is returned once by IssueAccess. The password cannot be retrieved again.
type Issued struct {
	VendorID    uuid.UUID `json:"vendor_id"`
	AccessToken string    `json:"access_token"`
	Password    string    `json:"password"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service issues and verifies vendor access credentials.
type Service struct {
	store    store.AccessStore
	ttl      time.Duration
	now      func() time.Time
	generate func(n int) (string, error)
}

// Option customizes a Service.
type Option func(*Service)

// WithTTL overrides DefaultCredentialTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCodeGenerator replaces GenerateCode.
func WithCodeGenerator(gen func(n int) (string, error)) Option {
	return func(s *Service) { s.generate = gen }
}

// NewService creates a new Service backed by st.
func NewService(st store.AccessStore, opts ...Option) *Service {
	s := &Service{
		store:    st,
		ttl:      DefaultCredentialTTL,
		now:      time.Now,
		generate: GenerateCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueAccess mints a credential for vendorID. The vendor is not validated.
func (s *Service) IssueAccess(ctx context.Context, vendorID uuid.UUID) (*Issued, error) {
	if vendorID == uuid.Nil {
		return nil, apperr.Invalid("vendor_id", "is required")
	}

	token, err := s.generate(CodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	password, err := s.generate(CodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}

	now := s.now().UTC()
	cred := &models.AccessCredential{
		ID:           uuid.New(),
		VendorID:     vendorID,
		AccessToken:  token,
		PasswordHash: HashPassword(password),
		ExpiresAt:    now.Add(s.ttl),
		CreatedAt:    now,
	}

	if err := s.store.CreateAccessCredential(ctx, cred); err != nil {
		return nil, apperr.Persistence("create access credential", err)
	}

	slog.Info("vendor access issued",
		"vendor_id", vendorID,
		"credential_id", cred.ID,
		"expires_at", cred.ExpiresAt,
	)

	return &Issued{
		VendorID:    vendorID,
		AccessToken: token,
		Password:    password,
		ExpiresAt:   cred.ExpiresAt,
	}, nil
}

// VerifyAccess returns the vendor a (token, password) pair unlocks.
// Unknown tokens, expired credentials, and wrong passwords all return
// apperr.ErrAccessDenied. It has no side effects.
func (s *Service) VerifyAccess(ctx context.Context, accessToken, password string) (uuid.UUID, error) {
	if accessToken == "" || password == "" {
		return uuid.Nil, apperr.ErrAccessDenied
	}

	now := s.now().UTC()
	cred, err := s.store.GetActiveAccessCredential(ctx, accessToken, now)
	if errors.Is(err, store.ErrNotFound) {
		return uuid.Nil, apperr.ErrAccessDenied
	}
	if err != nil {
		return uuid.Nil, apperr.Persistence("get access credential", err)
	}

	if !cred.Active(now) || !passwordMatches(password, cred.PasswordHash) {
		return uuid.Nil, apperr.ErrAccessDenied
	}
	return cred.VendorID, nil
}
