package access

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/weddingdesk/internal/apperr"
)

const sessionIssuer = "weddingdesk"

// Sessions issues and parses the short-lived tokens a vendor receives after
// a successful VerifyAccess. A session token binds the client to one vendor.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions creates a Sessions signer. secret must be non-empty.
func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}
}

type sessionClaims struct {
	VendorID string `json:"vendor_id"`
	jwt.RegisteredClaims
}

// Issue signs a session token for vendorID and returns it with its expiry.
func (s *Sessions) Issue(vendorID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := sessionClaims{
		VendorID: vendorID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   vendorID.String(),
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expiresAt, nil
}

// Parse validates a session token and returns the vendor it is bound to.
// Any invalid, forged, or expired token returns apperr.ErrAccessDenied.
func (s *Sessions) Parse(token string) (uuid.UUID, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return uuid.Nil, apperr.ErrAccessDenied
	}

	vendorID, err := uuid.Parse(claims.VendorID)
	if err != nil {
		return uuid.Nil, apperr.ErrAccessDenied
	}
	return vendorID, nil
}
