package access

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/weddingdesk/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSessions_IssueAndParse(t *testing.T) {
	s := NewSessions(testSecret, time.Hour)
	vendorID := uuid.New()

	token, expiresAt, err := s.Issue(vendorID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	got, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, vendorID, got)
}

func TestSessions_Expired(t *testing.T) {
	s := NewSessions(testSecret, time.Minute)
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issuedAt }

	token, _, err := s.Issue(uuid.New())
	require.NoError(t, err)

	s.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	_, err = s.Parse(token)
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)
}

func TestSessions_WrongSecret(t *testing.T) {
	token, _, err := NewSessions(testSecret, time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewSessions("another-secret-another-secret-xx", time.Hour).Parse(token)
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)
}

func TestSessions_RejectsNoneAlgorithm(t *testing.T) {
	claims := sessionClaims{
		VendorID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSessions(testSecret, time.Hour).Parse(token)
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)
}

func TestSessions_Garbage(t *testing.T) {
	_, err := NewSessions(testSecret, time.Hour).Parse("not.a.token")
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)
}
