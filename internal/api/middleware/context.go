package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	accountIDKey    contextKey = "account_id"
	keyPrefixKey    contextKey = "key_prefix"
	apiKeyScopesKey contextKey = "api_key_scopes"
	vendorIDKey     contextKey = "vendor_id"
)

// SetAccountID stores the authenticated account, the owner of any tables
// the request creates.
func SetAccountID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, accountIDKey, id)
}

func GetAccountID(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(accountIDKey).(uuid.UUID)
	return id, ok
}

// SetVendorID stores the vendor a session token was issued to.
func SetVendorID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, vendorIDKey, id)
}

func GetVendorID(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(vendorIDKey).(uuid.UUID)
	return id, ok
}

func setKeyPrefix(ctx context.Context, prefix string) context.Context {
	return context.WithValue(ctx, keyPrefixKey, prefix)
}

func getKeyPrefix(r *http.Request) (string, bool) {
	prefix, ok := r.Context().Value(keyPrefixKey).(string)
	return prefix, ok
}

// WithKeyPrefix lets tests stand in for Authenticate ahead of RateLimit.
func WithKeyPrefix(ctx context.Context, prefix string) context.Context {
	return setKeyPrefix(ctx, prefix)
}

func setScopes(ctx context.Context, scopes []string) context.Context {
	return context.WithValue(ctx, apiKeyScopesKey, scopes)
}

func getScopes(r *http.Request) []string {
	scopes, _ := r.Context().Value(apiKeyScopesKey).([]string)
	return scopes
}
