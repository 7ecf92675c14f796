package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/kiranshivaraju/weddingdesk/internal/api/middleware"
	"github.com/kiranshivaraju/weddingdesk/internal/apperr"
	"github.com/kiranshivaraju/weddingdesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- Mock key store ---

type mockKeyStore struct {
	keys []*models.APIKey
	err  error

	mu      sync.Mutex
	touched []uuid.UUID
}

func (m *mockKeyStore) GetAPIKeyByPrefix(_ context.Context, _ string) ([]*models.APIKey, error) {
	return m.keys, m.err
}

func (m *mockKeyStore) UpdateAPIKeyLastUsed(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched = append(m.touched, id)
	return nil
}

func (m *mockKeyStore) touchedIDs() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.touched...)
}

func (m *mockKeyStore) CreateAPIKey(_ context.Context, _ *models.APIKey) error { return nil }
func (m *mockKeyStore) ListAPIKeys(_ context.Context, _ uuid.UUID) ([]*models.APIKey, error) {
	return nil, nil
}
func (m *mockKeyStore) RevokeAPIKey(_ context.Context, _ uuid.UUID, _ uuid.UUID) error { return nil }

// --- Mock Cache ---

type mockCache struct {
	mu      sync.Mutex
	counter int64
	err     error
	lastKey string
}

func (m *mockCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
func (m *mockCache) Get(_ context.Context, _ string) ([]byte, bool, error)            { return nil, false, nil }
func (m *mockCache) Ping(_ context.Context) error                                      { return nil }
func (m *mockCache) IncrWithExpiry(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	m.lastKey = key
	return m.counter, m.err
}

// --- Mock sessions ---

type mockSessions struct {
	tokens map[string]uuid.UUID
}

func (m *mockSessions) Parse(token string) (uuid.UUID, error) {
	id, ok := m.tokens[token]
	if !ok {
		return uuid.Nil, apperr.ErrAccessDenied
	}
	return id, nil
}

// --- helpers ---

func okHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

func hashKey(t *testing.T, rawKey string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func errBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"].(map[string]any)
}

func keyFor(t *testing.T, rawKey string, scopes ...string) *models.APIKey {
	t.Helper()
	return &models.APIKey{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		KeyHash:   hashKey(t, rawKey),
		KeyPrefix: rawKey[:8],
		Scopes:    scopes,
	}
}

// ========================================
// Auth Middleware Tests
// ========================================

func TestAuth_MissingAuthHeader(t *testing.T) {
	auth := mw.NewAuth(&mockKeyStore{})
	handler := auth.Authenticate(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", errBody(t, w)["code"])
}

func TestAuth_InvalidBearerFormat(t *testing.T) {
	auth := mw.NewAuth(&mockKeyStore{})
	handler := auth.Authenticate(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_KeyTooShort(t *testing.T) {
	auth := mw.NewAuth(&mockKeyStore{})
	handler := auth.Authenticate(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer short")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_LookupFails(t *testing.T) {
	auth := mw.NewAuth(&mockKeyStore{err: errors.New("db down")})
	handler := auth.Authenticate(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer wdk_test1234567890")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", errBody(t, w)["code"])
}

func TestAuth_WrongKey(t *testing.T) {
	rawKey := "wdk_test1234567890abcdef"
	key := keyFor(t, "wdk_test_a_different_key", "read")
	key.KeyPrefix = rawKey[:8]
	auth := mw.NewAuth(&mockKeyStore{keys: []*models.APIKey{key}})
	handler := auth.Authenticate(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+rawKey)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidKey(t *testing.T) {
	rawKey := "wdk_test1234567890abcdef"
	key := keyFor(t, rawKey, "read", "write")
	ms := &mockKeyStore{keys: []*models.APIKey{key}}
	auth := mw.NewAuth(ms)

	var gotAccount uuid.UUID
	var gotOK bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccount, gotOK = mw.GetAccountID(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := auth.Authenticate(inner)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "bearer "+rawKey)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gotOK)
	assert.Equal(t, key.AccountID, gotAccount)
	assert.Eventually(t, func() bool {
		return len(ms.touchedIDs()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestAuth_RequireScope_Allowed(t *testing.T) {
	rawKey := "wdk_admn1234567890abcdef"
	auth := mw.NewAuth(&mockKeyStore{keys: []*models.APIKey{keyFor(t, rawKey, "read", "admin")}})
	handler := auth.Authenticate(auth.RequireScope("admin")(okHandler()))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+rawKey)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_RequireScope_Denied(t *testing.T) {
	rawKey := "wdk_read1234567890abcdef"
	auth := mw.NewAuth(&mockKeyStore{keys: []*models.APIKey{keyFor(t, rawKey, "read")}})
	handler := auth.Authenticate(auth.RequireScope("admin")(okHandler()))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+rawKey)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errBody(t, w)["code"])
}

// ========================================
// Vendor Session Middleware Tests
// ========================================

func vendorRouter(v *mw.VendorSession) http.Handler {
	r := chi.NewRouter()
	r.With(v.Authenticate, v.RequireOwnRecord("vendorID")).
		Get("/vendors/{vendorID}/profile", okHandler())
	return r
}

func TestVendorSession_MissingToken(t *testing.T) {
	h := vendorRouter(mw.NewVendorSession(&mockSessions{}))

	req := httptest.NewRequest("GET", "/vendors/"+uuid.NewString()+"/profile", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVendorSession_InvalidToken(t *testing.T) {
	h := vendorRouter(mw.NewVendorSession(&mockSessions{}))

	req := httptest.NewRequest("GET", "/vendors/"+uuid.NewString()+"/profile", nil)
	req.Header.Set("Authorization", "Bearer forged")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", errBody(t, w)["code"])
}

func TestVendorSession_OwnRecord(t *testing.T) {
	vendorID := uuid.New()
	h := vendorRouter(mw.NewVendorSession(&mockSessions{tokens: map[string]uuid.UUID{"good": vendorID}}))

	req := httptest.NewRequest("GET", "/vendors/"+vendorID.String()+"/profile", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVendorSession_OtherVendorForbidden(t *testing.T) {
	h := vendorRouter(mw.NewVendorSession(&mockSessions{tokens: map[string]uuid.UUID{"good": uuid.New()}}))

	req := httptest.NewRequest("GET", "/vendors/"+uuid.NewString()+"/profile", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errBody(t, w)["code"])
}

func TestVendorSession_MalformedVendorID(t *testing.T) {
	h := vendorRouter(mw.NewVendorSession(&mockSessions{tokens: map[string]uuid.UUID{"good": uuid.New()}}))

	req := httptest.NewRequest("GET", "/vendors/not-a-uuid/profile", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ========================================
// Rate Limit Middleware Tests
// ========================================

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	mc := &mockCache{}
	rl := mw.NewRateLimit(mc, 60)
	handler := rl.Limit(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req = req.WithContext(mw.WithKeyPrefix(req.Context(), "wdk_test"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "59", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, "ratelimit:key:wdk_test", mc.lastKey)
}

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	mc := &mockCache{counter: 60}
	rl := mw.NewRateLimit(mc, 60)
	handler := rl.Limit(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req = req.WithContext(mw.WithKeyPrefix(req.Context(), "wdk_over"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", errBody(t, w)["code"])
}

func TestRateLimit_NoKeyPrefix_PassThrough(t *testing.T) {
	mc := &mockCache{}
	handler := mw.NewRateLimit(mc, 60).Limit(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, mc.counter)
}

func TestRateLimit_CacheErrorFailsOpen(t *testing.T) {
	mc := &mockCache{counter: 1000, err: errors.New("redis down")}
	handler := mw.NewRateLimit(mc, 5).Limit(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req = req.WithContext(mw.WithKeyPrefix(req.Context(), "wdk_fail"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_ByClient(t *testing.T) {
	mc := &mockCache{}
	handler := mw.NewRateLimit(mc, 2).LimitByClient(okHandler())

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "203.0.113.9:51234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes[i] = w.Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "ratelimit:ip:203.0.113.9", mc.lastKey)
}

func TestRateLimit_DefaultLimit(t *testing.T) {
	handler := mw.NewRateLimit(&mockCache{}, 0).Limit(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req = req.WithContext(mw.WithKeyPrefix(req.Context(), "wdk_dflt"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Limit"))
}

// ========================================
// CORS Middleware Tests
// ========================================

func TestCORS_Preflight(t *testing.T) {
	handler := mw.CORS([]string{"https://plan.example.com"})(okHandler())

	req := httptest.NewRequest("OPTIONS", "/api/v1/tables", nil)
	req.Header.Set("Origin", "https://plan.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "https://plan.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_UnknownOrigin(t *testing.T) {
	handler := mw.CORS([]string{"https://plan.example.com"})(okHandler())

	req := httptest.NewRequest("GET", "/api/v1/tables", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

// ========================================
// Recovery Middleware Tests
// ========================================

func TestRecovery_CatchesPanic(t *testing.T) {
	panicking := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("something went wrong")
	})

	handler := mw.Recovery(panicking)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", errBody(t, w)["code"])
}

func TestRecovery_NoPanic(t *testing.T) {
	handler := mw.Recovery(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// ========================================
// Logging Middleware Tests
// ========================================

func TestLogger_PassesThrough(t *testing.T) {
	handler := mw.Logger(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
