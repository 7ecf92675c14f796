package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	mw "github.com/kiranshivaraju/weddingdesk/internal/api/middleware"
	"github.com/kiranshivaraju/weddingdesk/internal/store"
	"github.com/kiranshivaraju/weddingdesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyStoreStub struct {
	createErr error
	created   []*models.APIKey
}

func (s *keyStoreStub) GetAPIKeyByPrefix(context.Context, string) ([]*models.APIKey, error) {
	return nil, nil
}
func (s *keyStoreStub) UpdateAPIKeyLastUsed(context.Context, uuid.UUID) error { return nil }
func (s *keyStoreStub) CreateAPIKey(_ context.Context, key *models.APIKey) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, key)
	return nil
}
func (s *keyStoreStub) ListAPIKeys(context.Context, uuid.UUID) ([]*models.APIKey, error) {
	return nil, nil
}
func (s *keyStoreStub) RevokeAPIKey(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func createKey(t *testing.T, st store.APIKeyStore, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/keys", strings.NewReader(body))
	req = req.WithContext(mw.SetAccountID(req.Context(), uuid.New()))
	w := httptest.NewRecorder()

	NewKeys(st).Create(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestKeysCreate_Collision(t *testing.T) {
	st := &keyStoreStub{createErr: store.ErrDuplicateKey}

	status, body := createKey(t, st, `{"name":"seating-ui"}`)

	assert.Equal(t, http.StatusConflict, status)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "DUPLICATE_KEY", errObj["code"])
	assert.NotContains(t, errObj["message"], "name")
}

func TestKeysCreate_ValidationDetails(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"blank name", `{"name":"  "}`, "name"},
		{"unknown scope", `{"name":"k","scopes":["root"]}`, "scopes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &keyStoreStub{}

			status, body := createKey(t, st, tt.body)

			assert.Equal(t, http.StatusBadRequest, status)
			errObj := body["error"].(map[string]any)
			assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
			assert.Equal(t, map[string]any{"field": tt.field}, errObj["details"])
			assert.Empty(t, st.created)
		})
	}
}

func TestKeysCreate_DefaultScopes(t *testing.T) {
	st := &keyStoreStub{}

	status, body := createKey(t, st, `{"name":"seating-ui"}`)

	assert.Equal(t, http.StatusCreated, status)
	require.Len(t, st.created, 1)
	assert.Equal(t, []string{models.ScopeRead, models.ScopeWrite}, st.created[0].Scopes)
	assert.True(t, strings.HasPrefix(body["data"].(map[string]any)["key"].(string), "wdk_"))
}
