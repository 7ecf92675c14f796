package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/kiranshivaraju/weddingdesk/internal/api/middleware"
	"github.com/kiranshivaraju/weddingdesk/internal/api/response"
	"github.com/kiranshivaraju/weddingdesk/internal/apikey"
	"github.com/kiranshivaraju/weddingdesk/internal/store"
	"github.com/kiranshivaraju/weddingdesk/pkg/models"
)

// Keys serves API key management for the calling account.
type Keys struct {
	store store.APIKeyStore
}

func NewKeys(s store.APIKeyStore) *Keys {
	return &Keys{store: s}
}

type createKeyRequest struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

type createKeyResponse struct {
	*models.APIKey
	Key string `json:"key"`
}

// Create serves POST /api/v1/admin/keys. The raw key is only in this
// response.
func (h *Keys) Create(w http.ResponseWriter, r *http.Request) {
	accountID, ok := mw.GetAccountID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing account", nil)
		return
	}

	var req createKeyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Scopes) == 0 {
		req.Scopes = []string{models.ScopeRead, models.ScopeWrite}
	}

	key, raw, err := apikey.New(accountID, req.Name, req.Scopes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.store.CreateAPIKey(r.Context(), key); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			response.Error(w, http.StatusConflict, "DUPLICATE_KEY", "API key collided with an existing key, retry the request", nil)
			return
		}
		slog.Error("create api key", "account_id", accountID, "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create API key", nil)
		return
	}

	slog.Info("api key created", "account_id", accountID, "key_id", key.ID, "prefix", key.KeyPrefix)
	w.Header().Set("Cache-Control", "no-store")
	response.Created(w, createKeyResponse{APIKey: key, Key: raw})
}

// List serves GET /api/v1/admin/keys.
func (h *Keys) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := mw.GetAccountID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing account", nil)
		return
	}

	keys, err := h.store.ListAPIKeys(r.Context(), accountID)
	if err != nil {
		slog.Error("list api keys", "account_id", accountID, "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list API keys", nil)
		return
	}
	response.JSON(w, nonNil(keys))
}

// Revoke serves DELETE /api/v1/admin/keys/{keyID}.
func (h *Keys) Revoke(w http.ResponseWriter, r *http.Request) {
	accountID, ok := mw.GetAccountID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing account", nil)
		return
	}
	keyID, ok := pathUUID(w, chi.URLParam(r, "keyID"), "key ID")
	if !ok {
		return
	}

	err := h.store.RevokeAPIKey(r.Context(), keyID, accountID)
	if errors.Is(err, store.ErrNotFound) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "API key not found", nil)
		return
	}
	if err != nil {
		slog.Error("revoke api key", "key_id", keyID, "error", err)
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to revoke API key", nil)
		return
	}
	response.NoContent(w)
}
