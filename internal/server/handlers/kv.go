package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/vocabsync/internal/models"
	"github.com/iudanet/vocabsync/internal/server/storage"
	"github.com/iudanet/vocabsync/internal/validation"
	"github.com/iudanet/vocabsync/pkg/api"
)

// MaxValueBytes максимальный размер тела PUT запроса
const MaxValueBytes = 1 << 20

// KVHandler handles per-user key/value requests
type KVHandler struct {
	logger  *slog.Logger
	storage storage.RecordStorage
	now     func() time.Time
}

// NewKVHandler creates a new key/value handler
func NewKVHandler(logger *slog.Logger, storage storage.RecordStorage) *KVHandler {
	return &KVHandler{
		logger:  logger,
		storage: storage,
		now:     time.Now,
	}
}

// GetValue обрабатывает GET /api/v1/kv/{key}
func (h *KVHandler) GetValue(w http.ResponseWriter, r *http.Request) {
	userID, key, ok := h.requestTarget(w, r)
	if !ok {
		return
	}

	record, err := h.storage.GetRecord(r.Context(), userID, key)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "not found", "")
			return
		}
		h.logger.Error("Failed to get record", "error", err, "user_id", userID)
		writeError(w, h.logger, http.StatusInternalServerError, "internal error", "")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.ValueResponse{
		Key:       record.Key,
		Value:     record.Value,
		UpdatedAt: record.UpdatedAt,
	})
}

// PutValue обрабатывает PUT /api/v1/kv/{key}
// Значение сохраняется как есть: сравнение timestamp делают клиенты
func (h *KVHandler) PutValue(w http.ResponseWriter, r *http.Request) {
	userID, key, ok := h.requestTarget(w, r)
	if !ok {
		return
	}

	var req api.SaveValueRequest
	body := http.MaxBytesReader(w, r.Body, MaxValueBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	record := &models.Record{
		UserID:    userID,
		Key:       key,
		Value:     req.Value,
		UpdatedAt: h.now(),
	}
	if err := h.storage.PutRecord(r.Context(), record); err != nil {
		h.logger.Error("Failed to put record", "error", err, "user_id", userID)
		writeError(w, h.logger, http.StatusInternalServerError, "internal error", "")
		return
	}

	h.logger.Debug("Value saved", "user_id", userID, "size", len(req.Value))

	writeJSON(w, h.logger, http.StatusOK, api.SaveValueResponse{Key: key, Saved: true})
}

// ListKeys обрабатывает GET /api/v1/kv
func (h *KVHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		writeError(w, h.logger, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	keys, err := h.storage.ListKeys(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list keys", "error", err, "user_id", userID)
		writeError(w, h.logger, http.StatusInternalServerError, "internal error", "")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.KeysResponse{Keys: keys})
}

// requestTarget извлекает пользователя и ключ, отвечая ошибкой если они невалидны
func (h *KVHandler) requestTarget(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		writeError(w, h.logger, http.StatusUnauthorized, "unauthorized", "")
		return "", "", false
	}

	key, err := keyParam(r)
	if err == nil {
		err = validation.ValidateKey(key)
	}
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid key", err.Error())
		return "", "", false
	}

	return userID, key, true
}

// keyParam возвращает ключ из пути. chi сопоставляет маршрут по RawPath,
// если он задан, поэтому экранированный сегмент нужно раскодировать.
func keyParam(r *http.Request) (string, error) {
	key := chi.URLParam(r, "key")
	if r.URL.RawPath == "" {
		return key, nil
	}
	return url.PathUnescape(key)
}
