package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iudanet/vocabsync/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL, "token-123")

	assert.NotNil(t, client)
	assert.Equal(t, baseURL, client.baseURL)
	assert.Equal(t, "token-123", client.token)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

// TestClient_FetchValue проверяет получение значения
func TestClient_FetchValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/kv/lesson_progress", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(api.ValueResponse{
			Key:   "lesson_progress",
			Value: `{"v":1,"value":"42","ts":1000}`,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "token-123")

	value, err := client.FetchValue(context.Background(), "lesson_progress")

	require.NoError(t, err)
	assert.Equal(t, `{"v":1,"value":"42","ts":1000}`, value)
}

// TestClient_FetchValue_NotFound отсутствующий ключ возвращается как пустая строка
func TestClient_FetchValue_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	value, err := client.FetchValue(context.Background(), "missing")

	require.NoError(t, err)
	assert.Empty(t, value)
}

// TestClient_FetchValue_EscapesKey ключ с разделителями пути экранируется
func TestClient_FetchValue_EscapesKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/kv/deck%2F42", r.URL.EscapedPath())
		_ = json.NewEncoder(w).Encode(api.ValueResponse{Value: "v"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	value, err := client.FetchValue(context.Background(), "deck/42")

	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

// TestClient_FetchValue_Error проверяет обработку ошибок сервера
func TestClient_FetchValue_Error(t *testing.T) {
	tests := []struct {
		responseBody interface{}
		name         string
		wantErr      string
		statusCode   int
	}{
		{
			name:         "internal error",
			statusCode:   http.StatusInternalServerError,
			responseBody: api.ErrorResponse{Error: "internal error", Message: "database is locked"},
			wantErr:      "internal error: database is locked",
		},
		{
			name:         "unauthorized",
			statusCode:   http.StatusUnauthorized,
			responseBody: api.ErrorResponse{Error: "unauthorized"},
			wantErr:      "server error (401): unauthorized",
		},
		{
			name:         "plain text body",
			statusCode:   http.StatusBadGateway,
			responseBody: "bad gateway",
			wantErr:      "server error (502)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if s, ok := tt.responseBody.(string); ok {
					_, _ = w.Write([]byte(s))
					return
				}
				_ = json.NewEncoder(w).Encode(tt.responseBody)
			}))
			defer server.Close()

			client := NewClient(server.URL, "")

			value, err := client.FetchValue(context.Background(), "key")

			require.Error(t, err)
			assert.Empty(t, value)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.False(t, IsNotFound(err))
		})
	}
}

// TestClient_SaveValue проверяет сохранение значения
func TestClient_SaveValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/kv/streak", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.SaveValueRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		assert.Equal(t, `{"v":1,"value":"7","ts":5}`, req.Value)

		_ = json.NewEncoder(w).Encode(api.SaveValueResponse{Key: "streak", Saved: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	err := client.SaveValue(context.Background(), "streak", `{"v":1,"value":"7","ts":5}`)
	require.NoError(t, err)
}

// TestClient_SaveValue_NotAcknowledged ответ без подтверждения считается ошибкой
func TestClient_SaveValue_NotAcknowledged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.SaveValueResponse{Key: "streak", Saved: false})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	err := client.SaveValue(context.Background(), "streak", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not acknowledge")
}

// TestClient_SaveValue_ServerError ошибка сервера пробрасывается вызывающему
func TestClient_SaveValue_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "unavailable"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	err := client.SaveValue(context.Background(), "streak", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

// TestClient_ListKeys проверяет получение списка ключей
func TestClient_ListKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/kv", r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.KeysResponse{Keys: []string{"a", "b"}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	keys, err := client.ListKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

// TestClient_CheckAvailability проверяет запрос /health
func TestClient_CheckAvailability(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		statusCode int
		want       bool
	}{
		{name: "healthy", statusCode: http.StatusOK, status: "ok", want: true},
		{name: "degraded", statusCode: http.StatusServiceUnavailable, status: "degraded", want: false},
		{name: "unexpected status body", statusCode: http.StatusOK, status: "starting", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/v1/health", r.URL.Path)
				w.WriteHeader(tt.statusCode)
				_ = json.NewEncoder(w).Encode(api.HealthResponse{Status: tt.status})
			}))
			defer server.Close()

			client := NewClient(server.URL, "")
			assert.Equal(t, tt.want, client.CheckAvailability(context.Background()))
		})
	}
}

// TestClient_CheckAvailability_Unreachable недоступный сервер не считается доступным
func TestClient_CheckAvailability_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, "")
	assert.False(t, client.CheckAvailability(context.Background()))
}

// TestClient_ContextCanceled отмененный контекст прерывает запрос
func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.ValueResponse{Value: "v"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchValue(ctx, "key")
	require.Error(t, err)
}
