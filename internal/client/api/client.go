package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iudanet/vocabsync/pkg/api"
)

const (
	// DefaultTimeout таймаут HTTP запросов к облаку
	DefaultTimeout = 30 * time.Second
	// HealthTimeout таймаут проверки доступности облака
	HealthTimeout = 5 * time.Second
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 response from the server.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

var _ CloudKV = (*Client)(nil)

// Client представляет HTTP клиент облачного key/value хранилища
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент. token передается как Bearer токен,
// пустой token отключает авторизацию.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// FetchValue получает значение ключа из облака.
// Отсутствующий ключ (404) возвращается как пустая строка без ошибки.
func (c *Client) FetchValue(ctx context.Context, key string) (string, error) {
	var resp api.ValueResponse
	err := c.doRequest(ctx, http.MethodGet, valuePath(key), nil, &resp)
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("fetch value request failed: %w", err)
	}
	return resp.Value, nil
}

// SaveValue сохраняет значение ключа в облаке
func (c *Client) SaveValue(ctx context.Context, key, value string) error {
	var resp api.SaveValueResponse
	err := c.doRequest(ctx, http.MethodPut, valuePath(key), api.SaveValueRequest{Value: value}, &resp)
	if err != nil {
		return fmt.Errorf("save value request failed: %w", err)
	}
	if !resp.Saved {
		return fmt.Errorf("server did not acknowledge value for key %q", key)
	}
	return nil
}

// ListKeys возвращает ключи, которые хранятся в облаке
func (c *Client) ListKeys(ctx context.Context) ([]string, error) {
	var resp api.KeysResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/kv", nil, &resp); err != nil {
		return nil, fmt.Errorf("list keys request failed: %w", err)
	}
	return resp.Keys, nil
}

// CheckAvailability проверяет доступность сервера через health endpoint
func (c *Client) CheckAvailability(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()

	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return false
	}
	return resp.Status == "ok"
}

func valuePath(key string) string {
	return "/api/v1/kv/" + url.PathEscape(key)
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(respBody))}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			statusErr.Message = errResp.Error
			if errResp.Message != "" {
				statusErr.Message += ": " + errResp.Message
			}
		}
		return statusErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
