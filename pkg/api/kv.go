package api

import "time"

// ValueResponse представляет значение ключа, хранящееся в облаке
type ValueResponse struct {
	UpdatedAt time.Time `json:"updated_at"`
	Key       string    `json:"key"`
	Value     string    `json:"value"` // Value закодированное значение с timestamp, сервер его не разбирает
}

// SaveValueRequest представляет запрос на сохранение значения
type SaveValueRequest struct {
	Value string `json:"value"`
}

// SaveValueResponse представляет ответ на сохранение значения
type SaveValueResponse struct {
	Key   string `json:"key"`
	Saved bool   `json:"saved"`
}

// KeysResponse список ключей пользователя
type KeysResponse struct {
	Keys []string `json:"keys"`
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ErrorResponse представляет ошибку API
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
