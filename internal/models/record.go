package models

import "time"

// Record is a single value kept by the cloud store for one user.
type Record struct {
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `json:"user_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"` // Value хранится как есть, сервер его не разбирает
}
