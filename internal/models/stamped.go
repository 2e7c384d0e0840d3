package models

// StampedValue представляет значение вместе с временем его записи.
// Timestamp хранится в unix-секундах; значение без распознанного timestamp
// считается самым старым (Timestamp = 0).
type StampedValue struct {
	Value     string `json:"value"`     // Value пользовательское значение
	Timestamp int64  `json:"timestamp"` // Timestamp время записи (unix seconds)
}

// IsNewerThan reports whether v was written strictly later than other.
func (v StampedValue) IsNewerThan(other StampedValue) bool {
	return v.Timestamp > other.Timestamp
}

// IsStamped reports whether the value carries a real timestamp.
func (v StampedValue) IsStamped() bool {
	return v.Timestamp > 0
}
