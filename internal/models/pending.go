package models

// OperationType тип отложенной операции
type OperationType string

const (
	// OperationSave сохранение значения в облако
	OperationSave OperationType = "save"
)

// PendingOperation представляет запись, которая уже попала в локальное
// хранилище, но еще не подтверждена облаком.
type PendingOperation struct {
	ID        string        `json:"id"`        // ID уникальный идентификатор операции (UUID)
	Type      OperationType `json:"type"`      // Type тип операции
	Key       string        `json:"key"`       // Key ключ значения
	Value     string        `json:"value"`     // Value уже закодированное значение (с timestamp)
	Timestamp int64         `json:"timestamp"` // Timestamp время создания операции (unix seconds)
}

// SameTarget reports whether both operations address the same key with the same type.
// The pending queue keeps at most one operation per target.
func (op PendingOperation) SameTarget(other PendingOperation) bool {
	return op.Key == other.Key && op.Type == other.Type
}
