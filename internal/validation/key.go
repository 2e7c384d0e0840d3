package validation

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ReservedPendingKey ключ, под которым в локальном хранилище лежит очередь
// неподтвержденных операций. Приложение не может писать в него напрямую.
const ReservedPendingKey = "pending_operations"

// MaxKeyLen максимальная длина ключа в байтах
const MaxKeyLen = 256

var (
	// ErrInvalidKey indicates that key does not satisfy format requirements
	ErrInvalidKey = errors.New("invalid key")

	// ErrReservedKey indicates that key is reserved for internal use
	ErrReservedKey = errors.New("key is reserved")
)

// ValidateKey проверяет, что ключ можно использовать для значения приложения.
// Ключ должен быть непустой валидной UTF-8 строкой не длиннее MaxKeyLen байт,
// без управляющих символов, и не совпадать с зарезервированным ключом.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}

	if len(key) > MaxKeyLen {
		return fmt.Errorf("%w: key must not exceed %d bytes", ErrInvalidKey, MaxKeyLen)
	}

	if !utf8.ValidString(key) {
		return fmt.Errorf("%w: key must be valid UTF-8", ErrInvalidKey)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: key must not contain control characters", ErrInvalidKey)
		}
	}

	if key == ReservedPendingKey {
		return fmt.Errorf("%w: %q", ErrReservedKey, key)
	}

	return nil
}
