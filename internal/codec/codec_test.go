package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/vocabsync/internal/models"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		timestamp int64
	}{
		{"simple value", "en", 1700000000},
		{"empty value", "", 1700000000},
		{"value with separator", "a::b", 42},
		{"value ending with separator", "trailing::", 42},
		{"json looking value", `{"v":1}`, 7},
		{"unicode", "привет 你好", 1},
		{"zero timestamp", "x", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := Encode(tt.value, tt.timestamp)
			got := Decode(raw)

			assert.Equal(t, models.StampedValue{Value: tt.value, Timestamp: tt.timestamp}, got)
		})
	}
}

func TestEncodeLegacy_RoundTrip(t *testing.T) {
	raw := EncodeLegacy("en", 1700000000)
	assert.Equal(t, "en::1700000000", raw)

	got := Decode(raw)
	assert.Equal(t, "en", got.Value)
	assert.Equal(t, int64(1700000000), got.Timestamp)
}

func TestDecode_Fallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no separator", "garbage-no-separator"},
		{"empty string", ""},
		{"non integer timestamp", "value::notanumber"},
		{"too many separators", "a::b::100"},
		{"unknown envelope version", `{"v":2,"value":"x","ts":5}`},
		{"envelope with extra fields", `{"v":1,"value":"x","ts":5,"extra":true}`},
		{"broken json", `{"v":1,"value":`},
		{"trailing data after envelope", `{"v":1,"value":"x","ts":5} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				got := Decode(tt.raw)
				assert.Equal(t, models.StampedValue{Value: tt.raw, Timestamp: 0}, got)
			})
		})
	}
}

func TestDecode_LegacySeparatorInsideValue(t *testing.T) {
	// Старый формат не экранирует разделитель: такое значение не разбирается
	raw := EncodeLegacy("a::b", 100)
	got := Decode(raw)

	assert.Equal(t, int64(0), got.Timestamp)
	assert.Equal(t, raw, got.Value)
}

func TestEncode_IsEnvelope(t *testing.T) {
	assert.JSONEq(t, `{"v":1,"value":"en","ts":12}`, Encode("en", 12))
}
