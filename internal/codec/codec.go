// Package codec converts stamped values to and from the single string
// that both the local and the cloud store persist.
//
// New values are written as a versioned JSON envelope:
//
//	{"v":1,"value":"en","ts":1700000000}
//
// Decode also understands the legacy "<value>::<unix>" form, so data written
// by older clients keeps its timestamp. Anything else decodes to the raw
// string with timestamp 0.
package codec

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/iudanet/vocabsync/internal/models"
)

const (
	// LegacySeparator разделитель значения и timestamp в старом формате
	LegacySeparator = "::"

	envelopeVersion = 1
)

type envelope struct {
	Value     string `json:"value"`
	Version   int    `json:"v"`
	Timestamp int64  `json:"ts"`
}

// Encode stamps value with the given unix timestamp.
func Encode(value string, timestamp int64) string {
	data, err := json.Marshal(envelope{
		Version:   envelopeVersion,
		Value:     value,
		Timestamp: timestamp,
	})
	if err != nil {
		// json.Marshal не падает на string/int полях
		return EncodeLegacy(value, timestamp)
	}
	return string(data)
}

// EncodeLegacy produces the "<value>::<unix>" form. The separator is not
// escaped, so values containing "::" do not survive a round trip.
func EncodeLegacy(value string, timestamp int64) string {
	return value + LegacySeparator + strconv.FormatInt(timestamp, 10)
}

// Decode parses a stored string. It never fails: unrecognised input is
// returned as the value with Timestamp 0.
func Decode(raw string) models.StampedValue {
	if v, ok := decodeEnvelope(raw); ok {
		return v
	}
	if v, ok := decodeLegacy(raw); ok {
		return v
	}
	return models.StampedValue{Value: raw, Timestamp: 0}
}

func decodeEnvelope(raw string) (models.StampedValue, bool) {
	if !strings.HasPrefix(raw, "{") {
		return models.StampedValue{}, false
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return models.StampedValue{}, false
	}
	// Хвост после объекта означает, что это не наш конверт
	if dec.More() {
		return models.StampedValue{}, false
	}
	if env.Version != envelopeVersion {
		return models.StampedValue{}, false
	}

	return models.StampedValue{Value: env.Value, Timestamp: env.Timestamp}, true
}

func decodeLegacy(raw string) (models.StampedValue, bool) {
	parts := strings.Split(raw, LegacySeparator)
	if len(parts) != 2 {
		return models.StampedValue{}, false
	}

	timestamp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return models.StampedValue{}, false
	}

	return models.StampedValue{Value: parts[0], Timestamp: timestamp}, true
}
