// Package stream carries event/alert envelopes over Kafka: a producer for the
// scoring side and a consumer the ingestion facade reads from.
package stream

import (
	"encoding/json"
	"fmt"

	"churn-dashboard/backend/internal/analytics/domain"
)

// Envelope message types on the wire.
const (
	TypeNewEvent   = "new_event"
	TypeChurnAlert = "churn_alert"
)

// Envelope is the typed wrapper around every stream message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeEnvelope parses a raw stream message. Returns ErrMalformedRecord
// (wrapped) for unparseable bodies or unknown types so the caller can drop
// and continue.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: envelope: %v", domain.ErrMalformedRecord, err)
	}
	switch env.Type {
	case TypeNewEvent, TypeChurnAlert:
		return env, nil
	default:
		return Envelope{}, fmt.Errorf("%w: unknown envelope type %q", domain.ErrMalformedRecord, env.Type)
	}
}

// EncodeEventEnvelope wraps an event payload for the stream.
func EncodeEventEnvelope(payload any) ([]byte, error) {
	return encodeEnvelope(TypeNewEvent, payload)
}

// EncodeAlertEnvelope wraps an alert payload for the stream.
func EncodeAlertEnvelope(payload any) ([]byte, error) {
	return encodeEnvelope(TypeChurnAlert, payload)
}

func encodeEnvelope(typ string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("envelope payload: %w", err)
	}
	return json.Marshal(Envelope{Type: typ, Payload: body})
}
