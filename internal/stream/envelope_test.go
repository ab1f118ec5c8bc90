package stream

import (
	"errors"
	"testing"

	"churn-dashboard/backend/internal/analytics/domain"
)

func TestDecodeEnvelope_KnownTypes(t *testing.T) {
	for _, typ := range []string{TypeNewEvent, TypeChurnAlert} {
		env, err := DecodeEnvelope([]byte(`{"type":"` + typ + `","payload":{"user_id":"u-1"}}`))
		if err != nil {
			t.Fatalf("DecodeEnvelope(%s): %v", typ, err)
		}
		if env.Type != typ {
			t.Errorf("Type = %q, want %q", env.Type, typ)
		}
		if len(env.Payload) == 0 {
			t.Error("Payload is empty")
		}
	}
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	for name, raw := range map[string][]byte{
		"not json":     []byte(`<html>`),
		"unknown type": []byte(`{"type":"heartbeat","payload":{}}`),
		"no type":      []byte(`{"payload":{}}`),
	} {
		if _, err := DecodeEnvelope(raw); !errors.Is(err, domain.ErrMalformedRecord) {
			t.Errorf("%s: err = %v, want ErrMalformedRecord", name, err)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw, err := EncodeAlertEnvelope(map[string]any{"user_id": "u-9", "churn_probability": 0.8})
	if err != nil {
		t.Fatalf("EncodeAlertEnvelope: %v", err)
	}
	env, err := DecodeEnvelope(raw)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if env.Type != TypeChurnAlert {
		t.Errorf("Type = %q, want %q", env.Type, TypeChurnAlert)
	}
	rec, err := domain.ParseAlertRecord(env.Payload)
	if err != nil {
		t.Fatalf("ParseAlertRecord: %v", err)
	}
	if rec.UserID != "u-9" || rec.ChurnProbability == nil || *rec.ChurnProbability != 0.8 {
		t.Errorf("decoded alert = %+v, want u-9 / 0.8", rec)
	}
}
