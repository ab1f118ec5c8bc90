package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestParseEventRecord(t *testing.T) {
	raw := []byte(`{"event_id":"e-1","user_id":"u-42","event_type":"contract_downgrade","event_timestamp":"2026-08-28T10:00:00Z","details":"Switched to Month-to-month"}`)

	rec, err := ParseEventRecord(raw)
	if err != nil {
		t.Fatalf("ParseEventRecord: %v", err)
	}
	if rec.UserID != "u-42" {
		t.Errorf("UserID = %q, want %q", rec.UserID, "u-42")
	}
	if rec.EventType != "contract_downgrade" {
		t.Errorf("EventType = %q, want %q", rec.EventType, "contract_downgrade")
	}
	want := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	if !rec.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", rec.Timestamp, want)
	}
	if rec.Payload["details"] != "Switched to Month-to-month" {
		t.Errorf("Payload[details] = %v, want detail string", rec.Payload["details"])
	}
	if _, ok := rec.Payload["user_id"]; ok {
		t.Error("Payload should not repeat envelope fields")
	}
}

func TestParseEventRecord_EpochSecondsFallback(t *testing.T) {
	raw := []byte(`{"user_id":"u-1","event_type":"login","timestamp":1756375200.5}`)

	rec, err := ParseEventRecord(raw)
	if err != nil {
		t.Fatalf("ParseEventRecord: %v", err)
	}
	if rec.Timestamp.Unix() != 1756375200 {
		t.Errorf("Timestamp.Unix() = %d, want 1756375200", rec.Timestamp.Unix())
	}
}

func TestParseEventRecord_Malformed(t *testing.T) {
	for name, raw := range map[string][]byte{
		"not json":     []byte(`{not-json`),
		"missing type": []byte(`{"user_id":"u-1"}`),
		"missing user": []byte(`{"event_type":"login"}`),
	} {
		if _, err := ParseEventRecord(raw); !errors.Is(err, ErrMalformedRecord) {
			t.Errorf("%s: err = %v, want ErrMalformedRecord", name, err)
		}
	}
}

func TestParseAlertRecord(t *testing.T) {
	raw := []byte(`{"user_id":"u-7","tenure":18,"contract_type":"Month-to-month","monthly_charges":79.5,"churn_probability":0.82,"timestamp":1756375200}`)

	rec, err := ParseAlertRecord(raw)
	if err != nil {
		t.Fatalf("ParseAlertRecord: %v", err)
	}
	if rec.UserID != "u-7" {
		t.Errorf("UserID = %q, want %q", rec.UserID, "u-7")
	}
	if rec.Tenure == nil || *rec.Tenure != 18 {
		t.Errorf("Tenure = %v, want 18", rec.Tenure)
	}
	if rec.ChurnProbability == nil || *rec.ChurnProbability != 0.82 {
		t.Errorf("ChurnProbability = %v, want 0.82", rec.ChurnProbability)
	}
	if !rec.HasAggregationFields() {
		t.Error("HasAggregationFields = false, want true")
	}
	if !rec.HasFlowFields() {
		t.Error("HasFlowFields = false, want true")
	}
}

func TestParseAlertRecord_AbsentFields(t *testing.T) {
	raw := []byte(`{"user_id":"u-8","churn_probability":0.4}`)

	rec, err := ParseAlertRecord(raw)
	if err != nil {
		t.Fatalf("ParseAlertRecord: %v", err)
	}
	if rec.Tenure != nil {
		t.Errorf("Tenure = %v, want nil", rec.Tenure)
	}
	if rec.HasAggregationFields() {
		t.Error("HasAggregationFields = true with absent tenure, want false")
	}
	if rec.HasFlowFields() {
		t.Error("HasFlowFields = true with absent contract, want false")
	}
}

func TestHasAggregationFields_NonFinite(t *testing.T) {
	rec := AlertRecord{
		UserID:           "u-9",
		Tenure:           Float(math.NaN()),
		ChurnProbability: Float(0.5),
	}
	if rec.HasAggregationFields() {
		t.Error("HasAggregationFields = true with NaN tenure, want false")
	}
}
