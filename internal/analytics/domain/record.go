// Package domain defines the records flowing through the analytics core and the
// lifecycle/risk classifiers. Records are immutable once ingested; everything
// derived from them is recomputed, never patched.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMalformedRecord is returned when a wire payload cannot be coerced into a record.
var ErrMalformedRecord = errors.New("malformed record")

// EventRecord is a raw customer lifecycle event from the upstream stream.
type EventRecord struct {
	EventID   string
	UserID    string
	EventType string
	Timestamp time.Time
	Payload   map[string]any
}

// AlertRecord is a scored churn alert. Numeric fields are pointers because the
// upstream feed may omit them; aggregation skips what it cannot classify.
type AlertRecord struct {
	UserID           string
	Tenure           *float64
	ContractType     string
	MonthlyCharges   *float64
	ChurnProbability *float64
	Timestamp        time.Time
}

// HasAggregationFields reports whether tenure and churn probability are both
// present and finite, the precondition for the lifecycle matrix.
func (a AlertRecord) HasAggregationFields() bool {
	return isFinite(a.Tenure) && isFinite(a.ChurnProbability)
}

// HasFlowFields reports whether the record can contribute flow edges:
// tenure, contract type, and churn probability all present.
func (a AlertRecord) HasFlowFields() bool {
	return isFinite(a.Tenure) && a.ContractType != "" && isFinite(a.ChurnProbability)
}

func isFinite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// FeatureImportance is one entry of the externally ranked feature list.
// The core treats the list as opaque, pre-ranked input.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// wireEvent mirrors the upstream event payload. event_timestamp is RFC3339;
// older producers send epoch seconds under "timestamp".
type wireEvent struct {
	EventID        string         `json:"event_id"`
	UserID         string         `json:"user_id"`
	EventType      string         `json:"event_type"`
	EventTimestamp string         `json:"event_timestamp"`
	Timestamp      *float64       `json:"timestamp"`
	Payload        map[string]any `json:"payload"`
}

type wireAlert struct {
	UserID           string   `json:"user_id"`
	Tenure           *float64 `json:"tenure"`
	ContractType     string   `json:"contract_type"`
	MonthlyCharges   *float64 `json:"monthly_charges"`
	ChurnProbability *float64 `json:"churn_probability"`
	EventTimestamp   string   `json:"event_timestamp"`
	Timestamp        *float64 `json:"timestamp"`
}

// ParseEventRecord coerces a wire payload into an EventRecord.
// Returns ErrMalformedRecord when user_id or event_type is missing.
func ParseEventRecord(raw []byte) (EventRecord, error) {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return EventRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if w.UserID == "" || w.EventType == "" {
		return EventRecord{}, fmt.Errorf("%w: event requires user_id and event_type", ErrMalformedRecord)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err == nil {
		payload = prunePayload(payload)
	}
	return EventRecord{
		EventID:   w.EventID,
		UserID:    w.UserID,
		EventType: w.EventType,
		Timestamp: coerceTimestamp(w.EventTimestamp, w.Timestamp),
		Payload:   payload,
	}, nil
}

// ParseAlertRecord coerces a wire payload into an AlertRecord.
// Numeric fields stay absent (nil) when missing; only user_id is required.
func ParseAlertRecord(raw []byte) (AlertRecord, error) {
	var w wireAlert
	if err := json.Unmarshal(raw, &w); err != nil {
		return AlertRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if w.UserID == "" {
		return AlertRecord{}, fmt.Errorf("%w: alert requires user_id", ErrMalformedRecord)
	}
	return AlertRecord{
		UserID:           w.UserID,
		Tenure:           w.Tenure,
		ContractType:     w.ContractType,
		MonthlyCharges:   w.MonthlyCharges,
		ChurnProbability: w.ChurnProbability,
		Timestamp:        coerceTimestamp(w.EventTimestamp, w.Timestamp),
	}, nil
}

func coerceTimestamp(rfc3339 string, epochSeconds *float64) time.Time {
	if rfc3339 != "" {
		if t, err := time.Parse(time.RFC3339Nano, rfc3339); err == nil {
			return t
		}
	}
	if epochSeconds != nil {
		sec, frac := math.Modf(*epochSeconds)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC()
	}
	return time.Now().UTC()
}

// prunePayload drops envelope-level keys so Payload carries only event detail.
func prunePayload(m map[string]any) map[string]any {
	for _, k := range []string{"event_id", "user_id", "event_type", "event_timestamp", "timestamp"} {
		delete(m, k)
	}
	return m
}

// Float is a convenience for building optional numeric fields.
func Float(v float64) *float64 { return &v }
