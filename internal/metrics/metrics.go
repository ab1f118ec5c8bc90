// Package metrics defines the OpenTelemetry instruments for the ingestion
// pipeline and the aggregation store.
package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Ingestion holds the instruments recorded by the ingestion facade.
// The zero value is safe to use and records nothing.
type Ingestion struct {
	received  metric.Int64Counter
	dropped   metric.Int64Counter
	recompute metric.Float64Histogram
}

// NewIngestion builds the ingestion instruments on the given meter.
func NewIngestion(meter metric.Meter) (*Ingestion, error) {
	received, err := meter.Int64Counter("churn.ingest.records",
		metric.WithDescription("Records received from the stream, by envelope type"))
	if err != nil {
		return nil, err
	}
	dropped, err := meter.Int64Counter("churn.ingest.dropped",
		metric.WithDescription("Records dropped as malformed"))
	if err != nil {
		return nil, err
	}
	recompute, err := meter.Float64Histogram("churn.aggregate.recompute_seconds",
		metric.WithDescription("Wall time spent recomputing aggregate projections"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &Ingestion{received: received, dropped: dropped, recompute: recompute}, nil
}

// RecordReceived counts one accepted record of the given envelope type.
func (m *Ingestion) RecordReceived(ctx context.Context, envelopeType string) {
	if m == nil || m.received == nil {
		return
	}
	m.received.Add(ctx, 1, metric.WithAttributes(attribute.String("type", envelopeType)))
}

// RecordDropped counts one record dropped for the given reason.
func (m *Ingestion) RecordDropped(ctx context.Context, reason string) {
	if m == nil || m.dropped == nil {
		return
	}
	m.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordRecompute records the duration of one projection recompute.
func (m *Ingestion) RecordRecompute(ctx context.Context, d time.Duration) {
	if m == nil || m.recompute == nil {
		return
	}
	m.recompute.Record(ctx, d.Seconds())
}
