// Package repository defines persistence for raw events, prediction scores,
// and intervention logs. The aggregation windows themselves are never
// persisted; the database only backs the history pull endpoints.
package repository

import (
	"context"

	"churn-dashboard/backend/internal/analytics/domain"
)

// Repository is the persistence surface the ingestion facade and HTTP API use.
type Repository interface {
	// SaveEvent persists a raw event. Best-effort from ingestion: callers log and ignore errors.
	SaveEvent(ctx context.Context, rec domain.EventRecord) error
	// SavePrediction persists one churn score for a user.
	SavePrediction(ctx context.Context, rec domain.AlertRecord) error
	// ListEventHistory returns the most recent events, newest first.
	ListEventHistory(ctx context.Context, limit int) ([]domain.EventRecord, error)
	// ListAlertHistory returns scored alerts above threshold joined with
	// customer features, in chronological order, capped at limit.
	ListAlertHistory(ctx context.Context, threshold float64, limit int) ([]domain.AlertRecord, error)
	// SaveIntervention logs a retention action. Sets iv.ID on success.
	SaveIntervention(ctx context.Context, iv *domain.Intervention) error
	// ListInterventions returns a customer's logged actions, newest first.
	ListInterventions(ctx context.Context, customerID string, limit int) ([]domain.Intervention, error)
	// UpsertCustomer inserts or updates a customer feature row.
	UpsertCustomer(ctx context.Context, c domain.Customer) error
	// GetCustomer returns the customer row for id, or nil if not found.
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
}
