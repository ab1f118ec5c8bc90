package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"churn-dashboard/backend/internal/analytics/domain"
)

// PostgresRepository implements Repository over database/sql (pgx stdlib driver).
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// SaveEvent persists a raw event with its detail payload as JSONB.
func (r *PostgresRepository) SaveEvent(ctx context.Context, rec domain.EventRecord) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO events (user_id, event_type, event_timestamp, event_data) VALUES ($1, $2, $3, $4)`,
		rec.UserID, rec.EventType, rec.Timestamp, payload,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// SavePrediction persists one churn score. Alerts without a probability are skipped.
func (r *PostgresRepository) SavePrediction(ctx context.Context, rec domain.AlertRecord) error {
	if rec.ChurnProbability == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO predictions (user_id, churn_probability, prediction_timestamp) VALUES ($1, $2, $3)`,
		rec.UserID, *rec.ChurnProbability, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// ListEventHistory returns the most recent events, newest first.
func (r *PostgresRepository) ListEventHistory(ctx context.Context, limit int) ([]domain.EventRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT event_id, user_id, event_type, event_timestamp, event_data
		   FROM events ORDER BY event_timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []domain.EventRecord
	for rows.Next() {
		var (
			rec  domain.EventRecord
			id   int64
			data []byte
		)
		if err := rows.Scan(&id, &rec.UserID, &rec.EventType, &rec.Timestamp, &data); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		rec.EventID = fmt.Sprintf("%d", id)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Payload)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListAlertHistory joins predictions above threshold with customer features,
// oldest first so the caller can replay them into a chronological window.
func (r *PostgresRepository) ListAlertHistory(ctx context.Context, threshold float64, limit int) ([]domain.AlertRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.user_id, u.tenure, u.contract, u.monthly_charges, p.churn_probability, p.prediction_timestamp
		   FROM predictions p
		   LEFT JOIN users u ON u.customer_id = p.user_id
		  WHERE p.churn_probability > $1
		  ORDER BY p.prediction_timestamp ASC
		  LIMIT $2`, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []domain.AlertRecord
	for rows.Next() {
		var (
			rec      domain.AlertRecord
			tenure   sql.NullInt64
			contract sql.NullString
			charges  sql.NullFloat64
			prob     float64
		)
		if err := rows.Scan(&rec.UserID, &tenure, &contract, &charges, &prob, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		if tenure.Valid {
			rec.Tenure = domain.Float(float64(tenure.Int64))
		}
		if contract.Valid {
			rec.ContractType = contract.String
		}
		if charges.Valid {
			rec.MonthlyCharges = domain.Float(charges.Float64)
		}
		rec.ChurnProbability = domain.Float(prob)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveIntervention logs a retention action. It sets iv.ID on success.
func (r *PostgresRepository) SaveIntervention(ctx context.Context, iv *domain.Intervention) error {
	if err := iv.Validate(); err != nil {
		return err
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO intervention_log (customer_id, intervention_type, description, agent, created_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		iv.CustomerID, iv.InterventionType, iv.Description, iv.Agent, iv.Timestamp,
	).Scan(&iv.ID)
	if err != nil {
		return fmt.Errorf("insert intervention: %w", err)
	}
	return nil
}

// ListInterventions returns a customer's logged actions, newest first.
func (r *PostgresRepository) ListInterventions(ctx context.Context, customerID string, limit int) ([]domain.Intervention, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, customer_id, intervention_type, description, agent, created_at
		   FROM intervention_log WHERE customer_id = $1
		  ORDER BY created_at DESC LIMIT $2`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list interventions: %w", err)
	}
	defer rows.Close()

	var out []domain.Intervention
	for rows.Next() {
		var iv domain.Intervention
		if err := rows.Scan(&iv.ID, &iv.CustomerID, &iv.InterventionType, &iv.Description, &iv.Agent, &iv.Timestamp); err != nil {
			return nil, fmt.Errorf("scan intervention: %w", err)
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// UpsertCustomer inserts or updates a customer feature row.
func (r *PostgresRepository) UpsertCustomer(ctx context.Context, c domain.Customer) error {
	if c.ID == "" {
		return errors.New("customer id is required")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (customer_id, tenure, contract, monthly_charges, payment_method, online_security, tech_support)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (customer_id) DO UPDATE SET
		   tenure = EXCLUDED.tenure,
		   contract = EXCLUDED.contract,
		   monthly_charges = EXCLUDED.monthly_charges,
		   payment_method = EXCLUDED.payment_method,
		   online_security = EXCLUDED.online_security,
		   tech_support = EXCLUDED.tech_support`,
		c.ID, c.Tenure, c.ContractType, c.MonthlyCharges, c.PaymentMethod, c.OnlineSecurity, c.TechSupport,
	)
	if err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}

// GetCustomer returns the customer row for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT customer_id, tenure, contract, monthly_charges, payment_method, online_security, tech_support
		   FROM users WHERE customer_id = $1`, id,
	).Scan(&c.ID, &c.Tenure, &c.ContractType, &c.MonthlyCharges, &c.PaymentMethod, &c.OnlineSecurity, &c.TechSupport)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}
