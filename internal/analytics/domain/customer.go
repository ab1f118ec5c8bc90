package domain

import "time"

// Customer is the persisted feature row for one subscriber. Only the columns
// the analytics surface reads are modeled.
type Customer struct {
	ID             string
	Tenure         int
	ContractType   string
	MonthlyCharges float64
	PaymentMethod  string
	OnlineSecurity string
	TechSupport    string
}

// Intervention is one logged retention action for a customer.
type Intervention struct {
	ID               int64
	CustomerID       string
	InterventionType string
	Description      string
	Agent            string
	Timestamp        time.Time
}

// Validate checks the intervention for persistence.
func (iv *Intervention) Validate() error {
	if iv.CustomerID == "" {
		return ErrMalformedRecord
	}
	if iv.InterventionType == "" {
		iv.InterventionType = "recommended_action"
	}
	if iv.Timestamp.IsZero() {
		iv.Timestamp = time.Now().UTC()
	}
	return nil
}
