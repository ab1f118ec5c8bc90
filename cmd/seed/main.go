// seed inserts synthetic customers and historical churn alerts so a fresh
// environment renders projections immediately. Idempotent enough for local
// use: customers are upserted, and alert rows older than the window cap age
// out of the dashboard on the next refresh anyway.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"churn-dashboard/backend/internal/analytics/domain"
	"churn-dashboard/backend/internal/analytics/repository"
	"churn-dashboard/backend/internal/config"
	"churn-dashboard/backend/internal/db"
)

const (
	seedCustomers = 60
	seedAlerts    = 200
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
		os.Exit(1)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	repo := repository.NewPostgresRepository(conn)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	contracts := []string{"Month-to-month", "One year", "Two year"}
	payments := []string{"Electronic check", "Mailed check", "Credit card (automatic)", "Bank transfer (automatic)"}
	yesNo := []string{"Yes", "No"}

	customers := make([]domain.Customer, 0, seedCustomers)
	for i := 0; i < seedCustomers; i++ {
		c := domain.Customer{
			ID:             fmt.Sprintf("seed-%04d", i),
			Tenure:         rng.Intn(72),
			ContractType:   contracts[rng.Intn(len(contracts))],
			MonthlyCharges: 20 + rng.Float64()*100,
			PaymentMethod:  payments[rng.Intn(len(payments))],
			OnlineSecurity: yesNo[rng.Intn(2)],
			TechSupport:    yesNo[rng.Intn(2)],
		}
		if err := repo.UpsertCustomer(ctx, c); err != nil {
			log.Fatalf("seed customer %s: %v", c.ID, err)
		}
		customers = append(customers, c)
	}
	log.Printf("seeded %d customers", len(customers))

	// Spread alerts over the past week so the history window has a timeline.
	now := time.Now().UTC()
	for i := 0; i < seedAlerts; i++ {
		c := customers[rng.Intn(len(customers))]
		prob := cfg.AlertThreshold + rng.Float64()*(1-cfg.AlertThreshold)
		rec := domain.AlertRecord{
			UserID:           c.ID,
			Tenure:           domain.Float(float64(c.Tenure)),
			ContractType:     c.ContractType,
			MonthlyCharges:   domain.Float(c.MonthlyCharges),
			ChurnProbability: domain.Float(prob),
			Timestamp:        now.Add(-time.Duration(rng.Intn(7*24*60)) * time.Minute),
		}
		if err := repo.SavePrediction(ctx, rec); err != nil {
			log.Fatalf("seed prediction: %v", err)
		}
	}
	log.Printf("seeded %d historical alerts", seedAlerts)
}
