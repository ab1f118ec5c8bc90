// simulator generates synthetic customer lifecycle events and publishes the
// typed envelopes the ingestion facade consumes. It keeps a small in-memory
// customer pool, mutates it with weighted behavior handlers, and promotes a
// record to a churn alert when its heuristic score crosses the threshold.
package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"churn-dashboard/backend/internal/analytics/domain"
	"churn-dashboard/backend/internal/analytics/repository"
	"churn-dashboard/backend/internal/config"
	"churn-dashboard/backend/internal/db"
	"churn-dashboard/backend/internal/logger"
	"churn-dashboard/backend/internal/stream"
)

const poolSize = 40

// simCustomer is the mutable state one synthetic customer carries.
type simCustomer struct {
	domain.Customer
}

type handlerFunc func(*simCustomer) (eventType, details string, ok bool)

// weighted mirrors the original simulator's bias toward churn-increasing events.
type weighted struct {
	weight  float64
	handler handlerFunc
}

var handlers = []weighted{
	{0.25, contractDowngrade},
	{0.20, removeOnlineSecurity},
	{0.15, cancelAutopay},
	{0.10, contractUpgrade},
	{0.10, addTechSupport},
	{0.10, enableAutopay},
	{0.10, monthlyAnniversary},
}

func contractDowngrade(c *simCustomer) (string, string, bool) {
	if c.ContractType == "Month-to-month" {
		return "", "", false
	}
	c.ContractType = "Month-to-month"
	return "contract_downgrade", "Switched to Month-to-month", true
}

func removeOnlineSecurity(c *simCustomer) (string, string, bool) {
	if c.OnlineSecurity != "Yes" {
		return "", "", false
	}
	c.OnlineSecurity = "No"
	c.MonthlyCharges -= 5
	return "removed_online_security", "Cancelled Online Security", true
}

func cancelAutopay(c *simCustomer) (string, string, bool) {
	if c.PaymentMethod != "Credit card (automatic)" && c.PaymentMethod != "Bank transfer (automatic)" {
		return "", "", false
	}
	c.PaymentMethod = "Mailed check"
	return "cancelled_autopay", "Switched to Mailed check", true
}

func contractUpgrade(c *simCustomer) (string, string, bool) {
	if c.ContractType != "Month-to-month" {
		return "", "", false
	}
	c.ContractType = "One year"
	return "contract_upgrade", "Upgraded to One year contract", true
}

func addTechSupport(c *simCustomer) (string, string, bool) {
	if c.TechSupport != "No" {
		return "", "", false
	}
	c.TechSupport = "Yes"
	c.MonthlyCharges += 5
	return "added_tech_support", "Subscribed to Tech Support", true
}

func enableAutopay(c *simCustomer) (string, string, bool) {
	if c.PaymentMethod == "Credit card (automatic)" {
		return "", "", false
	}
	c.PaymentMethod = "Credit card (automatic)"
	return "enabled_autopay", "Switched to Credit card (automatic)", true
}

func monthlyAnniversary(c *simCustomer) (string, string, bool) {
	c.Tenure++
	return "monthly_anniversary", "Tenure increased by 1 month", true
}

func pickHandler(rng *rand.Rand) handlerFunc {
	total := 0.0
	for _, w := range handlers {
		total += w.weight
	}
	roll := rng.Float64() * total
	for _, w := range handlers {
		if roll < w.weight {
			return w.handler
		}
		roll -= w.weight
	}
	return handlers[len(handlers)-1].handler
}

// score is a crude stand-in for the churn model: month-to-month contracts,
// short tenure, and missing protective services all raise the probability.
func score(c *simCustomer, rng *rand.Rand) float64 {
	p := 0.15
	if c.ContractType == "Month-to-month" {
		p += 0.30
	}
	if c.Tenure <= 3 {
		p += 0.20
	}
	if c.OnlineSecurity == "No" {
		p += 0.10
	}
	if c.TechSupport == "No" {
		p += 0.10
	}
	if c.PaymentMethod == "Mailed check" || c.PaymentMethod == "Electronic check" {
		p += 0.10
	}
	p += rng.Float64() * 0.10
	if p > 0.99 {
		p = 0.99
	}
	return p
}

func newPool(rng *rand.Rand) []*simCustomer {
	contracts := []string{"Month-to-month", "One year", "Two year"}
	payments := []string{"Electronic check", "Mailed check", "Credit card (automatic)", "Bank transfer (automatic)"}
	yesNo := []string{"Yes", "No"}

	pool := make([]*simCustomer, 0, poolSize)
	for i := 0; i < poolSize; i++ {
		pool = append(pool, &simCustomer{Customer: domain.Customer{
			ID:             uuid.New().String()[:8],
			Tenure:         rng.Intn(60),
			ContractType:   contracts[rng.Intn(len(contracts))],
			MonthlyCharges: 20 + rng.Float64()*90,
			PaymentMethod:  payments[rng.Intn(len(payments))],
			OnlineSecurity: yesNo[rng.Intn(2)],
			TechSupport:    yesNo[rng.Intn(2)],
		}})
	}
	return pool
}

type eventPayload struct {
	EventID   string  `json:"event_id"`
	UserID    string  `json:"user_id"`
	EventType string  `json:"event_type"`
	Timestamp string  `json:"event_timestamp"`
	Details   string  `json:"details"`
	Tenure    float64 `json:"tenure"`
}

type alertPayload struct {
	UserID           string  `json:"user_id"`
	Tenure           float64 `json:"tenure"`
	ContractType     string  `json:"contract_type"`
	MonthlyCharges   float64 `json:"monthly_charges"`
	ChurnProbability float64 `json:"churn_probability"`
	Timestamp        string  `json:"event_timestamp"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.KafkaBrokers == "" {
		log.Fatalf("KAFKA_BROKERS is required for the simulator")
	}

	appLog := logger.New().WithComponent("simulator")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var repo repository.Repository
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer conn.Close()
		repo = repository.NewPostgresRepository(conn)
	}

	producer := stream.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.KafkaTopic)
	defer producer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := newPool(rng)
	if repo != nil {
		for _, c := range pool {
			if err := repo.UpsertCustomer(ctx, c.Customer); err != nil {
				appLog.WithField("error", err.Error()).Warn("seed customer")
			}
		}
	}

	appLog.Infof("simulating events for %d customers on %s", len(pool), cfg.KafkaTopic)

	for {
		// 3-7s between events, as in the original simulator.
		wait := time.Duration(3000+rng.Intn(4000)) * time.Millisecond
		select {
		case <-ctx.Done():
			appLog.Info("simulator shutting down")
			return
		case <-time.After(wait):
		}

		c := pool[rng.Intn(len(pool))]
		eventType, details, ok := pickHandler(rng)(c)
		if !ok {
			continue
		}
		now := time.Now().UTC().Format(time.RFC3339Nano)

		raw, err := stream.EncodeEventEnvelope(eventPayload{
			EventID:   uuid.New().String(),
			UserID:    c.ID,
			EventType: eventType,
			Timestamp: now,
			Details:   details,
			Tenure:    float64(c.Tenure),
		})
		if err == nil {
			err = producer.Emit(ctx, raw)
		}
		if err != nil {
			appLog.WithField("error", err.Error()).Warn("emit event")
			continue
		}

		if p := score(c, rng); p > cfg.AlertThreshold {
			raw, err := stream.EncodeAlertEnvelope(alertPayload{
				UserID:           c.ID,
				Tenure:           float64(c.Tenure),
				ContractType:     c.ContractType,
				MonthlyCharges:   c.MonthlyCharges,
				ChurnProbability: p,
				Timestamp:        now,
			})
			if err == nil {
				err = producer.Emit(ctx, raw)
			}
			if err != nil {
				appLog.WithField("error", err.Error()).Warn("emit alert")
			}
		}

		if repo != nil {
			if err := repo.UpsertCustomer(ctx, c.Customer); err != nil {
				appLog.WithField("error", err.Error()).Warn("update customer")
			}
		}
	}
}
