// Package handler exposes the dashboard's read surface as JSON over HTTP.
// Every analytics endpoint reads an immutable store snapshot; nothing here
// blocks the ingestion path.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"churn-dashboard/backend/internal/analytics/domain"
	"churn-dashboard/backend/internal/analytics/repository"
	"churn-dashboard/backend/internal/analytics/store"
	"churn-dashboard/backend/internal/recommend"
)

const defaultListLimit = 100

// Handler serves the analytics API. Repo may be nil, which disables the
// customer and intervention endpoints with 503.
type Handler struct {
	store *store.Store
	repo  repository.Repository
	log   *logrus.Entry
}

// New returns a handler over the given store and repository.
func New(st *store.Store, repo repository.Repository, log *logrus.Entry) *Handler {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Handler{store: st, repo: repo, log: log}
}

// Register attaches all analytics routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/events/history", h.eventHistory)
	mux.HandleFunc("GET /api/churn-alerts-history", h.alertHistory)
	mux.HandleFunc("GET /api/shap-summary", h.shapSummary)
	mux.HandleFunc("GET /api/analytics/lifecycle-matrix", h.lifecycleMatrix)
	mux.HandleFunc("GET /api/analytics/customer-flow", h.customerFlow)
	mux.HandleFunc("GET /api/analytics/risk-heatmap", h.riskHeatmap)
	mux.HandleFunc("GET /api/analytics/snapshot", h.snapshot)
	mux.HandleFunc("GET /api/customers/{id}/recommendations", h.recommendations)
	mux.HandleFunc("POST /api/customers/{id}/recommendations", h.recommendations)
	mux.HandleFunc("GET /api/customers/{id}/interventions", h.listInterventions)
	mux.HandleFunc("POST /api/customers/{id}/interventions", h.logIntervention)
}

// eventDTO mirrors the wire shape of a live event.
type eventDTO struct {
	EventID   string         `json:"event_id"`
	UserID    string         `json:"user_id"`
	EventType string         `json:"event_type"`
	Timestamp time.Time      `json:"event_timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// alertDTO mirrors the wire shape of a churn alert.
type alertDTO struct {
	UserID           string    `json:"user_id"`
	Tenure           *float64  `json:"tenure,omitempty"`
	ContractType     string    `json:"contract_type,omitempty"`
	MonthlyCharges   *float64  `json:"monthly_charges,omitempty"`
	ChurnProbability *float64  `json:"churn_probability,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// eventHistory returns the live feed window, newest first.
func (h *Handler) eventHistory(w http.ResponseWriter, r *http.Request) {
	feed := h.store.LiveFeed()
	out := make([]eventDTO, 0, len(feed))
	for _, rec := range feed {
		out = append(out, eventDTO{
			EventID:   rec.EventID,
			UserID:    rec.UserID,
			EventType: rec.EventType,
			Timestamp: rec.Timestamp,
			Payload:   rec.Payload,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// alertHistory returns the alert window in chronological order.
func (h *Handler) alertHistory(w http.ResponseWriter, r *http.Request) {
	history := h.store.History()
	out := make([]alertDTO, 0, len(history))
	for _, rec := range history {
		out = append(out, alertDTO{
			UserID:           rec.UserID,
			Tenure:           rec.Tenure,
			ContractType:     rec.ContractType,
			MonthlyCharges:   rec.MonthlyCharges,
			ChurnProbability: rec.ChurnProbability,
			Timestamp:        rec.Timestamp,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) shapSummary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Snapshot().FeatureImportance)
}

func (h *Handler) lifecycleMatrix(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Snapshot().LifecycleMatrix)
}

func (h *Handler) customerFlow(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Snapshot().FlowGraph)
}

func (h *Handler) riskHeatmap(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Snapshot().Heatmap)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Snapshot())
}

// recommendations evaluates the retention rules for one customer. A POST body
// may carry the full behavioral detail; fields the body omits fall back to
// the stored customer row. GET uses the stored row alone.
func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.writeError(w, http.StatusServiceUnavailable, "customer storage not configured")
		return
	}
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "customer id is required")
		return
	}

	var detail recommend.CustomerDetail
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&detail); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	detail.CustomerID = id

	customer, err := h.repo.GetCustomer(r.Context(), id)
	if err != nil {
		h.log.WithError(err).Error("load customer")
		h.writeError(w, http.StatusInternalServerError, "load customer")
		return
	}
	if customer == nil && r.Method == http.MethodGet {
		h.writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	if customer != nil {
		if detail.Contract == "" {
			detail.Contract = customer.ContractType
		}
		if detail.Tenure == 0 {
			detail.Tenure = customer.Tenure
		}
		if detail.OnlineSecurity == "" {
			detail.OnlineSecurity = customer.OnlineSecurity
		}
		if detail.TechSupport == "" {
			detail.TechSupport = customer.TechSupport
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"customer_id":     id,
		"recommendations": recommend.Evaluate(detail),
	})
}

type interventionRequest struct {
	InterventionType string `json:"intervention_type"`
	Description      string `json:"description"`
	Agent            string `json:"agent"`
}

// logIntervention records a retention action taken for a customer.
func (h *Handler) logIntervention(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.writeError(w, http.StatusServiceUnavailable, "customer storage not configured")
		return
	}
	id := r.PathValue("id")

	var req interventionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		h.writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	iv := domain.Intervention{
		CustomerID:       id,
		InterventionType: req.InterventionType,
		Description:      req.Description,
		Agent:            req.Agent,
	}
	if err := h.repo.SaveIntervention(r.Context(), &iv); err != nil {
		h.log.WithError(err).Error("save intervention")
		h.writeError(w, http.StatusInternalServerError, "save intervention")
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]any{"id": iv.ID})
}

// listInterventions returns a customer's logged actions, newest first.
func (h *Handler) listInterventions(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.writeError(w, http.StatusServiceUnavailable, "customer storage not configured")
		return
	}
	id := r.PathValue("id")
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	items, err := h.repo.ListInterventions(r.Context(), id, limit)
	if err != nil {
		h.log.WithError(err).Error("list interventions")
		h.writeError(w, http.StatusInternalServerError, "list interventions")
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, iv := range items {
		out = append(out, map[string]any{
			"id":                iv.ID,
			"customer_id":       iv.CustomerID,
			"intervention_type": iv.InterventionType,
			"description":       iv.Description,
			"agent":             iv.Agent,
			"created_at":        iv.Timestamp,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.WithError(err).Warn("encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
