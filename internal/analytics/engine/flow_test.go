package engine

import (
	"testing"

	"churn-dashboard/backend/internal/analytics/domain"
)

func flowAlert(tenure float64, contract string, prob float64) domain.AlertRecord {
	return domain.AlertRecord{
		UserID:           "u",
		Tenure:           domain.Float(tenure),
		ContractType:     contract,
		ChurnProbability: domain.Float(prob),
	}
}

func TestBuildFlowGraph_EdgesAndWeights(t *testing.T) {
	history := []domain.AlertRecord{
		flowAlert(2, "Month-to-month", 0.9),
		flowAlert(2, "Month-to-month", 0.9),
		flowAlert(30, "Two year", 0.1),
	}
	g := BuildFlowGraph(history)

	want := map[[2]string]int{
		{"New Customers", "Contract: Month to month"}:     2,
		{"Contract: Month to month", "Risk: Critical Risk"}: 2,
		{"Mature Customers", "Contract: Two year"}:        1,
		{"Contract: Two year", "Risk: Low Risk"}:          1,
	}
	if len(g.Edges) != len(want) {
		t.Fatalf("edges = %d, want %d", len(g.Edges), len(want))
	}
	for _, e := range g.Edges {
		if w, ok := want[[2]string{e.From, e.To}]; !ok || w != e.Weight {
			t.Errorf("edge %q -> %q weight %d, want %d (present %v)", e.From, e.To, e.Weight, w, ok)
		}
	}
}

func TestBuildFlowGraph_WeightConservation(t *testing.T) {
	history := []domain.AlertRecord{
		flowAlert(2, "Month-to-month", 0.9),
		flowAlert(8, "One year", 0.4),
		flowAlert(20, "One year", 0.6),
		{UserID: "no-contract", Tenure: domain.Float(5), ChurnProbability: domain.Float(0.5)},
		{UserID: "no-tenure", ContractType: "One year", ChurnProbability: domain.Float(0.5)},
	}
	g := BuildFlowGraph(history)

	stageWeight := 0
	for _, e := range g.Edges {
		for _, stage := range domain.Stages {
			if e.From == string(stage) {
				stageWeight += e.Weight
			}
		}
	}
	if stageWeight != 3 {
		t.Errorf("total (stage, *) weight = %d, want 3 (records passing the presence filter)", stageWeight)
	}
}

func TestBuildFlowGraph_NoPartialEdges(t *testing.T) {
	g := BuildFlowGraph([]domain.AlertRecord{
		{UserID: "u", Tenure: domain.Float(5), ContractType: "One year"}, // probability absent
	})
	if len(g.Edges) != 0 {
		t.Errorf("edges = %v, want none for a record failing the presence check", g.Edges)
	}
}

func TestBuildFlowGraph_EmptyResult(t *testing.T) {
	g := BuildFlowGraph(nil)
	if g.Edges == nil || len(g.Edges) != 0 {
		t.Errorf("Edges = %v, want explicit empty slice", g.Edges)
	}
}
