package engine

import (
	"strings"

	"churn-dashboard/backend/internal/analytics/domain"
)

// FlowEdge is a weighted directed link between two synthetic category nodes.
type FlowEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
}

// FlowGraph is the stage→contract→risk flow projection. Empty Edges means
// "insufficient data": no record passed the full-field presence filter.
type FlowGraph struct {
	Edges []FlowEdge `json:"edges"`
}

type edgeKey struct {
	from string
	to   string
}

// BuildFlowGraph accumulates one unit of weight on the (stage, contract) and
// (contract, risk) edges of every record that carries tenure, contract type,
// and churn probability. Records missing any of the three contribute no edges
// at all, so weights over (stage, *) edges always equal the number of records
// that passed the filter.
func BuildFlowGraph(history []domain.AlertRecord) FlowGraph {
	weights := make(map[edgeKey]int)
	order := make([]edgeKey, 0)

	for _, rec := range history {
		if !rec.HasFlowFields() {
			continue
		}
		stage := string(domain.ClassifyLifecycle(*rec.Tenure))
		contract := "Contract: " + strings.ReplaceAll(rec.ContractType, "-", " ")
		risk := "Risk: " + string(domain.ClassifyRisk(*rec.ChurnProbability))

		for _, k := range []edgeKey{{stage, contract}, {contract, risk}} {
			if _, seen := weights[k]; !seen {
				order = append(order, k)
			}
			weights[k]++
		}
	}

	if len(weights) == 0 {
		return FlowGraph{Edges: []FlowEdge{}}
	}

	// First-encounter order keeps the output stable across recomputes.
	edges := make([]FlowEdge, 0, len(order))
	for _, k := range order {
		edges = append(edges, FlowEdge{From: k.from, To: k.to, Weight: weights[k]})
	}
	return FlowGraph{Edges: edges}
}
