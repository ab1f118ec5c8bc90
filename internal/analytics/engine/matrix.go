// Package engine holds the stateless recomputation functions that turn a
// history-window snapshot into the dashboard projections. Every function here
// is a full recompute over the snapshot it is given; nothing is patched
// incrementally, so a projection can never drift from the window contents.
package engine

import (
	"churn-dashboard/backend/internal/analytics/domain"
)

// BandCount is one cell of the lifecycle matrix.
type BandCount struct {
	Band       domain.RiskBand `json:"band"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"` // share of the stage total, 0 when the stage is empty
}

// StageRow is one lifecycle stage with its per-band breakdown.
type StageRow struct {
	Stage domain.LifecycleStage `json:"stage"`
	Total int                   `json:"total"`
	// RelativeWidth scales the stage total against the largest stage total
	// (floored at 1), in percent. Renderers use it to size stage bars
	// proportionally across stages, not just within a stage.
	RelativeWidth float64     `json:"relative_width"`
	Bands         []BandCount `json:"bands"`
}

// LifecycleRiskMatrix is the lifecycle×risk cross-tabulation.
type LifecycleRiskMatrix struct {
	Rows []StageRow `json:"rows"`
}

// ComputeLifecycleMatrix cross-tabulates the snapshot by lifecycle stage and
// risk band. Records whose tenure or churn probability is absent or non-finite
// are excluded entirely; they are not counted as Unknown.
func ComputeLifecycleMatrix(history []domain.AlertRecord) LifecycleRiskMatrix {
	counts := make(map[domain.LifecycleStage]map[domain.RiskBand]int, len(domain.Stages))
	totals := make(map[domain.LifecycleStage]int, len(domain.Stages))
	for _, stage := range domain.Stages {
		counts[stage] = make(map[domain.RiskBand]int, len(domain.RiskBands))
	}

	for _, rec := range history {
		if !rec.HasAggregationFields() {
			continue
		}
		stage := domain.ClassifyLifecycle(*rec.Tenure)
		band := domain.ClassifyRisk(*rec.ChurnProbability)
		// Unknown stage or band cannot land in the four×four grid; such
		// records are excluded from the stage total as well.
		if _, ok := counts[stage]; !ok {
			continue
		}
		if !knownBand(band) {
			continue
		}
		counts[stage][band]++
		totals[stage]++
	}

	maxTotal := 1
	for _, stage := range domain.Stages {
		if totals[stage] > maxTotal {
			maxTotal = totals[stage]
		}
	}

	rows := make([]StageRow, 0, len(domain.Stages))
	for _, stage := range domain.Stages {
		total := totals[stage]
		bands := make([]BandCount, 0, len(domain.RiskBands))
		for _, band := range domain.RiskBands {
			count := counts[stage][band]
			pct := 0.0
			if total > 0 {
				pct = float64(count) / float64(total) * 100
			}
			bands = append(bands, BandCount{Band: band, Count: count, Percentage: pct})
		}
		rows = append(rows, StageRow{
			Stage:         stage,
			Total:         total,
			RelativeWidth: float64(total) / float64(maxTotal) * 100,
			Bands:         bands,
		})
	}
	return LifecycleRiskMatrix{Rows: rows}
}

func knownBand(b domain.RiskBand) bool {
	for _, known := range domain.RiskBands {
		if b == known {
			return true
		}
	}
	return false
}
