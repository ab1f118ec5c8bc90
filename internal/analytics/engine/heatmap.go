package engine

import (
	"strings"

	"churn-dashboard/backend/internal/analytics/domain"
)

// HeatmapCell is a numeric feature summary for one risk band: the band mean
// and its min-max intensity relative to the whole window, always in [0, 1].
type HeatmapCell struct {
	Mean      float64 `json:"mean"`
	Intensity float64 `json:"intensity"`
}

// HeatmapRow summarizes one risk band.
type HeatmapRow struct {
	Band                 domain.RiskBand `json:"band"`
	Tenure               HeatmapCell     `json:"tenure"`
	MonthlyCharges       HeatmapCell     `json:"monthly_charges"`
	DominantContractType string          `json:"dominant_contract_type"`
}

// Heatmap is the per-risk-band feature profile. Empty Rows means the window
// held no records at all.
type Heatmap struct {
	Rows []HeatmapRow `json:"rows"`
}

// bounds holds the global min/max of one numeric feature across the window.
type bounds struct {
	min, max float64
	seen     bool
}

func (b *bounds) observe(v *float64) {
	if v == nil {
		return
	}
	if !b.seen || *v < b.min {
		b.min = *v
	}
	if !b.seen || *v > b.max {
		b.max = *v
	}
	b.seen = true
}

// intensity normalizes a mean against the global bounds. When min == max the
// denominator is 1 and the result is pinned to 0 instead of dividing by zero.
// Means computed with missing-as-zero contributions can fall outside the
// bounds, so the result is clamped into [0, 1].
func (b bounds) intensity(mean float64) float64 {
	span := b.max - b.min
	if !b.seen || span == 0 {
		return 0
	}
	v := (mean - b.min) / span
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ComputeHeatmap builds the per-band feature profile. The first pass over the
// entire window computes global min/max per numeric feature; the second pass
// computes, per band, the feature means (missing values contribute zero),
// their normalized intensities, and the dominant contract type by frequency,
// ties broken by first encounter in window order.
func ComputeHeatmap(history []domain.AlertRecord) Heatmap {
	if len(history) == 0 {
		return Heatmap{Rows: []HeatmapRow{}}
	}

	var tenureBounds, chargesBounds bounds
	for _, rec := range history {
		tenureBounds.observe(rec.Tenure)
		chargesBounds.observe(rec.MonthlyCharges)
	}

	rows := make([]HeatmapRow, 0, len(domain.RiskBands))
	for _, band := range domain.RiskBands {
		var (
			n                     int
			tenureSum, chargesSum float64
			contractCounts        = make(map[string]int)
			contractOrder         []string
		)
		for _, rec := range history {
			if rec.RiskBandOf() != band {
				continue
			}
			n++
			if rec.Tenure != nil {
				tenureSum += *rec.Tenure
			}
			if rec.MonthlyCharges != nil {
				chargesSum += *rec.MonthlyCharges
			}
			if _, seen := contractCounts[rec.ContractType]; !seen {
				contractOrder = append(contractOrder, rec.ContractType)
			}
			contractCounts[rec.ContractType]++
		}

		row := HeatmapRow{Band: band, DominantContractType: "N/A"}
		if n > 0 {
			tenureMean := tenureSum / float64(n)
			chargesMean := chargesSum / float64(n)
			row.Tenure = HeatmapCell{Mean: tenureMean, Intensity: tenureBounds.intensity(tenureMean)}
			row.MonthlyCharges = HeatmapCell{Mean: chargesMean, Intensity: chargesBounds.intensity(chargesMean)}
			row.DominantContractType = dominantContract(contractCounts, contractOrder)
		}
		rows = append(rows, row)
	}
	return Heatmap{Rows: rows}
}

// dominantContract returns the most frequent contract type, with ties broken
// by which type was encountered first while scanning in window order.
func dominantContract(counts map[string]int, order []string) string {
	best := ""
	bestCount := -1
	for _, ct := range order {
		if counts[ct] > bestCount {
			best = ct
			bestCount = counts[ct]
		}
	}
	if best == "" {
		return "N/A"
	}
	return strings.ReplaceAll(best, "-", " ")
}
