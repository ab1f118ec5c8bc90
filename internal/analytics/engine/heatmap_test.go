package engine

import (
	"testing"

	"churn-dashboard/backend/internal/analytics/domain"
)

func heatAlert(tenure, charges, prob float64, contract string) domain.AlertRecord {
	return domain.AlertRecord{
		UserID:           "u",
		Tenure:           domain.Float(tenure),
		MonthlyCharges:   domain.Float(charges),
		ChurnProbability: domain.Float(prob),
		ContractType:     contract,
	}
}

func (h Heatmap) row(t *testing.T, band domain.RiskBand) HeatmapRow {
	t.Helper()
	for _, r := range h.Rows {
		if r.Band == band {
			return r
		}
	}
	t.Fatalf("heatmap has no row for band %q", band)
	return HeatmapRow{}
}

func TestComputeHeatmap_MeansAndIntensity(t *testing.T) {
	history := []domain.AlertRecord{
		heatAlert(10, 50, 0.1, "Two year"),   // Low
		heatAlert(20, 100, 0.1, "Two year"),  // Low
		heatAlert(40, 150, 0.9, "Month-to-month"), // Critical
	}
	h := ComputeHeatmap(history)

	low := h.row(t, domain.RiskLow)
	if low.Tenure.Mean != 15 {
		t.Errorf("Low tenure mean = %v, want 15", low.Tenure.Mean)
	}
	// Global tenure bounds are [10, 40]; mean 15 → (15-10)/30.
	if got, want := low.Tenure.Intensity, 5.0/30.0; !almostEqual(got, want) {
		t.Errorf("Low tenure intensity = %v, want %v", got, want)
	}
	if low.DominantContractType != "Two year" {
		t.Errorf("Low dominant contract = %q, want %q", low.DominantContractType, "Two year")
	}

	crit := h.row(t, domain.RiskCritical)
	if crit.Tenure.Intensity != 1 {
		t.Errorf("Critical tenure intensity = %v, want 1", crit.Tenure.Intensity)
	}
	if crit.DominantContractType != "Month to month" {
		t.Errorf("Critical dominant contract = %q, want hyphens replaced", crit.DominantContractType)
	}

	for _, row := range h.Rows {
		for _, cell := range []HeatmapCell{row.Tenure, row.MonthlyCharges} {
			if cell.Intensity < 0 || cell.Intensity > 1 {
				t.Errorf("%s intensity %v outside [0,1]", row.Band, cell.Intensity)
			}
		}
	}
}

func TestComputeHeatmap_MinEqualsMax(t *testing.T) {
	history := []domain.AlertRecord{
		heatAlert(12, 80, 0.1, "One year"),
		heatAlert(12, 80, 0.6, "One year"),
	}
	h := ComputeHeatmap(history)
	for _, row := range h.Rows {
		if row.Tenure.Intensity != 0 || row.MonthlyCharges.Intensity != 0 {
			t.Errorf("%s intensity = %v/%v with min==max, want 0/0", row.Band, row.Tenure.Intensity, row.MonthlyCharges.Intensity)
		}
	}
}

func TestComputeHeatmap_EmptyBandDefaults(t *testing.T) {
	history := []domain.AlertRecord{heatAlert(10, 50, 0.1, "Two year")}
	h := ComputeHeatmap(history)

	for _, band := range []domain.RiskBand{domain.RiskMedium, domain.RiskHigh, domain.RiskCritical} {
		row := h.row(t, band)
		if row.Tenure.Mean != 0 || row.MonthlyCharges.Mean != 0 {
			t.Errorf("%s means = %v/%v, want 0/0 for empty band", band, row.Tenure.Mean, row.MonthlyCharges.Mean)
		}
		if row.Tenure.Intensity != 0 {
			t.Errorf("%s intensity = %v, want 0 for empty band", band, row.Tenure.Intensity)
		}
		if row.DominantContractType != "N/A" {
			t.Errorf("%s dominant contract = %q, want N/A", band, row.DominantContractType)
		}
	}
}

func TestComputeHeatmap_ModeTieBreaksOnFirstEncounter(t *testing.T) {
	history := []domain.AlertRecord{
		heatAlert(1, 10, 0.9, "Two year"),
		heatAlert(2, 20, 0.9, "One year"),
		heatAlert(3, 30, 0.9, "One year"),
		heatAlert(4, 40, 0.9, "Two year"),
	}
	h := ComputeHeatmap(history)
	// Two year and One year are tied at 2; Two year was seen first.
	if got := h.row(t, domain.RiskCritical).DominantContractType; got != "Two year" {
		t.Errorf("dominant contract = %q, want first-encountered %q", got, "Two year")
	}
}

func TestComputeHeatmap_EmptyWindow(t *testing.T) {
	h := ComputeHeatmap(nil)
	if h.Rows == nil || len(h.Rows) != 0 {
		t.Errorf("Rows = %v, want empty slice for empty window", h.Rows)
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
