package engine

import (
	"math"
	"testing"

	"churn-dashboard/backend/internal/analytics/domain"
)

func alert(tenure, prob float64) domain.AlertRecord {
	return domain.AlertRecord{
		UserID:           "u",
		Tenure:           domain.Float(tenure),
		ChurnProbability: domain.Float(prob),
	}
}

func (m LifecycleRiskMatrix) row(t *testing.T, stage domain.LifecycleStage) StageRow {
	t.Helper()
	for _, r := range m.Rows {
		if r.Stage == stage {
			return r
		}
	}
	t.Fatalf("matrix has no row for stage %q", stage)
	return StageRow{}
}

func (r StageRow) count(t *testing.T, band domain.RiskBand) int {
	t.Helper()
	for _, b := range r.Bands {
		if b.Band == band {
			return b.Count
		}
	}
	t.Fatalf("row %q has no band %q", r.Stage, band)
	return 0
}

func TestComputeLifecycleMatrix_EndToEndScenario(t *testing.T) {
	// Capacity-3 window after appending tenures 1,5,30,40: first evicted.
	history := []domain.AlertRecord{
		alert(5, 0.1),
		alert(30, 0.6),
		alert(40, 0.9),
	}
	m := ComputeLifecycleMatrix(history)

	early := m.row(t, domain.StageEarly)
	mature := m.row(t, domain.StageMature)
	if got := early.count(t, domain.RiskLow); got != 1 {
		t.Errorf("Early.Low = %d, want 1", got)
	}
	if got := mature.count(t, domain.RiskHigh); got != 1 {
		t.Errorf("Mature.High = %d, want 1", got)
	}
	if got := mature.count(t, domain.RiskCritical); got != 1 {
		t.Errorf("Mature.Critical = %d, want 1", got)
	}
	if early.Total != 1 || mature.Total != 2 {
		t.Errorf("totals Early=%d Mature=%d, want 1 and 2", early.Total, mature.Total)
	}
	for _, stage := range []domain.LifecycleStage{domain.StageNew, domain.StageMid} {
		if got := m.row(t, stage).Total; got != 0 {
			t.Errorf("%s total = %d, want 0", stage, got)
		}
	}
}

func TestComputeLifecycleMatrix_RowSumsAndWindowBound(t *testing.T) {
	history := []domain.AlertRecord{
		alert(1, 0.2),
		alert(2, 0.3),
		alert(8, 0.6),
		alert(20, 0.9),
		alert(50, 0.1),
		{UserID: "skip-nil"},                        // missing both fields
		{UserID: "skip-nan", Tenure: domain.Float(math.NaN()), ChurnProbability: domain.Float(0.5)}, // non-finite
	}
	m := ComputeLifecycleMatrix(history)

	grand := 0
	for _, row := range m.Rows {
		sum := 0
		for _, b := range row.Bands {
			sum += b.Count
		}
		if sum != row.Total {
			t.Errorf("%s: band sum %d != total %d", row.Stage, sum, row.Total)
		}
		grand += row.Total
	}
	if grand != 5 {
		t.Errorf("grand total = %d, want 5 (two records skipped)", grand)
	}
	if grand > len(history) {
		t.Errorf("grand total %d exceeds window size %d", grand, len(history))
	}
}

func TestComputeLifecycleMatrix_SkipsDoNotBecomeUnknown(t *testing.T) {
	m := ComputeLifecycleMatrix([]domain.AlertRecord{{UserID: "only-skip"}})
	for _, row := range m.Rows {
		if row.Total != 0 {
			t.Errorf("%s total = %d, want 0", row.Stage, row.Total)
		}
	}
}

func TestComputeLifecycleMatrix_RelativeWidth(t *testing.T) {
	history := []domain.AlertRecord{
		alert(1, 0.1), alert(2, 0.1), // New: 2
		alert(30, 0.9), // Mature: 1
	}
	m := ComputeLifecycleMatrix(history)
	if got := m.row(t, domain.StageNew).RelativeWidth; got != 100 {
		t.Errorf("New width = %v, want 100", got)
	}
	if got := m.row(t, domain.StageMature).RelativeWidth; got != 50 {
		t.Errorf("Mature width = %v, want 50", got)
	}
	// Empty window: max floored at 1, widths all 0, no division by zero.
	empty := ComputeLifecycleMatrix(nil)
	for _, row := range empty.Rows {
		if row.RelativeWidth != 0 {
			t.Errorf("%s width = %v on empty window, want 0", row.Stage, row.RelativeWidth)
		}
	}
}

func TestComputeLifecycleMatrix_Percentages(t *testing.T) {
	history := []domain.AlertRecord{
		alert(30, 0.1), alert(30, 0.1), alert(30, 0.9), alert(30, 0.9),
	}
	m := ComputeLifecycleMatrix(history)
	mature := m.row(t, domain.StageMature)
	for _, b := range mature.Bands {
		switch b.Band {
		case domain.RiskLow, domain.RiskCritical:
			if b.Percentage != 50 {
				t.Errorf("%s percentage = %v, want 50", b.Band, b.Percentage)
			}
		default:
			if b.Percentage != 0 {
				t.Errorf("%s percentage = %v, want 0", b.Band, b.Percentage)
			}
		}
	}
}
