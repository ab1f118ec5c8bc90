package domain

import "math"

// LifecycleStage buckets a customer by tenure length.
type LifecycleStage string

const (
	StageNew     LifecycleStage = "New Customers"
	StageEarly   LifecycleStage = "Early Lifecycle"
	StageMid     LifecycleStage = "Mid Lifecycle"
	StageMature  LifecycleStage = "Mature Customers"
	StageUnknown LifecycleStage = "Unknown"
)

// Stages lists the four known stages in display order.
var Stages = []LifecycleStage{StageNew, StageEarly, StageMid, StageMature}

// RiskBand buckets a customer by predicted churn probability.
type RiskBand string

const (
	RiskLow      RiskBand = "Low Risk"
	RiskMedium   RiskBand = "Medium Risk"
	RiskHigh     RiskBand = "High Risk"
	RiskCritical RiskBand = "Critical Risk"
	RiskUnknown  RiskBand = "Unknown"
)

// RiskBands lists the four known bands in ascending severity order.
var RiskBands = []RiskBand{RiskLow, RiskMedium, RiskHigh, RiskCritical}

// ClassifyLifecycle maps tenure (months) to a lifecycle stage.
// Total: non-finite input maps to StageUnknown, everything else to exactly one stage.
func ClassifyLifecycle(tenure float64) LifecycleStage {
	if math.IsNaN(tenure) || math.IsInf(tenure, 0) {
		return StageUnknown
	}
	switch {
	case tenure <= 3:
		return StageNew
	case tenure <= 12:
		return StageEarly
	case tenure <= 24:
		return StageMid
	default:
		return StageMature
	}
}

// ClassifyRisk maps a churn probability to a risk band. Bands are closed on
// their upper bound and open on the lower, except [0, 0.25] which is closed on
// both ends. Values outside [0, 1] and non-finite values map to RiskUnknown.
func ClassifyRisk(probability float64) RiskBand {
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return RiskUnknown
	}
	switch {
	case probability <= 0.25:
		return RiskLow
	case probability <= 0.5:
		return RiskMedium
	case probability <= 0.75:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// LifecycleStageOf classifies the record's tenure, treating an absent value as unknown.
func (a AlertRecord) LifecycleStageOf() LifecycleStage {
	if a.Tenure == nil {
		return StageUnknown
	}
	return ClassifyLifecycle(*a.Tenure)
}

// RiskBandOf classifies the record's churn probability, treating an absent value as unknown.
func (a AlertRecord) RiskBandOf() RiskBand {
	if a.ChurnProbability == nil {
		return RiskUnknown
	}
	return ClassifyRisk(*a.ChurnProbability)
}
