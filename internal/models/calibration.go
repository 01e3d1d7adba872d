package models

// Calibration strategies. Exactly one of these appears on every CalibrationResult.
const (
	StrategyBlended  = "blended"
	StrategyFallback = "fallback"
)

// CalibrationResult captures how the calibrated total-hours figure was derived.
// Carried alongside a generated plan as diagnostic metadata, never persisted.
type CalibrationResult struct {
	AIEstimate      float64 `json:"ai_estimate"`
	HistBaseline    float64 `json:"hist_baseline"`
	CorrectedAI     float64 `json:"corrected_ai"`
	BlendedBaseline float64 `json:"blended_baseline"`
	Strategy        string  `json:"strategy"`
}
