package models

import (
	"math"
	"strconv"
	"strings"
)

// FlexFloat decodes JSON numbers that may arrive as strings ("800", "8.5")
// or as placeholders ("TBD", null). Anything non-numeric decodes to 0 so a
// sloppy model response degrades instead of failing the pipeline.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// SOWSummary is the structured result of analyzing free-text SOW content.
// Numeric fields tolerate string-typed values from the model.
type SOWSummary struct {
	ComplexityLevel     string    `json:"complexity_level"`
	DurationMonths      FlexFloat `json:"duration_months"`
	WorkstreamCount     FlexFloat `json:"workstream_count"`
	EstimatedTotalHours FlexFloat `json:"estimated_total_hours"`
	KeyDeliverables     []string  `json:"key_deliverables"`
}

// Features are the numeric inputs to calibration and planning, built once per
// analysis request and adjusted in place by scope/duration multipliers.
type Features struct {
	ComplexityMean  float64 `json:"complexity_mean"`
	WorkstreamCount int     `json:"workstream_count"`
	EstimatedHours  float64 `json:"estimated_hours"`
	DurationMonths  float64 `json:"duration_months"`
	ProjectType     string  `json:"project_type,omitempty"`
}

// complexityScore maps a complexity label onto the 1-3 scale, defaulting to
// medium for anything unrecognized.
func complexityScore(level string) float64 {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low":
		return 1
	case "medium":
		return 2
	case "high":
		return 3
	default:
		return 2
	}
}

// FeaturesFromSummary converts an SOW summary into Features, coercing
// missing or zero fields to safe defaults.
func FeaturesFromSummary(s SOWSummary) Features {
	workstreams := int(s.WorkstreamCount)
	if workstreams < 1 {
		workstreams = 1
	}
	hours := float64(s.EstimatedTotalHours)
	if hours < 0 {
		hours = 0
	}
	duration := float64(s.DurationMonths)
	if duration <= 0 {
		duration = 3
	}
	return Features{
		ComplexityMean:  complexityScore(s.ComplexityLevel),
		WorkstreamCount: workstreams,
		EstimatedHours:  hours,
		DurationMonths:  duration,
	}
}

// ExtractContractFeatures aggregates a tabular SOW breakdown into Features:
// mean complexity score, distinct workstream count, summed estimated hours
// and the longest stated duration. Empty input yields zero Features.
func ExtractContractFeatures(rows []SOWRow) Features {
	if len(rows) == 0 {
		return Features{}
	}
	var complexitySum, hoursSum, maxDuration float64
	workstreams := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		complexitySum += complexityScore(r.Complexity)
		hoursSum += r.EstimatedHours
		if r.DurationMonths > maxDuration {
			maxDuration = r.DurationMonths
		}
		workstreams[r.Workstream] = struct{}{}
	}
	return Features{
		ComplexityMean:  complexitySum / float64(len(rows)),
		WorkstreamCount: len(workstreams),
		EstimatedHours:  hoursSum,
		DurationMonths:  maxDuration,
	}
}

// ApplyMultipliers scales estimated hours and duration by the operator's
// scope/duration adjustments. Multipliers are floored at 0.1 so a bad slider
// value can never zero out or invert the plan.
func (f *Features) ApplyMultipliers(scope, duration float64) {
	f.EstimatedHours = math.Max(f.EstimatedHours, 0) * math.Max(scope, 0.1)
	f.DurationMonths = math.Max(f.DurationMonths, 0.1) * math.Max(duration, 0.1)
}
