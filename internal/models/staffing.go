// Package models contains the domain types for staffing plan estimation.
package models

// StaffingRow is one role line of a generated staffing plan.
type StaffingRow struct {
	ContractID     string  `json:"contract_id"`
	Role           string  `json:"role"`
	PlannedHours   float64 `json:"planned_hours"`
	FTE            float64 `json:"fte"`
	StartWeek      int     `json:"start_week"`
	EndWeek        int     `json:"end_week"`
	SeniorityLevel string  `json:"seniority_level"`
	NumPeople      int     `json:"num_people"`
}

// HistoricalHours is one reported-hours record from a completed engagement.
// Read-only input, typically loaded from the hours CSV.
type HistoricalHours struct {
	ContractID     string  `json:"contract_id"`
	PersonID       string  `json:"person_id"`
	Role           string  `json:"role"`
	WeekStart      string  `json:"week_start"`
	ActualHours    float64 `json:"actual_hours"`
	UtilizationPct float64 `json:"utilization_pct"`
}

// SOWRow is one workstream line of a tabular scope-of-work breakdown.
type SOWRow struct {
	ContractID     string  `json:"contract_id"`
	Workstream     string  `json:"workstream"`
	Complexity     string  `json:"complexity"`
	EstimatedHours float64 `json:"estimated_hours"`
	DurationMonths float64 `json:"duration_months"`
}

// VarianceRow compares planned against actual hours for one (contract, role).
type VarianceRow struct {
	ContractID    string  `json:"contract_id"`
	Role          string  `json:"role"`
	PlannedHours  float64 `json:"planned_hours"`
	ActualHours   float64 `json:"actual_hours"`
	VarianceHours float64 `json:"variance_hours"`
	VariancePct   float64 `json:"variance_pct"`
}

// Neighbor is a historical SOW returned by a similarity search,
// ordered ascending by distance (closest first).
type Neighbor struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}

// Similarity converts the neighbor's distance into a (0, 1] score.
func (n Neighbor) Similarity() float64 {
	return 1.0 / (1.0 + n.Distance)
}
