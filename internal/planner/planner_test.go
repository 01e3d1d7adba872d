package planner

import (
	"math"
	"testing"

	"github.com/mfeldt/staffplan/internal/config"
	"github.com/mfeldt/staffplan/internal/models"
)

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	roles := &config.RolesConfig{
		UtilizationTargets: map[string]float64{"a": 0.8, "b": 0.8},
	}
	weights := &config.WeightsConfig{
		DefaultProjectType: "project",
		MinTeamComposition: map[string]map[string]int{
			"project": {},
		},
	}
	return NewBuilder(roles, weights)
}

func TestBuildDistributesMix(t *testing.T) {
	b := testBuilder(t)
	mix := map[string]float64{"a": 0.6, "b": 0.4}
	features := models.Features{DurationMonths: 3}

	rows := b.Build("C-X", 1000, mix, features, 8)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// Sorted descending by planned hours.
	if rows[0].Role != "a" || rows[0].PlannedHours != 600 {
		t.Errorf("top row = %s/%.1f, want a/600.0", rows[0].Role, rows[0].PlannedHours)
	}

	// 3 months * 4 weeks = 12 weeks; fte_weeks = 600/(0.8*40) = 18.75
	if rows[0].EndWeek != 12 {
		t.Errorf("end week = %d, want 12", rows[0].EndWeek)
	}
	if rows[0].NumPeople != 2 { // ceil(18.75/12)
		t.Errorf("num people = %d, want 2", rows[0].NumPeople)
	}
	if math.Abs(rows[0].FTE-1.56) > 1e-9 { // round(18.75/12, 2)
		t.Errorf("fte = %f, want 1.56", rows[0].FTE)
	}
	if rows[0].StartWeek != 1 {
		t.Errorf("start week = %d, want 1", rows[0].StartWeek)
	}
}

func TestBuildTruncatesToMaxTeamSize(t *testing.T) {
	b := testBuilder(t)
	mix := map[string]float64{"a": 0.6, "b": 0.4}

	rows := b.Build("C-X", 1000, mix, models.Features{DurationMonths: 3}, 1)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].PlannedHours != 600 {
		t.Errorf("kept row has %.1f hours, want the 600-hour row", rows[0].PlannedHours)
	}
}

func TestBuildMinimumComposition(t *testing.T) {
	roles := &config.RolesConfig{}
	weights := &config.WeightsConfig{
		DefaultProjectType: "retainer",
		MinTeamComposition: map[string]map[string]int{
			"retainer": {"account_manager": 2},
		},
	}
	b := NewBuilder(roles, weights)

	// Zero hours for the role, yet the minimum composition holds.
	mix := map[string]float64{"account_manager": 0, "designer": 1}
	rows := b.Build("C-X", 400, mix, models.Features{DurationMonths: 1}, 8)

	var am models.StaffingRow
	for _, r := range rows {
		if r.Role == "account_manager" {
			am = r
		}
	}
	if am.NumPeople != 2 {
		t.Errorf("account_manager num people = %d, want 2 from minimum composition", am.NumPeople)
	}
	if am.PlannedHours != 0 {
		t.Errorf("account_manager planned hours = %f, want 0", am.PlannedHours)
	}
}

func TestBuildZeroUtilization(t *testing.T) {
	roles := &config.RolesConfig{UtilizationTargets: map[string]float64{"a": 0}}
	b := NewBuilder(roles, &config.WeightsConfig{MinTeamComposition: map[string]map[string]int{"project": {}}})

	rows := b.Build("C-X", 1000, map[string]float64{"a": 1}, models.Features{DurationMonths: 2}, 8)
	if rows[0].FTE != 0 {
		t.Errorf("fte = %f, want 0 when utilization target is 0", rows[0].FTE)
	}
	if rows[0].NumPeople < 1 {
		t.Errorf("num people = %d, want at least 1", rows[0].NumPeople)
	}
}

func TestBuildFTENonNegative(t *testing.T) {
	b := testBuilder(t)
	rows := b.Build("C-X", 0, map[string]float64{"a": 0.5, "b": 0.5}, models.Features{DurationMonths: 6}, 8)
	for _, r := range rows {
		if r.FTE < 0 {
			t.Errorf("role %s fte = %f, want >= 0", r.Role, r.FTE)
		}
	}
}

func TestBuildSeniorityLevels(t *testing.T) {
	roles := &config.RolesConfig{Seniority: map[string]string{"creative_director": "senior"}}
	b := NewBuilder(roles, &config.WeightsConfig{})

	mix := map[string]float64{"creative_director": 0.3, "manager": 0.3, "analyst": 0.4}
	rows := b.Build("C-X", 900, mix, models.Features{DurationMonths: 2}, 8)

	levels := make(map[string]string, len(rows))
	for _, r := range rows {
		levels[r.Role] = r.SeniorityLevel
	}
	if levels["creative_director"] != "senior" {
		t.Errorf("creative_director level = %q, want senior from config", levels["creative_director"])
	}
	if levels["manager"] != "senior" {
		t.Errorf("manager level = %q, want senior from fallback rule", levels["manager"])
	}
	if levels["analyst"] != "junior" {
		t.Errorf("analyst level = %q, want junior", levels["analyst"])
	}
}

func TestPlanWeeks(t *testing.T) {
	tests := []struct {
		name   string
		months float64
		want   int
	}{
		{"three months", 3, 12},
		{"fractional rounds up", 2.2, 12},
		{"short engagement floors at 4 weeks", 0.5, 4},
		{"zero floors at 4 weeks", 0, 4},
		{"year", 12, 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := planWeeks(tt.months); got != tt.want {
				t.Errorf("planWeeks(%v) = %d, want %d", tt.months, got, tt.want)
			}
		})
	}
}
