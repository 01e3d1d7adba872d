// Package planner converts a calibrated hours total and a role mix into a
// constrained staffing plan, and compares plans against reported actuals.
package planner

import (
	"math"
	"sort"

	"github.com/mfeldt/staffplan/internal/config"
	"github.com/mfeldt/staffplan/internal/models"
)

// Planning uses exactly 4 weeks per month and a 40-hour week.
const (
	weeksPerMonth = 4
	hoursPerWeek  = 40.0
	minPlanWeeks  = 4
)

// Builder builds staffing plans under utilization targets and minimum team
// composition constraints.
type Builder struct {
	roles   *config.RolesConfig
	weights *config.WeightsConfig
}

// NewBuilder creates a plan builder from the loaded role and weights configs.
func NewBuilder(roles *config.RolesConfig, weights *config.WeightsConfig) *Builder {
	return &Builder{roles: roles, weights: weights}
}

// Build distributes totalHours over the role mix and emits one StaffingRow
// per role, sorted descending by planned hours and truncated to maxTeamSize.
// Rows beyond the cap are silently dropped; that is a policy choice.
func (b *Builder) Build(contractID string, totalHours float64, mix map[string]float64, features models.Features, maxTeamSize int) []models.StaffingRow {
	projectType := features.ProjectType
	if projectType == "" {
		projectType = b.weights.ProjectType()
	}
	minimums := b.weights.MinTeam(projectType)
	weeks := planWeeks(features.DurationMonths)

	roles := make([]string, 0, len(mix))
	for role := range mix {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	rows := make([]models.StaffingRow, 0, len(roles))
	for _, role := range roles {
		hours := totalHours * mix[role]
		util := b.roles.UtilizationTarget(role)
		var fteWeeks float64
		if util > 0 {
			fteWeeks = hours / (util * hoursPerWeek)
		}
		numPeople := int(math.Ceil(fteWeeks / float64(weeks)))
		if numPeople < 1 {
			numPeople = 1
		}
		if min := minimums[role]; numPeople < min {
			numPeople = min
		}
		rows = append(rows, models.StaffingRow{
			ContractID:     contractID,
			Role:           role,
			PlannedHours:   math.Round(hours*10) / 10,
			FTE:            math.Round(fteWeeks/float64(weeks)*100) / 100,
			StartWeek:      1,
			EndWeek:        weeks,
			SeniorityLevel: b.roles.SeniorityLevel(role),
			NumPeople:      numPeople,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PlannedHours > rows[j].PlannedHours
	})
	if maxTeamSize < 0 {
		maxTeamSize = 0
	}
	if maxTeamSize < len(rows) {
		rows = rows[:maxTeamSize]
	}
	return rows
}

// planWeeks derives the plan length from the duration in months: whole
// months at 4 weeks each, never less than 4 weeks.
func planWeeks(durationMonths float64) int {
	months := int(math.Ceil(durationMonths))
	if months < 1 {
		months = 1
	}
	weeks := months * weeksPerMonth
	if weeks < minPlanWeeks {
		weeks = minPlanWeeks
	}
	return weeks
}
