package planner

import (
	"sort"

	"github.com/mfeldt/staffplan/internal/models"
)

// CompareActuals sums planned and actual hours by (contract, role) and
// reports the variance per plan group. Actuals missing for a planned group
// count as 0; the percentage is a sentinel 100 when no actual baseline
// exists. An empty plan or empty actuals yields an empty result.
func CompareActuals(plan []models.StaffingRow, hours []models.HistoricalHours) []models.VarianceRow {
	if len(plan) == 0 || len(hours) == 0 {
		return nil
	}

	type key struct{ contract, role string }
	planned := make(map[key]float64)
	order := make([]key, 0, len(plan))
	for _, row := range plan {
		k := key{row.ContractID, row.Role}
		if _, ok := planned[k]; !ok {
			order = append(order, k)
		}
		planned[k] += row.PlannedHours
	}

	actuals := make(map[key]float64)
	for _, h := range hours {
		actuals[key{h.ContractID, h.Role}] += h.ActualHours
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].contract != order[j].contract {
			return order[i].contract < order[j].contract
		}
		return order[i].role < order[j].role
	})

	out := make([]models.VarianceRow, 0, len(order))
	for _, k := range order {
		p := planned[k]
		a := actuals[k]
		variance := p - a
		pct := 100.0
		if a > 0 {
			pct = variance / a * 100
		}
		out = append(out, models.VarianceRow{
			ContractID:    k.contract,
			Role:          k.role,
			PlannedHours:  p,
			ActualHours:   a,
			VarianceHours: variance,
			VariancePct:   pct,
		})
	}
	return out
}
