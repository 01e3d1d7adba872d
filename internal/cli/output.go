package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mfeldt/staffplan/internal/models"
	"github.com/mfeldt/staffplan/internal/service"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFD7"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787"))
	tableBorder  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	negativeCell = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#FF005F"))
)

func renderPlanTable(rows []models.StaffingRow) string {
	if len(rows) == 0 {
		return "Empty plan."
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers("ROLE", "HOURS", "FTE", "PEOPLE", "WEEKS", "SENIORITY")
	for _, r := range rows {
		t.Row(
			r.Role,
			fmt.Sprintf("%.1f", r.PlannedHours),
			fmt.Sprintf("%.2f", r.FTE),
			fmt.Sprintf("%d", r.NumPeople),
			fmt.Sprintf("%d-%d", r.StartWeek, r.EndWeek),
			r.SeniorityLevel,
		)
	}
	return t.Render()
}

func renderVarianceTable(rows []models.VarianceRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if col >= 4 && row >= 0 && row < len(rows) && rows[row].VarianceHours < 0 {
				return negativeCell
			}
			return cellStyle
		}).
		Headers("CONTRACT", "ROLE", "PLANNED", "ACTUAL", "VARIANCE", "PCT")
	for _, r := range rows {
		t.Row(
			r.ContractID,
			r.Role,
			fmt.Sprintf("%.1f", r.PlannedHours),
			fmt.Sprintf("%.1f", r.ActualHours),
			fmt.Sprintf("%+.1f", r.VarianceHours),
			fmt.Sprintf("%+.1f%%", r.VariancePct),
		)
	}
	return t.Render()
}

func renderDiagnostics(d service.Diagnostics) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Calibration") + "\n")
	line := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  %-18s", label)) + valueStyle.Render(value) + "\n")
	}
	line("strategy", d.Calibration.Strategy)
	line("ai estimate", fmt.Sprintf("%.1f h", d.Calibration.AIEstimate))
	line("hist baseline", fmt.Sprintf("%.1f h", d.Calibration.HistBaseline))
	line("blended total", fmt.Sprintf("%.1f h", d.Calibration.BlendedBaseline))
	line("role mix", formatMix(d.RoleMixUsed))
	line("run id", d.RunID)

	if len(d.Neighbors) > 0 {
		b.WriteString(headerStyle.Render("Similar SOWs") + "\n")
		for _, n := range d.Neighbors {
			b.WriteString(labelStyle.Render(fmt.Sprintf("  %-40s", n.ID)) +
				valueStyle.Render(fmt.Sprintf("distance %.3f", n.Distance)) + "\n")
		}
	}
	return b.String()
}

func formatMix(mix map[string]float64) string {
	roles := make([]string, 0, len(mix))
	for role := range mix {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	parts := make([]string, 0, len(roles))
	for _, role := range roles {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", role, mix[role]*100))
	}
	return strings.Join(parts, ", ")
}
