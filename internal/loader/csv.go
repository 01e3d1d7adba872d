// Package loader reads and writes the delimited tabular inputs and outputs:
// historical staffing plans, reported hours, SOW breakdowns and generated
// plans. Malformed numeric cells degrade to 0 and missing columns degrade to
// "no signal" rather than failing the pipeline; only unreadable files error.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mfeldt/staffplan/internal/models"
)

// table is a parsed CSV with normalized (trimmed, lowercased) header names.
type table struct {
	columns map[string]int
	rows    [][]string
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return &table{columns: map[string]int{}}, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return &table{columns: columns, rows: records[1:]}, nil
}

func (t *table) hasColumns(names ...string) bool {
	for _, n := range names {
		if _, ok := t.columns[n]; !ok {
			return false
		}
	}
	return true
}

func (t *table) str(row []string, name string) string {
	i, ok := t.columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) num(row []string, name string) float64 {
	s := t.str(row, name)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		slog.Debug("coercing malformed numeric cell to 0", "column", name, "value", s)
		return 0
	}
	return v
}

// ReadHours loads the reported-hours CSV
// (contract_id,person_id,role,week_start,actual_hours,utilization_pct).
// A file lacking the signal-bearing columns yields no records and a warning.
func ReadHours(path string) ([]models.HistoricalHours, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if !t.hasColumns("contract_id", "role", "actual_hours") {
		slog.Warn("hours file missing required columns, treating as no historical signal", "file", path)
		return nil, nil
	}
	out := make([]models.HistoricalHours, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, models.HistoricalHours{
			ContractID:     t.str(row, "contract_id"),
			PersonID:       t.str(row, "person_id"),
			Role:           t.str(row, "role"),
			WeekStart:      t.str(row, "week_start"),
			ActualHours:    t.num(row, "actual_hours"),
			UtilizationPct: t.num(row, "utilization_pct"),
		})
	}
	return out, nil
}

// ReadStaffing loads a staffing-plan CSV
// (contract_id,role,planned_hours,fte,start_week,end_week,seniority_level[,num_people]).
func ReadStaffing(path string) ([]models.StaffingRow, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if !t.hasColumns("contract_id", "role", "planned_hours") {
		slog.Warn("staffing file missing required columns, treating as empty plan", "file", path)
		return nil, nil
	}
	out := make([]models.StaffingRow, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, models.StaffingRow{
			ContractID:     t.str(row, "contract_id"),
			Role:           t.str(row, "role"),
			PlannedHours:   t.num(row, "planned_hours"),
			FTE:            t.num(row, "fte"),
			StartWeek:      int(t.num(row, "start_week")),
			EndWeek:        int(t.num(row, "end_week")),
			SeniorityLevel: t.str(row, "seniority_level"),
			NumPeople:      int(t.num(row, "num_people")),
		})
	}
	return out, nil
}

// ReadSOWTable loads a tabular scope-of-work breakdown
// (contract_id,workstream,complexity,estimated_hours,duration_months).
func ReadSOWTable(path string) ([]models.SOWRow, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if !t.hasColumns("contract_id", "workstream", "complexity") {
		slog.Warn("SOW file missing required columns, treating as empty", "file", path)
		return nil, nil
	}
	out := make([]models.SOWRow, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, models.SOWRow{
			ContractID:     t.str(row, "contract_id"),
			Workstream:     t.str(row, "workstream"),
			Complexity:     t.str(row, "complexity"),
			EstimatedHours: t.num(row, "estimated_hours"),
			DurationMonths: t.num(row, "duration_months"),
		})
	}
	return out, nil
}

// planHeader is the exported plan schema: the StaffingRow columns with a
// leading contract_id.
var planHeader = []string{
	"contract_id", "role", "planned_hours", "fte",
	"start_week", "end_week", "seniority_level", "num_people",
}

// WritePlan serializes a plan as CSV.
func WritePlan(w io.Writer, rows []models.StaffingRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(planHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.ContractID,
			r.Role,
			strconv.FormatFloat(r.PlannedHours, 'f', -1, 64),
			strconv.FormatFloat(r.FTE, 'f', -1, 64),
			strconv.Itoa(r.StartWeek),
			strconv.Itoa(r.EndWeek),
			r.SeniorityLevel,
			strconv.Itoa(r.NumPeople),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePlanFile writes the plan CSV to path.
func WritePlanFile(path string, rows []models.StaffingRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WritePlan(f, rows); err != nil {
		return err
	}
	return f.Close()
}
