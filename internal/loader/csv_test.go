package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mfeldt/staffplan/internal/models"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestReadHours(t *testing.T) {
	path := writeTemp(t, "hours.csv",
		"Contract_ID, Role ,actual_hours,utilization_pct\n"+
			"C-1,designer,120.5,0.8\n"+
			"C-1,analyst,80,\n")

	got, err := ReadHours(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].ContractID != "C-1" || got[0].Role != "designer" || got[0].ActualHours != 120.5 {
		t.Errorf("row 0 = %+v", got[0])
	}
	if got[1].UtilizationPct != 0 {
		t.Errorf("empty utilization = %f, want 0", got[1].UtilizationPct)
	}
}

func TestReadHoursMalformedNumberCoerced(t *testing.T) {
	path := writeTemp(t, "hours.csv",
		"contract_id,role,actual_hours\nC-1,designer,n/a\n")

	got, err := ReadHours(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].ActualHours != 0 {
		t.Errorf("got %+v, want one row with 0 hours", got)
	}
}

func TestReadHoursMissingColumns(t *testing.T) {
	path := writeTemp(t, "hours.csv", "contract_id,week_start\nC-1,2024-01-01\n")

	got, err := ReadHours(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil for missing columns", got)
	}
}

func TestReadHoursUnreadableFile(t *testing.T) {
	if _, err := ReadHours(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestReadSOWTable(t *testing.T) {
	path := writeTemp(t, "sow.csv",
		"contract_id,workstream,complexity,estimated_hours,duration_months\n"+
			"C-1,creative,high,300,6\n")

	got, err := ReadSOWTable(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	want := models.SOWRow{ContractID: "C-1", Workstream: "creative", Complexity: "high", EstimatedHours: 300, DurationMonths: 6}
	if got[0] != want {
		t.Errorf("row = %+v, want %+v", got[0], want)
	}
}

func TestWritePlanReadStaffingRoundTrip(t *testing.T) {
	rows := []models.StaffingRow{
		{ContractID: "C-9", Role: "designer", PlannedHours: 412.5, FTE: 1.29, StartWeek: 1, EndWeek: 12, SeniorityLevel: "junior", NumPeople: 2},
		{ContractID: "C-9", Role: "creative_director", PlannedHours: 180, FTE: 0.56, StartWeek: 1, EndWeek: 12, SeniorityLevel: "senior", NumPeople: 1},
	}

	path := filepath.Join(t.TempDir(), "plan.csv")
	if err := WritePlanFile(path, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadStaffing(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("got %d rows, want %d", len(got), len(rows))
	}
	for i := range rows {
		if got[i] != rows[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], rows[i])
		}
	}
}

func TestWritePlanHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePlan(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if first != "contract_id,role,planned_hours,fte,start_week,end_week,seniority_level,num_people" {
		t.Errorf("header = %q", first)
	}
}

func TestReadTableShortRow(t *testing.T) {
	// Ragged rows: missing trailing cells read as empty, not a parse error.
	path := writeTemp(t, "hours.csv",
		"contract_id,role,actual_hours\nC-1,designer\n")

	got, err := ReadHours(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].ActualHours != 0 {
		t.Errorf("got %+v, want one row with 0 hours", got)
	}
}
