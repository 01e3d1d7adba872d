package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfeldt/staffplan/internal/loader"
	"github.com/mfeldt/staffplan/internal/models"
	"github.com/mfeldt/staffplan/internal/planner"
	"github.com/mfeldt/staffplan/internal/service"
)

var (
	planSOWFile      string
	planSOWsDir      string
	planHoursFile    string
	planContractID   string
	planScopeMult    float64
	planDurationMult float64
	planMaxTeam      int
	planTopK         int
	planOutFile      string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a staffing plan from an SOW text file",
	Long: `Analyze an SOW text file and generate a recommended staffing plan.

Historical SOWs under --sows-dir are embedded into a similarity index; the
reported-hours CSV calibrates the effort estimate against comparable
engagements. Without either, the plan falls back to the text-derived estimate
and the configured role mix.

Examples:
  staffplan plan --sow sow.txt
  staffplan plan --sow sow.txt --sows-dir samples/sows --hours hours.csv
  staffplan plan --sow sow.txt --scope-multiplier 1.2 --max-team 6 --out plan.csv`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planSOWFile, "sow", "", "SOW text file (required)")
	planCmd.Flags().StringVar(&planSOWsDir, "sows-dir", "", "directory of historical SOW *.txt files")
	planCmd.Flags().StringVar(&planHoursFile, "hours", "", "reported-hours CSV")
	planCmd.Flags().StringVar(&planContractID, "contract-id", "SOW-TEXT-001", "contract id for the generated plan")
	planCmd.Flags().Float64Var(&planScopeMult, "scope-multiplier", 1.0, "scope adjustment multiplier")
	planCmd.Flags().Float64Var(&planDurationMult, "duration-multiplier", 1.0, "duration adjustment multiplier")
	planCmd.Flags().IntVar(&planMaxTeam, "max-team", 8, "maximum team size")
	planCmd.Flags().IntVar(&planTopK, "top-k", service.DefaultTopK, "similar SOWs to consider")
	planCmd.Flags().StringVar(&planOutFile, "out", "", "write the plan CSV to this file")
	_ = planCmd.MarkFlagRequired("sow")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sowText, err := os.ReadFile(planSOWFile)
	if err != nil {
		return fmt.Errorf("read SOW: %w", err)
	}

	var hours []models.HistoricalHours
	if planHoursFile != "" {
		if hours, err = loader.ReadHours(planHoursFile); err != nil {
			return fmt.Errorf("read hours: %w", err)
		}
	}

	svc, err := newPlanService(ctx, planSOWsDir)
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}

	rows, diag, err := svc.Generate(ctx, service.GenerateRequest{
		ContractID:         planContractID,
		SOWText:            string(sowText),
		Hours:              hours,
		ScopeMultiplier:    planScopeMult,
		DurationMultiplier: planDurationMult,
		MaxTeamSize:        planMaxTeam,
		TopK:               planTopK,
	})
	if err != nil {
		return fmt.Errorf("generate plan: %w", err)
	}

	fmt.Println(renderPlanTable(rows))
	fmt.Println(renderDiagnostics(diag))

	// Compare against the closest neighbor's contract when one is mapped.
	if contract, ok := svc.BestMatchContract(diag.Neighbors); ok && len(hours) > 0 {
		mapped := make([]models.StaffingRow, len(rows))
		copy(mapped, rows)
		for i := range mapped {
			mapped[i].ContractID = contract
		}
		if variance := planner.CompareActuals(mapped, hours); len(variance) > 0 {
			fmt.Printf("Variance vs. actuals of %s:\n", contract)
			fmt.Println(renderVarianceTable(variance))
		}
	}

	if planOutFile != "" {
		if err := loader.WritePlanFile(planOutFile, rows); err != nil {
			return fmt.Errorf("export plan: %w", err)
		}
		fmt.Printf("Plan written to %s\n", planOutFile)
	}

	if stats := svc.Metrics(); stats.Embed != nil {
		logger.Debug("pipeline timings",
			"embed_ms", stats.Embed.TotalTimeMs,
			"embed_calls", stats.Embed.Count,
			"analyze_ms", stats.Analyze.TotalTimeMs)
	}
	return nil
}
