package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfeldt/staffplan/internal/loader"
	"github.com/mfeldt/staffplan/internal/planner"
)

var (
	variancePlanFile  string
	varianceHoursFile string
)

var varianceCmd = &cobra.Command{
	Use:   "variance",
	Short: "Compare a staffing plan against reported actual hours",
	Long: `Sum planned and actual hours per (contract, role) and report absolute
and percentage variance. Planned groups with no reported actuals count the
full planned amount as overage.

Examples:
  staffplan variance --plan plan.csv --hours hours.csv`,
	RunE: runVariance,
}

func init() {
	varianceCmd.Flags().StringVar(&variancePlanFile, "plan", "", "staffing plan CSV (required)")
	varianceCmd.Flags().StringVar(&varianceHoursFile, "hours", "", "reported-hours CSV (required)")
	_ = varianceCmd.MarkFlagRequired("plan")
	_ = varianceCmd.MarkFlagRequired("hours")
}

func runVariance(cmd *cobra.Command, args []string) error {
	plan, err := loader.ReadStaffing(variancePlanFile)
	if err != nil {
		return fmt.Errorf("read plan: %w", err)
	}
	hours, err := loader.ReadHours(varianceHoursFile)
	if err != nil {
		return fmt.Errorf("read hours: %w", err)
	}

	rows := planner.CompareActuals(plan, hours)
	if len(rows) == 0 {
		fmt.Println("Nothing to compare.")
		return nil
	}
	fmt.Println(renderVarianceTable(rows))
	return nil
}
