package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfeldt/staffplan/internal/service"
)

var (
	similarSOWFile string
	similarSOWsDir string
	similarTopK    int
)

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "List historical SOWs most similar to a given one",
	Long: `Embed an SOW text file and list its nearest historical SOWs by vector
distance, closest first.

Examples:
  staffplan similar --sow sow.txt --sows-dir samples/sows
  staffplan similar --sow sow.txt --sows-dir samples/sows --top-k 3`,
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().StringVar(&similarSOWFile, "sow", "", "SOW text file (required)")
	similarCmd.Flags().StringVar(&similarSOWsDir, "sows-dir", "", "directory of historical SOW *.txt files (required)")
	similarCmd.Flags().IntVar(&similarTopK, "top-k", service.DefaultTopK, "number of neighbors to list")
	_ = similarCmd.MarkFlagRequired("sow")
	_ = similarCmd.MarkFlagRequired("sows-dir")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sowText, err := os.ReadFile(similarSOWFile)
	if err != nil {
		return fmt.Errorf("read SOW: %w", err)
	}

	svc, err := newPlanService(ctx, similarSOWsDir)
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}

	neighbors, err := svc.Similar(ctx, string(sowText), similarTopK)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if len(neighbors) == 0 {
		fmt.Println("No historical SOWs indexed.")
		return nil
	}

	for _, n := range neighbors {
		fmt.Printf("%s  distance=%.3f  similarity=%.3f\n", n.ID, n.Distance, n.Similarity())
	}
	return nil
}
