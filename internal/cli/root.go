// Package cli provides the command-line interface for staffplan.
package cli

import (
	"context"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mfeldt/staffplan/internal/calibration"
	"github.com/mfeldt/staffplan/internal/config"
	"github.com/mfeldt/staffplan/internal/index"
	"github.com/mfeldt/staffplan/internal/llm"
	"github.com/mfeldt/staffplan/internal/planner"
	"github.com/mfeldt/staffplan/internal/service"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Loaded during PersistentPreRunE
	cfg        config.Config
	roles      *config.RolesConfig
	weights    *config.WeightsConfig
	logger     *slog.Logger
	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "staffplan",
	Short: "Staffing plan estimation from SOW text",
	Long: `Staffplan estimates a staffing plan (roles, hours, headcount, schedule)
for a professional-services engagement. It analyzes a free-text statement of
work, finds semantically similar completed engagements, calibrates the effort
estimate against their reported hours and converts the result into a
constrained staffing plan.

Runs fully offline by default; set STAFFPLAN_EMBED_PROVIDER and
STAFFPLAN_LLM_PROVIDER to use ollama, openai or bedrock backends.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// .env is optional; ignore a missing file.
		_ = godotenv.Load()
		cfg = config.Load()

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, logCleanup = config.SetupLogger(cfg.LogFile, level)
		slog.SetDefault(logger)

		var err error
		if roles, err = config.LoadRoles(cfg.RolesFile); err != nil {
			return err
		}
		if weights, err = config.LoadWeights(cfg.WeightsFile); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// newPlanService wires the pipeline from the loaded configuration. When
// sowsDir is set the similarity index is built from its *.txt files; a
// missing directory degrades to an empty index.
func newPlanService(ctx context.Context, sowsDir string) (*service.PlanService, error) {
	embedder, err := llm.NewEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}
	analyzer, err := llm.NewAnalyzer(cfg, logger)
	if err != nil {
		return nil, err
	}

	settings := weights.Settings()
	svc := service.NewPlanService(
		embedder,
		analyzer,
		index.New(),
		calibration.NewEngine(settings, weights.SOWContracts, logger),
		calibration.NewMixResolver(weights.RoleMix, settings, weights.SOWContracts, logger),
		planner.NewBuilder(roles, weights),
		weights.SOWContracts,
		logger,
	)

	if sowsDir != "" {
		if _, err := svc.BuildIndex(ctx, sowsDir); err != nil {
			logger.Warn("could not build similarity index, continuing without neighbors", "error", err)
		}
	}
	return svc, nil
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(varianceCmd)
}
