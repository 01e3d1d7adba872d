// Package service orchestrates the estimation pipeline: SOW analysis,
// similarity search, calibration, role mix resolution and plan construction.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mfeldt/staffplan/internal/calibration"
	"github.com/mfeldt/staffplan/internal/index"
	"github.com/mfeldt/staffplan/internal/llm"
	"github.com/mfeldt/staffplan/internal/metrics"
	"github.com/mfeldt/staffplan/internal/models"
	"github.com/mfeldt/staffplan/internal/planner"
)

// Defaults applied when a request leaves the corresponding field unset.
const (
	DefaultTopK        = 5
	DefaultMaxTeamSize = 8
)

// PlanService generates staffing plans from SOW text plus historical data.
type PlanService struct {
	embedder  llm.Embedder
	analyzer  llm.Analyzer
	index     *index.Index
	engine    *calibration.Engine
	mix       *calibration.MixResolver
	builder   *planner.Builder
	contracts map[string]string
	logger    *slog.Logger
	stats     *metrics.Collector
}

// NewPlanService wires the pipeline components together. contracts maps SOW
// identifiers onto contract ids and may be nil.
func NewPlanService(
	embedder llm.Embedder,
	analyzer llm.Analyzer,
	idx *index.Index,
	engine *calibration.Engine,
	mix *calibration.MixResolver,
	builder *planner.Builder,
	contracts map[string]string,
	logger *slog.Logger,
) *PlanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanService{
		embedder:  embedder,
		analyzer:  analyzer,
		index:     idx,
		engine:    engine,
		mix:       mix,
		builder:   builder,
		contracts: contracts,
		logger:    logger,
		stats:     metrics.NewCollector(),
	}
}

// GenerateRequest carries the inputs for one plan generation.
type GenerateRequest struct {
	ContractID         string
	SOWText            string
	Hours              []models.HistoricalHours
	ScopeMultiplier    float64
	DurationMultiplier float64
	MaxTeamSize        int
	TopK               int
}

// Diagnostics is the metadata produced alongside a plan. It travels with the
// plan as a typed pair, never bolted onto the rows themselves.
type Diagnostics struct {
	RunID       string                   `json:"run_id"`
	Summary     models.SOWSummary        `json:"summary"`
	Features    models.Features          `json:"features"`
	Neighbors   []models.Neighbor        `json:"neighbors"`
	Calibration models.CalibrationResult `json:"calibration"`
	RoleMixUsed map[string]float64       `json:"role_mix_used"`
}

// Generate runs the full pipeline. The only hard failure is an unusable
// query embedding; everything else degrades toward a usable plan.
func (s *PlanService) Generate(ctx context.Context, req GenerateRequest) ([]models.StaffingRow, Diagnostics, error) {
	runID := uuid.NewString()

	started := time.Now()
	summary, err := s.analyzer.AnalyzeSOW(ctx, req.SOWText)
	s.stats.RecordTiming(metrics.OpAnalyze, time.Since(started))
	if err != nil {
		// The analyzers degrade internally; an error here means even the
		// heuristic path was unusable, so fall back to an empty summary.
		s.logger.Warn("SOW analysis unavailable", "run_id", runID, "error", err)
		summary = models.SOWSummary{}
	}

	var neighbors []models.Neighbor
	if s.index != nil && s.index.Len() > 0 {
		embedStart := time.Now()
		vector, err := llm.EmbedLong(ctx, s.embedder, req.SOWText)
		if err != nil {
			return nil, Diagnostics{}, fmt.Errorf("embed SOW: %w", err)
		}
		s.stats.RecordTiming(metrics.OpEmbed, time.Since(embedStart))

		topK := req.TopK
		if topK <= 0 {
			topK = DefaultTopK
		}
		searchStart := time.Now()
		neighbors = s.index.Search(vector, topK)
		s.stats.RecordTiming(metrics.OpSearch, time.Since(searchStart))
	}

	features := models.FeaturesFromSummary(summary)
	features.ApplyMultipliers(orDefault(req.ScopeMultiplier), orDefault(req.DurationMultiplier))

	cal := s.engine.Calibrate(neighbors, features.EstimatedHours, req.Hours)
	total := math.Max(cal.BlendedBaseline, 0)
	mix := s.mix.Resolve(neighbors, req.Hours)

	maxTeam := req.MaxTeamSize
	if maxTeam == 0 {
		maxTeam = DefaultMaxTeamSize
	}
	rows := s.builder.Build(req.ContractID, total, mix, features, maxTeam)

	s.logger.Info("plan generated",
		"run_id", runID, "contract_id", req.ContractID,
		"strategy", cal.Strategy, "total_hours", total,
		"neighbors", len(neighbors), "rows", len(rows))

	return rows, Diagnostics{
		RunID:       runID,
		Summary:     summary,
		Features:    features,
		Neighbors:   neighbors,
		Calibration: cal,
		RoleMixUsed: calibration.RoundMix(mix),
	}, nil
}

// Similar embeds the text and returns its nearest historical SOWs.
func (s *PlanService) Similar(ctx context.Context, text string, topK int) ([]models.Neighbor, error) {
	if s.index == nil || s.index.Len() == 0 {
		return nil, nil
	}
	vector, err := llm.EmbedLong(ctx, s.embedder, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return s.index.Search(vector, topK), nil
}

// BuildIndex embeds every *.txt file under dir into the similarity index,
// keyed by file name. Returns the number of documents indexed.
func (s *PlanService) BuildIndex(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read SOW directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".txt" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	started := time.Now()
	for _, name := range names {
		text, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return 0, fmt.Errorf("read SOW %s: %w", name, err)
		}
		vector, err := llm.EmbedLong(ctx, s.embedder, string(text))
		if err != nil {
			return 0, fmt.Errorf("embed SOW %s: %w", name, err)
		}
		s.index.Add(name, string(text), vector)
	}
	s.stats.RecordTiming(metrics.OpIndexBuild, time.Since(started))

	s.logger.Info("similarity index built", "dir", dir, "documents", len(names))
	return len(names), nil
}

// Metrics returns a snapshot of the pipeline's runtime statistics.
func (s *PlanService) Metrics() metrics.Snapshot {
	return s.stats.Snapshot()
}

// BestMatchContract resolves the closest neighbor to its contract id, for
// comparing the generated plan against that contract's actuals.
func (s *PlanService) BestMatchContract(neighbors []models.Neighbor) (string, bool) {
	if len(neighbors) == 0 {
		return "", false
	}
	contract := calibration.ResolveContract(s.contracts, neighbors[0].ID)
	return contract, contract != ""
}

func orDefault(multiplier float64) float64 {
	if multiplier == 0 {
		return 1
	}
	return multiplier
}
