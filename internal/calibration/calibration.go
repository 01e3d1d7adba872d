// Package calibration blends AI-derived effort estimates with
// similarity-weighted historical evidence.
package calibration

import (
	"log/slog"
	"strings"

	"github.com/mfeldt/staffplan/internal/models"
)

// Fallback strategies for when historical evidence is insufficient.
const (
	FallbackConservative = "conservative"
	FallbackAIFirst      = "ai_first"
)

// Settings control how the AI estimate and the historical baseline are combined.
type Settings struct {
	AIConfidence         float64 `yaml:"ai_confidence"`
	HistoricalConfidence float64 `yaml:"historical_confidence"`
	MinSimilarContracts  int     `yaml:"min_similar_contracts"`
	SimilarityThreshold  float64 `yaml:"similarity_threshold"`
	FallbackStrategy     string  `yaml:"fallback_strategy"`
}

// DefaultSettings trusts corroborated history over the AI estimate and
// requires at least two comparable contracts before blending.
func DefaultSettings() Settings {
	return Settings{
		AIConfidence:         0.3,
		HistoricalConfidence: 0.7,
		MinSimilarContracts:  2,
		SimilarityThreshold:  0.3,
		FallbackStrategy:     FallbackConservative,
	}
}

// Engine computes calibrated total-hours baselines. Neighbor ids are resolved
// to contract ids through an injected mapping; ids absent from the mapping
// pass through unchanged.
type Engine struct {
	settings  Settings
	contracts map[string]string
	logger    *slog.Logger
}

// NewEngine creates a calibration engine. contracts maps SOW identifiers to
// contract ids and may be nil.
func NewEngine(settings Settings, contracts map[string]string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{settings: settings, contracts: contracts, logger: logger}
}

// ResolveContract maps a neighbor id onto its contract id, falling through to
// the trimmed raw id when no mapping entry exists.
func ResolveContract(contracts map[string]string, id string) string {
	id = strings.TrimSpace(id)
	if mapped, ok := contracts[id]; ok {
		return mapped
	}
	return id
}

// ActualHoursForContract sums reported hours for one contract. Missing or
// empty historical data yields 0.
func ActualHoursForContract(contractID string, hours []models.HistoricalHours) float64 {
	var total float64
	for _, h := range hours {
		if h.ContractID == contractID {
			total += h.ActualHours
		}
	}
	return total
}

// weightedBaseline computes the similarity-weighted mean of neighbor actual
// hours, weight 1/(1+distance). Neighbors without positive resolved actuals
// are discarded. The second return is false when no usable neighbor remains.
func (e *Engine) weightedBaseline(neighbors []models.Neighbor, hours []models.HistoricalHours) (float64, bool) {
	if len(neighbors) == 0 || len(hours) == 0 {
		return 0, false
	}
	var numer, denom float64
	for _, n := range neighbors {
		id := strings.TrimSpace(n.ID)
		if id == "" {
			continue
		}
		actual := ActualHoursForContract(ResolveContract(e.contracts, id), hours)
		if actual <= 0 {
			continue
		}
		w := 1.0 / (1.0 + n.Distance)
		numer += actual * w
		denom += w
	}
	if denom == 0 {
		return 0, false
	}
	return numer / denom, true
}

// biasCorrection is a seam for future AI-estimate calibration. Identity for now.
func (e *Engine) biasCorrection(_ []models.Neighbor, _ []models.HistoricalHours) float64 {
	return 1.0
}

// Calibrate blends aiEstimate with the similarity-weighted historical
// baseline. Blending only happens when a baseline exists and enough
// sufficiently similar neighbors survive the threshold filter; otherwise the
// configured fallback strategy decides.
func (e *Engine) Calibrate(neighbors []models.Neighbor, aiEstimate float64, hours []models.HistoricalHours) models.CalibrationResult {
	filtered := neighbors
	if e.settings.SimilarityThreshold > 0 {
		filtered = make([]models.Neighbor, 0, len(neighbors))
		for _, n := range neighbors {
			if n.Similarity() >= e.settings.SimilarityThreshold {
				filtered = append(filtered, n)
			}
		}
	}

	// When the filter removes every neighbor the baseline still draws on the
	// unfiltered set; the evidence gate fails regardless, so the value only
	// feeds the fallback path.
	baseSet := filtered
	if len(baseSet) == 0 {
		baseSet = neighbors
	}
	baseline, haveBaseline := e.weightedBaseline(baseSet, hours)
	corrected := aiEstimate * e.biasCorrection(baseSet, hours)

	if haveBaseline && len(filtered) >= e.settings.MinSimilarContracts {
		aiW := clamp01(e.settings.AIConfidence)
		histW := clamp01(e.settings.HistoricalConfidence)
		if aiW+histW == 0 {
			aiW, histW = 0.3, 0.7
		}
		blended := aiW*corrected + histW*baseline
		e.logger.Debug("calibration blended",
			"ai_estimate", aiEstimate, "hist_baseline", baseline,
			"neighbors", len(filtered), "blended", blended)
		return models.CalibrationResult{
			AIEstimate:      aiEstimate,
			HistBaseline:    baseline,
			CorrectedAI:     corrected,
			BlendedBaseline: blended,
			Strategy:        models.StrategyBlended,
		}
	}

	var fallback float64
	switch {
	case e.settings.FallbackStrategy == FallbackConservative:
		fallback = aiEstimate
		if haveBaseline && baseline < fallback {
			fallback = baseline
		}
	case aiEstimate > 0:
		fallback = aiEstimate
	case haveBaseline:
		fallback = baseline
	}
	e.logger.Debug("calibration fallback",
		"strategy", e.settings.FallbackStrategy, "ai_estimate", aiEstimate,
		"have_baseline", haveBaseline, "value", fallback)
	return models.CalibrationResult{
		AIEstimate:      aiEstimate,
		HistBaseline:    baseline,
		CorrectedAI:     corrected,
		BlendedBaseline: fallback,
		Strategy:        models.StrategyFallback,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
