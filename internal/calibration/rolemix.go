package calibration

import (
	"log/slog"
	"math"
	"strings"

	"github.com/mfeldt/staffplan/internal/models"
)

// DefaultRoleMix is the static split used when no mix is configured and no
// historical evidence is available.
var DefaultRoleMix = map[string]float64{
	"manager": 0.15,
	"senior":  0.45,
	"junior":  0.4,
}

// MixResolver derives the role -> share-of-hours mapping, preferring
// similarity-weighted historical role breakdowns over the static
// configuration when enough comparable contracts exist. It applies the same
// similarity threshold as the calibration engine, so both draw on the same
// neighbor set.
type MixResolver struct {
	static       map[string]float64
	minContracts int
	threshold    float64
	contracts    map[string]string
	logger       *slog.Logger
}

// NewMixResolver creates a resolver. static may be nil, in which case
// DefaultRoleMix applies. contracts maps SOW ids onto contract ids.
func NewMixResolver(static map[string]float64, settings Settings, contracts map[string]string, logger *slog.Logger) *MixResolver {
	if logger == nil {
		logger = slog.Default()
	}
	if len(static) == 0 {
		static = DefaultRoleMix
	}
	return &MixResolver{
		static:       static,
		minContracts: settings.MinSimilarContracts,
		threshold:    settings.SimilarityThreshold,
		contracts:    contracts,
		logger:       logger,
	}
}

// Static returns the configured mix, normalized to sum to 1.
func (r *MixResolver) Static() map[string]float64 {
	return Normalize(r.static)
}

// Resolve computes the role mix from similarity-weighted historical role
// hours, falling back to the static mix when fewer than the minimum number
// of distinct contracts can be joined or when the weighted hours degenerate.
func (r *MixResolver) Resolve(neighbors []models.Neighbor, hours []models.HistoricalHours) map[string]float64 {
	// A contract can appear once per mix computation: keep its best similarity.
	// Neighbors below the similarity threshold contribute nothing.
	weights := make(map[string]float64)
	for _, n := range neighbors {
		id := strings.TrimSpace(n.ID)
		if id == "" {
			continue
		}
		sim := n.Similarity()
		if r.threshold > 0 && sim < r.threshold {
			continue
		}
		contract := ResolveContract(r.contracts, id)
		if sim > weights[contract] {
			weights[contract] = sim
		}
	}
	if len(weights) == 0 || len(hours) == 0 {
		return r.Static()
	}

	type key struct{ contract, role string }
	roleHours := make(map[key]float64)
	contractHours := make(map[string]float64)
	for _, h := range hours {
		if _, ok := weights[h.ContractID]; !ok {
			continue
		}
		roleHours[key{h.ContractID, h.Role}] += h.ActualHours
		contractHours[h.ContractID] += h.ActualHours
	}
	if len(contractHours) < r.minContracts {
		r.logger.Debug("role mix falling back to static",
			"joined_contracts", len(contractHours), "min_required", r.minContracts)
		return r.Static()
	}

	roleWeighted := make(map[string]float64)
	var totalWeighted float64
	for k, v := range roleHours {
		roleWeighted[k.role] += v * weights[k.contract]
	}
	for contract, total := range contractHours {
		totalWeighted += total * weights[contract]
	}
	if totalWeighted <= 0 {
		return r.Static()
	}

	mix := make(map[string]float64, len(roleWeighted))
	for role, v := range roleWeighted {
		if share := v / totalWeighted; share > 0 {
			mix[role] = share
		}
	}
	if len(mix) == 0 {
		return r.Static()
	}
	return Normalize(mix)
}

// Normalize scales the mix so its values sum to 1, dropping non-positive
// entries. A degenerate input yields DefaultRoleMix normalized.
func Normalize(mix map[string]float64) map[string]float64 {
	var sum float64
	for _, v := range mix {
		if v > 0 {
			sum += v
		}
	}
	if sum <= 0 {
		out := make(map[string]float64, len(DefaultRoleMix))
		for role, v := range DefaultRoleMix {
			out[role] = v
		}
		return out
	}
	out := make(map[string]float64, len(mix))
	for role, v := range mix {
		if v > 0 {
			out[role] = v / sum
		}
	}
	return out
}

// RoundMix rounds each share to 2 decimals for display. The rounded mapping
// is diagnostic metadata only; computation always uses the unrounded mix.
func RoundMix(mix map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(mix))
	for role, v := range mix {
		out[role] = math.Round(v*100) / 100
	}
	return out
}
