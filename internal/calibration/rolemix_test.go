package calibration

import (
	"math"
	"testing"

	"github.com/mfeldt/staffplan/internal/models"
)

func assertSumsToOne(t *testing.T, mix map[string]float64) {
	t.Helper()
	var sum float64
	for _, v := range mix {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("mix sums to %v, want 1.0: %v", sum, mix)
	}
}

func TestStaticMixDefault(t *testing.T) {
	r := NewMixResolver(nil, Settings{MinSimilarContracts: 2}, nil, nil)
	mix := r.Static()
	assertSumsToOne(t, mix)
	if mix["senior"] != 0.45 {
		t.Errorf("senior share = %f, want 0.45", mix["senior"])
	}
}

func TestStaticMixNormalized(t *testing.T) {
	r := NewMixResolver(map[string]float64{"a": 2, "b": 2}, Settings{MinSimilarContracts: 2}, nil, nil)
	mix := r.Static()
	assertSumsToOne(t, mix)
	if mix["a"] != 0.5 || mix["b"] != 0.5 {
		t.Errorf("mix = %v, want 0.5/0.5", mix)
	}
}

func TestResolveDynamicMix(t *testing.T) {
	r := NewMixResolver(nil, Settings{MinSimilarContracts: 2}, nil, nil)
	neighbors := []models.Neighbor{
		{ID: "C-1", Distance: 0},   // weight 1
		{ID: "C-2", Distance: 1.0}, // weight 0.5
	}
	hours := []models.HistoricalHours{
		{ContractID: "C-1", Role: "designer", ActualHours: 100},
		{ContractID: "C-1", Role: "analyst", ActualHours: 100},
		{ContractID: "C-2", Role: "designer", ActualHours: 300},
	}

	mix := r.Resolve(neighbors, hours)
	assertSumsToOne(t, mix)

	// designer: 100*1 + 300*0.5 = 250; analyst: 100*1 = 100; total 200*1 + 300*0.5 = 350
	if math.Abs(mix["designer"]-250.0/350.0) > 1e-9 {
		t.Errorf("designer share = %f, want %f", mix["designer"], 250.0/350.0)
	}
	if math.Abs(mix["analyst"]-100.0/350.0) > 1e-9 {
		t.Errorf("analyst share = %f, want %f", mix["analyst"], 100.0/350.0)
	}
}

func TestResolveContractAppearsOnce(t *testing.T) {
	r := NewMixResolver(nil, Settings{MinSimilarContracts: 1}, nil, nil)
	// Same contract twice at different distances: best similarity wins.
	neighbors := []models.Neighbor{
		{ID: "C-1", Distance: 3.0},
		{ID: "C-1", Distance: 0.0},
	}
	hours := []models.HistoricalHours{
		{ContractID: "C-1", Role: "designer", ActualHours: 200},
	}

	mix := r.Resolve(neighbors, hours)
	assertSumsToOne(t, mix)
	if mix["designer"] != 1.0 {
		t.Errorf("designer share = %f, want 1.0", mix["designer"])
	}
}

func TestResolveInsufficientContractsFallsBack(t *testing.T) {
	static := map[string]float64{"junior": 0.6, "senior": 0.4}
	r := NewMixResolver(static, Settings{MinSimilarContracts: 2}, nil, nil)

	neighbors := []models.Neighbor{{ID: "C-1", Distance: 0}}
	hours := []models.HistoricalHours{{ContractID: "C-1", Role: "designer", ActualHours: 100}}

	mix := r.Resolve(neighbors, hours)
	assertSumsToOne(t, mix)
	if mix["junior"] != 0.6 {
		t.Errorf("expected static mix, got %v", mix)
	}
}

func TestResolveNoHoursFallsBack(t *testing.T) {
	r := NewMixResolver(nil, Settings{MinSimilarContracts: 1}, nil, nil)
	mix := r.Resolve([]models.Neighbor{{ID: "C-1"}}, nil)
	assertSumsToOne(t, mix)
	if mix["senior"] != 0.45 {
		t.Errorf("expected default static mix, got %v", mix)
	}
}

func TestResolveUsesContractMapping(t *testing.T) {
	contracts := map[string]string{"sow_a.txt": "C-1", "sow_b.txt": "C-2"}
	r := NewMixResolver(nil, Settings{MinSimilarContracts: 2}, contracts, nil)

	neighbors := []models.Neighbor{
		{ID: "sow_a.txt", Distance: 0},
		{ID: "sow_b.txt", Distance: 0},
	}
	hours := []models.HistoricalHours{
		{ContractID: "C-1", Role: "designer", ActualHours: 100},
		{ContractID: "C-2", Role: "analyst", ActualHours: 300},
	}

	mix := r.Resolve(neighbors, hours)
	assertSumsToOne(t, mix)
	if math.Abs(mix["analyst"]-0.75) > 1e-9 {
		t.Errorf("analyst share = %f, want 0.75", mix["analyst"])
	}
}

func TestResolveExcludesBelowThresholdNeighbors(t *testing.T) {
	r := NewMixResolver(nil, Settings{MinSimilarContracts: 1, SimilarityThreshold: 0.3}, nil, nil)

	// sim 1/(1+d): C-NEAR at 0.91 passes the threshold, C-FAR at 0.2 does not.
	neighbors := []models.Neighbor{
		{ID: "C-NEAR", Distance: 0.1},
		{ID: "C-FAR", Distance: 4.0},
	}
	hours := []models.HistoricalHours{
		{ContractID: "C-NEAR", Role: "designer", ActualHours: 100},
		{ContractID: "C-FAR", Role: "analyst", ActualHours: 1000},
	}

	mix := r.Resolve(neighbors, hours)
	assertSumsToOne(t, mix)
	if mix["designer"] != 1.0 {
		t.Errorf("designer share = %f, want 1.0", mix["designer"])
	}
	if _, ok := mix["analyst"]; ok {
		t.Errorf("below-threshold contract shifted the mix: %v", mix)
	}
}

func TestResolveAllBelowThresholdFallsBack(t *testing.T) {
	r := NewMixResolver(nil, Settings{MinSimilarContracts: 1, SimilarityThreshold: 0.9}, nil, nil)

	neighbors := []models.Neighbor{{ID: "C-1", Distance: 4.0}}
	hours := []models.HistoricalHours{{ContractID: "C-1", Role: "designer", ActualHours: 100}}

	mix := r.Resolve(neighbors, hours)
	assertSumsToOne(t, mix)
	if mix["senior"] != 0.45 {
		t.Errorf("expected default static mix when every neighbor is filtered, got %v", mix)
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	mix := Normalize(map[string]float64{"a": 0, "b": -5})
	assertSumsToOne(t, mix)
	if _, ok := mix["manager"]; !ok {
		t.Errorf("degenerate input should fall back to the default mix, got %v", mix)
	}
}

func TestRoundMix(t *testing.T) {
	rounded := RoundMix(map[string]float64{"designer": 250.0 / 350.0})
	if rounded["designer"] != 0.71 {
		t.Errorf("rounded share = %f, want 0.71", rounded["designer"])
	}
}
