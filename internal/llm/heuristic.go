package llm

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/mfeldt/staffplan/internal/models"
)

// HeuristicAnalyzer produces an SOW summary from keyword and pattern matching
// alone. It backs the offline provider and is the degradation target for the
// LLM analyzers.
type HeuristicAnalyzer struct{}

var _ Analyzer = (*HeuristicAnalyzer)(nil)

var (
	monthsRe       = regexp.MustCompile(`(?i)(\d+)\s*-?\s*months?`)
	weeksRe        = regexp.MustCompile(`(?i)(\d+)\s*-?\s*weeks?`)
	hoursRe        = regexp.MustCompile(`(?i)(\d[\d,]*)\s*(?:staffing\s+|total\s+)?hours`)
	deliverablesRe = regexp.MustCompile(`(?i)deliverables?\s*[:\-]\s*(.+)`)

	highComplexityWords = []string{
		"complex", "sophisticated", "advanced", "integrated", "multi-phase",
		"multi-stage", "end-to-end", "comprehensive", "extensive",
	}
	lowComplexityWords = []string{"simple", "basic", "limited", "focused"}

	workstreamWords = []string{
		"sponsorship strategy", "tech", "data", "experience", "client services",
		"creative", "operations", "marketing", "strategy", "design",
		"development", "analytics",
	}
)

// AnalyzeSOW never fails; unknown fields take the fixed defaults
// (medium complexity, 4 months, 2 workstreams, 800 hours).
func (HeuristicAnalyzer) AnalyzeSOW(_ context.Context, text string) (models.SOWSummary, error) {
	lower := strings.ToLower(text)
	return models.SOWSummary{
		ComplexityLevel:     complexityLevel(lower),
		DurationMonths:      models.FlexFloat(durationMonths(text)),
		WorkstreamCount:     models.FlexFloat(workstreamCount(lower)),
		EstimatedTotalHours: models.FlexFloat(estimatedHours(text)),
		KeyDeliverables:     keyDeliverables(text),
	}, nil
}

func complexityLevel(lower string) string {
	var high, low int
	for _, w := range highComplexityWords {
		if strings.Contains(lower, w) {
			high++
		}
	}
	for _, w := range lowComplexityWords {
		if strings.Contains(lower, w) {
			low++
		}
	}
	switch {
	case high > low:
		return "high"
	case low > high:
		return "low"
	default:
		return "medium"
	}
}

func durationMonths(text string) float64 {
	if m := monthsRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return v
		}
	}
	if m := weeksRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
			return v / 4
		}
	}
	return 4
}

func workstreamCount(lower string) int {
	count := 0
	for _, w := range workstreamWords {
		if strings.Contains(lower, w) {
			count++
		}
	}
	if count == 0 {
		return 2
	}
	return count
}

func estimatedHours(text string) float64 {
	if m := hoursRe.FindStringSubmatch(text); m != nil {
		raw := strings.ReplaceAll(m[1], ",", "")
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			return v
		}
	}
	return 800
}

func keyDeliverables(text string) []string {
	if m := deliverablesRe.FindStringSubmatch(text); m != nil {
		parts := strings.Split(m[1], ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(strings.TrimSuffix(p, ".")); p != "" {
				out = append(out, p)
			}
			if len(out) == 5 {
				break
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{"Strategy document", "Creative assets"}
}
