package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

// Priority level breakpoints over the final score.
const (
	LevelCritical = "CRITICAL"
	LevelHigh     = "HIGH"
	LevelMedium   = "MEDIUM"
	LevelLow      = "LOW"
	LevelMinimal  = "MINIMAL"
)

// Scorer evaluates tickets against the configured keyword tables. It is
// stateless apart from its configuration and safe for concurrent use.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer, filling empty tables with the defaults.
func NewScorer(cfg Config) *Scorer {
	cfg.applyDefaults()
	return &Scorer{cfg: cfg}
}

// Evaluate scores one ticket. It never fails: missing fields degrade to the
// documented defaults and out-of-range overrides are clamped.
func (s *Scorer) Evaluate(t *models.Ticket, ov models.Overrides) *models.Result {
	if t == nil {
		t = &models.Ticket{}
	}

	severity := s.scoreImpactSeverity(t)
	arr := s.scoreCustomerARR(t, ov)
	sla := s.scoreSLABreach(t, ov, severity.Value)
	freq := s.scoreFrequency(t, ov)
	workaround := s.scoreWorkaround(t)
	rca := s.scoreRCAActionItem(t)

	support := clampMultiplier(ov.SupportMultiplier)
	account := clampMultiplier(ov.AccountMultiplier)

	base := severity.Value + arr.Value + sla.Value + freq.Value + workaround.Value + rca.Value
	final := roundScore(float64(base) * (1 + support + account))

	return &models.Result{
		IssueKey: t.IssueKey,
		Summary:  t.Summary,
		Source:   t.Source,
		Components: models.Breakdown{
			ImpactSeverity:    severity,
			CustomerARR:       arr,
			SLABreach:         sla,
			Frequency:         freq,
			Workaround:        workaround,
			RCAActionItem:     rca,
			SupportMultiplier: support,
			AccountMultiplier: account,
		},
		BaseScore:     base,
		FinalScore:    final,
		PriorityLevel: ClassifyPriority(final),
	}
}

// ClassifyPriority maps a final score to its priority level bucket.
func ClassifyPriority(score float64) string {
	switch {
	case score >= 90:
		return LevelCritical
	case score >= 70:
		return LevelHigh
	case score >= 50:
		return LevelMedium
	case score >= 30:
		return LevelLow
	default:
		return LevelMinimal
	}
}

func clampMultiplier(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxMultiplier {
		return MaxMultiplier
	}
	return v
}

func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

// firstMatch returns the first keyword found in the haystack, which must
// already be lowercased.
func firstMatch(hay string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(hay, kw) {
			return kw, true
		}
	}
	return "", false
}

func containsAny(hay string, keywords []string) bool {
	_, ok := firstMatch(hay, keywords)
	return ok
}

// orderedKeys returns map keys sorted longest-first (ties alphabetical) so
// substring matching is deterministic.
func orderedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
