package scoring

import (
	"fmt"
	"strings"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

// scoreWorkaround produces the Workaround component (5-15).
//
// Tier order matters: an operational-impact keyword beats a complexity
// keyword, so "manual intervention" scores 12 even though "manual" alone
// would score 10.
func (s *Scorer) scoreWorkaround(t *models.Ticket) models.ComponentScore {
	combined := lower(t.Workaround + " " + t.Description + " " + t.Summary)

	if kw, ok := firstMatch(combined, s.cfg.WorkaroundNoneKeywords); ok {
		return models.ComponentScore{
			Value:     WorkaroundNone,
			Reasoning: fmt.Sprintf("no workaround available (%q)", kw),
		}
	}
	if kw, ok := firstMatch(combined, s.cfg.WorkaroundImpactKeywords); ok {
		return models.ComponentScore{
			Value:     WorkaroundWithImpact,
			Reasoning: fmt.Sprintf("workaround carries operational impact (%q)", kw),
		}
	}
	if kw, ok := firstMatch(combined, s.cfg.WorkaroundComplexKeywords); ok {
		return models.ComponentScore{
			Value:     WorkaroundComplex,
			Reasoning: fmt.Sprintf("complex workaround (%q)", kw),
		}
	}
	if kw, ok := firstMatch(combined, s.cfg.WorkaroundSimpleKeywords); ok {
		return models.ComponentScore{
			Value:     WorkaroundSimple,
			Reasoning: fmt.Sprintf("simple workaround (%q)", kw),
		}
	}

	if strings.TrimSpace(t.Workaround) != "" {
		return models.ComponentScore{
			Value:     WorkaroundComplex,
			Reasoning: "workaround documented, complexity unclear",
		}
	}

	return models.ComponentScore{
		Value:     WorkaroundComplex,
		Reasoning: "insufficient workaround detail, moderate complexity assumed",
	}
}

func lower(s string) string { return strings.ToLower(s) }
