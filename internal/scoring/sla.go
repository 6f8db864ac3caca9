package scoring

import (
	"fmt"
	"strings"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

// scoreSLABreach produces the SLA Breach component (0 or 8).
//
// Precedence is fixed: the managed-variant rule beats everything, then the
// negation scan, then the positive scan. The negation scan must run first so
// an investigation narrative that mentions "downtime" only to rule it out is
// not counted as a breach.
func (s *Scorer) scoreSLABreach(t *models.Ticket, ov models.Overrides, severityValue int) models.ComponentScore {
	if ov.ManagedServiceNoSLA {
		return models.ComponentScore{
			Value:     SLANotBreached,
			Reasoning: "no SLA ownership for this managed-service variant",
		}
	}
	labels := t.LabelText()
	if kw, ok := firstMatch(labels, s.cfg.ManagedServiceLabels); ok {
		return models.ComponentScore{
			Value:     SLANotBreached,
			Reasoning: fmt.Sprintf("managed-service label %q: SLA owned by platform operator", kw),
		}
	}

	text := strings.ToLower(strings.TrimSpace(
		t.Summary + " " + t.Description + " " + t.RCA + " " + t.Workaround))

	if kw, ok := firstMatch(text, s.cfg.SLANegationKeywords); ok {
		return models.ComponentScore{
			Value:     SLANotBreached,
			Reasoning: fmt.Sprintf("explicit no-breach statement %q found", kw),
		}
	}

	if kw, ok := firstMatch(text, s.cfg.SLABreachKeywords); ok {
		return models.ComponentScore{
			Value:     SLABreached,
			Reasoning: fmt.Sprintf("SLA breach keyword %q found", kw),
		}
	}

	if severityValue >= SeverityP1 {
		return models.ComponentScore{
			Value:     SLABreached,
			Reasoning: "highest severity tier suggests potential SLA breach",
		}
	}

	return models.ComponentScore{
		Value:     SLANotBreached,
		Reasoning: "no SLA breach indicators found",
	}
}
