package scoring

import (
	"fmt"
	"strings"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

// minRCATextLength is the shortest RCA narrative considered substantial
// enough to infer a follow-up action item from.
const minRCATextLength = 50

// scoreRCAActionItem produces the RCA Action Item component (0 or 8). Only
// follow-up work from a completed RCA counts; a ticket that merely needs an
// RCA for its own incident does not.
func (s *Scorer) scoreRCAActionItem(t *models.Ticket) models.ComponentScore {
	labels := t.LabelText()
	if kw, ok := firstMatch(labels, s.cfg.RCAFollowUpLabels); ok {
		return models.ComponentScore{
			Value:     RCAYes,
			Reasoning: fmt.Sprintf("labeled %q as RCA follow-up work", kw),
		}
	}

	text := t.NarrativeText()
	if kw, ok := firstMatch(text, s.cfg.RCAFollowUpKeywords); ok {
		return models.ComponentScore{
			Value:     RCAYes,
			Reasoning: fmt.Sprintf("description indicates follow-up from a prior RCA (%q)", kw),
		}
	}

	rca := strings.TrimSpace(t.RCA)
	if len(rca) > minRCATextLength && containsAny(lower(rca)+" "+text, s.cfg.RCAKeywords) {
		combined := lower(rca) + " " + text
		if kw, ok := firstMatch(combined, s.cfg.RCACurrentIncidentKeywords); ok {
			return models.ComponentScore{
				Value:     RCANo,
				Reasoning: fmt.Sprintf("RCA pending for this incident itself (%q)", kw),
			}
		}
		if kw, ok := firstMatch(combined, s.cfg.RCAFollowUpKeywords); ok {
			return models.ComponentScore{
				Value:     RCAYes,
				Reasoning: fmt.Sprintf("RCA text indicates follow-up work (%q)", kw),
			}
		}
		return models.ComponentScore{
			Value:     RCAYes,
			Reasoning: "substantial RCA text present, treated as follow-up work (low confidence)",
		}
	}

	return models.ComponentScore{
		Value:     RCANo,
		Reasoning: "no RCA action item indicators found",
	}
}
