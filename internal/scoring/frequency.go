package scoring

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

var (
	occurrencePattern = regexp.MustCompile(`(\d+)\s*(times|occurrences)`)
	ticketRefPattern  = regexp.MustCompile(`[A-Z][A-Z0-9]+-\d+`)
)

// scoreFrequency produces the Frequency component (0, 8 or 16). An explicit
// occurrence count always wins over text inference.
func (s *Scorer) scoreFrequency(t *models.Ticket, ov models.Overrides) models.ComponentScore {
	count := ov.OccurrenceCount
	if count == nil {
		count = t.OccurrenceCount
	}
	if count != nil {
		return models.ComponentScore{
			Value:     FrequencyCountScore(*count),
			Reasoning: fmt.Sprintf("explicit occurrence count %d", *count),
		}
	}

	text := t.NarrativeText() + " " + lower(t.RCA)

	if m := occurrencePattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return models.ComponentScore{
				Value:     FrequencyCountScore(n),
				Reasoning: fmt.Sprintf("occurrence count %d parsed from description", n),
			}
		}
	}

	if kw, ok := firstMatch(text, s.cfg.FrequencyMultipleKeywords); ok {
		return models.ComponentScore{
			Value:     FreqOver4,
			Reasoning: fmt.Sprintf("recurrence keyword %q found", kw),
		}
	}

	if kw, ok := firstMatch(text, s.cfg.FrequencySingleKeywords); ok {
		return models.ComponentScore{
			Value:     FreqSingle,
			Reasoning: fmt.Sprintf("single-occurrence keyword %q found", kw),
		}
	}

	if containsAny(text, s.cfg.SimilarIssueKeywords) &&
		ticketRefPattern.MatchString(t.Summary+" "+t.Description+" "+t.RCA) {
		return models.ComponentScore{
			Value:     Freq2To4,
			Reasoning: "references a similar earlier ticket",
		}
	}

	return models.ComponentScore{
		Value:     FreqSingle,
		Reasoning: "single occurrence assumed",
	}
}

// FrequencyCountScore maps an occurrence count to its bucket score.
func FrequencyCountScore(count int) int {
	switch {
	case count > 4:
		return FreqOver4
	case count >= 2:
		return Freq2To4
	default:
		return FreqSingle
	}
}
