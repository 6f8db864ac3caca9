package scoring

import (
	"fmt"
	"strings"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

// scoreImpactSeverity produces the Impact & Severity component (8-38).
//
// Monitoring-only issues with a healthy underlying service are capped at P4
// regardless of the nominal priority: a broken dashboard never outranks a
// service at risk.
func (s *Scorer) scoreImpactSeverity(t *models.Ticket) models.ComponentScore {
	text := t.NarrativeText() + " " + t.LabelText()

	monitoringOnly := containsAny(text, s.cfg.MonitoringKeywords)
	serviceHealthy := containsAny(text, s.cfg.ServiceHealthyKeywords)

	if monitoringOnly && serviceHealthy {
		return models.ComponentScore{
			Value:     SeverityP4,
			Reasoning: "monitoring/metrics issue with service functioning normally (P4)",
		}
	}

	priority := strings.ToLower(strings.TrimSpace(t.Priority))
	if score, ok := s.cfg.PriorityScores[priority]; ok {
		return models.ComponentScore{
			Value:     score,
			Reasoning: fmt.Sprintf("priority %q maps to %d points", t.Priority, score),
		}
	}

	severity := strings.ToLower(strings.TrimSpace(t.Severity))
	if severity != "" {
		// Longest fragment wins so "1 - critical" is preferred over "p1".
		for _, key := range orderedKeys(s.cfg.SeverityMappings) {
			if strings.Contains(severity, key) {
				score := s.cfg.SeverityMappings[key]
				return models.ComponentScore{
					Value:     score,
					Reasoning: fmt.Sprintf("severity field %q maps to %d points", t.Severity, score),
				}
			}
		}
	}

	if kw, ok := firstMatch(text, s.cfg.CriticalKeywords); ok {
		if serviceHealthy {
			return models.ComponentScore{
				Value:     SeverityP4,
				Reasoning: fmt.Sprintf("critical keyword %q found but service is functioning (P4)", kw),
			}
		}
		return models.ComponentScore{
			Value:     SeverityP1,
			Reasoning: fmt.Sprintf("critical keyword %q found in description", kw),
		}
	}
	if kw, ok := firstMatch(text, s.cfg.DegradedKeywords); ok {
		return models.ComponentScore{
			Value:     SeverityP2,
			Reasoning: fmt.Sprintf("degradation keyword %q found in description", kw),
		}
	}
	if kw, ok := firstMatch(text, s.cfg.GeneralIssueKeywords); ok {
		return models.ComponentScore{
			Value:     SeverityP3,
			Reasoning: fmt.Sprintf("general issue keyword %q found in description", kw),
		}
	}

	return models.ComponentScore{
		Value:     SeverityP3,
		Reasoning: "no explicit severity indicator, default applied (P3)",
	}
}
