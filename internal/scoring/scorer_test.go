package scoring

import (
	"testing"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

func TestEvaluateVIPRecurringRCAFollowUp(t *testing.T) {
	s := NewScorer(Config{})
	tk := &models.Ticket{
		IssueKey:    "CORE-2291",
		Summary:     "Recurring export sync failures for monday.com",
		Description: "The export pipeline failed again for monday.com. Identified in the RCA for INC-1042.",
	}

	res := s.Evaluate(tk, models.Overrides{})

	if res.Components.ImpactSeverity.Value != SeverityP3 {
		t.Fatalf("severity: expected %d, got %d (%s)", SeverityP3, res.Components.ImpactSeverity.Value, res.Components.ImpactSeverity.Reasoning)
	}
	if res.Components.CustomerARR.Value != ARROver1M {
		t.Fatalf("arr: expected %d, got %d (%s)", ARROver1M, res.Components.CustomerARR.Value, res.Components.CustomerARR.Reasoning)
	}
	if res.Components.SLABreach.Value != SLANotBreached {
		t.Fatalf("sla: expected 0, got %d (%s)", res.Components.SLABreach.Value, res.Components.SLABreach.Reasoning)
	}
	if res.Components.Frequency.Value != FreqOver4 {
		t.Fatalf("frequency: expected %d, got %d (%s)", FreqOver4, res.Components.Frequency.Value, res.Components.Frequency.Reasoning)
	}
	if res.Components.Workaround.Value != WorkaroundComplex {
		t.Fatalf("workaround: expected %d, got %d (%s)", WorkaroundComplex, res.Components.Workaround.Value, res.Components.Workaround.Reasoning)
	}
	if res.Components.RCAActionItem.Value != RCAYes {
		t.Fatalf("rca: expected %d, got %d (%s)", RCAYes, res.Components.RCAActionItem.Value, res.Components.RCAActionItem.Reasoning)
	}

	if res.BaseScore != 71 {
		t.Fatalf("expected base 71, got %d", res.BaseScore)
	}
	if res.FinalScore != 71.0 {
		t.Fatalf("expected final 71.0, got %.1f", res.FinalScore)
	}
	if res.PriorityLevel != LevelHigh {
		t.Fatalf("expected HIGH, got %s", res.PriorityLevel)
	}
}

func TestEvaluateMaximumScore(t *testing.T) {
	s := NewScorer(Config{})
	tk := &models.Ticket{
		Priority:    "Blocker",
		Summary:     "Full outage across all regions",
		Description: "No workaround exists, confirmed sla breach, failed 6 times today.",
		Labels:      []string{"rca-action-item"},
	}
	ov := models.Overrides{
		ARRBucket:         BucketARROver1M,
		SupportMultiplier: 0.15,
		AccountMultiplier: 0.15,
	}

	res := s.Evaluate(tk, ov)
	if res.BaseScore != 100 {
		t.Fatalf("expected base 100, got %d (%+v)", res.BaseScore, res.Components)
	}
	if res.FinalScore != 130.0 {
		t.Fatalf("expected final 130.0, got %.1f", res.FinalScore)
	}
	if res.PriorityLevel != LevelCritical {
		t.Fatalf("expected CRITICAL, got %s", res.PriorityLevel)
	}
}

func TestEvaluateMinimumScore(t *testing.T) {
	s := NewScorer(Config{})
	tk := &models.Ticket{
		Priority:    "Trivial",
		Summary:     "Cosmetic misalignment in the legend",
		Description: "Simply refresh the page to redraw the legend.",
	}

	res := s.Evaluate(tk, models.Overrides{})
	if res.BaseScore != 13 {
		t.Fatalf("expected base 13, got %d (%+v)", res.BaseScore, res.Components)
	}
	if res.PriorityLevel != LevelMinimal {
		t.Fatalf("expected MINIMAL, got %s", res.PriorityLevel)
	}
}

func TestEvaluateClampsMultipliers(t *testing.T) {
	s := NewScorer(Config{})
	res := s.Evaluate(&models.Ticket{Priority: "Medium"}, models.Overrides{
		SupportMultiplier: 0.5,
		AccountMultiplier: -0.3,
	})
	if res.Components.SupportMultiplier != MaxMultiplier {
		t.Fatalf("expected support multiplier clamped to %.2f, got %.2f", MaxMultiplier, res.Components.SupportMultiplier)
	}
	if res.Components.AccountMultiplier != 0 {
		t.Fatalf("expected account multiplier clamped to 0, got %.2f", res.Components.AccountMultiplier)
	}
}

func TestEvaluateNilTicket(t *testing.T) {
	s := NewScorer(Config{})
	res := s.Evaluate(nil, models.Overrides{})
	if res == nil {
		t.Fatalf("expected a result for nil ticket")
	}
	if res.BaseScore < 13 || res.BaseScore > 100 {
		t.Fatalf("base score out of range: %d", res.BaseScore)
	}
}

func TestEvaluateBaseScoreAlwaysInRange(t *testing.T) {
	s := NewScorer(Config{})
	tickets := []*models.Ticket{
		{},
		{Summary: "???", Description: "!!!"},
		{Priority: "unknown-priority", Severity: "unmapped"},
		{Summary: "down down down", Description: "no workaround, sla breach, multiple customers, again"},
		{CustomerName: "monday.com", Labels: []string{"acre", "enterprise", "rca-action-item"}},
	}
	for i, tk := range tickets {
		res := s.Evaluate(tk, models.Overrides{})
		if res.BaseScore < 13 || res.BaseScore > 100 {
			t.Fatalf("ticket %d: base score out of range: %d", i, res.BaseScore)
		}
		if res.FinalScore < 13 || res.FinalScore > 130 {
			t.Fatalf("ticket %d: final score out of range: %.1f", i, res.FinalScore)
		}
	}
}

func TestClassifyPriorityBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{130, LevelCritical},
		{90.0, LevelCritical},
		{89.9, LevelHigh},
		{70.0, LevelHigh},
		{69.9, LevelMedium},
		{50.0, LevelMedium},
		{49.9, LevelLow},
		{30.0, LevelLow},
		{29.9, LevelMinimal},
		{13, LevelMinimal},
	}
	for _, c := range cases {
		if got := ClassifyPriority(c.score); got != c.want {
			t.Fatalf("score %.1f: expected %s, got %s", c.score, c.want, got)
		}
	}
}

func TestRoundScoreOneDecimal(t *testing.T) {
	if got := roundScore(71.04); got != 71.0 {
		t.Fatalf("expected 71.0, got %v", got)
	}
	if got := roundScore(71.06); got != 71.1 {
		t.Fatalf("expected 71.1, got %v", got)
	}
}
