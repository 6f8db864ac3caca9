package scoring

import (
	"strings"
	"testing"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

func TestRCAActionItemLabel(t *testing.T) {
	s := NewScorer(Config{})
	tk := &models.Ticket{Labels: []string{"backend", "rca-action-item"}}
	got := s.scoreRCAActionItem(tk)
	if got.Value != RCAYes {
		t.Fatalf("expected label to score %d, got %d (%s)", RCAYes, got.Value, got.Reasoning)
	}
}

func TestRCAActionItemFollowUpPhraseInDescription(t *testing.T) {
	s := NewScorer(Config{})
	tk := &models.Ticket{Description: "Follow-up from the March outage postmortem: add retry budget"}
	got := s.scoreRCAActionItem(tk)
	if got.Value != RCAYes {
		t.Fatalf("expected follow-up phrase to score %d, got %d (%s)", RCAYes, got.Value, got.Reasoning)
	}
}

func TestRCAActionItemCurrentIncidentDoesNotCount(t *testing.T) {
	s := NewScorer(Config{})
	tk := &models.Ticket{
		Summary: "Shard failover stuck",
		RCA:     "RCA in progress, the root cause of the failover hang is still being investigated by the team.",
	}
	got := s.scoreRCAActionItem(tk)
	if got.Value != RCANo {
		t.Fatalf("expected current-incident RCA to score %d, got %d (%s)", RCANo, got.Value, got.Reasoning)
	}
}

func TestRCAActionItemFollowUpInRCAText(t *testing.T) {
	s := NewScorer(Config{})
	tk := &models.Ticket{
		RCA: "Action item from the Q2 incident review: the rca concluded we must cap connection pool growth.",
	}
	got := s.scoreRCAActionItem(tk)
	if got.Value != RCAYes {
		t.Fatalf("expected follow-up RCA text to score %d, got %d (%s)", RCAYes, got.Value, got.Reasoning)
	}
}

func TestRCAActionItemSubstantialTextLowConfidence(t *testing.T) {
	s := NewScorer(Config{})
	tk := &models.Ticket{
		RCA: "Root cause was an unbounded retry loop in the export worker that amplified load on the broker.",
	}
	got := s.scoreRCAActionItem(tk)
	if got.Value != RCAYes {
		t.Fatalf("expected substantial RCA text to score %d, got %d (%s)", RCAYes, got.Value, got.Reasoning)
	}
	if !strings.Contains(got.Reasoning, "low confidence") {
		t.Fatalf("expected low-confidence note, got %q", got.Reasoning)
	}
}

func TestRCAActionItemShortOrAbsentText(t *testing.T) {
	s := NewScorer(Config{})

	got := s.scoreRCAActionItem(&models.Ticket{RCA: "rca pending"})
	if got.Value != RCANo {
		t.Fatalf("short RCA text: expected %d, got %d (%s)", RCANo, got.Value, got.Reasoning)
	}

	got = s.scoreRCAActionItem(&models.Ticket{Description: "Improve logging around retries"})
	if got.Value != RCANo {
		t.Fatalf("no RCA signal: expected %d, got %d (%s)", RCANo, got.Value, got.Reasoning)
	}
}
