package scoring

import (
	"testing"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

func TestCustomerARRExplicitBucketWins(t *testing.T) {
	s := NewScorer(Config{})
	tk := &models.Ticket{CustomerName: "monday.com"}
	got := s.scoreCustomerARR(tk, models.Overrides{ARRBucket: BucketSingleLow})
	if got.Value != ARRSingleLow {
		t.Fatalf("expected explicit bucket to beat VIP match, got %d (%s)", got.Value, got.Reasoning)
	}
}

func TestCustomerARRUnknownBucketFallsBackToNeutral(t *testing.T) {
	s := NewScorer(Config{})
	got := s.scoreCustomerARR(&models.Ticket{}, models.Overrides{ARRBucket: "platinum"})
	if got.Value != ARR100KTo500K {
		t.Fatalf("expected neutral %d for unknown bucket, got %d", ARR100KTo500K, got.Value)
	}
}

func TestCustomerARRValueBuckets(t *testing.T) {
	cases := []struct {
		arr  float64
		want int
	}{
		{2_000_000, ARROver1M},
		{1_000_000, ARR500KTo1M},
		{750_000, ARR500KTo1M},
		{200_000, ARR100KTo500K},
		{50_000, ARRFewLow},
	}
	for _, c := range cases {
		if got := ARRValueScore(c.arr); got != c.want {
			t.Fatalf("arr %.0f: expected %d, got %d", c.arr, c.want, got)
		}
	}
}

func TestCustomerCountBuckets(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{15, ARRManyLow},
		{11, ARRManyLow},
		{10, ARRFewLow},
		{2, ARRFewLow},
		{1, ARRSingleLow},
	}
	for _, c := range cases {
		if got := CustomerCountScore(c.count); got != c.want {
			t.Fatalf("count %d: expected %d, got %d", c.count, c.want, got)
		}
	}
}

func TestCustomerARRVIPDetection(t *testing.T) {
	s := NewScorer(Config{})

	got := s.scoreCustomerARR(&models.Ticket{CustomerName: "Monday.com"}, models.Overrides{})
	if got.Value != ARROver1M {
		t.Fatalf("expected VIP in customer field to score %d, got %d", ARROver1M, got.Value)
	}

	got = s.scoreCustomerARR(&models.Ticket{Description: "Reported by monday.com during rollout"}, models.Overrides{})
	if got.Value != ARROver1M {
		t.Fatalf("expected VIP in description to score %d, got %d", ARROver1M, got.Value)
	}
}

func TestCustomerARRLabelAndTextTiers(t *testing.T) {
	s := NewScorer(Config{})

	got := s.scoreCustomerARR(&models.Ticket{Labels: []string{"enterprise"}}, models.Overrides{})
	if got.Value != ARRManyLow {
		t.Fatalf("enterprise label: expected %d, got %d (%s)", ARRManyLow, got.Value, got.Reasoning)
	}

	got = s.scoreCustomerARR(&models.Ticket{Description: "Multiple customers reported the same symptom"}, models.Overrides{})
	if got.Value != ARRManyLow {
		t.Fatalf("multiple customers: expected %d, got %d", ARRManyLow, got.Value)
	}

	got = s.scoreCustomerARR(&models.Ticket{Description: "Affects the standard tier deployment"}, models.Overrides{})
	if got.Value != ARR100KTo500K {
		t.Fatalf("subscription tier: expected %d, got %d", ARR100KTo500K, got.Value)
	}

	got = s.scoreCustomerARR(&models.Ticket{CustomerName: "Acme Widgets"}, models.Overrides{})
	if got.Value != ARR100KTo500K {
		t.Fatalf("named customer: expected %d, got %d", ARR100KTo500K, got.Value)
	}

	got = s.scoreCustomerARR(&models.Ticket{Description: "Internal refactor of the scheduler"}, models.Overrides{})
	if got.Value != ARRSingleLow {
		t.Fatalf("no customer info: expected %d, got %d (%s)", ARRSingleLow, got.Value, got.Reasoning)
	}
}
