package scoring

import (
	"fmt"
	"strings"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

// scoreCustomerARR produces the Customer ARR component (0-15). An explicit
// override bucket or ARR amount always wins over text inference.
func (s *Scorer) scoreCustomerARR(t *models.Ticket, ov models.Overrides) models.ComponentScore {
	if bucket := strings.TrimSpace(ov.ARRBucket); bucket != "" {
		if score, ok := bucketScore(bucket); ok {
			return models.ComponentScore{
				Value:     score,
				Reasoning: fmt.Sprintf("explicit ARR bucket %q supplied by caller", bucket),
			}
		}
		// Unknown bucket names degrade to the neutral assumption rather
		// than failing the evaluation.
		return models.ComponentScore{
			Value:     ARR100KTo500K,
			Reasoning: fmt.Sprintf("unrecognized ARR bucket %q, neutral assumption applied", bucket),
		}
	}

	if ov.ARRValue > 0 {
		score := ARRValueScore(ov.ARRValue)
		return models.ComponentScore{
			Value:     score,
			Reasoning: fmt.Sprintf("explicit ARR value $%.0f supplied by caller", ov.ARRValue),
		}
	}

	if ov.CustomerCount > 0 {
		score := CustomerCountScore(ov.CustomerCount)
		return models.ComponentScore{
			Value:     score,
			Reasoning: fmt.Sprintf("%d affected low-ARR customers supplied by caller", ov.CustomerCount),
		}
	}

	customer := strings.ToLower(strings.TrimSpace(t.CustomerName))
	text := t.NarrativeText()

	for _, vip := range s.cfg.VIPCustomers {
		v := strings.ToLower(vip)
		if v == "" {
			continue
		}
		if strings.Contains(customer, v) || strings.Contains(text, v) {
			return models.ComponentScore{
				Value:     ARROver1M,
				Reasoning: fmt.Sprintf("VIP customer %q identified", vip),
			}
		}
	}

	labels := t.LabelText()
	if kw, ok := firstMatch(labels, s.cfg.EnterpriseLabels); ok {
		return models.ComponentScore{
			Value:     ARRManyLow,
			Reasoning: fmt.Sprintf("%s label found", kw),
		}
	}

	if kw, ok := firstMatch(text, s.cfg.MultipleCustomerKeywords); ok {
		return models.ComponentScore{
			Value:     ARRManyLow,
			Reasoning: fmt.Sprintf("%q mentioned in description", kw),
		}
	}

	if containsAny(text, s.cfg.SubscriptionTierKeywords) {
		return models.ComponentScore{
			Value:     ARR100KTo500K,
			Reasoning: "subscription tier mentioned, ARR unknown",
		}
	}

	if customer != "" || strings.Contains(text, "customer") {
		return models.ComponentScore{
			Value:     ARR100KTo500K,
			Reasoning: "customer mentioned, ARR unknown",
		}
	}

	return models.ComponentScore{
		Value:     ARRSingleLow,
		Reasoning: "no customer information found",
	}
}

func bucketScore(bucket string) (int, bool) {
	switch strings.ToLower(bucket) {
	case BucketARROver1M:
		return ARROver1M, true
	case BucketARR500KTo1M:
		return ARR500KTo1M, true
	case BucketARR100KTo500K:
		return ARR100KTo500K, true
	case BucketManyLow:
		return ARRManyLow, true
	case BucketFewLow:
		return ARRFewLow, true
	case BucketSingleLow:
		return ARRSingleLow, true
	default:
		return 0, false
	}
}

// ARRValueScore maps a dollar ARR amount to its bucket score.
func ARRValueScore(arr float64) int {
	switch {
	case arr > 1_000_000:
		return ARROver1M
	case arr > 500_000:
		return ARR500KTo1M
	case arr > 100_000:
		return ARR100KTo500K
	default:
		return ARRFewLow
	}
}

// CustomerCountScore maps a count of affected low-ARR customers to its
// bucket score.
func CustomerCountScore(count int) int {
	switch {
	case count > 10:
		return ARRManyLow
	case count > 1:
		return ARRFewLow
	default:
		return ARRSingleLow
	}
}
