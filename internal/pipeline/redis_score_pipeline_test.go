package pipeline

import (
	"testing"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

func TestApplyTagsManagedServiceDisclaimsSLA(t *testing.T) {
	ticket := &models.Ticket{Labels: []string{"backend"}}
	tags := []models.TicketTag{
		{Name: "Acre variant", Category: "managed-service", Label: "acre"},
	}

	overrides := ApplyTags(ticket, tags, models.Overrides{})
	if !overrides.ManagedServiceNoSLA {
		t.Fatalf("expected managed-service tag to set the SLA override")
	}
	if !ticket.HasLabel("acre") {
		t.Fatalf("expected acre label appended, got %v", ticket.Labels)
	}
}

func TestApplyTagsDoesNotDuplicateLabels(t *testing.T) {
	ticket := &models.Ticket{Labels: []string{"acre"}}
	ApplyTags(ticket, []models.TicketTag{{Label: "acre"}}, models.Overrides{})
	if len(ticket.Labels) != 1 {
		t.Fatalf("expected no duplicate label, got %v", ticket.Labels)
	}
}

func TestApplyTagsPreservesBaseOverrides(t *testing.T) {
	base := models.Overrides{SupportMultiplier: 0.1}
	got := ApplyTags(&models.Ticket{}, nil, base)
	if got.SupportMultiplier != 0.1 {
		t.Fatalf("expected base overrides preserved, got %+v", got)
	}
	if got.ManagedServiceNoSLA {
		t.Fatalf("expected SLA override unset without tags")
	}
}
