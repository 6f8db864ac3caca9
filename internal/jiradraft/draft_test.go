package jiradraft

import (
	"strings"
	"testing"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

func TestBuildBugDraftMapsScoreAndFields(t *testing.T) {
	ticket := &models.Ticket{
		IssueKey:    "45821",
		Summary:     "Proxy crash on Azure deployment",
		Description: "Cache name: prod-cache-1 in region: eastus crashed on Azure. Redis nodes needed restart.",
	}
	result := &models.Result{
		IssueKey:      "45821",
		FinalScore:    92.5,
		PriorityLevel: "CRITICAL",
		Components: models.Breakdown{
			ImpactSeverity: models.ComponentScore{Value: 38},
			CustomerARR:    models.ComponentScore{Value: 15},
		},
	}

	d := BuildBugDraft(ticket, result, "")
	if d.Project != "RED" || d.IssueType != "Bug" {
		t.Fatalf("unexpected project/type: %s/%s", d.Project, d.IssueType)
	}
	if d.Priority != "Highest" {
		t.Fatalf("expected Highest priority, got %s", d.Priority)
	}
	if d.Severity != "Very High" {
		t.Fatalf("expected Very High severity, got %s", d.Severity)
	}

	hasACRE := false
	for _, l := range d.Labels {
		if l == "ACRE" {
			hasACRE = true
		}
	}
	if !hasACRE {
		t.Fatalf("expected ACRE label for azure ticket, got %v", d.Labels)
	}

	if d.CustomFields["impact_score"] != "92.5" {
		t.Fatalf("unexpected impact_score: %q", d.CustomFields["impact_score"])
	}
	if d.CustomFields["impact_severity"] != "38" {
		t.Fatalf("unexpected impact_severity: %q", d.CustomFields["impact_severity"])
	}
	if d.CustomFields["cache_name"] != "prod-cache-1" {
		t.Fatalf("unexpected cache_name: %q", d.CustomFields["cache_name"])
	}
	if d.CustomFields["region"] != "eastus" {
		t.Fatalf("unexpected region: %q", d.CustomFields["region"])
	}
	if d.CustomFields["component"] != "Redis" {
		t.Fatalf("unexpected component: %q", d.CustomFields["component"])
	}
	if d.CustomFields["organization"] != "Azure" {
		t.Fatalf("unexpected organization: %q", d.CustomFields["organization"])
	}

	if !strings.Contains(d.Description, "**Calculated Impact Score:** 92.5") {
		t.Fatalf("description missing score footer:\n%s", d.Description)
	}
}

func TestBuildBugDraftSeverityTiers(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, "Very High"},
		{75, "High"},
		{55, "Medium"},
		{20, "Low"},
	}
	for _, c := range cases {
		d := BuildBugDraft(&models.Ticket{Summary: "x"}, &models.Result{FinalScore: c.score, PriorityLevel: "HIGH"}, "RED")
		if d.Severity != c.want {
			t.Fatalf("score %.0f: expected %s, got %s", c.score, c.want, d.Severity)
		}
	}
}

func TestBuildRCADraftTemplate(t *testing.T) {
	d := BuildRCADraft(RCAParams{
		CustomerName:   "Wells Fargo",
		Date:           "10/25/25",
		ZendeskTickets: []string{"45821", "45900"},
		RelatedBugs:    []string{"RED-101"},
		Bug: &models.Ticket{
			Summary:     "node_mgr crash after upgrade",
			Description: "Cluster: c-4812 on account: acme-prod saw repeated restart loops due to connection churn.",
		},
	})

	if d.Project != "Root Cause Analysis" {
		t.Fatalf("unexpected project: %s", d.Project)
	}
	if len(d.Labels) != 1 || d.Labels[0] != "Wells_Fargo" {
		t.Fatalf("unexpected labels: %v", d.Labels)
	}
	if d.CustomFields["slack_channel"] != "#prod-102525-wellsfargo" {
		t.Fatalf("unexpected slack channel: %q", d.CustomFields["slack_channel"])
	}
	if d.CustomFields["cluster_id"] != "c-4812" {
		t.Fatalf("unexpected cluster_id: %q", d.CustomFields["cluster_id"])
	}
	if d.CustomFields["account_id"] != "acme-prod" {
		t.Fatalf("unexpected account_id: %q", d.CustomFields["account_id"])
	}
	if len(d.LinkedIssues) != 1 || d.LinkedIssues[0] != "RED-101" {
		t.Fatalf("unexpected linked issues: %v", d.LinkedIssues)
	}

	for _, want := range []string{
		"**Summary:** node_mgr crash after upgrade",
		"**Related Zendesk Tickets:** 45821, 45900",
		"Connection problems",
		"Service restart required",
		"| Description | Type | Owner | Ticket |",
	} {
		if !strings.Contains(d.Description, want) {
			t.Fatalf("RCA description missing %q:\n%s", want, d.Description)
		}
	}
}

func TestBuildRCADraftWithoutBug(t *testing.T) {
	d := BuildRCADraft(RCAParams{CustomerName: "Acme", Date: "01/02/26"})
	if !strings.Contains(d.Description, "<Add the summary here.>") {
		t.Fatalf("expected summary placeholder:\n%s", d.Description)
	}
	if !strings.Contains(d.Description, "<Add your initial RCA here>") {
		t.Fatalf("expected initial RCA placeholder:\n%s", d.Description)
	}
}
