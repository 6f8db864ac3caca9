// Package jiradraft builds Jira ticket drafts from scored tickets: bug
// drafts carrying the score breakdown and RCA drafts following the incident
// template.
package jiradraft

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

// Draft is a Jira ticket ready for creation, expressed as plain fields so it
// can be printed or posted by whatever client the operator uses.
type Draft struct {
	Project      string            `json:"project"`
	IssueType    string            `json:"issue_type"`
	Summary      string            `json:"summary"`
	Description  string            `json:"description"`
	Priority     string            `json:"priority"`
	Severity     string            `json:"severity"`
	Labels       []string          `json:"labels,omitempty"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
	LinkedIssues []string          `json:"linked_issues,omitempty"`
}

// priorityMappings maps a priority level from scoring to the Jira priority
// field value.
var priorityMappings = map[string]string{
	"critical": "Highest",
	"high":     "High",
	"medium":   "Medium",
	"low":      "Low",
	"minimal":  "Lowest",
}

var (
	clusterPattern = regexp.MustCompile(`(?i)cluster[:\s]+([^\s,]+)`)
	accountPattern = regexp.MustCompile(`(?i)account[:\s]+([^\s,]+)`)
	cachePattern   = regexp.MustCompile(`(?i)cache name[:\s]+([^\s,]+)`)
	regionPattern  = regexp.MustCompile(`(?i)region[:\s]+([^\s,]+)`)
)

// BuildBugDraft maps a scored support ticket onto a bug draft. The score
// breakdown lands in custom fields so triage sees it without rescoring.
func BuildBugDraft(ticket *models.Ticket, result *models.Result, project string) Draft {
	if project == "" {
		project = "RED"
	}

	summary := ticket.Summary
	if summary == "" {
		summary = "No summary provided"
	}
	description := ticket.Description
	if description == "" {
		description = "No description provided"
	}
	descLower := strings.ToLower(description)

	labels := []string{"Support", "Customer-Reported"}
	if strings.Contains(descLower, "azure") {
		labels = append(labels, "ACRE", "Azure-Integration")
	}

	c := result.Components
	custom := map[string]string{
		"impact_score":    fmt.Sprintf("%.1f", result.FinalScore),
		"impact_severity": fmt.Sprintf("%d", c.ImpactSeverity.Value),
		"customer_arr":    fmt.Sprintf("%d", c.CustomerARR.Value),
		"sla_breach":      fmt.Sprintf("%d", c.SLABreach.Value),
		"frequency":       fmt.Sprintf("%d", c.Frequency.Value),
		"workaround":      fmt.Sprintf("%d", c.Workaround.Value),
		"rca_action_item": fmt.Sprintf("%d", c.RCAActionItem.Value),
		"source_id":       ticket.IssueKey,
		"component":       detectComponent(descLower),
		"environment":     "Production",
		"organization":    detectOrganization(descLower),
	}
	if v := firstGroup(cachePattern, description); v != "" {
		custom["cache_name"] = v
	}
	if v := firstGroup(regionPattern, description); v != "" {
		custom["region"] = v
	}

	return Draft{
		Project:      project,
		IssueType:    "Bug",
		Summary:      summary,
		Description:  formatBugDescription(description, ticket.IssueKey, result.FinalScore),
		Priority:     jiraPriority(result.PriorityLevel),
		Severity:     severityFromScore(result.FinalScore),
		Labels:       labels,
		CustomFields: custom,
	}
}

// RCAParams carries the inputs for an RCA draft.
type RCAParams struct {
	CustomerName   string
	Date           string // MM/DD/YY
	ZendeskTickets []string
	RelatedBugs    []string
	// Bug optionally pre-populates the root cause and infrastructure fields.
	Bug *models.Ticket
}

// BuildRCADraft builds an RCA ticket draft following the incident template.
func BuildRCADraft(p RCAParams) Draft {
	accountLabel := strings.ReplaceAll(p.CustomerName, " ", "_")
	slackChannel := fmt.Sprintf("#prod-%s-%s",
		strings.ReplaceAll(p.Date, "/", ""),
		strings.ReplaceAll(strings.ToLower(p.CustomerName), " ", ""))

	custom := map[string]string{
		"slack_channel": slackChannel,
	}

	var bugSummary, bugDescription string
	if p.Bug != nil {
		bugSummary = p.Bug.Summary
		bugDescription = p.Bug.Description
		if v := firstGroup(clusterPattern, bugDescription); v != "" {
			custom["cluster_id"] = v
		}
		if v := firstGroup(accountPattern, bugDescription); v != "" {
			custom["account_id"] = v
		}
		if v := firstGroup(cachePattern, bugDescription); v != "" {
			custom["cache_name"] = v
		}
		if v := firstGroup(regionPattern, bugDescription); v != "" {
			custom["region"] = v
		}
		custom["affected_component"] = detectComponent(strings.ToLower(bugDescription))
		custom["environment"] = detectOrganization(strings.ToLower(bugDescription))
	}

	return Draft{
		Project:      "Root Cause Analysis",
		IssueType:    "RCA",
		Summary:      fmt.Sprintf("%s - RCA - %s", p.CustomerName, p.Date),
		Description:  rcaDescription(p, custom, bugSummary, bugDescription),
		Priority:     "Medium",
		Severity:     "Medium",
		Labels:       []string{accountLabel},
		CustomFields: custom,
		LinkedIssues: p.RelatedBugs,
	}
}

func rcaDescription(p RCAParams, custom map[string]string, bugSummary, bugDescription string) string {
	var b strings.Builder

	summary := bugSummary
	if summary == "" {
		summary = "<Add the summary here.>"
	}
	fmt.Fprintf(&b, "**Summary:** %s\n\n", summary)

	for _, field := range []struct{ key, title string }{
		{"cluster_id", "Cluster ID"},
		{"account_id", "Account ID"},
		{"cache_name", "Cache Name"},
		{"region", "Region"},
	} {
		if v := custom[field.key]; v != "" {
			fmt.Fprintf(&b, "**%s:** %s\n", field.title, v)
		}
	}

	b.WriteString("\n**Date and Time (UTC)**\n")
	b.WriteString("**Activity**\n")
	b.WriteString("MMM-DD-YYYY, HH:MM <What happened/what has been done>\n\n")

	if len(p.ZendeskTickets) > 0 {
		fmt.Fprintf(&b, "**Related Zendesk Tickets:** %s\n\n", strings.Join(p.ZendeskTickets, ", "))
	}

	fmt.Fprintf(&b, "**Initial Root Cause:** %s\n\n", initialRootCause(bugSummary, bugDescription))
	b.WriteString("**Final Root Cause & Conclusions:** <Add your final RCA and Conclusions here>\n\n")

	b.WriteString("**Action item(s):**\n")
	b.WriteString("After updating the table below, ensure the tickets are linked with the `relates to` type.\n\n")
	b.WriteString("| Description | Type | Owner | Ticket |\n")
	b.WriteString("|-------------|------|-------|--------|\n")
	b.WriteString("| <What is the AI about?> | Investigate or Prevent or Mitigate | @name | <jira-ticket> |\n")

	return b.String()
}

func formatBugDescription(description, sourceID string, finalScore float64) string {
	var b strings.Builder
	b.WriteString(description)
	b.WriteString("\n\n")
	if sourceID != "" {
		fmt.Fprintf(&b, "**Source Ticket ID:** %s\n", sourceID)
	}
	fmt.Fprintf(&b, "**Calculated Impact Score:** %.1f\n", finalScore)
	b.WriteString("**Auto-generated from support ticket**\n")
	return b.String()
}

// initialRootCause pre-fills the RCA from indicator phrases in the bug.
func initialRootCause(summary, description string) string {
	if summary == "" && description == "" {
		return "<Add your initial RCA here>"
	}

	lower := strings.ToLower(description)
	var indicators []string
	if strings.Contains(lower, "cpu") {
		indicators = append(indicators, "High CPU utilization")
	}
	if strings.Contains(lower, "audit") {
		indicators = append(indicators, "Audit logging issues")
	}
	if strings.Contains(lower, "connection") {
		indicators = append(indicators, "Connection problems")
	}
	if strings.Contains(lower, "restart") {
		indicators = append(indicators, "Service restart required")
	}

	if len(indicators) == 0 {
		return "<Add your initial RCA here>"
	}
	return strings.Join(indicators, "; ") + " (auto-detected, verify before publishing)"
}

func severityFromScore(score float64) string {
	switch {
	case score >= 90:
		return "Very High"
	case score >= 70:
		return "High"
	case score >= 50:
		return "Medium"
	default:
		return "Low"
	}
}

func jiraPriority(level string) string {
	if v, ok := priorityMappings[strings.ToLower(level)]; ok {
		return v
	}
	return "Medium"
}

func detectComponent(descLower string) string {
	switch {
	case strings.Contains(descLower, "dmc"):
		return "DMC"
	case strings.Contains(descLower, "redis"):
		return "Redis"
	case strings.Contains(descLower, "cluster"):
		return "Cluster"
	default:
		return "Unknown"
	}
}

func detectOrganization(descLower string) string {
	switch {
	case strings.Contains(descLower, "azure"):
		return "Azure"
	case strings.Contains(descLower, "aws"):
		return "AWS"
	case strings.Contains(descLower, "gcp"):
		return "GCP"
	default:
		return "Unknown"
	}
}

func firstGroup(pat *regexp.Regexp, text string) string {
	m := pat.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
