package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

const acreRule = `title: Acre managed variant
id: tag-acre-managed
level: info
logsource:
  product: jira
tags:
  - ticket.managed_service
  - label.acre
detection:
  selection:
    Labels|contains: acre
  condition: selection
`

const windowsRule = `title: Not a ticket rule
id: windows-rule
logsource:
  product: windows
detection:
  selection:
    EventID: 1
  condition: selection
`

func writeRule(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write rule: %v", err)
	}
}

func TestSigmaEngineLoadsAndAppliesTicketRules(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "acre.yml", acreRule)
	writeRule(t, dir, "windows.yml", windowsRule)
	writeRule(t, dir, "broken.yml", "detection: [not, a, rule")

	engine, stats, err := NewSigmaEngine(dir)
	if err != nil {
		t.Fatalf("NewSigmaEngine: %v", err)
	}
	if stats.TotalFiles != 3 {
		t.Fatalf("expected 3 files, got %d", stats.TotalFiles)
	}
	if stats.Loaded != 1 {
		t.Fatalf("expected 1 loaded rule, got %d (%+v)", stats.Loaded, stats)
	}
	if stats.SkippedDatasource != 1 {
		t.Fatalf("expected 1 datasource skip, got %d", stats.SkippedDatasource)
	}
	if stats.SkippedInvalid != 1 {
		t.Fatalf("expected 1 invalid skip, got %d", stats.SkippedInvalid)
	}

	tags := engine.Apply(&models.Ticket{
		Source: "jira",
		Labels: []string{"acre", "backend"},
	})
	if len(tags) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(tags))
	}
	if tags[0].Category != "managed-service" {
		t.Fatalf("expected managed-service category, got %q", tags[0].Category)
	}
	if tags[0].Label != "acre" {
		t.Fatalf("expected acre label, got %q", tags[0].Label)
	}

	if got := engine.Apply(&models.Ticket{Labels: []string{"backend"}}); got != nil {
		t.Fatalf("expected no tags, got %+v", got)
	}
}

func TestNoopEngineReturnsNoTags(t *testing.T) {
	var n NoopEngine
	if got := n.Apply(&models.Ticket{Summary: "anything"}); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
