package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestReadCSVExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	writeFile(t, path, "Issue Key,Summary,Priority,Labels,Occurrences\n"+
		"CORE-1,Failover loop on upgrade,Blocker,\"acre, failover\",3\n"+
		"CORE-2,Dashboard glitch,Low,,\n"+
		",,,,\n")

	tickets, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}
	if tickets[0].IssueKey != "CORE-1" || tickets[0].Priority != "Blocker" {
		t.Fatalf("unexpected first ticket: %+v", tickets[0])
	}
	if len(tickets[0].Labels) != 2 || tickets[0].Labels[0] != "acre" {
		t.Fatalf("unexpected labels: %v", tickets[0].Labels)
	}
	if tickets[0].OccurrenceCount == nil || *tickets[0].OccurrenceCount != 3 {
		t.Fatalf("unexpected occurrence count: %v", tickets[0].OccurrenceCount)
	}
	if tickets[1].OccurrenceCount != nil {
		t.Fatalf("expected nil occurrence count for CORE-2")
	}
}

func TestReadCSVHeaderWithCapSuffix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	writeFile(t, path, "Jira,\"Impact & Severity\nMax 38\",Workaround\n"+
		"CORE-9,1 - Critical,No workaround\n")

	tickets, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(tickets))
	}
	if tickets[0].Severity != "1 - Critical" {
		t.Fatalf("expected severity column resolved, got %+v", tickets[0])
	}
	if tickets[0].Workaround != "No workaround" {
		t.Fatalf("unexpected workaround: %q", tickets[0].Workaround)
	}
}

func TestReadXLSXExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")

	f := excelize.NewFile()
	if err := f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Key", "Summary", "Priority"}); err != nil {
		t.Fatalf("set header: %v", err)
	}
	if err := f.SetSheetRow("Sheet1", "A2", &[]interface{}{"CORE-7", "Proxy crash on restart", "High"}); err != nil {
		t.Fatalf("set row: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}

	tickets, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(tickets))
	}
	if tickets[0].IssueKey != "CORE-7" || tickets[0].Priority != "High" {
		t.Fatalf("unexpected ticket: %+v", tickets[0])
	}
}

func TestReadXMLExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xml")
	writeFile(t, path, `<tickets>
  <ticket>
    <key>CORE-3</key>
    <summary>Sentinel split brain</summary>
    <priority>Critical</priority>
    <labels>sentinel failover</labels>
  </ticket>
  <ticket>
    <key></key>
    <summary></summary>
  </ticket>
</tickets>`)

	tickets, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(tickets))
	}
	if tickets[0].IssueKey != "CORE-3" || len(tickets[0].Labels) != 2 {
		t.Fatalf("unexpected ticket: %+v", tickets[0])
	}
}

func TestReadJSONLinesExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.jsonl")
	writeFile(t, path, `{"key": "CORE-4", "summary": "CRDB sync stall"}
not json
{"key": "CORE-5", "summary": "OVC drift"}
`)

	tickets, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets (malformed line skipped), got %d", len(tickets))
	}
	if tickets[1].IssueKey != "CORE-5" {
		t.Fatalf("unexpected second ticket: %+v", tickets[1])
	}
}

func TestReadJSONArrayExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	writeFile(t, path, `[{"key": "CORE-6", "summary": "AOF rewrite loop"}]`)

	tickets, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(tickets) != 1 || tickets[0].IssueKey != "CORE-6" {
		t.Fatalf("unexpected tickets: %+v", tickets)
	}
}

func TestReadUnsupportedFormat(t *testing.T) {
	if _, err := ReadFile("export.parquet"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
