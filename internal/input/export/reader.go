// Package export reads ticket exports from disk: CSV, Excel, XML and JSON
// Lines. Column names vary between export tools, so headers are resolved
// through an alias table.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/markotrapani/impact-score-calculator/internal/logger"
	"github.com/markotrapani/impact-score-calculator/internal/transform/ticketjson"
	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

// columnAliases maps each normalized field to the header names seen in real
// Jira and Zendesk exports. Matching is case-insensitive.
var columnAliases = map[string][]string{
	"issue_key":   {"Jira", "Jira ID", "Issue Key", "Key", "Ticket ID", "ID"},
	"summary":     {"Summary", "Title", "Subject"},
	"description": {"Description", "Body", "Details"},
	"priority":    {"Priority"},
	"severity":    {"Severity", "Impact & Severity", "Impact"},
	"status":      {"Status", "State"},
	"customer":    {"Customer", "Customer Name", "Organization", "Account"},
	"workaround":  {"Workaround"},
	"rca":         {"RCA", "Root Cause", "RCA Text"},
	"labels":      {"Labels", "Tags", "Components"},
	"occurrences": {"Occurrences", "Occurrence Count", "Frequency Count"},
}

// ReadFile loads tickets from an export file, dispatching on the extension.
func ReadFile(path string) ([]*models.Ticket, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	case ".xml":
		return readXML(path)
	case ".json":
		return readJSON(path)
	case ".jsonl", ".ndjson":
		return readJSONLines(path)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", path)
	}
}

func readCSV(path string) ([]*models.Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv export: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := resolveColumns(header)

	var tickets []*models.Ticket
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if tk := ticketFromRow(columns, row); tk != nil {
			tickets = append(tickets, tk)
		}
	}
	return tickets, nil
}

func readXLSX(path string) ([]*models.Ticket, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel export: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel export has no sheets: %s", path)
	}
	// Jira score workbooks keep tickets on a "Calculation" sheet; plain
	// exports use the first sheet.
	sheet := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, "Calculation") {
			sheet = name
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := resolveColumns(rows[0])
	var tickets []*models.Ticket
	for _, row := range rows[1:] {
		if tk := ticketFromRow(columns, row); tk != nil {
			tickets = append(tickets, tk)
		}
	}
	return tickets, nil
}

type xmlTicket struct {
	IssueKey    string `xml:"key"`
	Summary     string `xml:"summary"`
	Description string `xml:"description"`
	Priority    string `xml:"priority"`
	Severity    string `xml:"severity"`
	Status      string `xml:"status"`
	Customer    string `xml:"customer"`
	Workaround  string `xml:"workaround"`
	RCA         string `xml:"rca"`
	Labels      string `xml:"labels"`
}

type xmlExport struct {
	Tickets []xmlTicket `xml:"ticket"`
}

func readXML(path string) ([]*models.Ticket, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xml export: %w", err)
	}

	var doc xmlExport
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse xml export: %w", err)
	}

	tickets := make([]*models.Ticket, 0, len(doc.Tickets))
	for _, x := range doc.Tickets {
		if strings.TrimSpace(x.Summary) == "" && strings.TrimSpace(x.IssueKey) == "" {
			continue
		}
		tickets = append(tickets, &models.Ticket{
			IssueKey:     strings.TrimSpace(x.IssueKey),
			Summary:      strings.TrimSpace(x.Summary),
			Description:  strings.TrimSpace(x.Description),
			Priority:     strings.TrimSpace(x.Priority),
			Severity:     strings.TrimSpace(x.Severity),
			Status:       strings.TrimSpace(x.Status),
			CustomerName: strings.TrimSpace(x.Customer),
			Workaround:   strings.TrimSpace(x.Workaround),
			RCA:          strings.TrimSpace(x.RCA),
			Labels:       splitLabels(x.Labels),
		})
	}
	return tickets, nil
}

func readJSON(path string) ([]*models.Ticket, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open json export: %w", err)
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("parse json export: %w", err)
		}
		tickets := make([]*models.Ticket, 0, len(items))
		for i, item := range items {
			tk, err := ticketjson.Parse(item)
			if err != nil {
				logger.Warnf("Skipping malformed ticket %d in %s: %v", i, path, err)
				continue
			}
			tickets = append(tickets, tk)
		}
		return tickets, nil
	}

	tk, err := ticketjson.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse json export: %w", err)
	}
	return []*models.Ticket{tk}, nil
}

func readJSONLines(path string) ([]*models.Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open json export: %w", err)
	}
	defer f.Close()

	var tickets []*models.Ticket
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		tk, err := ticketjson.Parse([]byte(text))
		if err != nil {
			logger.Warnf("Skipping malformed ticket at %s:%d: %v", path, line, err)
			continue
		}
		tickets = append(tickets, tk)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan json export: %w", err)
	}
	return tickets, nil
}

// resolveColumns maps each normalized field name to its column index.
func resolveColumns(header []string) map[string]int {
	out := make(map[string]int, len(columnAliases))
	for field, aliases := range columnAliases {
		for idx, col := range header {
			// Score workbooks append a cap line to the header, for example
			// "Impact & Severity\nMax 38".
			name := strings.TrimSpace(strings.SplitN(col, "\n", 2)[0])
			for _, alias := range aliases {
				if strings.EqualFold(name, alias) {
					out[field] = idx
					break
				}
			}
			if _, ok := out[field]; ok {
				break
			}
		}
	}
	return out
}

func ticketFromRow(columns map[string]int, row []string) *models.Ticket {
	cell := func(field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	tk := &models.Ticket{
		IssueKey:     cell("issue_key"),
		Summary:      cell("summary"),
		Description:  cell("description"),
		Priority:     cell("priority"),
		Severity:     cell("severity"),
		Status:       cell("status"),
		CustomerName: cell("customer"),
		Workaround:   cell("workaround"),
		RCA:          cell("rca"),
		Labels:       splitLabels(cell("labels")),
	}
	if tk.IssueKey == "" && tk.Summary == "" {
		return nil
	}
	if raw := cell("occurrences"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			tk.OccurrenceCount = &n
		}
	}
	return tk
}

func splitLabels(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
