// Package ticketjson normalizes JSON ticket payloads from Jira and Zendesk
// exports into the shared Ticket shape.
package ticketjson

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/markotrapani/impact-score-calculator/internal/logger"
	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

// Parse converts a raw JSON ticket payload into a normalized Ticket. Both
// flat exports and the Jira REST shape (key at the top, fields nested) are
// accepted.
func Parse(data []byte) (*models.Ticket, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{Raw: raw}

	ticket.Source = strings.ToLower(getString(raw, "source", "origin"))
	ticket.IssueKey = getString(raw, "issue_key", "key", "ticket_id", "id")
	ticket.Summary = getString(raw, "summary", "title", "subject", "fields.summary")
	ticket.Description = getString(raw, "description", "body", "details", "fields.description")
	ticket.Priority = getString(raw, "priority", "priority.name", "fields.priority.name")
	ticket.Severity = getString(raw, "severity", "fields.severity", "custom_fields.severity")
	ticket.Status = getString(raw, "status", "status.name", "fields.status.name")
	ticket.CustomerName = getString(raw, "customer_name", "customer", "organization", "org", "fields.organization")
	ticket.Workaround = getString(raw, "workaround", "fields.workaround", "custom_fields.workaround")
	ticket.RCA = getString(raw, "rca", "rca_text", "root_cause", "fields.rca")
	ticket.Labels = getStrings(raw, "labels", "tags", "fields.labels")

	if n, ok := getCount(raw, "occurrence_count", "occurrences"); ok {
		ticket.OccurrenceCount = &n
	}

	if ticket.Source == "" {
		// The Jira REST shape always nests under "fields"; Zendesk exports
		// use "subject".
		if _, ok := getPath(raw, "fields"); ok {
			ticket.Source = "jira"
		} else if _, ok := getPath(raw, "subject"); ok {
			ticket.Source = "zendesk"
		}
	}

	if ticket.Summary == "" && ticket.Description == "" {
		logger.Warnf("Ticket %s has no summary or description", ticket.IssueKey)
	}
	return ticket, nil
}

func getString(root map[string]interface{}, paths ...string) string {
	for _, path := range paths {
		if v, ok := getPath(root, path); ok {
			switch val := v.(type) {
			case string:
				return strings.TrimSpace(val)
			case fmt.Stringer:
				return val.String()
			case float64:
				if val == float64(int64(val)) {
					return fmt.Sprintf("%d", int64(val))
				}
				return fmt.Sprintf("%f", val)
			}
		}
	}
	return ""
}

func getStrings(root map[string]interface{}, paths ...string) []string {
	for _, path := range paths {
		v, ok := getPath(root, path)
		if !ok {
			continue
		}
		switch val := v.(type) {
		case []interface{}:
			out := make([]string, 0, len(val))
			for _, item := range val {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			// Comma or space separated label column from a flat export.
			fields := strings.FieldsFunc(val, func(r rune) bool {
				return r == ',' || r == ' '
			})
			if len(fields) > 0 {
				return fields
			}
		}
	}
	return nil
}

func getCount(root map[string]interface{}, paths ...string) (int, bool) {
	for _, path := range paths {
		if v, ok := getPath(root, path); ok {
			switch val := v.(type) {
			case float64:
				return int(val), true
			case int:
				return val, true
			case string:
				var parsed int
				if _, err := fmt.Sscanf(strings.TrimSpace(val), "%d", &parsed); err == nil {
					return parsed, true
				}
			}
		}
	}
	return 0, false
}

func getPath(root map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = root
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := m[part]
		if !ok {
			return nil, false
		}
		current = v
	}
	return current, true
}
