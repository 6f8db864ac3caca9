package models

import "strings"

// Ticket is a normalized support/engineering ticket record. Parsers resolve
// export-specific field names once; scorers only see this shape. Missing
// fields stay empty, never nil-panic.
type Ticket struct {
	Source       string   `json:"source,omitempty"` // jira or zendesk
	IssueKey     string   `json:"issue_key,omitempty"`
	Summary      string   `json:"summary,omitempty"`
	Description  string   `json:"description,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	Severity     string   `json:"severity,omitempty"`
	Status       string   `json:"status,omitempty"`
	CustomerName string   `json:"customer_name,omitempty"`
	Workaround   string   `json:"workaround,omitempty"`
	RCA          string   `json:"rca,omitempty"`
	Labels       []string `json:"labels,omitempty"`

	// OccurrenceCount is an explicit occurrence count when the export carries
	// one; nil means "derive from text".
	OccurrenceCount *int `json:"occurrence_count,omitempty"`

	Raw map[string]interface{} `json:"-"`
}

// NarrativeText returns the lowercased summary plus description, the default
// haystack for keyword matching. Original case is preserved on the struct for
// display.
func (t *Ticket) NarrativeText() string {
	if t == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(t.Summary + " " + t.Description))
}

// LabelText returns all labels joined and lowercased.
func (t *Ticket) LabelText() string {
	if t == nil || len(t.Labels) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(t.Labels, " "))
}

// HasLabel reports whether a label is present, case-insensitively.
func (t *Ticket) HasLabel(name string) bool {
	if t == nil {
		return false
	}
	for _, l := range t.Labels {
		if strings.EqualFold(strings.TrimSpace(l), name) {
			return true
		}
	}
	return false
}
