package models

// TicketTag is a tag-rule match annotation attached to a ticket before
// scoring.
type TicketTag struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Severity string `json:"severity,omitempty"`
	Category string `json:"category,omitempty"`
	Label    string `json:"label,omitempty"`
}
