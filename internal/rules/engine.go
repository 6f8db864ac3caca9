package rules

import "github.com/markotrapani/impact-score-calculator/pkg/models"

// Engine applies tag rules to tickets.
type Engine interface {
	Apply(ticket *models.Ticket) []models.TicketTag
}

// NoopEngine returns no tags.
type NoopEngine struct{}

// Apply returns an empty tag list.
func (n *NoopEngine) Apply(ticket *models.Ticket) []models.TicketTag {
	return nil
}
