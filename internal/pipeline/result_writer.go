package pipeline

import "github.com/markotrapani/impact-score-calculator/pkg/models"

// ResultWriter writes scored results.
type ResultWriter interface {
	WriteResults(results []*models.Result) error
	Close() error
}
