// Package report renders score breakdowns and batch summaries for the CLI.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/markotrapani/impact-score-calculator/internal/scoring"
	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

// RenderBreakdown writes the per-component breakdown for one result.
func RenderBreakdown(w io.Writer, result *models.Result) {
	rule := strings.Repeat("=", 80)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "IMPACT SCORE CALCULATION RESULTS")
	fmt.Fprintln(w, rule)
	if result.IssueKey != "" {
		fmt.Fprintf(w, "Ticket: %s", result.IssueKey)
		if result.Summary != "" {
			fmt.Fprintf(w, "  %s", result.Summary)
		}
		fmt.Fprintln(w)
	}

	c := result.Components
	fmt.Fprintln(w, "\nComponent Breakdown:")
	renderComponent(w, "Impact & Severity", c.ImpactSeverity)
	renderComponent(w, "Customer ARR", c.CustomerARR)
	renderComponent(w, "SLA Breach", c.SLABreach)
	renderComponent(w, "Frequency", c.Frequency)
	renderComponent(w, "Workaround", c.Workaround)
	renderComponent(w, "RCA Action Item", c.RCAActionItem)
	fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 40))
	fmt.Fprintf(w, "  %-20s %3d points\n", "BASE SCORE:", result.BaseScore)

	if c.SupportMultiplier > 0 || c.AccountMultiplier > 0 {
		fmt.Fprintln(w, "\nMultipliers Applied:")
		fmt.Fprintf(w, "  %-20s %.0f%%\n", "Support Multiplier:", c.SupportMultiplier*100)
		fmt.Fprintf(w, "  %-20s %.0f%%\n", "Account Multiplier:", c.AccountMultiplier*100)
		fmt.Fprintf(w, "  %-20s %.0f%%\n", "Total Multiplier:", (c.SupportMultiplier+c.AccountMultiplier)*100)
	}

	if len(result.Tags) > 0 {
		fmt.Fprintln(w, "\nTags:")
		for _, tag := range result.Tags {
			fmt.Fprintf(w, "  %s", tag.Name)
			if tag.Category != "" {
				fmt.Fprintf(w, " (%s)", tag.Category)
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %-20s %.1f points\n", "FINAL IMPACT SCORE:", result.FinalScore)
	fmt.Fprintf(w, "  %-20s %s\n", "PRIORITY LEVEL:", result.PriorityLevel)
	fmt.Fprintln(w, rule)
}

func renderComponent(w io.Writer, name string, c models.ComponentScore) {
	fmt.Fprintf(w, "  %-20s %3d points  (%s)\n", name+":", c.Value, c.Reasoning)
}

// Stats summarizes a batch of results.
type Stats struct {
	TotalTickets         int                 `json:"total_tickets"`
	AverageScore         float64             `json:"average_score"`
	MedianScore          float64             `json:"median_score"`
	MaxScore             float64             `json:"max_score"`
	MinScore             float64             `json:"min_score"`
	PriorityDistribution map[string]int      `json:"priority_distribution"`
	TicketsByPriority    map[string][]string `json:"tickets_by_priority"`
}

// Summarize computes batch statistics over results.
func Summarize(results []*models.Result) Stats {
	stats := Stats{
		PriorityDistribution: make(map[string]int),
		TicketsByPriority:    make(map[string][]string),
	}
	if len(results) == 0 {
		return stats
	}

	scores := make([]float64, 0, len(results))
	var sum float64
	stats.MinScore = results[0].FinalScore
	stats.MaxScore = results[0].FinalScore
	for _, r := range results {
		scores = append(scores, r.FinalScore)
		sum += r.FinalScore
		if r.FinalScore < stats.MinScore {
			stats.MinScore = r.FinalScore
		}
		if r.FinalScore > stats.MaxScore {
			stats.MaxScore = r.FinalScore
		}
		stats.PriorityDistribution[r.PriorityLevel]++
		if r.IssueKey != "" {
			stats.TicketsByPriority[r.PriorityLevel] = append(stats.TicketsByPriority[r.PriorityLevel], r.IssueKey)
		}
	}

	stats.TotalTickets = len(results)
	stats.AverageScore = sum / float64(len(results))
	sort.Float64s(scores)
	mid := len(scores) / 2
	if len(scores)%2 == 0 {
		stats.MedianScore = (scores[mid-1] + scores[mid]) / 2
	} else {
		stats.MedianScore = scores[mid]
	}
	return stats
}

// RenderStats writes a batch summary.
func RenderStats(w io.Writer, stats Stats) {
	rule := strings.Repeat("=", 80)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "BATCH SUMMARY")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Total tickets:  %d\n", stats.TotalTickets)
	fmt.Fprintf(w, "  Average score:  %.1f\n", stats.AverageScore)
	fmt.Fprintf(w, "  Median score:   %.1f\n", stats.MedianScore)
	fmt.Fprintf(w, "  Max score:      %.1f\n", stats.MaxScore)
	fmt.Fprintf(w, "  Min score:      %.1f\n", stats.MinScore)

	fmt.Fprintln(w, "\nPriority distribution:")
	for _, level := range priorityOrder {
		if n, ok := stats.PriorityDistribution[level]; ok {
			fmt.Fprintf(w, "  %-10s %d\n", level, n)
		}
	}
	fmt.Fprintln(w, rule)
}

var priorityOrder = []string{
	scoring.LevelCritical,
	scoring.LevelHigh,
	scoring.LevelMedium,
	scoring.LevelLow,
	scoring.LevelMinimal,
}

// TopN returns the n highest-scoring results, best first. The input is not
// modified.
func TopN(results []*models.Result, n int) []*models.Result {
	sorted := make([]*models.Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FinalScore > sorted[j].FinalScore
	})
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// FilterPriority keeps results at the named priority level.
func FilterPriority(results []*models.Result, level string) []*models.Result {
	if level == "" {
		return results
	}
	var out []*models.Result
	for _, r := range results {
		if strings.EqualFold(r.PriorityLevel, level) {
			out = append(out, r)
		}
	}
	return out
}

// RenderTop writes a compact ranked listing.
func RenderTop(w io.Writer, results []*models.Result) {
	fmt.Fprintf(w, "%-4s %-12s %-9s %-8s %s\n", "#", "TICKET", "SCORE", "LEVEL", "SUMMARY")
	for i, r := range results {
		summary := r.Summary
		if len(summary) > 60 {
			summary = summary[:57] + "..."
		}
		fmt.Fprintf(w, "%-4d %-12s %-9.1f %-8s %s\n", i+1, r.IssueKey, r.FinalScore, r.PriorityLevel, summary)
	}
}
