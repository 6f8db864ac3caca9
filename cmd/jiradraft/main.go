package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/markotrapani/impact-score-calculator/internal/input/export"
	"github.com/markotrapani/impact-score-calculator/internal/jiradraft"
	"github.com/markotrapani/impact-score-calculator/internal/scoring"
	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

func main() {
	input := flag.String("input", "", "Ticket export file (.csv, .xlsx, .xml, .json, .jsonl)")
	draftType := flag.String("type", "bug", "Draft type: bug or rca")
	project := flag.String("project", "", "Target Jira project key (bug drafts)")
	customer := flag.String("customer", "", "Customer name (rca drafts)")
	date := flag.String("date", "", "Incident date MM/DD/YY (rca drafts)")
	zendesk := flag.String("zendesk", "", "Comma-separated related Zendesk ticket numbers")
	bugs := flag.String("bugs", "", "Comma-separated related bug issue keys")
	output := flag.String("output", "", "Write draft JSON to this path instead of stdout")
	flag.Parse()

	var ticket *models.Ticket
	if *input != "" {
		tickets, err := export.ReadFile(*input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read ticket: %v\n", err)
			os.Exit(1)
		}
		if len(tickets) == 0 {
			fmt.Fprintln(os.Stderr, "no tickets found in input")
			os.Exit(1)
		}
		ticket = tickets[0]
	}

	var draft jiradraft.Draft
	switch *draftType {
	case "bug":
		if ticket == nil {
			fmt.Fprintln(os.Stderr, "bug drafts require -input")
			os.Exit(2)
		}
		scorer := scoring.NewScorer(scoring.Config{})
		result := scorer.Evaluate(ticket, models.Overrides{})
		draft = jiradraft.BuildBugDraft(ticket, result, *project)
	case "rca":
		if *customer == "" {
			fmt.Fprintln(os.Stderr, "rca drafts require -customer")
			os.Exit(2)
		}
		draft = jiradraft.BuildRCADraft(jiradraft.RCAParams{
			CustomerName:   *customer,
			Date:           *date,
			ZendeskTickets: splitList(*zendesk),
			RelatedBugs:    splitList(*bugs),
			Bug:            ticket,
		})
	default:
		fmt.Fprintf(os.Stderr, "unknown draft type: %s\n", *draftType)
		os.Exit(2)
	}

	var out *os.File = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(draft); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode draft: %v\n", err)
		os.Exit(1)
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
