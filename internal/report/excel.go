package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

const resultSheet = "Scores"

// ExportExcel writes scored results to an Excel workbook, one row per
// ticket with the component columns spreadsheet users expect.
func ExportExcel(path string, results []*models.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(resultSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := []interface{}{
		"Jira", "Summary",
		"Impact & Severity", "Customer ARR", "SLA Breach",
		"Frequency", "Workaround", "RCA Action Item",
		"Support Multiplier", "Account Multiplier",
		"Base Score", "Final Score", "Priority Level", "Tags",
	}
	if err := f.SetSheetRow(resultSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range results {
		c := r.Components
		row := []interface{}{
			r.IssueKey, r.Summary,
			c.ImpactSeverity.Value, c.CustomerARR.Value, c.SLABreach.Value,
			c.Frequency.Value, c.Workaround.Value, c.RCAActionItem.Value,
			c.SupportMultiplier, c.AccountMultiplier,
			r.BaseScore, r.FinalScore, r.PriorityLevel, tagNames(r.Tags),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row coordinates: %w", err)
		}
		if err := f.SetSheetRow(resultSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func tagNames(tags []models.TicketTag) string {
	if len(tags) == 0 {
		return ""
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
