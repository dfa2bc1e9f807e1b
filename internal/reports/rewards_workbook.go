// Package reports renders reward summaries as spreadsheets.
package reports

import (
	"fmt"
	"io"
	"sort"

	"github.com/retailrewards/rewards-backend/internal/rewards"
	"github.com/xuri/excelize/v2"
)

// RewardsSheet is the name of the worksheet holding the summaries
const RewardsSheet = "Rewards"

// WriteRewardsWorkbook writes one row per summary. Month columns cover every
// month present in any summary, ascending; a customer with no activity in a
// month gets 0 there.
func WriteRewardsWorkbook(w io.Writer, summaries []rewards.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RewardsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	months := monthColumns(summaries)
	headings := make([]interface{}, 0, len(months)+3)
	headings = append(headings, "Customer ID", "Customer Name")
	for _, m := range months {
		headings = append(headings, m)
	}
	headings = append(headings, "Total Points")
	if err := f.SetSheetRow(RewardsSheet, "A1", &headings); err != nil {
		return fmt.Errorf("failed to write headings: %w", err)
	}

	for i, s := range summaries {
		row := make([]interface{}, 0, len(headings))
		row = append(row, s.CustomerID, s.CustomerName)
		for _, m := range months {
			points, _ := s.MonthlyPoints.Get(m)
			row = append(row, points)
		}
		row = append(row, s.TotalPoints)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RewardsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for customer %d: %w", s.CustomerID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func monthColumns(summaries []rewards.Summary) []string {
	seen := make(map[string]bool)
	var months []string
	for _, s := range summaries {
		for _, m := range s.MonthlyPoints.Months() {
			if !seen[m] {
				seen[m] = true
				months = append(months, m)
			}
		}
	}
	// YYYY-MM keys sort chronologically as strings
	sort.Strings(months)
	return months
}
