// Package importer loads transactions in bulk from CSV files.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/retailrewards/rewards-backend/internal/services"
	"github.com/retailrewards/rewards-backend/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	customerColumns = []string{"customerId", "Customer ID", "Customer", "customer_id"}
	amountColumns   = []string{"amount", "Amount", "Purchase Amount", "Total"}
	dateColumns     = []string{"transactionDate", "Transaction Date", "Date", "date"}
)

// Accepted date formats, tried in order
var dateFormats = []string{
	utils.DateLayout,
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// CSVImporter records each CSV row as a transaction
type CSVImporter struct {
	transactionService services.TransactionService
	logger             *logrus.Logger
}

// NewCSVImporter creates a new CSVImporter
func NewCSVImporter(transactionService services.TransactionService, logger *logrus.Logger) *CSVImporter {
	return &CSVImporter{
		transactionService: transactionService,
		logger:             logger,
	}
}

// ImportTransactions reads a header row followed by one transaction per row.
// Rows that fail to parse or validate are counted as skipped and described
// in the result; storage failures abort the import.
func (i *CSVImporter) ImportTransactions(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	customerIdx := findColumnIndex(header, customerColumns)
	amountIdx := findColumnIndex(header, amountColumns)
	dateIdx := findColumnIndex(header, dateColumns)
	var missing []string
	if customerIdx == -1 {
		missing = append(missing, "customer ID")
	}
	if amountIdx == -1 {
		missing = append(missing, "amount")
	}
	if dateIdx == -1 {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing %s column(s) in CSV", strings.Join(missing, ", "))
	}

	result := &models.ImportResult{Errors: []string{}}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ParseError already carries the line number
			result.TotalRows++
			result.Skipped++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if isBlank(row) {
			continue
		}
		line, _ := reader.FieldPos(0)
		result.TotalRows++

		req, err := parseRow(row, customerIdx, amountIdx, dateIdx)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", line, err))
			continue
		}

		if _, err := i.transactionService.CreateTransaction(ctx, req); err != nil {
			var notFound *services.NotFoundError
			var invalid *services.ValidationError
			if errors.As(err, &notFound) || errors.As(err, &invalid) {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", line, err))
				continue
			}
			return result, fmt.Errorf("row %d: %w", line, err)
		}
		result.Imported++
	}

	i.logger.WithFields(logrus.Fields{
		"totalRows": result.TotalRows,
		"imported":  result.Imported,
		"skipped":   result.Skipped,
	}).Info("CSV import finished")
	return result, nil
}

func parseRow(row []string, customerIdx, amountIdx, dateIdx int) (*models.TransactionRequest, error) {
	req := &models.TransactionRequest{}

	if raw := cell(row, customerIdx); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid customer ID: %s", raw)
		}
		req.CustomerID = &id
	}

	if raw := cell(row, amountIdx); raw != "" {
		amount, err := decimal.NewFromString(strings.TrimPrefix(raw, "$"))
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %s", raw)
		}
		req.Amount = &amount
	}

	if raw := cell(row, dateIdx); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return nil, err
		}
		formatted := date.Format(utils.DateLayout)
		req.TransactionDate = &formatted
	}

	return req, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// findColumnIndex finds the index of a column by trying multiple possible names
func findColumnIndex(header []string, possibleNames []string) int {
	for i, col := range header {
		col = strings.TrimSpace(col)
		for _, name := range possibleNames {
			if strings.EqualFold(col, name) {
				return i
			}
		}
	}
	return -1
}

// parseDate parses a date string in various formats
func parseDate(dateStr string) (time.Time, error) {
	for _, format := range dateFormats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
