package rewards

import (
	"sort"
)

// BuildSummary folds a customer's transactions into per-month point totals.
// Months are emitted oldest first and only when at least one transaction
// falls in them, even if that month scored zero points.
func BuildSummary(customerID int64, customerName string, facts []TransactionFact) Summary {
	byMonth := make(map[MonthKey]int)
	for _, fact := range facts {
		month := MonthOf(fact.OccurredOn)
		byMonth[month] = AddPoints(byMonth[month], CalculatePoints(fact.Amount))
	}

	months := make([]MonthKey, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	summary := Summary{
		CustomerID:    customerID,
		CustomerName:  customerName,
		MonthlyPoints: make(MonthlyPoints, 0, len(months)),
	}
	for _, month := range months {
		points := byMonth[month]
		summary.MonthlyPoints = append(summary.MonthlyPoints, MonthPoints{Month: month.String(), Points: points})
		summary.TotalPoints = AddPoints(summary.TotalPoints, points)
	}
	return summary
}

// BuildSummaries partitions transactions by customer and builds one summary
// per customer that has at least one transaction. Summaries are ordered by
// customer ID. Names missing from names are left empty.
func BuildSummaries(facts []CustomerTransactionFact, names map[int64]string) []Summary {
	byCustomer := make(map[int64][]TransactionFact)
	for _, fact := range facts {
		byCustomer[fact.CustomerID] = append(byCustomer[fact.CustomerID], fact.TransactionFact)
	}

	customerIDs := make([]int64, 0, len(byCustomer))
	for id := range byCustomer {
		customerIDs = append(customerIDs, id)
	}
	sort.Slice(customerIDs, func(i, j int) bool { return customerIDs[i] < customerIDs[j] })

	summaries := make([]Summary, 0, len(customerIDs))
	for _, id := range customerIDs {
		summaries = append(summaries, BuildSummary(id, names[id], byCustomer[id]))
	}
	return summaries
}
