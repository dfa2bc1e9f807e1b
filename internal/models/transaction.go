package models

import (
	"time"

	"github.com/retailrewards/rewards-backend/internal/rewards"
	"github.com/retailrewards/rewards-backend/internal/utils"
	"github.com/shopspring/decimal"
)

// Transaction represents a purchase made by a customer
type Transaction struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customerId"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"` // Calendar date, midnight UTC
	CreatedAt       time.Time       `json:"createdAt"`
}

// Fact returns the view of the transaction used for points calculation
func (t *Transaction) Fact() rewards.TransactionFact {
	return rewards.NewTransactionFact(t.Amount, t.TransactionDate)
}

// CustomerFact is Fact tagged with the owning customer
func (t *Transaction) CustomerFact() rewards.CustomerTransactionFact {
	return rewards.CustomerTransactionFact{CustomerID: t.CustomerID, TransactionFact: t.Fact()}
}

// TransactionRequest defines the structure for transaction creation requests.
// Fields are pointers so that a missing value can be told apart from a zero one.
type TransactionRequest struct {
	CustomerID      *int64           `json:"customerId" binding:"required"`
	Amount          *decimal.Decimal `json:"amount" binding:"required"`
	TransactionDate *string          `json:"transactionDate" binding:"required"`
}

// TransactionResponse is returned after a transaction is recorded
type TransactionResponse struct {
	ID              int64   `json:"id"`
	CustomerID      int64   `json:"customerId"`
	Amount          float64 `json:"amount"`
	TransactionDate string  `json:"transactionDate"`
	PointsEarned    int     `json:"pointsEarned"`
}

// NewTransactionResponse builds the response body for a stored transaction
func NewTransactionResponse(t *Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		CustomerID:      t.CustomerID,
		Amount:          t.Amount.InexactFloat64(),
		TransactionDate: t.TransactionDate.Format(utils.DateLayout),
		PointsEarned:    rewards.PointsFor(t.Amount),
	}
}
