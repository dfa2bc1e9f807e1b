package mongodb

import (
	"testing"
	"time"

	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/shopspring/decimal"
)

func TestTransactionDocumentKeepsCents(t *testing.T) {
	date := time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC)
	for _, a := range []string{"75.50", "100.01", "0.01", "123456.78", "120"} {
		in := &models.Transaction{
			ID:              9,
			CustomerID:      3,
			Amount:          decimal.RequireFromString(a),
			TransactionDate: date,
		}
		doc, err := toDocument(in)
		if err != nil {
			t.Fatalf("toDocument(%s): %v", a, err)
		}
		out, err := doc.toModel()
		if err != nil {
			t.Fatalf("toModel(%s): %v", a, err)
		}
		if !out.Amount.Equal(in.Amount) {
			t.Fatalf("amount %s came back as %s", in.Amount, out.Amount)
		}
		if out.ID != 9 || out.CustomerID != 3 || !out.TransactionDate.Equal(date) {
			t.Fatalf("unexpected round trip %+v", out)
		}
	}
}
