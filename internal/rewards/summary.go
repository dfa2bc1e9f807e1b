package rewards

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionFact is the part of a purchase the points engine cares about.
type TransactionFact struct {
	Amount     decimal.NullDecimal
	OccurredOn time.Time
}

// NewTransactionFact builds a fact for an amount that is present.
func NewTransactionFact(amount decimal.Decimal, occurredOn time.Time) TransactionFact {
	return TransactionFact{
		Amount:     decimal.NewNullDecimal(amount),
		OccurredOn: occurredOn,
	}
}

// CustomerTransactionFact ties a fact to the customer that made the purchase.
type CustomerTransactionFact struct {
	CustomerID int64
	TransactionFact
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month t falls in, in t's own location.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Before reports whether k is an earlier month than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// String formats the key as YYYY-MM.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// MonthPoints is the point total of one month.
type MonthPoints struct {
	Month  string
	Points int
}

// MonthlyPoints is a chronologically ordered list of monthly totals. It
// encodes as a JSON object keyed by month and keeps the order of its entries.
type MonthlyPoints []MonthPoints

// Get returns the points recorded for month.
func (m MonthlyPoints) Get(month string) (int, bool) {
	for _, mp := range m {
		if mp.Month == month {
			return mp.Points, true
		}
	}
	return 0, false
}

// Months returns the month keys in order.
func (m MonthlyPoints) Months() []string {
	months := make([]string, len(m))
	for i, mp := range m {
		months[i] = mp.Month
	}
	return months
}

// Sum adds up every monthly total.
func (m MonthlyPoints) Sum() int {
	total := 0
	for _, mp := range m {
		total = AddPoints(total, mp.Points)
	}
	return total
}

// MarshalJSON implements json.Marshaler.
func (m MonthlyPoints) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, mp := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(mp.Month)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", mp.Points)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping the document order.
func (m *MonthlyPoints) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("monthly points: expected object, got %v", tok)
	}

	out := MonthlyPoints{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("monthly points: unexpected key %v", keyTok)
		}
		var points int
		if err := dec.Decode(&points); err != nil {
			return fmt.Errorf("monthly points: month %s: %w", key, err)
		}
		out = append(out, MonthPoints{Month: key, Points: points})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// Summary is the rewards statement of one customer.
type Summary struct {
	CustomerID    int64         `json:"customerId"`
	CustomerName  string        `json:"customerName"`
	MonthlyPoints MonthlyPoints `json:"monthlyPoints"`
	TotalPoints   int           `json:"totalPoints"`
}
