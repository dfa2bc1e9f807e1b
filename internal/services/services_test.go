package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retailrewards/rewards-backend/internal/config"
	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/retailrewards/rewards-backend/internal/repositories/memory"
	"github.com/retailrewards/rewards-backend/pkg/distlock"
	"github.com/shopspring/decimal"
)

var testToday = time.Date(2024, time.June, 20, 14, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testToday }

type fixture struct {
	customers    *memory.CustomerRepository
	transactions *memory.TransactionRepository
	rewards      *RewardsServiceImpl
	txService    *TransactionServiceImpl
	custService  *CustomerServiceImpl
}

func newFixture() *fixture {
	logger := config.DiscardLogger()
	customers := memory.NewCustomerRepository()
	transactions := memory.NewTransactionRepository()
	return &fixture{
		customers:    customers,
		transactions: transactions,
		rewards:      NewRewardsService(customers, transactions, 3, logger).WithClock(fixedClock),
		txService:    NewTransactionService(customers, transactions, logger),
		custService:  NewCustomerService(customers, logger),
	}
}

func (f *fixture) addCustomer(t *testing.T, name string) int64 {
	t.Helper()
	c, err := f.custService.CreateCustomer(context.Background(), &models.CustomerRequest{Name: name, Email: name + "@example.com"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return c.ID
}

func (f *fixture) addTransaction(t *testing.T, customerID int64, amount string, daysAgo int) {
	t.Helper()
	a := decimal.RequireFromString(amount)
	date := testToday.AddDate(0, 0, -daysAgo).Format("2006-01-02")
	if _, err := f.txService.CreateTransaction(context.Background(), &models.TransactionRequest{
		CustomerID:      &customerID,
		Amount:          &a,
		TransactionDate: &date,
	}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
}

func TestGetCustomerRewards(t *testing.T) {
	f := newFixture()
	id := f.addCustomer(t, "Test Customer")
	f.addTransaction(t, id, "120.00", 5)
	f.addTransaction(t, id, "75.00", 35)
	f.addTransaction(t, id, "200.00", 65)
	f.addTransaction(t, id, "500.00", 100) // before the window

	summary, err := f.rewards.GetCustomerRewards(context.Background(), id)
	if err != nil {
		t.Fatalf("GetCustomerRewards: %v", err)
	}
	if summary.CustomerName != "Test Customer" || summary.CustomerID != id {
		t.Fatalf("unexpected identity %+v", summary)
	}
	if summary.TotalPoints != 365 {
		t.Fatalf("total = %d, want 365", summary.TotalPoints)
	}
	months := summary.MonthlyPoints.Months()
	if len(months) != 3 || months[0] != "2024-04" || months[2] != "2024-06" {
		t.Fatalf("months = %v", months)
	}
}

func TestGetCustomerRewards_WindowIsInclusive(t *testing.T) {
	f := newFixture()
	id := f.addCustomer(t, "Edge")
	start, _ := f.rewards.DefaultWindow()
	daysToStart := int(testToday.Sub(start).Hours() / 24)
	f.addTransaction(t, id, "60.00", 0)
	f.addTransaction(t, id, "60.00", daysToStart)
	f.addTransaction(t, id, "60.00", daysToStart+1)

	summary, err := f.rewards.GetCustomerRewards(context.Background(), id)
	if err != nil {
		t.Fatalf("GetCustomerRewards: %v", err)
	}
	if summary.TotalPoints != 20 {
		t.Fatalf("total = %d, want 20 (both window edges included)", summary.TotalPoints)
	}
}

func TestGetCustomerRewards_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.rewards.GetCustomerRewards(context.Background(), 999)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err.Error() != "Customer not found with id: 999" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestGetCustomerRewards_NoTransactions(t *testing.T) {
	f := newFixture()
	id := f.addCustomer(t, "Quiet")
	summary, err := f.rewards.GetCustomerRewards(context.Background(), id)
	if err != nil {
		t.Fatalf("GetCustomerRewards: %v", err)
	}
	if len(summary.MonthlyPoints) != 0 || summary.TotalPoints != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func TestGetCustomerRewardsInRange(t *testing.T) {
	f := newFixture()
	id := f.addCustomer(t, "Ranged")
	f.addTransaction(t, id, "120.00", 5)
	f.addTransaction(t, id, "500.00", 200)

	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)
	summary, err := f.rewards.GetCustomerRewardsInRange(context.Background(), id, start, end)
	if err != nil {
		t.Fatalf("GetCustomerRewardsInRange: %v", err)
	}
	if summary.TotalPoints != 850 {
		t.Fatalf("total = %d, want 850", summary.TotalPoints)
	}

	_, err = f.rewards.GetCustomerRewardsInRange(context.Background(), id, end, start)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for inverted window, got %v", err)
	}
}

func TestGetAllCustomerRewards(t *testing.T) {
	f := newFixture()
	a := f.addCustomer(t, "Alpha")
	f.addCustomer(t, "Idle")
	c := f.addCustomer(t, "Gamma")
	f.addTransaction(t, c, "300.00", 10)
	f.addTransaction(t, a, "75.50", 3)
	f.addTransaction(t, a, "45.00", 40)

	summaries, err := f.rewards.GetAllCustomerRewards(context.Background())
	if err != nil {
		t.Fatalf("GetAllCustomerRewards: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2: %+v", len(summaries), summaries)
	}
	if summaries[0].CustomerName != "Alpha" || summaries[0].TotalPoints != 25 || len(summaries[0].MonthlyPoints) != 2 {
		t.Fatalf("unexpected Alpha summary %+v", summaries[0])
	}
	if summaries[1].CustomerName != "Gamma" || summaries[1].TotalPoints != 450 {
		t.Fatalf("unexpected Gamma summary %+v", summaries[1])
	}
}

func TestGetAllCustomerRewards_RepositoryError(t *testing.T) {
	f := newFixture()
	boom := errors.New("connection reset")
	f.transactions.WithError(boom)
	if _, err := f.rewards.GetAllCustomerRewards(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	f := newFixture()
	id := f.addCustomer(t, "Validator")
	positive := decimal.RequireFromString("12.50")
	negative := decimal.RequireFromString("-50.00")
	zero := decimal.Zero
	huge := decimal.RequireFromString("5000000000000000000")
	justOver := MaxTransactionAmount.Add(decimal.New(1, -2))
	goodDate := "2024-06-01"
	badDate := "06/01/2024"

	cases := []struct {
		name  string
		req   models.TransactionRequest
		field string
	}{
		{"missing customer", models.TransactionRequest{Amount: &positive, TransactionDate: &goodDate}, "customerId"},
		{"missing amount", models.TransactionRequest{CustomerID: &id, TransactionDate: &goodDate}, "amount"},
		{"negative amount", models.TransactionRequest{CustomerID: &id, Amount: &negative, TransactionDate: &goodDate}, "amount"},
		{"zero amount", models.TransactionRequest{CustomerID: &id, Amount: &zero, TransactionDate: &goodDate}, "amount"},
		{"amount above maximum", models.TransactionRequest{CustomerID: &id, Amount: &justOver, TransactionDate: &goodDate}, "amount"},
		{"amount beyond int range", models.TransactionRequest{CustomerID: &id, Amount: &huge, TransactionDate: &goodDate}, "amount"},
		{"missing date", models.TransactionRequest{CustomerID: &id, Amount: &positive}, "transactionDate"},
		{"bad date", models.TransactionRequest{CustomerID: &id, Amount: &positive, TransactionDate: &badDate}, "transactionDate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := f.txService.CreateTransaction(context.Background(), &req)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := validation.Fields[tc.field]; !ok {
				t.Fatalf("expected error on %s, got %+v", tc.field, validation.Fields)
			}
		})
	}

	if count, _ := f.transactions.Count(context.Background()); count != 0 {
		t.Fatalf("invalid requests stored %d transactions", count)
	}
}

func TestCreateTransaction_MaximumAmountAccepted(t *testing.T) {
	f := newFixture()
	id := f.addCustomer(t, "Big Spender")
	date := "2024-06-01"
	amount := MaxTransactionAmount
	tx, err := f.txService.CreateTransaction(context.Background(), &models.TransactionRequest{
		CustomerID: &id, Amount: &amount, TransactionDate: &date,
	})
	if err != nil {
		t.Fatalf("CreateTransaction at the limit: %v", err)
	}
	if got := models.NewTransactionResponse(tx).PointsEarned; got != 1999850 {
		t.Fatalf("PointsEarned = %d, want 1999850", got)
	}
}

func TestCreateTransaction_UnknownCustomer(t *testing.T) {
	f := newFixture()
	missing := int64(999)
	a := decimal.RequireFromString("120.00")
	date := "2024-06-01"
	_, err := f.txService.CreateTransaction(context.Background(), &models.TransactionRequest{
		CustomerID: &missing, Amount: &a, TransactionDate: &date,
	})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) || notFound.ID != 999 {
		t.Fatalf("expected NotFoundError for 999, got %v", err)
	}
}

func TestCreateTransaction_Stores(t *testing.T) {
	f := newFixture()
	id := f.addCustomer(t, "Buyer")
	a := decimal.RequireFromString("120.00")
	date := "2024-06-01"
	tx, err := f.txService.CreateTransaction(context.Background(), &models.TransactionRequest{
		CustomerID: &id, Amount: &a, TransactionDate: &date,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.ID == 0 || tx.CustomerID != id || !tx.Amount.Equal(a) {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if !tx.TransactionDate.Equal(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %s", tx.TransactionDate)
	}
	resp := models.NewTransactionResponse(tx)
	if resp.Amount != 120 || resp.PointsEarned != 90 || resp.TransactionDate != "2024-06-01" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestCustomerService(t *testing.T) {
	f := newFixture()
	_, err := f.custService.CreateCustomer(context.Background(), &models.CustomerRequest{Name: "  ", Email: ""})
	var validation *ValidationError
	if !errors.As(err, &validation) || len(validation.Fields) != 2 {
		t.Fatalf("expected two field errors, got %v", err)
	}

	id := f.addCustomer(t, "Listed")
	got, err := f.custService.GetCustomer(context.Background(), id)
	if err != nil || got.Name != "Listed" {
		t.Fatalf("GetCustomer = %+v, %v", got, err)
	}
	if _, err := f.custService.GetCustomer(context.Background(), id+1); !errors.As(err, new(*NotFoundError)) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	all, err := f.custService.ListCustomers(context.Background())
	if err != nil || len(all) != 1 {
		t.Fatalf("ListCustomers = %+v, %v", all, err)
	}
}

type fakeLock struct{ released *int }

func (l fakeLock) Release(context.Context) error {
	*l.released++
	return nil
}

type fakeLocker struct {
	err      error
	obtained int
	released int
}

func (l *fakeLocker) Obtain(_ context.Context, key string, _ time.Duration) (distlock.Lock, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.obtained++
	return fakeLock{released: &l.released}, nil
}

func TestSeed(t *testing.T) {
	f := newFixture()
	locker := &fakeLocker{}
	seeder := NewSeedService(f.customers, f.transactions, locker, time.Second, config.DiscardLogger()).WithClock(fixedClock)

	seeded, err := seeder.Seed(context.Background())
	if err != nil || !seeded {
		t.Fatalf("first Seed = %v, %v", seeded, err)
	}
	if locker.obtained != 1 || locker.released != 1 {
		t.Fatalf("lock obtained %d released %d", locker.obtained, locker.released)
	}
	if n, _ := f.customers.Count(context.Background()); n != 3 {
		t.Fatalf("customers = %d, want 3", n)
	}
	if n, _ := f.transactions.Count(context.Background()); n != 15 {
		t.Fatalf("transactions = %d, want 15", n)
	}

	summaries, err := f.rewards.GetAllCustomerRewards(context.Background())
	if err != nil {
		t.Fatalf("GetAllCustomerRewards: %v", err)
	}
	want := map[string]int{"Deepanshu": 515, "Raj": 504, "Gagan": 875}
	for _, s := range summaries {
		if want[s.CustomerName] != s.TotalPoints {
			t.Errorf("%s total = %d, want %d", s.CustomerName, s.TotalPoints, want[s.CustomerName])
		}
		if s.MonthlyPoints.Sum() != s.TotalPoints {
			t.Errorf("%s monthly sum %d != total %d", s.CustomerName, s.MonthlyPoints.Sum(), s.TotalPoints)
		}
	}

	seeded, err = seeder.Seed(context.Background())
	if err != nil || seeded {
		t.Fatalf("second Seed = %v, %v; want no-op", seeded, err)
	}
	if n, _ := f.customers.Count(context.Background()); n != 3 {
		t.Fatalf("second seed wrote data: %d customers", n)
	}
}

func TestSeed_LockHeldElsewhere(t *testing.T) {
	f := newFixture()
	seeder := NewSeedService(f.customers, f.transactions, &fakeLocker{err: distlock.ErrNotObtained}, time.Second, config.DiscardLogger())

	seeded, err := seeder.Seed(context.Background())
	if err != nil || seeded {
		t.Fatalf("Seed = %v, %v; want skipped without error", seeded, err)
	}
	if n, _ := f.customers.Count(context.Background()); n != 0 {
		t.Fatalf("seeded despite lock: %d customers", n)
	}

	failing := NewSeedService(f.customers, f.transactions, &fakeLocker{err: errors.New("redis down")}, time.Second, config.DiscardLogger())
	if _, err := failing.Seed(context.Background()); err == nil {
		t.Fatal("expected error when lock backend fails")
	}
}

func TestSeed_FailedTransactionInsertLeavesStoreEmpty(t *testing.T) {
	f := newFixture()
	seeder := NewSeedService(f.customers, f.transactions, nil, time.Second, config.DiscardLogger()).WithClock(fixedClock)

	f.transactions.WithError(errors.New("write concern timeout"))
	if seeded, err := seeder.Seed(context.Background()); err == nil || seeded {
		t.Fatalf("Seed = %v, %v; want failure", seeded, err)
	}
	if n, _ := f.customers.Count(context.Background()); n != 0 {
		t.Fatalf("failed seed left %d customers behind", n)
	}

	f.transactions.WithError(nil)
	seeded, err := seeder.Seed(context.Background())
	if err != nil || !seeded {
		t.Fatalf("retry Seed = %v, %v", seeded, err)
	}
	if n, _ := f.customers.Count(context.Background()); n != 3 {
		t.Fatalf("customers after retry = %d, want 3", n)
	}
	if n, _ := f.transactions.Count(context.Background()); n != 15 {
		t.Fatalf("transactions after retry = %d, want 15", n)
	}
}

func TestSeed_WithoutLocker(t *testing.T) {
	f := newFixture()
	seeded, err := NewSeedService(f.customers, f.transactions, nil, time.Second, config.DiscardLogger()).WithClock(fixedClock).Seed(context.Background())
	if err != nil || !seeded {
		t.Fatalf("Seed = %v, %v", seeded, err)
	}
}
