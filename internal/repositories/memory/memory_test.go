package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retailrewards/rewards-backend/internal/models"
	"github.com/retailrewards/rewards-backend/internal/repositories"
	"github.com/shopspring/decimal"
)

func TestCustomerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository()

	for _, name := range []string{"Deepanshu", "Raj", "Gagan"} {
		if err := repo.Create(ctx, &models.Customer{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	got, err := repo.FindByID(ctx, 2)
	if err != nil || got.Name != "Raj" {
		t.Fatalf("FindByID(2) = %+v, %v", got, err)
	}
	if _, err := repo.FindByID(ctx, 99); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	byIDs, err := repo.FindByIDs(ctx, []int64{3, 1, 3, 42})
	if err != nil {
		t.Fatalf("FindByIDs: %v", err)
	}
	if len(byIDs) != 2 || byIDs[0].ID != 1 || byIDs[1].ID != 3 {
		t.Fatalf("unexpected FindByIDs result %+v", byIDs)
	}

	count, _ := repo.Count(ctx)
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}

	// Returned values must not alias the stored ones.
	got.Name = "changed"
	again, _ := repo.FindByID(ctx, 2)
	if again.Name != "Raj" {
		t.Fatalf("stored customer was mutated through a returned pointer")
	}

	if err := repo.DeleteByIDs(ctx, []int64{1, 3, 42}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if count, _ := repo.Count(ctx); count != 1 {
		t.Fatalf("count after delete = %d, want 1", count)
	}
	if _, err := repo.FindByID(ctx, 1); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("deleted customer still found: %v", err)
	}
}

func TestTransactionRepository_DateRangeIsInclusive(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()

	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)
	dates := []time.Time{
		start.AddDate(0, 0, -1),
		start,
		start.AddDate(0, 0, 40),
		end,
		end.AddDate(0, 0, 1),
	}
	var batch []*models.Transaction
	for i, d := range dates {
		batch = append(batch, &models.Transaction{
			CustomerID:      int64(i%2 + 1),
			Amount:          decimal.NewFromInt(int64(60 + i)),
			TransactionDate: d,
		})
	}
	if err := repo.CreateMany(ctx, batch); err != nil {
		t.Fatalf("CreateMany: %v", err)
	}
	if batch[4].ID != 5 {
		t.Fatalf("ids not assigned: %+v", batch[4])
	}

	all, err := repo.FindByDateRange(ctx, start, end)
	if err != nil {
		t.Fatalf("FindByDateRange: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d transactions in range, want 3", len(all))
	}

	forCustomer, err := repo.FindByCustomerIDAndDateRange(ctx, 2, start, end)
	if err != nil {
		t.Fatalf("FindByCustomerIDAndDateRange: %v", err)
	}
	if len(forCustomer) != 2 || !forCustomer[0].TransactionDate.Equal(start) || !forCustomer[1].TransactionDate.Equal(end) {
		t.Fatalf("unexpected customer transactions %+v", forCustomer)
	}
}

func TestTransactionRepository_WithError(t *testing.T) {
	boom := errors.New("boom")
	repo := NewTransactionRepository().WithError(boom)
	if _, err := repo.FindByDateRange(context.Background(), time.Time{}, time.Now()); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
}
