package storage

import (
	"context"
	"testing"

	"github.com/retailrewards/rewards-backend/internal/config"
	"github.com/retailrewards/rewards-backend/internal/models"
)

func TestOpenMemory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageMemory}}
	s, err := Open(context.Background(), cfg, config.DiscardLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close(context.Background())

	if s.Driver != config.StorageMemory {
		t.Fatalf("driver = %q", s.Driver)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := s.Customers.Create(context.Background(), &models.Customer{Name: "Probe"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n, _ := s.Customers.Count(context.Background()); n != 1 {
		t.Fatalf("count = %d", n)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "postgres"}}
	if _, err := Open(context.Background(), cfg, config.DiscardLogger()); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
