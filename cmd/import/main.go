package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/retailrewards/rewards-backend/internal/config"
	"github.com/retailrewards/rewards-backend/internal/importer"
	"github.com/retailrewards/rewards-backend/internal/services"
	"github.com/retailrewards/rewards-backend/internal/storage"
	flag "github.com/spf13/pflag"
)

func main() {
	configDir := flag.StringP("config", "c", ".", "directory containing config.yaml")
	driver := flag.String("storage", "", "storage driver override (memory or mongodb)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: import [--config DIR] [--storage DRIVER] FILE.csv")
	}
	csvFilePath := flag.Arg(0)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *driver != "" {
		cfg.Storage.Driver = *driver
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	}
	logger := config.NewLogger(cfg.Log)

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open storage")
	}
	defer store.Close(context.Background())

	file, err := os.Open(csvFilePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open CSV file")
	}
	defer file.Close()

	transactionService := services.NewTransactionService(store.Customers, store.Transactions, logger)
	result, err := importer.NewCSVImporter(transactionService, logger).ImportTransactions(ctx, file)
	if err != nil {
		logger.WithError(err).Fatal("Import failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.WithError(err).Error("Failed to print import result")
	}
}
