// Command tally-seed fills the blob store with generated demo data so the
// UI and charts have something to show on a fresh install.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"

	"tally/internal/blobstore"
	"tally/internal/config"
	"tally/internal/core"
	"tally/internal/ledger"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	count := flag.Int("count", 60, "number of transactions to generate")
	days := flag.Int("days", 90, "spread transactions over this many past days")
	seed := flag.Uint64("seed", 0, "random seed (0 means non-deterministic)")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	blobs, err := blobstore.Open(ctx, cfg.Backend, cfg.SQLiteDBPath, cfg.PostgresURL)
	if err != nil {
		logger.Error("Failed to initialize blob store", "error", err, "backend", cfg.Backend)
		os.Exit(1)
	}
	defer blobs.Close()

	store := ledger.NewStore(blobs)
	store.Load(ctx)

	faker := gofakeit.New(int64(*seed))
	now := time.Now()

	added := 0
	for i := 0; i < *count; i++ {
		date := core.DateOf(now.AddDate(0, 0, -faker.Number(0, *days)))

		var text, amount string
		switch {
		case faker.Number(1, 10) <= 2:
			// Occasional income
			text = faker.RandomString([]string{"Salary", "Freelance invoice", "Refund", "Dividend"})
			amount = fmt.Sprintf("%.2f", faker.Price(50, 3000))
		default:
			text = faker.RandomString([]string{
				"Groceries", "Coffee", "Rent", "Electricity bill", "Internet",
				"Restaurant", "Fuel", "Streaming subscription", "Pharmacy",
				"Public transport", "Book", "Gym membership",
			})
			amount = fmt.Sprintf("-%.2f", faker.Price(2, 250))
		}

		if _, err := store.Add(ctx, text, amount, date); err != nil {
			logger.Error("Failed to add generated transaction", "error", err, "text", text, "amount", amount)
			os.Exit(1)
		}
		added++
	}

	logger.Info("Seed complete", "added", added, "total", store.Count(), "backend", cfg.Backend)
}
