// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"broilerfarm/internal/core/id"
	"broilerfarm/internal/core/types"
	"broilerfarm/internal/domain/batch"
	"broilerfarm/internal/domain/reconcile"
	"broilerfarm/internal/domain/records/expense"
	"broilerfarm/internal/domain/records/feed"
	"broilerfarm/internal/domain/records/health"
	"broilerfarm/internal/domain/records/mortality"
	"broilerfarm/internal/domain/records/sales"
	"broilerfarm/internal/domain/records/weight"
	"broilerfarm/internal/domain/supply"
	"broilerfarm/internal/infrastructure/storage/postgres"
	"broilerfarm/internal/infrastructure/storage/postgres/batch_repo"
	"broilerfarm/internal/infrastructure/storage/postgres/record_repo"
	"broilerfarm/internal/infrastructure/storage/postgres/supply_repo"
	"broilerfarm/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	ownerID, err := seedOwner(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed farm owner", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log, ownerID); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedOwner creates the farm owner account unless it already exists.
func seedOwner(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	email := os.Getenv("OWNER_EMAIL")
	if email == "" {
		email = "owner@broilerfarm.local"
	}

	password := os.Getenv("OWNER_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1 AND deleted_at IS NULL`,
		email,
	).Scan(&existingID)
	if err == nil {
		log.Infow("farm owner already exists", "email", email, "user_id", existingID)
		return existingID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check owner exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, farm_name, first_name, last_name, is_active, version)
		VALUES ($1, $2, $3, 'Demo Farm', 'Demo', 'Farmer', true, 1)
	`, userID, email, string(passwordHash))
	if err != nil {
		return id.Nil(), fmt.Errorf("insert owner: %w", err)
	}

	log.Infow("farm owner created", "email", email, "user_id", userID)
	return userID, nil
}

// seedDemoData builds a realistic grow-out cycle through the domain
// services so every aggregate is reconciled the same way the API
// would have done it.
func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger, ownerID id.ID) error {
	log.Info("seeding demo data...")

	txManager := postgres.NewTxManager(pool)

	batchRepo := batch_repo.NewRepo(txManager)
	supplyRepo := supply_repo.NewRepo(txManager)
	mortalityRepo := record_repo.NewMortalityRepo(txManager)
	feedRepo := record_repo.NewFeedRepo(txManager)
	weightRepo := record_repo.NewWeightRepo(txManager)
	salesRepo := record_repo.NewSalesRepo(txManager)
	expenseRepo := record_repo.NewExpenseRepo(txManager)
	healthRepo := record_repo.NewHealthRepo(txManager)

	batchService := batch.NewService(batchRepo, txManager)
	supplyService := supply.NewService(supplyRepo, txManager)
	engine := reconcile.NewEngine(
		txManager, batchRepo, supplyRepo,
		mortalityRepo, feedRepo, weightRepo, salesRepo, expenseRepo, healthRepo,
	)

	start := time.Now().UTC().AddDate(0, 0, -35).Truncate(24 * time.Hour)

	// 1. Supply items
	starter := supply.New(ownerID, "Starter Feed", "kg", supply.CategoryFeed)
	if err := supplyService.Create(ctx, starter); err != nil {
		return fmt.Errorf("create starter feed: %w", err)
	}

	vaccine := supply.New(ownerID, "Newcastle Vaccine", "dose", supply.CategoryVaccine)
	vaccine.BufferStock = types.NewQuantityFromFloat64(50)
	if err := supplyService.Create(ctx, vaccine); err != nil {
		return fmt.Errorf("create vaccine: %w", err)
	}

	// 2. Batch
	b := batch.New(ownerID, fmt.Sprintf("Batch %s", start.Format("Jan 2006")))
	b.Breed = "Cobb 500"
	b.PurchaseDate = start
	b.PurchasedChickCount = 500
	b.FreeChickCount = 10
	b.ChickPrice = types.NewMoney(850)
	b.ProposedSellingPrice = types.NewMoney(7500)
	b.EstimatedFeedCost = types.NewMoney(180000)
	if err := batchService.Create(ctx, b); err != nil {
		return fmt.Errorf("create batch: %w", err)
	}

	// 3. Purchases restock the supply items through the engine.
	feedPurchase := expense.New(ownerID, start, expense.CategoryFeed, types.NewMoney(225000))
	feedPurchase.Description = "Starter feed, 500 kg"
	feedPurchase.SupplyItemID = &starter.ID
	feedPurchase.QuantityPurchased = types.NewQuantityFromFloat64(500)
	if _, err := engine.CreateExpense(ctx, feedPurchase); err != nil {
		return fmt.Errorf("create feed purchase: %w", err)
	}

	vaccinePurchase := expense.New(ownerID, start, expense.CategoryMedication, types.NewMoney(30000))
	vaccinePurchase.Description = "Newcastle vaccine, 600 doses"
	vaccinePurchase.SupplyItemID = &vaccine.ID
	vaccinePurchase.QuantityPurchased = types.NewQuantityFromFloat64(600)
	if _, err := engine.CreateExpense(ctx, vaccinePurchase); err != nil {
		return fmt.Errorf("create vaccine purchase: %w", err)
	}

	// 4. Daily events
	if _, err := engine.CreateMortality(ctx, mortality.New(ownerID, b.ID, start.AddDate(0, 0, 3), 8)); err != nil {
		return fmt.Errorf("create mortality: %w", err)
	}

	vaccination := health.New(ownerID, start.AddDate(0, 0, 7), health.EventVaccination)
	vaccination.Description = "Newcastle vaccination, full flock"
	vaccination.BatchID = &b.ID
	vaccination.SupplyItemID = &vaccine.ID
	vaccination.QuantityUsed = types.NewQuantityFromFloat64(502)
	if _, err := engine.CreateHealth(ctx, vaccination); err != nil {
		return fmt.Errorf("create vaccination: %w", err)
	}

	for week := 1; week <= 4; week++ {
		day := start.AddDate(0, 0, week*7)
		qty := types.NewQuantityFromFloat64(float64(week) * 20)
		if _, err := engine.CreateFeed(ctx, feed.New(ownerID, b.ID, starter.ID, day, qty)); err != nil {
			return fmt.Errorf("create feed record (week %d): %w", week, err)
		}
	}

	// 5. Bulk weight history via COPY, then one reconciled sample so
	// the batch aggregate reflects the latest reading.
	if err := seedWeightHistory(ctx, txManager, ownerID, b.ID, start); err != nil {
		return fmt.Errorf("seed weight history: %w", err)
	}

	final := weight.New(ownerID, b.ID, start.AddDate(0, 0, 34), types.NewQuantityFromFloat64(2.05))
	final.SampleSize = 30
	if _, err := engine.CreateWeight(ctx, final); err != nil {
		return fmt.Errorf("create final weight: %w", err)
	}

	// 6. A first sale
	sale := sales.New(ownerID, b.ID, start.AddDate(0, 0, 35), 120, types.NewMoney(7500), sales.SaleCash, types.NewMoney(900000))
	sale.CustomerName = "Adewale Poultry Depot"
	if _, err := engine.CreateSale(ctx, sale); err != nil {
		return fmt.Errorf("create sale: %w", err)
	}

	log.Info("demo data seeded successfully")
	return nil
}

// seedWeightHistory bulk-inserts daily weight samples for days 7..33.
// These are plain history rows; the reconciled final sample is created
// separately through the engine.
func seedWeightHistory(ctx context.Context, txManager *postgres.TxManager, ownerID, batchID id.ID, start time.Time) error {
	inserter := postgres.NewBatchInserter(txManager)

	columns := []string{
		"id", "owner_id", "batch_id", "date",
		"average_weight_kg", "sample_size", "notes",
		"created_at", "updated_at", "version",
	}

	now := time.Now().UTC()
	var rows [][]any
	for day := 7; day < 34; day++ {
		avg := 0.18 + 0.055*float64(day)
		rows = append(rows, []any{
			id.New(), ownerID, batchID, start.AddDate(0, 0, day),
			types.NewQuantityFromFloat64(avg).Int64Scaled(), 20, "",
			now, now, 1,
		})
	}

	return txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inserted, err := inserter.CopyFromSlice(ctx, "weight_records", columns, rows)
		if err != nil {
			return err
		}
		if inserted != int64(len(rows)) {
			return fmt.Errorf("expected %d weight rows, inserted %d", len(rows), inserted)
		}
		return nil
	})
}
