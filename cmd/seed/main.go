// Package main provides a CLI tool for seeding the database with an admin
// account and, optionally, a small demo kitchen.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"kitchenledger/internal/config"
	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/types"
	"kitchenledger/internal/domain/auth"
	"kitchenledger/internal/domain/customer"
	"kitchenledger/internal/domain/fixedcosts"
	"kitchenledger/internal/domain/input"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/internal/domain/pricing"
	"kitchenledger/internal/domain/product"
	"kitchenledger/internal/infrastructure/cache"
	"kitchenledger/internal/infrastructure/storage/postgres"
	"kitchenledger/internal/infrastructure/storage/postgres/auth_repo"
	"kitchenledger/internal/infrastructure/storage/postgres/catalog_repo"
	"kitchenledger/pkg/logger"
)

type stockSeed struct {
	name     string
	limit    string
	quantity string
	unit     inventory.Unit
	cost     string
}

type recipeSeed struct {
	name        string
	yield       int
	ingredients map[string]string
	marginPct   int64
	feePct      int64
}

var demoStock = []stockSeed{
	{name: "Flour", limit: "5", quantity: "25", unit: inventory.UnitKilogram, cost: "4,50"},
	{name: "Sugar", limit: "3", quantity: "10", unit: inventory.UnitKilogram, cost: "5,20"},
	{name: "Butter", limit: "2", quantity: "8", unit: inventory.UnitKilogram, cost: "38,90"},
	{name: "Eggs", limit: "24", quantity: "120", unit: inventory.UnitPiece, cost: "0,75"},
	{name: "Cocoa", limit: "1", quantity: "3", unit: inventory.UnitKilogram, cost: "42,00"},
}

var demoRecipes = []recipeSeed{
	{
		name:  "Chocolate cake",
		yield: 12,
		ingredients: map[string]string{
			"Flour": "0.5", "Sugar": "0.4", "Butter": "0.25", "Eggs": "6", "Cocoa": "0.1",
		},
		marginPct: 40,
		feePct:    12,
	},
	{
		name:  "Butter cookies",
		yield: 30,
		ingredients: map[string]string{
			"Flour": "0.6", "Sugar": "0.2", "Butter": "0.3", "Eggs": "2",
		},
		marginPct: 55,
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)

	if err := seedAdminUser(ctx, txm, cfg); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, txm, cfg); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, txm *postgres.TxManager, cfg config.Config) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@kitchenledger.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	svc := auth.NewService(
		auth_repo.NewUserRepo(txm),
		txm,
		auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret)),
		auth.DefaultServiceConfig(),
	)
	user, err := svc.Register(ctx, auth.RegisterRequest{Name: "Administrator", Email: email, Password: password})
	if apperror.HasCode(err, apperror.CodeDuplicate) {
		logger.Info(ctx, "admin user already exists", "email", email)
		return nil
	}
	if err != nil {
		return err
	}
	if user.Role != auth.RoleAdmin {
		logger.Warn(ctx, "seeded user is not admin; accounts already existed", "email", email, "role", user.Role)
	}
	return nil
}

func seedDemoData(ctx context.Context, txm *postgres.TxManager, cfg config.Config) error {
	inputRepo := catalog_repo.NewInputRepo(txm)
	inventoryRepo := catalog_repo.NewInventoryRepo(txm)
	productRepo := catalog_repo.NewProductRepo(txm)

	inputs := input.NewService(inputRepo)
	stock := inventory.NewService(inventoryRepo, inputRepo, txm)
	products := product.NewService(productRepo, inventoryRepo)
	customers := customer.NewService(catalog_repo.NewCustomerRepo(txm))
	fixedCosts := fixedcosts.NewService(catalog_repo.NewFixedCostsRepo(txm), cache.NewMemory(cfg.FixedCostsTTL))
	pricings := pricing.NewService(
		catalog_repo.NewPricingRepo(txm),
		productRepo,
		pricing.NewCalculator(inventoryRepo),
		fixedCosts,
		txm,
	)
	fixedCosts.SetRecalculator(pricings)

	if _, err := fixedCosts.Update(ctx, &fixedcosts.FixedCosts{
		Rent:                 types.MustMoney("1800"),
		Taxes:                types.MustMoney("350"),
		Utilities:            types.MustMoney("420"),
		Marketing:            types.MustMoney("200"),
		Accounting:           types.MustMoney("300"),
		ExpectedMonthlySales: decimal.NewFromInt(1500),
	}); err != nil {
		return fmt.Errorf("seed fixed costs: %w", err)
	}

	stockByName := make(map[string]*inventory.Item, len(demoStock))
	for _, s := range demoStock {
		in, err := inputs.Create(ctx, s.name, mustQuantity(s.limit))
		if err != nil {
			return fmt.Errorf("seed input %s: %w", s.name, err)
		}
		item, err := stock.Create(ctx, inventory.CreateRequest{
			InputID:     in.ID,
			Quantity:    mustQuantity(s.quantity),
			Unit:        s.unit,
			CostPerUnit: s.cost,
		})
		if err != nil {
			return fmt.Errorf("seed inventory %s: %w", s.name, err)
		}
		stockByName[s.name] = item
	}

	for _, r := range demoRecipes {
		req := product.Request{Name: r.name, Yield: r.yield}
		for name, qty := range r.ingredients {
			req.Ingredients = append(req.Ingredients, product.Ingredient{
				InventoryID: stockByName[name].ID,
				Quantity:    mustQuantity(qty),
			})
		}
		p, err := products.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", r.name, err)
		}
		if _, err := pricings.Create(ctx, pricing.CreateRequest{
			ProductID:       p.ID,
			ProfitMarginPct: decimal.NewFromInt(r.marginPct),
			PlatformFeePct:  decimal.NewFromInt(r.feePct),
		}); err != nil {
			return fmt.Errorf("seed pricing %s: %w", r.name, err)
		}
	}

	if _, err := customers.Create(ctx, customer.Request{
		Name:    "Corner Café",
		Email:   "orders@cornercafe.example",
		Phone:   "+1 555 0100",
		Address: "12 Market Street",
	}); err != nil {
		return fmt.Errorf("seed customer: %w", err)
	}

	logger.Info(ctx, "demo data seeded",
		"inputs", len(demoStock),
		"products", len(demoRecipes))
	return nil
}

func mustQuantity(s string) types.Quantity {
	q, err := types.ParseQuantity(s)
	if err != nil {
		panic(err)
	}
	return q
}
