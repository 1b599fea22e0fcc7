// seed aplica las migraciones embebidas, siembra el catálogo de planes y crea
// una empresa demo con su admin y dos productos.
//
// Uso: go run ./cmd/seed
// Es re-ejecutable: los planes se actualizan por código y la empresa demo se
// omite si el email del admin ya existe.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/application/auth"
	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/application/usecase"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
	"github.com/biznexa/biznexa-api/internal/infrastructure/cache"
	"github.com/biznexa/biznexa-api/internal/infrastructure/postgres"
	"github.com/biznexa/biznexa-api/pkg/config"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

const (
	demoEmail    = "admin@demo.com"
	demoPassword = "password123"
)

func intPtr(n int) *int { return &n }

func catalogue() []*entity.Plan {
	return []*entity.Plan{
		{
			Code: entity.PlanStarter, Name: "Starter", Description: "Ideal para pequenos negócios",
			PriceMonthly: decimal.RequireFromString("29.90"), PriceYearly: decimal.RequireFromString("299.00"),
			UserLimit: intPtr(1), ProductLimit: intPtr(100), StorageLimitMB: intPtr(100),
			Features: []string{entity.FeatureBasicStore, entity.FeatureBasicReports},
		},
		{
			Code: entity.PlanPro, Name: "Pro", Description: "Para negócios em crescimento",
			PriceMonthly: decimal.RequireFromString("89.90"), PriceYearly: decimal.RequireFromString("899.00"),
			UserLimit: intPtr(3), ProductLimit: intPtr(500), StorageLimitMB: intPtr(500),
			Features: []string{entity.FeatureOnlineStore, entity.FeatureAdvancedReports, entity.FeatureBasicHighlight},
		},
		{
			Code: entity.PlanBusiness, Name: "Business", Description: "Solução completa para PMEs",
			PriceMonthly: decimal.RequireFromString("199.90"), PriceYearly: decimal.RequireFromString("1999.00"),
			StorageLimitMB: intPtr(2000),
			Features: []string{
				entity.FeaturePremiumStore, entity.FeatureAdvancedAnalytics,
				entity.FeaturePremiumHighlight, entity.FeatureAds,
			},
		},
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}
	log.Info().Msg("migraciones aplicadas")

	planRepo := postgres.NewPlanRepository(pool)
	now := time.Now().UTC()
	for _, p := range catalogue() {
		p.ID = uuid.NewString()
		p.Active = true
		p.CreatedAt, p.UpdatedAt = now, now
		if err := planRepo.Upsert(ctx, p); err != nil {
			return err
		}
		log.Info().Str("plan", p.Code).Str("id", p.ID).Msg("plan sembrado")
	}

	txRunner := postgres.NewTxRunner(pool)
	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	secret := cfg.JWT.Secret
	if secret == "" {
		secret = "seed-only"
	}
	authUC := auth.NewAuthUseCase(
		txRunner, userRepo, companyRepo, planRepo, cache.NewResetTokens(cache.NewMemoryStore()),
		auth.JWTConfig{Secret: secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
		auth.Options{TrialDays: cfg.Billing.TrialDays},
		log,
	)

	reg, err := authUC.Register(ctx, dto.RegisterRequest{
		CompanyName: "Demo Store",
		TaxID:       "12345678000199",
		Phone:       "+5511999999999",
		City:        "São Paulo",
		State:       "SP",
		Name:        "Admin Demo",
		Email:       demoEmail,
		Password:    demoPassword,
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			if _, taken := ve.Fields["email"]; taken {
				log.Info().Str("email", demoEmail).Msg("empresa demo ya existe, se omite")
				return nil
			}
		}
		return fmt.Errorf("registrar empresa demo: %w", err)
	}

	scoped := tenant.WithScope(ctx, tenant.Scope{
		CompanyID: reg.User.CompanyID,
		UserID:    reg.User.ID,
		Roles:     reg.User.Roles,
	})
	productUC := usecase.NewProductUseCase(txRunner, postgres.NewProductRepository(pool), postgres.NewCategoryRepository(pool), planRepo)
	demo := []dto.CreateProductRequest{
		{
			SKU: "PROD-DEMO-0001", Barcode: "7891234567890", Name: "Smartphone XYZ",
			Description: "Smartphone de última geração",
			Price:       decimal.RequireFromString("1299.99"), Cost: decimal.RequireFromString("899.99"),
			TaxRate: decimal.NewFromInt(18), Stock: 25, MinStock: 5, Unit: "un",
		},
		{
			SKU: "PROD-DEMO-0002", Barcode: "7891234567891", Name: "Camiseta Básica",
			Description: "Camiseta de algodão 100%",
			Price:       decimal.RequireFromString("49.90"), Cost: decimal.RequireFromString("29.90"),
			TaxRate: decimal.NewFromInt(12), Stock: 100, MinStock: 20, Unit: "un",
		},
	}
	for _, in := range demo {
		if _, err := productUC.Create(scoped, in); err != nil {
			return fmt.Errorf("producto %s: %w", in.SKU, err)
		}
	}

	log.Info().
		Str("company_id", reg.User.CompanyID).
		Str("email", demoEmail).
		Str("password", demoPassword).
		Msg("empresa demo creada")
	return nil
}
