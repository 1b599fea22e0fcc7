package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/biznexa/biznexa-api/internal/application/auth"
	"github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/internal/application/sales"
	"github.com/biznexa/biznexa-api/internal/application/usecase"
	"github.com/biznexa/biznexa-api/internal/infrastructure/cache"
	"github.com/biznexa/biznexa-api/internal/infrastructure/metrics"
	"github.com/biznexa/biznexa-api/internal/infrastructure/payment"
	infrapdf "github.com/biznexa/biznexa-api/internal/infrastructure/pdf"
	"github.com/biznexa/biznexa-api/internal/infrastructure/postgres"
	httpRouter "github.com/biznexa/biznexa-api/internal/interfaces/http"
	"github.com/biznexa/biznexa-api/pkg/config"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

const (
	devJWTSecret = "biznexa-dev-secret"
	swaggerFile  = "./docs/swagger.json"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		// Validate ya exige JWT_SECRET fuera de development
		log.Warn().Msg("JWT_SECRET vacío, usando secreto de desarrollo")
		cfg.JWT.Secret = devJWTSecret
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Redis para tokens de recuperación e idempotencia; sin REDIS_ADDR se usa memoria.
	var store cache.Store
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		store = cache.NewRedisStore(client, "biznexa:")
	} else {
		log.Warn().Msg("REDIS_ADDR vacío, cache en memoria (solo una instancia)")
		store = cache.NewMemoryStore()
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	subRepo := postgres.NewSubscriptionRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	usageRepo := postgres.NewUsageRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	marketRepo := postgres.NewMarketRepository(pool)
	highlightRepo := postgres.NewHighlightRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	m := metrics.New()
	gateway := payment.NewSimulatedGateway(cfg.Billing, nil)

	authUC := auth.NewAuthUseCase(
		txRunner, userRepo, companyRepo, planRepo, cache.NewResetTokens(store),
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		auth.Options{
			TrialDays:        cfg.Billing.TrialDays,
			ExposeResetToken: cfg.App.Env != "production",
		},
		log,
	)

	subscriptionUC := billing.NewSubscriptionUseCase(txRunner, planRepo, gateway, m, log, cfg.Billing.Currency)
	billingQueryUC := billing.NewQueryUseCase(companyRepo, subRepo, invoiceRepo, usageRepo, planRepo)

	// PDF: fatura de suscripción
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.Issuer{Name: "Biznexa", Email: "financeiro@biznexa.com.br"})
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, companyRepo, subRepo, planRepo, pdfGenerator)

	app := httpRouter.NewApp(httpRouter.RouterDeps{
		AppName:       cfg.App.Name,
		AuthUC:        authUC,
		Subscriptions: subscriptionUC,
		BillingQuery:  billingQueryUC,
		InvoicePDF:    invoicePDFUC,
		Webhooks:      billing.NewWebhookUseCase(log),
		ProductUC:     usecase.NewProductUseCase(txRunner, productRepo, categoryRepo, planRepo),
		CategoryUC:    usecase.NewCategoryUseCase(categoryRepo),
		SaleUC:        sales.NewSaleUseCase(txRunner, saleRepo, log),
		StoreUC:       usecase.NewStoreUseCase(storeRepo),
		MarketUC:      usecase.NewMarketUseCase(marketRepo, highlightRepo, planRepo, txRunner, cfg.Billing.Currency, log),
		PublicUC:      usecase.NewPublicUseCase(marketRepo, log),
		CompanyUC:     usecase.NewCompanyUseCase(companyRepo),
		UserUC:        usecase.NewUserUseCase(txRunner, userRepo, usageRepo, planRepo),
		Access:        companyRepo,
		Idempotency:   store,
		Metrics:       m,
		Log:           log,
		JWTSecret:     cfg.JWT.Secret,
		SwaggerFile:   swaggerPath(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// swaggerPath "" si el binario corre sin docs/ al lado.
func swaggerPath() string {
	if _, err := os.Stat(swaggerFile); err != nil {
		return ""
	}
	return swaggerFile
}
