package http

import (
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/biznexa/biznexa-api/internal/application/auth"
	"github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/internal/application/sales"
	"github.com/biznexa/biznexa-api/internal/application/usecase"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/infrastructure/metrics"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName string

	AuthUC        *auth.AuthUseCase
	Subscriptions *billing.SubscriptionUseCase
	BillingQuery  *billing.QueryUseCase
	InvoicePDF    *billing.PDFUseCase
	Webhooks      *billing.WebhookUseCase
	ProductUC     *usecase.ProductUseCase
	CategoryUC    *usecase.CategoryUseCase
	SaleUC        *sales.SaleUseCase
	StoreUC       *usecase.StoreUseCase
	MarketUC      *usecase.MarketUseCase
	PublicUC      *usecase.PublicUseCase
	CompanyUC     *usecase.CompanyUseCase
	UserUC        *usecase.UserUseCase

	// Access lectura del estado de la empresa para el gate de suscripción.
	Access      accessReader
	Idempotency IdempotencyStore
	Metrics     *metrics.Metrics
	Log         *logger.Logger
	JWTSecret   string
	// SwaggerFile vacío = sin /docs.
	SwaggerFile string
	Now         func() time.Time
}

// NewApp construye la aplicación Fiber con el envelope de errores, recover,
// log de requests y todas las rutas.
func NewApp(deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: ErrorHandler(deps.Log),
	})
	app.Use(recover.New())
	app.Use(RequestLogger(deps.Log, deps.Metrics))

	if deps.SwaggerFile != "" {
		// Swagger UI en local: http://localhost:<port>/docs
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: deps.SwaggerFile,
			Path:     "docs",
			Title:    "Biznexa API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return ok(c, fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
//
//   - /api/auth y /api/public: sin token (salvo me/profile/change-password).
//   - /api/billing: token pero sin gate, una empresa vencida debe poder renovar.
//   - resto: token + gate de suscripción + permiso por ruta.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret)
	gate := SubscriptionGate(deps.Access, deps.Metrics, deps.Now)
	perm := RequirePermission

	idem := func(c *fiber.Ctx) error { return c.Next() }
	if deps.Idempotency != nil {
		idem = Idempotency(deps.Idempotency, IdempotencyTTL)
	}

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Get("/me", authMW, authHandler.Me)
	authGroup.Put("/profile", authMW, authHandler.UpdateProfile)
	authGroup.Put("/change-password", authMW, authHandler.ChangePassword)

	// Públicas
	publicHandler := NewPublicHandler(deps.PublicUC)
	public := api.Group("/public")
	public.Get("/store/:slug", publicHandler.Store)
	public.Get("/store/:slug/products", publicHandler.StoreProducts)
	public.Get("/store/:slug/validate", publicHandler.ValidateSlug)
	public.Get("/market", publicHandler.Businesses)
	public.Get("/market/search", publicHandler.Search)
	public.Get("/market/featured", publicHandler.Featured)
	public.Get("/market/categories", publicHandler.Categories)
	public.Get("/market/business/:id", publicHandler.Business)

	// Billing. El webhook va antes del grupo protegido: responde sin pasar por auth.
	billingHandler := NewBillingHandler(deps.Subscriptions, deps.BillingQuery, deps.Webhooks)
	invoiceHandler := NewInvoiceHandler(deps.BillingQuery, deps.Subscriptions, deps.InvoicePDF)
	api.Post("/billing/webhook/:gateway", billingHandler.Webhook)
	bill := api.Group("/billing", authMW, perm(entity.PermBillingManage))
	bill.Get("/", billingHandler.Overview)
	bill.Get("/plans", billingHandler.Plans)
	bill.Post("/subscribe", idem, billingHandler.Subscribe)
	bill.Post("/upgrade", idem, billingHandler.Upgrade)
	bill.Post("/downgrade", idem, billingHandler.Downgrade)
	bill.Post("/cancel", idem, billingHandler.Cancel)
	bill.Post("/renew", idem, billingHandler.Renew)
	bill.Get("/invoices", invoiceHandler.List)
	bill.Get("/invoices/:id", invoiceHandler.GetByID)
	bill.Get("/invoices/:id/pdf", invoiceHandler.PDF)
	bill.Post("/invoices/:id/pay", idem, invoiceHandler.Pay)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products", authMW, gate)
	products.Get("/", perm(entity.PermProductsRead), productHandler.List)
	products.Get("/low-stock", perm(entity.PermProductsRead), productHandler.LowStock)
	products.Post("/", perm(entity.PermProductsWrite), productHandler.Create)
	products.Post("/bulk-update", perm(entity.PermProductsWrite), productHandler.BulkUpdate)
	products.Get("/:id", perm(entity.PermProductsRead), productHandler.GetByID)
	products.Put("/:id", perm(entity.PermProductsWrite), productHandler.Update)
	products.Delete("/:id", perm(entity.PermProductsWrite), productHandler.Delete)

	// Categories
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categories", authMW, gate)
	categories.Get("/", perm(entity.PermProductsRead), categoryHandler.List)
	categories.Post("/", perm(entity.PermProductsWrite), categoryHandler.Create)
	categories.Get("/:id", perm(entity.PermProductsRead), categoryHandler.GetByID)
	categories.Put("/:id", perm(entity.PermProductsWrite), categoryHandler.Update)
	categories.Delete("/:id", perm(entity.PermProductsWrite), categoryHandler.Delete)

	// Sales
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup := api.Group("/sales", authMW, gate)
	salesGroup.Get("/", perm(entity.PermSalesCreate), saleHandler.List)
	salesGroup.Post("/", perm(entity.PermSalesCreate), idem, saleHandler.Create)
	salesGroup.Post("/quick-sale", perm(entity.PermSalesCreate), idem, saleHandler.QuickSale)
	salesGroup.Get("/today", perm(entity.PermSalesCreate), saleHandler.Today)
	salesGroup.Get("/:id", perm(entity.PermSalesCreate), saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", perm(entity.PermSalesCancel), saleHandler.Cancel)

	// Store
	storeHandler := NewStoreHandler(deps.StoreUC)
	store := api.Group("/store", authMW, gate, perm(entity.PermStoreManage))
	store.Get("/", storeHandler.Get)
	store.Put("/", storeHandler.Update)
	store.Post("/publish", storeHandler.Publish)
	store.Post("/unpublish", storeHandler.Unpublish)
	store.Get("/stats", storeHandler.Stats)

	// Market
	marketHandler := NewMarketHandler(deps.MarketUC)
	market := api.Group("/market", authMW, gate)
	market.Get("/", marketHandler.List)
	market.Get("/search", marketHandler.Search)
	market.Get("/business/:id", marketHandler.GetBusiness)
	market.Post("/highlight", perm(entity.PermMarketHighlight), idem, marketHandler.Highlight)

	// Settings
	settingsHandler := NewSettingsHandler(deps.CompanyUC, deps.UserUC)
	settings := api.Group("/settings", authMW, gate)
	settings.Get("/company", perm(entity.PermSettingsManage), settingsHandler.GetCompany)
	settings.Put("/company", perm(entity.PermSettingsManage), settingsHandler.UpdateCompany)
	settings.Get("/notifications", perm(entity.PermSettingsManage), settingsHandler.Notifications)
	settings.Put("/notifications", perm(entity.PermSettingsManage), settingsHandler.UpdateNotifications)
	settings.Get("/integrations", perm(entity.PermSettingsManage), settingsHandler.Integrations)
	settings.Put("/integrations", perm(entity.PermSettingsManage), settingsHandler.UpdateIntegrations)
	settings.Get("/users", perm(entity.PermUsersManage), settingsHandler.ListUsers)
	settings.Post("/users", perm(entity.PermUsersManage), settingsHandler.CreateUser)
	settings.Put("/users/:id", perm(entity.PermUsersManage), settingsHandler.UpdateUser)
	settings.Delete("/users/:id", perm(entity.PermUsersManage), settingsHandler.DeleteUser)
}
