package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/biznexa/biznexa-api/internal/application/auth"
	"github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/internal/application/sales"
	"github.com/biznexa/biznexa-api/internal/application/usecase"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
)

// Ensure TxRunner implementa los runners transaccionales de cada caso de uso.
var (
	_ billing.TxRunner          = (*TxRunner)(nil)
	_ sales.TxRunner            = (*TxRunner)(nil)
	_ auth.TxRunner             = (*TxRunner)(nil)
	_ usecase.TxRunner          = (*TxRunner)(nil)
	_ usecase.HighlightTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción, ejecuta fn con la tx y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunBilling repos de facturación atados a una misma tx (subscribe, upgrade, downgrade, cancel, renew, pay).
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	subRepo repository.SubscriptionRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	usageRepo repository.UsageRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewCompanyRepository(tx),
			NewSubscriptionRepository(tx),
			NewInvoiceRepository(tx),
			NewPaymentRepository(tx),
			NewUsageRepository(tx),
		)
	})
}

// RunSales productos y ventas en una tx (crear y cancelar ventas).
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx), NewSaleRepository(tx))
	})
}

// RunRegistration alta de empresa con su admin, tienda y categorías.
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	categoryRepo repository.CategoryRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCompanyRepository(tx), NewUserRepository(tx), NewStoreRepository(tx), NewCategoryRepository(tx))
	})
}

// RunLimited creaciones sujetas a límite del plan: bloquea la empresa y cuenta el uso en la misma tx.
func (r *TxRunner) RunLimited(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	usageRepo repository.UsageRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCompanyRepository(tx), NewUsageRepository(tx), NewUserRepository(tx), NewProductRepository(tx))
	})
}

// RunHighlight débito del saldo y alta del destaque en una tx.
func (r *TxRunner) RunHighlight(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	highlightRepo repository.HighlightRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCompanyRepository(tx), NewHighlightRepository(tx), NewPaymentRepository(tx))
	})
}
