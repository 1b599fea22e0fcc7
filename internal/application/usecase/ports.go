package usecase

import (
	"context"

	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/subscription"
)

// TxRunner creaciones sujetas a límite del plan. companyRepo.CurrentForUpdate serializa
// las altas concurrentes del mismo tenant antes de contar el uso.
type TxRunner interface {
	RunLimited(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		usageRepo repository.UsageRepository,
		userRepo repository.UserRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// HighlightTxRunner débito del saldo, registro del pago y alta del destaque, o nada.
type HighlightTxRunner interface {
	RunHighlight(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		highlightRepo repository.HighlightRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// Recursos con límite por plan.
const (
	resourceUsers    = "users"
	resourceProducts = "products"
)

// checkLimit bloquea la empresa, lee el plan y el uso, y devuelve *domain.LimitError si
// el recurso ya alcanzó el límite.
func checkLimit(
	ctx context.Context,
	companies repository.CompanyRepository,
	usageRepo repository.UsageRepository,
	plans repository.PlanRepository,
	resource string,
) error {
	company, err := companies.CurrentForUpdate(ctx)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	plan, err := plans.GetByID(ctx, company.PlanID)
	if err != nil {
		return err
	}
	if plan == nil {
		return domain.ErrNoSubscription
	}
	usage, err := usageRepo.Usage(ctx)
	if err != nil {
		return err
	}
	limit, current, ok := limitFor(plan, usage, resource)
	if ok {
		return nil
	}
	return &domain.LimitError{Resource: resource, Limit: *limit, Current: current}
}

func limitFor(plan *entity.Plan, usage entity.Usage, resource string) (*int, int, bool) {
	switch resource {
	case resourceUsers:
		return plan.UserLimit, usage.Users, subscription.CanAddUser(plan, usage)
	default:
		return plan.ProductLimit, usage.Products, subscription.CanAddProduct(plan, usage)
	}
}
