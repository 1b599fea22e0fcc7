package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/market"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

const (
	// detailProductsLimit productos mostrados en la ficha de un negocio.
	detailProductsLimit = 12
	featuredLimit       = 6
)

// MarketUseCase directorio cross-tenant visto por un tenant autenticado y destaques pagados.
type MarketUseCase struct {
	market     repository.MarketRepository
	highlights repository.HighlightRepository
	plans      repository.PlanRepository
	tx         HighlightTxRunner
	currency   string
	log        *logger.Logger
	now        func() time.Time
}

func NewMarketUseCase(
	marketRepo repository.MarketRepository,
	highlights repository.HighlightRepository,
	plans repository.PlanRepository,
	tx HighlightTxRunner,
	currency string,
	log *logger.Logger,
) *MarketUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MarketUseCase{
		market:     marketRepo,
		highlights: highlights,
		plans:      plans,
		tx:         tx,
		currency:   currency,
		log:        log.Component("market"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *MarketUseCase) WithClock(now func() time.Time) *MarketUseCase {
	uc.now = now
	return uc
}

// List negocios activos con tienda publicada, sin la empresa del scope.
func (uc *MarketUseCase) List(ctx context.Context, in dto.MarketListRequest) (*dto.BusinessListResponse, error) {
	return listBusinesses(ctx, uc.market, in)
}

// Search igual que List pero exige un término de al menos 2 caracteres.
func (uc *MarketUseCase) Search(ctx context.Context, in dto.MarketListRequest) (*dto.BusinessListResponse, error) {
	return searchBusinesses(ctx, uc.market, in)
}

// GetBusiness ficha de un negocio del directorio. La propia empresa o un negocio no listado → ErrNotFound.
func (uc *MarketUseCase) GetBusiness(ctx context.Context, id string) (*dto.BusinessDetailResponse, error) {
	b, err := uc.market.GetBusiness(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	products, err := uc.market.PublicProducts(ctx, b.CompanyID, detailProductsLimit, 0)
	if err != nil {
		return nil, err
	}
	highlighted, err := uc.highlights.ExistsActive(ctx, b.CompanyID, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.BusinessDetailResponse{
		Business:       dto.NewBusinessResponse(b),
		Products:       dto.NewProductResponses(products),
		HasHighlighted: highlighted,
	}, nil
}

// Highlight destaca un negocio pagando con el saldo prepago del tenant.
// El plan debe incluir la feature del tipo pedido; un destaque activo sobre el mismo negocio se rechaza.
func (uc *MarketUseCase) Highlight(ctx context.Context, in dto.HighlightRequest) (*dto.HighlightResponse, error) {
	hType := entity.HighlightType(in.HighlightType)
	if !market.ValidHighlightType(hType) {
		return nil, domain.NewValidationError("highlight_type", "debe ser basic, premium o featured")
	}
	if in.DurationDays < market.MinHighlightDays || in.DurationDays > market.MaxHighlightDays {
		return nil, domain.NewValidationError("duration_days", "debe estar entre 1 y 365")
	}
	target, err := uc.market.GetBusiness(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	h := &entity.Highlight{
		ID:                   uuid.New().String(),
		HighlightedCompanyID: target.CompanyID,
		Type:                 hType,
		DurationDays:         in.DurationDays,
		Status:               "active",
		StartsAt:             now,
		ExpiresAt:            now.AddDate(0, 0, in.DurationDays),
		CreatedAt:            now,
	}
	var balance entity.BillingSettings
	err = uc.tx.RunHighlight(ctx, func(
		companyRepo repository.CompanyRepository,
		highlightRepo repository.HighlightRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		company, err := companyRepo.CurrentForUpdate(ctx)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrNotFound
		}
		plan, err := uc.plans.GetByID(ctx, company.PlanID)
		if err != nil {
			return err
		}
		if plan == nil {
			return domain.ErrNoSubscription
		}
		if !market.CanHighlight(plan, hType) {
			return domain.ErrFeatureNotInPlan
		}
		exists, err := highlightRepo.ExistsActive(ctx, target.CompanyID, now)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyHighlighted
		}
		h.Cost = market.HighlightCost(hType, in.DurationDays, plan.Code)
		settings := company.Settings
		if settings.Billing.Balance.LessThan(h.Cost) {
			return domain.ErrInsufficientBalance
		}
		settings.Billing.Balance = settings.Billing.Balance.Sub(h.Cost)
		if err := companyRepo.UpdateSettings(ctx, settings); err != nil {
			return err
		}
		if err := paymentRepo.Create(ctx, &entity.Payment{
			ID:            uuid.New().String(),
			TransactionID: "BAL-" + uuid.New().String(),
			Amount:        h.Cost,
			Currency:      uc.currency,
			Method:        entity.PaymentBalance,
			Status:        entity.PaymentCompleted,
			Purpose:       entity.PurposeHighlight,
			CreatedAt:     now,
		}); err != nil {
			return err
		}
		balance = settings.Billing
		return highlightRepo.Create(ctx, h)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("business_id", target.CompanyID).
		Str("type", string(hType)).
		Str("cost", h.Cost.StringFixed(2)).
		Msg("negocio destacado")
	return &dto.HighlightResponse{
		ID:               h.ID,
		BusinessID:       target.CompanyID,
		HighlightType:    string(hType),
		DurationDays:     h.DurationDays,
		Cost:             h.Cost,
		StartsAt:         h.StartsAt,
		ExpiresAt:        h.ExpiresAt,
		RemainingBalance: balance.Balance,
	}, nil
}

func searchBusinesses(ctx context.Context, repo repository.MarketRepository, in dto.MarketListRequest) (*dto.BusinessListResponse, error) {
	if len([]rune(strings.TrimSpace(in.Query))) < 2 {
		return nil, domain.NewValidationError("query", "mínimo 2 caracteres")
	}
	return listBusinesses(ctx, repo, in)
}

func listBusinesses(ctx context.Context, repo repository.MarketRepository, in dto.MarketListRequest) (*dto.BusinessListResponse, error) {
	in.DefaultPage()
	list, total, err := repo.ListBusinesses(ctx, repository.MarketFilter{
		Query:  strings.TrimSpace(in.Query),
		City:   in.City,
		State:  strings.ToUpper(in.State),
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.BusinessListResponse{
		Items: make([]dto.BusinessResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, b := range list {
		out.Items = append(out.Items, dto.NewBusinessResponse(b))
	}
	return out, nil
}
