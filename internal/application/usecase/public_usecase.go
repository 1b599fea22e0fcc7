package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/pkg/logger"
	"github.com/biznexa/biznexa-api/pkg/slug"
)

// PublicUseCase endpoints sin autenticación: tienda por slug y directorio público.
// Cada lectura registra una visita; si el registro falla la lectura igual responde.
type PublicUseCase struct {
	market repository.MarketRepository
	log    *logger.Logger
	now    func() time.Time
}

func NewPublicUseCase(marketRepo repository.MarketRepository, log *logger.Logger) *PublicUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &PublicUseCase{
		market: marketRepo,
		log:    log.Component("public"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Store tienda publicada por slug.
func (uc *PublicUseCase) Store(ctx context.Context, slug string, visit dto.VisitInfo) (*dto.PublicStoreResponse, error) {
	store, err := uc.publishedStore(ctx, slug)
	if err != nil {
		return nil, err
	}
	uc.recordVisit(ctx, store.ID, entity.VisitSourceStorefront, visit)
	return &dto.PublicStoreResponse{Store: dto.NewStoreResponse(store)}, nil
}

// StoreProducts productos activos de una tienda publicada.
func (uc *PublicUseCase) StoreProducts(ctx context.Context, slug string, page dto.PageRequest) ([]dto.ProductResponse, error) {
	store, err := uc.publishedStore(ctx, slug)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.market.PublicProducts(ctx, store.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return dto.NewProductResponses(list), nil
}

// Businesses directorio público.
func (uc *PublicUseCase) Businesses(ctx context.Context, in dto.MarketListRequest) (*dto.BusinessListResponse, error) {
	return listBusinesses(ctx, uc.market, in)
}

// Search directorio público filtrado por un término de al menos 2 caracteres.
func (uc *PublicUseCase) Search(ctx context.Context, in dto.MarketListRequest) (*dto.BusinessListResponse, error) {
	return searchBusinesses(ctx, uc.market, in)
}

// Featured hasta seis negocios con un destaque featured vigente.
func (uc *PublicUseCase) Featured(ctx context.Context) ([]dto.BusinessResponse, error) {
	list, err := uc.market.Featured(ctx, featuredLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BusinessResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.NewBusinessResponse(b))
	}
	return out, nil
}

// Categories categorías de producto de los negocios listados.
func (uc *PublicUseCase) Categories(ctx context.Context) ([]string, error) {
	names, err := uc.market.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// ValidateSlug disponibilidad de un slug ya normalizado como lo guardaría la tienda.
func (uc *PublicUseCase) ValidateSlug(ctx context.Context, raw string) (*dto.SlugAvailabilityResponse, error) {
	s := slug.Make(raw)
	if s == "" {
		return nil, domain.NewValidationError("slug", "el slug no puede quedar vacío")
	}
	exists, err := uc.market.SlugExists(ctx, s)
	if err != nil {
		return nil, err
	}
	return &dto.SlugAvailabilityResponse{Slug: s, Available: !exists}, nil
}

// Business ficha pública; registra la visita con origen market_directory.
func (uc *PublicUseCase) Business(ctx context.Context, id string, visit dto.VisitInfo) (*dto.BusinessDetailResponse, error) {
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
	uc.recordVisit(ctx, b.StoreID, entity.VisitSourceMarket, visit)
	return &dto.BusinessDetailResponse{
		Business: dto.NewBusinessResponse(b),
		Products: dto.NewProductResponses(products),
	}, nil
}

func (uc *PublicUseCase) publishedStore(ctx context.Context, slug string) (*entity.Store, error) {
	store, err := uc.market.PublishedStoreBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return store, nil
}

func (uc *PublicUseCase) recordVisit(ctx context.Context, storeID, source string, visit dto.VisitInfo) {
	err := uc.market.RecordVisit(ctx, &entity.StoreVisit{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		IPAddress: visit.IP,
		UserAgent: visit.UserAgent,
		Source:    source,
		CreatedAt: uc.now(),
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("store_id", storeID).Msg("no se pudo registrar la visita")
	}
}
