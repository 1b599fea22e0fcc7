package repository

import (
	"context"
	"time"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// MarketFilter filtros del directorio.
type MarketFilter struct {
	Query  string
	City   string
	State  string
	Limit  int
	Offset int
}

// MarketRepository única excepción cross-tenant, de solo lectura salvo el registro de visitas.
// Toda consulta excluye empresas inactivas, vencidas o con la tienda sin publicar, y
// excluye la empresa del scope si existe.
type MarketRepository interface {
	ListBusinesses(ctx context.Context, f MarketFilter) ([]*entity.Business, int, error)
	GetBusiness(ctx context.Context, companyID string) (*entity.Business, error)
	// Featured negocios con un destaque featured vigente, en orden aleatorio.
	Featured(ctx context.Context, limit int) ([]*entity.Business, error)
	// Categories nombres de categorías activas de los negocios listados, sin repetir.
	Categories(ctx context.Context) ([]string, error)
	PublishedStoreBySlug(ctx context.Context, slug string) (*entity.Store, error)
	// SlugExists el slug lo usa alguna tienda, publicada o no.
	SlugExists(ctx context.Context, slug string) (bool, error)
	PublicProducts(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	// RecordVisit atribuye VisitorCompanyID al scope del que llama, si existe.
	RecordVisit(ctx context.Context, visit *entity.StoreVisit) error
}

// HighlightRepository destaques pagados por el tenant del scope.
type HighlightRepository interface {
	Create(ctx context.Context, h *entity.Highlight) error
	ExistsActive(ctx context.Context, highlightedCompanyID string, now time.Time) (bool, error)
}
