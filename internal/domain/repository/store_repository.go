package repository

import (
	"context"
	"time"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// StoreRepository puerto de persistencia para la tienda del tenant.
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	Current(ctx context.Context) (*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
	// SlugTaken el slug es único global; solo informa si existe en otra tienda.
	SlugTaken(ctx context.Context, slug string) (bool, error)
	CountActiveProducts(ctx context.Context) (int, error)
	Stats(ctx context.Context, monthStart time.Time) (entity.StoreStats, error)
}
