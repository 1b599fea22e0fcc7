package repository

import (
	"context"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// ProductFilter filtros del catálogo.
type ProductFilter struct {
	Search     string
	CategoryID string
	Active     *bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila (ventas).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// AdjustStock suma delta (negativo para descontar) al stock.
	AdjustStock(ctx context.Context, id string, delta int) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
