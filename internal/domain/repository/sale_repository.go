package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// SaleFilter filtros del historial de ventas.
type SaleFilter struct {
	From          *time.Time
	To            *time.Time
	Status        entity.SaleStatus
	Type          entity.SaleType
	PaymentMethod string
	Limit         int
	Offset        int
}

// SalesSummary totales de un período.
type SalesSummary struct {
	Count int
	Total decimal.Decimal
}

// SaleRepository puerto de persistencia para ventas del PDV.
type SaleRepository interface {
	// Create inserta la venta y sus ítems.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, int, error)
	// LockNumbering serializa la numeración de ventas del tenant hasta el fin de la tx.
	LockNumbering(ctx context.Context) error
	CountForDay(ctx context.Context, day time.Time) (int, error)
	MarkCancelled(ctx context.Context, id string, at time.Time) error
	// Summary ventas completadas en [from, to).
	Summary(ctx context.Context, from, to time.Time) (SalesSummary, error)
}
