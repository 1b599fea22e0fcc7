package repository

import (
	"context"
	"time"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas.
type InvoiceFilter struct {
	Status    entity.InvoiceStatus
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// InvoiceRepository puerto de persistencia para facturas de suscripción.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, int, error)
	// CountForDay facturas ya emitidas por el tenant en el día (para la numeración).
	CountForDay(ctx context.Context, day time.Time) (int, error)
	// MarkPaid única transición permitida: pending -> paid.
	MarkPaid(ctx context.Context, id, paymentID string, paidAt time.Time) error
}

// PaymentRepository registro de cobros del tenant.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
}

// UsageRepository consumo de recursos limitados del tenant.
type UsageRepository interface {
	Usage(ctx context.Context) (entity.Usage, error)
}
