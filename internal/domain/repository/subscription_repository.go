package repository

import (
	"context"
	"time"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// DueRenewal referencia mínima de una suscripción a renovar.
type DueRenewal struct {
	CompanyID      string
	SubscriptionID string
}

// SubscriptionRepository puerto de persistencia para la suscripción del tenant.
type SubscriptionRepository interface {
	// Current la suscripción más reciente del scope (nil si nunca se suscribió).
	Current(ctx context.Context) (*entity.Subscription, error)
	// Save inserta o actualiza por ID.
	Save(ctx context.Context, sub *entity.Subscription) error
	// ListDueForRenewal recorre todos los tenants: suscripciones activas, con
	// auto-renovación y next_billing_date <= now. Solo para el worker.
	// Pagina por company_id: devuelve empresas mayores que afterCompanyID ("" desde el inicio).
	ListDueForRenewal(ctx context.Context, now time.Time, afterCompanyID string, limit int) ([]DueRenewal, error)
}
