package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/subscription"
)

// accessReader es el contrato mínimo que necesita el gate. Lo implementa el
// repositorio de empresas: estado y plan se leen en una sola sentencia.
type accessReader interface {
	Access(ctx context.Context) (*entity.CompanyAccess, error)
}

// gateMetrics motivo de cada rechazo del gate.
type gateMetrics interface {
	GateRejection(reason string)
}

// Motivos de rechazo del gate.
const (
	GateDisabled = "disabled"
	GateExpired  = "expired"
)

// SubscriptionGate bloquea las rutas del tenant cuando la empresa está
// deshabilitada o su suscripción venció. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 403 la empresa no existe o está deshabilitada.
//   - 403 con subscription_ends_at en errors si subscriptionEndsAt <= now.
func SubscriptionGate(reader accessReader, metrics gateMetrics, now func() time.Time) fiber.Handler {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return func(c *fiber.Ctx) error {
		access, err := reader.Access(c.UserContext())
		if err != nil {
			return err
		}
		if access == nil || !access.Active {
			if metrics != nil {
				metrics.GateRejection(GateDisabled)
			}
			return domain.ErrCompanyDisabled
		}
		if !subscription.IsAccessActive(*access, now()) {
			if metrics != nil {
				metrics.GateRejection(GateExpired)
			}
			return fail(c, fiber.StatusForbidden, domain.ErrSubscriptionExpired.Error(), fiber.Map{
				"subscription_ends_at": access.SubscriptionEndsAt,
				"plan":                 access.PlanCode,
			})
		}
		return c.Next()
	}
}
