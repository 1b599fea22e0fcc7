package subscription

import (
	"time"

	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// State estado derivado de una empresa frente a su suscripción.
type State string

const (
	StateTrial     State = "trial"
	StateActive    State = "active"
	StateCancelled State = "cancelled"
	StateExpired   State = "expired"
)

// StateOf deriva el estado. La expiración domina a cualquier estado persistido.
func StateOf(c *entity.Company, sub *entity.Subscription, now time.Time) State {
	if !IsActive(c, now) {
		return StateExpired
	}
	switch {
	case sub == nil:
		return StateTrial
	case sub.IsCancelled():
		return StateCancelled
	default:
		return StateActive
	}
}

// CheckSubscribe rechaza suscribirse al plan en el que la empresa ya está con acceso vigente,
// sea trial, pago o cancelado con días restantes. Vencida puede volver a cualquier plan.
func CheckSubscribe(c *entity.Company, current *entity.Subscription, plan *entity.Plan, now time.Time) error {
	if !plan.Active {
		return domain.ErrNotFound
	}
	if !IsActive(c, now) {
		return nil
	}
	if c.PlanID == plan.ID {
		return domain.ErrAlreadySubscribed
	}
	if current != nil && !current.IsCancelled() && current.PlanID == plan.ID {
		return domain.ErrAlreadySubscribed
	}
	return nil
}

// CheckUpgrade exige una suscripción activa y un plan estrictamente más caro (mensual).
func CheckUpgrade(current *entity.Subscription, currentPlan, target *entity.Plan) error {
	if current == nil || current.IsCancelled() {
		return domain.ErrNoSubscription
	}
	if !target.PriceMonthly.GreaterThan(currentPlan.PriceMonthly) {
		return domain.ErrNotAnUpgrade
	}
	return nil
}

// CheckDowngrade exige una suscripción activa, un plan estrictamente más barato
// y que el uso actual quepa en los límites del plan destino.
func CheckDowngrade(current *entity.Subscription, currentPlan, target *entity.Plan, usage entity.Usage) error {
	if current == nil || current.IsCancelled() {
		return domain.ErrNoSubscription
	}
	if !target.PriceMonthly.LessThan(currentPlan.PriceMonthly) {
		return domain.ErrNotADowngrade
	}
	if exceeded := ExceededLimits(target, usage); len(exceeded) > 0 {
		return &domain.UsageError{Resources: exceeded}
	}
	return nil
}

// CheckCancel rechaza cancelar dos veces.
func CheckCancel(current *entity.Subscription) error {
	if current == nil {
		return domain.ErrNoSubscription
	}
	if current.IsCancelled() {
		return domain.ErrAlreadyCancelled
	}
	return nil
}

// CheckRenew exige auto-renovación activa y el ciclo vencido.
func CheckRenew(current *entity.Subscription, now time.Time) error {
	if current == nil {
		return domain.ErrNoSubscription
	}
	if current.IsCancelled() || !current.AutoRenew {
		return domain.ErrAutoRenewDisabled
	}
	if current.NextBillingDate.After(now) {
		return domain.ErrRenewalNotDue
	}
	return nil
}

// NextBillingAfterChange fecha de cobro tras un cambio de plan: nunca retrocede.
func NextBillingAfterChange(current *entity.Subscription, candidate time.Time) time.Time {
	if current != nil && current.NextBillingDate.After(candidate) {
		return current.NextBillingDate
	}
	return candidate
}
