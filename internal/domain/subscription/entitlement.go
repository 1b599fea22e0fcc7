package subscription

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// Recursos limitados por plan.
const (
	ResourceUsers    = "users"
	ResourceProducts = "products"
	ResourceStorage  = "storage"
)

// IsActive: empresa habilitada y subscriptionEndsAt en el futuro.
func IsActive(c *entity.Company, now time.Time) bool {
	return accessActive(c.Active, c.SubscriptionEndsAt, now)
}

// IsAccessActive igual que IsActive sobre el snapshot del gate.
func IsAccessActive(a entity.CompanyAccess, now time.Time) bool {
	return accessActive(a.Active, a.SubscriptionEndsAt, now)
}

func accessActive(active bool, endsAt *time.Time, now time.Time) bool {
	return active && endsAt != nil && endsAt.After(now)
}

// CanAdd informa si se puede sumar una unidad más; limit nil = ilimitado.
func CanAdd(limit *int, current int) bool {
	return limit == nil || current < *limit
}

// CanAddUser límite de usuarios del plan.
func CanAddUser(plan *entity.Plan, usage entity.Usage) bool {
	return CanAdd(plan.UserLimit, usage.Users)
}

// CanAddProduct límite de productos del plan.
func CanAddProduct(plan *entity.Plan, usage entity.Usage) bool {
	return CanAdd(plan.ProductLimit, usage.Products)
}

// CanAddStorage informa si extraMB cabe en el límite de almacenamiento.
func CanAddStorage(plan *entity.Plan, usage entity.Usage, extraMB decimal.Decimal) bool {
	if plan.StorageLimitMB == nil {
		return true
	}
	return usage.StorageMB.Add(extraMB).LessThanOrEqual(decimal.NewFromInt(int64(*plan.StorageLimitMB)))
}

// ExceededLimits recursos cuyo uso actual supera los límites del plan.
func ExceededLimits(plan *entity.Plan, usage entity.Usage) []string {
	var out []string
	if plan.UserLimit != nil && usage.Users > *plan.UserLimit {
		out = append(out, ResourceUsers)
	}
	if plan.ProductLimit != nil && usage.Products > *plan.ProductLimit {
		out = append(out, ResourceProducts)
	}
	if plan.StorageLimitMB != nil && usage.StorageMB.GreaterThan(decimal.NewFromInt(int64(*plan.StorageLimitMB))) {
		out = append(out, ResourceStorage)
	}
	return out
}

// UsagePercent porcentaje de uso con 2 decimales; 0 si el límite es ilimitado o cero.
func UsagePercent(current decimal.Decimal, limit *int) decimal.Decimal {
	if limit == nil || *limit <= 0 {
		return decimal.Zero
	}
	return RoundMoney(current.Mul(hundred).Div(decimal.NewFromInt(int64(*limit))))
}
