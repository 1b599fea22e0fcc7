package subscription

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

var (
	ErrCouponUnknown       = errors.New("cupón inválido")
	ErrCouponNotApplicable = errors.New("el cupón no aplica a este plan")
)

// Coupon descuento porcentual aplicable a ciertos planes.
type Coupon struct {
	Code    string
	Percent decimal.Decimal
	Plans   []string
}

var coupons = map[string]Coupon{
	"WELCOME10": {Code: "WELCOME10", Percent: decimal.NewFromInt(10), Plans: []string{entity.PlanStarter, entity.PlanPro}},
	"LAUNCH20":  {Code: "LAUNCH20", Percent: decimal.NewFromInt(20), Plans: []string{entity.PlanPro, entity.PlanBusiness}},
	"UPGRADE15": {Code: "UPGRADE15", Percent: decimal.NewFromInt(15), Plans: []string{entity.PlanBusiness}},
}

// LookupCoupon resuelve el cupón (sin distinguir mayúsculas) para el plan dado.
func LookupCoupon(code, planCode string) (Coupon, error) {
	c, ok := coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Coupon{}, ErrCouponUnknown
	}
	for _, p := range c.Plans {
		if p == planCode {
			return c, nil
		}
	}
	return Coupon{}, ErrCouponNotApplicable
}

// Quote precio final de una suscripción.
type Quote struct {
	OriginalPrice decimal.Decimal
	Discount      decimal.Decimal
	FinalPrice    decimal.Decimal
	CouponCode    string
}

// QuotePrice aplica el cupón (opcional) al precio de lista. El precio final nunca es negativo.
func QuotePrice(plan *entity.Plan, cycle entity.BillingCycle, coupon *Coupon) Quote {
	price := plan.Price(cycle)
	q := Quote{OriginalPrice: price, Discount: decimal.Zero, FinalPrice: price}
	if coupon == nil {
		return q
	}
	discount := price.Mul(coupon.Percent).Div(hundred)
	final := price.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
		discount = price
	}
	q.Discount = RoundMoney(discount)
	q.FinalPrice = RoundMoney(final)
	q.CouponCode = coupon.Code
	return q
}
