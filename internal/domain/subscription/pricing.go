// Package subscription contiene las reglas puras del ciclo de suscripción:
// precios, cupones, prorrateo, transiciones válidas y entitlements.
// No depende de infraestructura; los casos de uso en application/billing lo orquestan.
package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProrationDaysInCycle días del ciclo usados para la tarifa diaria, fijo para mensual y anual.
const ProrationDaysInCycle = 30

var (
	daysInCycle = decimal.NewFromInt(ProrationDaysInCycle)
	hundred     = decimal.NewFromInt(100)
)

// RoundMoney redondea a 2 decimales, mitad hacia arriba. Solo se aplica en el paso final.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// DaysRemaining días completos entre now y nextBillingDate (0 si ya pasó).
func DaysRemaining(nextBillingDate, now time.Time) int {
	if !nextBillingDate.After(now) {
		return 0
	}
	return int(nextBillingDate.Sub(now).Hours() / 24)
}

// Prorate cargo adicional de un upgrade: (nuevaTarifaDiaria - tarifaDiariaActual) × díasRestantes.
// Se calcula como (nuevo - actual) × días / 30 y se redondea una sola vez al final.
func Prorate(oldMonthly, newMonthly decimal.Decimal, daysRemaining int) decimal.Decimal {
	if daysRemaining <= 0 {
		return decimal.Zero
	}
	amount := newMonthly.Sub(oldMonthly).
		Mul(decimal.NewFromInt(int64(daysRemaining))).
		Div(daysInCycle)
	if !amount.IsPositive() {
		return decimal.Zero
	}
	return RoundMoney(amount)
}
