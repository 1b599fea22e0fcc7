// Package market reglas del directorio de negocios: precio y elegibilidad de destaques.
package market

import (
	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// Límites de duración de un destaque.
const (
	MinHighlightDays = 1
	MaxHighlightDays = 365
)

var dailyRates = map[entity.HighlightType]decimal.Decimal{
	entity.HighlightBasic:    decimal.RequireFromString("9.90"),
	entity.HighlightPremium:  decimal.RequireFromString("29.90"),
	entity.HighlightFeatured: decimal.RequireFromString("99.90"),
}

// multiplicador por plan: pro 10% off, business 20% off.
var planMultiplier = map[string]decimal.Decimal{
	entity.PlanPro:      decimal.RequireFromString("0.9"),
	entity.PlanBusiness: decimal.RequireFromString("0.8"),
}

// ValidHighlightType informa si el tipo es conocido.
func ValidHighlightType(t entity.HighlightType) bool {
	_, ok := dailyRates[t]
	return ok
}

// HighlightCost tarifa diaria × días × descuento del plan, redondeado al final.
func HighlightCost(t entity.HighlightType, days int, planCode string) decimal.Decimal {
	rate, ok := dailyRates[t]
	if !ok {
		rate = dailyRates[entity.HighlightBasic]
	}
	mult, ok := planMultiplier[planCode]
	if !ok {
		mult = decimal.NewFromInt(1)
	}
	return rate.Mul(decimal.NewFromInt(int64(days))).Mul(mult).Round(2)
}

// CanHighlight el destaque básico requiere basic_highlight o premium_highlight;
// premium y featured requieren premium_highlight.
func CanHighlight(plan *entity.Plan, t entity.HighlightType) bool {
	if plan.HasFeature(entity.FeaturePremiumHighlight) {
		return true
	}
	return t == entity.HighlightBasic && plan.HasFeature(entity.FeatureBasicHighlight)
}
