package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Códigos de planes sembrados.
const (
	PlanStarter  = "starter"
	PlanPro      = "pro"
	PlanBusiness = "business"
)

// Feature flags de planes.
const (
	FeatureBasicStore        = "basic_store"
	FeatureOnlineStore       = "online_store"
	FeaturePremiumStore      = "premium_store"
	FeatureBasicReports      = "basic_reports"
	FeatureAdvancedReports   = "advanced_reports"
	FeatureAdvancedAnalytics = "advanced_analytics"
	FeatureBasicHighlight    = "basic_highlight"
	FeaturePremiumHighlight  = "premium_highlight"
	FeatureAds               = "ads"
)

// Plan nivel de suscripción. Límites nil = ilimitado.
type Plan struct {
	ID             string
	Code           string
	Name           string
	Description    string
	PriceMonthly   decimal.Decimal
	PriceYearly    decimal.Decimal
	UserLimit      *int
	ProductLimit   *int
	StorageLimitMB *int
	Features       []string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasFeature informa si el plan incluye la feature.
func (p *Plan) HasFeature(feature string) bool {
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// Price precio de lista para el ciclo.
func (p *Plan) Price(cycle BillingCycle) decimal.Decimal {
	if cycle == CycleYearly {
		return p.PriceYearly
	}
	return p.PriceMonthly
}
