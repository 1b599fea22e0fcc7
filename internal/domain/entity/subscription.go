package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingCycle periodicidad de cobro.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Valid informa si el ciclo es conocido.
func (c BillingCycle) Valid() bool {
	return c == CycleMonthly || c == CycleYearly
}

// Advance suma un período del ciclo a t.
func (c BillingCycle) Advance(t time.Time) time.Time {
	if c == CycleYearly {
		return t.AddDate(1, 0, 0)
	}
	return t.AddDate(0, 1, 0)
}

// SubscriptionStatus estado persistido. "expired" y "trial" son derivados, no se guardan.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription suscripción vigente de una empresa (una por tenant).
type Subscription struct {
	ID                 string
	CompanyID          string
	PlanID             string
	BillingCycle       BillingCycle
	Status             SubscriptionStatus
	Price              decimal.Decimal // precio cobrado por ciclo (lista menos cupón)
	PaymentMethod      string
	StartsAt           time.Time
	NextBillingDate    time.Time
	AutoRenew          bool
	CancelledAt        *time.Time
	CancellationReason string
	PendingDowngrade   *PendingDowngrade
	Metadata           SubscriptionMetadata
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsCancelled informa si ya fue cancelada.
func (s *Subscription) IsCancelled() bool {
	return s.Status == SubscriptionCancelled
}

// PendingDowngrade cambio de plan programado para el próximo ciclo.
type PendingDowngrade struct {
	FromPlanID    string    `json:"from_plan"`
	ToPlanID      string    `json:"to_plan"`
	ToPlanCode    string    `json:"to_plan_code"`
	EffectiveDate time.Time `json:"effective_date"`
	RequestedAt   time.Time `json:"requested_at"`
}

// SubscriptionMetadata procedencia de los cambios de la suscripción.
type SubscriptionMetadata struct {
	PreviousPlan         string           `json:"previous_plan,omitempty"`
	CouponCode           string           `json:"coupon_code,omitempty"`
	DiscountAmount       *decimal.Decimal `json:"discount_amount,omitempty"`
	OriginalPrice        *decimal.Decimal `json:"original_price,omitempty"`
	PaymentID            string           `json:"payment_id,omitempty"`
	UpgradedFrom         string           `json:"upgraded_from,omitempty"`
	UpgradeDate          *time.Time       `json:"upgrade_date,omitempty"`
	ProratedAmount       *decimal.Decimal `json:"prorated_amount,omitempty"`
	DowngradedFrom       string           `json:"downgraded_from,omitempty"`
	CancellationFeedback string           `json:"cancellation_feedback,omitempty"`
	RenewalCount         int              `json:"renewal_count,omitempty"`
	LastRenewedAt        *time.Time       `json:"last_renewed_at,omitempty"`
}
