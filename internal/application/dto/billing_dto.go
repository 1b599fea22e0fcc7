package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// SubscribeRequest body para POST /api/billing/subscribe.
type SubscribeRequest struct {
	PlanID        string `json:"plan_id" validate:"required,uuid"`
	BillingCycle  string `json:"billing_cycle" validate:"required,oneof=monthly yearly"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=credit_card pix boleto"`
	CouponCode    string `json:"coupon_code" validate:"omitempty,max=50"`
}

// UpgradeRequest body para POST /api/billing/upgrade. Prorate nil = sin cobro proporcional.
type UpgradeRequest struct {
	PlanID  string `json:"plan_id" validate:"required,uuid"`
	Prorate *bool  `json:"prorate"`
}

// DowngradeRequest body para POST /api/billing/downgrade.
type DowngradeRequest struct {
	PlanID string `json:"plan_id" validate:"required,uuid"`
}

// CancelRequest body para POST /api/billing/cancel.
type CancelRequest struct {
	Reason   string `json:"reason" validate:"omitempty,max=500"`
	Feedback string `json:"feedback" validate:"omitempty,max=1000"`
}

// InvoiceListRequest query de GET /api/billing/invoices.
type InvoiceListRequest struct {
	Status    string `query:"status" validate:"omitempty,oneof=pending paid"`
	StartDate string `query:"start_date"` // YYYY-MM-DD
	EndDate   string `query:"end_date"`   // YYYY-MM-DD, inclusive
	PageRequest
}

// ── Responses ─────────────────────────────────────────────────────────────────

// PlanResponse plan en respuestas. Límites nil = ilimitado.
type PlanResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	PriceMonthly   decimal.Decimal `json:"price_monthly"`
	PriceYearly    decimal.Decimal `json:"price_yearly"`
	UserLimit      *int            `json:"user_limit"`
	ProductLimit   *int            `json:"product_limit"`
	StorageLimitMB *int            `json:"storage_limit_mb"`
	Features       []string        `json:"features"`
}

// PendingDowngradeResponse downgrade programado para el próximo ciclo.
type PendingDowngradeResponse struct {
	FromPlanID    string    `json:"from_plan"`
	ToPlanID      string    `json:"to_plan"`
	ToPlanCode    string    `json:"to_plan_code"`
	EffectiveDate time.Time `json:"effective_date"`
	RequestedAt   time.Time `json:"requested_at"`
}

// SubscriptionResponse suscripción en respuestas.
type SubscriptionResponse struct {
	ID                 string                      `json:"id"`
	CompanyID          string                      `json:"company_id"`
	PlanID             string                      `json:"plan_id"`
	BillingCycle       string                      `json:"billing_cycle"`
	Status             string                      `json:"status"`
	Price              decimal.Decimal             `json:"price"`
	PaymentMethod      string                      `json:"payment_method"`
	StartsAt           time.Time                   `json:"starts_at"`
	NextBillingDate    time.Time                   `json:"next_billing_date"`
	AutoRenew          bool                        `json:"auto_renew"`
	CancelledAt        *time.Time                  `json:"cancelled_at"`
	CancellationReason string                      `json:"cancellation_reason,omitempty"`
	PendingDowngrade   *PendingDowngradeResponse   `json:"pending_downgrade"`
	Metadata           entity.SubscriptionMetadata `json:"metadata"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

// InvoiceItemResponse línea de factura.
type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse factura de suscripción.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	SubscriptionID string                `json:"subscription_id"`
	Number         string                `json:"invoice_number"`
	Amount         decimal.Decimal       `json:"amount"`
	Tax            decimal.Decimal       `json:"tax_amount"`
	Total          decimal.Decimal       `json:"total_amount"`
	Currency       string                `json:"currency"`
	Status         string                `json:"status"`
	DueDate        time.Time             `json:"due_date"`
	PaidAt         *time.Time            `json:"paid_at"`
	PaymentID      string                `json:"payment_id,omitempty"`
	Items          []InvoiceItemResponse `json:"items"`
	CreatedAt      time.Time             `json:"created_at"`
}

// SubscribeResponse resultado de POST /api/billing/subscribe.
type SubscribeResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
	Invoice      InvoiceResponse      `json:"invoice"`
	Plan         PlanResponse         `json:"plan"`
}

// UpgradeResponse resultado de POST /api/billing/upgrade. Invoice es nil si no hubo cobro.
type UpgradeResponse struct {
	Subscription     SubscriptionResponse `json:"subscription"`
	NewPlan          PlanResponse         `json:"new_plan"`
	AdditionalAmount decimal.Decimal      `json:"additional_amount"`
	Invoice          *InvoiceResponse     `json:"invoice,omitempty"`
}

// DowngradeResponse resultado de POST /api/billing/downgrade.
type DowngradeResponse struct {
	Subscription     SubscriptionResponse     `json:"subscription"`
	NewPlan          PlanResponse             `json:"new_plan"`
	EffectiveDate    time.Time                `json:"effective_date"`
	PendingDowngrade PendingDowngradeResponse `json:"pending_downgrade"`
}

// CancelResponse resultado de POST /api/billing/cancel.
type CancelResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
	CancelledAt  time.Time            `json:"cancelled_at"`
	ActiveUntil  time.Time            `json:"active_until"`
}

// RenewResponse resultado de una renovación (factura pendiente).
type RenewResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
	Invoice      InvoiceResponse      `json:"invoice"`
}

// CompanyStatusResponse estado de acceso de la empresa.
type CompanyStatusResponse struct {
	IsActive           bool       `json:"is_active"`
	Status             string     `json:"status"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at"`
	DaysRemaining      int        `json:"days_remaining"`
}

// UsageItemResponse uso de un recurso; Limit nil = ilimitado.
type UsageItemResponse struct {
	Current    decimal.Decimal `json:"current"`
	Limit      *int            `json:"limit"`
	Percentage decimal.Decimal `json:"percentage"`
}

// UsageResponse uso de los recursos limitados.
type UsageResponse struct {
	Users    UsageItemResponse `json:"users"`
	Products UsageItemResponse `json:"products"`
	Storage  UsageItemResponse `json:"storage"`
}

// BillingInfoResponse próxima facturación.
type BillingInfoResponse struct {
	NextBillingDate  *time.Time                `json:"next_billing_date"`
	DaysUntilBilling int                       `json:"days_until_billing"`
	AutoRenew        bool                      `json:"auto_renew"`
	PendingDowngrade *PendingDowngradeResponse `json:"pending_downgrade"`
}

// BillingOverviewResponse respuesta de GET /api/billing.
type BillingOverviewResponse struct {
	Subscription   *SubscriptionResponse `json:"subscription"`
	CurrentPlan    PlanResponse          `json:"current_plan"`
	CompanyStatus  CompanyStatusResponse `json:"company_status"`
	Usage          UsageResponse         `json:"usage"`
	RecentInvoices []InvoiceResponse     `json:"recent_invoices"`
	BillingInfo    BillingInfoResponse   `json:"billing_info"`
}

// PlansResponse respuesta de GET /api/billing/plans.
type PlansResponse struct {
	Plans       []PlanResponse `json:"plans"`
	CurrentPlan string         `json:"current_plan"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// InvoiceDetailResponse factura con su suscripción y plan.
type InvoiceDetailResponse struct {
	Invoice      InvoiceResponse       `json:"invoice"`
	Subscription *SubscriptionResponse `json:"subscription"`
	Plan         *PlanResponse         `json:"plan"`
}

// WebhookResponse acuse de un webhook de gateway.
type WebhookResponse struct {
	Received bool   `json:"received"`
	Gateway  string `json:"gateway"`
}
