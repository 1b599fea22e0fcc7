package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const companyID = "11111111-1111-1111-1111-111111111111"

var now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func intPtr(n int) *int { return &n }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func boolPtr(b bool) *bool { return &b }

func plans() *planRepo {
	return &planRepo{plans: []*entity.Plan{
		{ID: "p-starter", Code: entity.PlanStarter, Name: "Starter", Active: true,
			PriceMonthly: dec("29.90"), PriceYearly: dec("299.00"),
			UserLimit: intPtr(1), ProductLimit: intPtr(100), StorageLimitMB: intPtr(100)},
		{ID: "p-pro", Code: entity.PlanPro, Name: "Pro", Active: true,
			PriceMonthly: dec("89.90"), PriceYearly: dec("899.00"),
			UserLimit: intPtr(3), ProductLimit: intPtr(500), StorageLimitMB: intPtr(500)},
		{ID: "p-business", Code: entity.PlanBusiness, Name: "Business", Active: true,
			PriceMonthly: dec("199.90"), PriceYearly: dec("1999.00"),
			StorageLimitMB: intPtr(2000)},
		{ID: "p-legacy", Code: "legacy", Name: "Legacy", Active: false,
			PriceMonthly: dec("9.90"), PriceYearly: dec("99.00")},
	}}
}

// trialStore empresa recién registrada: plan starter, trial de 14 días, sin suscripción.
func trialStore() *store {
	endsAt := now.AddDate(0, 0, 14)
	return &store{company: &entity.Company{
		ID: companyID, Name: "Loja Teste", Active: true,
		PlanID: "p-starter", SubscriptionEndsAt: &endsAt,
	}}
}

// subscribedStore empresa con suscripción activa a planID y next a days días.
func subscribedStore(planID string, price string, days int) *store {
	st := trialStore()
	next := now.AddDate(0, 0, days)
	st.company.PlanID = planID
	st.company.SubscriptionEndsAt = &next
	st.sub = &entity.Subscription{
		ID: "sub-1", CompanyID: companyID, PlanID: planID,
		BillingCycle: entity.CycleMonthly, Status: entity.SubscriptionActive,
		Price: dec(price), PaymentMethod: entity.PaymentPix,
		StartsAt: now.AddDate(0, -1, 0), NextBillingDate: next, AutoRenew: true,
	}
	return st
}

type harness struct {
	st      *store
	gateway *fakeGateway
	metrics *recordingMetrics
	uc      *billing.SubscriptionUseCase
	ctx     context.Context
}

func newHarness(st *store) *harness {
	h := &harness{st: st, gateway: &fakeGateway{}, metrics: &recordingMetrics{}}
	h.uc = billing.NewSubscriptionUseCase(&billingTx{st: st}, plans(), h.gateway, h.metrics, logger.Nop(), "BRL").
		WithClock(func() time.Time { return now })
	h.ctx = tenant.WithCompany(context.Background(), companyID)
	return h
}

// ──────────────────────────────────────────────────────────────────────────────
// Subscribe
// ──────────────────────────────────────────────────────────────────────────────

func TestSubscribe_FromTrialWithCoupon(t *testing.T) {
	h := newHarness(trialStore())

	out, err := h.uc.Subscribe(h.ctx, dto.SubscribeRequest{
		PlanID: "p-pro", BillingCycle: "monthly", PaymentMethod: "credit_card", CouponCode: "welcome10",
	})
	require.NoError(t, err)

	assert.True(t, dec("80.91").Equal(out.Subscription.Price), "89.90 con 10%% de descuento")
	assert.Equal(t, "active", out.Subscription.Status)
	assert.Equal(t, now.AddDate(0, 1, 0), out.Subscription.NextBillingDate)
	assert.True(t, out.Subscription.AutoRenew)
	assert.Equal(t, "WELCOME10", out.Subscription.Metadata.CouponCode)
	assert.Equal(t, "p-starter", out.Subscription.Metadata.PreviousPlan)
	require.NotNil(t, out.Subscription.Metadata.DiscountAmount)
	assert.True(t, dec("8.99").Equal(*out.Subscription.Metadata.DiscountAmount))
	assert.Equal(t, "txn-80.91", out.Subscription.Metadata.PaymentID)

	assert.Equal(t, "INV-20260501-0001", out.Invoice.Number)
	assert.Equal(t, "paid", out.Invoice.Status)
	assert.Equal(t, "BRL", out.Invoice.Currency)
	require.Len(t, out.Invoice.Items, 1)
	assert.Equal(t, "Plano Pro (monthly)", out.Invoice.Items[0].Description)

	assert.Equal(t, "p-pro", h.st.company.PlanID)
	require.NotNil(t, h.st.company.SubscriptionEndsAt)
	assert.Equal(t, now.AddDate(0, 1, 0), *h.st.company.SubscriptionEndsAt)
	require.Len(t, h.st.payments, 1)
	assert.Equal(t, entity.PurposeSubscribe, h.st.payments[0].Purpose)
	assert.Equal(t, out.Invoice.ID, h.st.payments[0].InvoiceID)
	assert.Equal(t, []string{"subscribe:success"}, h.metrics.ops)
}

func TestSubscribe_InvoiceNumbersAreSequentialPerDay(t *testing.T) {
	h := newHarness(trialStore())
	h.st.invoices = []*entity.Invoice{
		{ID: "old-1", Number: "INV-20260501-0001", CreatedAt: now.Add(-time.Hour)},
		{ID: "old-2", Number: "INV-20260430-0001", CreatedAt: now.AddDate(0, 0, -1)},
	}

	out, err := h.uc.Subscribe(h.ctx, dto.SubscribeRequest{PlanID: "p-business", BillingCycle: "yearly", PaymentMethod: "boleto"})
	require.NoError(t, err)
	assert.Equal(t, "INV-20260501-0002", out.Invoice.Number)
	assert.True(t, dec("1999.00").Equal(out.Invoice.Total))
	assert.Equal(t, now.AddDate(1, 0, 0), out.Subscription.NextBillingDate)
}

func TestSubscribe_InvalidCouponIsFieldError(t *testing.T) {
	for _, code := range []string{"NOPE", "UPGRADE15"} {
		t.Run(code, func(t *testing.T) {
			h := newHarness(trialStore())
			_, err := h.uc.Subscribe(h.ctx, dto.SubscribeRequest{
				PlanID: "p-pro", BillingCycle: "monthly", PaymentMethod: "pix", CouponCode: code,
			})
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, "coupon_code")
			assert.Empty(t, h.gateway.calls)
			assert.Nil(t, h.st.sub)
		})
	}
}

func TestSubscribe_UnknownOrInactivePlan(t *testing.T) {
	for _, id := range []string{"p-missing", "p-legacy"} {
		h := newHarness(trialStore())
		_, err := h.uc.Subscribe(h.ctx, dto.SubscribeRequest{PlanID: id, BillingCycle: "monthly", PaymentMethod: "pix"})
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr), id)
		assert.Contains(t, verr.Fields, "plan_id")
	}
}

func TestSubscribe_SamePlanWhileActiveRejected(t *testing.T) {
	h := newHarness(subscribedStore("p-pro", "89.90", 10))
	_, err := h.uc.Subscribe(h.ctx, dto.SubscribeRequest{PlanID: "p-pro", BillingCycle: "monthly", PaymentMethod: "pix"})
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
	assert.Empty(t, h.gateway.calls)
	assert.Equal(t, []string{"subscribe:rejected"}, h.metrics.ops)
}

func TestSubscribe_TrialEnElMismoPlanRechazado(t *testing.T) {
	h := newHarness(trialStore())
	_, err := h.uc.Subscribe(h.ctx, dto.SubscribeRequest{PlanID: "p-starter", BillingCycle: "monthly", PaymentMethod: "pix"})
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
	assert.Empty(t, h.gateway.calls)
	assert.Nil(t, h.st.sub)
}

func TestSubscribe_CanceladoConAccesoEnElMismoPlanRechazado(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 20)
	st.sub.Status = entity.SubscriptionCancelled
	h := newHarness(st)
	_, err := h.uc.Subscribe(h.ctx, dto.SubscribeRequest{PlanID: "p-pro", BillingCycle: "monthly", PaymentMethod: "pix"})
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
}

func TestSubscribe_AfterCancelReusesSubscriptionAndKeepsLaterBillingDate(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 40)
	st.sub.Status = entity.SubscriptionCancelled
	h := newHarness(st)

	out, err := h.uc.Subscribe(h.ctx, dto.SubscribeRequest{PlanID: "p-business", BillingCycle: "monthly", PaymentMethod: "pix"})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", out.Subscription.ID)
	assert.Equal(t, now.AddDate(0, 0, 40), out.Subscription.NextBillingDate, "no retrocede")
	assert.Nil(t, out.Subscription.CancelledAt)
}

func TestSubscribe_DeclinedPaymentLeavesNoTrace(t *testing.T) {
	h := newHarness(trialStore())
	h.gateway.decline = true

	_, err := h.uc.Subscribe(h.ctx, dto.SubscribeRequest{PlanID: "p-pro", BillingCycle: "monthly", PaymentMethod: "credit_card"})
	var perr *domain.PaymentError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "cartão recusado", perr.Message)

	assert.Nil(t, h.st.sub)
	assert.Empty(t, h.st.invoices)
	assert.Empty(t, h.st.payments)
	assert.Equal(t, "p-starter", h.st.company.PlanID)
	assert.Equal(t, []string{"credit_card:declined"}, h.metrics.payments)
	assert.Equal(t, []string{"subscribe:payment_failed"}, h.metrics.ops)
}

func TestSubscribe_GatewayErrorIsWrapped(t *testing.T) {
	h := newHarness(trialStore())
	h.gateway.err = errors.New("timeout")

	_, err := h.uc.Subscribe(h.ctx, dto.SubscribeRequest{PlanID: "p-pro", BillingCycle: "monthly", PaymentMethod: "pix"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	assert.Nil(t, h.st.sub)
	assert.Equal(t, []string{"subscribe:error"}, h.metrics.ops)
}

func TestSubscribe_WithoutTenantFails(t *testing.T) {
	h := newHarness(trialStore())
	_, err := h.uc.Subscribe(context.Background(), dto.SubscribeRequest{PlanID: "p-pro", BillingCycle: "monthly", PaymentMethod: "pix"})
	assert.ErrorIs(t, err, tenant.ErrNoTenant)
}

// ──────────────────────────────────────────────────────────────────────────────
// Upgrade
// ──────────────────────────────────────────────────────────────────────────────

func TestUpgrade_ProratesRemainingDays(t *testing.T) {
	h := newHarness(subscribedStore("p-starter", "29.90", 15))

	out, err := h.uc.Upgrade(h.ctx, dto.UpgradeRequest{PlanID: "p-pro", Prorate: boolPtr(true)})
	require.NoError(t, err)

	// (89.90 - 29.90) × 15 / 30
	assert.True(t, dec("30.00").Equal(out.AdditionalAmount), out.AdditionalAmount.String())
	require.NotNil(t, out.Invoice)
	assert.Equal(t, "paid", out.Invoice.Status)
	assert.Equal(t, "Upgrade para Plano Pro (proporcional)", out.Invoice.Items[0].Description)
	assert.Equal(t, "p-pro", out.Subscription.PlanID)
	assert.True(t, dec("89.90").Equal(out.Subscription.Price))
	assert.Equal(t, entity.PlanStarter, out.Subscription.Metadata.UpgradedFrom)
	assert.Equal(t, now.AddDate(0, 0, 15), out.Subscription.NextBillingDate, "el ciclo no cambia")

	assert.Equal(t, "p-pro", h.st.company.PlanID)
	require.Len(t, h.st.payments, 1)
	assert.Equal(t, entity.PaymentPix, h.st.payments[0].Method, "usa el método guardado")
	assert.Equal(t, entity.PurposeUpgrade, h.st.payments[0].Purpose)
}

func TestUpgrade_WithoutProrateChargesNothing(t *testing.T) {
	h := newHarness(subscribedStore("p-starter", "29.90", 15))

	out, err := h.uc.Upgrade(h.ctx, dto.UpgradeRequest{PlanID: "p-business", Prorate: boolPtr(false)})
	require.NoError(t, err)
	assert.True(t, out.AdditionalAmount.IsZero())
	assert.Nil(t, out.Invoice)
	assert.Empty(t, h.gateway.calls)
	assert.Empty(t, h.st.invoices)
	assert.Equal(t, "p-business", h.st.sub.PlanID)
}

func TestUpgrade_ProrateOmitidoNoCobra(t *testing.T) {
	h := newHarness(subscribedStore("p-starter", "29.90", 15))

	out, err := h.uc.Upgrade(h.ctx, dto.UpgradeRequest{PlanID: "p-pro"})
	require.NoError(t, err)
	assert.True(t, out.AdditionalAmount.IsZero(), "sin prorate explícito no hay cargo")
	assert.Nil(t, out.Invoice)
	assert.Empty(t, h.gateway.calls)
	assert.Empty(t, h.st.payments)
	assert.Equal(t, "p-pro", h.st.company.PlanID, "el cambio de plan es inmediato")
}

func TestUpgrade_ClearsPendingDowngrade(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 10)
	st.sub.PendingDowngrade = &entity.PendingDowngrade{ToPlanID: "p-starter"}
	h := newHarness(st)

	_, err := h.uc.Upgrade(h.ctx, dto.UpgradeRequest{PlanID: "p-business"})
	require.NoError(t, err)
	assert.Nil(t, h.st.sub.PendingDowngrade)
}

func TestUpgrade_Rejections(t *testing.T) {
	t.Run("sin suscripción", func(t *testing.T) {
		h := newHarness(trialStore())
		_, err := h.uc.Upgrade(h.ctx, dto.UpgradeRequest{PlanID: "p-pro"})
		assert.ErrorIs(t, err, domain.ErrNoSubscription)
	})
	t.Run("plan más barato", func(t *testing.T) {
		h := newHarness(subscribedStore("p-pro", "89.90", 10))
		_, err := h.uc.Upgrade(h.ctx, dto.UpgradeRequest{PlanID: "p-starter"})
		assert.ErrorIs(t, err, domain.ErrNotAnUpgrade)
	})
	t.Run("pago rechazado no cambia el plan", func(t *testing.T) {
		h := newHarness(subscribedStore("p-starter", "29.90", 15))
		h.gateway.decline = true
		_, err := h.uc.Upgrade(h.ctx, dto.UpgradeRequest{PlanID: "p-pro", Prorate: boolPtr(true)})
		var perr *domain.PaymentError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "p-starter", h.st.sub.PlanID)
		assert.Equal(t, "p-starter", h.st.company.PlanID)
		assert.Empty(t, h.st.invoices)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Downgrade y cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestDowngrade_IsDeferredToNextCycle(t *testing.T) {
	h := newHarness(subscribedStore("p-pro", "89.90", 12))

	out, err := h.uc.Downgrade(h.ctx, dto.DowngradeRequest{PlanID: "p-starter"})
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 12), out.EffectiveDate)
	assert.Equal(t, "p-starter", out.PendingDowngrade.ToPlanID)
	assert.Equal(t, "p-pro", h.st.sub.PlanID, "el plan actual sigue vigente")
	assert.Equal(t, "p-pro", h.st.company.PlanID)
	require.NotNil(t, h.st.sub.PendingDowngrade)
}

func TestDowngrade_UsageAboveTargetLimits(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 12)
	st.usage = entity.Usage{Users: 2, Products: 150, StorageMB: dec("10")}
	h := newHarness(st)

	_, err := h.uc.Downgrade(h.ctx, dto.DowngradeRequest{PlanID: "p-starter"})
	var uerr *domain.UsageError
	require.True(t, errors.As(err, &uerr))
	assert.ElementsMatch(t, []string{"users", "products"}, uerr.Resources)
	assert.Nil(t, h.st.sub.PendingDowngrade)
}

func TestDowngrade_ToMoreExpensivePlanRejected(t *testing.T) {
	h := newHarness(subscribedStore("p-pro", "89.90", 12))
	_, err := h.uc.Downgrade(h.ctx, dto.DowngradeRequest{PlanID: "p-business"})
	assert.ErrorIs(t, err, domain.ErrNotADowngrade)
}

func TestCancel_KeepsAccessUntilNextBilling(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 20)
	st.sub.PendingDowngrade = &entity.PendingDowngrade{ToPlanID: "p-starter"}
	h := newHarness(st)

	out, err := h.uc.Cancel(h.ctx, dto.CancelRequest{Reason: "caro", Feedback: "volveré"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Subscription.Status)
	assert.False(t, out.Subscription.AutoRenew)
	assert.Equal(t, now, out.CancelledAt)
	assert.Equal(t, now.AddDate(0, 0, 20), out.ActiveUntil)
	assert.Equal(t, "caro", h.st.sub.CancellationReason)
	assert.Equal(t, "volveré", h.st.sub.Metadata.CancellationFeedback)
	assert.Nil(t, h.st.sub.PendingDowngrade)
	assert.Equal(t, now.AddDate(0, 0, 20), *h.st.company.SubscriptionEndsAt)

	_, err = h.uc.Cancel(h.ctx, dto.CancelRequest{})
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

func TestCancel_WithoutSubscription(t *testing.T) {
	h := newHarness(trialStore())
	_, err := h.uc.Cancel(h.ctx, dto.CancelRequest{})
	assert.ErrorIs(t, err, domain.ErrNoSubscription)
}

// ──────────────────────────────────────────────────────────────────────────────
// Renovación y pago de facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestRenew_NotDue(t *testing.T) {
	h := newHarness(subscribedStore("p-pro", "89.90", 3))
	_, err := h.uc.Renew(h.ctx)
	assert.ErrorIs(t, err, domain.ErrRenewalNotDue)
	assert.Empty(t, h.st.invoices)
}

func TestRenew_AutoRenewDisabled(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", -1)
	st.sub.AutoRenew = false
	h := newHarness(st)
	_, err := h.uc.Renew(h.ctx)
	assert.ErrorIs(t, err, domain.ErrAutoRenewDisabled)
}

func TestRenew_AdvancesCycleAndIssuesPendingInvoice(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 0)
	st.sub.NextBillingDate = now.Add(-time.Hour)
	h := newHarness(st)

	out, err := h.uc.Renew(h.ctx)
	require.NoError(t, err)

	next := now.Add(-time.Hour).AddDate(0, 1, 0)
	assert.Equal(t, next, out.Subscription.NextBillingDate)
	assert.Equal(t, "pending", out.Invoice.Status)
	assert.Equal(t, next, out.Invoice.DueDate)
	assert.True(t, dec("89.90").Equal(out.Invoice.Total))
	assert.Equal(t, "Renovação do Plano Pro (monthly)", out.Invoice.Items[0].Description)
	assert.Equal(t, 1, h.st.sub.Metadata.RenewalCount)
	assert.Equal(t, now, *h.st.company.SubscriptionEndsAt, "con la factura pendiente el acceso no se extiende")
	assert.Empty(t, h.gateway.calls, "la renovación no cobra")
}

func TestRenew_LongOverdueAdvancesFromNow(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 0)
	st.sub.NextBillingDate = now.AddDate(0, -3, 0)
	h := newHarness(st)

	out, err := h.uc.Renew(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 1, 0), out.Subscription.NextBillingDate)
}

func TestRenew_AppliesPendingDowngrade(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 0)
	st.sub.NextBillingDate = now.Add(-time.Minute)
	st.sub.PendingDowngrade = &entity.PendingDowngrade{FromPlanID: "p-pro", ToPlanID: "p-starter", ToPlanCode: entity.PlanStarter}
	h := newHarness(st)

	out, err := h.uc.Renew(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, "p-starter", out.Subscription.PlanID)
	assert.Nil(t, out.Subscription.PendingDowngrade)
	assert.Equal(t, entity.PlanPro, out.Subscription.Metadata.DowngradedFrom)
	assert.True(t, dec("29.90").Equal(out.Invoice.Total))
	assert.Equal(t, "Renovação do Plano Starter (monthly)", out.Invoice.Items[0].Description)
	assert.Equal(t, "p-starter", h.st.company.PlanID)
}

func TestPayInvoice_PendingToPaid(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 0)
	st.sub.NextBillingDate = now.Add(-time.Minute)
	h := newHarness(st)
	renewed, err := h.uc.Renew(h.ctx)
	require.NoError(t, err)

	paid, err := h.uc.PayInvoice(h.ctx, renewed.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, h.st.company.SubscriptionEndsAt)
	assert.Equal(t, renewed.Invoice.DueDate, *h.st.company.SubscriptionEndsAt, "pagar la renovación extiende el acceso")
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, "txn-89.90", paid.PaymentID)
	require.Len(t, h.st.payments, 1)
	assert.Equal(t, entity.PurposeRenewal, h.st.payments[0].Purpose)
	assert.Equal(t, renewed.Invoice.ID, h.st.payments[0].InvoiceID)

	_, err = h.uc.PayInvoice(h.ctx, renewed.Invoice.ID)
	assert.ErrorIs(t, err, domain.ErrInvoiceAlreadyPaid)

	_, err = h.uc.PayInvoice(h.ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPayInvoice_FacturaViejaNoAcortaAcceso(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 20)
	endsAt := *st.company.SubscriptionEndsAt
	st.invoices = []*entity.Invoice{
		{ID: "inv-old", CompanyID: companyID, SubscriptionID: "sub-1", Number: "INV-20260401-0001",
			Amount: dec("89.90"), Total: dec("89.90"), Status: entity.InvoicePending,
			DueDate: now.AddDate(0, 0, -10), CreatedAt: now.AddDate(0, -1, 0)},
		{ID: "inv-manual", CompanyID: companyID, Number: "INV-20260401-0002",
			Amount: dec("10.00"), Total: dec("10.00"), Status: entity.InvoicePending,
			DueDate: now.AddDate(0, 3, 0), CreatedAt: now.AddDate(0, -1, 0)},
	}
	h := newHarness(st)

	_, err := h.uc.PayInvoice(h.ctx, "inv-old")
	require.NoError(t, err)
	assert.Equal(t, endsAt, *h.st.company.SubscriptionEndsAt, "un vencimiento anterior no acorta el acceso")

	_, err = h.uc.PayInvoice(h.ctx, "inv-manual")
	require.NoError(t, err)
	assert.Equal(t, endsAt, *h.st.company.SubscriptionEndsAt, "una factura ajena a la suscripción no extiende el acceso")
}

func TestPayInvoice_DeclineKeepsInvoicePending(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 10)
	st.invoices = []*entity.Invoice{{
		ID: "inv-1", CompanyID: companyID, Number: "INV-20260501-0001",
		Amount: dec("89.90"), Total: dec("89.90"), Status: entity.InvoicePending, CreatedAt: now,
	}}
	h := newHarness(st)
	h.gateway.decline = true

	_, err := h.uc.PayInvoice(h.ctx, "inv-1")
	var perr *domain.PaymentError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, entity.InvoicePending, h.st.invoices[0].Status)
	assert.Empty(t, h.st.payments)
}
