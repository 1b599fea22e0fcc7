package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/subscription"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

// Operaciones registradas en métricas y logs.
const (
	OpSubscribe   = "subscribe"
	OpUpgrade     = "upgrade"
	OpDowngrade   = "downgrade"
	OpCancel      = "cancel"
	OpRenew       = "renew"
	OpPayInvoice  = "pay_invoice"
	freePaymentID = "FREE-"
)

// SubscriptionUseCase transiciones del ciclo de vida de la suscripción del tenant del contexto.
// Cada operación corre en una transacción que bloquea la fila de la empresa antes de leer la suscripción.
type SubscriptionUseCase struct {
	tx       TxRunner
	plans    repository.PlanRepository
	gateway  PaymentGateway
	metrics  Metrics
	log      *logger.Logger
	currency string
	now      func() time.Time
}

// NewSubscriptionUseCase construye el caso de uso inyectando sus dependencias.
func NewSubscriptionUseCase(
	tx TxRunner,
	plans repository.PlanRepository,
	gateway PaymentGateway,
	metrics Metrics,
	log *logger.Logger,
	currency string,
) *SubscriptionUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SubscriptionUseCase{
		tx:       tx,
		plans:    plans,
		gateway:  gateway,
		metrics:  metrics,
		log:      log.Component("billing"),
		currency: currency,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *SubscriptionUseCase) WithClock(now func() time.Time) *SubscriptionUseCase {
	uc.now = now
	return uc
}

// Subscribe suscribe al tenant a un plan: cotiza (cupón opcional), cobra, guarda la suscripción,
// actualiza la empresa y emite una factura pagada. Si el cobro falla no queda nada escrito.
func (uc *SubscriptionUseCase) Subscribe(ctx context.Context, in dto.SubscribeRequest) (*dto.SubscribeResponse, error) {
	now := uc.now()
	plan, err := uc.targetPlan(ctx, in.PlanID)
	if err != nil {
		return nil, uc.fail(ctx, OpSubscribe, err)
	}
	cycle := entity.BillingCycle(in.BillingCycle)
	if !cycle.Valid() {
		return nil, uc.fail(ctx, OpSubscribe, domain.NewValidationError("billing_cycle", "ciclo de facturación inválido"))
	}
	if !entity.ValidSubscriptionPaymentMethod(in.PaymentMethod) {
		return nil, uc.fail(ctx, OpSubscribe, domain.NewValidationError("payment_method", "método de pago no aceptado"))
	}
	var coupon *subscription.Coupon
	if code := strings.TrimSpace(in.CouponCode); code != "" {
		c, err := subscription.LookupCoupon(code, plan.Code)
		if err != nil {
			return nil, uc.fail(ctx, OpSubscribe, domain.NewValidationError("coupon_code", err.Error()))
		}
		coupon = &c
	}
	quote := subscription.QuotePrice(plan, cycle, coupon)

	var out *dto.SubscribeResponse
	err = uc.tx.RunBilling(ctx, func(
		companyRepo repository.CompanyRepository,
		subRepo repository.SubscriptionRepository,
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
		_ repository.UsageRepository,
	) error {
		company, current, err := lockTenant(ctx, companyRepo, subRepo)
		if err != nil {
			return err
		}
		if err := subscription.CheckSubscribe(company, current, plan, now); err != nil {
			return err
		}

		paymentID, payment, err := uc.charge(ctx, quote.FinalPrice, in.PaymentMethod, entity.PurposeSubscribe, now)
		if err != nil {
			return err
		}

		sub := current
		if sub == nil {
			sub = &entity.Subscription{ID: uuid.New().String(), CompanyID: company.ID, CreatedAt: now}
		}
		sub.PlanID = plan.ID
		sub.BillingCycle = cycle
		sub.Status = entity.SubscriptionActive
		sub.Price = quote.FinalPrice
		sub.PaymentMethod = in.PaymentMethod
		sub.StartsAt = now
		sub.NextBillingDate = subscription.NextBillingAfterChange(current, cycle.Advance(now))
		sub.AutoRenew = true
		sub.CancelledAt = nil
		sub.CancellationReason = ""
		sub.PendingDowngrade = nil
		sub.Metadata = entity.SubscriptionMetadata{
			PreviousPlan: company.PlanID,
			CouponCode:   quote.CouponCode,
			PaymentID:    paymentID,
		}
		if coupon != nil {
			discount, original := quote.Discount, quote.OriginalPrice
			sub.Metadata.DiscountAmount = &discount
			sub.Metadata.OriginalPrice = &original
		}
		sub.UpdatedAt = now
		if err := subRepo.Save(ctx, sub); err != nil {
			return err
		}

		endsAt := sub.NextBillingDate
		company.PlanID = plan.ID
		company.SubscriptionEndsAt = &endsAt
		company.UpdatedAt = now
		if err := companyRepo.Update(ctx, company); err != nil {
			return err
		}

		inv, err := uc.issueInvoice(ctx, invoiceRepo, invoiceDraft{
			subscriptionID: sub.ID,
			amount:         quote.FinalPrice,
			description:    fmt.Sprintf("Plano %s (%s)", plan.Name, cycle),
			status:         entity.InvoicePaid,
			dueDate:        now,
			paymentID:      paymentID,
		}, now)
		if err != nil {
			return err
		}
		if err := recordPayment(ctx, paymentRepo, payment, inv.ID); err != nil {
			return err
		}

		out = &dto.SubscribeResponse{
			Subscription: dto.NewSubscriptionResponse(sub),
			Invoice:      dto.NewInvoiceResponse(inv),
			Plan:         dto.NewPlanResponse(plan),
		}
		return nil
	})
	if err != nil {
		return nil, uc.fail(ctx, OpSubscribe, err)
	}
	uc.succeed(ctx, OpSubscribe, plan.Code, quote.FinalPrice)
	return out, nil
}

// Upgrade cambia a un plan más caro con efecto inmediato. Solo con prorate=true cobra la
// diferencia por los días restantes del ciclo y emite una factura pagada.
func (uc *SubscriptionUseCase) Upgrade(ctx context.Context, in dto.UpgradeRequest) (*dto.UpgradeResponse, error) {
	now := uc.now()
	target, err := uc.targetPlan(ctx, in.PlanID)
	if err != nil {
		return nil, uc.fail(ctx, OpUpgrade, err)
	}
	prorate := in.Prorate != nil && *in.Prorate

	var out *dto.UpgradeResponse
	err = uc.tx.RunBilling(ctx, func(
		companyRepo repository.CompanyRepository,
		subRepo repository.SubscriptionRepository,
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
		_ repository.UsageRepository,
	) error {
		company, current, err := lockTenant(ctx, companyRepo, subRepo)
		if err != nil {
			return err
		}
		currentPlan, err := uc.subscriptionPlan(ctx, current)
		if err != nil {
			return err
		}
		if err := subscription.CheckUpgrade(current, currentPlan, target); err != nil {
			return err
		}

		amount := decimal.Zero
		if prorate {
			days := subscription.DaysRemaining(current.NextBillingDate, now)
			amount = subscription.Prorate(currentPlan.PriceMonthly, target.PriceMonthly, days)
		}

		var invoice *dto.InvoiceResponse
		if amount.IsPositive() {
			paymentID, payment, err := uc.charge(ctx, amount, current.PaymentMethod, entity.PurposeUpgrade, now)
			if err != nil {
				return err
			}
			inv, err := uc.issueInvoice(ctx, invoiceRepo, invoiceDraft{
				subscriptionID: current.ID,
				amount:         amount,
				description:    fmt.Sprintf("Upgrade para Plano %s (proporcional)", target.Name),
				status:         entity.InvoicePaid,
				dueDate:        now,
				paymentID:      paymentID,
			}, now)
			if err != nil {
				return err
			}
			if err := recordPayment(ctx, paymentRepo, payment, inv.ID); err != nil {
				return err
			}
			resp := dto.NewInvoiceResponse(inv)
			invoice = &resp
		}

		upgradedAt := now
		current.PlanID = target.ID
		current.Price = target.Price(current.BillingCycle)
		current.PendingDowngrade = nil
		current.Metadata.UpgradedFrom = currentPlan.Code
		current.Metadata.UpgradeDate = &upgradedAt
		current.Metadata.ProratedAmount = &amount
		current.UpdatedAt = now
		if err := subRepo.Save(ctx, current); err != nil {
			return err
		}

		company.PlanID = target.ID
		company.UpdatedAt = now
		if err := companyRepo.Update(ctx, company); err != nil {
			return err
		}

		out = &dto.UpgradeResponse{
			Subscription:     dto.NewSubscriptionResponse(current),
			NewPlan:          dto.NewPlanResponse(target),
			AdditionalAmount: amount,
			Invoice:          invoice,
		}
		return nil
	})
	if err != nil {
		return nil, uc.fail(ctx, OpUpgrade, err)
	}
	uc.succeed(ctx, OpUpgrade, target.Code, out.AdditionalAmount)
	return out, nil
}

// Downgrade programa el cambio a un plan más barato para el próximo ciclo. El plan actual
// sigue vigente hasta nextBillingDate; la renovación aplica el cambio.
func (uc *SubscriptionUseCase) Downgrade(ctx context.Context, in dto.DowngradeRequest) (*dto.DowngradeResponse, error) {
	now := uc.now()
	target, err := uc.targetPlan(ctx, in.PlanID)
	if err != nil {
		return nil, uc.fail(ctx, OpDowngrade, err)
	}

	var out *dto.DowngradeResponse
	err = uc.tx.RunBilling(ctx, func(
		companyRepo repository.CompanyRepository,
		subRepo repository.SubscriptionRepository,
		_ repository.InvoiceRepository,
		_ repository.PaymentRepository,
		usageRepo repository.UsageRepository,
	) error {
		_, current, err := lockTenant(ctx, companyRepo, subRepo)
		if err != nil {
			return err
		}
		currentPlan, err := uc.subscriptionPlan(ctx, current)
		if err != nil {
			return err
		}
		usage, err := usageRepo.Usage(ctx)
		if err != nil {
			return err
		}
		if err := subscription.CheckDowngrade(current, currentPlan, target, usage); err != nil {
			return err
		}

		pending := entity.PendingDowngrade{
			FromPlanID:    currentPlan.ID,
			ToPlanID:      target.ID,
			ToPlanCode:    target.Code,
			EffectiveDate: current.NextBillingDate,
			RequestedAt:   now,
		}
		current.PendingDowngrade = &pending
		current.UpdatedAt = now
		if err := subRepo.Save(ctx, current); err != nil {
			return err
		}

		out = &dto.DowngradeResponse{
			Subscription:     dto.NewSubscriptionResponse(current),
			NewPlan:          dto.NewPlanResponse(target),
			EffectiveDate:    pending.EffectiveDate,
			PendingDowngrade: *dto.NewPendingDowngradeResponse(&pending),
		}
		return nil
	})
	if err != nil {
		return nil, uc.fail(ctx, OpDowngrade, err)
	}
	uc.succeed(ctx, OpDowngrade, target.Code, decimal.Zero)
	return out, nil
}

// Cancel cancela la suscripción. El acceso sigue hasta nextBillingDate.
func (uc *SubscriptionUseCase) Cancel(ctx context.Context, in dto.CancelRequest) (*dto.CancelResponse, error) {
	now := uc.now()

	var out *dto.CancelResponse
	err := uc.tx.RunBilling(ctx, func(
		companyRepo repository.CompanyRepository,
		subRepo repository.SubscriptionRepository,
		_ repository.InvoiceRepository,
		_ repository.PaymentRepository,
		_ repository.UsageRepository,
	) error {
		company, current, err := lockTenant(ctx, companyRepo, subRepo)
		if err != nil {
			return err
		}
		if err := subscription.CheckCancel(current); err != nil {
			return err
		}

		cancelledAt := now
		current.Status = entity.SubscriptionCancelled
		current.AutoRenew = false
		current.CancelledAt = &cancelledAt
		current.CancellationReason = strings.TrimSpace(in.Reason)
		current.Metadata.CancellationFeedback = strings.TrimSpace(in.Feedback)
		current.PendingDowngrade = nil
		current.UpdatedAt = now
		if err := subRepo.Save(ctx, current); err != nil {
			return err
		}

		activeUntil := current.NextBillingDate
		company.SubscriptionEndsAt = &activeUntil
		company.UpdatedAt = now
		if err := companyRepo.Update(ctx, company); err != nil {
			return err
		}

		out = &dto.CancelResponse{
			Subscription: dto.NewSubscriptionResponse(current),
			CancelledAt:  cancelledAt,
			ActiveUntil:  activeUntil,
		}
		return nil
	})
	if err != nil {
		return nil, uc.fail(ctx, OpCancel, err)
	}
	uc.succeed(ctx, OpCancel, "", decimal.Zero)
	return out, nil
}

// Renew avanza un ciclo desde nextBillingDate, aplica un downgrade pendiente y emite una
// factura pendiente. Lo invocan POST /billing/renew y el worker de renovaciones.
// subscription_ends_at no cambia hasta que se paga la factura.
func (uc *SubscriptionUseCase) Renew(ctx context.Context) (*dto.RenewResponse, error) {
	now := uc.now()

	var out *dto.RenewResponse
	var planCode string
	err := uc.tx.RunBilling(ctx, func(
		companyRepo repository.CompanyRepository,
		subRepo repository.SubscriptionRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.PaymentRepository,
		_ repository.UsageRepository,
	) error {
		company, current, err := lockTenant(ctx, companyRepo, subRepo)
		if err != nil {
			return err
		}
		if err := subscription.CheckRenew(current, now); err != nil {
			return err
		}
		plan, err := uc.subscriptionPlan(ctx, current)
		if err != nil {
			return err
		}

		planChanged := false
		if pd := current.PendingDowngrade; pd != nil {
			target, err := uc.plans.GetByID(ctx, pd.ToPlanID)
			if err != nil {
				return err
			}
			if target != nil {
				current.Metadata.DowngradedFrom = plan.Code
				current.PlanID = target.ID
				current.Price = target.Price(current.BillingCycle)
				company.PlanID = target.ID
				plan = target
				planChanged = true
			}
			current.PendingDowngrade = nil
		}

		next := current.BillingCycle.Advance(current.NextBillingDate)
		if !next.After(now) {
			next = current.BillingCycle.Advance(now)
		}
		renewedAt := now
		current.NextBillingDate = next
		current.Metadata.RenewalCount++
		current.Metadata.LastRenewedAt = &renewedAt
		current.UpdatedAt = now
		if err := subRepo.Save(ctx, current); err != nil {
			return err
		}

		// El acceso se extiende recién al pagar la factura (PayInvoice); aquí solo cambia el plan.
		if planChanged {
			company.UpdatedAt = now
			if err := companyRepo.Update(ctx, company); err != nil {
				return err
			}
		}

		inv, err := uc.issueInvoice(ctx, invoiceRepo, invoiceDraft{
			subscriptionID: current.ID,
			amount:         current.Price,
			description:    fmt.Sprintf("Renovação do Plano %s (%s)", plan.Name, current.BillingCycle),
			status:         entity.InvoicePending,
			dueDate:        next,
		}, now)
		if err != nil {
			return err
		}

		planCode = plan.Code
		out = &dto.RenewResponse{
			Subscription: dto.NewSubscriptionResponse(current),
			Invoice:      dto.NewInvoiceResponse(inv),
		}
		return nil
	})
	if err != nil {
		return nil, uc.fail(ctx, OpRenew, err)
	}
	uc.succeed(ctx, OpRenew, planCode, out.Invoice.Total)
	return out, nil
}

// PayInvoice cobra una factura pendiente con el método de la suscripción y la marca pagada.
func (uc *SubscriptionUseCase) PayInvoice(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	now := uc.now()

	var out *dto.InvoiceResponse
	err := uc.tx.RunBilling(ctx, func(
		companyRepo repository.CompanyRepository,
		subRepo repository.SubscriptionRepository,
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
		_ repository.UsageRepository,
	) error {
		company, current, err := lockTenant(ctx, companyRepo, subRepo)
		if err != nil {
			return err
		}
		inv, err := invoiceRepo.GetByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.IsPaid() {
			return domain.ErrInvoiceAlreadyPaid
		}

		method := entity.PaymentCreditCard
		if current != nil && current.PaymentMethod != "" {
			method = current.PaymentMethod
		}
		paymentID, payment, err := uc.charge(ctx, inv.Total, method, entity.PurposeRenewal, now)
		if err != nil {
			return err
		}
		if err := invoiceRepo.MarkPaid(ctx, inv.ID, paymentID, now); err != nil {
			return err
		}
		if err := recordPayment(ctx, paymentRepo, payment, inv.ID); err != nil {
			return err
		}
		if extendsAccess(company, current, inv) {
			endsAt := inv.DueDate
			company.SubscriptionEndsAt = &endsAt
			company.UpdatedAt = now
			if err := companyRepo.Update(ctx, company); err != nil {
				return err
			}
		}

		paidAt := now
		inv.Status = entity.InvoicePaid
		inv.PaidAt = &paidAt
		inv.PaymentID = paymentID
		inv.UpdatedAt = now
		resp := dto.NewInvoiceResponse(inv)
		out = &resp
		return nil
	})
	if err != nil {
		return nil, uc.fail(ctx, OpPayInvoice, err)
	}
	uc.succeed(ctx, OpPayInvoice, "", out.Total)
	return out, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// extendsAccess una factura de la suscripción vigente paga el ciclo que vence en DueDate.
// Nunca acorta el acceso: pagar una factura vieja después de otra más nueva no cambia nada.
func extendsAccess(company *entity.Company, current *entity.Subscription, inv *entity.Invoice) bool {
	if current == nil || inv.SubscriptionID != current.ID || inv.DueDate.IsZero() {
		return false
	}
	return company.SubscriptionEndsAt == nil || inv.DueDate.After(*company.SubscriptionEndsAt)
}

// lockTenant bloquea la empresa del scope y lee su suscripción vigente (puede ser nil).
func lockTenant(ctx context.Context, companyRepo repository.CompanyRepository, subRepo repository.SubscriptionRepository) (*entity.Company, *entity.Subscription, error) {
	company, err := companyRepo.CurrentForUpdate(ctx)
	if err != nil {
		return nil, nil, err
	}
	if company == nil {
		return nil, nil, domain.ErrNotFound
	}
	current, err := subRepo.Current(ctx)
	if err != nil {
		return nil, nil, err
	}
	return company, current, nil
}

// targetPlan plan elegido por el cliente; inexistente o inactivo es un error del campo plan_id.
func (uc *SubscriptionUseCase) targetPlan(ctx context.Context, id string) (*entity.Plan, error) {
	plan, err := uc.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.Active {
		return nil, domain.NewValidationError("plan_id", "el plan seleccionado no existe")
	}
	return plan, nil
}

// subscriptionPlan plan de la suscripción vigente. Sin suscripción activa es ErrNoSubscription.
func (uc *SubscriptionUseCase) subscriptionPlan(ctx context.Context, current *entity.Subscription) (*entity.Plan, error) {
	if current == nil || current.IsCancelled() {
		return nil, domain.ErrNoSubscription
	}
	plan, err := uc.plans.GetByID(ctx, current.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("plan %s de la suscripción: %w", current.PlanID, domain.ErrNotFound)
	}
	return plan, nil
}

// charge autoriza el cobro. Un monto cero no llama al gateway y devuelve un id FREE-.
func (uc *SubscriptionUseCase) charge(ctx context.Context, amount decimal.Decimal, method, purpose string, now time.Time) (string, *entity.Payment, error) {
	if !amount.IsPositive() {
		return freePaymentID + uuid.New().String(), nil, nil
	}
	res, err := uc.gateway.Authorize(ctx, amount, method)
	if err != nil {
		uc.metrics.PaymentAuthorization(method, "error")
		return "", nil, fmt.Errorf("authorize payment: %w", err)
	}
	if !res.Success {
		uc.metrics.PaymentAuthorization(method, "declined")
		uc.log.Warn().
			Str("company_id", companyOf(ctx)).
			Str("purpose", purpose).
			Str("method", method).
			Str("amount", amount.StringFixed(2)).
			Str("reason", res.Message).
			Msg("pago rechazado")
		return "", nil, &domain.PaymentError{Message: res.Message}
	}
	uc.metrics.PaymentAuthorization(method, "approved")
	return res.TransactionID, &entity.Payment{
		ID:            uuid.New().String(),
		TransactionID: res.TransactionID,
		Amount:        amount,
		Currency:      uc.currency,
		Method:        method,
		Status:        entity.PaymentCompleted,
		Purpose:       purpose,
		Simulated:     uc.gateway.Simulated(),
		CreatedAt:     now,
	}, nil
}

func recordPayment(ctx context.Context, paymentRepo repository.PaymentRepository, p *entity.Payment, invoiceID string) error {
	if p == nil {
		return nil
	}
	p.InvoiceID = invoiceID
	return paymentRepo.Create(ctx, p)
}

type invoiceDraft struct {
	subscriptionID string
	amount         decimal.Decimal
	description    string
	status         entity.InvoiceStatus
	dueDate        time.Time
	paymentID      string
}

// issueInvoice numera INV-YYYYMMDD-NNNN por tenant y día. La fila de la empresa está bloqueada,
// así que el conteo no compite con otra emisión del mismo tenant.
func (uc *SubscriptionUseCase) issueInvoice(ctx context.Context, invoiceRepo repository.InvoiceRepository, draft invoiceDraft, now time.Time) (*entity.Invoice, error) {
	seq, err := invoiceRepo.CountForDay(ctx, now)
	if err != nil {
		return nil, err
	}
	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		SubscriptionID: draft.subscriptionID,
		Number:         entity.FormatInvoiceNumber(now, seq+1),
		Amount:         draft.amount,
		Tax:            decimal.Zero,
		Total:          draft.amount,
		Currency:       uc.currency,
		Status:         draft.status,
		DueDate:        draft.dueDate,
		PaymentID:      draft.paymentID,
		Items:          []entity.InvoiceItem{{Description: draft.description, Amount: draft.amount}},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if draft.status == entity.InvoicePaid {
		paidAt := now
		inv.PaidAt = &paidAt
	}
	if err := invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (uc *SubscriptionUseCase) succeed(ctx context.Context, op, planCode string, amount decimal.Decimal) {
	uc.metrics.BillingOperation(op, "success")
	uc.log.Info().
		Str("operation", op).
		Str("company_id", companyOf(ctx)).
		Str("plan", planCode).
		Str("amount", amount.StringFixed(2)).
		Msg("operación de billing completada")
}

// fail registra el resultado y devuelve err sin modificar.
func (uc *SubscriptionUseCase) fail(ctx context.Context, op string, err error) error {
	result := "rejected"
	var payErr *domain.PaymentError
	switch {
	case errors.As(err, &payErr):
		result = "payment_failed"
	case isBusinessError(err):
	default:
		result = "error"
		uc.log.Error().Err(err).Str("operation", op).Str("company_id", companyOf(ctx)).Msg("operación de billing fallida")
	}
	uc.metrics.BillingOperation(op, result)
	return err
}

// isBusinessError errores esperables que se devuelven al cliente como 4xx.
func isBusinessError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput, domain.ErrNotFound, domain.ErrAlreadySubscribed, domain.ErrNoSubscription,
		domain.ErrNotAnUpgrade, domain.ErrNotADowngrade, domain.ErrUsageExceedsLimits, domain.ErrAlreadyCancelled,
		domain.ErrRenewalNotDue, domain.ErrAutoRenewDisabled, domain.ErrInvoiceAlreadyPaid,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func companyOf(ctx context.Context) string {
	id, _ := tenant.CompanyID(ctx)
	return id
}
