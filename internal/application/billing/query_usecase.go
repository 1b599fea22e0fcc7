package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/subscription"
)

const recentInvoices = 5

// QueryUseCase lecturas de facturación del tenant del contexto.
type QueryUseCase struct {
	companies repository.CompanyRepository
	subs      repository.SubscriptionRepository
	invoices  repository.InvoiceRepository
	usage     repository.UsageRepository
	plans     repository.PlanRepository
	now       func() time.Time
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	companies repository.CompanyRepository,
	subs repository.SubscriptionRepository,
	invoices repository.InvoiceRepository,
	usage repository.UsageRepository,
	plans repository.PlanRepository,
) *QueryUseCase {
	return &QueryUseCase{
		companies: companies,
		subs:      subs,
		invoices:  invoices,
		usage:     usage,
		plans:     plans,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *QueryUseCase) WithClock(now func() time.Time) *QueryUseCase {
	uc.now = now
	return uc
}

// Overview resumen de GET /api/billing.
func (uc *QueryUseCase) Overview(ctx context.Context) (*dto.BillingOverviewResponse, error) {
	now := uc.now()
	company, err := uc.companies.Current(ctx)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	sub, err := uc.subs.Current(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := uc.plans.GetByID(ctx, company.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("plan %s de la empresa: %w", company.PlanID, domain.ErrNotFound)
	}
	usage, err := uc.usage.Usage(ctx)
	if err != nil {
		return nil, err
	}
	recent, _, err := uc.invoices.List(ctx, repository.InvoiceFilter{Limit: recentInvoices})
	if err != nil {
		return nil, err
	}

	out := &dto.BillingOverviewResponse{
		CurrentPlan: dto.NewPlanResponse(plan),
		CompanyStatus: dto.CompanyStatusResponse{
			IsActive:           subscription.IsActive(company, now),
			Status:             string(subscription.StateOf(company, sub, now)),
			SubscriptionEndsAt: company.SubscriptionEndsAt,
		},
		Usage: dto.UsageResponse{
			Users:    usageItem(decimal.NewFromInt(int64(usage.Users)), plan.UserLimit),
			Products: usageItem(decimal.NewFromInt(int64(usage.Products)), plan.ProductLimit),
			Storage:  usageItem(usage.StorageMB, plan.StorageLimitMB),
		},
		RecentInvoices: invoiceResponses(recent),
	}
	if company.SubscriptionEndsAt != nil {
		out.CompanyStatus.DaysRemaining = subscription.DaysRemaining(*company.SubscriptionEndsAt, now)
	}
	if sub != nil {
		resp := dto.NewSubscriptionResponse(sub)
		next := sub.NextBillingDate
		out.Subscription = &resp
		out.BillingInfo = dto.BillingInfoResponse{
			NextBillingDate:  &next,
			DaysUntilBilling: subscription.DaysRemaining(next, now),
			AutoRenew:        sub.AutoRenew,
			PendingDowngrade: dto.NewPendingDowngradeResponse(sub.PendingDowngrade),
		}
	}
	return out, nil
}

// Plans planes activos y el código del plan actual del tenant.
func (uc *QueryUseCase) Plans(ctx context.Context) (*dto.PlansResponse, error) {
	plans, err := uc.plans.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.PlansResponse{Plans: make([]dto.PlanResponse, 0, len(plans))}
	company, err := uc.companies.Current(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range plans {
		out.Plans = append(out.Plans, dto.NewPlanResponse(p))
		if company != nil && p.ID == company.PlanID {
			out.CurrentPlan = p.Code
		}
	}
	return out, nil
}

// ListInvoices facturas del tenant; end_date es inclusivo.
func (uc *QueryUseCase) ListInvoices(ctx context.Context, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	in.DefaultPage()
	limit, offset := in.Limit, in.Offset
	f := repository.InvoiceFilter{Status: entity.InvoiceStatus(in.Status), Limit: limit, Offset: offset}
	if in.StartDate != "" {
		d, err := time.Parse(dto.DateLayout, in.StartDate)
		if err != nil {
			return nil, domain.NewValidationError("start_date", "formato esperado YYYY-MM-DD")
		}
		f.StartDate = &d
	}
	if in.EndDate != "" {
		d, err := time.Parse(dto.DateLayout, in.EndDate)
		if err != nil {
			return nil, domain.NewValidationError("end_date", "formato esperado YYYY-MM-DD")
		}
		end := d.AddDate(0, 0, 1)
		f.EndDate = &end
	}
	if f.StartDate != nil && f.EndDate != nil && !f.EndDate.After(*f.StartDate) {
		return nil, domain.NewValidationError("end_date", "debe ser posterior o igual a start_date")
	}

	list, total, err := uc.invoices.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceListResponse{
		Items: invoiceResponses(list),
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// GetInvoice factura con su suscripción y plan. Una factura de otro tenant no existe.
func (uc *QueryUseCase) GetInvoice(ctx context.Context, id string) (*dto.InvoiceDetailResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	out := &dto.InvoiceDetailResponse{Invoice: dto.NewInvoiceResponse(inv)}
	sub, err := uc.subs.Current(ctx)
	if err != nil {
		return nil, err
	}
	if sub != nil && sub.ID == inv.SubscriptionID {
		resp := dto.NewSubscriptionResponse(sub)
		out.Subscription = &resp
		plan, err := uc.plans.GetByID(ctx, sub.PlanID)
		if err != nil {
			return nil, err
		}
		if plan != nil {
			p := dto.NewPlanResponse(plan)
			out.Plan = &p
		}
	}
	return out, nil
}

func usageItem(current decimal.Decimal, limit *int) dto.UsageItemResponse {
	return dto.UsageItemResponse{
		Current:    current,
		Limit:      limit,
		Percentage: subscription.UsagePercent(current, limit),
	}
}

func invoiceResponses(list []*entity.Invoice) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.NewInvoiceResponse(inv))
	}
	return out
}
