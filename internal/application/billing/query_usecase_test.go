package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

func newQuery(st *store) *billing.QueryUseCase {
	return billing.NewQueryUseCase(companyRepo{st}, subRepo{st}, invoiceRepo{st}, usageRepo{st}, plans()).
		WithClock(func() time.Time { return now })
}

func tenantCtx() context.Context {
	return tenant.WithCompany(context.Background(), companyID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Overview
// ──────────────────────────────────────────────────────────────────────────────

func TestOverview_Trial(t *testing.T) {
	st := trialStore()
	st.usage = entity.Usage{Users: 1, Products: 40, StorageMB: dec("12.5")}

	out, err := newQuery(st).Overview(tenantCtx())
	require.NoError(t, err)

	assert.Nil(t, out.Subscription)
	assert.Equal(t, entity.PlanStarter, out.CurrentPlan.Code)
	assert.True(t, out.CompanyStatus.IsActive)
	assert.Equal(t, "trial", out.CompanyStatus.Status)
	assert.Equal(t, 14, out.CompanyStatus.DaysRemaining)
	assert.True(t, dec("100").Equal(out.Usage.Users.Percentage))
	assert.True(t, dec("40").Equal(out.Usage.Products.Percentage))
	assert.True(t, dec("12.5").Equal(out.Usage.Storage.Percentage))
	assert.NotNil(t, out.RecentInvoices)
	assert.Nil(t, out.BillingInfo.NextBillingDate)
}

func TestOverview_UnlimitedPlanAndRecentInvoices(t *testing.T) {
	st := subscribedStore("p-business", "199.90", 9)
	st.usage = entity.Usage{Users: 12, Products: 900}
	for i := 0; i < 7; i++ {
		st.invoices = append(st.invoices, &entity.Invoice{
			ID: string(rune('a' + i)), Status: entity.InvoicePaid, CreatedAt: now.AddDate(0, -i, 0),
		})
	}

	out, err := newQuery(st).Overview(tenantCtx())
	require.NoError(t, err)

	assert.Nil(t, out.Usage.Users.Limit)
	assert.True(t, out.Usage.Users.Percentage.IsZero(), "ilimitado = 0%%")
	require.Len(t, out.RecentInvoices, 5)
	assert.Equal(t, "a", out.RecentInvoices[0].ID, "más reciente primero")
	require.NotNil(t, out.Subscription)
	assert.Equal(t, "active", out.CompanyStatus.Status)
	assert.Equal(t, 9, out.BillingInfo.DaysUntilBilling)
	assert.True(t, out.BillingInfo.AutoRenew)
}

func TestOverview_Expired(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", -2)
	out, err := newQuery(st).Overview(tenantCtx())
	require.NoError(t, err)
	assert.False(t, out.CompanyStatus.IsActive)
	assert.Equal(t, "expired", out.CompanyStatus.Status)
	assert.Equal(t, 0, out.CompanyStatus.DaysRemaining)
}

// ──────────────────────────────────────────────────────────────────────────────
// Planes y facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestPlans_OnlyActiveAndCurrent(t *testing.T) {
	out, err := newQuery(subscribedStore("p-pro", "89.90", 10)).Plans(tenantCtx())
	require.NoError(t, err)
	assert.Len(t, out.Plans, 3)
	assert.Equal(t, entity.PlanPro, out.CurrentPlan)
}

func TestListInvoices_FiltersAndInclusiveEndDate(t *testing.T) {
	st := trialStore()
	st.invoices = []*entity.Invoice{
		{ID: "i1", Status: entity.InvoicePaid, CreatedAt: time.Date(2026, 4, 10, 23, 30, 0, 0, time.UTC)},
		{ID: "i2", Status: entity.InvoicePending, CreatedAt: time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)},
		{ID: "i3", Status: entity.InvoicePaid, CreatedAt: time.Date(2026, 4, 11, 0, 0, 0, 0, time.UTC)},
	}
	q := newQuery(st)

	out, err := q.ListInvoices(tenantCtx(), dto.InvoiceListRequest{Status: "paid", StartDate: "2026-04-01", EndDate: "2026-04-10"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "i1", out.Items[0].ID)
	assert.Equal(t, 20, out.Page.Limit)
	assert.Equal(t, 1, out.Page.Total)
}

func TestListInvoices_BadDates(t *testing.T) {
	q := newQuery(trialStore())

	_, err := q.ListInvoices(tenantCtx(), dto.InvoiceListRequest{StartDate: "10/04/2026"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "start_date")

	_, err = q.ListInvoices(tenantCtx(), dto.InvoiceListRequest{StartDate: "2026-04-10", EndDate: "2026-04-01"})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "end_date")
}

func TestGetInvoice_WithSubscriptionAndPlan(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 10)
	st.invoices = []*entity.Invoice{{ID: "inv-1", SubscriptionID: "sub-1", Status: entity.InvoicePaid, CreatedAt: now}}
	q := newQuery(st)

	out, err := q.GetInvoice(tenantCtx(), "inv-1")
	require.NoError(t, err)
	require.NotNil(t, out.Subscription)
	require.NotNil(t, out.Plan)
	assert.Equal(t, entity.PlanPro, out.Plan.Code)

	_, err = q.GetInvoice(tenantCtx(), "otra")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// PDF
// ──────────────────────────────────────────────────────────────────────────────

type fakePDF struct {
	plan *entity.Plan
}

func (f *fakePDF) GenerateSubscriptionInvoicePDF(_ context.Context, inv *entity.Invoice, company *entity.Company, plan *entity.Plan) ([]byte, error) {
	f.plan = plan
	return []byte("%PDF-" + inv.Number), nil
}

func TestDownloadInvoicePDF(t *testing.T) {
	st := subscribedStore("p-pro", "89.90", 10)
	st.invoices = []*entity.Invoice{{ID: "inv-1", SubscriptionID: "sub-1", Number: "INV-20260501-0001", CreatedAt: now}}
	gen := &fakePDF{}
	uc := billing.NewPDFUseCase(invoiceRepo{st}, companyRepo{st}, subRepo{st}, plans(), gen)

	body, name, err := uc.DownloadInvoicePDF(tenantCtx(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "fatura_INV-20260501-0001.pdf", name)
	assert.Equal(t, "%PDF-INV-20260501-0001", string(body))
	require.NotNil(t, gen.plan)
	assert.Equal(t, "p-pro", gen.plan.ID)

	_, _, err = uc.DownloadInvoicePDF(tenantCtx(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Webhook
// ──────────────────────────────────────────────────────────────────────────────

func TestWebhook_KnownAndUnknownGateways(t *testing.T) {
	uc := billing.NewWebhookUseCase(logger.Nop())
	for _, gw := range []string{"stripe", "mercadopago", "Asaas"} {
		out, err := uc.Receive(context.Background(), gw, []byte(`{}`))
		require.NoError(t, err, gw)
		assert.True(t, out.Received)
	}
	_, err := uc.Receive(context.Background(), "paypal", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Barrido de renovaciones
// ──────────────────────────────────────────────────────────────────────────────

// dueRepo pagina por company_id como el adaptador real; due debe estar ordenado.
type dueRepo struct {
	subRepo
	due    []repository.DueRenewal
	limit  int
	cursor []string
}

func (r *dueRepo) ListDueForRenewal(_ context.Context, _ time.Time, after string, limit int) ([]repository.DueRenewal, error) {
	r.limit = limit
	r.cursor = append(r.cursor, after)
	var out []repository.DueRenewal
	for _, d := range r.due {
		if d.CompanyID > after && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeRenewer struct {
	results map[string]error
	seen    []string
}

func (f *fakeRenewer) Renew(ctx context.Context) (*dto.RenewResponse, error) {
	id, err := tenant.CompanyID(ctx)
	if err != nil {
		return nil, err
	}
	f.seen = append(f.seen, id)
	if err := f.results[id]; err != nil {
		return nil, err
	}
	return &dto.RenewResponse{Invoice: dto.InvoiceResponse{Number: "INV-" + id}}, nil
}

func TestRenewDue_EachTenantInItsOwnScope(t *testing.T) {
	repo := &dueRepo{due: []repository.DueRenewal{
		{CompanyID: "c1", SubscriptionID: "s1"},
		{CompanyID: "c2", SubscriptionID: "s2"},
		{CompanyID: "c3", SubscriptionID: "s3"},
	}}
	renewer := &fakeRenewer{results: map[string]error{
		"c2": errors.New("db caída"),
		"c3": domain.ErrRenewalNotDue,
	}}
	uc := billing.NewRenewalUseCase(repo, renewer, logger.Nop()).WithClock(func() time.Time { return now })

	report, err := uc.RenewDue(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, billing.RenewalReport{Processed: 3, Renewed: 1, Skipped: 1, Failed: 1}, report)
	assert.Equal(t, []string{"c1", "c2", "c3"}, renewer.seen)
	assert.Equal(t, 50, repo.limit)
}

func TestRenewDue_RecorreTodosLosLotes(t *testing.T) {
	repo := &dueRepo{due: []repository.DueRenewal{
		{CompanyID: "c1"}, {CompanyID: "c2"}, {CompanyID: "c3"}, {CompanyID: "c4"}, {CompanyID: "c5"},
	}}
	// los primeros fallan siempre y siguen vencidos: no deben ocupar los lotes siguientes
	renewer := &fakeRenewer{results: map[string]error{
		"c1": errors.New("gateway caído"),
		"c2": errors.New("gateway caído"),
	}}
	uc := billing.NewRenewalUseCase(repo, renewer, logger.Nop()).WithClock(func() time.Time { return now })

	report, err := uc.RenewDue(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, billing.RenewalReport{Processed: 5, Renewed: 3, Failed: 2}, report)
	assert.Equal(t, []string{"c1", "c2", "c3", "c4", "c5"}, renewer.seen)
	assert.Equal(t, []string{"", "c2", "c4"}, repo.cursor)
}

func TestRenewDue_LoteExactoTerminaConConsultaVacia(t *testing.T) {
	repo := &dueRepo{due: []repository.DueRenewal{{CompanyID: "c1"}, {CompanyID: "c2"}}}
	report, err := billing.NewRenewalUseCase(repo, &fakeRenewer{}, nil).RenewDue(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Renewed)
	assert.Equal(t, []string{"", "c2"}, repo.cursor)
}

func TestRenewDue_StopsOnCancelledContext(t *testing.T) {
	repo := &dueRepo{due: []repository.DueRenewal{{CompanyID: "c1"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := billing.NewRenewalUseCase(repo, &fakeRenewer{}, nil).RenewDue(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Processed)
}
