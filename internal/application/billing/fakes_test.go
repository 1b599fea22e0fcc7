package billing_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
)

// ──────────────────────────────────────────────────────────────────────────────
// Estado en memoria de un tenant
// ──────────────────────────────────────────────────────────────────────────────

type store struct {
	mu       sync.Mutex
	company  *entity.Company
	sub      *entity.Subscription
	invoices []*entity.Invoice
	payments []*entity.Payment
	usage    entity.Usage
}

type snapshot struct {
	company  *entity.Company
	sub      *entity.Subscription
	invoices []*entity.Invoice
	payments []*entity.Payment
}

func (s *store) snapshot() snapshot {
	snap := snapshot{}
	if s.company != nil {
		c := *s.company
		snap.company = &c
	}
	if s.sub != nil {
		sub := *s.sub
		snap.sub = &sub
	}
	for _, inv := range s.invoices {
		cp := *inv
		snap.invoices = append(snap.invoices, &cp)
	}
	snap.payments = append(snap.payments, s.payments...)
	return snap
}

func (s *store) restore(snap snapshot) {
	s.company = snap.company
	s.sub = snap.sub
	s.invoices = snap.invoices
	s.payments = snap.payments
}

type companyRepo struct{ st *store }

func requireScope(ctx context.Context) error {
	_, err := tenant.CompanyID(ctx)
	return err
}

func (r companyRepo) Create(ctx context.Context, c *entity.Company) error {
	return errors.New("no usado")
}

func (r companyRepo) Current(ctx context.Context) (*entity.Company, error) {
	if err := requireScope(ctx); err != nil {
		return nil, err
	}
	if r.st.company == nil {
		return nil, nil
	}
	c := *r.st.company
	return &c, nil
}

func (r companyRepo) CurrentForUpdate(ctx context.Context) (*entity.Company, error) {
	return r.Current(ctx)
}

func (r companyRepo) Update(ctx context.Context, c *entity.Company) error {
	cp := *c
	r.st.company = &cp
	return nil
}

func (r companyRepo) UpdateSettings(ctx context.Context, s entity.CompanySettings) error {
	r.st.company.Settings = s
	return nil
}

func (r companyRepo) Access(ctx context.Context) (*entity.CompanyAccess, error) {
	return nil, errors.New("no usado")
}

type subRepo struct{ st *store }

func (r subRepo) Current(ctx context.Context) (*entity.Subscription, error) {
	if err := requireScope(ctx); err != nil {
		return nil, err
	}
	if r.st.sub == nil {
		return nil, nil
	}
	s := *r.st.sub
	return &s, nil
}

func (r subRepo) Save(ctx context.Context, s *entity.Subscription) error {
	cp := *s
	r.st.sub = &cp
	return nil
}

func (r subRepo) ListDueForRenewal(context.Context, time.Time, string, int) ([]repository.DueRenewal, error) {
	return nil, nil
}

type invoiceRepo struct{ st *store }

func (r invoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	cp := *inv
	cp.CompanyID = r.st.company.ID
	r.st.invoices = append(r.st.invoices, &cp)
	return nil
}

func (r invoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	for _, inv := range r.st.invoices {
		if inv.ID == id {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r invoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var out []*entity.Invoice
	for _, inv := range r.st.invoices {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.StartDate != nil && inv.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && !inv.CreatedAt.Before(*f.EndDate) {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = nil
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r invoiceRepo) CountForDay(ctx context.Context, day time.Time) (int, error) {
	n := 0
	for _, inv := range r.st.invoices {
		if inv.CreatedAt.UTC().Format("20060102") == day.UTC().Format("20060102") {
			n++
		}
	}
	return n, nil
}

func (r invoiceRepo) MarkPaid(ctx context.Context, id, paymentID string, paidAt time.Time) error {
	for _, inv := range r.st.invoices {
		if inv.ID == id {
			if inv.IsPaid() {
				return domain.ErrInvoiceAlreadyPaid
			}
			inv.Status = entity.InvoicePaid
			inv.PaymentID = paymentID
			inv.PaidAt = &paidAt
			return nil
		}
	}
	return domain.ErrNotFound
}

type paymentRepo struct{ st *store }

func (r paymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	cp := *p
	cp.CompanyID = r.st.company.ID
	r.st.payments = append(r.st.payments, &cp)
	return nil
}

type usageRepo struct{ st *store }

func (r usageRepo) Usage(ctx context.Context) (entity.Usage, error) { return r.st.usage, nil }

// billingTx serializa los callbacks y descarta todas las escrituras si fn falla.
type billingTx struct{ st *store }

func (f *billingTx) RunBilling(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	subRepo repository.SubscriptionRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	usageRepo repository.UsageRepository,
) error) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	snap := f.st.snapshot()
	if err := fn(companyRepo{f.st}, subRepo{f.st}, invoiceRepo{f.st}, paymentRepo{f.st}, usageRepo{f.st}); err != nil {
		f.st.restore(snap)
		return err
	}
	return nil
}

var _ billing.TxRunner = (*billingTx)(nil)

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo, gateway y métricas
// ──────────────────────────────────────────────────────────────────────────────

type planRepo struct {
	plans []*entity.Plan
}

func (r *planRepo) ListActive(ctx context.Context) ([]*entity.Plan, error) {
	var out []*entity.Plan
	for _, p := range r.plans {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *planRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *planRepo) GetByCode(ctx context.Context, code string) (*entity.Plan, error) {
	for _, p := range r.plans {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *planRepo) Upsert(ctx context.Context, plan *entity.Plan) error { return nil }

type fakeGateway struct {
	decline bool
	err     error
	calls   []decimal.Decimal
}

func (g *fakeGateway) Authorize(ctx context.Context, amount decimal.Decimal, method string) (billing.PaymentResult, error) {
	g.calls = append(g.calls, amount)
	if g.err != nil {
		return billing.PaymentResult{}, g.err
	}
	if g.decline {
		return billing.PaymentResult{Success: false, Message: "cartão recusado"}, nil
	}
	return billing.PaymentResult{Success: true, TransactionID: "txn-" + amount.StringFixed(2)}, nil
}

func (g *fakeGateway) Simulated() bool { return true }

type recordingMetrics struct {
	ops      []string
	payments []string
}

func (m *recordingMetrics) BillingOperation(op, result string) {
	m.ops = append(m.ops, op+":"+result)
}

func (m *recordingMetrics) PaymentAuthorization(method, result string) {
	m.payments = append(m.payments, method+":"+result)
}
