package usecase_test

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
)

// ──────────────────────────────────────────────────────────────────────────────
// Datos en memoria de varios tenants
// ──────────────────────────────────────────────────────────────────────────────

type world struct {
	companies  map[string]*entity.Company
	users      map[string]*entity.User
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	stores     map[string]*entity.Store // por company
	businesses map[string]*entity.Business
	highlights []*entity.Highlight
	payments   []*entity.Payment
	visits     []*entity.StoreVisit
	stats      entity.StoreStats
}

func newWorld() *world {
	return &world{
		companies:  map[string]*entity.Company{},
		users:      map[string]*entity.User{},
		products:   map[string]*entity.Product{},
		categories: map[string]*entity.Category{},
		stores:     map[string]*entity.Store{},
		businesses: map[string]*entity.Business{},
	}
}

func scopeOf(ctx context.Context) string {
	id, _ := tenant.CompanyID(ctx)
	return id
}

func asTenant(companyID, userID string) context.Context {
	return tenant.WithScope(context.Background(), tenant.Scope{CompanyID: companyID, UserID: userID, Roles: []string{"admin"}})
}

// ── companies ────────────────────────────────────────────────────────────────

type companyRepo struct{ w *world }

func (r companyRepo) Create(context.Context, *entity.Company) error { return nil }

func (r companyRepo) Current(ctx context.Context) (*entity.Company, error) {
	c, ok := r.w.companies[scopeOf(ctx)]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r companyRepo) CurrentForUpdate(ctx context.Context) (*entity.Company, error) {
	return r.Current(ctx)
}

func (r companyRepo) Update(ctx context.Context, c *entity.Company) error {
	if c.ID != scopeOf(ctx) {
		return domain.ErrNotFound
	}
	cp := *c
	r.w.companies[c.ID] = &cp
	return nil
}

func (r companyRepo) UpdateSettings(ctx context.Context, s entity.CompanySettings) error {
	c, ok := r.w.companies[scopeOf(ctx)]
	if !ok {
		return domain.ErrNotFound
	}
	c.Settings = s
	return nil
}

func (r companyRepo) Access(context.Context) (*entity.CompanyAccess, error) { return nil, nil }

// ── usage ────────────────────────────────────────────────────────────────────

type usageRepo struct{ w *world }

func (r usageRepo) Usage(ctx context.Context) (entity.Usage, error) {
	id := scopeOf(ctx)
	var u entity.Usage
	for _, user := range r.w.users {
		if user.CompanyID == id {
			u.Users++
		}
	}
	for _, p := range r.w.products {
		if p.CompanyID == id {
			u.Products++
		}
	}
	return u, nil
}

// ── users ────────────────────────────────────────────────────────────────────

type userRepo struct{ w *world }

func (r userRepo) Create(ctx context.Context, u *entity.User) error {
	id, err := tenant.Stamp(ctx, u.CompanyID)
	if err != nil {
		return err
	}
	u.CompanyID = id
	cp := *u
	r.w.users[u.ID] = &cp
	return nil
}

func (r userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, ok := r.w.users[id]
	if !ok || u.CompanyID != scopeOf(ctx) {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.w.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(ctx context.Context, u *entity.User) error {
	if cur, ok := r.w.users[u.ID]; !ok || cur.CompanyID != scopeOf(ctx) {
		return domain.ErrNotFound
	}
	cp := *u
	r.w.users[u.ID] = &cp
	return nil
}

func (r userRepo) ListByCompany(ctx context.Context, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.w.users {
		if u.CompanyID == scopeOf(ctx) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r userRepo) Delete(ctx context.Context, id string) error {
	u, ok := r.w.users[id]
	if !ok || u.CompanyID != scopeOf(ctx) {
		return domain.ErrNotFound
	}
	delete(r.w.users, id)
	return nil
}

func (r userRepo) TouchLogin(context.Context, string, time.Time) error { return nil }

// ── products ─────────────────────────────────────────────────────────────────

type productRepo struct{ w *world }

func (r productRepo) Create(ctx context.Context, p *entity.Product) error {
	id, err := tenant.Stamp(ctx, p.CompanyID)
	if err != nil {
		return err
	}
	p.CompanyID = id
	cp := *p
	r.w.products[p.ID] = &cp
	return nil
}

func (r productRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, ok := r.w.products[id]
	if !ok || p.CompanyID != scopeOf(ctx) {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r productRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.w.products {
		if p.CompanyID == scopeOf(ctx) && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(ctx context.Context, p *entity.Product) error {
	if cur, ok := r.w.products[p.ID]; !ok || cur.CompanyID != scopeOf(ctx) {
		return domain.ErrNotFound
	}
	cp := *p
	r.w.products[p.ID] = &cp
	return nil
}

func (r productRepo) AdjustStock(context.Context, string, int) error { return nil }

func (r productRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var out []*entity.Product
	for _, p := range r.w.products {
		if p.CompanyID != scopeOf(ctx) {
			continue
		}
		if f.Active != nil && p.Active != *f.Active {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r productRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.w.products {
		if p.CompanyID == scopeOf(ctx) && p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r productRepo) Delete(ctx context.Context, id string) error {
	p, ok := r.w.products[id]
	if !ok || p.CompanyID != scopeOf(ctx) {
		return domain.ErrNotFound
	}
	delete(r.w.products, id)
	return nil
}

// ── categories ───────────────────────────────────────────────────────────────

type categoryRepo struct{ w *world }

func (r categoryRepo) Create(ctx context.Context, c *entity.Category) error {
	id, err := tenant.Stamp(ctx, c.CompanyID)
	if err != nil {
		return err
	}
	c.CompanyID = id
	cp := *c
	r.w.categories[c.ID] = &cp
	return nil
}

func (r categoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	c, ok := r.w.categories[id]
	if !ok || c.CompanyID != scopeOf(ctx) {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r categoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	for _, c := range r.w.categories {
		if c.CompanyID == scopeOf(ctx) && strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r categoryRepo) Update(ctx context.Context, c *entity.Category) error {
	cp := *c
	r.w.categories[c.ID] = &cp
	return nil
}

func (r categoryRepo) ListByCompany(ctx context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.w.categories {
		if c.CompanyID == scopeOf(ctx) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r categoryRepo) Delete(ctx context.Context, id string) error {
	delete(r.w.categories, id)
	return nil
}

// ── store ────────────────────────────────────────────────────────────────────

type storeRepo struct{ w *world }

func (r storeRepo) Create(context.Context, *entity.Store) error { return nil }

func (r storeRepo) Current(ctx context.Context) (*entity.Store, error) {
	s, ok := r.w.stores[scopeOf(ctx)]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r storeRepo) Update(ctx context.Context, s *entity.Store) error {
	cp := *s
	r.w.stores[scopeOf(ctx)] = &cp
	return nil
}

func (r storeRepo) SlugTaken(ctx context.Context, slug string) (bool, error) {
	for companyID, s := range r.w.stores {
		if s.Slug == slug && companyID != scopeOf(ctx) {
			return true, nil
		}
	}
	return false, nil
}

func (r storeRepo) CountActiveProducts(ctx context.Context) (int, error) {
	n := 0
	for _, p := range r.w.products {
		if p.CompanyID == scopeOf(ctx) && p.Active {
			n++
		}
	}
	return n, nil
}

func (r storeRepo) Stats(context.Context, time.Time) (entity.StoreStats, error) {
	return r.w.stats, nil
}

// ── market ───────────────────────────────────────────────────────────────────

type marketRepo struct{ w *world }

func (r marketRepo) listed(ctx context.Context, id string) (*entity.Business, bool) {
	b, ok := r.w.businesses[id]
	return b, ok && id != scopeOf(ctx)
}

func (r marketRepo) ListBusinesses(ctx context.Context, f repository.MarketFilter) ([]*entity.Business, int, error) {
	var out []*entity.Business
	for id := range r.w.businesses {
		if b, ok := r.listed(ctx, id); ok {
			if f.Query != "" && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(f.Query)) {
				continue
			}
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

func (r marketRepo) GetBusiness(ctx context.Context, id string) (*entity.Business, error) {
	if b, ok := r.listed(ctx, id); ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r marketRepo) Featured(ctx context.Context, limit int) ([]*entity.Business, error) {
	var out []*entity.Business
	for _, h := range r.w.highlights {
		if h.Type != entity.HighlightFeatured || h.Status != "active" {
			continue
		}
		if b, ok := r.listed(ctx, h.HighlightedCompanyID); ok && len(out) < limit {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r marketRepo) Categories(ctx context.Context) ([]string, error) {
	var names []string
	for _, c := range r.w.categories {
		if _, ok := r.listed(ctx, c.CompanyID); ok && c.Active && !slices.Contains(names, c.Name) {
			names = append(names, c.Name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (r marketRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, s := range r.w.stores {
		if s.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r marketRepo) PublishedStoreBySlug(_ context.Context, slug string) (*entity.Store, error) {
	for _, s := range r.w.stores {
		if s.Slug == slug && s.Published {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r marketRepo) PublicProducts(_ context.Context, companyID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.w.products {
		if p.CompanyID == companyID && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r marketRepo) RecordVisit(_ context.Context, v *entity.StoreVisit) error {
	r.w.visits = append(r.w.visits, v)
	return nil
}

// ── highlights / payments ────────────────────────────────────────────────────

type highlightRepo struct{ w *world }

func (r highlightRepo) Create(ctx context.Context, h *entity.Highlight) error {
	id, err := tenant.Stamp(ctx, h.CompanyID)
	if err != nil {
		return err
	}
	h.CompanyID = id
	r.w.highlights = append(r.w.highlights, h)
	return nil
}

func (r highlightRepo) ExistsActive(ctx context.Context, highlighted string, now time.Time) (bool, error) {
	for _, h := range r.w.highlights {
		if h.CompanyID == scopeOf(ctx) && h.HighlightedCompanyID == highlighted && h.ExpiresAt.After(now) {
			return true, nil
		}
	}
	return false, nil
}

type paymentRepo struct{ w *world }

func (r paymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	id, err := tenant.Stamp(ctx, p.CompanyID)
	if err != nil {
		return err
	}
	p.CompanyID = id
	r.w.payments = append(r.w.payments, p)
	return nil
}

// ── transacciones ────────────────────────────────────────────────────────────

// tx restaura saldo, usuarios y productos si fn falla.
type tx struct{ w *world }

func (t tx) rollbackOnError(err error, balances map[string]entity.CompanySettings, users map[string]*entity.User, products map[string]*entity.Product, payments int, highlights int) error {
	if err == nil {
		return nil
	}
	for id, s := range balances {
		t.w.companies[id].Settings = s
	}
	t.w.users, t.w.products = users, products
	t.w.payments = t.w.payments[:payments]
	t.w.highlights = t.w.highlights[:highlights]
	return err
}

func (t tx) snapshot() (map[string]entity.CompanySettings, map[string]*entity.User, map[string]*entity.Product, int, int) {
	settings := map[string]entity.CompanySettings{}
	for id, c := range t.w.companies {
		settings[id] = c.Settings
	}
	users := map[string]*entity.User{}
	for k, v := range t.w.users {
		users[k] = v
	}
	products := map[string]*entity.Product{}
	for k, v := range t.w.products {
		products[k] = v
	}
	return settings, users, products, len(t.w.payments), len(t.w.highlights)
}

func (t tx) RunLimited(ctx context.Context, fn func(
	repository.CompanyRepository, repository.UsageRepository, repository.UserRepository, repository.ProductRepository,
) error) error {
	s, u, p, np, nh := t.snapshot()
	err := fn(companyRepo{t.w}, usageRepo{t.w}, userRepo{t.w}, productRepo{t.w})
	return t.rollbackOnError(err, s, u, p, np, nh)
}

func (t tx) RunHighlight(ctx context.Context, fn func(
	repository.CompanyRepository, repository.HighlightRepository, repository.PaymentRepository,
) error) error {
	s, u, p, np, nh := t.snapshot()
	err := fn(companyRepo{t.w}, highlightRepo{t.w}, paymentRepo{t.w})
	return t.rollbackOnError(err, s, u, p, np, nh)
}

type planRepo struct{ plans map[string]*entity.Plan }

func (r planRepo) ListActive(context.Context) ([]*entity.Plan, error) { return nil, nil }

func (r planRepo) GetByID(_ context.Context, id string) (*entity.Plan, error) {
	return r.plans[id], nil
}

func (r planRepo) GetByCode(_ context.Context, code string) (*entity.Plan, error) {
	for _, p := range r.plans {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r planRepo) Upsert(context.Context, *entity.Plan) error { return nil }
