package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
)

// ──────────────────────────────────────────────────────────────────────────────
// Base en memoria compartida por los repos fake
// ──────────────────────────────────────────────────────────────────────────────

type db struct {
	mu         sync.Mutex
	companies  map[string]*entity.Company
	users      map[string]*entity.User
	stores     []*entity.Store
	categories []*entity.Category
	failStore  error
}

func newDB() *db {
	return &db{companies: map[string]*entity.Company{}, users: map[string]*entity.User{}}
}

func (d *db) userByEmail(email string) *entity.User {
	for _, u := range d.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

type companyRepo struct{ d *db }

func (r companyRepo) Create(ctx context.Context, c *entity.Company) error {
	id, err := tenant.Stamp(ctx, c.ID)
	if err != nil {
		return err
	}
	c.ID = id
	cp := *c
	r.d.companies[id] = &cp
	return nil
}

func (r companyRepo) Current(ctx context.Context) (*entity.Company, error) {
	id, err := tenant.CompanyID(ctx)
	if err != nil {
		return nil, err
	}
	c, ok := r.d.companies[id]
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
	cp := *c
	r.d.companies[c.ID] = &cp
	return nil
}

func (r companyRepo) UpdateSettings(context.Context, entity.CompanySettings) error { return nil }

func (r companyRepo) Access(context.Context) (*entity.CompanyAccess, error) { return nil, nil }

type userRepo struct{ d *db }

func (r userRepo) Create(ctx context.Context, u *entity.User) error {
	id, err := tenant.Stamp(ctx, u.CompanyID)
	if err != nil {
		return err
	}
	if r.d.userByEmail(u.Email) != nil {
		return domain.ErrEmailAlreadyExists
	}
	u.CompanyID = id
	cp := *u
	r.d.users[u.ID] = &cp
	return nil
}

func (r userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return nil, err
	}
	u, ok := r.d.users[id]
	if !ok || u.CompanyID != companyID {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	u := r.d.userByEmail(email)
	if u == nil {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) Update(ctx context.Context, u *entity.User) error {
	companyID, err := tenant.CompanyID(ctx)
	if err != nil {
		return err
	}
	if cur, ok := r.d.users[u.ID]; !ok || cur.CompanyID != companyID {
		return domain.ErrNotFound
	}
	cp := *u
	r.d.users[u.ID] = &cp
	return nil
}

func (r userRepo) ListByCompany(context.Context, int, int) ([]*entity.User, error) { return nil, nil }

func (r userRepo) Delete(context.Context, string) error { return nil }

func (r userRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	if u, ok := r.d.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

type storeRepo struct{ d *db }

func (r storeRepo) Create(ctx context.Context, s *entity.Store) error {
	if r.d.failStore != nil {
		return r.d.failStore
	}
	id, err := tenant.Stamp(ctx, s.CompanyID)
	if err != nil {
		return err
	}
	s.CompanyID = id
	r.d.stores = append(r.d.stores, s)
	return nil
}

func (r storeRepo) Current(context.Context) (*entity.Store, error) { return nil, nil }

func (r storeRepo) Update(context.Context, *entity.Store) error { return nil }

func (r storeRepo) SlugTaken(_ context.Context, slug string) (bool, error) {
	for _, s := range r.d.stores {
		if s.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r storeRepo) CountActiveProducts(context.Context) (int, error) { return 0, nil }

func (r storeRepo) Stats(context.Context, time.Time) (entity.StoreStats, error) {
	return entity.StoreStats{}, nil
}

type categoryRepo struct{ d *db }

func (r categoryRepo) Create(ctx context.Context, c *entity.Category) error {
	id, err := tenant.Stamp(ctx, c.CompanyID)
	if err != nil {
		return err
	}
	c.CompanyID = id
	r.d.categories = append(r.d.categories, c)
	return nil
}

func (r categoryRepo) GetByID(context.Context, string) (*entity.Category, error)   { return nil, nil }
func (r categoryRepo) GetByName(context.Context, string) (*entity.Category, error) { return nil, nil }
func (r categoryRepo) Update(context.Context, *entity.Category) error              { return nil }
func (r categoryRepo) ListByCompany(context.Context) ([]*entity.Category, error)   { return nil, nil }
func (r categoryRepo) Delete(context.Context, string) error                        { return nil }

// registrationTx deshace todo lo escrito si fn falla.
type registrationTx struct{ d *db }

func (t registrationTx) RunRegistration(ctx context.Context, fn func(
	repository.CompanyRepository, repository.UserRepository, repository.StoreRepository, repository.CategoryRepository,
) error) error {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	companies := make(map[string]*entity.Company, len(t.d.companies))
	for k, v := range t.d.companies {
		companies[k] = v
	}
	users := make(map[string]*entity.User, len(t.d.users))
	for k, v := range t.d.users {
		users[k] = v
	}
	stores, categories := t.d.stores, t.d.categories

	if err := fn(companyRepo{t.d}, userRepo{t.d}, storeRepo{t.d}, categoryRepo{t.d}); err != nil {
		t.d.companies, t.d.users, t.d.stores, t.d.categories = companies, users, stores, categories
		return err
	}
	return nil
}

type planRepo struct{ plans []*entity.Plan }

func (r planRepo) ListActive(context.Context) ([]*entity.Plan, error) { return r.plans, nil }

func (r planRepo) GetByID(_ context.Context, id string) (*entity.Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r planRepo) GetByCode(_ context.Context, code string) (*entity.Plan, error) {
	for _, p := range r.plans {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r planRepo) Upsert(context.Context, *entity.Plan) error { return errors.New("no soportado") }
