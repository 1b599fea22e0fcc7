package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo tienda online del tenant sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de tiendas.
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

const storeColumns = `id, company_id, name, slug, description, logo, cover_image, settings, published, published_at, created_at, updated_at`

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	var settings []byte
	err := row.Scan(&s.ID, &s.CompanyID, &s.Name, &s.Slug, &s.Description, &s.Logo, &s.CoverImage,
		&settings, &s.Published, &s.PublishedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSON(settings, &s.Settings); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la tienda del scope. Slug repetido -> ErrDuplicate.
func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	companyID, err := tenant.Stamp(ctx, s.CompanyID)
	if err != nil {
		return err
	}
	s.CompanyID = companyID
	settings, err := marshalJSON(s.Settings)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `INSERT INTO stores (`+storeColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.CompanyID, s.Name, s.Slug, s.Description, s.Logo, s.CoverImage, settings, s.Published,
		s.PublishedAt, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// Current tienda de la empresa del scope.
func (r *StoreRepo) Current(ctx context.Context) (*entity.Store, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, err
	}
	s, err := scanStore(r.q.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE company_id = $1`, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return s, nil
}

// Update actualiza la tienda del scope.
func (r *StoreRepo) Update(ctx context.Context, s *entity.Store) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	settings, err := marshalJSON(s.Settings)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE stores SET name = $3, slug = $4, description = $5, logo = $6, cover_image = $7, settings = $8,
			published = $9, published_at = $10, updated_at = $11
		WHERE id = $1 AND company_id = $2`,
		s.ID, companyID, s.Name, s.Slug, s.Description, s.Logo, s.CoverImage, settings,
		s.Published, s.PublishedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update store: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SlugTaken informa si otra empresa ya usa el slug. Sin scope (registro) revisa todas.
func (r *StoreRepo) SlugTaken(ctx context.Context, slug string) (bool, error) {
	own, _ := tenant.CompanyID(ctx)
	var taken bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stores WHERE slug = $1 AND company_id::text <> $2)`, slug, own,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return taken, nil
}

// CountActiveProducts productos activos del scope (requisito de publicación).
func (r *StoreRepo) CountActiveProducts(ctx context.Context) (int, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE company_id = $1 AND active`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active products: %w", err)
	}
	return n, nil
}

// Stats visitas totales y del mes más ventas online del scope.
func (r *StoreRepo) Stats(ctx context.Context, monthStart time.Time) (entity.StoreStats, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return entity.StoreStats{}, err
	}
	const query = `
		SELECT (SELECT count(*) FROM store_visits v JOIN stores s ON s.id = v.store_id WHERE s.company_id = $1),
		       (SELECT count(*) FROM store_visits v JOIN stores s ON s.id = v.store_id WHERE s.company_id = $1 AND v.created_at >= $2),
		       (SELECT count(*) FROM sales WHERE company_id = $1 AND type = 'online' AND status = 'completed')`
	var st entity.StoreStats
	if err := r.q.QueryRow(ctx, query, companyID, monthStart).Scan(&st.TotalVisits, &st.MonthVisits, &st.OnlineSales); err != nil {
		return entity.StoreStats{}, fmt.Errorf("store stats: %w", err)
	}
	return st, nil
}
