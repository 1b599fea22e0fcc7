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

var (
	_ repository.MarketRepository    = (*MarketRepo)(nil)
	_ repository.HighlightRepository = (*HighlightRepo)(nil)
)

// MarketRepo lecturas cross-tenant del directorio. Es el único adaptador que no filtra por el scope:
// aplica la visibilidad pública (empresa activa, vigente y con tienda publicada).
type MarketRepo struct {
	q Querier
}

// NewMarketRepository construye el adaptador del directorio.
func NewMarketRepository(q Querier) *MarketRepo {
	return &MarketRepo{q: q}
}

const businessSelect = `
	SELECT c.id, c.name, c.city, c.state, c.phone, c.email, c.website, p.code,
	       s.id, s.name, s.slug, s.description, s.logo,
	       EXISTS (SELECT 1 FROM highlights h WHERE h.highlighted_company_id = c.id AND h.status = 'active' AND h.expires_at > $1),
	       (SELECT count(*) FROM products pr WHERE pr.company_id = c.id AND pr.active),
	       (SELECT count(*) FROM store_visits v WHERE v.store_id = s.id),
	       c.created_at
	FROM companies c
	JOIN stores s ON s.company_id = c.id
	JOIN plans p ON p.id = c.plan_id`

// companyListed empresa activa con acceso vigente; subscription_ends_at NULL no tiene acceso.
// now es el placeholder de la hora de referencia.
func companyListed(now string) string {
	return "c.active AND c.deleted_at IS NULL AND c.subscription_ends_at > " + now
}

// visibleWhere condiciones públicas; $1 es siempre now.
func visibleWhere(ctx context.Context, now time.Time) *whereBuilder {
	w := newWhere(companyListed("$1")+" AND s.published", now)
	if own, err := tenant.CompanyID(ctx); err == nil {
		w.add("c.id <> ?", own)
	}
	return w
}

func scanBusiness(row pgx.Row) (*entity.Business, error) {
	var b entity.Business
	err := row.Scan(&b.CompanyID, &b.Name, &b.City, &b.State, &b.Phone, &b.Email, &b.Website, &b.PlanCode,
		&b.StoreID, &b.StoreName, &b.StoreSlug, &b.StoreDescription, &b.StoreLogo,
		&b.Highlighted, &b.ProductsCount, &b.VisitsCount, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBusinesses directorio paginado; los destacados primero.
func (r *MarketRepo) ListBusinesses(ctx context.Context, f repository.MarketFilter) ([]*entity.Business, int, error) {
	w := visibleWhere(ctx, time.Now().UTC())
	if f.Query != "" {
		w.add("(c.name ILIKE ? OR s.description ILIKE $"+fmt.Sprint(len(w.args)+1)+")", "%"+f.Query+"%")
	}
	if f.City != "" {
		w.add("c.city ILIKE ?", f.City)
	}
	if f.State != "" {
		w.add("upper(c.state) = upper(?)", f.State)
	}

	var total int
	countSQL := `SELECT count(*) FROM companies c JOIN stores s ON s.company_id = c.id` + w.String()
	if err := r.q.QueryRow(ctx, countSQL, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count businesses: %w", err)
	}
	pageSQL, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, businessSelect+w.String()+` ORDER BY 14 DESC, c.name`+pageSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan business: %w", err)
		}
		list = append(list, b)
	}
	return list, total, rows.Err()
}

// GetBusiness ficha pública de una empresa visible.
func (r *MarketRepo) GetBusiness(ctx context.Context, companyID string) (*entity.Business, error) {
	w := visibleWhere(ctx, time.Now().UTC())
	w.add("c.id = ?", companyID)
	b, err := scanBusiness(r.q.QueryRow(ctx, businessSelect+w.String(), w.args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

// Featured destacados featured vigentes; $1 es now también para el destaque.
func (r *MarketRepo) Featured(ctx context.Context, limit int) ([]*entity.Business, error) {
	w := visibleWhere(ctx, time.Now().UTC())
	w.conds = append(w.conds, `EXISTS (SELECT 1 FROM highlights h WHERE h.highlighted_company_id = c.id
		AND h.status = 'active' AND h.type = 'featured' AND h.expires_at > $1)`)
	w.args = append(w.args, limit)
	rows, err := r.q.Query(ctx, businessSelect+w.String()+fmt.Sprintf(` ORDER BY random() LIMIT $%d`, len(w.args)), w.args...)
	if err != nil {
		return nil, fmt.Errorf("list featured businesses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Categories categorías activas de empresas listadas, ordenadas por nombre.
func (r *MarketRepo) Categories(ctx context.Context) ([]string, error) {
	w := visibleWhere(ctx, time.Now().UTC())
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT cat.name
		FROM categories cat
		JOIN companies c ON c.id = cat.company_id
		JOIN stores s ON s.company_id = c.id`+w.String()+` AND cat.active
		ORDER BY cat.name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list market categories: %w", err)
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SlugExists el slug es único global entre todas las tiendas.
func (r *MarketRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stores WHERE slug = $1)`, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// PublishedStoreBySlug tienda pública por slug. No excluye la propia empresa (vista previa).
func (r *MarketRepo) PublishedStoreBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	query := `
		SELECT s.id, s.company_id, s.name, s.slug, s.description, s.logo, s.cover_image, s.settings,
		       s.published, s.published_at, s.created_at, s.updated_at
		FROM stores s JOIN companies c ON c.id = s.company_id
		WHERE s.slug = $1 AND s.published AND ` + companyListed("$2")
	s, err := scanStore(r.q.QueryRow(ctx, query, slug, time.Now().UTC()))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get published store: %w", err)
	}
	return s, nil
}

// PublicProducts catálogo activo de una empresa visible.
func (r *MarketRepo) PublicProducts(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE company_id = $1 AND active
		  AND EXISTS (SELECT 1 FROM companies c JOIN stores s ON s.company_id = c.id
		              WHERE c.id = $1 AND s.published AND ` + companyListed("$2") + `)
		ORDER BY name LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, time.Now().UTC(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list public products: %w", err)
	}
	return scanProducts(rows)
}

// RecordVisit registra la visita; si hay scope, lo guarda como empresa visitante.
func (r *MarketRepo) RecordVisit(ctx context.Context, v *entity.StoreVisit) error {
	if own, err := tenant.CompanyID(ctx); err == nil {
		v.VisitorCompanyID = &own
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO store_visits (id, store_id, visitor_company_id, ip_address, user_agent, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.ID, v.StoreID, v.VisitorCompanyID, v.IPAddress, v.UserAgent, v.Source, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert store visit: %w", err)
	}
	return nil
}

// HighlightRepo destaques pagados; escribe siempre con el tenant del scope como pagador.
type HighlightRepo struct {
	q Querier
}

// NewHighlightRepository construye el adaptador de destaques.
func NewHighlightRepository(q Querier) *HighlightRepo {
	return &HighlightRepo{q: q}
}

// Create persiste el destaque. CompanyID es quien paga.
func (r *HighlightRepo) Create(ctx context.Context, h *entity.Highlight) error {
	companyID, err := tenant.Stamp(ctx, h.CompanyID)
	if err != nil {
		return err
	}
	h.CompanyID = companyID
	_, err = r.q.Exec(ctx, `
		INSERT INTO highlights (id, company_id, highlighted_company_id, type, duration_days, cost, status, starts_at, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		h.ID, h.CompanyID, h.HighlightedCompanyID, h.Type, h.DurationDays, h.Cost, h.Status,
		h.StartsAt, h.ExpiresAt, h.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert highlight: %w", err)
	}
	return nil
}

// ExistsActive informa si la empresa ya tiene un destaque vigente.
func (r *HighlightRepo) ExistsActive(ctx context.Context, highlightedCompanyID string, now time.Time) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM highlights WHERE highlighted_company_id = $1 AND status = 'active' AND expires_at > $2)`,
		highlightedCompanyID, now).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check highlight: %w", err)
	}
	return ok, nil
}
