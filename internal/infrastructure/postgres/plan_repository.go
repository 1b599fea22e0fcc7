package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
)

var _ repository.PlanRepository = (*PlanRepo)(nil)

// PlanRepo catálogo de planes sobre PostgreSQL.
type PlanRepo struct {
	q Querier
}

// NewPlanRepository construye el adaptador de planes.
func NewPlanRepository(q Querier) *PlanRepo {
	return &PlanRepo{q: q}
}

const planColumns = `id, code, name, description, price_monthly, price_yearly, user_limit, product_limit,
	storage_limit_mb, features, active, created_at, updated_at`

func scanPlan(row pgx.Row) (*entity.Plan, error) {
	var p entity.Plan
	var features []byte
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.PriceMonthly, &p.PriceYearly,
		&p.UserLimit, &p.ProductLimit, &p.StorageLimitMB, &features, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSON(features, &p.Features); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListActive planes activos ordenados por precio.
func (r *PlanRepo) ListActive(ctx context.Context) ([]*entity.Plan, error) {
	rows, err := r.q.Query(ctx, `SELECT `+planColumns+` FROM plans WHERE active ORDER BY price_monthly`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()
	var list []*entity.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByID obtiene un plan por ID (activo o no).
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	return r.getOne(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id)
}

// GetByCode obtiene un plan por código.
func (r *PlanRepo) GetByCode(ctx context.Context, code string) (*entity.Plan, error) {
	return r.getOne(ctx, `SELECT `+planColumns+` FROM plans WHERE code = $1`, code)
}

func (r *PlanRepo) getOne(ctx context.Context, query string, arg any) (*entity.Plan, error) {
	p, err := scanPlan(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// Upsert inserta o actualiza por código (seed).
func (r *PlanRepo) Upsert(ctx context.Context, p *entity.Plan) error {
	features, err := marshalJSON(p.Features)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			price_monthly = EXCLUDED.price_monthly, price_yearly = EXCLUDED.price_yearly,
			user_limit = EXCLUDED.user_limit, product_limit = EXCLUDED.product_limit,
			storage_limit_mb = EXCLUDED.storage_limit_mb, features = EXCLUDED.features,
			active = EXCLUDED.active, updated_at = EXCLUDED.updated_at
		RETURNING id`
	err = r.q.QueryRow(ctx, query,
		p.ID, p.Code, p.Name, p.Description, p.PriceMonthly, p.PriceYearly, p.UserLimit, p.ProductLimit,
		p.StorageLimitMB, features, p.Active, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("upsert plan: %w", err)
	}
	return nil
}
