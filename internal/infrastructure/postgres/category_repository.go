package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías del tenant sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, company_id, name, description, active, created_at, updated_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una categoría; el nombre es único por empresa.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	companyID, err := tenant.Stamp(ctx, c.CompanyID)
	if err != nil {
		return err
	}
	c.CompanyID = companyID
	_, err = r.q.Exec(ctx, `INSERT INTO categories (`+categoryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.CompanyID, c.Name, c.Description, c.Active, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría del scope.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByName obtiene una categoría del scope por nombre exacto.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, "name = $1", name)
}

func (r *CategoryRepo) getOne(ctx context.Context, cond string, arg any) (*entity.Category, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, err
	}
	c, err := scanCategory(r.q.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE `+cond+` AND company_id = $2`, arg, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Update actualiza una categoría del scope.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE categories SET name = $3, description = $4, active = $5, updated_at = $6
		WHERE id = $1 AND company_id = $2`,
		c.ID, companyID, c.Name, c.Description, c.Active, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany todas las categorías del scope por nombre.
func (r *CategoryRepo) ListByCompany(ctx context.Context) ([]*entity.Category, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Delete elimina una categoría; los productos quedan sin categoría (ON DELETE SET NULL).
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
