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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, category_id, sku, barcode, name, description, price, cost, tax_rate,
	stock, min_stock, unit, active, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.CompanyID, &p.CategoryID, &p.SKU, &p.Barcode, &p.Name, &p.Description,
		&p.Price, &p.Cost, &p.TaxRate, &p.Stock, &p.MinStock, &p.Unit, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo producto en la empresa del scope.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	companyID, err := tenant.Stamp(ctx, p.CompanyID)
	if err != nil {
		return err
	}
	p.CompanyID = companyID
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.CategoryID, p.SKU, p.Barcode, p.Name, p.Description, p.Price, p.Cost, p.TaxRate,
		p.Stock, p.MinStock, p.Unit, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del scope por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "id = $1", id, "")
}

// GetByIDForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, "id = $1", id, " FOR UPDATE")
}

// GetBySKU obtiene un producto del scope por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, "sku = $1", sku, "")
}

func (r *ProductRepo) getOne(ctx context.Context, cond string, arg any, lock string) (*entity.Product, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + cond + ` AND company_id = $2` + lock
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza un producto del scope.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE products SET category_id = $3, sku = $4, barcode = $5, name = $6, description = $7, price = $8,
			cost = $9, tax_rate = $10, stock = $11, min_stock = $12, unit = $13, active = $14, updated_at = $15
		WHERE id = $1 AND company_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, companyID, p.CategoryID, p.SKU, p.Barcode, p.Name, p.Description, p.Price,
		p.Cost, p.TaxRate, p.Stock, p.MinStock, p.Unit, p.Active, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock suma delta al stock. El caso de uso valida el saldo con la fila bloqueada.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock = stock + $3, updated_at = now() WHERE id = $1 AND company_id = $2`,
		id, companyID, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos del scope con filtros y paginación.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, 0, err
	}
	w := newWhere("company_id = $1", companyID)
	if f.Search != "" {
		w.add("(name ILIKE ? OR sku ILIKE $2 OR barcode ILIKE $2)", "%"+f.Search+"%")
	}
	if f.CategoryID != "" {
		w.add("category_id = ?", f.CategoryID)
	}
	if f.Active != nil {
		w.add("active = ?", *f.Active)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	pageSQL, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products`+w.String()+` ORDER BY name`+pageSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	list, err := scanProducts(rows)
	return list, total, err
}

// ListLowStock productos activos con stock <= min_stock.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products
		WHERE company_id = $1 AND active AND stock <= min_stock ORDER BY stock`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return scanProducts(rows)
}

// Delete elimina un producto del scope.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict // tiene ventas asociadas
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
