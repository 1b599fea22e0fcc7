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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas del PDV sobre PostgreSQL. Create debe correr dentro de una tx (cabecera + ítems).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, company_id, number, cashier_id, customer_name, customer_email, customer_phone,
	customer_tax_id, type, status, subtotal, tax_amount, discount_amount, total_amount, amount_paid,
	change_amount, payment_method, notes, cancelled_at, created_at, updated_at`

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.CompanyID, &s.Number, &s.CashierID, &s.Customer.Name, &s.Customer.Email,
		&s.Customer.Phone, &s.Customer.TaxID, &s.Type, &s.Status, &s.Subtotal, &s.TaxAmount, &s.DiscountAmount,
		&s.TotalAmount, &s.AmountPaid, &s.ChangeAmount, &s.PaymentMethod, &s.Notes, &s.CancelledAt,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la venta y sus ítems.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	companyID, err := tenant.Stamp(ctx, s.CompanyID)
	if err != nil {
		return err
	}
	s.CompanyID = companyID
	_, err = r.q.Exec(ctx, `INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		s.ID, s.CompanyID, s.Number, s.CashierID, s.Customer.Name, s.Customer.Email, s.Customer.Phone,
		s.Customer.TaxID, s.Type, s.Status, s.Subtotal, s.TaxAmount, s.DiscountAmount, s.TotalAmount,
		s.AmountPaid, s.ChangeAmount, s.PaymentMethod, s.Notes, s.CancelledAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, product_name, quantity, unit_price, tax_rate, subtotal, tax_amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, s.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.TaxRate, it.Subtotal, it.TaxAmount,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID venta del scope con sus ítems.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, id, "")
}

// GetByIDForUpdate bloquea la cabecera (cancelación).
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, id, " FOR UPDATE")
}

func (r *SaleRepo) getOne(ctx context.Context, id, lock string) (*entity.Sale, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, err
	}
	s, err := scanSale(r.q.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1 AND company_id = $2`+lock, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, product_name, quantity, unit_price, tax_rate, subtotal, tax_amount
		FROM sale_items WHERE sale_id = $1 ORDER BY product_name`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice,
			&it.TaxRate, &it.Subtotal, &it.TaxAmount); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// List historial de ventas del scope (sin ítems).
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, 0, err
	}
	w := newWhere("company_id = $1", companyID)
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at < ?", *f.To)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.PaymentMethod != "" {
		w.add("payment_method = ?", f.PaymentMethod)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM sales`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	pageSQL, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales`+w.String()+` ORDER BY created_at DESC`+pageSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// LockNumbering advisory lock por empresa liberado al commit/rollback. Dos ventas
// concurrentes de productos distintos no bloquean filas comunes y leerían el mismo conteo.
func (r *SaleRepo) LockNumbering(ctx context.Context) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, "sales:"+companyID); err != nil {
		return fmt.Errorf("lock sale numbering: %w", err)
	}
	return nil
}

// CountForDay ventas ya numeradas en el día.
func (r *SaleRepo) CountForDay(ctx context.Context, day time.Time) (int, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.q.QueryRow(ctx, `SELECT count(*) FROM sales WHERE company_id = $1 AND number LIKE $2`,
		companyID, "INV-"+day.Format("20060102")+"-%").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sales for day: %w", err)
	}
	return n, nil
}

// MarkCancelled solo transiciona ventas completadas.
func (r *SaleRepo) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET status = 'cancelled', cancelled_at = $3, updated_at = $3
		WHERE id = $1 AND company_id = $2 AND status = 'completed'`, id, companyID, at)
	if err != nil {
		return fmt.Errorf("cancel sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSaleAlreadyCancelled
	}
	return nil
}

// Summary cantidad y total de ventas completadas en [from, to).
func (r *SaleRepo) Summary(ctx context.Context, from, to time.Time) (repository.SalesSummary, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return repository.SalesSummary{}, err
	}
	var s repository.SalesSummary
	err = r.q.QueryRow(ctx, `
		SELECT count(*), COALESCE(sum(total_amount), 0)
		FROM sales WHERE company_id = $1 AND status = 'completed' AND created_at >= $2 AND created_at < $3`,
		companyID, from, to).Scan(&s.Count, &s.Total)
	if err != nil {
		return repository.SalesSummary{}, fmt.Errorf("sales summary: %w", err)
	}
	return s, nil
}
