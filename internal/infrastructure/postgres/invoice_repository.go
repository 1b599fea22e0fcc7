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
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.PaymentRepository = (*PaymentRepo)(nil)
	_ repository.UsageRepository   = (*UsageRepo)(nil)
)

// InvoiceRepo facturas de suscripción sobre PostgreSQL (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de facturas.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, subscription_id, number, amount, tax, total, currency, status,
	due_date, paid_at, payment_id, items, created_at, updated_at`

// Create persiste la factura con sus ítems (JSONB).
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	companyID, err := tenant.Stamp(ctx, inv.CompanyID)
	if err != nil {
		return err
	}
	inv.CompanyID = companyID
	items, err := marshalJSON(inv.Items)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, nullable(inv.SubscriptionID), inv.Number, inv.Amount, inv.Tax, inv.Total,
		inv.Currency, inv.Status, inv.DueDate, inv.PaidAt, inv.PaymentID, items, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var subscriptionID *string
	var items []byte
	err := row.Scan(&inv.ID, &inv.CompanyID, &subscriptionID, &inv.Number, &inv.Amount, &inv.Tax, &inv.Total,
		&inv.Currency, &inv.Status, &inv.DueDate, &inv.PaidAt, &inv.PaymentID, &items, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.SubscriptionID = derefString(subscriptionID)
	if err := unmarshalJSON(items, &inv.Items); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByID una factura de otra empresa es indistinguible de una inexistente.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND company_id = $2`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List facturas del scope con filtros; devuelve también el total sin paginar.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, 0, err
	}
	w := newWhere("company_id = $1", companyID)
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.StartDate != nil {
		w.add("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		w.add("created_at < ?", *f.EndDate)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM invoices`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	pageSQL, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices`+w.String()+` ORDER BY created_at DESC`+pageSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// CountForDay cuenta por prefijo de número para que la secuencia siga el día del número, no el huso de created_at.
func (r *InvoiceRepo) CountForDay(ctx context.Context, day time.Time) (int, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return 0, err
	}
	prefix := "INV-" + day.Format("20060102") + "-%"
	var n int
	err = r.q.QueryRow(ctx, `SELECT count(*) FROM invoices WHERE company_id = $1 AND number LIKE $2`, companyID, prefix).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invoices for day: %w", err)
	}
	return n, nil
}

// MarkPaid solo transiciona facturas pendientes del scope.
func (r *InvoiceRepo) MarkPaid(ctx context.Context, id, paymentID string, paidAt time.Time) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE invoices SET status = 'paid', paid_at = $3, payment_id = $4, updated_at = $3
		WHERE id = $1 AND company_id = $2 AND status = 'pending'`,
		id, companyID, paidAt, paymentID,
	)
	if err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvoiceAlreadyPaid
	}
	return nil
}

// PaymentRepo cobros registrados.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador de pagos.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create registra un cobro autorizado.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	companyID, err := tenant.Stamp(ctx, p.CompanyID)
	if err != nil {
		return err
	}
	p.CompanyID = companyID
	_, err = r.q.Exec(ctx, `
		INSERT INTO payments (id, company_id, invoice_id, transaction_id, amount, currency, method, status, purpose, simulated, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.CompanyID, nullable(p.InvoiceID), p.TransactionID, p.Amount, p.Currency, p.Method, p.Status,
		p.Purpose, p.Simulated, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// UsageRepo consumo de recursos del tenant.
type UsageRepo struct {
	q Querier
}

// NewUsageRepository construye el adaptador de uso.
func NewUsageRepository(q Querier) *UsageRepo {
	return &UsageRepo{q: q}
}

// Usage usuarios y productos activos más el storage informado por el servicio de archivos.
func (r *UsageRepo) Usage(ctx context.Context) (entity.Usage, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return entity.Usage{}, err
	}
	const query = `
		SELECT (SELECT count(*) FROM users WHERE company_id = $1 AND active),
		       (SELECT count(*) FROM products WHERE company_id = $1 AND active),
		       (SELECT storage_used_mb FROM companies WHERE id = $1)`
	var u entity.Usage
	if err := r.q.QueryRow(ctx, query, companyID).Scan(&u.Users, &u.Products, &u.StorageMB); err != nil {
		return entity.Usage{}, fmt.Errorf("usage: %w", err)
	}
	return u, nil
}
