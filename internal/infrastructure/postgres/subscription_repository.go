package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo suscripciones sobre PostgreSQL (usable con pool o tx).
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador de suscripciones.
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

const subscriptionColumns = `id, company_id, plan_id, billing_cycle, status, price, payment_method, starts_at,
	next_billing_date, auto_renew, cancelled_at, cancellation_reason, pending_downgrade, metadata, created_at, updated_at`

// Current la más reciente por creación es la autoritativa si hubiera duplicados.
func (r *SubscriptionRepo) Current(ctx context.Context) (*entity.Subscription, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
		WHERE company_id = $1 ORDER BY created_at DESC LIMIT 1`
	s, err := scanSubscription(r.q.QueryRow(ctx, query, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return s, nil
}

func scanSubscription(row pgx.Row) (*entity.Subscription, error) {
	var s entity.Subscription
	var pending, metadata []byte
	err := row.Scan(&s.ID, &s.CompanyID, &s.PlanID, &s.BillingCycle, &s.Status, &s.Price, &s.PaymentMethod,
		&s.StartsAt, &s.NextBillingDate, &s.AutoRenew, &s.CancelledAt, &s.CancellationReason,
		&pending, &metadata, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(pending) > 0 && string(pending) != "null" {
		s.PendingDowngrade = &entity.PendingDowngrade{}
		if err := unmarshalJSON(pending, s.PendingDowngrade); err != nil {
			return nil, err
		}
	}
	if err := unmarshalJSON(metadata, &s.Metadata); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save inserta o actualiza por ID. El UPDATE solo aplica a filas de la empresa del scope.
func (r *SubscriptionRepo) Save(ctx context.Context, s *entity.Subscription) error {
	companyID, err := tenant.Stamp(ctx, s.CompanyID)
	if err != nil {
		return err
	}
	s.CompanyID = companyID

	var pending []byte
	if s.PendingDowngrade != nil {
		if pending, err = marshalJSON(s.PendingDowngrade); err != nil {
			return err
		}
	}
	metadata, err := marshalJSON(s.Metadata)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			plan_id = EXCLUDED.plan_id, billing_cycle = EXCLUDED.billing_cycle, status = EXCLUDED.status,
			price = EXCLUDED.price, payment_method = EXCLUDED.payment_method, starts_at = EXCLUDED.starts_at,
			next_billing_date = EXCLUDED.next_billing_date, auto_renew = EXCLUDED.auto_renew,
			cancelled_at = EXCLUDED.cancelled_at, cancellation_reason = EXCLUDED.cancellation_reason,
			pending_downgrade = EXCLUDED.pending_downgrade, metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at
		WHERE subscriptions.company_id = EXCLUDED.company_id`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.PlanID, s.BillingCycle, s.Status, s.Price, s.PaymentMethod, s.StartsAt,
		s.NextBillingDate, s.AutoRenew, s.CancelledAt, s.CancellationReason, pending, metadata,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("save subscription: %w", tenant.ErrTenantMismatch)
	}
	return nil
}

// ListDueForRenewal consulta sin scope: la ejecuta el worker como principal de sistema.
// El texto de un uuid ordena igual que sus bytes, así que el cursor textual sigue el ORDER BY.
func (r *SubscriptionRepo) ListDueForRenewal(ctx context.Context, now time.Time, afterCompanyID string, limit int) ([]repository.DueRenewal, error) {
	const query = `
		SELECT DISTINCT ON (s.company_id) s.company_id, s.id
		  FROM subscriptions s
		  JOIN companies c ON c.id = s.company_id
		 WHERE s.status = 'active' AND s.auto_renew AND s.next_billing_date <= $1
		   AND c.active AND c.deleted_at IS NULL
		   AND s.company_id::text > $2
		 ORDER BY s.company_id, s.created_at DESC
		 LIMIT $3`
	rows, err := r.q.Query(ctx, query, now, afterCompanyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list due renewals: %w", err)
	}
	defer rows.Close()
	var list []repository.DueRenewal
	for rows.Next() {
		var d repository.DueRenewal
		if err := rows.Scan(&d.CompanyID, &d.SubscriptionID); err != nil {
			return nil, fmt.Errorf("scan due renewal: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
