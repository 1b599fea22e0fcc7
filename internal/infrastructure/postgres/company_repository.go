package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL (usable con pool o tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, legal_name, tax_id, email, phone, website, address, city, state, country,
	postal_code, timezone, currency, language, active, plan_id, subscription_ends_at, storage_used_mb,
	settings, created_at, updated_at, deleted_at`

// Create persiste una nueva empresa. El ID es el tenant del scope.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	id, err := tenant.Stamp(ctx, c.ID)
	if err != nil {
		return err
	}
	c.ID = id
	settings, err := marshalJSON(c.Settings)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err = r.q.Exec(ctx, query,
		c.ID, c.Name, c.LegalName, c.TaxID, c.Email, c.Phone, c.Website, c.Address, c.City, c.State, c.Country,
		c.PostalCode, c.Timezone, c.Currency, c.Language, c.Active, c.PlanID, c.SubscriptionEndsAt, c.StorageUsedMB,
		settings, c.CreatedAt, c.UpdatedAt, c.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// Current obtiene la empresa del scope.
func (r *CompanyRepo) Current(ctx context.Context) (*entity.Company, error) {
	return r.current(ctx, "")
}

// CurrentForUpdate obtiene la empresa y bloquea la fila (SELECT FOR UPDATE).
func (r *CompanyRepo) CurrentForUpdate(ctx context.Context) (*entity.Company, error) {
	return r.current(ctx, " FOR UPDATE")
}

func (r *CompanyRepo) current(ctx context.Context, lock string) (*entity.Company, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1 AND deleted_at IS NULL` + lock
	c, err := scanCompany(r.q.QueryRow(ctx, query, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	var settings []byte
	err := row.Scan(
		&c.ID, &c.Name, &c.LegalName, &c.TaxID, &c.Email, &c.Phone, &c.Website, &c.Address, &c.City, &c.State,
		&c.Country, &c.PostalCode, &c.Timezone, &c.Currency, &c.Language, &c.Active, &c.PlanID,
		&c.SubscriptionEndsAt, &c.StorageUsedMB, &settings, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSON(settings, &c.Settings); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update actualiza perfil, plan y vencimiento. Settings tiene su propio método.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE companies SET name = $2, legal_name = $3, tax_id = $4, email = $5, phone = $6, website = $7,
			address = $8, city = $9, state = $10, country = $11, postal_code = $12, timezone = $13,
			currency = $14, language = $15, active = $16, plan_id = $17, subscription_ends_at = $18, updated_at = $19
		WHERE id = $1 AND deleted_at IS NULL`
	_, err = r.q.Exec(ctx, query,
		companyID, c.Name, c.LegalName, c.TaxID, c.Email, c.Phone, c.Website,
		c.Address, c.City, c.State, c.Country, c.PostalCode, c.Timezone,
		c.Currency, c.Language, c.Active, c.PlanID, c.SubscriptionEndsAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// UpdateSettings reemplaza el JSONB de settings.
func (r *CompanyRepo) UpdateSettings(ctx context.Context, settings entity.CompanySettings) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	doc, err := marshalJSON(settings)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx,
		`UPDATE companies SET settings = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		companyID, doc,
	)
	if err != nil {
		return fmt.Errorf("update company settings: %w", err)
	}
	return nil
}

// Access lee estado, vencimiento y plan en una sola sentencia.
func (r *CompanyRepo) Access(ctx context.Context) (*entity.CompanyAccess, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, err
	}
	const query = `
		SELECT c.id, c.active, c.subscription_ends_at, c.plan_id, p.code
		  FROM companies c
		  JOIN plans p ON p.id = c.plan_id
		 WHERE c.id = $1 AND c.deleted_at IS NULL`
	var a entity.CompanyAccess
	err = r.q.QueryRow(ctx, query, companyID).Scan(&a.CompanyID, &a.Active, &a.SubscriptionEndsAt, &a.PlanID, &a.PlanCode)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("company access: %w", err)
	}
	return &a, nil
}
