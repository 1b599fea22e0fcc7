package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, company_id, name, email, password_hash, phone, roles, active, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var roles []string
	err := row.Scan(&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &roles,
		&u.Active, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Roles = make([]entity.Role, 0, len(roles))
	for _, r := range roles {
		if role, ok := entity.ParseRole(r); ok {
			u.Roles = append(u.Roles, role)
		}
	}
	return &u, nil
}

// Create persiste un nuevo usuario en la empresa del scope. El email es único global.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	companyID, err := tenant.Stamp(ctx, u.CompanyID)
	if err != nil {
		return err
	}
	u.CompanyID = companyID
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.q.Exec(ctx, query,
		u.ID, u.CompanyID, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Phone, u.RoleStrings(),
		u.Active, u.LastLoginAt, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario del scope por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND company_id = $2`, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// FindByEmail obtiene un usuario por email (cualquier company).
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update actualiza un usuario del scope.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE users SET name = $3, email = $4, password_hash = $5, phone = $6, roles = $7, active = $8, updated_at = $9
		WHERE id = $1 AND company_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		u.ID, companyID, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Phone, u.RoleStrings(), u.Active, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista usuarios del scope con paginación.
func (r *UserRepo) ListByCompany(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Delete elimina un usuario del scope.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TouchLogin registra el último acceso.
func (r *UserRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	companyID, err := scopeCompany(ctx)
	if err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, `UPDATE users SET last_login_at = $3 WHERE id = $1 AND company_id = $2`, id, companyID, at); err != nil {
		return fmt.Errorf("touch login: %w", err)
	}
	return nil
}
