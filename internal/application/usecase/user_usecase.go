package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
)

// UserUseCase usuarios de la empresa (settings/users). El alta respeta el límite del plan.
type UserUseCase struct {
	tx    TxRunner
	repo  repository.UserRepository
	usage repository.UsageRepository
	plans repository.PlanRepository
	now   func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(
	tx TxRunner,
	repo repository.UserRepository,
	usage repository.UsageRepository,
	plans repository.PlanRepository,
) *UserUseCase {
	return &UserUseCase{tx: tx, repo: repo, usage: usage, plans: plans, now: func() time.Time { return time.Now().UTC() }}
}

// List usuarios del tenant; Total es el conteo usado para el límite del plan.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	usage, err := uc.usage.Usage(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Items: make([]dto.UserResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: usage.Users},
	}
	for _, u := range list {
		out.Items = append(out.Items, dto.NewUserResponse(u))
	}
	return out, nil
}

// Create alta de un usuario; el email es único en todo el sistema.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	roles, err := parseRoles(in.Roles)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewValidationError("email", domain.ErrEmailAlreadyExists.Error())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Roles:        roles,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.RunLimited(ctx, func(
		companyRepo repository.CompanyRepository,
		usageRepo repository.UsageRepository,
		userRepo repository.UserRepository,
		_ repository.ProductRepository,
	) error {
		if err := checkLimit(ctx, companyRepo, usageRepo, uc.plans, resourceUsers); err != nil {
			return err
		}
		return userRepo.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.NewValidationError("email", err.Error())
		}
		return nil, err
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// Update nombre, teléfono, roles o estado. Un usuario no puede desactivarse a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if len(in.Roles) > 0 {
		roles, err := parseRoles(in.Roles)
		if err != nil {
			return nil, err
		}
		user.Roles = roles
	}
	if in.Active != nil {
		if !*in.Active && isSelf(ctx, user.ID) {
			return nil, domain.NewValidationError("active", "no puede desactivar su propio usuario")
		}
		user.Active = *in.Active
	}
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// Delete baja de un usuario del tenant distinto del que llama.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	if isSelf(ctx, id) {
		return domain.NewValidationError("id", "no puede eliminar su propio usuario")
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *UserUseCase) get(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func isSelf(ctx context.Context, userID string) bool {
	scope, ok := tenant.FromContext(ctx)
	return ok && scope.UserID == userID
}

func parseRoles(in []string) ([]entity.Role, error) {
	if len(in) == 0 {
		return nil, domain.NewValidationError("roles", "al menos un rol")
	}
	out := make([]entity.Role, 0, len(in))
	for _, s := range in {
		r, ok := entity.ParseRole(s)
		if !ok {
			return nil, domain.NewValidationError("roles", "rol desconocido: "+s)
		}
		out = append(out, r)
	}
	return out, nil
}
