package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
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
	"github.com/biznexa/biznexa-api/pkg/jwt"
	"github.com/biznexa/biznexa-api/pkg/logger"
	"github.com/biznexa/biznexa-api/pkg/slug"
)

// ResetTokenTTL vigencia de un token de recuperación de password.
const ResetTokenTTL = time.Hour

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Options parámetros de negocio del alta y la recuperación.
type Options struct {
	TrialDays int
	// ExposeResetToken devuelve el token en la respuesta de forgot-password (fuera de producción).
	ExposeResetToken bool
}

// AuthUseCase registro de empresas, login y gestión de la cuenta del usuario autenticado.
type AuthUseCase struct {
	tx        TxRunner
	users     repository.UserRepository
	companies repository.CompanyRepository
	plans     repository.PlanRepository
	resets    ResetTokenStore
	jwtCfg    JWTConfig
	opts      Options
	log       *logger.Logger
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	tx TxRunner,
	users repository.UserRepository,
	companies repository.CompanyRepository,
	plans repository.PlanRepository,
	resets ResetTokenStore,
	jwtCfg JWTConfig,
	opts Options,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		tx:        tx,
		users:     users,
		companies: companies,
		plans:     plans,
		resets:    resets,
		jwtCfg:    jwtCfg,
		opts:      opts,
		log:       log.Component("auth"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

// Register crea la empresa en período de prueba del plan starter, su usuario admin,
// la tienda con slug único y las categorías por defecto. Devuelve el token del admin.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewValidationError("email", domain.ErrEmailAlreadyExists.Error())
	}
	starter, err := uc.plans.GetByCode(ctx, entity.PlanStarter)
	if err != nil {
		return nil, err
	}
	if starter == nil {
		return nil, fmt.Errorf("plan %q no encontrado: %w", entity.PlanStarter, domain.ErrNotFound)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := uc.now()
	trialEnds := now.AddDate(0, 0, uc.opts.TrialDays)
	company := &entity.Company{
		ID:                 uuid.New().String(),
		Name:               strings.TrimSpace(in.CompanyName),
		TaxID:              in.TaxID,
		Email:              email,
		Phone:              in.Phone,
		City:               in.City,
		State:              strings.ToUpper(in.State),
		Country:            entity.DefaultCountry,
		Timezone:           entity.DefaultTimezone,
		Currency:           entity.DefaultCurrency,
		Language:           entity.DefaultLanguage,
		Active:             true,
		PlanID:             starter.ID,
		SubscriptionEndsAt: &trialEnds,
		Settings:           entity.CompanySettings{Notifications: entity.DefaultNotificationSettings()},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Roles:        []entity.Role{entity.RoleAdmin},
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	ctx = tenant.WithScope(ctx, tenant.Scope{CompanyID: company.ID, UserID: user.ID, Roles: user.RoleStrings()})

	err = uc.tx.RunRegistration(ctx, func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
		storeRepo repository.StoreRepository,
		categoryRepo repository.CategoryRepository,
	) error {
		if err := companyRepo.Create(ctx, company); err != nil {
			return err
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		storeSlug, err := uniqueSlug(ctx, storeRepo, company.Name)
		if err != nil {
			return err
		}
		store := &entity.Store{
			ID:        uuid.New().String(),
			CompanyID: company.ID,
			Name:      company.Name,
			Slug:      storeSlug,
			Settings:  entity.DefaultStorefrontSettings(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := storeRepo.Create(ctx, store); err != nil {
			return err
		}
		for _, name := range entity.DefaultCategories {
			cat := &entity.Category{
				ID:        uuid.New().String(),
				CompanyID: company.ID,
				Name:      name,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := categoryRepo.Create(ctx, cat); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.NewValidationError("email", domain.ErrEmailAlreadyExists.Error())
		}
		return nil, err
	}
	uc.log.Info().Str("company_id", company.ID).Str("user_id", user.ID).Msg("empresa registrada")
	return uc.authResponse(user, company)
}

// Login valida credenciales. Una empresa vencida puede entrar (para pagar); una deshabilitada no.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrUserInactive
	}
	ctx = tenant.WithScope(ctx, tenant.Scope{CompanyID: user.CompanyID, UserID: user.ID, Roles: user.RoleStrings()})
	company, err := uc.companies.Current(ctx)
	if err != nil {
		return nil, err
	}
	if company == nil || !company.Active || company.DeletedAt != nil {
		return nil, domain.ErrCompanyDisabled
	}
	now := uc.now()
	if err := uc.users.TouchLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	return uc.authResponse(user, company)
}

// Me usuario del token con su empresa, plan y permisos efectivos.
func (uc *AuthUseCase) Me(ctx context.Context) (*dto.MeResponse, error) {
	user, err := uc.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	company, err := uc.companies.Current(ctx)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	out := &dto.MeResponse{
		User:        dto.NewUserResponse(user),
		Company:     dto.NewCompanyResponse(company),
		Permissions: []string{},
	}
	if company.PlanID != "" {
		plan, err := uc.plans.GetByID(ctx, company.PlanID)
		if err != nil {
			return nil, err
		}
		if plan != nil {
			pr := dto.NewPlanResponse(plan)
			out.Plan = &pr
		}
	}
	for _, p := range entity.PermissionsOf(user.Roles) {
		out.Permissions = append(out.Permissions, string(p))
	}
	return out, nil
}

// UpdateProfile cambia nombre, email o teléfono del usuario autenticado.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != user.Email {
			other, err := uc.users.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != user.ID {
				return nil, domain.NewValidationError("email", domain.ErrEmailAlreadyExists.Error())
			}
			user.Email = email
		}
	}
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return nil, domain.NewValidationError("email", err.Error())
		}
		return nil, err
	}
	out := dto.NewUserResponse(user)
	return &out, nil
}

// ChangePassword exige el password actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, in dto.ChangePasswordRequest) error {
	user, err := uc.currentUser(ctx)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return domain.NewValidationError("current_password", "el password actual es incorrecto")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = uc.now()
	return uc.users.Update(ctx, user)
}

// ForgotPassword emite un token de un solo uso. La respuesta no revela si el email existe.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) (*dto.ForgotPasswordResponse, error) {
	out := &dto.ForgotPasswordResponse{}
	user, err := uc.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return out, nil
	}
	token, err := newResetToken()
	if err != nil {
		return nil, err
	}
	if err := uc.resets.Save(ctx, token, ResetRef{UserID: user.ID, CompanyID: user.CompanyID}, ResetTokenTTL); err != nil {
		return nil, fmt.Errorf("save reset token: %w", err)
	}
	uc.log.Info().Str("user_id", user.ID).Msg("token de recuperación emitido")
	if uc.opts.ExposeResetToken {
		out.ResetToken = token
	}
	return out, nil
}

// ResetPassword consume el token y reemplaza el password.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	ref, err := uc.resets.Consume(ctx, in.Token)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if ref == nil {
		return domain.ErrInvalidResetToken
	}
	ctx = tenant.WithCompany(ctx, ref.CompanyID)
	user, err := uc.users.GetByID(ctx, ref.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrInvalidResetToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = uc.now()
	return uc.users.Update(ctx, user)
}

func (uc *AuthUseCase) currentUser(ctx context.Context) (*entity.User, error) {
	scope, ok := tenant.FromContext(ctx)
	if !ok || scope.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByID(ctx, scope.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *AuthUseCase) authResponse(user *entity.User, company *entity.Company) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Principal{
		UserID:    user.ID,
		CompanyID: company.ID,
		Roles:     user.RoleStrings(),
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &dto.AuthResponse{
		Token:   token,
		User:    dto.NewUserResponse(user),
		Company: dto.NewCompanyResponse(company),
	}, nil
}

// uniqueSlug slug de la tienda; ante colisión agrega -2, -3, ...
func uniqueSlug(ctx context.Context, stores repository.StoreRepository, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "loja"
	}
	for n := 1; ; n++ {
		candidate := slug.WithSuffix(base, n)
		taken, err := stores.SlugTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
