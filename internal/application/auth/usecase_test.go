package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biznexa/biznexa-api/internal/application/auth"
	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
	"github.com/biznexa/biznexa-api/internal/infrastructure/cache"
	"github.com/biznexa/biznexa-api/pkg/jwt"
)

const secret = "test-secret"

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newUseCase(d *db, expose bool) *auth.AuthUseCase {
	plans := planRepo{plans: []*entity.Plan{{ID: "plan-starter", Code: entity.PlanStarter, Name: "Starter"}}}
	return auth.NewAuthUseCase(
		registrationTx{d}, userRepo{d}, companyRepo{d}, plans,
		cache.NewResetTokens(cache.NewMemoryStore()),
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "biznexa"},
		auth.Options{TrialDays: 14, ExposeResetToken: expose},
		nil,
	).WithClock(func() time.Time { return fixedNow })
}

func registerReq(company, email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		CompanyName: company,
		State:       "sp",
		Name:        "Maria Souza",
		Email:       email,
		Password:    "segredo123",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreatesTenantWithTrial(t *testing.T) {
	d := newDB()
	uc := newUseCase(d, false)

	out, err := uc.Register(context.Background(), registerReq("Loja da Conceição", "Maria@Exemplo.com "))
	require.NoError(t, err)

	assert.Equal(t, "maria@exemplo.com", out.User.Email)
	assert.Equal(t, []string{"admin"}, out.User.Roles)
	assert.Equal(t, "plan-starter", out.Company.PlanID)
	assert.Equal(t, "SP", out.Company.State)
	assert.Equal(t, entity.DefaultCurrency, out.Company.Currency)
	require.NotNil(t, out.Company.SubscriptionEndsAt)
	assert.Equal(t, fixedNow.AddDate(0, 0, 14), *out.Company.SubscriptionEndsAt)

	require.Len(t, d.stores, 1)
	assert.Equal(t, "loja-da-conceicao", d.stores[0].Slug)
	assert.Equal(t, out.Company.ID, d.stores[0].CompanyID)
	require.Len(t, d.categories, 2)
	assert.Equal(t, "Geral", d.categories[0].Name)

	p, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, p.UserID)
	assert.Equal(t, out.Company.ID, p.CompanyID)
}

func TestRegister_SlugCollisionGetsSuffix(t *testing.T) {
	d := newDB()
	uc := newUseCase(d, false)
	ctx := context.Background()

	_, err := uc.Register(ctx, registerReq("Padaria Central", "a@exemplo.com"))
	require.NoError(t, err)
	_, err = uc.Register(ctx, registerReq("Padaria Central", "b@exemplo.com"))
	require.NoError(t, err)

	require.Len(t, d.stores, 2)
	assert.Equal(t, "padaria-central-2", d.stores[1].Slug)
	assert.NotEqual(t, d.stores[0].CompanyID, d.stores[1].CompanyID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	d := newDB()
	uc := newUseCase(d, false)
	ctx := context.Background()

	_, err := uc.Register(ctx, registerReq("Uma", "dup@exemplo.com"))
	require.NoError(t, err)
	_, err = uc.Register(ctx, registerReq("Outra", "DUP@exemplo.com"))

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")
	assert.Len(t, d.companies, 1)
}

func TestRegister_FailureLeavesNothing(t *testing.T) {
	d := newDB()
	d.failStore = errors.New("db caída")
	uc := newUseCase(d, false)

	_, err := uc.Register(context.Background(), registerReq("Loja", "x@exemplo.com"))
	require.Error(t, err)
	assert.Empty(t, d.companies)
	assert.Empty(t, d.users)
	assert.Empty(t, d.categories)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	d := newDB()
	uc := newUseCase(d, false)
	ctx := context.Background()
	reg, err := uc.Register(ctx, registerReq("Loja", "login@exemplo.com"))
	require.NoError(t, err)

	t.Run("credenciales válidas", func(t *testing.T) {
		out, err := uc.Login(ctx, dto.LoginRequest{Email: "LOGIN@exemplo.com", Password: "segredo123"})
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, out.User.ID)
		require.NotNil(t, out.User.LastLoginAt)
		assert.Equal(t, fixedNow, *d.users[reg.User.ID].LastLoginAt)
	})

	t.Run("password incorrecto", func(t *testing.T) {
		_, err := uc.Login(ctx, dto.LoginRequest{Email: "login@exemplo.com", Password: "otro"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("email inexistente", func(t *testing.T) {
		_, err := uc.Login(ctx, dto.LoginRequest{Email: "nadie@exemplo.com", Password: "segredo123"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("empresa vencida puede entrar", func(t *testing.T) {
		past := fixedNow.AddDate(0, 0, -1)
		d.companies[reg.Company.ID].SubscriptionEndsAt = &past
		_, err := uc.Login(ctx, dto.LoginRequest{Email: "login@exemplo.com", Password: "segredo123"})
		assert.NoError(t, err)
	})

	t.Run("empresa deshabilitada", func(t *testing.T) {
		d.companies[reg.Company.ID].Active = false
		defer func() { d.companies[reg.Company.ID].Active = true }()
		_, err := uc.Login(ctx, dto.LoginRequest{Email: "login@exemplo.com", Password: "segredo123"})
		assert.ErrorIs(t, err, domain.ErrCompanyDisabled)
	})

	t.Run("usuario inactivo", func(t *testing.T) {
		d.users[reg.User.ID].Active = false
		defer func() { d.users[reg.User.ID].Active = true }()
		_, err := uc.Login(ctx, dto.LoginRequest{Email: "login@exemplo.com", Password: "segredo123"})
		assert.ErrorIs(t, err, domain.ErrUserInactive)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Cuenta del usuario autenticado
// ──────────────────────────────────────────────────────────────────────────────

func scoped(out *dto.AuthResponse) context.Context {
	return tenant.WithScope(context.Background(), tenant.Scope{
		CompanyID: out.Company.ID, UserID: out.User.ID, Roles: out.User.Roles,
	})
}

func TestMe_IncludesPlanAndPermissions(t *testing.T) {
	d := newDB()
	uc := newUseCase(d, false)
	reg, err := uc.Register(context.Background(), registerReq("Loja", "me@exemplo.com"))
	require.NoError(t, err)

	me, err := uc.Me(scoped(reg))
	require.NoError(t, err)
	require.NotNil(t, me.Plan)
	assert.Equal(t, entity.PlanStarter, me.Plan.Code)
	assert.Contains(t, me.Permissions, string(entity.PermBillingManage))
	assert.Len(t, me.Permissions, len(entity.PermissionsOf([]entity.Role{entity.RoleAdmin})))

	_, err = uc.Me(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUpdateProfile(t *testing.T) {
	d := newDB()
	uc := newUseCase(d, false)
	ctx := context.Background()
	a, err := uc.Register(ctx, registerReq("A", "a@exemplo.com"))
	require.NoError(t, err)
	_, err = uc.Register(ctx, registerReq("B", "b@exemplo.com"))
	require.NoError(t, err)

	name := "Ana Lima"
	out, err := uc.UpdateProfile(scoped(a), dto.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", out.Name)

	taken := "B@exemplo.com"
	_, err = uc.UpdateProfile(scoped(a), dto.UpdateProfileRequest{Email: &taken})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")
}

func TestChangePassword(t *testing.T) {
	d := newDB()
	uc := newUseCase(d, false)
	ctx := context.Background()
	reg, err := uc.Register(ctx, registerReq("Loja", "pw@exemplo.com"))
	require.NoError(t, err)

	err = uc.ChangePassword(scoped(reg), dto.ChangePasswordRequest{CurrentPassword: "errado", NewPassword: "novasenha1"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "current_password")

	require.NoError(t, uc.ChangePassword(scoped(reg), dto.ChangePasswordRequest{CurrentPassword: "segredo123", NewPassword: "novasenha1"}))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "pw@exemplo.com", Password: "novasenha1"})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recuperación de password
// ──────────────────────────────────────────────────────────────────────────────

func TestForgotAndResetPassword(t *testing.T) {
	d := newDB()
	uc := newUseCase(d, true)
	ctx := context.Background()
	_, err := uc.Register(ctx, registerReq("Loja", "reset@exemplo.com"))
	require.NoError(t, err)

	unknown, err := uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "nadie@exemplo.com"})
	require.NoError(t, err)
	assert.Empty(t, unknown.ResetToken)

	out, err := uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "reset@exemplo.com"})
	require.NoError(t, err)
	require.Len(t, out.ResetToken, 64)

	require.NoError(t, uc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: out.ResetToken, Password: "outrasenha"}))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "reset@exemplo.com", Password: "outrasenha"})
	assert.NoError(t, err)

	err = uc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: out.ResetToken, Password: "terceira1"})
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
}

func TestForgotPassword_HidesTokenInProduction(t *testing.T) {
	d := newDB()
	uc := newUseCase(d, false)
	ctx := context.Background()
	_, err := uc.Register(ctx, registerReq("Loja", "prod@exemplo.com"))
	require.NoError(t, err)

	out, err := uc.ForgotPassword(ctx, dto.ForgotPasswordRequest{Email: "prod@exemplo.com"})
	require.NoError(t, err)
	assert.Empty(t, out.ResetToken)
}
