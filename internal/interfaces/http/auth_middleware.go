package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
	"github.com/biznexa/biznexa-api/pkg/jwt"
)

// Locals keys para UserID y CompanyID en Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
)

// AuthMiddleware valida el Bearer Token JWT y deja el tenant del token en el
// UserContext del request; los casos de uso lo leen desde ahí.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fmt.Errorf("%w: header Authorization requerido", domain.ErrUnauthorized)
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fmt.Errorf("%w: formato esperado Bearer <token>", domain.ErrUnauthorized)
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return fmt.Errorf("%w: token vacío", domain.ErrUnauthorized)
		}
		p, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return fmt.Errorf("%w: token inválido o expirado", domain.ErrUnauthorized)
		}
		c.Locals(LocalUserID, p.UserID)
		c.Locals(LocalCompanyID, p.CompanyID)
		c.SetUserContext(tenant.WithScope(c.UserContext(), tenant.Scope{
			CompanyID: p.CompanyID,
			UserID:    p.UserID,
			Roles:     p.Roles,
		}))
		return c.Next()
	}
}

// RequirePermission exige que algún rol del token tenga el permiso.
// Debe ir después de AuthMiddleware.
func RequirePermission(p entity.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, ok := tenant.FromContext(c.UserContext())
		if !ok {
			return domain.ErrUnauthorized
		}
		roles := make([]entity.Role, 0, len(scope.Roles))
		for _, s := range scope.Roles {
			if r, ok := entity.ParseRole(s); ok {
				roles = append(roles, r)
			}
		}
		if !entity.AnyCan(roles, p) {
			return fmt.Errorf("%w: se requiere el permiso %s", domain.ErrForbidden, p)
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetCompanyID devuelve el CompanyID del contexto (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCompanyID).(string)
	return s
}
