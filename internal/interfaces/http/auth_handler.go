package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biznexa/biznexa-api/internal/application/auth"
	"github.com/biznexa/biznexa-api/internal/application/dto"
)

// AuthHandler maneja registro, login y la cuenta del usuario autenticado.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar empresa y administrador
// @Description  Crea la empresa en trial del plan starter, el usuario admin, la tienda y las categorías por defecto.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "empresa y administrador"
// @Success      201   {object}  SuccessEnvelope{data=dto.AuthResponse}
// @Failure      422   {object}  ErrorEnvelope
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, "empresa registrada", out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  SuccessEnvelope{data=dto.AuthResponse}
// @Failure      401   {object}  ErrorEnvelope
// @Failure      403   {object}  ErrorEnvelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=dto.MeResponse}
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, out)
}

// UpdateProfile godoc
// @Summary      Actualizar perfil
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "nombre, email, teléfono"
// @Success      200   {object}  SuccessEnvelope{data=dto.UserResponse}
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateProfile(c.UserContext(), in)
	if err != nil {
		return err
	}
	return okMsg(c, "perfil actualizado", out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "contraseña actual y nueva"
// @Success      200   {object}  SuccessEnvelope
// @Failure      422   {object}  ErrorEnvelope
// @Router       /api/auth/change-password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	if err := h.uc.ChangePassword(c.UserContext(), in); err != nil {
		return err
	}
	return okMsg(c, "contraseña actualizada", nil)
}

// ForgotPassword godoc
// @Summary      Solicitar recuperación de contraseña
// @Description  Responde 200 exista o no el email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      200   {object}  SuccessEnvelope{data=dto.ForgotPasswordResponse}
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ForgotPassword(c.UserContext(), in)
	if err != nil {
		return err
	}
	return okMsg(c, "si el email existe se enviaron las instrucciones", out)
}

// ResetPassword godoc
// @Summary      Restablecer contraseña con el token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "token y nueva contraseña"
// @Success      200   {object}  SuccessEnvelope
// @Failure      422   {object}  ErrorEnvelope
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	if err := h.uc.ResetPassword(c.UserContext(), in); err != nil {
		return err
	}
	return okMsg(c, "contraseña restablecida", nil)
}
