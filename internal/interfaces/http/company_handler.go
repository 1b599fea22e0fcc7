package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/application/usecase"
)

// SettingsHandler perfil de la empresa, settings tipados y usuarios del tenant.
type SettingsHandler struct {
	company *usecase.CompanyUseCase
	users   *usecase.UserUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(company *usecase.CompanyUseCase, users *usecase.UserUseCase) *SettingsHandler {
	return &SettingsHandler{company: company, users: users}
}

// GetCompany godoc
// @Summary      Datos de la empresa
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=dto.CompanyResponse}
// @Router       /api/settings/company [get]
func (h *SettingsHandler) GetCompany(c *fiber.Ctx) error {
	out, err := h.company.Get(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, out)
}

// UpdateCompany godoc
// @Summary      Actualizar datos de la empresa
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateCompanyRequest  true  "campos del perfil"
// @Success      200   {object}  SuccessEnvelope{data=dto.CompanyResponse}
// @Failure      422   {object}  ErrorEnvelope
// @Router       /api/settings/company [put]
func (h *SettingsHandler) UpdateCompany(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.company.Update(c.UserContext(), in)
	if err != nil {
		return err
	}
	return okMsg(c, "empresa actualizada", out)
}

// Notifications godoc
// @Summary      Preferencias de notificación
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=dto.NotificationSettingsDTO}
// @Router       /api/settings/notifications [get]
func (h *SettingsHandler) Notifications(c *fiber.Ctx) error {
	out, err := h.company.Notifications(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, out)
}

// UpdateNotifications godoc
// @Summary      Actualizar preferencias de notificación
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NotificationSettingsDTO  true  "preferencias"
// @Success      200   {object}  SuccessEnvelope{data=dto.NotificationSettingsDTO}
// @Router       /api/settings/notifications [put]
func (h *SettingsHandler) UpdateNotifications(c *fiber.Ctx) error {
	var in dto.NotificationSettingsDTO
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.company.UpdateNotifications(c.UserContext(), in)
	if err != nil {
		return err
	}
	return okMsg(c, "notificaciones actualizadas", out)
}

// Integrations godoc
// @Summary      Integraciones (tokens enmascarados)
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=dto.IntegrationSettingsDTO}
// @Router       /api/settings/integrations [get]
func (h *SettingsHandler) Integrations(c *fiber.Ctx) error {
	out, err := h.company.Integrations(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, out)
}

// UpdateIntegrations godoc
// @Summary      Actualizar integraciones
// @Description  Un campo omitido conserva el valor guardado; "" lo borra.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IntegrationSettingsDTO  true  "credenciales"
// @Success      200   {object}  SuccessEnvelope{data=dto.IntegrationSettingsDTO}
// @Router       /api/settings/integrations [put]
func (h *SettingsHandler) UpdateIntegrations(c *fiber.Ctx) error {
	var in dto.IntegrationSettingsDTO
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.company.UpdateIntegrations(c.UserContext(), in)
	if err != nil {
		return err
	}
	return okMsg(c, "integraciones actualizadas", out)
}

// ListUsers godoc
// @Summary      Usuarios de la empresa
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  SuccessEnvelope{data=dto.UserListResponse}
// @Router       /api/settings/users [get]
func (h *SettingsHandler) ListUsers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return err
	}
	out, err := h.users.List(c.UserContext(), page)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// CreateUser godoc
// @Summary      Crear usuario
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "datos del usuario"
// @Success      201   {object}  SuccessEnvelope{data=dto.UserResponse}
// @Failure      422   {object}  ErrorEnvelope  "validación o límite del plan"
// @Router       /api/settings/users [post]
func (h *SettingsHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.users.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, "usuario creado", out)
}

// UpdateUser godoc
// @Summary      Actualizar usuario
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "campos a actualizar"
// @Success      200   {object}  SuccessEnvelope{data=dto.UserResponse}
// @Failure      404   {object}  ErrorEnvelope
// @Router       /api/settings/users/{id} [put]
func (h *SettingsHandler) UpdateUser(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.users.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return okMsg(c, "usuario actualizado", out)
}

// DeleteUser godoc
// @Summary      Eliminar usuario
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  SuccessEnvelope
// @Failure      422  {object}  ErrorEnvelope  "no puede eliminarse a sí mismo"
// @Router       /api/settings/users/{id} [delete]
func (h *SettingsHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return okMsg(c, "usuario eliminado", nil)
}
