package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/application/usecase"
)

// StoreHandler tienda online del tenant.
type StoreHandler struct {
	uc *usecase.StoreUseCase
}

// NewStoreHandler construye el handler.
func NewStoreHandler(uc *usecase.StoreUseCase) *StoreHandler {
	return &StoreHandler{uc: uc}
}

// Get godoc
// @Summary      Tienda del tenant
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=dto.StoreResponse}
// @Router       /api/store [get]
func (h *StoreHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Update godoc
// @Summary      Actualizar tienda
// @Tags         store
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateStoreRequest  true  "nombre, slug, descripción y settings"
// @Success      200   {object}  SuccessEnvelope{data=dto.StoreResponse}
// @Failure      422   {object}  ErrorEnvelope  "slug en uso"
// @Router       /api/store [put]
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStoreRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), in)
	if err != nil {
		return err
	}
	return okMsg(c, "tienda actualizada", out)
}

// Publish godoc
// @Summary      Publicar tienda
// @Description  Requiere nombre, slug y al menos un producto activo.
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=dto.StoreResponse}
// @Failure      422  {object}  ErrorEnvelope
// @Router       /api/store/publish [post]
func (h *StoreHandler) Publish(c *fiber.Ctx) error {
	out, err := h.uc.Publish(c.UserContext())
	if err != nil {
		return err
	}
	return okMsg(c, "tienda publicada", out)
}

// Unpublish godoc
// @Summary      Despublicar tienda
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=dto.StoreResponse}
// @Router       /api/store/unpublish [post]
func (h *StoreHandler) Unpublish(c *fiber.Ctx) error {
	out, err := h.uc.Unpublish(c.UserContext())
	if err != nil {
		return err
	}
	return okMsg(c, "tienda despublicada", out)
}

// Stats godoc
// @Summary      Métricas de la tienda
// @Tags         store
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=dto.StoreStatsResponse}
// @Router       /api/store/stats [get]
func (h *StoreHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, out)
}
