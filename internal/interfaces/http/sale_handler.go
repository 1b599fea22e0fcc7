package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/application/sales"
)

// SaleHandler punto de venta.
type SaleHandler struct {
	uc *sales.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock de forma atómica; stock insuficiente es 422.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "ítems, cliente y pago"
// @Success      201   {object}  SuccessEnvelope{data=dto.SaleResponse}
// @Failure      422   {object}  ErrorEnvelope
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, "venta registrada", out)
}

// QuickSale godoc
// @Summary      Venta rápida de mostrador
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuickSaleRequest  true  "ítems y pago"
// @Success      201   {object}  SuccessEnvelope{data=dto.SaleResponse}
// @Failure      422   {object}  ErrorEnvelope
// @Router       /api/sales/quick-sale [post]
func (h *SaleHandler) QuickSale(c *fiber.Ctx) error {
	var in dto.QuickSaleRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.QuickSale(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, "venta registrada", out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start_date      query  string  false  "YYYY-MM-DD"
// @Param        end_date        query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        status          query  string  false  "completed | cancelled"
// @Param        type            query  string  false  "store | online | delivery"
// @Param        payment_method  query  string  false  "método de pago"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  SuccessEnvelope{data=dto.SaleListResponse}
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var in dto.SaleListRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Today godoc
// @Summary      Resumen de ventas del día
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=dto.TodaySalesResponse}
// @Router       /api/sales/today [get]
func (h *SaleHandler) Today(c *fiber.Ctx) error {
	out, err := h.uc.Today(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Detalle de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  SuccessEnvelope{data=dto.SaleResponse}
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Cancel godoc
// @Summary      Cancelar venta
// @Description  Devuelve el stock; una venta ya cancelada es 422.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  SuccessEnvelope{data=dto.SaleResponse}
// @Failure      422  {object}  ErrorEnvelope
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Cancel(c.UserContext(), id)
	if err != nil {
		return err
	}
	return okMsg(c, "venta cancelada", out)
}
