package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/internal/application/dto"
)

// InvoiceHandler facturas de suscripción del tenant.
type InvoiceHandler struct {
	query *billing.QueryUseCase
	subs  *billing.SubscriptionUseCase
	pdf   *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(query *billing.QueryUseCase, subs *billing.SubscriptionUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{query: query, subs: subs, pdf: pdf}
}

// List godoc
// @Summary      Listar facturas
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "pending | paid"
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  SuccessEnvelope{data=dto.InvoiceListResponse}
// @Router       /api/billing/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.InvoiceListRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.query.ListInvoices(c.UserContext(), in)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Detalle de factura
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  SuccessEnvelope{data=dto.InvoiceDetailResponse}
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/billing/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.query.GetInvoice(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// PDF godoc
// @Summary      Descargar factura en PDF
// @Tags         billing
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/billing/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	body, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(body)
}

// Pay godoc
// @Summary      Pagar factura pendiente
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "clave de reintento"
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  SuccessEnvelope{data=dto.InvoiceResponse}
// @Failure      422  {object}  ErrorEnvelope
// @Failure      500  {object}  ErrorEnvelope  "pago rechazado"
// @Router       /api/billing/invoices/{id}/pay [post]
func (h *InvoiceHandler) Pay(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.subs.PayInvoice(c.UserContext(), id)
	if err != nil {
		return err
	}
	return okMsg(c, "factura pagada", out)
}
