package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/internal/application/dto"
)

// BillingHandler suscripción del tenant: overview, planes y transiciones del ciclo de vida.
type BillingHandler struct {
	subs     *billing.SubscriptionUseCase
	query    *billing.QueryUseCase
	webhooks *billing.WebhookUseCase
}

// NewBillingHandler construye el handler.
func NewBillingHandler(subs *billing.SubscriptionUseCase, query *billing.QueryUseCase, webhooks *billing.WebhookUseCase) *BillingHandler {
	return &BillingHandler{subs: subs, query: query, webhooks: webhooks}
}

// Overview godoc
// @Summary      Estado de facturación
// @Description  Suscripción, plan, uso de recursos, últimas facturas y próxima facturación.
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=dto.BillingOverviewResponse}
// @Router       /api/billing [get]
func (h *BillingHandler) Overview(c *fiber.Ctx) error {
	out, err := h.query.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Plans godoc
// @Summary      Planes disponibles
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  SuccessEnvelope{data=dto.PlansResponse}
// @Router       /api/billing/plans [get]
func (h *BillingHandler) Plans(c *fiber.Ctx) error {
	out, err := h.query.Plans(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Subscribe godoc
// @Summary      Suscribirse a un plan
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "clave de reintento"
// @Param        body  body  dto.SubscribeRequest  true  "plan, ciclo, método de pago y cupón"
// @Success      200   {object}  SuccessEnvelope{data=dto.SubscribeResponse}
// @Failure      422   {object}  ErrorEnvelope
// @Failure      500   {object}  ErrorEnvelope  "pago rechazado"
// @Router       /api/billing/subscribe [post]
func (h *BillingHandler) Subscribe(c *fiber.Ctx) error {
	var in dto.SubscribeRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.subs.Subscribe(c.UserContext(), in)
	if err != nil {
		return err
	}
	return okMsg(c, "suscripción realizada", out)
}

// Upgrade godoc
// @Summary      Upgrade de plan
// @Description  Cobra el proporcional del ciclo restante salvo prorate=false.
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "clave de reintento"
// @Param        body  body  dto.UpgradeRequest  true  "plan destino"
// @Success      200   {object}  SuccessEnvelope{data=dto.UpgradeResponse}
// @Failure      422   {object}  ErrorEnvelope
// @Router       /api/billing/upgrade [post]
func (h *BillingHandler) Upgrade(c *fiber.Ctx) error {
	var in dto.UpgradeRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.subs.Upgrade(c.UserContext(), in)
	if err != nil {
		return err
	}
	return okMsg(c, "plan actualizado", out)
}

// Downgrade godoc
// @Summary      Downgrade de plan
// @Description  El cambio queda programado para la próxima renovación.
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "clave de reintento"
// @Param        body  body  dto.DowngradeRequest  true  "plan destino"
// @Success      200   {object}  SuccessEnvelope{data=dto.DowngradeResponse}
// @Failure      422   {object}  ErrorEnvelope
// @Router       /api/billing/downgrade [post]
func (h *BillingHandler) Downgrade(c *fiber.Ctx) error {
	var in dto.DowngradeRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.subs.Downgrade(c.UserContext(), in)
	if err != nil {
		return err
	}
	return okMsg(c, "downgrade programado", out)
}

// Cancel godoc
// @Summary      Cancelar suscripción
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "clave de reintento"
// @Param        body  body  dto.CancelRequest  false  "motivo y feedback"
// @Success      200   {object}  SuccessEnvelope{data=dto.CancelResponse}
// @Failure      422   {object}  ErrorEnvelope
// @Router       /api/billing/cancel [post]
func (h *BillingHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.subs.Cancel(c.UserContext(), in)
	if err != nil {
		return err
	}
	return okMsg(c, "suscripción cancelada", out)
}

// Renew godoc
// @Summary      Renovar suscripción
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "clave de reintento"
// @Success      200  {object}  SuccessEnvelope{data=dto.RenewResponse}
// @Failure      422  {object}  ErrorEnvelope
// @Router       /api/billing/renew [post]
func (h *BillingHandler) Renew(c *fiber.Ctx) error {
	out, err := h.subs.Renew(c.UserContext())
	if err != nil {
		return err
	}
	return okMsg(c, "suscripción renovada", out)
}

// Webhook godoc
// @Summary      Notificación de un gateway de pago
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        gateway  path  string  true  "stripe | mercadopago | asaas"
// @Success      200  {object}  SuccessEnvelope{data=dto.WebhookResponse}
// @Failure      400  {object}  ErrorEnvelope
// @Router       /api/billing/webhook/{gateway} [post]
func (h *BillingHandler) Webhook(c *fiber.Ctx) error {
	out, err := h.webhooks.Receive(c.UserContext(), c.Params("gateway"), c.Body())
	if err != nil {
		return err
	}
	return ok(c, out)
}
