package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

// Gateways que pueden notificar eventos.
const (
	GatewayStripe      = "stripe"
	GatewayMercadoPago = "mercadopago"
	GatewayAsaas       = "asaas"
)

// WebhookUseCase acusa recibo de notificaciones de los gateways de pago.
// La conciliación de eventos no está implementada: el payload solo se registra.
type WebhookUseCase struct {
	log *logger.Logger
}

// NewWebhookUseCase construye el caso de uso.
func NewWebhookUseCase(log *logger.Logger) *WebhookUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &WebhookUseCase{log: log.Component("billing.webhook")}
}

// Receive valida el gateway y registra el evento. Un gateway desconocido es ErrInvalidInput.
func (uc *WebhookUseCase) Receive(_ context.Context, gateway string, payload []byte) (*dto.WebhookResponse, error) {
	gw := strings.ToLower(strings.TrimSpace(gateway))
	switch gw {
	case GatewayStripe, GatewayMercadoPago, GatewayAsaas:
	default:
		return nil, fmt.Errorf("%w: gateway %q no soportado", domain.ErrInvalidInput, gateway)
	}
	uc.log.Info().Str("gateway", gw).Int("bytes", len(payload)).Msg("webhook recibido")
	return &dto.WebhookResponse{Received: true, Gateway: gw}, nil
}
