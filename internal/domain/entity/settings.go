package entity

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// CompanySettings configuración por empresa, persistida como JSONB.
// Cada preocupación tiene su struct; las claves desconocidas se conservan en Extra.
type CompanySettings struct {
	Billing       BillingSettings
	Notifications NotificationSettings
	Integrations  IntegrationSettings
	Extra         map[string]json.RawMessage
}

// BillingSettings datos de cobro de la empresa.
type BillingSettings struct {
	Balance       decimal.Decimal `json:"balance"` // saldo prepago para highlights
	PaymentMethod string          `json:"payment_method,omitempty"`
	BillingEmail  string          `json:"billing_email,omitempty"`
}

// NotificationSettings preferencias de avisos.
type NotificationSettings struct {
	EmailSales        bool `json:"email_sales"`
	EmailLowStock     bool `json:"email_low_stock"`
	EmailBilling      bool `json:"email_billing"`
	WhatsappOrders    bool `json:"whatsapp_orders"`
	LowStockThreshold int  `json:"low_stock_threshold"`
}

// DefaultNotificationSettings valores al registrar una empresa.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{EmailSales: true, EmailLowStock: true, EmailBilling: true, LowStockThreshold: 5}
}

// IntegrationSettings credenciales de terceros.
type IntegrationSettings struct {
	MercadoPagoToken  string `json:"mercadopago_token,omitempty"`
	StripeKey         string `json:"stripe_key,omitempty"`
	WhatsappToken     string `json:"whatsapp_token,omitempty"`
	GoogleAnalyticsID string `json:"google_analytics_id,omitempty"`
}

// Masked devuelve una copia con los secretos ocultos salvo los últimos 4 caracteres.
func (s IntegrationSettings) Masked() IntegrationSettings {
	return IntegrationSettings{
		MercadoPagoToken:  mask(s.MercadoPagoToken),
		StripeKey:         mask(s.StripeKey),
		WhatsappToken:     mask(s.WhatsappToken),
		GoogleAnalyticsID: s.GoogleAnalyticsID,
	}
}

func mask(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}

const (
	settingsKeyBilling       = "billing"
	settingsKeyNotifications = "notifications"
	settingsKeyIntegrations  = "integrations"
)

// MarshalJSON serializa las secciones conocidas y vuelve a emitir las desconocidas.
func (s CompanySettings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+3)
	for k, v := range s.Extra {
		out[k] = v
	}
	out[settingsKeyBilling] = s.Billing
	out[settingsKeyNotifications] = s.Notifications
	out[settingsKeyIntegrations] = s.Integrations
	return json.Marshal(out)
}

// UnmarshalJSON reparte las secciones conocidas y guarda el resto en Extra.
func (s *CompanySettings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = CompanySettings{}
	for k, v := range raw {
		var err error
		switch k {
		case settingsKeyBilling:
			err = json.Unmarshal(v, &s.Billing)
		case settingsKeyNotifications:
			err = json.Unmarshal(v, &s.Notifications)
		case settingsKeyIntegrations:
			err = json.Unmarshal(v, &s.Integrations)
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]json.RawMessage)
			}
			s.Extra[k] = v
		}
		if err != nil {
			return err
		}
	}
	return nil
}
