package dto

import "time"

// CompanyResponse empresa (tenant) en respuestas.
type CompanyResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	LegalName          string     `json:"legal_name"`
	TaxID              string     `json:"tax_id"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Website            string     `json:"website"`
	Address            string     `json:"address"`
	City               string     `json:"city"`
	State              string     `json:"state"`
	Country            string     `json:"country"`
	PostalCode         string     `json:"postal_code"`
	Timezone           string     `json:"timezone"`
	Currency           string     `json:"currency"`
	Language           string     `json:"language"`
	Active             bool       `json:"active"`
	PlanID             string     `json:"plan_id"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

// UpdateCompanyRequest entrada para PUT /api/settings/company (campos opcionales).
type UpdateCompanyRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
	LegalName  *string `json:"legal_name" validate:"omitempty,max=255"`
	TaxID      *string `json:"tax_id" validate:"omitempty,max=20"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Website    *string `json:"website" validate:"omitempty,url"`
	Address    *string `json:"address" validate:"omitempty,max=255"`
	City       *string `json:"city" validate:"omitempty,max=100"`
	State      *string `json:"state" validate:"omitempty,len=2"`
	PostalCode *string `json:"postal_code" validate:"omitempty,max=10"`
	Timezone   *string `json:"timezone" validate:"omitempty,timezone"`
	Currency   *string `json:"currency" validate:"omitempty,len=3"`
	Language   *string `json:"language" validate:"omitempty,max=10"`
}

// NotificationSettingsDTO entrada y salida de /api/settings/notifications.
type NotificationSettingsDTO struct {
	EmailSales        bool `json:"email_sales"`
	EmailLowStock     bool `json:"email_low_stock"`
	EmailBilling      bool `json:"email_billing"`
	WhatsappOrders    bool `json:"whatsapp_orders"`
	LowStockThreshold int  `json:"low_stock_threshold" validate:"min=0,max=1000"`
}

// IntegrationSettingsDTO entrada y salida de /api/settings/integrations.
// Al leer, los tokens vienen enmascarados; al escribir, un valor nil no modifica el guardado.
type IntegrationSettingsDTO struct {
	MercadoPagoToken  *string `json:"mercadopago_token" validate:"omitempty,max=255"`
	StripeKey         *string `json:"stripe_key" validate:"omitempty,max=255"`
	WhatsappToken     *string `json:"whatsapp_token" validate:"omitempty,max=255"`
	GoogleAnalyticsID *string `json:"google_analytics_id" validate:"omitempty,max=50"`
}
