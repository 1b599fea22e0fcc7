package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store tienda online de la empresa (una por tenant). Slug es único global.
type Store struct {
	ID          string
	CompanyID   string
	Name        string
	Slug        string
	Description string
	Logo        string
	CoverImage  string
	Settings    StorefrontSettings
	Published   bool
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StorefrontSettings configuración visual y comercial de la tienda.
type StorefrontSettings struct {
	Theme           string            `json:"theme"`
	PrimaryColor    string            `json:"primary_color"`
	SecondaryColor  string            `json:"secondary_color,omitempty"`
	WhatsappEnabled bool              `json:"whatsapp_enabled"`
	WhatsappNumber  string            `json:"whatsapp_number,omitempty"`
	Instagram       string            `json:"instagram,omitempty"`
	Facebook        string            `json:"facebook,omitempty"`
	BusinessHours   map[string]string `json:"business_hours,omitempty"`
	DeliveryEnabled bool              `json:"delivery_enabled"`
	DeliveryRadius  *decimal.Decimal  `json:"delivery_radius,omitempty"`
	DeliveryFee     *decimal.Decimal  `json:"delivery_fee,omitempty"`
	PaymentMethods  []string          `json:"payment_methods"`
}

// DefaultStorefrontSettings valores de la tienda creada en el registro.
func DefaultStorefrontSettings() StorefrontSettings {
	return StorefrontSettings{
		Theme:           "default",
		PrimaryColor:    "#4361ee",
		WhatsappEnabled: true,
		PaymentMethods:  []string{"cash", "pix"},
	}
}

// Orígenes de visitas.
const (
	VisitSourceStorefront = "storefront"
	VisitSourceMarket     = "market_directory"
)

// StoreVisit visita a una tienda. VisitorCompanyID se completa si el visitante es otro tenant.
type StoreVisit struct {
	ID               string
	StoreID          string
	VisitorCompanyID *string
	IPAddress        string
	UserAgent        string
	Source           string
	CreatedAt        time.Time
}

// StoreStats métricas de la tienda.
type StoreStats struct {
	TotalVisits int
	MonthVisits int
	OnlineSales int
}
