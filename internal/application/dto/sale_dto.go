package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de una venta.
type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Items          []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerName   string            `json:"customer_name" validate:"omitempty,max=255"`
	CustomerEmail  string            `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone  string            `json:"customer_phone" validate:"omitempty,max=20"`
	CustomerTaxID  string            `json:"customer_tax_id" validate:"omitempty,max=20"`
	Type           string            `json:"type" validate:"omitempty,oneof=store online delivery"`
	PaymentMethod  string            `json:"payment_method" validate:"required,oneof=cash credit_card debit_card transfer pix"`
	AmountPaid     decimal.Decimal   `json:"amount_paid"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	Notes          string            `json:"notes" validate:"omitempty,max=1000"`
}

// QuickSaleRequest body para POST /api/sales/quick-sale (balcón, cliente avulso).
type QuickSaleRequest struct {
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash credit_card debit_card transfer pix"`
	AmountPaid    decimal.Decimal   `json:"amount_paid"`
}

// SaleListRequest query de GET /api/sales.
type SaleListRequest struct {
	StartDate     string `query:"start_date"` // YYYY-MM-DD
	EndDate       string `query:"end_date"`   // YYYY-MM-DD, inclusive
	Status        string `query:"status" validate:"omitempty,oneof=completed cancelled"`
	Type          string `query:"type" validate:"omitempty,oneof=store online delivery"`
	PaymentMethod string `query:"payment_method" validate:"omitempty,oneof=cash credit_card debit_card transfer pix"`
	PageRequest
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

// SaleResponse venta en respuestas.
type SaleResponse struct {
	ID             string             `json:"id"`
	Number         string             `json:"sale_number"`
	CashierID      string             `json:"cashier_id"`
	CustomerName   string             `json:"customer_name"`
	CustomerEmail  string             `json:"customer_email,omitempty"`
	CustomerPhone  string             `json:"customer_phone,omitempty"`
	CustomerTaxID  string             `json:"customer_tax_id,omitempty"`
	Type           string             `json:"type"`
	Status         string             `json:"status"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	AmountPaid     decimal.Decimal    `json:"amount_paid"`
	ChangeAmount   decimal.Decimal    `json:"change_amount"`
	PaymentMethod  string             `json:"payment_method"`
	Notes          string             `json:"notes,omitempty"`
	Items          []SaleItemResponse `json:"items,omitempty"`
	CancelledAt    *time.Time         `json:"cancelled_at"`
	CreatedAt      time.Time          `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// TodaySalesResponse resumen de GET /api/sales/today.
type TodaySalesResponse struct {
	Date          string          `json:"date"`
	Count         int             `json:"count"`
	Total         decimal.Decimal `json:"total"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
}
