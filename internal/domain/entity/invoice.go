package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de una factura de suscripción. Única transición: pending -> paid.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
)

// InvoiceItem línea de la factura.
type InvoiceItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice registro inmutable de un evento de cobro de la suscripción.
type Invoice struct {
	ID             string
	CompanyID      string
	SubscriptionID string
	Number         string
	Amount         decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	Currency       string
	Status         InvoiceStatus
	DueDate        time.Time
	PaidAt         *time.Time
	PaymentID      string
	Items          []InvoiceItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsPaid informa si la factura ya fue cobrada.
func (i *Invoice) IsPaid() bool { return i.Status == InvoicePaid }

// FormatInvoiceNumber numera facturas y ventas: INV-YYYYMMDD-NNNN.
func FormatInvoiceNumber(day time.Time, seq int) string {
	return fmt.Sprintf("INV-%s-%04d", day.Format("20060102"), seq)
}
