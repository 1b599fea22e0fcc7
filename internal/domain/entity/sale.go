package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleType canal de la venta.
type SaleType string

const (
	SaleStore    SaleType = "store"
	SaleOnline   SaleType = "online"
	SaleDelivery SaleType = "delivery"
)

// SaleStatus estado de la venta.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SaleCancelled SaleStatus = "cancelled"
)

// Métodos de pago del PDV.
var SalePaymentMethods = []string{"cash", "credit_card", "debit_card", "transfer", "pix"}

// WalkInCustomer nombre usado en ventas rápidas.
const WalkInCustomer = "Cliente Avulso"

// SaleCustomer datos opcionales del comprador.
type SaleCustomer struct {
	Name  string
	Email string
	Phone string
	TaxID string
}

// Sale venta del punto de venta.
type Sale struct {
	ID             string
	CompanyID      string
	Number         string
	CashierID      string
	Customer       SaleCustomer
	Type           SaleType
	Status         SaleStatus
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	AmountPaid     decimal.Decimal
	ChangeAmount   decimal.Decimal
	PaymentMethod  string
	Notes          string
	Items          []SaleItem
	CancelledAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SaleItem línea de la venta.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// ComputeTotals calcula subtotal, impuestos, total y cambio a partir de los ítems.
// Los valores intermedios no se redondean; el redondeo a 2 decimales ocurre al final.
func (s *Sale) ComputeTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range s.Items {
		it := &s.Items[i]
		line := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		lineTax := line.Mul(it.TaxRate).Div(hundred)
		subtotal = subtotal.Add(line)
		tax = tax.Add(lineTax)
		it.Subtotal = line.Round(2)
		it.TaxAmount = lineTax.Round(2)
	}
	total := subtotal.Add(tax).Sub(s.DiscountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	change := s.AmountPaid.Sub(total)
	if change.IsNegative() {
		change = decimal.Zero
	}
	s.Subtotal = subtotal.Round(2)
	s.TaxAmount = tax.Round(2)
	s.TotalAmount = total.Round(2)
	s.ChangeAmount = change.Round(2)
}
