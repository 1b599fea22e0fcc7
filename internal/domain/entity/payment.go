package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados para la suscripción.
const (
	PaymentCreditCard = "credit_card"
	PaymentPix        = "pix"
	PaymentBoleto     = "boleto"
	PaymentBalance    = "balance" // débito del saldo prepago (highlights)
)

// Motivos de un cobro.
const (
	PurposeSubscribe = "subscribe"
	PurposeUpgrade   = "upgrade"
	PurposeRenewal   = "renewal"
	PurposeHighlight = "highlight"
)

// PaymentCompleted único estado persistido; los rechazos no se registran.
const PaymentCompleted = "completed"

// ValidSubscriptionPaymentMethod informa si m se acepta para suscribirse.
func ValidSubscriptionPaymentMethod(m string) bool {
	switch m {
	case PaymentCreditCard, PaymentPix, PaymentBoleto:
		return true
	}
	return false
}

// Payment cobro autorizado por el gateway.
type Payment struct {
	ID            string
	CompanyID     string
	InvoiceID     string // vacío si el cobro no generó factura
	TransactionID string
	Amount        decimal.Decimal
	Currency      string
	Method        string
	Status        string
	Purpose       string
	Simulated     bool
	CreatedAt     time.Time
}
