package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de facturación.
// Si fn retorna error no queda ninguna escritura (suscripción, empresa, factura, pago).
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		subRepo repository.SubscriptionRepository,
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
		usageRepo repository.UsageRepository,
	) error) error
}

// PaymentResult respuesta del proveedor de pagos.
type PaymentResult struct {
	Success       bool
	TransactionID string
	Message       string
}

// PaymentGateway autoriza cobros. Un rechazo es Success=false (no error); error es una falla de transporte.
type PaymentGateway interface {
	Authorize(ctx context.Context, amount decimal.Decimal, method string) (PaymentResult, error)
	// Simulated true si el gateway no cobra de verdad.
	Simulated() bool
}

// InvoicePDFGenerator genera la representación PDF de una factura de suscripción.
type InvoicePDFGenerator interface {
	GenerateSubscriptionInvoicePDF(ctx context.Context, inv *entity.Invoice, company *entity.Company, plan *entity.Plan) ([]byte, error)
}

// Metrics contadores de operaciones de billing y autorizaciones de pago.
type Metrics interface {
	BillingOperation(operation, result string)
	PaymentAuthorization(method, result string)
}

// NopMetrics descarta las métricas (tests, seed).
type NopMetrics struct{}

func (NopMetrics) BillingOperation(string, string)     {}
func (NopMetrics) PaymentAuthorization(string, string) {}
