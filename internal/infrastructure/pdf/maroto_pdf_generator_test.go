package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

func TestMoney_FormatoBRL(t *testing.T) {
	cases := map[string]string{
		"0":       "R$ 0,00",
		"29.9":    "R$ 29,90",
		"1999.9":  "R$ 1.999,90",
		"1234567": "R$ 1.234.567,00",
		"-62.37":  "-R$ 62,37",
		"100.005": "R$ 100,01",
	}
	for in, want := range cases {
		assert.Equal(t, want, money(entity.DefaultCurrency, decimal.RequireFromString(in)), in)
	}
	assert.Equal(t, "USD 10,00", money("USD", decimal.NewFromInt(10)))
}

func TestGenerateSubscriptionInvoicePDF(t *testing.T) {
	paidAt := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	invoice := &entity.Invoice{
		ID:        "inv-1",
		Number:    "INV-20260615-0001",
		Amount:    decimal.RequireFromString("89.90"),
		Tax:       decimal.Zero,
		Total:     decimal.RequireFromString("89.90"),
		Currency:  entity.DefaultCurrency,
		Status:    entity.InvoicePaid,
		DueDate:   paidAt,
		PaidAt:    &paidAt,
		PaymentID: "PIX-1781514000-0042",
		Items:     []entity.InvoiceItem{{Description: "Plano Pro (monthly)", Amount: decimal.RequireFromString("89.90")}},
		CreatedAt: paidAt,
	}
	company := &entity.Company{Name: "Padaria São João", TaxID: "12345678000199", City: "Recife", State: "PE"}
	plan := &entity.Plan{Code: entity.PlanPro, Name: "Pro"}

	g := NewMarotoPDFGenerator(Issuer{})
	out, err := g.GenerateSubscriptionInvoicePDF(context.Background(), invoice, company, plan)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")

	// sin plan (plan borrado) y pendiente también se genera
	invoice.Status, invoice.PaidAt = entity.InvoicePending, nil
	out, err = g.GenerateSubscriptionInvoicePDF(context.Background(), invoice, company, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
