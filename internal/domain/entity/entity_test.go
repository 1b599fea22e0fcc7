package entity_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Settings tipados
// ──────────────────────────────────────────────────────────────────────────────

func TestCompanySettings_ConservaClavesDesconocidas(t *testing.T) {
	raw := `{"billing":{"balance":"50.00"},"notifications":{"email_sales":true,"low_stock_threshold":3},"legacy_theme":{"dark":true}}`

	var s entity.CompanySettings
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.True(t, s.Billing.Balance.Equal(decimal.RequireFromString("50")))
	assert.True(t, s.Notifications.EmailSales)
	assert.Equal(t, 3, s.Notifications.LowStockThreshold)
	require.Contains(t, s.Extra, "legacy_theme", "la clave desconocida se guarda en Extra")

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"legacy_theme":{"dark":true}`, "Extra se reemite al serializar")
}

func TestIntegrationSettings_Masked(t *testing.T) {
	s := entity.IntegrationSettings{StripeKey: "sk_live_abcdef1234", WhatsappToken: "abc"}
	m := s.Masked()
	assert.Equal(t, strings.Repeat("*", 14)+"1234", m.StripeKey)
	assert.Equal(t, "***", m.WhatsappToken)
	assert.Equal(t, "", m.MercadoPagoToken)
}

// ──────────────────────────────────────────────────────────────────────────────
// Roles y permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestRolePermissions(t *testing.T) {
	assert.True(t, entity.RoleAdmin.Can(entity.PermBillingManage))
	assert.False(t, entity.RoleManager.Can(entity.PermBillingManage), "solo admin gestiona billing")
	assert.True(t, entity.RoleCashier.Can(entity.PermSalesCreate))
	assert.False(t, entity.RoleCashier.Can(entity.PermSalesCancel))
	assert.True(t, entity.AnyCan([]entity.Role{entity.RoleCashier, entity.RoleManager}, entity.PermSalesCancel))

	_, ok := entity.ParseRole("superuser")
	assert.False(t, ok, "roles fuera del enum se rechazan")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSale_ComputeTotals(t *testing.T) {
	s := entity.Sale{
		DiscountAmount: decimal.RequireFromString("5"),
		AmountPaid:     decimal.RequireFromString("100"),
		Items: []entity.SaleItem{
			{Quantity: 3, UnitPrice: decimal.RequireFromString("10.00"), TaxRate: decimal.RequireFromString("10")},
			{Quantity: 1, UnitPrice: decimal.RequireFromString("19.99"), TaxRate: decimal.Zero},
		},
	}
	s.ComputeTotals()

	assert.Equal(t, "49.99", s.Subtotal.StringFixed(2))
	assert.Equal(t, "3.00", s.TaxAmount.StringFixed(2))
	assert.Equal(t, "47.99", s.TotalAmount.StringFixed(2), "subtotal + impuesto - descuento")
	assert.Equal(t, "52.01", s.ChangeAmount.StringFixed(2))
	assert.Equal(t, "30.00", s.Items[0].Subtotal.StringFixed(2))
}

func TestSale_ComputeTotals_PagoInsuficienteSinCambioNegativo(t *testing.T) {
	s := entity.Sale{
		AmountPaid: decimal.RequireFromString("1"),
		Items:      []entity.SaleItem{{Quantity: 1, UnitPrice: decimal.RequireFromString("10"), TaxRate: decimal.Zero}},
	}
	s.ComputeTotals()
	assert.True(t, s.ChangeAmount.IsZero())
}

func TestFormatInvoiceNumber(t *testing.T) {
	day := time.Date(2026, 1, 19, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-20260119-0007", entity.FormatInvoiceNumber(day, 7))
}

func TestBillingCycle_Advance(t *testing.T) {
	t0 := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC), entity.CycleMonthly.Advance(t0))
	assert.Equal(t, time.Date(2027, 3, 10, 12, 0, 0, 0, time.UTC), entity.CycleYearly.Advance(t0))
	assert.False(t, entity.BillingCycle("weekly").Valid())
}
