package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la empresa. SKU es único por empresa.
type Product struct {
	ID          string
	CompanyID   string
	CategoryID  *string
	SKU         string
	Barcode     string
	Name        string
	Description string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje: 18 = 18%
	Stock       int
	MinStock    int
	Unit        string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock stock en o por debajo del mínimo configurado.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
