package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Barcode     string          `json:"barcode" validate:"omitempty,max=50"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	CategoryID  *string         `json:"category_id" validate:"omitempty,uuid"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Stock       int             `json:"stock" validate:"min=0"`
	MinStock    int             `json:"min_stock" validate:"min=0"`
	Unit        string          `json:"unit" validate:"omitempty,max=10"`
	Active      *bool           `json:"active"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Barcode     *string          `json:"barcode" validate:"omitempty,max=50"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	MinStock    *int             `json:"min_stock" validate:"omitempty,min=0"`
	Unit        *string          `json:"unit" validate:"omitempty,max=10"`
	Active      *bool            `json:"active"`
}

// ProductListRequest query de GET /api/products.
type ProductListRequest struct {
	Search     string `query:"search" validate:"omitempty,max=100"`
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	Active     string `query:"active" validate:"omitempty,oneof=true false"`
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	CategoryID  *string         `json:"category_id"`
	SKU         string          `json:"sku"`
	Barcode     string          `json:"barcode"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	Unit        string          `json:"unit"`
	Active      bool            `json:"active"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// UpdateCategoryRequest entrada para actualizar una categoría.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Active      *bool   `json:"active"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Acciones de POST /api/products/bulk-update.
const (
	BulkUpdatePrice = "update_price"
	BulkUpdateStock = "update_stock"
	BulkActivate    = "activate"
	BulkDeactivate  = "deactivate"
)

// BulkProductItem producto del lote; price/stock según la acción.
type BulkProductItem struct {
	ID    string           `json:"id" validate:"required,uuid"`
	Price *decimal.Decimal `json:"price"`
	Stock *int             `json:"stock"`
}

// BulkUpdateProductsRequest una acción aplicada a varios productos del tenant.
type BulkUpdateProductsRequest struct {
	Action   string            `json:"action" validate:"required,oneof=update_price update_stock activate deactivate"`
	Products []BulkProductItem `json:"products" validate:"required,min=1,max=200,dive"`
}

// BulkUpdateResponse cuántos productos cambiaron.
type BulkUpdateResponse struct {
	UpdatedCount int `json:"updated_count"`
}
