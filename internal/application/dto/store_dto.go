package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// UpdateStoreRequest PUT /api/store. Settings reemplaza la configuración completa si viene.
type UpdateStoreRequest struct {
	Name        *string                    `json:"name" validate:"omitempty,min=2,max=255"`
	Slug        *string                    `json:"slug" validate:"omitempty,min=2,max=100"`
	Description *string                    `json:"description" validate:"omitempty,max=2000"`
	Logo        *string                    `json:"logo" validate:"omitempty,max=500"`
	CoverImage  *string                    `json:"cover_image" validate:"omitempty,max=500"`
	Settings    *entity.StorefrontSettings `json:"settings"`
}

// StoreResponse tienda online en respuestas.
type StoreResponse struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Slug        string                    `json:"slug"`
	Description string                    `json:"description"`
	Logo        string                    `json:"logo"`
	CoverImage  string                    `json:"cover_image"`
	Settings    entity.StorefrontSettings `json:"settings"`
	Published   bool                      `json:"published"`
	PublishedAt *time.Time                `json:"published_at"`
	URL         string                    `json:"url"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// StoreStatsResponse GET /api/store/stats. ConversionRate = ventas online / visitas × 100.
type StoreStatsResponse struct {
	TotalVisits    int             `json:"total_visits"`
	MonthVisits    int             `json:"month_visits"`
	OnlineSales    int             `json:"online_sales"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

// PublicStoreResponse vista pública de una tienda publicada.
type PublicStoreResponse struct {
	Store StoreResponse `json:"store"`
}
