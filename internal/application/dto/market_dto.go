package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketListRequest query de GET /api/market y /api/market/search.
type MarketListRequest struct {
	Query string `query:"query" validate:"omitempty,min=2,max=100"`
	City  string `query:"city" validate:"omitempty,max=100"`
	State string `query:"state" validate:"omitempty,len=2"`
	PageRequest
}

// BusinessResponse entrada del directorio.
type BusinessResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Website       string    `json:"website,omitempty"`
	Plan          string    `json:"plan"`
	StoreName     string    `json:"store_name"`
	StoreSlug     string    `json:"store_slug"`
	Description   string    `json:"description"`
	Logo          string    `json:"logo"`
	Highlighted   bool      `json:"highlighted"`
	ProductsCount int       `json:"products_count"`
	VisitsCount   int       `json:"visits_count"`
	MemberSince   time.Time `json:"member_since"`
}

// BusinessListResponse lista paginada del directorio.
type BusinessListResponse struct {
	Items []BusinessResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BusinessDetailResponse ficha con sus productos activos.
type BusinessDetailResponse struct {
	Business       BusinessResponse  `json:"business"`
	Products       []ProductResponse `json:"products"`
	HasHighlighted bool              `json:"has_highlighted"`
}

// VisitInfo datos del visitante que el handler extrae del request.
type VisitInfo struct {
	IP        string
	UserAgent string
}

// HighlightRequest POST /api/market/highlight.
type HighlightRequest struct {
	BusinessID    string `json:"business_id" validate:"required,uuid"`
	HighlightType string `json:"highlight_type" validate:"required,oneof=basic premium featured"`
	DurationDays  int    `json:"duration_days" validate:"required,min=1,max=365"`
}

// HighlightResponse destaque creado.
type HighlightResponse struct {
	ID               string          `json:"id"`
	BusinessID       string          `json:"business_id"`
	HighlightType    string          `json:"highlight_type"`
	DurationDays     int             `json:"duration_days"`
	Cost             decimal.Decimal `json:"cost"`
	StartsAt         time.Time       `json:"starts_at"`
	ExpiresAt        time.Time       `json:"expires_at"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// SlugAvailabilityResponse salida de GET /api/public/store/{slug}/validate.
type SlugAvailabilityResponse struct {
	Slug      string `json:"slug"`
	Available bool   `json:"available"`
}
