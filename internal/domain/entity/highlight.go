package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// HighlightType nivel de destaque en el directorio.
type HighlightType string

const (
	HighlightBasic    HighlightType = "basic"
	HighlightPremium  HighlightType = "premium"
	HighlightFeatured HighlightType = "featured"
)

// Highlight destaque pagado por CompanyID sobre HighlightedCompanyID.
type Highlight struct {
	ID                   string
	CompanyID            string
	HighlightedCompanyID string
	Type                 HighlightType
	DurationDays         int
	Cost                 decimal.Decimal
	Status               string // active, expired
	StartsAt             time.Time
	ExpiresAt            time.Time
	CreatedAt            time.Time
}

// Business entrada del directorio Market (vista cross-tenant de solo lectura).
type Business struct {
	CompanyID        string
	Name             string
	City             string
	State            string
	Phone            string
	Email            string
	Website          string
	PlanCode         string
	StoreID          string
	StoreName        string
	StoreSlug        string
	StoreDescription string
	StoreLogo        string
	Highlighted      bool
	ProductsCount    int
	VisitsCount      int
	CreatedAt        time.Time
}
