package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company representa una organización/tenant del sistema. Es la unidad de aislamiento de datos.
type Company struct {
	ID                 string
	Name               string
	LegalName          string
	TaxID              string // CNPJ/CPF
	Email              string
	Phone              string
	Website            string
	Address            string
	City               string
	State              string // UF, 2 letras
	Country            string
	PostalCode         string
	Timezone           string
	Currency           string
	Language           string
	Active             bool
	PlanID             string
	SubscriptionEndsAt *time.Time
	StorageUsedMB      decimal.Decimal // mantenido por el servicio de archivos
	Settings           CompanySettings
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time // soft delete
}

// Valores por defecto para empresas nuevas.
const (
	DefaultCountry  = "Brasil"
	DefaultTimezone = "America/Sao_Paulo"
	DefaultCurrency = "BRL"
	DefaultLanguage = "pt_BR"
)

// CompanyAccess snapshot mínimo que necesita el gate de suscripción.
// Se lee en una sola sentencia para no mezclar estados de dos escrituras.
type CompanyAccess struct {
	CompanyID          string
	Active             bool
	SubscriptionEndsAt *time.Time
	PlanID             string
	PlanCode           string
}

// Usage consumo actual de recursos limitados por plan.
type Usage struct {
	Users     int
	Products  int
	StorageMB decimal.Decimal
}
