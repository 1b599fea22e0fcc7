// Package repository define los puertos de persistencia (DIP). Las implementaciones viven en infrastructure.
//
// Los repositorios de entidades del tenant toman el companyID exclusivamente del
// context.Context (ver domain/tenant). Ningún método recibe un companyID del cliente.
// Convención: un recurso inexistente, o de otra empresa, devuelve (nil, nil).
package repository

import (
	"context"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// CompanyRepository puerto de persistencia para la empresa del scope.
type CompanyRepository interface {
	// Create persiste una empresa nueva; company.ID debe coincidir con el scope (registro).
	Create(ctx context.Context, company *entity.Company) error
	// Current devuelve la empresa del scope.
	Current(ctx context.Context) (*entity.Company, error)
	// CurrentForUpdate igual que Current pero bloquea la fila hasta el fin de la transacción.
	CurrentForUpdate(ctx context.Context) (*entity.Company, error)
	// Update actualiza datos de perfil, plan y vencimiento de la empresa del scope.
	Update(ctx context.Context, company *entity.Company) error
	// UpdateSettings reemplaza el documento de settings de la empresa del scope.
	UpdateSettings(ctx context.Context, settings entity.CompanySettings) error
	// Access lee estado y plan en una sola sentencia para el gate de suscripción.
	Access(ctx context.Context) (*entity.CompanyAccess, error)
}
