package repository

import (
	"context"

	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

// PlanRepository catálogo global de planes (no pertenece a ningún tenant).
type PlanRepository interface {
	ListActive(ctx context.Context) ([]*entity.Plan, error)
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
	GetByCode(ctx context.Context, code string) (*entity.Plan, error)
	// Upsert usado por el seed; actualiza por código.
	Upsert(ctx context.Context, plan *entity.Plan) error
}
