package auth

import (
	"context"
	"time"

	"github.com/biznexa/biznexa-api/internal/domain/repository"
)

// TxRunner ejecuta el alta de una empresa en una sola transacción:
// empresa, usuario admin, tienda y categorías por defecto, o nada.
type TxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
		storeRepo repository.StoreRepository,
		categoryRepo repository.CategoryRepository,
	) error) error
}

// ResetRef a quién pertenece un token de recuperación.
type ResetRef struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
}

// ResetTokenStore guarda tokens de recuperación de un solo uso con vencimiento.
type ResetTokenStore interface {
	Save(ctx context.Context, token string, ref ResetRef, ttl time.Duration) error
	// Consume devuelve (nil, nil) si el token no existe o venció; un token leído ya no sirve.
	Consume(ctx context.Context, token string) (*ResetRef, error)
}
