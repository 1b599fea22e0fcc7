package cache

import (
	"context"
	"time"

	"github.com/biznexa/biznexa-api/internal/application/auth"
)

const resetTokenPrefix = "pwreset:"

var _ auth.ResetTokenStore = (*ResetTokens)(nil)

// ResetTokens tokens de recuperación de password sobre un Store.
type ResetTokens struct {
	store Store
}

func NewResetTokens(store Store) *ResetTokens {
	return &ResetTokens{store: store}
}

func (r *ResetTokens) Save(ctx context.Context, token string, ref auth.ResetRef, ttl time.Duration) error {
	return r.store.Set(ctx, resetTokenPrefix+token, ref, ttl)
}

func (r *ResetTokens) Consume(ctx context.Context, token string) (*auth.ResetRef, error) {
	var ref auth.ResetRef
	found, err := r.store.GetDel(ctx, resetTokenPrefix+token, &ref)
	if err != nil || !found {
		return nil, err
	}
	return &ref, nil
}
