// Package cache almacén clave-valor con TTL para claves de idempotencia y tokens de un solo uso.
// En producción es Redis; sin REDIS_ADDR se usa MemoryStore (un solo proceso).
package cache

import (
	"context"
	"time"
)

// Store los valores se serializan a JSON.
type Store interface {
	// Get decodifica el valor en dest; found=false si la clave no existe o expiró.
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// SetNX escribe solo si la clave no existe; ok=false si ya existía.
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (ok bool, err error)
	// GetDel lee y borra atómicamente (consumo de un solo uso).
	GetDel(ctx context.Context, key string, dest any) (found bool, err error)
	Delete(ctx context.Context, keys ...string) error
}
