package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/biznexa/biznexa-api/internal/domain"
)

// HeaderIdempotencyKey header que identifica un reintento de la misma mutación.
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
	IdempotencyTTL       = 24 * time.Hour
	maxIdempotencyKeyLen = 256
)

// IdempotencyStore subconjunto de cache.Store usado por el middleware.
type IdempotencyStore interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

type idempotencyRecord struct {
	Done        bool   `json:"done"`
	Fingerprint string `json:"fingerprint,omitempty"` // sha256 del cuerpo original
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency guarda la primera respuesta de una mutación con Idempotency-Key
// (por tenant y clave) y la repite ante reintentos. Una clave en curso es 409.
// Reusar la clave con otro cuerpo es 422: nunca se repite la respuesta de otra solicitud.
// Las respuestas 5xx liberan la clave para permitir el reintento.
func Idempotency(store IdempotencyStore, ttl time.Duration) fiber.Handler {
	if ttl <= 0 {
		ttl = IdempotencyTTL
	}
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if raw == "" {
			return c.Next()
		}
		if len(raw) > maxIdempotencyKeyLen {
			return domain.NewValidationError("idempotency_key", fmt.Sprintf("debe tener como máximo %d caracteres", maxIdempotencyKeyLen))
		}
		ctx := c.UserContext()
		key := fmt.Sprintf("idem:%s:%s:%s", GetCompanyID(c), c.Path(), raw)
		sum := sha256.Sum256(c.Body())
		fingerprint := hex.EncodeToString(sum[:])

		acquired, err := store.SetNX(ctx, key, idempotencyRecord{Fingerprint: fingerprint}, ttl)
		if err != nil {
			return err
		}
		if !acquired {
			var rec idempotencyRecord
			found, err := store.Get(ctx, key, &rec)
			if err != nil {
				return err
			}
			if !found || !rec.Done {
				return fmt.Errorf("%w: la solicitud original con esta Idempotency-Key sigue en curso", domain.ErrConflict)
			}
			if rec.Fingerprint != fingerprint {
				return domain.NewValidationError("idempotency_key", "ya se usó con otro cuerpo de solicitud")
			}
			c.Set(HeaderReplayed, "true")
			if rec.ContentType != "" {
				c.Set(fiber.HeaderContentType, rec.ContentType)
			}
			return c.Status(rec.Status).Send(rec.Body)
		}

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = store.Delete(ctx, key)
				return herr
			}
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			_ = store.Delete(ctx, key)
			return nil
		}
		err = store.Set(ctx, key, idempotencyRecord{
			Done:        true,
			Fingerprint: fingerprint,
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}, ttl)
		if err != nil {
			// sin registro la clave quedaría "en curso" hasta expirar
			_ = store.Delete(ctx, key)
		}
		return nil
	}
}
