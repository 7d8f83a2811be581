package ports

import (
	"context"
	"time"
)

// Cache puerto de caché clave/valor con serialización JSON.
// Los adaptadores deben tolerar la ausencia del backend: un fallo de caché
// nunca es un fallo del caso de uso.
type Cache interface {
	// Get deserializa el valor en dst. Devuelve false si la clave no existe.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}
