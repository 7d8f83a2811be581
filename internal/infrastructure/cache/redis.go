// Package cache implementa ports.Cache sobre Redis (JSON por clave) y una versión no-op
// para cuando no hay Redis configurado.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jhoicas/rentmojo-api/internal/application/ports"
	"github.com/jhoicas/rentmojo-api/pkg/config"
)

var (
	_ ports.Cache = (*RedisCache)(nil)
	_ ports.Cache = Nop{}
)

// warnInterval mínimo entre dos avisos de fallo de Redis en el log.
const warnInterval = 30 * time.Second

// RedisCache caché JSON en Redis. Los errores se devuelven siempre; en el log se registra
// el primero y luego como mucho uno cada warnInterval, para que una caída de Redis no
// inunde la salida con un aviso por petición.
type RedisCache struct {
	db   *redis.Client
	log  zerolog.Logger
	warn *rate.Sometimes
}

// NewRedis conecta y verifica con PING.
func NewRedis(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*RedisCache, error) {
	const op = "cache.NewRedis"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisCache{db: db, log: log, warn: &rate.Sometimes{First: 1, Interval: warnInterval}}, nil
}

// Get deserializa la clave en dst. (false, nil) si no existe.
func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	const op = "cache.Get"
	val, err := c.db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		c.warnf(err, "cache get", key)
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		c.warnf(err, "cache decode", key)
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set serializa value como JSON con expiración ttl.
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	const op = "cache.Set"
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.db.Set(ctx, key, data, ttl).Err(); err != nil {
		c.warnf(err, "cache set", key)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Invalidate borra las claves indicadas.
func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.db.Del(ctx, keys...).Err(); err != nil {
		c.warnf(err, "cache invalidate", keys...)
		return fmt.Errorf("cache.Invalidate: %w", err)
	}
	return nil
}

func (c *RedisCache) warnf(err error, msg string, keys ...string) {
	c.warn.Do(func() {
		c.log.Warn().Err(err).Strs("keys", keys).Msg(msg)
	})
}

// Ping para el health check.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.db.Ping(ctx).Err()
}

// Close cierra el cliente.
func (c *RedisCache) Close() error {
	return c.db.Close()
}

// Nop caché desactivada: nunca encuentra nada y no guarda nada.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Nop) Invalidate(context.Context, ...string) error           { return nil }
