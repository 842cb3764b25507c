// Package cache implementa la caché de reportes de analítica sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-inventario/internal/application/ports"
)

var _ ports.ReportCache = (*RedisReportCache)(nil)

const defaultPrefix = "analytics"

// RedisReportCache guarda reportes serializados en JSON bajo <prefix>:<gen>:<key> con TTL.
// Invalidate incrementa <prefix>:gen; las entradas de generaciones anteriores expiran solas.
type RedisReportCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisReportCache construye el cliente. ttl <= 0 usa 5 minutos.
func NewRedisReportCache(addr, password string, db int, ttl time.Duration) *RedisReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisReportCache{client: client, prefix: defaultPrefix, ttl: ttl}
}

func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

// Generation devuelve la generación vigente; "0" si nunca se invalidó.
func (c *RedisReportCache) Generation(ctx context.Context) (string, error) {
	gen, err := c.client.Get(ctx, c.genKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis: leer generación: %w", err)
	}
	return gen, nil
}

func (c *RedisReportCache) Get(ctx context.Context, gen, key string, dst any) (bool, error) {
	val, err := c.client.Get(ctx, c.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis: leer %s: %w", key, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("redis: decodificar %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, gen, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: codificar %s: %w", key, err)
	}
	return c.client.Set(ctx, c.entryKey(gen, key), payload, c.ttl).Err()
}

// Invalidate abre una generación nueva.
func (c *RedisReportCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.genKey()).Err()
}

func (c *RedisReportCache) genKey() string {
	return c.prefix + ":gen"
}

func (c *RedisReportCache) entryKey(gen, key string) string {
	return c.prefix + ":" + gen + ":" + key
}
