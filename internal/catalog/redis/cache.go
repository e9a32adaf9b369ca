// Package redis — кэш подтверждённого существования контента поверх любого catalog.Checker.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/go-content-comments/internal/catalog"
	"github.com/pribylovaa/go-content-comments/internal/models"
	"github.com/pribylovaa/go-content-comments/pkg/log"
)

const defaultPrefix = "comments:content:"

// Cache хранит только положительные ответы: контент, который однажды нашёлся,
// считается существующим до истечения TTL. Отрицательные ответы всегда идут
// в каталог, чтобы только что опубликованный контент сразу принимал комментарии.
//
// Ошибки Redis не ломают запрос: они логируются, ответ берётся из каталога.
type Cache struct {
	rdb    *redis.Client
	next   catalog.Checker
	ttl    time.Duration
	prefix string
}

// New оборачивает next кэшем на клиенте rdb.
// Если prefix пустой — используется "comments:content:".
func New(rdb *redis.Client, next catalog.Checker, ttl time.Duration, prefix string) *Cache {
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &Cache{rdb: rdb, next: next, ttl: ttl, prefix: prefix}
}

// NewClient создаёт клиент Redis из URL (например, redis://:pass@host:6379/0)
// и проверяет соединение.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	const op = "catalog/redis/NewClient"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rdb, nil
}

func (c *Cache) key(ref models.ContentRef) string { return c.prefix + ref.String() }

func (c *Cache) Exists(ctx context.Context, ref models.ContentRef) (bool, error) {
	const op = "catalog/redis/Exists"

	logger := log.From(ctx).With("op", op, "content", ref.String())

	err := c.rdb.Get(ctx, c.key(ref)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
	default:
		logger.Warn("cache get failed", "err", err)
	}

	ok, err := c.next.Exists(ctx, ref)
	if err != nil {
		return false, err
	}

	if ok {
		if err := c.rdb.Set(ctx, c.key(ref), "1", c.ttl).Err(); err != nil {
			logger.Warn("cache set failed", "err", err)
		}
	}

	return ok, nil
}

var _ catalog.Checker = (*Cache)(nil)
