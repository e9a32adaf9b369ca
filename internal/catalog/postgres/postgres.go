// Package postgres — проверка существования контента в реляционном каталоге
// (таблицы articles, videos, podcasts).
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/go-content-comments/internal/catalog"
	"github.com/pribylovaa/go-content-comments/internal/models"
)

// existsQueries — по одному запросу на вид контента.
// Имена таблиц фиксированы здесь, пользовательский ввод в SQL не попадает.
var existsQueries = map[models.ContentType]string{
	models.ContentArticle: `SELECT EXISTS (SELECT 1 FROM articles WHERE id = $1)`,
	models.ContentVideo:   `SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`,
	models.ContentPodcast: `SELECT EXISTS (SELECT 1 FROM podcasts WHERE id = $1)`,
}

type Catalog struct {
	db *pgxpool.Pool
}

// New создает пул соединений к каталогу и проверяет его.
func New(ctx context.Context, dbURL string) (*Catalog, error) {
	const op = "catalog/postgres/New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Catalog{db: db}, nil
}

// Exists сообщает, есть ли в каталоге контент ref.
// Неизвестный вид контента — ошибка вызова, а не «не найдено».
func (c *Catalog) Exists(ctx context.Context, ref models.ContentRef) (bool, error) {
	const op = "catalog/postgres/Exists"

	query, ok := existsQueries[ref.Type]
	if !ok {
		return false, fmt.Errorf("%s: %w: %q", op, models.ErrUnknownContentType, string(ref.Type))
	}

	var exists bool
	if err := c.db.QueryRow(ctx, query, ref.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// Close закрывает пул соединений.
func (c *Catalog) Close() {
	c.db.Close()
}

var _ catalog.Checker = (*Catalog)(nil)
