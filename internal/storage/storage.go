// Package storage описывает контракт хранилища комментариев.
package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/go-content-comments/internal/models"
)

var (
	// ErrNotFound — комментарий отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
)

// Storage описывает операции над комментариями.
// Комментарий хранится целиком вместе с ответами и метаданными (один документ).
type Storage interface {
	// CreateComment сохраняет новый комментарий и возвращает его с назначенным ID.
	// Входной ID игнорируется.
	CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error)

	// CommentByID возвращает комментарий по идентификатору.
	// Если записи нет (включая некорректный формат id) — ErrNotFound.
	CommentByID(ctx context.Context, id string) (*models.Comment, error)

	// ListByContent возвращает все комментарии к единице контента.
	// Сортировка: created_at ASC, при равенстве — порядок вставки.
	// Пустой результат — не ошибка.
	ListByContent(ctx context.Context, ref models.ContentRef) ([]models.Comment, error)

	// UpdateComment полностью заменяет сохранённый комментарий по comment.ID.
	// Если записи уже нет — ErrNotFound.
	UpdateComment(ctx context.Context, comment models.Comment) (*models.Comment, error)

	// CommentExists сообщает, есть ли комментарий с таким идентификатором.
	CommentExists(ctx context.Context, id string) (bool, error)

	// DeleteComment удаляет комментарий вместе со всеми ответами.
	// Если записи нет — ErrNotFound.
	DeleteComment(ctx context.Context, id string) error

	// Close освобождает ресурсы хранилища.
	Close(ctx context.Context) error
}
