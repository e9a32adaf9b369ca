package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-content-comments/internal/models"
	"github.com/pribylovaa/go-content-comments/internal/policy"
	"github.com/pribylovaa/go-content-comments/internal/storage"
	"github.com/pribylovaa/go-content-comments/pkg/log"
)

// Входные структуры сервисного слоя.

// CreateCommentInput — новый комментарий к единице контента.
// Пустой Actor означает анонимного автора.
type CreateCommentInput struct {
	Content  models.ContentRef
	Text     string
	Actor    models.Actor
	Metadata models.Metadata
}

// AddReplyInput — ответ в существующий комментарий.
type AddReplyInput struct {
	CommentID string
	Text      string
	Actor     models.Actor
	Metadata  models.Metadata
}

// EditCommentInput — замена текста комментария.
// Пустой (после TrimSpace) Text — не ошибка, а пустая операция.
type EditCommentInput struct {
	CommentID string
	Text      string
	Actor     models.Actor
}

// CreateComment — создание комментария.
//
// Валидация:
//   - Text нормализуется (TrimSpace) и не должен быть пустым;
//   - Content должен быть корректной ссылкой (известный вид, id > 0);
//   - Metadata — только JSON-совместимые значения.
//
// Поведение/ошибки:
//   - ErrContentNotFound — каталог не подтвердил контент, запись не создаётся;
//   - ErrCatalogUnavailable — каталог недоступен;
//   - ErrStoreUnavailable — ошибка хранилища.
func (s *Service) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	const op = "service/comments/CreateComment"

	author := in.Actor.AuthorName()
	lg := log.From(ctx).With(
		"op", op,
		"content", in.Content.String(),
		"author", author,
	)

	text := strings.TrimSpace(in.Text)
	if text == "" {
		lg.Warn("invalid argument: empty text")
		return nil, fmt.Errorf("%s: %w: text must not be blank", op, ErrInvalidArgument)
	}

	if err := in.Content.Validate(); err != nil {
		lg.Warn("invalid argument: content reference", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	if err := in.Metadata.Validate(); err != nil {
		lg.Warn("invalid argument: metadata", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	exists, err := s.catalog.Exists(ctx, in.Content)
	if err != nil {
		lg.Error("catalog error on CreateComment", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrCatalogUnavailable, err)
	}

	if !exists {
		lg.Warn("content not found")
		return nil, fmt.Errorf("%s: %w", op, ErrContentNotFound)
	}

	at := s.now()
	comm := models.Comment{
		Content:   in.Content,
		Author:    author,
		Text:      text,
		CreatedAt: at,
		UpdatedAt: at,
		Replies:   []models.Reply{},
		Metadata:  in.Metadata.Clone(),
	}

	result, err := s.storage.CreateComment(ctx, comm)
	if err != nil {
		return nil, storageError(lg, op, err)
	}

	return result, nil
}

// CommentByID — получение комментария вместе с ответами.
//
// Поведение/ошибки:
//   - ErrNotFound — комментарий не найден (включая пустой id);
//   - ErrStoreUnavailable — ошибка хранилища.
func (s *Service) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "service/comments/CommentByID"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id)

	if id == "" {
		lg.Warn("not found: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	result, err := s.storage.CommentByID(ctx, id)
	if err != nil {
		return nil, storageError(lg, op, err)
	}

	return result, nil
}

// ListByContent — все комментарии единицы контента по возрастанию created_at.
// Пустой результат — не ошибка. Существование контента в каталоге не проверяется.
func (s *Service) ListByContent(ctx context.Context, ref models.ContentRef) ([]models.Comment, error) {
	const op = "service/comments/ListByContent"

	lg := log.From(ctx).With("op", op, "content", ref.String())

	if err := ref.Validate(); err != nil {
		lg.Warn("invalid argument: content reference", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	items, err := s.storage.ListByContent(ctx, ref)
	if err != nil {
		return nil, storageError(lg, op, err)
	}

	if items == nil {
		items = []models.Comment{}
	}

	return items, nil
}

// AddReply — добавление ответа. Политикой не ограничивается: анонимный
// ответ записывается с автором "anonymous".
//
// Параллельные AddReply к одному комментарию могут потерять одно из добавлений:
// комментарий перезаписывается целиком, версионирования нет.
//
// Поведение/ошибки:
//   - ErrInvalidArgument — пустой текст или некорректные метаданные;
//   - ErrNotFound — комментарий не найден;
//   - ErrStoreUnavailable — ошибка хранилища.
func (s *Service) AddReply(ctx context.Context, in AddReplyInput) (*models.Comment, error) {
	const op = "service/comments/AddReply"

	id := strings.TrimSpace(in.CommentID)
	author := in.Actor.AuthorName()
	lg := log.From(ctx).With("op", op, "id", id, "author", author)

	text := strings.TrimSpace(in.Text)
	if text == "" {
		lg.Warn("invalid argument: empty text")
		return nil, fmt.Errorf("%s: %w: text must not be blank", op, ErrInvalidArgument)
	}

	if err := in.Metadata.Validate(); err != nil {
		lg.Warn("invalid argument: metadata", "err", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}

	comm, err := s.CommentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	at := s.now()
	comm.Replies = append(comm.Replies, models.Reply{
		ID:        uuid.NewString(),
		Author:    author,
		Text:      text,
		CreatedAt: at,
		Metadata:  in.Metadata.Clone(),
	})
	comm.UpdatedAt = laterOf(comm.UpdatedAt, at)

	result, err := s.storage.UpdateComment(ctx, *comm)
	if err != nil {
		return nil, storageError(lg, op, err)
	}

	return result, nil
}

// EditComment — замена текста комментария.
//
// Пустой текст не отклоняется: комментарий сохраняется повторно без изменений
// и возвращается, политика при этом не проверяется.
//
// Поведение/ошибки:
//   - ErrNotFound — комментарий не найден;
//   - ErrUnauthenticated — нет пользователя;
//   - ErrForbidden — не автор и не администратор;
//   - ErrStoreUnavailable — ошибка хранилища.
func (s *Service) EditComment(ctx context.Context, in EditCommentInput) (*models.Comment, error) {
	const op = "service/comments/EditComment"

	id := strings.TrimSpace(in.CommentID)
	lg := log.From(ctx).With("op", op, "id", id, "actor", in.Actor.Username, "admin", in.Actor.IsAdmin)

	comm, err := s.CommentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	text := strings.TrimSpace(in.Text)
	if text != "" {
		if err := authorize(lg, op, in.Actor, *comm, policy.OpEdit); err != nil {
			return nil, err
		}

		comm.Text = text
		comm.UpdatedAt = laterOf(comm.UpdatedAt, s.now())
	} else {
		lg.Debug("blank text: comment saved unchanged")
	}

	result, err := s.storage.UpdateComment(ctx, *comm)
	if err != nil {
		return nil, storageError(lg, op, err)
	}

	return result, nil
}

// DeleteComment — удаление комментария вместе с ответами.
//
// Поведение/ошибки:
//   - ErrNotFound — комментарий не найден;
//   - ErrUnauthenticated — нет пользователя;
//   - ErrForbidden — пользователь не администратор (в том числе автор);
//   - ErrStoreUnavailable — ошибка хранилища.
func (s *Service) DeleteComment(ctx context.Context, id string, actor models.Actor) error {
	const op = "service/comments/DeleteComment"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "id", id, "actor", actor.Username, "admin", actor.IsAdmin)

	if id == "" {
		lg.Warn("not found: empty id")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	exists, err := s.storage.CommentExists(ctx, id)
	if err != nil {
		return storageError(lg, op, err)
	}

	if !exists {
		lg.Warn("comment not found")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	// Решение по DELETE зависит только от роли, автор не нужен.
	if err := authorize(lg, op, actor, models.Comment{ID: id}, policy.OpDelete); err != nil {
		return err
	}

	if err := s.storage.DeleteComment(ctx, id); err != nil {
		return storageError(lg, op, err)
	}

	lg.Info("comment deleted")
	return nil
}

// authorize переводит отказ политики в ошибку сервиса.
func authorize(lg *slog.Logger, op string, actor models.Actor, comm models.Comment, operation policy.Operation) error {
	d := policy.Authorize(actor, comm, operation)
	if d.Allowed {
		return nil
	}

	lg.Warn("access denied", "operation", operation.String(), "reason", d.Reason.String())

	if d.Reason == policy.ReasonUnauthenticated {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	return fmt.Errorf("%s: %w", op, ErrForbidden)
}

// storageError переводит ошибку хранилища в ошибку сервиса.
// Причина сохраняется в цепочке, чтобы транспорт мог отличить отмену контекста.
func storageError(lg *slog.Logger, op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		lg.Warn("comment not found")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	lg.Error("storage error", "err", err)
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// laterOf не даёт updated_at уйти назад, если часы сдвинулись.
func laterOf(prev, next time.Time) time.Time {
	if next.Before(prev) {
		return prev
	}

	return next
}
