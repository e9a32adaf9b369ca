// Package memory — хранилище комментариев в памяти процесса.
// Используется для локального запуска (storage.driver: memory) и в тестах.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pribylovaa/go-content-comments/internal/models"
	"github.com/pribylovaa/go-content-comments/internal/storage"
)

type record struct {
	seq     uint64
	comment models.Comment
}

// Storage хранит копии комментариев: наружу и внутрь данные всегда
// копируются, как при работе с документной БД.
type Storage struct {
	mu      sync.RWMutex
	seq     uint64
	records map[string]*record
}

// New создает пустое хранилище.
func New() *Storage {
	return &Storage{records: make(map[string]*record)}
}

var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	const op = "storage/memory/CreateComment"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	comment = comment.Clone()
	comment.ID = strconv.FormatUint(s.seq, 10)
	s.records[comment.ID] = &record{seq: s.seq, comment: comment}

	out := comment.Clone()
	return &out, nil
}

func (s *Storage) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage/memory/CommentByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	out := rec.comment.Clone()
	return &out, nil
}

func (s *Storage) ListByContent(ctx context.Context, ref models.ContentRef) ([]models.Comment, error) {
	const op = "storage/memory/ListByContent"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	matched := make([]record, 0)
	for _, rec := range s.records {
		if rec.comment.Content == ref {
			matched = append(matched, record{seq: rec.seq, comment: rec.comment.Clone()})
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.comment.CreatedAt.Equal(b.comment.CreatedAt) {
			return a.comment.CreatedAt.Before(b.comment.CreatedAt)
		}
		return a.seq < b.seq
	})

	items := make([]models.Comment, 0, len(matched))
	for _, rec := range matched {
		items = append(items, rec.comment)
	}

	return items, nil
}

func (s *Storage) UpdateComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	const op = "storage/memory/UpdateComment"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[comment.ID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	rec.comment = comment.Clone()

	out := rec.comment.Clone()
	return &out, nil
}

func (s *Storage) CommentExists(ctx context.Context, id string) (bool, error) {
	const op = "storage/memory/CommentExists"

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[strings.TrimSpace(id)]
	return ok, nil
}

func (s *Storage) DeleteComment(ctx context.Context, id string) error {
	const op = "storage/memory/DeleteComment"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id = strings.TrimSpace(id)
	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	delete(s.records, id)
	return nil
}

func (s *Storage) Close(context.Context) error { return nil }
