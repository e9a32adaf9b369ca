package memory

import (
	"context"
	"testing"
	"time"

	"github.com/pribylovaa/go-content-comments/internal/models"
	"github.com/pribylovaa/go-content-comments/internal/storage"
	"github.com/stretchr/testify/require"
)

var article2 = models.ContentRef{Type: models.ContentArticle, ID: 2}

func newComment(ref models.ContentRef, author, text string, at time.Time) models.Comment {
	return models.Comment{
		Content:   ref,
		Author:    author,
		Text:      text,
		CreatedAt: at,
		UpdatedAt: at,
		Metadata:  models.Metadata{},
	}
}

func TestStorage_CreateAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateComment(ctx, newComment(article2, "alice", "hello", time.Now()))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.CommentByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	_, err = s.CommentByID(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// Изменение возвращённой копии не влияет на сохранённые данные.
func TestStorage_ReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	in := newComment(article2, "alice", "hello", time.Now())
	in.Metadata = models.Metadata{"k": "v"}
	created, err := s.CreateComment(ctx, in)
	require.NoError(t, err)

	in.Metadata["k"] = "changed"
	created.Text = "changed"
	created.Replies = append(created.Replies, models.Reply{ID: "r"})

	got, err := s.CommentByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "hello", got.Text)
	require.Equal(t, "v", got.Metadata["k"])
	require.Empty(t, got.Replies)
}

// Сортировка по created_at ASC; при равных временах — порядок вставки.
func TestStorage_ListByContent_OrderAndFilter(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	late, err := s.CreateComment(ctx, newComment(article2, "a", "late", base.Add(time.Minute)))
	require.NoError(t, err)
	tie1, err := s.CreateComment(ctx, newComment(article2, "b", "tie-1", base))
	require.NoError(t, err)
	tie2, err := s.CreateComment(ctx, newComment(article2, "c", "tie-2", base))
	require.NoError(t, err)

	_, err = s.CreateComment(ctx, newComment(models.ContentRef{Type: models.ContentVideo, ID: 2}, "d", "other kind", base))
	require.NoError(t, err)
	_, err = s.CreateComment(ctx, newComment(models.ContentRef{Type: models.ContentArticle, ID: 3}, "e", "other id", base))
	require.NoError(t, err)

	items, err := s.ListByContent(ctx, article2)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, []string{tie1.ID, tie2.ID, late.ID}, []string{items[0].ID, items[1].ID, items[2].ID})

	empty, err := s.ListByContent(ctx, models.ContentRef{Type: models.ContentPodcast, ID: 99})
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestStorage_UpdateComment(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateComment(ctx, newComment(article2, "alice", "hello", time.Now()))
	require.NoError(t, err)

	created.Text = "edited"
	created.Replies = append(created.Replies, models.Reply{ID: "r1", Author: "bob", Text: "hi"})

	updated, err := s.UpdateComment(ctx, *created)
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Text)
	require.Len(t, updated.Replies, 1)

	_, err = s.UpdateComment(ctx, models.Comment{ID: "missing"})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_ExistsAndDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateComment(ctx, newComment(article2, "alice", "hello", time.Now()))
	require.NoError(t, err)

	ok, err := s.CommentExists(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.DeleteComment(ctx, created.ID))

	ok, err = s.CommentExists(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, s.DeleteComment(ctx, created.ID), storage.ErrNotFound)
}

func TestStorage_CanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CreateComment(ctx, newComment(article2, "alice", "hello", time.Now()))
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.ListByContent(ctx, article2)
	require.ErrorIs(t, err, context.Canceled)
}
