package handlers

import (
	"time"

	"github.com/pribylovaa/go-content-comments/internal/models"
)

// CreateCommentRequest — тело POST /api/comments.
type CreateCommentRequest struct {
	ContentType string         `json:"contentType" validate:"required,oneof=ARTICLE VIDEO PODCAST"`
	ContentID   int64          `json:"contentId"   validate:"required,gt=0"`
	Text        string         `json:"text"        validate:"required,notblank"`
	Metadata    map[string]any `json:"metadata"`
}

// CreateReplyRequest — тело POST /api/comments/{id}/replies.
type CreateReplyRequest struct {
	Text     string         `json:"text"     validate:"required,notblank"`
	Metadata map[string]any `json:"metadata"`
}

type ReplyResponse struct {
	ID             string         `json:"id"`
	AuthorUsername string         `json:"authorUsername"`
	Text           string         `json:"text"`
	CreatedAt      time.Time      `json:"createdAt"`
	Metadata       map[string]any `json:"metadata"`
}

type CommentResponse struct {
	ID             string          `json:"id"`
	ContentType    string          `json:"contentType"`
	ContentID      int64           `json:"contentId"`
	AuthorUsername string          `json:"authorUsername"`
	Text           string          `json:"text"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	Replies        []ReplyResponse `json:"replies"`
	Metadata       map[string]any  `json:"metadata"`
}

func commentFromModel(c *models.Comment) CommentResponse {
	out := CommentResponse{
		ID:             c.ID,
		ContentType:    string(c.Content.Type),
		ContentID:      c.Content.ID,
		AuthorUsername: c.Author,
		Text:           c.Text,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Replies:        make([]ReplyResponse, 0, len(c.Replies)),
		Metadata:       metadataOrEmpty(c.Metadata),
	}

	for _, r := range c.Replies {
		out.Replies = append(out.Replies, ReplyResponse{
			ID:             r.ID,
			AuthorUsername: r.Author,
			Text:           r.Text,
			CreatedAt:      r.CreatedAt,
			Metadata:       metadataOrEmpty(r.Metadata),
		})
	}

	return out
}

func commentsFromModels(items []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(items))
	for i := range items {
		out = append(out, commentFromModel(&items[i]))
	}

	return out
}

// metadataOrEmpty — в JSON всегда объект, а не null.
func metadataOrEmpty(m models.Metadata) map[string]any {
	if m == nil {
		return map[string]any{}
	}

	return m
}
