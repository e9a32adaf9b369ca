package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-content-comments/internal/auth"
	"github.com/pribylovaa/go-content-comments/internal/models"
	"github.com/pribylovaa/go-content-comments/internal/service"
	apierrors "github.com/pribylovaa/go-content-comments/internal/transport/http/errors"
)

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	var in CreateCommentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.validateStruct(in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	c, err := h.svc.CreateComment(r.Context(), service.CreateCommentInput{
		Content:  models.ContentRef{Type: models.ContentType(in.ContentType), ID: in.ContentID},
		Text:     in.Text,
		Actor:    auth.ActorFrom(r.Context()),
		Metadata: in.Metadata,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentFromModel(c))
}

func (h *Handlers) GetCommentByID(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.CommentByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentFromModel(c))
}

// ListByContent — GET /api/comments/by-content?type=ARTICLE&contentId=1.
func (h *Handlers) ListByContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fields := map[string]string{}

	var ref models.ContentRef

	if v := strings.TrimSpace(q.Get("type")); v == "" {
		fields["type"] = "is required"
	} else if t, err := models.ParseContentType(v); err != nil {
		fields["type"] = "must be one of: " + contentTypesList()
	} else {
		ref.Type = t
	}

	if v := strings.TrimSpace(q.Get("contentId")); v == "" {
		fields["contentId"] = "is required"
	} else if id, err := strconv.ParseInt(v, 10, 64); err != nil || id <= 0 {
		fields["contentId"] = "must be a positive integer"
	} else {
		ref.ID = id
	}

	if len(fields) > 0 {
		apierrors.WriteError(w, r, &apierrors.ValidationError{Message: "validation failed", Fields: fields})
		return
	}

	items, err := h.svc.ListByContent(r.Context(), ref)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentsFromModels(items))
}

func (h *Handlers) AddReply(w http.ResponseWriter, r *http.Request) {
	var in CreateReplyRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.validateStruct(in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	c, err := h.svc.AddReply(r.Context(), service.AddReplyInput{
		CommentID: chi.URLParam(r, "id"),
		Text:      in.Text,
		Actor:     auth.ActorFrom(r.Context()),
		Metadata:  in.Metadata,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentFromModel(c))
}

func (h *Handlers) EditComment(w http.ResponseWriter, r *http.Request) {
	// Тело не валидируется: у редактирования нет ошибки валидации,
	// всё, кроме строкового text, считается отсутствующим текстом.
	c, err := h.svc.EditComment(r.Context(), service.EditCommentInput{
		CommentID: chi.URLParam(r, "id"),
		Text:      decodeEditText(r),
		Actor:     auth.ActorFrom(r.Context()),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentFromModel(c))
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteComment(r.Context(), chi.URLParam(r, "id"), auth.ActorFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// contentTypesList — допустимые значения type через пробел, как в тегах oneof.
func contentTypesList() string {
	types := models.ContentTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}

	return strings.Join(names, " ")
}
