package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pribylovaa/go-content-comments/internal/models"
	"github.com/pribylovaa/go-content-comments/internal/service"
	apierrors "github.com/pribylovaa/go-content-comments/internal/transport/http/errors"
	logctx "github.com/pribylovaa/go-content-comments/pkg/log"
)

// CommentService — операции сервиса, которые нужны HTTP-слою.
type CommentService interface {
	CreateComment(ctx context.Context, in service.CreateCommentInput) (*models.Comment, error)
	CommentByID(ctx context.Context, id string) (*models.Comment, error)
	ListByContent(ctx context.Context, ref models.ContentRef) ([]models.Comment, error)
	AddReply(ctx context.Context, in service.AddReplyInput) (*models.Comment, error)
	EditComment(ctx context.Context, in service.EditCommentInput) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string, actor models.Actor) error
}

// Handlers агрегирует зависимости REST-обработчиков.
type Handlers struct {
	svc      CommentService
	validate *validator.Validate
}

func New(svc CommentService) *Handlers {
	return &Handlers{svc: svc, validate: newValidator()}
}

// newValidator — ошибки называют поля так же, как JSON (contentType, а не ContentType).
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
// Только для создания комментария и ответа; PUT разбирается через decodeEditText.
// Числа в метаданных остаются json.Number, чтобы не терять точность целых.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	dec.UseNumber()

	if err := dec.Decode(value); err != nil {
		return &apierrors.ValidationError{Message: "malformed JSON body: " + err.Error()}
	}

	return nil
}

// decodeEditText достаёт text из тела PUT без строгих проверок:
// неизвестные поля игнорируются, битое тело или text не-строка дают "".
func decodeEditText(r *http.Request) string {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logctx.From(r.Context()).Debug("edit body ignored", "err", err)
		return ""
	}

	text, _ := body["text"].(string)
	return text
}

// validateStruct прогоняет теги validate и собирает ошибки по полям.
func (h *Handlers) validateStruct(value any) error {
	err := h.validate.Struct(value)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &apierrors.ValidationError{Message: "validation failed"}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = reason(fe)
	}

	return &apierrors.ValidationError{Message: "validation failed", Fields: fields}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}
