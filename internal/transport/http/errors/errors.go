// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход принимается ошибка сервиса/транспорта, на выход:
//   - корректный HTTP-статус;
//   - короткий стабильный code и безопасное message без утечки деталей;
//   - для ошибок валидации — список полей (fields).
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-content-comments/internal/auth"
	"github.com/pribylovaa/go-content-comments/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Fields — поле запроса -> причина (только для validation_failed).
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ValidationError — ошибка разбора/валидации запроса на уровне транспорта.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid собирает ValidationError по одному полю.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{
		Message: "validation failed",
		Fields:  map[string]string{field: reason},
	}
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ.
//
// Отмена и дедлайн контекста проверяются раньше ErrStoreUnavailable:
// сервис оборачивает их в него, сохраняя причину.
// err == nil — программная ошибка вызова: 500/internal.
func ToHTTP(err error) (int, ErrorResponse) {
	var verr *ValidationError

	switch {
	case err == nil:
		return base(http.StatusInternalServerError, "internal", "internal error")
	case errors.As(err, &verr):
		status, resp := base(http.StatusBadRequest, "validation_failed", verr.Message)
		resp.Error.Fields = verr.Fields
		return status, resp
	case errors.Is(err, service.ErrInvalidArgument):
		return base(http.StatusBadRequest, "validation_failed", "validation failed")
	case errors.Is(err, service.ErrContentNotFound):
		return base(http.StatusNotFound, "content_not_found", "content not found")
	case errors.Is(err, service.ErrNotFound):
		return base(http.StatusNotFound, "comment_not_found", "comment not found")
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired):
		return base(http.StatusUnauthorized, "unauthenticated", "authentication required")
	case errors.Is(err, service.ErrForbidden):
		return base(http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, context.Canceled):
		return base(StatusClientClosedRequest, "canceled", "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return base(http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded")
	case errors.Is(err, service.ErrStoreUnavailable):
		return base(http.StatusServiceUnavailable, "store_unavailable", "comment store unavailable")
	case errors.Is(err, service.ErrCatalogUnavailable):
		return base(http.StatusServiceUnavailable, "catalog_unavailable", "content catalog unavailable")
	default:
		return base(http.StatusInternalServerError, "internal", "internal error")
	}
}

func base(status int, code, msg string) (int, ErrorResponse) {
	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
