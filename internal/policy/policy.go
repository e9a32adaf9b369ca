// Package policy решает, может ли actor изменять комментарий.
//
// Правила:
//
//	EDIT   — разрешено аутентифицированному автору или администратору;
//	DELETE — разрешено только аутентифицированному администратору
//	         (автор без роли администратора удалить свой комментарий не может).
//
// Неаутентифицированный actor всегда получает ReasonUnauthenticated,
// аутентифицированный без нужного отношения/роли — ReasonForbidden.
// Создание комментария и добавление ответа политикой не ограничиваются.
package policy

import "github.com/pribylovaa/go-content-comments/internal/models"

// Operation — изменяющая операция над комментарием.
type Operation int

const (
	OpEdit Operation = iota + 1
	OpDelete
)

func (o Operation) String() string {
	switch o {
	case OpEdit:
		return "EDIT"
	case OpDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// Reason — причина отказа.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnauthenticated
	ReasonForbidden
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "NONE"
	case ReasonUnauthenticated:
		return "UNAUTHENTICATED"
	case ReasonForbidden:
		return "FORBIDDEN"
	default:
		return "UNKNOWN"
	}
}

// Decision — результат проверки.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision             { return Decision{Allowed: true, Reason: ReasonNone} }
func deny(reason Reason) Decision { return Decision{Allowed: false, Reason: reason} }

// Authorize — чистая функция без побочных эффектов.
// Неизвестная операция запрещается с ReasonForbidden.
func Authorize(actor models.Actor, c models.Comment, op Operation) Decision {
	if !actor.Authenticated() {
		return deny(ReasonUnauthenticated)
	}

	switch op {
	case OpEdit:
		if actor.IsAdmin || actor.AuthorName() == c.Author {
			return allow()
		}
		return deny(ReasonForbidden)
	case OpDelete:
		if actor.IsAdmin {
			return allow()
		}
		return deny(ReasonForbidden)
	default:
		return deny(ReasonForbidden)
	}
}
