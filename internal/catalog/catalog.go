// Package catalog описывает внешний каталог контента с точки зрения комментариев:
// единственный вопрос к нему — существует ли единица контента.
package catalog

import (
	"context"

	"github.com/pribylovaa/go-content-comments/internal/models"
)

// Checker отвечает, существует ли контент сейчас.
// Ошибка означает сбой инфраструктуры и не должна трактоваться как «не найдено».
type Checker interface {
	Exists(ctx context.Context, ref models.ContentRef) (bool, error)
}
