// Package models содержит доменные сущности comments-сервиса.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ContentType — закрытый набор видов контента, к которым привязываются комментарии.
// Новый вид контента = новая константа + ветка в catalog.Checker.
type ContentType string

const (
	ContentArticle ContentType = "ARTICLE"
	ContentVideo   ContentType = "VIDEO"
	ContentPodcast ContentType = "PODCAST"
)

var (
	// ErrUnknownContentType — значение вне закрытого набора ContentType.
	ErrUnknownContentType = errors.New("unknown content type")
	// ErrInvalidContentID — идентификатор контента не положителен.
	ErrInvalidContentID = errors.New("invalid content id")
)

// ContentTypes возвращает все допустимые виды контента в стабильном порядке.
func ContentTypes() []ContentType {
	return []ContentType{ContentArticle, ContentVideo, ContentPodcast}
}

// Valid сообщает, входит ли t в закрытый набор.
func (t ContentType) Valid() bool {
	switch t {
	case ContentArticle, ContentVideo, ContentPodcast:
		return true
	default:
		return false
	}
}

func (t ContentType) String() string { return string(t) }

// ParseContentType разбирает строковый тег вида контента (регистр значим, пробелы по краям игнорируются).
func ParseContentType(s string) (ContentType, error) {
	t := ContentType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownContentType, s)
	}

	return t, nil
}

// ContentRef — ссылка на единицу контента во внешнем каталоге (вид + числовой id).
// После привязки к Comment не меняется.
type ContentRef struct {
	Type ContentType
	ID   int64
}

// Validate проверяет, что ссылка корректно сформирована.
// Существование контента здесь не проверяется — это делает catalog.Checker.
func (r ContentRef) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownContentType, string(r.Type))
	}

	if r.ID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidContentID, r.ID)
	}

	return nil
}

func (r ContentRef) String() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}
