// service содержит бизнес-логику comments-сервиса.
package service

import (
	"errors"
	"time"

	"github.com/pribylovaa/go-content-comments/internal/catalog"
	"github.com/pribylovaa/go-content-comments/internal/storage"
)

var (
	// ErrInvalidArgument — неверные входные параметры (пустой текст, битая ссылка на контент, метаданные).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrContentNotFound — каталог не знает контент, к которому создаётся комментарий.
	ErrContentNotFound = errors.New("content not found")
	// ErrNotFound — комментарий отсутствует в хранилище.
	ErrNotFound = errors.New("comment not found")
	// ErrUnauthenticated — изменение без аутентифицированного пользователя.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden — пользователь аутентифицирован, но не автор и не администратор.
	ErrForbidden = errors.New("forbidden")
	// ErrStoreUnavailable — сбой хранилища комментариев (БД/сеть/контекст).
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrCatalogUnavailable — сбой каталога контента; не путать с ErrContentNotFound.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Service — бизнес-логика комментариев к контенту.
// Собственного состояния, кроме зависимостей, нет.
type Service struct {
	storage storage.Storage
	catalog catalog.Checker
	now     func() time.Time
}

// New создает новый экземпляр Service.
func New(storage storage.Storage, catalog catalog.Checker) *Service {
	return &Service{
		storage: storage,
		catalog: catalog,
		now:     now,
	}
}

// now — текущее время в UTC с точностью до миллисекунд (точность DateTime в MongoDB).
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
