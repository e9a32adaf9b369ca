package models

import (
	"strings"
	"time"
)

// AnonymousUsername — автор, которым помечаются комментарии и ответы
// от запросов без аутентифицированного пользователя.
const AnonymousUsername = "anonymous"

// Reply — ответ внутри комментария.
// Важно:
//   - ID генерируется при создании (UUID) и не меняется;
//   - Author и CreatedAt не меняются после создания;
//   - отдельного жизненного цикла нет: ответ создаётся только через
//     добавление в комментарий и удаляется только вместе с ним.
type Reply struct {
	ID        string
	Author    string
	Text      string
	CreatedAt time.Time
	Metadata  Metadata
}

// Comment — агрегат: комментарий к единице контента вместе с ответами.
// Важно:
//   - ID назначает хранилище (для MongoDB — hex ObjectID);
//   - Content и Author не меняются после создания;
//   - Replies только растут, порядок вставки = хронологический;
//   - UpdatedAt >= CreatedAt всегда.
type Comment struct {
	ID        string
	Content   ContentRef
	Author    string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Replies   []Reply
	Metadata  Metadata
}

// Clone возвращает глубокую копию комментария (ответы и метаданные не разделяются).
func (c Comment) Clone() Comment {
	out := c
	out.Metadata = c.Metadata.Clone()
	out.Replies = make([]Reply, len(c.Replies))
	for i, r := range c.Replies {
		r.Metadata = r.Metadata.Clone()
		out.Replies[i] = r
	}

	return out
}

// Actor — идентичность, от имени которой выполняется операция.
// Пустой Username означает неаутентифицированный запрос.
type Actor struct {
	Username string
	IsAdmin  bool
}

// Authenticated сообщает, есть ли у запроса идентичность.
func (a Actor) Authenticated() bool {
	return strings.TrimSpace(a.Username) != ""
}

// AuthorName — имя, записываемое в Author при создании комментария/ответа.
func (a Actor) AuthorName() string {
	if !a.Authenticated() {
		return AnonymousUsername
	}

	return strings.TrimSpace(a.Username)
}
