package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/go-content-comments/internal/models"
	"github.com/pribylovaa/go-content-comments/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ storage.Storage = (*Mongo)(nil)

// commentDoc — представление комментария в коллекции comments.
// Ответы хранятся внутри документа, отдельной коллекции нет.
type commentDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ContentType string             `bson:"content_type"`
	ContentID   int64              `bson:"content_id"`
	Author      string             `bson:"author_username"`
	Text        string             `bson:"text"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
	Replies     []replyDoc         `bson:"replies"`
	Metadata    map[string]any     `bson:"metadata"`
}

type replyDoc struct {
	ID        string         `bson:"id"`
	Author    string         `bson:"author_username"`
	Text      string         `bson:"text"`
	CreatedAt time.Time      `bson:"created_at"`
	Metadata  map[string]any `bson:"metadata"`
}

// MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func toDoc(c models.Comment) commentDoc {
	doc := commentDoc{
		ContentType: string(c.Content.Type),
		ContentID:   c.Content.ID,
		Author:      c.Author,
		Text:        c.Text,
		CreatedAt:   toMS(c.CreatedAt),
		UpdatedAt:   toMS(c.UpdatedAt),
		Replies:     make([]replyDoc, 0, len(c.Replies)),
		Metadata:    encodeMetadata(c.Metadata),
	}

	for _, r := range c.Replies {
		doc.Replies = append(doc.Replies, replyDoc{
			ID:        r.ID,
			Author:    r.Author,
			Text:      r.Text,
			CreatedAt: toMS(r.CreatedAt),
			Metadata:  encodeMetadata(r.Metadata),
		})
	}

	return doc
}

func fromDoc(doc commentDoc) models.Comment {
	c := models.Comment{
		ID:        doc.ID.Hex(),
		Content:   models.ContentRef{Type: models.ContentType(doc.ContentType), ID: doc.ContentID},
		Author:    doc.Author,
		Text:      doc.Text,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
		Replies:   make([]models.Reply, 0, len(doc.Replies)),
		Metadata:  decodeMetadata(doc.Metadata),
	}

	for _, r := range doc.Replies {
		c.Replies = append(c.Replies, models.Reply{
			ID:        r.ID,
			Author:    r.Author,
			Text:      r.Text,
			CreatedAt: r.CreatedAt.UTC(),
			Metadata:  decodeMetadata(r.Metadata),
		})
	}

	return c
}

// encodeMetadata готовит метаданные к записи: json.Number превращается в число,
// иначе драйвер сохранил бы его строкой. Целые вне int64 пишутся как Decimal128
// без потери точности; если и он не вмещает значение, остаётся строка.
func encodeMetadata(m models.Metadata) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = encodeValue(v)
	}

	return out
}

func encodeValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if !strings.ContainsAny(x.String(), ".eE") {
			if d, err := primitive.ParseDecimal128(x.String()); err == nil {
				return d
			}
			return x.String()
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case models.Metadata:
		return encodeMetadata(x)
	case map[string]any:
		return encodeMetadata(x)
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = encodeValue(vv)
		}
		return out
	default:
		return v
	}
}

// decodeMetadata приводит bson-типы (primitive.M, primitive.A, DateTime)
// к обычным map[string]any / []any / time.Time.
func decodeMetadata(m map[string]any) models.Metadata {
	out := make(models.Metadata, len(m))
	for k, v := range m {
		out[k] = decodeValue(v)
	}

	return out
}

func decodeValue(v any) any {
	switch x := v.(type) {
	case primitive.M:
		return map[string]any(decodeMetadata(x))
	case map[string]any:
		return map[string]any(decodeMetadata(x))
	case primitive.D:
		return map[string]any(decodeMetadata(x.Map()))
	case primitive.A:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = decodeValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = decodeValue(vv)
		}
		return out
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Decimal128:
		return json.Number(x.String())
	default:
		return v
	}
}

// CreateComment вставляет документ; _id назначает драйвер.
func (m *Mongo) CreateComment(ctx context.Context, comm models.Comment) (*models.Comment, error) {
	const op = "storage/mongo/CreateComment"

	doc := toDoc(comm)

	res, err := m.comments.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		// Mongo всегда возвращает ObjectID.
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	doc.ID = oid
	out := fromDoc(doc)
	return &out, nil
}

// CommentByID возвращает комментарий по идентификатору.
// Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage/mongo/CommentByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc commentDoc
	if err := m.comments.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := fromDoc(doc)
	return &out, nil
}

// ListByContent возвращает все комментарии единицы контента.
// Сортировка: created_at ASC, _id ASC.
func (m *Mongo) ListByContent(ctx context.Context, ref models.ContentRef) ([]models.Comment, error) {
	const op = "storage/mongo/ListByContent"

	filter := bson.D{
		{Key: "content_type", Value: string(ref.Type)},
		{Key: "content_id", Value: ref.ID},
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := m.comments.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := make([]models.Comment, 0)
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, fromDoc(doc))
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// UpdateComment заменяет документ целиком (текст, ответы, метаданные, updated_at).
func (m *Mongo) UpdateComment(ctx context.Context, comm models.Comment) (*models.Comment, error) {
	const op = "storage/mongo/UpdateComment"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(comm.ID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	doc := toDoc(comm)
	doc.ID = oid

	res, err := m.comments.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	out := fromDoc(doc)
	return &out, nil
}

func (m *Mongo) CommentExists(ctx context.Context, id string) (bool, error) {
	const op = "storage/mongo/CommentExists"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return false, nil
	}

	n, err := m.comments.CountDocuments(ctx, bson.D{{Key: "_id", Value: oid}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}

// DeleteComment удаляет документ вместе с ответами.
// При отсутствии записи — storage.ErrNotFound.
func (m *Mongo) DeleteComment(ctx context.Context, id string) error {
	const op = "storage/mongo/DeleteComment"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.comments.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
