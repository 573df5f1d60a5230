package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mr3x-notificacoes/internal/domain"
)

const auditEventsCollection = "notice_events"

type AuditEventRepository interface {
	Create(ctx context.Context, event *domain.AuditEvent) error
	ListByNotice(ctx context.Context, noticeID uuid.UUID) ([]domain.AuditEvent, error)
}

type auditEventDocument struct {
	ID        string    `bson:"_id"`
	NoticeID  string    `bson:"notice_id"`
	Token     string    `bson:"token"`
	Type      string    `bson:"type"`
	IPAddress *string   `bson:"ip_address,omitempty"`
	Hash      *string   `bson:"hash,omitempty"`
	Detail    string    `bson:"detail,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

type auditEventRepository struct {
	coll *mongo.Collection
}

func NewAuditEventRepository(db *mongo.Database) AuditEventRepository {
	return &auditEventRepository{coll: db.Collection(auditEventsCollection)}
}

func (r *auditEventRepository) Create(ctx context.Context, e *domain.AuditEvent) error {
	doc := auditEventDocument{
		ID:        e.ID.String(),
		NoticeID:  e.NoticeID.String(),
		Token:     e.Token,
		Type:      string(e.Type),
		IPAddress: e.IPAddress,
		Hash:      e.Hash,
		Detail:    e.Detail,
		CreatedAt: e.CreatedAt,
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

func (r *auditEventRepository) ListByNotice(ctx context.Context, noticeID uuid.UUID) ([]domain.AuditEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"notice_id": noticeID.String()}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []auditEventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	events := make([]domain.AuditEvent, 0, len(docs))
	for _, d := range docs {
		id, _ := uuid.Parse(d.ID)
		nid, _ := uuid.Parse(d.NoticeID)
		events = append(events, domain.AuditEvent{
			ID:        id,
			NoticeID:  nid,
			Token:     d.Token,
			Type:      domain.AuditEventType(d.Type),
			IPAddress: d.IPAddress,
			Hash:      d.Hash,
			Detail:    d.Detail,
			CreatedAt: d.CreatedAt,
		})
	}
	return events, nil
}
