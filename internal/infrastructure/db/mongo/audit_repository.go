package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portway/gatekeeper/internal/core/domain"
)

// AuditRepository stores the append-only actuation trail. There is no update
// or delete path on purpose.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoActuationEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Actor     string             `bson:"actor"`
	Timestamp int64              `bson:"timestamp"`
}

func (r *AuditRepository) Append(ctx context.Context, entry *domain.ActuationEntry) error {
	doc := mongoActuationEntry{
		Actor:     entry.Actor,
		Timestamp: entry.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append actuation entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]*domain.ActuationEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list actuation entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*domain.ActuationEntry
	for cursor.Next(ctx) {
		var me mongoActuationEntry
		if err := cursor.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode actuation entry: %w", err)
		}
		entries = append(entries, &domain.ActuationEntry{
			ID:        me.ID.Hex(),
			Actor:     me.Actor,
			Timestamp: unixToTime(me.Timestamp),
		})
	}
	return entries, cursor.Err()
}
