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

type AccessCodeRepository struct {
	coll *mongo.Collection
}

func NewAccessCodeRepository(db *mongo.Database) *AccessCodeRepository {
	return &AccessCodeRepository{coll: db.Collection(codesCollection)}
}

type mongoAccessCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Code      string             `bson:"code"`
	Note      string             `bson:"note,omitempty"`
	CreatedBy string             `bson:"created_by"`
	ExpiresAt int64              `bson:"expires_at"`
	CreatedAt int64              `bson:"created_at"`
}

func (mc *mongoAccessCode) toDomain() *domain.AccessCode {
	return &domain.AccessCode{
		ID:        mc.ID.Hex(),
		Code:      mc.Code,
		Note:      mc.Note,
		CreatedBy: mc.CreatedBy,
		ExpiresAt: unixToTime(mc.ExpiresAt),
		CreatedAt: unixToTime(mc.CreatedAt),
	}
}

func (r *AccessCodeRepository) Create(ctx context.Context, code *domain.AccessCode) (*domain.AccessCode, error) {
	doc := mongoAccessCode{
		Code:      code.Code,
		Note:      code.Note,
		CreatedBy: code.CreatedBy,
		ExpiresAt: code.ExpiresAt.Unix(),
		CreatedAt: code.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		// The unique index on code is the collision detector the issue
		// retry loop relies on.
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCodeExists
		}
		return nil, fmt.Errorf("insert access code: %w", err)
	}

	created := *code
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *AccessCodeRepository) FindByCode(ctx context.Context, code string) (*domain.AccessCode, error) {
	var mc mongoAccessCode
	if err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCodeInvalid
		}
		return nil, fmt.Errorf("find access code: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *AccessCodeRepository) List(ctx context.Context) ([]*domain.AccessCode, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list access codes: %w", err)
	}
	defer cursor.Close(ctx)

	var codes []*domain.AccessCode
	for cursor.Next(ctx) {
		var mc mongoAccessCode
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode access code: %w", err)
		}
		codes = append(codes, mc.toDomain())
	}
	return codes, cursor.Err()
}

// Delete removes a code. Unknown or malformed ids delete nothing and report
// no error, making revocation idempotent.
func (r *AccessCodeRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete access code: %w", err)
	}
	return nil
}
