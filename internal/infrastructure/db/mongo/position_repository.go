package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stockfolio/portfolio-api/internal/core/domain"
)

const positionCollection = "positions"

type MongoPositionRepository struct {
	coll *mongo.Collection
}

func NewPositionRepository(db *mongo.Database) *MongoPositionRepository {
	return &MongoPositionRepository{coll: db.Collection(positionCollection)}
}

// EnsureIndexes creates the unique (user_id, symbol) index that enforces the
// one-position-per-symbol invariant at the store level.
func (r *MongoPositionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "symbol", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create position index: %w", err)
	}
	return nil
}

type mongoPosition struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Symbol    string             `bson:"symbol"`
	Quantity  int                `bson:"quantity"`
	CostBasis float64            `bson:"cost_basis"`
	Version   int64              `bson:"version"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (r *MongoPositionRepository) FindByUserAndSymbol(ctx context.Context, userID, symbol string) (*domain.Position, error) {
	var mp mongoPosition
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID, "symbol": symbol}).Decode(&mp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPositionNotFound
		}
		return nil, fmt.Errorf("find position: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *MongoPositionRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Position, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("find positions: %w", err)
	}
	defer cursor.Close(ctx)

	var positions []*domain.Position
	for cursor.Next(ctx) {
		var mp mongoPosition
		if err := cursor.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode position: %w", err)
		}
		positions = append(positions, mp.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}
	return positions, nil
}

func (r *MongoPositionRepository) Insert(ctx context.Context, p *domain.Position) (*domain.Position, error) {
	now := time.Now().UTC()
	doc := mongoPosition{
		UserID:    p.UserID,
		Symbol:    p.Symbol,
		Quantity:  p.Quantity,
		CostBasis: p.CostBasis,
		Version:   1,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// A concurrent buy won the race to open this position; the
			// caller re-reads and merges.
			return nil, domain.ErrVersionConflict
		}
		return nil, fmt.Errorf("insert position: %w", err)
	}

	created := *p
	created.Version = 1
	created.CreatedAt = now
	created.UpdatedAt = now
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoPositionRepository) Update(ctx context.Context, p *domain.Position) (*domain.Position, error) {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid position id %q: %w", p.ID, err)
	}

	now := time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "version": p.Version},
		bson.M{
			"$set": bson.M{
				"quantity":   p.Quantity,
				"cost_basis": p.CostBasis,
				"updated_at": now.Unix(),
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("update position: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrVersionConflict
	}

	updated := *p
	updated.Version = p.Version + 1
	updated.UpdatedAt = now
	return &updated, nil
}

func (r *MongoPositionRepository) Delete(ctx context.Context, id string, version int64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid position id %q: %w", id, err)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "version": version})
	if err != nil {
		return fmt.Errorf("delete position: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

func (mp *mongoPosition) toDomain() *domain.Position {
	return &domain.Position{
		ID:        mp.ID.Hex(),
		UserID:    mp.UserID,
		Symbol:    mp.Symbol,
		Quantity:  mp.Quantity,
		CostBasis: mp.CostBasis,
		Version:   mp.Version,
		CreatedAt: unixToTime(mp.CreatedAt),
		UpdatedAt: unixToTime(mp.UpdatedAt),
	}
}
