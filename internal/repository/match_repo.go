package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"spin2win/internal/model"
)

// MatchRepo is the read-only view onto the bracket system's match records.
// Match CRUD lives outside the quiz engine; answer resolution only needs the
// two players and their display names.
type MatchRepo interface {
	GetByID(ctx context.Context, id string) (*model.Match, error)
}

type matchRepo struct {
	collection *mongo.Collection
}

// NewMatchRepo creates a new match repository.
func NewMatchRepo(db *mongo.Database) MatchRepo {
	r := &matchRepo{collection: db.Collection("matches")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	createIndex(ctx, r.collection, bson.D{{Key: "matchId", Value: 1}}, true)
	return r
}

func (r *matchRepo) GetByID(ctx context.Context, id string) (*model.Match, error) {
	var match model.Match
	err := retryRead(func() error {
		// Sets may reference a match by bracket id or document id.
		return r.collection.FindOne(ctx, bson.M{"$or": bson.A{
			bson.M{"matchId": id},
			bson.M{"_id": id},
		}}).Decode(&match)
	})
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}
