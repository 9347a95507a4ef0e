package repository

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Documents carry their ObjectID hex as a string _id, so ids round-trip
// through the API without conversion.

// newID generates a document id.
func newID() string {
	return primitive.NewObjectID().Hex()
}

// validID reports whether id has ObjectID hex shape. Set-question ids are
// UUIDs and never pass, which lets lookups reject them cheaply.
func validID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

func createIndex(ctx context.Context, coll *mongo.Collection, keys bson.D, unique bool) {
	opts := options.Index().SetUnique(unique)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		log.Printf("Warning: failed to create index on %s: %v", coll.Name(), err)
	}
}

// retryRead retries an idempotent read once when the driver reports a
// timeout. Writes are never retried here: a retry after an ambiguous write
// could double-apply.
func retryRead(fn func() error) error {
	err := fn()
	if err != nil && mongo.IsTimeout(err) {
		err = fn()
	}
	return err
}
