package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sequence hands out increasing integer IDs backed by the "counters" collection
type sequence struct {
	collection *mongo.Collection
	name       string
}

func newSequence(db *mongo.Database, name string) *sequence {
	return &sequence{
		collection: db.Collection("counters"),
		name:       name,
	}
}

// next reserves n consecutive IDs and returns the first one
func (s *sequence) next(ctx context.Context, n int64) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Value int64 `bson:"value"`
	}
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": s.name},
		bson.M{"$inc": bson.M{"value": n}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", s.name, err)
	}
	return counter.Value - n + 1, nil
}
