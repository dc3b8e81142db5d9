package repositories

import (
	"context"
	"errors"
	"fmt"

	"qastore/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTagRepository implements TagRepository on the Tags collection.
type MongoTagRepository struct {
	coll *mongo.Collection
}

func (r *MongoTagRepository) Insert(ctx context.Context, tag *models.Tag) error {
	if _, err := r.coll.InsertOne(ctx, tag); err != nil {
		return fmt.Errorf("failed to insert tag %s: %w", tag.TagName, err)
	}
	return nil
}

func (r *MongoTagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.coll.FindOne(ctx, bson.D{{Key: "TagName", Value: name}}).Decode(&tag)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %s: %w", name, err)
	}
	return &tag, nil
}

func (r *MongoTagRepository) MaxID(ctx context.Context) (string, error) {
	return findMaxID(ctx, r.coll)
}

func (r *MongoTagRepository) IncrementCount(ctx context.Context, id string) error {
	return incrementByID(ctx, r.coll, id, "Count")
}
