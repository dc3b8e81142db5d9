package repositories

import (
	"context"
	"fmt"

	"qastore/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoVoteRepository implements VoteRepository on the Votes collection.
type MongoVoteRepository struct {
	coll *mongo.Collection
}

func (r *MongoVoteRepository) Insert(ctx context.Context, vote *models.Vote) error {
	if _, err := r.coll.InsertOne(ctx, vote); err != nil {
		return fmt.Errorf("failed to insert vote %s: %w", vote.ID, err)
	}
	return nil
}

func (r *MongoVoteRepository) MaxID(ctx context.Context) (string, error) {
	return findMaxID(ctx, r.coll)
}

func (r *MongoVoteRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "UserId", Value: userID}})
	if err != nil {
		return 0, fmt.Errorf("failed to count votes of %s: %w", userID, err)
	}
	return int(n), nil
}

func (r *MongoVoteRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	filter := bson.D{{Key: "PostId", Value: postID}, {Key: "UserId", Value: userID}}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to look up vote on %s: %w", postID, err)
	}
	return n > 0, nil
}
