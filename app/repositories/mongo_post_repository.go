package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"qastore/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPostRepository implements PostRepository on the Posts collection.
type MongoPostRepository struct {
	coll *mongo.Collection
}

func (r *MongoPostRepository) Insert(ctx context.Context, post *models.Post) error {
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to insert post %s: %w", post.ID, err)
	}
	return nil
}

func (r *MongoPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.coll.FindOne(ctx, byID(id), options.FindOne().SetCollation(numericCollation)).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	return &post, nil
}

func (r *MongoPostRepository) MaxID(ctx context.Context) (string, error) {
	return findMaxID(ctx, r.coll)
}

func (r *MongoPostRepository) OwnedStats(ctx context.Context, ownerID string, postType models.PostType) (int, float64, error) {
	cursor, err := r.coll.Aggregate(ctx, ownedStatsPipeline(ownerID, postType))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate owned posts: %w", err)
	}
	var rows []struct {
		Count    int     `bson:"count"`
		AvgScore float64 `bson:"avg_score"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("failed to read owned posts: %w", err)
	}
	// anything other than a single group means no matching posts
	if len(rows) != 1 {
		return 0, 0, nil
	}
	return rows[0].Count, rows[0].AvgScore, nil
}

func (r *MongoPostRepository) Search(ctx context.Context, keywords string) ([]*models.Post, error) {
	if strings.TrimSpace(keywords) == "" {
		return nil, nil
	}
	filter, opts := searchQuery(keywords)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	var posts []*models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}
	return posts, nil
}

func (r *MongoPostRepository) ListAnswers(ctx context.Context, parentID, excludeID string) ([]*models.Post, error) {
	filter := bson.D{
		{Key: "PostTypeId", Value: string(models.PostTypeAnswer)},
		{Key: "ParentId", Value: parentID},
	}
	if excludeID != "" {
		filter = append(filter, bson.E{Key: "Id", Value: bson.D{{Key: "$ne", Value: excludeID}}})
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "Id", Value: 1}}).
		SetCollation(numericCollation)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers of %s: %w", parentID, err)
	}
	var answers []*models.Post
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, fmt.Errorf("failed to read answers of %s: %w", parentID, err)
	}
	return answers, nil
}

func (r *MongoPostRepository) IncrementViewCount(ctx context.Context, id string) error {
	return incrementByID(ctx, r.coll, id, "ViewCount")
}

func (r *MongoPostRepository) IncrementScore(ctx context.Context, id string) error {
	return incrementByID(ctx, r.coll, id, "Score")
}
