package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// numericCollation makes string ids compare as numbers, so "10" > "9".
var numericCollation = &options.Collation{Locale: "en", NumericOrdering: true}

// MongoStore implements Store on a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	posts  *MongoPostRepository
	tags   *MongoTagRepository
	votes  *MongoVoteRepository
}

// NewMongoStore connects to uri and selects database. The server is pinged
// so an unreachable store fails here rather than on the first query.
func NewMongoStore(ctx context.Context, uri, database string, timeout time.Duration) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("document store at %s is unreachable: %w", uri, err)
	}
	log.Printf("Connected to %s, database %s", uri, database)

	db := client.Database(database)
	return &MongoStore{
		client: client,
		db:     db,
		posts:  &MongoPostRepository{coll: db.Collection(PostsCollection)},
		tags:   &MongoTagRepository{coll: db.Collection(TagsCollection)},
		votes:  &MongoVoteRepository{coll: db.Collection(VotesCollection)},
	}, nil
}

func (s *MongoStore) Posts() PostRepository { return s.posts }
func (s *MongoStore) Tags() TagRepository   { return s.tags }
func (s *MongoStore) Votes() VoteRepository { return s.votes }

// Replace drops the collection and inserts docs in order.
func (s *MongoStore) Replace(ctx context.Context, collection string, docs []map[string]interface{}) error {
	if _, ok := collectionPrefixes[collection]; !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	coll := s.db.Collection(collection)
	if err := coll.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop %s: %w", collection, err)
	}
	if len(docs) == 0 {
		return nil
	}
	rows := make([]interface{}, len(docs))
	for i, d := range docs {
		rows[i] = d
	}
	if _, err := coll.InsertMany(ctx, rows); err != nil {
		return fmt.Errorf("failed to load %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func byID(id string) bson.D {
	return bson.D{{Key: "Id", Value: id}}
}

// findMaxID returns the numerically largest Id in coll, or "" when empty.
func findMaxID(ctx context.Context, coll *mongo.Collection) (string, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "Id", Value: -1}}).
		SetCollation(numericCollation).
		SetProjection(bson.D{{Key: "Id", Value: 1}, {Key: "_id", Value: 0}})

	var doc struct {
		ID string `bson:"Id"`
	}
	err := coll.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read max id of %s: %w", coll.Name(), err)
	}
	return doc.ID, nil
}

// incrementByID adds one to field on the document with the given Id.
func incrementByID(ctx context.Context, coll *mongo.Collection, id, field string) error {
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: field, Value: 1}}}}
	res, err := coll.UpdateOne(ctx, byID(id), update, options.Update().SetCollation(numericCollation))
	if err != nil {
		return fmt.Errorf("failed to increment %s.%s: %w", coll.Name(), field, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
