package repositories

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

func index(collection, name string, keys bson.D, opts *options.IndexOptions) indexSpec {
	if opts == nil {
		opts = options.Index()
	}
	return indexSpec{
		collection: collection,
		model:      mongo.IndexModel{Keys: keys, Options: opts.SetName(name)},
	}
}

// indexSpecs lists every index the queries rely on.
func indexSpecs() []indexSpec {
	numericID := func() *options.IndexOptions {
		return options.Index().SetCollation(numericCollation)
	}
	return []indexSpec{
		index(PostsCollection, "posts_id_numeric", bson.D{{Key: "Id", Value: 1}}, numericID()),
		index(PostsCollection, "posts_type_owner", bson.D{{Key: "PostTypeId", Value: 1}, {Key: "OwnerUserId", Value: 1}}, nil),
		index(PostsCollection, "posts_type_parent", bson.D{{Key: "PostTypeId", Value: 1}, {Key: "ParentId", Value: 1}}, nil),
		index(PostsCollection, "posts_text", bson.D{
			{Key: "Title", Value: "text"},
			{Key: "Body", Value: "text"},
			{Key: "Tags", Value: "text"},
		}, options.Index().SetDefaultLanguage("none")),
		index(TagsCollection, "tags_id_numeric", bson.D{{Key: "Id", Value: 1}}, numericID()),
		index(TagsCollection, "tags_name", bson.D{{Key: "TagName", Value: 1}}, nil),
		index(VotesCollection, "votes_id_numeric", bson.D{{Key: "Id", Value: 1}}, numericID()),
		index(VotesCollection, "votes_user", bson.D{{Key: "UserId", Value: 1}}, nil),
		index(VotesCollection, "votes_post_user", bson.D{{Key: "PostId", Value: 1}, {Key: "UserId", Value: 1}}, nil),
	}
}

// EnsureIndexes creates the indexes whose names are not present yet.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	existing := make(map[string]map[string]bool)
	for _, spec := range indexSpecs() {
		names, ok := existing[spec.collection]
		if !ok {
			var err error
			names, err = s.indexNames(ctx, spec.collection)
			if err != nil {
				return err
			}
			existing[spec.collection] = names
		}

		name := *spec.model.Options.Name
		if names[name] {
			continue
		}
		if _, err := s.db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model); err != nil {
			return fmt.Errorf("failed to create index %s on %s: %w", name, spec.collection, err)
		}
		names[name] = true
		log.Printf("Created index %s on %s", name, spec.collection)
	}
	return nil
}

func (s *MongoStore) indexNames(ctx context.Context, collection string) (map[string]bool, error) {
	cursor, err := s.db.Collection(collection).Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes of %s: %w", collection, err)
	}
	var specs []struct {
		Name string `bson:"name"`
	}
	if err := cursor.All(ctx, &specs); err != nil {
		return nil, fmt.Errorf("failed to read indexes of %s: %w", collection, err)
	}
	names := make(map[string]bool, len(specs))
	for _, spec := range specs {
		names[spec.Name] = true
	}
	return names, nil
}
