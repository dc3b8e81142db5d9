package repositories

import (
	"qastore/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ownedStatsPipeline groups an owner's posts of one type into a single
// {count, avg_score} row. No row comes back when nothing matches.
func ownedStatsPipeline(ownerID string, postType models.PostType) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "PostTypeId", Value: string(postType)},
			{Key: "OwnerUserId", Value: ownerID},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$OwnerUserId"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avg_score", Value: bson.D{{Key: "$avg", Value: "$Score"}}},
		}}},
	}
}

// searchQuery builds a text search over questions sorted by relevance.
func searchQuery(keywords string) (bson.D, *options.FindOptions) {
	filter := bson.D{
		{Key: "$text", Value: bson.D{
			{Key: "$search", Value: keywords},
			{Key: "$caseSensitive", Value: false},
		}},
		{Key: "PostTypeId", Value: string(models.PostTypeQuestion)},
	}
	textScore := bson.D{{Key: "$meta", Value: "textScore"}}
	opts := options.Find().
		SetProjection(bson.D{{Key: "score", Value: textScore}}).
		SetSort(bson.D{{Key: "score", Value: textScore}})
	return filter, opts
}
