package repositories

import (
	"context"
	"testing"

	"qastore/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(id, owner string, score int, title, body, tags string) map[string]interface{} {
	doc := map[string]interface{}{
		"Id":           id,
		"PostTypeId":   "1",
		"CreationDate": "2020-09-06T03:24:33.000",
		"Score":        score,
		"ViewCount":    0,
		"Title":        title,
		"Body":         body,
		"AnswerCount":  0,
		"CommentCount": 0,
	}
	if owner != "" {
		doc["OwnerUserId"] = owner
	}
	if tags != "" {
		doc["Tags"] = tags
	}
	return doc
}

func answer(id, parent, owner string, score int, body string) map[string]interface{} {
	doc := map[string]interface{}{
		"Id":           id,
		"PostTypeId":   "2",
		"ParentId":     parent,
		"CreationDate": "2020-09-06T04:00:00.000",
		"Score":        score,
		"Body":         body,
		"CommentCount": 0,
	}
	if owner != "" {
		doc["OwnerUserId"] = owner
	}
	return doc
}

func samplePosts() []map[string]interface{} {
	q1 := question("1", "42", 2, "Mongo basics", "How to start with mongo", "<mongodb>")
	q1["AcceptedAnswerId"] = "7"
	return []map[string]interface{}{
		q1,
		question("2", "42", 4, "Badger keys", "Prefix scans", "<badger>"),
		question("3", "7", 0, "Sorting", "Numeric MONGO ids", "<sorting>"),
		answer("4", "1", "42", 1, "Use mongosh"),
		answer("5", "1", "", 3, "Read the docs"),
		answer("6", "2", "7", 0, "Use iterators"),
		answer("7", "1", "7", 5, "Accepted one"),
		question("8", "9", 1, "Unrelated", "nothing here", ""),
		answer("9", "3", "42", 3, "mongo sorting with collation"),
	}
}

func postIDs(posts []*models.Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

// runStoreContract exercises the behaviour every Store backend must share.
func runStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, PostsCollection, samplePosts()))
	require.NoError(t, store.Replace(ctx, TagsCollection, []map[string]interface{}{
		{"Id": "1", "TagName": "mongodb", "Count": 1},
		{"Id": "2", "TagName": "badger", "Count": 3},
	}))
	require.NoError(t, store.Replace(ctx, VotesCollection, []map[string]interface{}{
		{"Id": "1", "PostId": "1", "VoteTypeId": "2", "UserId": "42", "CreationDate": "2020-09-06T00:00:00.000"},
		{"Id": "2", "PostId": "2", "VoteTypeId": "2", "CreationDate": "2020-09-06T00:00:00.000"},
	}))

	t.Run("ensure indexes is idempotent", func(t *testing.T) {
		require.NoError(t, store.EnsureIndexes(ctx))
		require.NoError(t, store.EnsureIndexes(ctx))
	})

	t.Run("max id is numeric", func(t *testing.T) {
		max, err := store.Posts().MaxID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "9", max)

		post := &models.Post{
			ID:           "10",
			PostTypeID:   models.PostTypeAnswer,
			ParentID:     "8",
			Body:         "Tenth post",
			CreationDate: models.Timestamp(timeFixture),
		}
		require.NoError(t, store.Posts().Insert(ctx, post))

		max, err = store.Posts().MaxID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "10", max)
	})

	t.Run("get by id", func(t *testing.T) {
		post, err := store.Posts().GetByID(ctx, "7")
		require.NoError(t, err)
		assert.Equal(t, "Accepted one", post.Body)
		assert.Equal(t, 5, post.Score)

		_, err = store.Posts().GetByID(ctx, "999")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("owned stats", func(t *testing.T) {
		count, avg, err := store.Posts().OwnedStats(ctx, "42", models.PostTypeQuestion)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.InDelta(t, 3.0, avg, 1e-9)

		count, avg, err = store.Posts().OwnedStats(ctx, "42", models.PostTypeAnswer)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.InDelta(t, 2.0, avg, 1e-9)

		count, avg, err = store.Posts().OwnedStats(ctx, "1000", models.PostTypeQuestion)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assert.Equal(t, 0.0, avg)
	})

	t.Run("search returns questions only", func(t *testing.T) {
		posts, err := store.Posts().Search(ctx, "mongo")
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.ElementsMatch(t, []string{"1", "3"}, postIDs(posts))
		assert.Equal(t, "1", posts[0].ID)
		for _, p := range posts {
			assert.Equal(t, models.PostTypeQuestion, p.PostTypeID)
		}

		posts, err = store.Posts().Search(ctx, "BADGER")
		require.NoError(t, err)
		assert.Equal(t, []string{"2"}, postIDs(posts))

		posts, err = store.Posts().Search(ctx, "  ")
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("list answers", func(t *testing.T) {
		answers, err := store.Posts().ListAnswers(ctx, "1", "7")
		require.NoError(t, err)
		assert.Equal(t, []string{"4", "5"}, postIDs(answers))

		answers, err = store.Posts().ListAnswers(ctx, "1", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"4", "5", "7"}, postIDs(answers))

		answers, err = store.Posts().ListAnswers(ctx, "8", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"10"}, postIDs(answers))
	})

	t.Run("increments", func(t *testing.T) {
		require.NoError(t, store.Posts().IncrementViewCount(ctx, "1"))
		require.NoError(t, store.Posts().IncrementScore(ctx, "3"))

		q1, err := store.Posts().GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, 1, q1.Views())
		assert.Equal(t, "Mongo basics", q1.Title)

		q3, err := store.Posts().GetByID(ctx, "3")
		require.NoError(t, err)
		assert.Equal(t, 1, q3.Score)

		assert.ErrorIs(t, store.Posts().IncrementScore(ctx, "999"), ErrNotFound)
	})

	t.Run("tags", func(t *testing.T) {
		tag, err := store.Tags().GetByName(ctx, "mongodb")
		require.NoError(t, err)
		assert.Equal(t, "1", tag.ID)

		require.NoError(t, store.Tags().IncrementCount(ctx, tag.ID))
		tag, err = store.Tags().GetByName(ctx, "mongodb")
		require.NoError(t, err)
		assert.Equal(t, 2, tag.Count)

		_, err = store.Tags().GetByName(ctx, "postgres")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, store.Tags().Insert(ctx, &models.Tag{ID: "3", TagName: "postgres", Count: 1}))
		max, err := store.Tags().MaxID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "3", max)
	})

	t.Run("votes", func(t *testing.T) {
		n, err := store.Votes().CountByUser(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		exists, err := store.Votes().Exists(ctx, "1", "42")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.Votes().Exists(ctx, "2", "42")
		require.NoError(t, err)
		assert.False(t, exists)

		vote := &models.Vote{ID: "3", PostID: "2", VoteTypeID: models.VoteTypeUpVote, UserID: "42", CreationDate: models.Timestamp(timeFixture)}
		require.NoError(t, store.Votes().Insert(ctx, vote))

		n, err = store.Votes().CountByUser(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		max, err := store.Votes().MaxID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "3", max)
	})

	t.Run("replace wipes the collection", func(t *testing.T) {
		require.NoError(t, store.Replace(ctx, VotesCollection, nil))
		max, err := store.Votes().MaxID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "", max)

		assert.Error(t, store.Replace(ctx, "Comments", nil))
	})
}
