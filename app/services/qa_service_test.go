package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"qastore/app/models"
	"qastore/app/repositories"
	"qastore/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) *mock.Store {
	store := mock.NewStore()
	posts := []map[string]interface{}{
		{"Id": "1", "PostTypeId": "1", "Title": "Mongo basics", "Body": "How to start with mongo", "Tags": "<mongodb>",
			"OwnerUserId": "42", "Score": 2, "ViewCount": 3, "AnswerCount": 3, "AcceptedAnswerId": "7", "CreationDate": "2020-01-01T00:00:00.000"},
		{"Id": "2", "PostTypeId": "1", "Title": "Badger keys", "Body": "Prefix scans", "OwnerUserId": "42", "Score": 4,
			"ViewCount": 0, "CreationDate": "2020-01-02T00:00:00.000"},
		{"Id": "3", "PostTypeId": "1", "Title": "Sorting", "Body": "Numeric MONGO ids", "Score": 0,
			"ViewCount": 0, "CreationDate": "2020-01-03T00:00:00.000"},
		{"Id": "4", "PostTypeId": "2", "ParentId": "1", "Body": "Use mongosh", "OwnerUserId": "42", "Score": 1, "CreationDate": "2020-01-04T00:00:00.000"},
		{"Id": "5", "PostTypeId": "2", "ParentId": "1", "Body": "Read the docs", "Score": 3, "CreationDate": "2020-01-05T00:00:00.000"},
		{"Id": "7", "PostTypeId": "2", "ParentId": "1", "Body": "Accepted one", "Score": 5, "CreationDate": "2020-01-06T00:00:00.000"},
		{"Id": "8", "PostTypeId": "2", "ParentId": "2", "Body": "mongo answer", "Score": 0, "CreationDate": "2020-01-07T00:00:00.000"},
	}
	require.NoError(t, store.Replace(context.Background(), repositories.PostsCollection, posts))
	return store
}

func TestOwnedPostsAndAvgScore(t *testing.T) {
	ctx := context.Background()
	svc := NewQAService(seedStore(t), "")

	count, avg, err := svc.OwnedPostsAndAvgScore(ctx, "42", models.PostTypeQuestion)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.InDelta(t, 3.0, avg, 1e-9)

	count, avg, err = svc.OwnedPostsAndAvgScore(ctx, "1000", models.PostTypeQuestion)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0.0, avg)
}

func TestUserReport(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	svc := NewQAService(store, "")

	post, err := svc.GetPost(ctx, "3")
	require.NoError(t, err)
	require.NoError(t, svc.AddVote(ctx, post, "42"))

	report, err := svc.UserReport(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, Report{Questions: 2, AvgQuestionScore: 3, Answers: 1, AvgAnswerScore: 1, Votes: 1}, report)

	store.Err = errors.New("store down")
	_, err = svc.UserReport(ctx, "42")
	assert.ErrorIs(t, err, store.Err)
}

func TestAddQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("owned question with tags", func(t *testing.T) {
		store := seedStore(t)
		svc := NewQAService(store, "CC BY-SA 4.0")

		post, err := svc.AddQuestion(ctx, " New title ", "New body", []string{"Go", "go", "MongoDB"}, "42")
		require.NoError(t, err)
		assert.Equal(t, "9", post.ID)

		stored := store.Post(post.ID)
		require.NotNil(t, stored)
		assert.Equal(t, models.PostTypeQuestion, stored.PostTypeID)
		assert.Equal(t, "New title", stored.Title)
		assert.Equal(t, "42", stored.OwnerUserID)
		assert.Equal(t, "<go><mongodb>", stored.Tags)
		assert.Equal(t, 0, stored.Score)
		require.NotNil(t, stored.ViewCount)
		assert.Equal(t, 0, *stored.ViewCount)
		require.NotNil(t, stored.AnswerCount)
		require.NotNil(t, stored.FavoriteCount)
		assert.Equal(t, "CC BY-SA 4.0", stored.ContentLicense)
		assert.NotEmpty(t, stored.CreationDate)
		assert.Equal(t, 1, store.Tag("go").Count)
	})

	t.Run("anonymous question without tags", func(t *testing.T) {
		store := seedStore(t)
		svc := NewQAService(store, "")

		post, err := svc.AddQuestion(ctx, "Title", "Body", nil, "")
		require.NoError(t, err)

		stored := store.Post(post.ID)
		assert.Empty(t, stored.OwnerUserID)
		assert.Empty(t, stored.Tags)
		assert.Equal(t, models.DefaultContentLicense, stored.ContentLicense)
	})

	t.Run("long title is accepted", func(t *testing.T) {
		store := seedStore(t)
		svc := NewQAService(store, "")

		title := strings.Repeat("x", 301)
		post, err := svc.AddQuestion(ctx, title, "Body", nil, "")
		require.NoError(t, err)
		assert.Equal(t, title, store.Post(post.ID).Title)
	})

	t.Run("missing title touches nothing", func(t *testing.T) {
		store := seedStore(t)
		svc := NewQAService(store, "")

		_, err := svc.AddQuestion(ctx, "  ", "Body", []string{"go"}, "")
		assert.ErrorIs(t, err, ErrInvalidPost)
		assert.Nil(t, store.Tag("go"))
	})
}

func TestAddAnswer(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	svc := NewQAService(store, "")

	post, err := svc.AddAnswer(ctx, "2", "An answer", "")
	require.NoError(t, err)

	stored := store.Post(post.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "9", stored.ID)
	assert.Equal(t, models.PostTypeAnswer, stored.PostTypeID)
	assert.Equal(t, "2", stored.ParentID)
	assert.Equal(t, 0, stored.Score)
	assert.Equal(t, 0, stored.CommentCount)
	assert.Nil(t, stored.ViewCount)
	assert.Empty(t, stored.OwnerUserID)

	_, err = svc.AddAnswer(ctx, "2", "   ", "")
	assert.ErrorIs(t, err, ErrInvalidPost)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc := NewQAService(seedStore(t), "")

	posts, err := svc.Search(ctx, "mongo")
	require.NoError(t, err)
	var ids []string
	for _, p := range posts {
		assert.Equal(t, models.PostTypeQuestion, p.PostTypeID)
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"1", "3"}, ids)
}

func TestIncrementViewCount(t *testing.T) {
	ctx := context.Background()
	svc := NewQAService(seedStore(t), "")

	question, err := svc.GetPost(ctx, "1")
	require.NoError(t, err)

	updated, err := svc.IncrementViewCount(ctx, question)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Views())
	assert.Equal(t, 3, question.Views())

	_, err = svc.IncrementViewCount(ctx, &models.Post{ID: "404"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGetAnswers(t *testing.T) {
	ctx := context.Background()
	svc := NewQAService(seedStore(t), "")

	t.Run("accepted answer first", func(t *testing.T) {
		question, err := svc.GetPost(ctx, "1")
		require.NoError(t, err)

		hasAccepted, answers, err := svc.GetAnswers(ctx, question)
		require.NoError(t, err)
		assert.True(t, hasAccepted)
		require.Len(t, answers, 3)
		assert.Equal(t, "7", answers[0].ID)
		assert.Equal(t, "4", answers[1].ID)
		assert.Equal(t, "5", answers[2].ID)
	})

	t.Run("no accepted answer", func(t *testing.T) {
		question, err := svc.GetPost(ctx, "2")
		require.NoError(t, err)

		hasAccepted, answers, err := svc.GetAnswers(ctx, question)
		require.NoError(t, err)
		assert.False(t, hasAccepted)
		require.Len(t, answers, 1)
		assert.Equal(t, "8", answers[0].ID)
	})

	t.Run("dangling accepted answer", func(t *testing.T) {
		question := &models.Post{ID: "2", PostTypeID: models.PostTypeQuestion, AcceptedAnswerID: "404"}
		hasAccepted, answers, err := svc.GetAnswers(ctx, question)
		require.NoError(t, err)
		assert.False(t, hasAccepted)
		assert.Len(t, answers, 1)
	})
}

func TestVoting(t *testing.T) {
	ctx := context.Background()

	t.Run("one vote per user", func(t *testing.T) {
		store := seedStore(t)
		svc := NewQAService(store, "")
		post, err := svc.GetPost(ctx, "2")
		require.NoError(t, err)

		ok, err := svc.CheckVoteEligibility(ctx, post, "42")
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, svc.AddVote(ctx, post, "42"))
		assert.Equal(t, 5, post.Score)
		assert.Equal(t, 5, store.Post("2").Score)

		ok, err = svc.CheckVoteEligibility(ctx, post, "42")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = svc.CheckVoteEligibility(ctx, post, "43")
		require.NoError(t, err)
		assert.True(t, ok)

		votes := store.AllVotes()
		require.Len(t, votes, 1)
		assert.Equal(t, "1", votes[0].ID)
		assert.Equal(t, models.VoteTypeUpVote, votes[0].VoteTypeID)
		assert.Equal(t, "42", votes[0].UserID)
		assert.NotEmpty(t, votes[0].CreationDate)
	})

	t.Run("anonymous votes are unlimited", func(t *testing.T) {
		store := seedStore(t)
		svc := NewQAService(store, "")
		post, err := svc.GetPost(ctx, "3")
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			ok, err := svc.CheckVoteEligibility(ctx, post, "")
			require.NoError(t, err)
			assert.True(t, ok)
			require.NoError(t, svc.AddVote(ctx, post, ""))
		}

		assert.Len(t, store.AllVotes(), 2)
		assert.Equal(t, 2, store.Post("3").Score)
	})

	t.Run("vote on a missing post", func(t *testing.T) {
		store := seedStore(t)
		svc := NewQAService(store, "")
		err := svc.AddVote(ctx, &models.Post{ID: "404"}, "42")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.Len(t, store.AllVotes(), 1)
	})
}
