package repositories

import (
	"context"

	"qastore/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Insert(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// MaxID returns the numerically largest Id, or "" when there are no posts.
	MaxID(ctx context.Context) (string, error)
	// OwnedStats counts the owner's posts of one type and averages their score.
	OwnedStats(ctx context.Context, ownerID string, postType models.PostType) (int, float64, error)
	// Search returns questions matching keywords, most relevant first.
	Search(ctx context.Context, keywords string) ([]*models.Post, error)
	// ListAnswers returns the answers to a question, skipping excludeID.
	ListAnswers(ctx context.Context, parentID, excludeID string) ([]*models.Post, error)
	IncrementViewCount(ctx context.Context, id string) error
	IncrementScore(ctx context.Context, id string) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	Insert(ctx context.Context, tag *models.Tag) error
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	MaxID(ctx context.Context) (string, error)
	IncrementCount(ctx context.Context, id string) error
}

// VoteRepository defines the interface for vote data access
type VoteRepository interface {
	Insert(ctx context.Context, vote *models.Vote) error
	MaxID(ctx context.Context) (string, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Exists(ctx context.Context, postID, userID string) (bool, error)
}

// Store is a connection to the document store and its three collections.
type Store interface {
	Posts() PostRepository
	Tags() TagRepository
	Votes() VoteRepository
	// EnsureIndexes creates any supporting index that is not already present.
	EnsureIndexes(ctx context.Context) error
	// Replace drops a collection and bulk inserts docs into it.
	Replace(ctx context.Context, collection string, docs []map[string]interface{}) error
	Close(ctx context.Context) error
}
