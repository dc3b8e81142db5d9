package services

import (
	"context"
	"fmt"

	"qastore/app/models"
	"qastore/app/repositories"
)

// Kind names a collection that hands out ids.
type Kind string

const (
	KindPost Kind = "post"
	KindVote Kind = "vote"
	KindTag  Kind = "tag"
)

// IDAllocator hands out the next id of a collection as max(Id)+1.
//
// The maximum is read and the new document written in separate steps, so two
// processes allocating at the same time can get the same id. Nothing in the
// store rejects the duplicate; callers here are sequential.
type IDAllocator struct {
	store repositories.Store
}

func NewIDAllocator(store repositories.Store) *IDAllocator {
	return &IDAllocator{store: store}
}

// Next returns the next id for kind, "1" when the collection is empty.
func (a *IDAllocator) Next(ctx context.Context, kind Kind) (string, error) {
	var (
		max string
		err error
	)
	switch kind {
	case KindPost:
		max, err = a.store.Posts().MaxID(ctx)
	case KindVote:
		max, err = a.store.Votes().MaxID(ctx)
	case KindTag:
		max, err = a.store.Tags().MaxID(ctx)
	default:
		return "", fmt.Errorf("unknown id kind %q", kind)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read max %s id: %w", kind, err)
	}
	return models.NextID(max)
}
