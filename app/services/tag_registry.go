package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"qastore/app/models"
	"qastore/app/repositories"
)

// TagRegistry keeps the Tags collection's usage counters in step with new posts.
type TagRegistry struct {
	store repositories.Store
	ids   *IDAllocator
}

func NewTagRegistry(store repositories.Store, ids *IDAllocator) *TagRegistry {
	return &TagRegistry{store: store, ids: ids}
}

// AssembleTagString registers each distinct tag, creating it with Count 1 or
// bumping its Count, and returns the encoded tag string. Tags are case-folded
// and the first occurrence of a duplicate wins. No tags gives "".
func (r *TagRegistry) AssembleTagString(ctx context.Context, tags []string) (string, error) {
	var distinct []string
	seen := make(map[string]bool)
	for _, t := range tags {
		name := models.NormalizeTag(t)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		distinct = append(distinct, name)
	}
	if len(distinct) == 0 {
		return "", nil
	}

	for _, name := range distinct {
		if err := r.register(ctx, name); err != nil {
			return "", err
		}
	}
	return models.EncodeTags(distinct), nil
}

func (r *TagRegistry) register(ctx context.Context, name string) error {
	existing, err := r.store.Tags().GetByName(ctx, name)
	if err == nil {
		if err := r.store.Tags().IncrementCount(ctx, existing.ID); err != nil {
			return fmt.Errorf("failed to count tag %s: %w", name, err)
		}
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to look up tag %s: %w", name, err)
	}

	id, err := r.ids.Next(ctx, KindTag)
	if err != nil {
		return err
	}
	tag := &models.Tag{ID: id, TagName: name, Count: 1}
	if err := tag.Validate(); err != nil {
		return fmt.Errorf("invalid tag %q: %w", name, err)
	}
	if err := r.store.Tags().Insert(ctx, tag); err != nil {
		return err
	}
	log.Printf("Created tag %s (%s)", name, id)
	return nil
}
