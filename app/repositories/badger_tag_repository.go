package repositories

import (
	"context"
	"errors"

	"qastore/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerTagRepository implements TagRepository using BadgerDB
type BadgerTagRepository struct {
	db *badger.DB
}

func (r *BadgerTagRepository) Insert(ctx context.Context, tag *models.Tag) error {
	return insertEntity(r.db, TagKeyPrefix, tag.ID, tag)
}

var errStopScan = errors.New("stop scan")

func (r *BadgerTagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var found *models.Tag
	err := scanPrefix(r.db, TagKeyPrefix, func(val []byte) error {
		var tag models.Tag
		if err := unmarshalEntity(val, &tag); err != nil {
			return err
		}
		if tag.TagName == name {
			found = &tag
			return errStopScan
		}
		return nil
	})
	if err != nil && err != errStopScan {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (r *BadgerTagRepository) MaxID(ctx context.Context) (string, error) {
	return maxID(r.db, TagKeyPrefix)
}

func (r *BadgerTagRepository) IncrementCount(ctx context.Context, id string) error {
	return increment(r.db, TagKeyPrefix, id, "Count")
}
