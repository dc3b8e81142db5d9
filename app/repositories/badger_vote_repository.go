package repositories

import (
	"context"

	"qastore/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerVoteRepository implements VoteRepository using BadgerDB
type BadgerVoteRepository struct {
	db *badger.DB
}

func (r *BadgerVoteRepository) Insert(ctx context.Context, vote *models.Vote) error {
	return insertEntity(r.db, VoteKeyPrefix, vote.ID, vote)
}

func (r *BadgerVoteRepository) MaxID(ctx context.Context) (string, error) {
	return maxID(r.db, VoteKeyPrefix)
}

func (r *BadgerVoteRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	count := 0
	err := r.each(func(v *models.Vote) error {
		if v.UserID == userID {
			count++
		}
		return nil
	})
	return count, err
}

func (r *BadgerVoteRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	found := false
	err := r.each(func(v *models.Vote) error {
		if v.PostID == postID && v.UserID == userID {
			found = true
			return errStopScan
		}
		return nil
	})
	if err != nil && err != errStopScan {
		return false, err
	}
	return found, nil
}

func (r *BadgerVoteRepository) each(fn func(v *models.Vote) error) error {
	return scanPrefix(r.db, VoteKeyPrefix, func(val []byte) error {
		var vote models.Vote
		if err := unmarshalEntity(val, &vote); err != nil {
			return err
		}
		return fn(&vote)
	})
}
