package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"qastore/app/models"

	"github.com/dgraph-io/badger/v4"
)

var ErrDuplicateID = errors.New("id already exists")

// BadgerStore implements Store on an embedded Badger database. Documents are
// kept as JSON under "<kind>:<Id>" keys and lookups are prefix scans.
type BadgerStore struct {
	db    *badger.DB
	posts *BadgerPostRepository
	tags  *BadgerTagRepository
	votes *BadgerVoteRepository
}

// NewBadgerStore wraps an open Badger database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{
		db:    db,
		posts: &BadgerPostRepository{db: db},
		tags:  &BadgerTagRepository{db: db},
		votes: &BadgerVoteRepository{db: db},
	}
}

func (s *BadgerStore) Posts() PostRepository { return s.posts }
func (s *BadgerStore) Tags() TagRepository   { return s.tags }
func (s *BadgerStore) Votes() VoteRepository { return s.votes }

// EnsureIndexes has nothing to build: every lookup is a prefix scan.
func (s *BadgerStore) EnsureIndexes(ctx context.Context) error {
	return nil
}

// Replace deletes every document of the collection and writes docs in one batch.
func (s *BadgerStore) Replace(ctx context.Context, collection string, docs []map[string]interface{}) error {
	prefix, ok := collectionPrefixes[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}

	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return fmt.Errorf("failed to clear %s: %w", collection, err)
		}
	}
	for _, doc := range docs {
		id, err := documentID(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", collection, err)
		}
		data, err := marshalEntity(doc)
		if err != nil {
			return err
		}
		if err := wb.Set(entityKey(prefix, id), data); err != nil {
			return fmt.Errorf("failed to load %s: %w", collection, err)
		}
	}
	return wb.Flush()
}

func (s *BadgerStore) Close(ctx context.Context) error {
	return s.db.Close()
}

// DB exposes the underlying database for maintenance commands.
func (s *BadgerStore) DB() *badger.DB {
	return s.db
}

// insertEntity stores v under prefix+id, refusing to overwrite an existing document.
func insertEntity(db *badger.DB, prefix, id string, v interface{}) error {
	data, err := marshalEntity(v)
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		key := entityKey(prefix, id)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("%s%s: %w", prefix, id, ErrDuplicateID)
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		return txn.Set(key, data)
	})
}

func getEntity(db *badger.DB, prefix, id string, v interface{}) error {
	return db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entityKey(prefix, id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, v)
		})
	})
}

// scanPrefix calls fn with the value of every key under prefix.
func scanPrefix(db *badger.DB, prefix string, fn func(val []byte) error) error {
	return db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

// maxID finds the numerically largest id under prefix from the keys alone.
func maxID(db *badger.DB, prefix string) (string, error) {
	var max string
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			id := strings.TrimPrefix(string(it.Item().Key()), prefix)
			if max == "" || models.CompareIDs(id, max) > 0 {
				max = id
			}
		}
		return nil
	})
	return max, err
}

func increment(db *badger.DB, prefix, id, field string) error {
	return db.Update(func(txn *badger.Txn) error {
		key := entityKey(prefix, id)
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		data, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		updated, err := incrementField(data, field, 1)
		if err != nil {
			return fmt.Errorf("%s%s: %w", prefix, id, err)
		}
		return txn.Set(key, updated)
	})
}
