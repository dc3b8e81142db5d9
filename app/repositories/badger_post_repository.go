package repositories

import (
	"context"
	"sort"

	"qastore/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

func (r *BadgerPostRepository) Insert(ctx context.Context, post *models.Post) error {
	return insertEntity(r.db, PostKeyPrefix, post.ID, post)
}

func (r *BadgerPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := getEntity(r.db, PostKeyPrefix, id, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *BadgerPostRepository) MaxID(ctx context.Context) (string, error) {
	return maxID(r.db, PostKeyPrefix)
}

func (r *BadgerPostRepository) OwnedStats(ctx context.Context, ownerID string, postType models.PostType) (int, float64, error) {
	var count, total int
	err := r.each(func(p *models.Post) {
		if p.PostTypeID == postType && p.OwnerUserID == ownerID {
			count++
			total += p.Score
		}
	})
	if err != nil || count == 0 {
		return 0, 0, err
	}
	return count, float64(total) / float64(count), nil
}

func (r *BadgerPostRepository) Search(ctx context.Context, keywords string) ([]*models.Post, error) {
	terms := models.SearchTerms(keywords)
	if len(terms) == 0 {
		return nil, nil
	}

	type hit struct {
		post  *models.Post
		score int
	}
	var hits []hit
	err := r.each(func(p *models.Post) {
		if !p.IsQuestion() {
			return
		}
		if score := p.MatchScore(terms); score > 0 {
			hits = append(hits, hit{post: p, score: score})
		}
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return models.CompareIDs(hits[i].post.ID, hits[j].post.ID) < 0
	})
	posts := make([]*models.Post, len(hits))
	for i, h := range hits {
		posts[i] = h.post
	}
	return posts, nil
}

func (r *BadgerPostRepository) ListAnswers(ctx context.Context, parentID, excludeID string) ([]*models.Post, error) {
	var answers []*models.Post
	err := r.each(func(p *models.Post) {
		if p.PostTypeID == models.PostTypeAnswer && p.ParentID == parentID && p.ID != excludeID {
			answers = append(answers, p)
		}
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(answers, func(i, j int) bool {
		return models.CompareIDs(answers[i].ID, answers[j].ID) < 0
	})
	return answers, nil
}

func (r *BadgerPostRepository) IncrementViewCount(ctx context.Context, id string) error {
	return increment(r.db, PostKeyPrefix, id, "ViewCount")
}

func (r *BadgerPostRepository) IncrementScore(ctx context.Context, id string) error {
	return increment(r.db, PostKeyPrefix, id, "Score")
}

func (r *BadgerPostRepository) each(fn func(p *models.Post)) error {
	return scanPrefix(r.db, PostKeyPrefix, func(val []byte) error {
		var post models.Post
		if err := unmarshalEntity(val, &post); err != nil {
			return err
		}
		fn(&post)
		return nil
	})
}
