package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"qastore/app/models"
	"qastore/app/repositories"
)

// Store is an in-memory repositories.Store. Setting Err makes every
// operation fail with it; CloseErr is returned by Close.
type Store struct {
	mutex sync.RWMutex
	posts map[string]*models.Post
	tags  map[string]*models.Tag
	votes map[string]*models.Vote

	Err          error
	CloseErr     error
	IndexesBuilt int
	Closed       bool
}

func NewStore() *Store {
	return &Store{
		posts: make(map[string]*models.Post),
		tags:  make(map[string]*models.Tag),
		votes: make(map[string]*models.Vote),
	}
}

func (s *Store) Posts() repositories.PostRepository { return &PostRepository{s} }
func (s *Store) Tags() repositories.TagRepository   { return &TagRepository{s} }
func (s *Store) Votes() repositories.VoteRepository { return &VoteRepository{s} }

func (s *Store) EnsureIndexes(ctx context.Context) error {
	if s.Err != nil {
		return s.Err
	}
	s.IndexesBuilt++
	return nil
}

func (s *Store) Replace(ctx context.Context, collection string, docs []map[string]interface{}) error {
	if s.Err != nil {
		return s.Err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch collection {
	case repositories.PostsCollection:
		s.posts = make(map[string]*models.Post)
		return decodeAll(docs, func(data []byte) (string, error) {
			var p models.Post
			if err := json.Unmarshal(data, &p); err != nil {
				return "", err
			}
			s.posts[p.ID] = &p
			return p.ID, nil
		})
	case repositories.TagsCollection:
		s.tags = make(map[string]*models.Tag)
		return decodeAll(docs, func(data []byte) (string, error) {
			var t models.Tag
			if err := json.Unmarshal(data, &t); err != nil {
				return "", err
			}
			s.tags[t.ID] = &t
			return t.ID, nil
		})
	case repositories.VotesCollection:
		s.votes = make(map[string]*models.Vote)
		return decodeAll(docs, func(data []byte) (string, error) {
			var v models.Vote
			if err := json.Unmarshal(data, &v); err != nil {
				return "", err
			}
			s.votes[v.ID] = &v
			return v.ID, nil
		})
	}
	return fmt.Errorf("unknown collection %q", collection)
}

func decodeAll(docs []map[string]interface{}, put func([]byte) (string, error)) error {
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		if _, err := put(data); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	s.Closed = true
	return s.CloseErr
}

// Post returns a copy of the stored post, or nil.
func (s *Store) Post(id string) *models.Post {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if p, ok := s.posts[id]; ok {
		return clonePost(p)
	}
	return nil
}

// Tag returns a copy of the stored tag with the given name, or nil.
func (s *Store) Tag(name string) *models.Tag {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, t := range s.tags {
		if t.TagName == name {
			c := *t
			return &c
		}
	}
	return nil
}

// AllVotes returns copies of every stored vote ordered by id.
func (s *Store) AllVotes() []*models.Vote {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var votes []*models.Vote
	for _, v := range s.votes {
		c := *v
		votes = append(votes, &c)
	}
	sort.Slice(votes, func(i, j int) bool { return models.CompareIDs(votes[i].ID, votes[j].ID) < 0 })
	return votes
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	for _, counter := range []**int{&c.ViewCount, &c.AnswerCount, &c.FavoriteCount} {
		if *counter != nil {
			*counter = models.Counter(**counter)
		}
	}
	return &c
}

func maxKey[T any](m map[string]T) string {
	var max string
	for id := range m {
		if max == "" || models.CompareIDs(id, max) > 0 {
			max = id
		}
	}
	return max
}

// PostRepository implementation
type PostRepository struct{ s *Store }

func (r *PostRepository) Insert(ctx context.Context, post *models.Post) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	r.s.posts[post.ID] = clonePost(post)
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if p := r.s.Post(id); p != nil {
		return p, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *PostRepository) MaxID(ctx context.Context) (string, error) {
	if r.s.Err != nil {
		return "", r.s.Err
	}
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()
	return maxKey(r.s.posts), nil
}

func (r *PostRepository) OwnedStats(ctx context.Context, ownerID string, postType models.PostType) (int, float64, error) {
	if r.s.Err != nil {
		return 0, 0, r.s.Err
	}
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()
	count, total := 0, 0
	for _, p := range r.s.posts {
		if p.OwnerUserID == ownerID && p.PostTypeID == postType {
			count++
			total += p.Score
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return count, float64(total) / float64(count), nil
}

func (r *PostRepository) Search(ctx context.Context, keywords string) ([]*models.Post, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()
	terms := models.SearchTerms(keywords)
	scores := make(map[string]int)
	var posts []*models.Post
	for _, p := range r.s.posts {
		if score := p.MatchScore(terms); p.IsQuestion() && score > 0 {
			scores[p.ID] = score
			posts = append(posts, clonePost(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if scores[posts[i].ID] != scores[posts[j].ID] {
			return scores[posts[i].ID] > scores[posts[j].ID]
		}
		return models.CompareIDs(posts[i].ID, posts[j].ID) < 0
	})
	return posts, nil
}

func (r *PostRepository) ListAnswers(ctx context.Context, parentID, excludeID string) ([]*models.Post, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()
	var answers []*models.Post
	for _, p := range r.s.posts {
		if p.PostTypeID == models.PostTypeAnswer && p.ParentID == parentID && p.ID != excludeID {
			answers = append(answers, clonePost(p))
		}
	}
	sort.Slice(answers, func(i, j int) bool { return models.CompareIDs(answers[i].ID, answers[j].ID) < 0 })
	return answers, nil
}

func (r *PostRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.update(id, func(p *models.Post) { p.ViewCount = models.Counter(p.Views() + 1) })
}

func (r *PostRepository) IncrementScore(ctx context.Context, id string) error {
	return r.update(id, func(p *models.Post) { p.Score++ })
}

func (r *PostRepository) update(id string, fn func(p *models.Post)) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(p)
	return nil
}

// TagRepository implementation
type TagRepository struct{ s *Store }

func (r *TagRepository) Insert(ctx context.Context, tag *models.Tag) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	c := *tag
	r.s.tags[tag.ID] = &c
	return nil
}

func (r *TagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if t := r.s.Tag(name); t != nil {
		return t, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *TagRepository) MaxID(ctx context.Context) (string, error) {
	if r.s.Err != nil {
		return "", r.s.Err
	}
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()
	return maxKey(r.s.tags), nil
}

func (r *TagRepository) IncrementCount(ctx context.Context, id string) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	t, ok := r.s.tags[id]
	if !ok {
		return repositories.ErrNotFound
	}
	t.Count++
	return nil
}

// VoteRepository implementation
type VoteRepository struct{ s *Store }

func (r *VoteRepository) Insert(ctx context.Context, vote *models.Vote) error {
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()
	c := *vote
	r.s.votes[vote.ID] = &c
	return nil
}

func (r *VoteRepository) MaxID(ctx context.Context) (string, error) {
	if r.s.Err != nil {
		return "", r.s.Err
	}
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()
	return maxKey(r.s.votes), nil
}

func (r *VoteRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()
	n := 0
	for _, v := range r.s.votes {
		if v.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *VoteRepository) Exists(ctx context.Context, postID, userID string) (bool, error) {
	if r.s.Err != nil {
		return false, r.s.Err
	}
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()
	for _, v := range r.s.votes {
		if v.PostID == postID && v.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}
