package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"qastore/app/models"
	"qastore/app/repositories"
)

// ErrInvalidPost is returned when a new question or answer fails validation.
var ErrInvalidPost = errors.New("invalid post")

// Report is the activity summary shown for a user on the main menu.
type Report struct {
	Questions        int     `json:"questions"`
	AvgQuestionScore float64 `json:"avg_question_score"`
	Answers          int     `json:"answers"`
	AvgAnswerScore   float64 `json:"avg_answer_score"`
	Votes            int     `json:"votes"`
}

// QAService turns user actions into reads and writes on the store.
type QAService struct {
	store          repositories.Store
	ids            *IDAllocator
	tags           *TagRegistry
	contentLicense string
}

// NewQAService creates a QAService. An empty license falls back to the default.
func NewQAService(store repositories.Store, contentLicense string) *QAService {
	if contentLicense == "" {
		contentLicense = models.DefaultContentLicense
	}
	ids := NewIDAllocator(store)
	return &QAService{
		store:          store,
		ids:            ids,
		tags:           NewTagRegistry(store, ids),
		contentLicense: contentLicense,
	}
}

// OwnedPostsAndAvgScore returns how many posts of postType the user owns and
// their average score, (0, 0) when there are none.
func (s *QAService) OwnedPostsAndAvgScore(ctx context.Context, userID string, postType models.PostType) (int, float64, error) {
	count, avg, err := s.store.Posts().OwnedStats(ctx, userID, postType)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to compute owned posts: %w", err)
	}
	return count, avg, nil
}

// NumVotes counts the votes cast by the user.
func (s *QAService) NumVotes(ctx context.Context, userID string) (int, error) {
	n, err := s.store.Votes().CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return n, nil
}

// UserReport collects the main menu numbers for userID.
func (s *QAService) UserReport(ctx context.Context, userID string) (Report, error) {
	var (
		r   Report
		err error
	)
	if r.Questions, r.AvgQuestionScore, err = s.OwnedPostsAndAvgScore(ctx, userID, models.PostTypeQuestion); err != nil {
		return Report{}, err
	}
	if r.Answers, r.AvgAnswerScore, err = s.OwnedPostsAndAvgScore(ctx, userID, models.PostTypeAnswer); err != nil {
		return Report{}, err
	}
	if r.Votes, err = s.NumVotes(ctx, userID); err != nil {
		return Report{}, err
	}
	return r, nil
}

// AddQuestion stores a new question. userID may be empty for an anonymous
// post. Tags are registered before the question is written.
func (s *QAService) AddQuestion(ctx context.Context, title, body string, tags []string, userID string) (*models.Post, error) {
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if title == "" || body == "" {
		return nil, fmt.Errorf("%w: a question needs a title and a body", ErrInvalidPost)
	}

	id, err := s.ids.Next(ctx, KindPost)
	if err != nil {
		return nil, err
	}
	post := &models.Post{
		ID:             id,
		PostTypeID:     models.PostTypeQuestion,
		Title:          title,
		Body:           body,
		OwnerUserID:    userID,
		Score:          0,
		ViewCount:      models.Counter(0),
		AnswerCount:    models.Counter(0),
		CommentCount:   0,
		FavoriteCount:  models.Counter(0),
		ContentLicense: s.contentLicense,
	}
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPost, err)
	}

	if post.Tags, err = s.tags.AssembleTagString(ctx, tags); err != nil {
		return nil, err
	}
	if err := s.store.Posts().Insert(ctx, post); err != nil {
		return nil, err
	}
	log.Printf("Added question %s (owner %q, tags %q)", post.ID, userID, post.Tags)
	return post, nil
}

// AddAnswer stores a new answer to questionID.
func (s *QAService) AddAnswer(ctx context.Context, questionID, body, userID string) (*models.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: an answer needs a body", ErrInvalidPost)
	}

	id, err := s.ids.Next(ctx, KindPost)
	if err != nil {
		return nil, err
	}
	post := &models.Post{
		ID:             id,
		PostTypeID:     models.PostTypeAnswer,
		ParentID:       questionID,
		Body:           body,
		OwnerUserID:    userID,
		Score:          0,
		CommentCount:   0,
		ContentLicense: s.contentLicense,
	}
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPost, err)
	}
	if err := s.store.Posts().Insert(ctx, post); err != nil {
		return nil, err
	}
	log.Printf("Added answer %s to question %s", post.ID, questionID)
	return post, nil
}

// Search finds questions matching keywords, most relevant first.
func (s *QAService) Search(ctx context.Context, keywords string) ([]*models.Post, error) {
	posts, err := s.store.Posts().Search(ctx, keywords)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	return posts, nil
}

// GetPost fetches a post by id.
func (s *QAService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.store.Posts().GetByID(ctx, id)
}

// IncrementViewCount bumps the question's ViewCount and returns it re-read.
func (s *QAService) IncrementViewCount(ctx context.Context, question *models.Post) (*models.Post, error) {
	if err := s.store.Posts().IncrementViewCount(ctx, question.ID); err != nil {
		return nil, fmt.Errorf("failed to count view of %s: %w", question.ID, err)
	}
	return s.store.Posts().GetByID(ctx, question.ID)
}

// GetAnswers lists the answers to question. When the question has an
// accepted answer it comes first and hasAccepted is true.
func (s *QAService) GetAnswers(ctx context.Context, question *models.Post) (bool, []*models.Post, error) {
	var accepted *models.Post
	if question.AcceptedAnswerID != "" {
		a, err := s.store.Posts().GetByID(ctx, question.AcceptedAnswerID)
		switch {
		case err == nil:
			accepted = a
		case errors.Is(err, repositories.ErrNotFound):
			log.Printf("Accepted answer %s of question %s is missing", question.AcceptedAnswerID, question.ID)
		default:
			return false, nil, err
		}
	}

	if accepted == nil {
		answers, err := s.store.Posts().ListAnswers(ctx, question.ID, "")
		if err != nil {
			return false, nil, err
		}
		return false, answers, nil
	}

	rest, err := s.store.Posts().ListAnswers(ctx, question.ID, accepted.ID)
	if err != nil {
		return false, nil, err
	}
	return true, append([]*models.Post{accepted}, rest...), nil
}

// CheckVoteEligibility reports whether userID may vote on post. Anonymous
// users may always vote.
func (s *QAService) CheckVoteEligibility(ctx context.Context, post *models.Post, userID string) (bool, error) {
	if userID == "" {
		return true, nil
	}
	voted, err := s.store.Votes().Exists(ctx, post.ID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check votes on %s: %w", post.ID, err)
	}
	return !voted, nil
}

// AddVote records an upvote on post and then raises its Score by one. The two
// writes are not atomic. post.Score is updated to match.
func (s *QAService) AddVote(ctx context.Context, post *models.Post, userID string) error {
	id, err := s.ids.Next(ctx, KindVote)
	if err != nil {
		return err
	}
	vote := &models.Vote{ID: id, PostID: post.ID, UserID: userID}
	vote.BeforeCreate()
	if err := vote.Validate(); err != nil {
		return fmt.Errorf("invalid vote: %w", err)
	}
	if err := s.store.Votes().Insert(ctx, vote); err != nil {
		return err
	}
	if err := s.store.Posts().IncrementScore(ctx, post.ID); err != nil {
		return fmt.Errorf("vote %s saved but score of %s not updated: %w", id, post.ID, err)
	}
	post.Score++
	log.Printf("Vote %s on post %s by %q", id, post.ID, userID)
	return nil
}
