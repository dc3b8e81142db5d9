package models

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// PostType distinguishes questions from answers. Stored as "1" or "2".
type PostType string

const (
	PostTypeQuestion PostType = "1"
	PostTypeAnswer   PostType = "2"
)

const (
	// VoteTypeUpVote is the only vote type this application records.
	VoteTypeUpVote = "2"

	DefaultContentLicense = "CC BY-SA 2.5"
)

// Post is a question or an answer document in the Posts collection.
// Counters that only questions carry are pointers so answers omit them.
type Post struct {
	ID               string   `bson:"Id" json:"Id" validate:"required,numeric"`
	PostTypeID       PostType `bson:"PostTypeId" json:"PostTypeId" validate:"required,oneof=1 2"`
	ParentID         string   `bson:"ParentId,omitempty" json:"ParentId,omitempty" validate:"omitempty,numeric"`
	AcceptedAnswerID string   `bson:"AcceptedAnswerId,omitempty" json:"AcceptedAnswerId,omitempty" validate:"omitempty,numeric"`
	CreationDate     string   `bson:"CreationDate" json:"CreationDate" validate:"required"`
	Score            int      `bson:"Score" json:"Score"`
	ViewCount        *int     `bson:"ViewCount,omitempty" json:"ViewCount,omitempty" validate:"omitempty,gte=0"`
	Body             string   `bson:"Body" json:"Body" validate:"required"`
	OwnerUserID      string   `bson:"OwnerUserId,omitempty" json:"OwnerUserId,omitempty" validate:"omitempty,numeric"`
	Title            string   `bson:"Title,omitempty" json:"Title,omitempty"`
	Tags             string   `bson:"Tags,omitempty" json:"Tags,omitempty"`
	AnswerCount      *int     `bson:"AnswerCount,omitempty" json:"AnswerCount,omitempty" validate:"omitempty,gte=0"`
	CommentCount     int      `bson:"CommentCount" json:"CommentCount" validate:"gte=0"`
	FavoriteCount    *int     `bson:"FavoriteCount,omitempty" json:"FavoriteCount,omitempty" validate:"omitempty,gte=0"`
	ContentLicense   string   `bson:"ContentLicense,omitempty" json:"ContentLicense,omitempty"`
}

// Tag is a tag usage counter in the Tags collection.
type Tag struct {
	ID      string `bson:"Id" json:"Id" validate:"required,numeric"`
	TagName string `bson:"TagName" json:"TagName" validate:"required,lowercase"`
	Count   int    `bson:"Count" json:"Count" validate:"gte=0"`
}

// Vote is an upvote in the Votes collection. UserID is empty for anonymous votes.
type Vote struct {
	ID           string `bson:"Id" json:"Id" validate:"required,numeric"`
	PostID       string `bson:"PostId" json:"PostId" validate:"required,numeric"`
	VoteTypeID   string `bson:"VoteTypeId" json:"VoteTypeId" validate:"required,eq=2"`
	UserID       string `bson:"UserId,omitempty" json:"UserId,omitempty" validate:"omitempty,numeric"`
	CreationDate string `bson:"CreationDate" json:"CreationDate" validate:"required"`
}
