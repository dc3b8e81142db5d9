package models

import (
	"errors"
	"time"
)

// TimeLayout is the millisecond ISO-8601 form used for CreationDate.
const TimeLayout = "2006-01-02T15:04:05.000"

// Timestamp renders t in TimeLayout.
func Timestamp(t time.Time) string {
	return t.Format(TimeLayout)
}

// IsQuestion reports whether the post is a question.
func (p *Post) IsQuestion() bool {
	return p.PostTypeID == PostTypeQuestion
}

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	switch p.PostTypeID {
	case PostTypeQuestion:
		if p.Title == "" {
			return errors.New("a question needs a title")
		}
		if p.ParentID != "" {
			return errors.New("a question cannot have a parent")
		}
	case PostTypeAnswer:
		if p.ParentID == "" {
			return errors.New("an answer needs a parent question")
		}
	}
	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.CreationDate == "" {
		p.CreationDate = Timestamp(time.Now())
	}
	if p.ContentLicense == "" {
		p.ContentLicense = DefaultContentLicense
	}
}

// Views returns the view count, zero when the post carries none.
func (p *Post) Views() int {
	return deref(p.ViewCount)
}

// Answers returns the answer count, zero when the post carries none.
func (p *Post) Answers() int {
	return deref(p.AnswerCount)
}

// Favorites returns the favorite count, zero when the post carries none.
func (p *Post) Favorites() int {
	return deref(p.FavoriteCount)
}

// Counter returns a pointer to a fresh counter holding n.
func Counter(n int) *int {
	return &n
}

func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
