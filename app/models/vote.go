package models

import "time"

// Validate checks if the vote meets all validation requirements
func (v *Vote) Validate() error {
	return validate.Struct(v)
}

// BeforeCreate sets up any necessary fields before creation
func (v *Vote) BeforeCreate() {
	if v.CreationDate == "" {
		v.CreationDate = Timestamp(time.Now())
	}
	if v.VoteTypeID == "" {
		v.VoteTypeID = VoteTypeUpVote
	}
}
