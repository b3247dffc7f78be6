package domain

import (
	"time"

	"github.com/google/uuid"
)

// TargetType represents the kind of entity a vote is attached to
// This is a polymorphic relationship - TargetID can reference a Post or a Comment
// ⚠️ IMPORTANT: Do not add foreign key constraints on TargetID as it references multiple tables
type TargetType string

const (
	TargetPost    TargetType = "POST"
	TargetComment TargetType = "COMMENT"
)

// Vote values
const (
	VoteValueUp   = 1
	VoteValueDown = -1
)

// VoteState is a viewer's vote on an entity, computed from vote-row
// membership at read time, never stored on the entity itself.
type VoteState string

const (
	VoteStateNone      VoteState = "none"
	VoteStateUpvoted   VoteState = "upvoted"
	VoteStateDownvoted VoteState = "downvoted"
)

// Vote is one user's vote on one entity. The unique index makes the
// upvote/downvote sets disjoint by construction: a user holds at most one
// row per entity, and its Value picks the set.
type Vote struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserEmail  string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_votes_user_target,priority:1" json:"user_email"`
	TargetType TargetType `gorm:"type:varchar(20);not null;uniqueIndex:uq_votes_user_target,priority:2;index:idx_votes_target,priority:1" json:"target_type"`
	TargetID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_votes_user_target,priority:3;index:idx_votes_target,priority:2" json:"target_id"`
	Value      int        `gorm:"not null" json:"value"`
	CreatedAt  time.Time  `gorm:"type:timestamp;not null" json:"created_at"`
}

// VoteTarget identifies a votable entity.
type VoteTarget struct {
	Type TargetType
	ID   uuid.UUID
}

// VoteTally is the post-mutation (or read-time) aggregate for one entity.
type VoteTally struct {
	UpvoteCount   int64
	DownvoteCount int64
	Score         int
	ViewerState   VoteState
}

// StateForValue maps a stored vote value to the viewer-facing state.
func StateForValue(value int) VoteState {
	switch value {
	case VoteValueUp:
		return VoteStateUpvoted
	case VoteValueDown:
		return VoteStateDownvoted
	default:
		return VoteStateNone
	}
}

// TableName specifies the table name for Vote
func (Vote) TableName() string {
	return "votes"
}
