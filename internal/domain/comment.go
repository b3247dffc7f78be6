package domain

import "github.com/google/uuid"

// Comment represents a comment on a post. The tree is capped at two
// tiers: a top-level comment has a nil ParentCommentID, a reply points at
// a top-level comment on the same post. The write path rejects anything
// deeper, so a reply never has children.
type Comment struct {
	BaseModel
	PostID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_comments_post_id" json:"post_id"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid;index:idx_comments_parent_id" json:"parent_comment_id"`
	AuthorEmail     string     `gorm:"type:varchar(255);not null;index:idx_comments_author_email" json:"author_email"`
	Body            string     `gorm:"type:text;not null" json:"body"`
	Score           int        `gorm:"not null;default:0" json:"score"`
	Post            Post       `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`

	// Per-request annotations, never persisted
	UpvoteCount   int64     `gorm:"-" json:"upvote_count"`
	DownvoteCount int64     `gorm:"-" json:"downvote_count"`
	ViewerVote    VoteState `gorm:"-" json:"viewer_vote"`
}

// IsTopLevel reports whether the comment sits directly under its post.
func (c *Comment) IsTopLevel() bool {
	return c.ParentCommentID == nil
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
