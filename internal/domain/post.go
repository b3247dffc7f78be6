package domain

import (
	"gorm.io/datatypes"
)

// Post represents a feed post
type Post struct {
	BaseModel
	AuthorEmail    string         `gorm:"type:varchar(255);not null;index:idx_posts_author_email" json:"author_email"`
	AuthorUsername string         `gorm:"type:varchar(255);not null" json:"author_username"`
	Body           string         `gorm:"type:text;not null" json:"body"`
	Category       string         `gorm:"type:varchar(100);not null;index:idx_posts_category" json:"category"`
	Image          datatypes.JSON `gorm:"type:jsonb" json:"image,omitempty"`
	Score          int            `gorm:"not null;default:0;index:idx_posts_score" json:"score"`

	// Per-request annotations, never persisted
	CommentCount  int64     `gorm:"-" json:"comment_count"`
	UpvoteCount   int64     `gorm:"-" json:"upvote_count"`
	DownvoteCount int64     `gorm:"-" json:"downvote_count"`
	ViewerVote    VoteState `gorm:"-" json:"viewer_vote"`
}

// ImageRef is the media collaborator reference stored in the Image column.
// The bytes live in object storage; only the key and display metadata are
// kept here.
type ImageRef struct {
	Key         string `json:"key"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
