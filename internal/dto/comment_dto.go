package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateCommentRequest represents the request to create a comment.
// A nil parentCommentId creates a top-level comment; a non-nil one must
// reference a top-level comment on the same post.
type CreateCommentRequest struct {
	Body            string     `json:"body" binding:"required,min=1"`
	ParentCommentID *uuid.UUID `json:"parentCommentId,omitempty"`
}

// ReplyNode is a direct reply to a top-level comment. It deliberately has
// no replies field: the tree is two tiers deep and the response shape
// enforces that structurally.
type ReplyNode struct {
	ID              uuid.UUID `json:"id"`
	PostID          uuid.UUID `json:"postId"`
	ParentCommentID uuid.UUID `json:"parentCommentId"`
	AuthorEmail     string    `json:"authorEmail"`
	Body            string    `json:"body"`
	Score           int       `json:"score"`
	UpvoteCount     int64     `json:"upvoteCount"`
	DownvoteCount   int64     `json:"downvoteCount"`
	ViewerVote      string    `json:"viewerVote"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CommentNode is a top-level comment with all of its direct replies
// eagerly attached, oldest reply first.
type CommentNode struct {
	ID            uuid.UUID   `json:"id"`
	PostID        uuid.UUID   `json:"postId"`
	AuthorEmail   string      `json:"authorEmail"`
	Body          string      `json:"body"`
	Score         int         `json:"score"`
	UpvoteCount   int64       `json:"upvoteCount"`
	DownvoteCount int64       `json:"downvoteCount"`
	ViewerVote    string      `json:"viewerVote"`
	Replies       []ReplyNode `json:"replies"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// CommentPage is one page of a post's comment tree
type CommentPage struct {
	Comments   []*CommentNode `json:"comments"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"totalPages"`
	HasMore    bool           `json:"hasMore"`
}
