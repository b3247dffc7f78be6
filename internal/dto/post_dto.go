package dto

import (
	"time"

	"github.com/google/uuid"
)

// FeedFilter selects the ordering of the post feed
type FeedFilter string

const (
	FeedFilterLatest   FeedFilter = "latest"
	FeedFilterTrending FeedFilter = "trending"
)

// ImagePayload references an already-uploaded media asset
// @Description Optional media reference attached to a post; the asset itself lives in object storage
type ImagePayload struct {
	Key         string `json:"key" binding:"required"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize"`
	URL         string `json:"url,omitempty"` // resolved on output, ignored on input
}

// CreatePostRequest represents the request to create a new post
type CreatePostRequest struct {
	Body     string        `json:"body" binding:"required,min=1"`
	Category string        `json:"category" binding:"required,min=1"`
	Image    *ImagePayload `json:"image,omitempty"`
}

// UpdatePostRequest represents the request to edit a post.
// Only content fields are editable; votes are untouched.
type UpdatePostRequest struct {
	Body     *string `json:"body,omitempty" binding:"omitempty,min=1"`
	Category *string `json:"category,omitempty" binding:"omitempty,min=1"`
}

// FeedQuery holds the parsed feed listing parameters
type FeedQuery struct {
	Filter      FeedFilter
	Page        int
	AuthorEmail string
}

// PostResponse represents a post annotated for the requesting viewer
type PostResponse struct {
	ID             uuid.UUID     `json:"id"`
	AuthorEmail    string        `json:"authorEmail"`
	AuthorUsername string        `json:"authorUsername"`
	Body           string        `json:"body"`
	Category       string        `json:"category"`
	Image          *ImagePayload `json:"image,omitempty"`
	Score          int           `json:"score"`
	UpvoteCount    int64         `json:"upvoteCount"`
	DownvoteCount  int64         `json:"downvoteCount"`
	CommentCount   int64         `json:"commentCount"`
	ViewerVote     string        `json:"viewerVote"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// PostPage is one page of the feed
type PostPage struct {
	Posts      []*PostResponse `json:"posts"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"totalPages"`
	HasMore    bool            `json:"hasMore"`
}
