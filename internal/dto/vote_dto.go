package dto

// VoteType is the desired vote direction sent by the client
type VoteType string

const (
	VoteTypeUp   VoteType = "upvote"
	VoteTypeDown VoteType = "downvote"
)

// Valid reports whether the vote type is one of the accepted directions
func (t VoteType) Valid() bool {
	return t == VoteTypeUp || t == VoteTypeDown
}

// VoteRequest represents the request body for voting on a post or comment
type VoteRequest struct {
	Type VoteType `json:"type" binding:"required"`
}

// VoteResponse reports the entity's tally after the vote settled and the
// caller's resulting vote state
type VoteResponse struct {
	UpvoteCount   int64  `json:"upvoteCount"`
	DownvoteCount int64  `json:"downvoteCount"`
	Score         int    `json:"score"`
	MyVote        string `json:"myVote"`
}
