package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"community-feed-api/internal/domain"
	"community-feed-api/internal/dto"
	"community-feed-api/internal/metrics"
	"community-feed-api/internal/repository"
	"community-feed-api/internal/response"
)

// VotingService defines the interface for the vote toggle engine. The
// same contract covers posts and comments; the implementation is shared
// and parameterized by the vote target.
type VotingService interface {
	VoteOnPost(ctx context.Context, postID uuid.UUID, voterEmail string, voteType dto.VoteType) (*dto.VoteResponse, error)
	VoteOnComment(ctx context.Context, commentID uuid.UUID, voterEmail string, voteType dto.VoteType) (*dto.VoteResponse, error)
}

// votingServiceImpl is the implementation of VotingService
type votingServiceImpl struct {
	voteRepo    repository.VoteRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	maxRetries  int
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewVotingService creates a new instance of VotingService
func NewVotingService(
	voteRepo repository.VoteRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	maxRetries int,
	m *metrics.Metrics,
	logger *zap.Logger,
) VotingService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &votingServiceImpl{
		voteRepo:    voteRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		maxRetries:  maxRetries,
		metrics:     m,
		logger:      logger,
	}
}

// VoteOnPost applies or toggles the voter's vote on a post
func (s *votingServiceImpl) VoteOnPost(ctx context.Context, postID uuid.UUID, voterEmail string, voteType dto.VoteType) (*dto.VoteResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch post", err.Error())
	}

	target := domain.VoteTarget{Type: domain.TargetPost, ID: postID}
	return s.apply(ctx, target, post.AuthorEmail, voterEmail, voteType, "post")
}

// VoteOnComment applies or toggles the voter's vote on a comment
func (s *votingServiceImpl) VoteOnComment(ctx context.Context, commentID uuid.UUID, voterEmail string, voteType dto.VoteType) (*dto.VoteResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch comment", err.Error())
	}

	target := domain.VoteTarget{Type: domain.TargetComment, ID: commentID}
	return s.apply(ctx, target, comment.AuthorEmail, voterEmail, voteType, "comment")
}

// apply runs the shared toggle sequence with a bounded conflict retry
func (s *votingServiceImpl) apply(ctx context.Context, target domain.VoteTarget, authorEmail, voterEmail string, voteType dto.VoteType, targetLabel string) (*dto.VoteResponse, error) {
	if !voteType.Valid() {
		return nil, response.NewAppError(response.ErrCodeValidation, "Vote type must be upvote or downvote", string(voteType))
	}
	if voterEmail == authorEmail {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Cannot vote on own content", "")
	}

	value := domain.VoteValueUp
	if voteType == dto.VoteTypeDown {
		value = domain.VoteValueDown
	}

	var tally *domain.VoteTally
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		tally, err = s.voteRepo.Apply(ctx, target, voterEmail, value)
		if err == nil {
			break
		}
		if !isRetryableConflict(err) {
			break
		}
		s.logger.Warn("Vote mutation conflict, retrying",
			zap.String("target_type", string(target.Type)),
			zap.String("target_id", target.ID.String()),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Entity not found", "")
		}
		if isRetryableConflict(err) {
			if s.metrics != nil {
				s.metrics.IncrementVoteConflict()
			}
			return nil, response.NewAppError(response.ErrCodeConflict,
				"Vote could not be applied due to concurrent updates, please retry", err.Error())
		}
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to apply vote", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementVoteCast(targetLabel, string(tally.ViewerState))
	}

	return &dto.VoteResponse{
		UpvoteCount:   tally.UpvoteCount,
		DownvoteCount: tally.DownvoteCount,
		Score:         tally.Score,
		MyVote:        string(tally.ViewerState),
	}, nil
}

// isRetryableConflict reports whether a storage error is worth one more
// attempt: a unique-index collision from a concurrent insert of the same
// user's vote, or a lock/serialization failure between writers.
func isRetryableConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique") ||
		strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "database is locked")
}
