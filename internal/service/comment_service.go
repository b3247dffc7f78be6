package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"community-feed-api/internal/cache"
	"community-feed-api/internal/domain"
	"community-feed-api/internal/dto"
	"community-feed-api/internal/metrics"
	"community-feed-api/internal/repository"
	"community-feed-api/internal/response"
)

// CommentService defines the interface for the two-tier comment tree
type CommentService interface {
	CreateComment(ctx context.Context, postID uuid.UUID, authorEmail string, req *dto.CreateCommentRequest) (*dto.CommentNode, error)
	ListComments(ctx context.Context, postID uuid.UUID, viewerEmail string, page int) (*dto.CommentPage, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID, requesterEmail string) error
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	voteRepo    repository.VoteRepository
	countCache  *cache.CommentCountCache
	pageSize    int
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	voteRepo repository.VoteRepository,
	countCache *cache.CommentCountCache,
	pageSize int,
	m *metrics.Metrics,
	logger *zap.Logger,
) CommentService {
	if pageSize < 1 {
		pageSize = 5
	}
	return &commentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		voteRepo:    voteRepo,
		countCache:  countCache,
		pageSize:    pageSize,
		metrics:     m,
		logger:      logger,
	}
}

// CreateComment creates a top-level comment or a reply on a post.
// Replies must target a top-level comment of the same post; anything
// deeper is rejected so the tree never exceeds two tiers.
func (s *commentServiceImpl) CreateComment(ctx context.Context, postID uuid.UUID, authorEmail string, req *dto.CreateCommentRequest) (*dto.CommentNode, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch post", err.Error())
	}

	if req.ParentCommentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *req.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeNotFound, "Parent comment not found", "")
			}
			return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch parent comment", err.Error())
		}
		if parent.PostID != postID {
			return nil, response.NewAppError(response.ErrCodeValidation, "Parent comment belongs to a different post", "")
		}
		if !parent.IsTopLevel() {
			return nil, response.NewAppError(response.ErrCodeValidation, "Replies to replies are not allowed", "")
		}
	}

	comment := &domain.Comment{
		PostID:          postID,
		ParentCommentID: req.ParentCommentID,
		AuthorEmail:     authorEmail,
		Body:            req.Body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to create comment", err.Error())
	}

	s.countCache.Invalidate(ctx, postID)
	if s.metrics != nil {
		s.metrics.IncrementCommentCreated()
	}
	s.logger.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("post_id", postID.String()),
		zap.Bool("is_reply", req.ParentCommentID != nil))

	node := commentToNode(comment, domain.VoteTally{ViewerState: domain.VoteStateNone})
	return node, nil
}

// ListComments returns one page of a post's comment tree: top-level
// comments newest first, each with its full reply list oldest first.
// Pagination counts top-level comments only.
func (s *commentServiceImpl) ListComments(ctx context.Context, postID uuid.UUID, viewerEmail string, page int) (*dto.CommentPage, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch post", err.Error())
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.pageSize

	total, err := s.commentRepo.CountTopLevelByPostID(ctx, postID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to count comments", err.Error())
	}

	topLevel, err := s.commentRepo.FindTopLevelByPostID(ctx, postID, s.pageSize, offset)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch comments", err.Error())
	}

	parentIDs := make([]uuid.UUID, 0, len(topLevel))
	for _, c := range topLevel {
		parentIDs = append(parentIDs, c.ID)
	}

	var replies []*domain.Comment
	if len(parentIDs) > 0 {
		replies, err = s.commentRepo.FindRepliesByParentIDs(ctx, parentIDs)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch replies", err.Error())
		}
	}

	allIDs := make([]uuid.UUID, 0, len(topLevel)+len(replies))
	allIDs = append(allIDs, parentIDs...)
	for _, r := range replies {
		allIDs = append(allIDs, r.ID)
	}
	tallies, err := s.voteRepo.TalliesFor(ctx, domain.TargetComment, allIDs, viewerEmail)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch vote tallies", err.Error())
	}

	repliesByParent := make(map[uuid.UUID][]dto.ReplyNode)
	for _, r := range replies {
		repliesByParent[*r.ParentCommentID] = append(repliesByParent[*r.ParentCommentID], *replyToNode(r, tallies[r.ID]))
	}

	nodes := make([]*dto.CommentNode, 0, len(topLevel))
	for _, c := range topLevel {
		node := commentToNode(c, tallies[c.ID])
		if rs, ok := repliesByParent[c.ID]; ok {
			node.Replies = rs
		}
		nodes = append(nodes, node)
	}

	totalPages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	return &dto.CommentPage{
		Comments:   nodes,
		Page:       page,
		PageSize:   s.pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}, nil
}

// DeleteComment removes a comment, its direct replies, and every vote on
// any of them. Only the comment's author may delete it.
func (s *commentServiceImpl) DeleteComment(ctx context.Context, commentID uuid.UUID, requesterEmail string) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch comment", err.Error())
	}
	if comment.AuthorEmail != requesterEmail {
		return response.NewAppError(response.ErrCodeForbidden, "Only the author can delete this comment", "")
	}

	removed, err := s.commentRepo.DeleteCascade(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return response.NewAppError(response.ErrCodeUnavailable, "Failed to delete comment", err.Error())
	}

	s.countCache.Invalidate(ctx, comment.PostID)
	if s.metrics != nil {
		s.metrics.IncrementCascadeDelete("comment")
	}
	s.logger.Info("Comment deleted",
		zap.String("comment_id", commentID.String()),
		zap.Int64("removed", removed))
	return nil
}

func commentToNode(c *domain.Comment, tally domain.VoteTally) *dto.CommentNode {
	return &dto.CommentNode{
		ID:            c.ID,
		PostID:        c.PostID,
		AuthorEmail:   c.AuthorEmail,
		Body:          c.Body,
		Score:         tally.Score,
		UpvoteCount:   tally.UpvoteCount,
		DownvoteCount: tally.DownvoteCount,
		ViewerVote:    string(viewerStateOrNone(tally.ViewerState)),
		Replies:       []dto.ReplyNode{},
		CreatedAt:     c.CreatedAt,
	}
}

func replyToNode(c *domain.Comment, tally domain.VoteTally) *dto.ReplyNode {
	return &dto.ReplyNode{
		ID:              c.ID,
		PostID:          c.PostID,
		ParentCommentID: *c.ParentCommentID,
		AuthorEmail:     c.AuthorEmail,
		Body:            c.Body,
		Score:           tally.Score,
		UpvoteCount:     tally.UpvoteCount,
		DownvoteCount:   tally.DownvoteCount,
		ViewerVote:      string(viewerStateOrNone(tally.ViewerState)),
		CreatedAt:       c.CreatedAt,
	}
}

func viewerStateOrNone(s domain.VoteState) domain.VoteState {
	if s == "" {
		return domain.VoteStateNone
	}
	return s
}
