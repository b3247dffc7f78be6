package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"community-feed-api/internal/cache"
	"community-feed-api/internal/client"
	"community-feed-api/internal/config"
	"community-feed-api/internal/domain"
	"community-feed-api/internal/dto"
	"community-feed-api/internal/metrics"
	"community-feed-api/internal/repository"
	"community-feed-api/internal/response"
)

// Identity is the caller's identity as asserted by the gateway token.
// Email is the stable identifier; Username is a display snapshot taken at
// write time.
type Identity struct {
	Email    string
	Username string
}

// PostService defines the interface for post CRUD and feed assembly
type PostService interface {
	CreatePost(ctx context.Context, author Identity, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	EditPost(ctx context.Context, id uuid.UUID, author Identity, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	GetPost(ctx context.Context, id uuid.UUID, viewerEmail string) (*dto.PostResponse, error)
	ListPosts(ctx context.Context, q *dto.FeedQuery, viewerEmail string) (*dto.PostPage, error)
	DeletePost(ctx context.Context, id uuid.UUID, requesterEmail string) error
}

// postServiceImpl is the implementation of PostService
type postServiceImpl struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	voteRepo    repository.VoteRepository
	countCache  *cache.CommentCountCache
	mediaClient client.MediaClient
	feedCfg     config.FeedConfig
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewPostService creates a new instance of PostService
func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	voteRepo repository.VoteRepository,
	countCache *cache.CommentCountCache,
	mediaClient client.MediaClient,
	feedCfg config.FeedConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) PostService {
	if feedCfg.PostPageSize < 1 {
		feedCfg.PostPageSize = 10
	}
	return &postServiceImpl{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		countCache:  countCache,
		mediaClient: mediaClient,
		feedCfg:     feedCfg,
		metrics:     m,
		logger:      logger,
	}
}

// CreatePost creates a new post for the authenticated author
func (s *postServiceImpl) CreatePost(ctx context.Context, author Identity, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	post := &domain.Post{
		AuthorEmail:    author.Email,
		AuthorUsername: author.Username,
		Body:           req.Body,
		Category:       req.Category,
	}

	if req.Image != nil {
		image, err := json.Marshal(domain.ImageRef{
			Key:         req.Image.Key,
			FileName:    req.Image.FileName,
			ContentType: req.Image.ContentType,
			FileSize:    req.Image.FileSize,
		})
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to encode image reference", err.Error())
		}
		post.Image = image
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to create post", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementPostCreated()
	}
	s.logger.Info("Post created",
		zap.String("post_id", post.ID.String()),
		zap.String("category", post.Category))

	return s.toResponse(post, domain.VoteTally{ViewerState: domain.VoteStateNone}, 0), nil
}

// EditPost updates the content fields of the caller's own post. The
// username snapshot is refreshed from the current token; votes and score
// are untouched.
func (s *postServiceImpl) EditPost(ctx context.Context, id uuid.UUID, author Identity, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch post", err.Error())
	}
	if post.AuthorEmail != author.Email {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the author can edit this post", "")
	}

	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if author.Username != "" {
		post.AuthorUsername = author.Username
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to update post", err.Error())
	}

	return s.annotate(ctx, post, author.Email)
}

// GetPost returns a single post annotated for the viewer
func (s *postServiceImpl) GetPost(ctx context.Context, id uuid.UUID, viewerEmail string) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch post", err.Error())
	}
	return s.annotate(ctx, post, viewerEmail)
}

// ListPosts returns one page of the feed. Latest is a pure recency feed;
// trending admits only posts above the upvote threshold and orders by
// score.
func (s *postServiceImpl) ListPosts(ctx context.Context, q *dto.FeedQuery, viewerEmail string) (*dto.PostPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := s.feedCfg.PostPageSize

	listQuery := repository.FeedListQuery{
		Trending:    q.Filter == dto.FeedFilterTrending,
		MinUpvotes:  s.feedCfg.TrendingMinUpvotes,
		AuthorEmail: q.AuthorEmail,
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	}

	posts, total, err := s.postRepo.List(ctx, listQuery)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch posts", err.Error())
	}

	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	tallies, err := s.voteRepo.TalliesFor(ctx, domain.TargetPost, ids, viewerEmail)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch vote tallies", err.Error())
	}

	counts, err := s.commentCounts(ctx, ids)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch comment counts", err.Error())
	}

	items := make([]*dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		items = append(items, s.toResponse(p, tallies[p.ID], counts[p.ID]))
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &dto.PostPage{
		Posts:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}, nil
}

// DeletePost removes the caller's own post with its full comment tree and
// every vote on any of them. The image asset is released first; a media
// failure is logged but never blocks the cascade.
func (s *postServiceImpl) DeletePost(ctx context.Context, id uuid.UUID, requesterEmail string) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch post", err.Error())
	}
	if post.AuthorEmail != requesterEmail {
		return response.NewAppError(response.ErrCodeForbidden, "Only the author can delete this post", "")
	}

	if image := decodeImage(post.Image); image != nil && s.mediaClient != nil {
		if err := s.mediaClient.DeleteFile(ctx, image.Key); err != nil {
			s.logger.Warn("Failed to release post image, continuing with delete",
				zap.String("post_id", id.String()),
				zap.String("key", image.Key),
				zap.Error(err))
		}
	}

	if err := s.postRepo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return response.NewAppError(response.ErrCodeUnavailable, "Failed to delete post", err.Error())
	}

	s.countCache.Invalidate(ctx, id)
	if s.metrics != nil {
		s.metrics.IncrementCascadeDelete("post")
	}
	s.logger.Info("Post deleted", zap.String("post_id", id.String()))
	return nil
}

// annotate loads the per-viewer tally and comment count for one post
func (s *postServiceImpl) annotate(ctx context.Context, post *domain.Post, viewerEmail string) (*dto.PostResponse, error) {
	tally, err := s.voteRepo.TallyFor(ctx, domain.VoteTarget{Type: domain.TargetPost, ID: post.ID}, viewerEmail)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch vote tally", err.Error())
	}

	counts, err := s.commentCounts(ctx, []uuid.UUID{post.ID})
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeUnavailable, "Failed to fetch comment count", err.Error())
	}

	return s.toResponse(post, *tally, counts[post.ID]), nil
}

// commentCounts resolves per-post comment counts, serving from the Redis
// cache where possible and filling misses from one grouped query
func (s *postServiceImpl) commentCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	misses := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.countCache.Get(ctx, id); ok {
			counts[id] = n
		} else {
			misses = append(misses, id)
		}
	}

	if len(misses) > 0 {
		fresh, err := s.commentRepo.CountByPostIDs(ctx, misses)
		if err != nil {
			return nil, err
		}
		for _, id := range misses {
			counts[id] = fresh[id]
			s.countCache.Set(ctx, id, fresh[id])
		}
	}
	return counts, nil
}

func (s *postServiceImpl) toResponse(post *domain.Post, tally domain.VoteTally, commentCount int64) *dto.PostResponse {
	resp := &dto.PostResponse{
		ID:             post.ID,
		AuthorEmail:    post.AuthorEmail,
		AuthorUsername: post.AuthorUsername,
		Body:           post.Body,
		Category:       post.Category,
		Score:          post.Score,
		UpvoteCount:    tally.UpvoteCount,
		DownvoteCount:  tally.DownvoteCount,
		CommentCount:   commentCount,
		ViewerVote:     string(viewerStateOrNone(tally.ViewerState)),
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	}

	if image := decodeImage(post.Image); image != nil {
		payload := &dto.ImagePayload{
			Key:         image.Key,
			FileName:    image.FileName,
			ContentType: image.ContentType,
			FileSize:    image.FileSize,
		}
		if s.mediaClient != nil {
			payload.URL = s.mediaClient.GetFileURL(image.Key)
		}
		resp.Image = payload
	}
	return resp
}

func decodeImage(raw []byte) *domain.ImageRef {
	if len(raw) == 0 {
		return nil
	}
	var ref domain.ImageRef
	if err := json.Unmarshal(raw, &ref); err != nil || ref.Key == "" {
		return nil
	}
	return &ref
}
