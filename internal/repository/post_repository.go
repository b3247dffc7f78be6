package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"community-feed-api/internal/domain"
)

// FeedListQuery holds the parameters for one page of the post feed
type FeedListQuery struct {
	Trending    bool
	MinUpvotes  int
	AuthorEmail string
	Limit       int
	Offset      int
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	List(ctx context.Context, q FeedListQuery) ([]*domain.Post, int64, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

// postRepositoryImpl is the GORM implementation of PostRepository
type postRepositoryImpl struct {
	db *gorm.DB
}

// NewPostRepository creates a new instance of PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepositoryImpl{db: db}
}

// Create creates a new post
func (r *postRepositoryImpl) Create(ctx context.Context, post *domain.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a post by its ID
func (r *postRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var post domain.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update persists the content fields of a post
func (r *postRepositoryImpl) Update(ctx context.Context, post *domain.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	return nil
}

// List returns one window of the feed plus the total matching count.
// Latest orders by creation time. Trending orders by materialized score
// with a creation-time tiebreak and admits only posts whose raw upvote
// count exceeds MinUpvotes: the filter runs on upvotes, not net score,
// which keeps a heavily-downvoted but heavily-upvoted post in the feed
// and keeps a barely-voted high-score post out of it.
func (r *postRepositoryImpl) List(ctx context.Context, q FeedListQuery) ([]*domain.Post, int64, error) {
	base := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&domain.Post{})
		if q.AuthorEmail != "" {
			query = query.Where("author_email = ?", q.AuthorEmail)
		}
		if q.Trending {
			upvotes := r.db.Model(&domain.Vote{}).
				Select("count(*)").
				Where("votes.target_type = ? AND votes.target_id = posts.id AND votes.value = ?",
					domain.TargetPost, domain.VoteValueUp)
			query = query.Where("(?) > ?", upvotes, q.MinUpvotes)
		}
		return query
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if q.Trending {
		order = "score DESC, created_at DESC"
	}

	var posts []*domain.Post
	if err := base().
		Order(order).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// DeleteCascade removes a post with every comment that carries its postID
// (the owning postID is denormalized onto replies, so no recursive walk is
// needed) and all vote rows of the post and those comments, in a single
// transaction. Either the whole cascade commits or none of it is visible.
func (r *postRepositoryImpl) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uuid.UUID
		if err := tx.Model(&domain.Comment{}).
			Where("post_id = ?", id).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if len(commentIDs) > 0 {
			if err := tx.Where("target_type = ? AND target_id IN ?", domain.TargetComment, commentIDs).
				Delete(&domain.Vote{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("target_type = ? AND target_id = ?", domain.TargetPost, id).
			Delete(&domain.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&domain.Post{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
