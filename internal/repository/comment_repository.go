package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"community-feed-api/internal/domain"
)

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindTopLevelByPostID(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*domain.Comment, error)
	CountTopLevelByPostID(ctx context.Context, postID uuid.UUID) (int64, error)
	FindRepliesByParentIDs(ctx context.Context, parentIDs []uuid.UUID) ([]*domain.Comment, error)
	CountByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error)
}

// commentRepositoryImpl is the GORM implementation of CommentRepository
type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

// Create creates a new comment
func (r *commentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a comment by its ID
func (r *commentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindTopLevelByPostID returns one window of a post's top-level comments,
// newest first
func (r *commentRepositoryImpl) FindTopLevelByPostID(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND parent_comment_id IS NULL", postID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CountTopLevelByPostID counts a post's top-level comments
func (r *commentRepositoryImpl) CountTopLevelByPostID(ctx context.Context, postID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("post_id = ? AND parent_comment_id IS NULL", postID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// FindRepliesByParentIDs loads every direct reply of the given top-level
// comments in one query, oldest first. Replies are not paginated: the
// two-tier depth cap keeps the fan-out per parent small.
func (r *commentRepositoryImpl) FindRepliesByParentIDs(ctx context.Context, parentIDs []uuid.UUID) ([]*domain.Comment, error) {
	if len(parentIDs) == 0 {
		return []*domain.Comment{}, nil
	}
	var replies []*domain.Comment
	if err := r.db.WithContext(ctx).
		Where("parent_comment_id IN ?", parentIDs).
		Order("created_at ASC").
		Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

// CountByPostIDs returns the total comment count (all depths) per post,
// for feed annotation
func (r *commentRepositoryImpl) CountByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	type countRow struct {
		PostID uuid.UUID `gorm:"column:post_id"`
		N      int64     `gorm:"column:n"`
	}
	var rows []countRow
	if err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Select("post_id, count(*) as n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.N
	}
	return counts, nil
}

// DeleteCascade removes a comment together with its direct replies and
// every vote row attached to any of them, in a single transaction, and
// returns how many comment records went away. One level is the whole
// subtree: the write path never creates a reply to a reply, so there are
// no grandchildren to walk. If that constraint is ever relaxed this must
// become a recursive delete.
func (r *commentRepositoryImpl) DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var replyIDs []uuid.UUID
		if err := tx.Model(&domain.Comment{}).
			Where("parent_comment_id = ?", id).
			Pluck("id", &replyIDs).Error; err != nil {
			return err
		}

		targetIDs := append(replyIDs, id)
		if err := tx.Where("target_type = ? AND target_id IN ?", domain.TargetComment, targetIDs).
			Delete(&domain.Vote{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ? OR parent_comment_id = ?", id, id).Delete(&domain.Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
