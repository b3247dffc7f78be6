package service

import (
	"context"

	"github.com/google/uuid"

	"community-feed-api/internal/domain"
	"community-feed-api/internal/repository"
)

// MockPostRepository is a mock implementation of PostRepository
type MockPostRepository struct {
	CreateFunc        func(ctx context.Context, post *domain.Post) error
	FindByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	UpdateFunc        func(ctx context.Context, post *domain.Post) error
	ListFunc          func(ctx context.Context, q repository.FeedListQuery) ([]*domain.Post, int64, error)
	DeleteCascadeFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *MockPostRepository) Create(ctx context.Context, post *domain.Post) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, post)
	}
	return nil
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockPostRepository) Update(ctx context.Context, post *domain.Post) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, post)
	}
	return nil
}

func (m *MockPostRepository) List(ctx context.Context, q repository.FeedListQuery) ([]*domain.Post, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return nil, 0, nil
}

func (m *MockPostRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	if m.DeleteCascadeFunc != nil {
		return m.DeleteCascadeFunc(ctx, id)
	}
	return nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc                func(ctx context.Context, comment *domain.Comment) error
	FindByIDFunc              func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindTopLevelByPostIDFunc  func(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*domain.Comment, error)
	CountTopLevelByPostIDFunc func(ctx context.Context, postID uuid.UUID) (int64, error)
	FindRepliesByParentIDsFunc func(ctx context.Context, parentIDs []uuid.UUID) ([]*domain.Comment, error)
	CountByPostIDsFunc        func(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	DeleteCascadeFunc         func(ctx context.Context, id uuid.UUID) (int64, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindTopLevelByPostID(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*domain.Comment, error) {
	if m.FindTopLevelByPostIDFunc != nil {
		return m.FindTopLevelByPostIDFunc(ctx, postID, limit, offset)
	}
	return nil, nil
}

func (m *MockCommentRepository) CountTopLevelByPostID(ctx context.Context, postID uuid.UUID) (int64, error) {
	if m.CountTopLevelByPostIDFunc != nil {
		return m.CountTopLevelByPostIDFunc(ctx, postID)
	}
	return 0, nil
}

func (m *MockCommentRepository) FindRepliesByParentIDs(ctx context.Context, parentIDs []uuid.UUID) ([]*domain.Comment, error) {
	if m.FindRepliesByParentIDsFunc != nil {
		return m.FindRepliesByParentIDsFunc(ctx, parentIDs)
	}
	return nil, nil
}

func (m *MockCommentRepository) CountByPostIDs(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	if m.CountByPostIDsFunc != nil {
		return m.CountByPostIDsFunc(ctx, postIDs)
	}
	return map[uuid.UUID]int64{}, nil
}

func (m *MockCommentRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	if m.DeleteCascadeFunc != nil {
		return m.DeleteCascadeFunc(ctx, id)
	}
	return 0, nil
}

// MockVoteRepository is a mock implementation of VoteRepository
type MockVoteRepository struct {
	ApplyFunc      func(ctx context.Context, target domain.VoteTarget, userEmail string, value int) (*domain.VoteTally, error)
	TallyForFunc   func(ctx context.Context, target domain.VoteTarget, viewerEmail string) (*domain.VoteTally, error)
	TalliesForFunc func(ctx context.Context, targetType domain.TargetType, targetIDs []uuid.UUID, viewerEmail string) (map[uuid.UUID]domain.VoteTally, error)
}

func (m *MockVoteRepository) Apply(ctx context.Context, target domain.VoteTarget, userEmail string, value int) (*domain.VoteTally, error) {
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, target, userEmail, value)
	}
	return &domain.VoteTally{ViewerState: domain.VoteStateNone}, nil
}

func (m *MockVoteRepository) TallyFor(ctx context.Context, target domain.VoteTarget, viewerEmail string) (*domain.VoteTally, error) {
	if m.TallyForFunc != nil {
		return m.TallyForFunc(ctx, target, viewerEmail)
	}
	return &domain.VoteTally{ViewerState: domain.VoteStateNone}, nil
}

func (m *MockVoteRepository) TalliesFor(ctx context.Context, targetType domain.TargetType, targetIDs []uuid.UUID, viewerEmail string) (map[uuid.UUID]domain.VoteTally, error) {
	if m.TalliesForFunc != nil {
		return m.TalliesForFunc(ctx, targetType, targetIDs, viewerEmail)
	}
	tallies := make(map[uuid.UUID]domain.VoteTally, len(targetIDs))
	for _, id := range targetIDs {
		tallies[id] = domain.VoteTally{ViewerState: domain.VoteStateNone}
	}
	return tallies, nil
}
