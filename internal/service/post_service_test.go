package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"community-feed-api/internal/client"
	"community-feed-api/internal/config"
	"community-feed-api/internal/domain"
	"community-feed-api/internal/dto"
	"community-feed-api/internal/repository"
	"community-feed-api/internal/response"
)

func testFeedConfig() config.FeedConfig {
	return config.FeedConfig{
		PostPageSize:       10,
		CommentPageSize:    5,
		TrendingMinUpvotes: 5,
		VoteMaxRetries:     3,
	}
}

func newTestPostService(postRepo *MockPostRepository, commentRepo *MockCommentRepository, voteRepo *MockVoteRepository, media client.MediaClient) PostService {
	return NewPostService(postRepo, commentRepo, voteRepo, nil, media, testFeedConfig(), nil, zap.NewNop())
}

func TestPostService_CreatePost(t *testing.T) {
	author := Identity{Email: "author@example.com", Username: "author"}

	t.Run("성공: 이미지 포함 게시물 작성", func(t *testing.T) {
		// Given
		var created *domain.Post
		mockPostRepo := &MockPostRepository{
			CreateFunc: func(ctx context.Context, post *domain.Post) error {
				post.ID = uuid.New()
				created = post
				return nil
			},
		}
		media := client.NewMockMediaClient()
		svc := newTestPostService(mockPostRepo, &MockCommentRepository{}, &MockVoteRepository{}, media)

		req := &dto.CreatePostRequest{
			Body:     "hello feed",
			Category: "general",
			Image: &dto.ImagePayload{
				Key:         "feed/posts/2026/09/abc.png",
				FileName:    "abc.png",
				ContentType: "image/png",
				FileSize:    1234,
			},
		}

		// When
		resp, err := svc.CreatePost(context.Background(), author, req)

		// Then
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created == nil || len(created.Image) == 0 {
			t.Fatal("image reference was not persisted")
		}
		if resp.AuthorUsername != "author" {
			t.Errorf("AuthorUsername = %s, want author", resp.AuthorUsername)
		}
		if resp.Image == nil || resp.Image.URL == "" {
			t.Error("image URL was not resolved in response")
		}
		if resp.ViewerVote != "none" {
			t.Errorf("ViewerVote = %s, want none", resp.ViewerVote)
		}
	})

	t.Run("실패: 저장소 오류", func(t *testing.T) {
		mockPostRepo := &MockPostRepository{
			CreateFunc: func(ctx context.Context, post *domain.Post) error {
				return errors.New("connection refused")
			},
		}
		svc := newTestPostService(mockPostRepo, &MockCommentRepository{}, &MockVoteRepository{}, nil)

		_, err := svc.CreatePost(context.Background(), author, &dto.CreatePostRequest{Body: "x", Category: "general"})
		var appErr *response.AppError
		if !errors.As(err, &appErr) || appErr.Code != response.ErrCodeUnavailable {
			t.Fatalf("expected UNAVAILABLE AppError, got %v", err)
		}
	})
}

func TestPostService_EditPost(t *testing.T) {
	postID := uuid.New()

	tests := []struct {
		name        string
		author      Identity
		mockPost    func(*MockPostRepository)
		wantErr     bool
		wantErrCode string
	}{
		{
			name:   "성공: 작성자가 본문 수정",
			author: Identity{Email: "author@example.com", Username: "renamed"},
			mockPost: func(m *MockPostRepository) {
				m.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
					return &domain.Post{
						BaseModel:      domain.BaseModel{ID: postID},
						AuthorEmail:    "author@example.com",
						AuthorUsername: "old-name",
						Body:           "old body",
						Category:       "general",
						Score:          4,
					}, nil
				}
				m.UpdateFunc = func(ctx context.Context, post *domain.Post) error {
					if post.Body != "new body" {
						t.Errorf("Body = %s, want new body", post.Body)
					}
					if post.AuthorUsername != "renamed" {
						t.Errorf("AuthorUsername = %s, want renamed", post.AuthorUsername)
					}
					if post.Score != 4 {
						t.Errorf("Score = %d, votes must be untouched", post.Score)
					}
					return nil
				}
			},
			wantErr: false,
		},
		{
			name:   "실패: 작성자가 아닌 사용자의 수정 시도",
			author: Identity{Email: "attacker@example.com"},
			mockPost: func(m *MockPostRepository) {
				m.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
					return &domain.Post{AuthorEmail: "author@example.com"}, nil
				}
			},
			wantErr:     true,
			wantErrCode: response.ErrCodeForbidden,
		},
		{
			name:   "실패: 게시물이 존재하지 않음",
			author: Identity{Email: "author@example.com"},
			mockPost: func(m *MockPostRepository) {
				m.FindByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
					return nil, gorm.ErrRecordNotFound
				}
			},
			wantErr:     true,
			wantErrCode: response.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			mockPostRepo := &MockPostRepository{}
			tt.mockPost(mockPostRepo)
			svc := newTestPostService(mockPostRepo, &MockCommentRepository{}, &MockVoteRepository{}, nil)

			body := "new body"
			req := &dto.UpdatePostRequest{Body: &body}

			// When
			_, err := svc.EditPost(context.Background(), postID, tt.author, req)

			// Then
			if tt.wantErr {
				var appErr *response.AppError
				if !errors.As(err, &appErr) {
					t.Fatalf("expected AppError, got %v", err)
				}
				if appErr.Code != tt.wantErrCode {
					t.Errorf("error code = %s, want %s", appErr.Code, tt.wantErrCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPostService_ListPosts(t *testing.T) {
	t.Run("성공: trending 필터가 상한 조건으로 전달됨", func(t *testing.T) {
		// Given
		id1 := uuid.New()
		mockPostRepo := &MockPostRepository{
			ListFunc: func(ctx context.Context, q repository.FeedListQuery) ([]*domain.Post, int64, error) {
				if !q.Trending {
					t.Error("Trending = false, want true")
				}
				if q.MinUpvotes != 5 {
					t.Errorf("MinUpvotes = %d, want 5", q.MinUpvotes)
				}
				return []*domain.Post{
					{BaseModel: domain.BaseModel{ID: id1}, AuthorEmail: "a@example.com", Score: 9},
				}, 1, nil
			},
		}
		mockCommentRepo := &MockCommentRepository{
			CountByPostIDsFunc: func(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
				return map[uuid.UUID]int64{id1: 4}, nil
			},
		}
		svc := newTestPostService(mockPostRepo, mockCommentRepo, &MockVoteRepository{}, nil)

		// When
		page, err := svc.ListPosts(context.Background(), &dto.FeedQuery{Filter: dto.FeedFilterTrending, Page: 1}, "")

		// Then
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Posts) != 1 {
			t.Fatalf("Posts length = %d, want 1", len(page.Posts))
		}
		if page.Posts[0].CommentCount != 4 {
			t.Errorf("CommentCount = %d, want 4", page.Posts[0].CommentCount)
		}
		if page.TotalPages != 1 || page.HasMore {
			t.Errorf("pagination = (%d pages, hasMore %v), want (1, false)", page.TotalPages, page.HasMore)
		}
	})
}

func TestPostService_DeletePost(t *testing.T) {
	postID := uuid.New()

	t.Run("성공: 미디어 삭제 실패는 치명적이지 않음", func(t *testing.T) {
		// Given
		cascaded := false
		mockPostRepo := &MockPostRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
				return &domain.Post{
					BaseModel:   domain.BaseModel{ID: postID},
					AuthorEmail: "author@example.com",
					Image:       []byte(`{"key":"feed/posts/img.png"}`),
				}, nil
			},
			DeleteCascadeFunc: func(ctx context.Context, id uuid.UUID) error {
				cascaded = true
				return nil
			},
		}
		media := client.NewMockMediaClient()
		media.DeleteFileFunc = func(ctx context.Context, key string) error {
			return errors.New("s3 unavailable")
		}
		svc := newTestPostService(mockPostRepo, &MockCommentRepository{}, &MockVoteRepository{}, media)

		// When
		err := svc.DeletePost(context.Background(), postID, "author@example.com")

		// Then
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cascaded {
			t.Error("cascade delete did not run after media failure")
		}
	})

	t.Run("실패: 작성자가 아닌 사용자의 삭제 시도", func(t *testing.T) {
		mockPostRepo := &MockPostRepository{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
				return &domain.Post{AuthorEmail: "author@example.com"}, nil
			},
		}
		svc := newTestPostService(mockPostRepo, &MockCommentRepository{}, &MockVoteRepository{}, nil)

		err := svc.DeletePost(context.Background(), postID, "attacker@example.com")
		var appErr *response.AppError
		if !errors.As(err, &appErr) || appErr.Code != response.ErrCodeForbidden {
			t.Fatalf("expected FORBIDDEN AppError, got %v", err)
		}
	})
}
