package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"community-feed-api/internal/dto"
	"community-feed-api/internal/response"
	"community-feed-api/internal/service"
)

type PostHandler struct {
	postService service.PostService
}

func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// CreatePost godoc
// @Summary      게시물 작성
// @Description  새 게시물을 작성합니다 (이미지 첨부 가능)
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreatePostRequest true "게시물 작성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.PostResponse} "게시물 작성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      401 {object} response.ErrorResponse "인증 실패"
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	author, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), author, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary      게시물 수정
// @Description  본인 게시물의 내용을 수정합니다 (투표는 유지됨)
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID (UUID)"
// @Param        request body dto.UpdatePostRequest true "게시물 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.PostResponse} "게시물 수정 성공"
// @Failure      403 {object} response.ErrorResponse "작성자가 아님"
// @Failure      404 {object} response.ErrorResponse "게시물을 찾을 수 없음"
// @Router       /posts/{id} [put]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	author, ok := requireIdentity(c)
	if !ok {
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid post ID")
		return
	}

	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	post, err := h.postService.EditPost(c.Request.Context(), postID, author, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, post)
}

// GetPost godoc
// @Summary      게시물 단건 조회
// @Description  게시물 하나를 투표 상태와 함께 조회합니다
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.PostResponse} "게시물 조회 성공"
// @Failure      404 {object} response.ErrorResponse "게시물을 찾을 수 없음"
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid post ID")
		return
	}

	post, err := h.postService.GetPost(c.Request.Context(), postID, viewerEmail(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, post)
}

// ListPosts godoc
// @Summary      피드 조회
// @Description  최신순(latest) 또는 인기순(trending) 피드를 페이지 단위로 조회합니다
// @Tags         posts
// @Produce      json
// @Param        filter query string false "피드 정렬 방식 (latest, trending)" default(latest)
// @Param        page query int false "페이지 번호 (1부터)" default(1)
// @Param        author query string false "작성자 이메일 필터"
// @Success      200 {object} response.SuccessResponse{data=dto.PostPage} "피드 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	filter := dto.FeedFilter(c.DefaultQuery("filter", string(dto.FeedFilterLatest)))
	if filter != dto.FeedFilterLatest && filter != dto.FeedFilterTrending {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Filter must be latest or trending")
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Page must be a positive integer")
		return
	}

	query := &dto.FeedQuery{
		Filter:      filter,
		Page:        page,
		AuthorEmail: c.Query("author"),
	}

	posts, err := h.postService.ListPosts(c.Request.Context(), query, viewerEmail(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, posts)
}

// DeletePost godoc
// @Summary      게시물 삭제
// @Description  본인 게시물을 댓글, 투표와 함께 삭제합니다
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID (UUID)"
// @Success      200 {object} response.SuccessResponse "게시물 삭제 성공"
// @Failure      403 {object} response.ErrorResponse "작성자가 아님"
// @Failure      404 {object} response.ErrorResponse "게시물을 찾을 수 없음"
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	requester, ok := requireIdentity(c)
	if !ok {
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid post ID")
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), postID, requester.Email); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": postID})
}
