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

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// CreateComment godoc
// @Summary      댓글 작성
// @Description  게시물에 댓글 또는 대댓글을 작성합니다 (대댓글의 대댓글은 불가)
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID (UUID)"
// @Param        request body dto.CreateCommentRequest true "댓글 작성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.CommentNode} "댓글 작성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청 또는 2단계 초과 대댓글"
// @Failure      404 {object} response.ErrorResponse "게시물 또는 부모 댓글을 찾을 수 없음"
// @Router       /posts/{id}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	author, ok := requireIdentity(c)
	if !ok {
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid post ID")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), postID, author.Email, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, comment)
}

// ListComments godoc
// @Summary      댓글 트리 조회
// @Description  게시물의 댓글을 페이지 단위로 조회합니다 (최상위 댓글 최신순, 대댓글 오래된순 전체 포함)
// @Tags         comments
// @Produce      json
// @Param        id path string true "Post ID (UUID)"
// @Param        page query int false "페이지 번호 (1부터)" default(1)
// @Success      200 {object} response.SuccessResponse{data=dto.CommentPage} "댓글 조회 성공"
// @Failure      404 {object} response.ErrorResponse "게시물을 찾을 수 없음"
// @Router       /posts/{id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid post ID")
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Page must be a positive integer")
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), postID, viewerEmail(c), page)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comments)
}

// DeleteComment godoc
// @Summary      댓글 삭제
// @Description  본인 댓글을 대댓글, 투표와 함께 삭제합니다
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse "댓글 삭제 성공"
// @Failure      403 {object} response.ErrorResponse "작성자가 아님"
// @Failure      404 {object} response.ErrorResponse "댓글을 찾을 수 없음"
// @Router       /comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	requester, ok := requireIdentity(c)
	if !ok {
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid comment ID")
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), commentID, requester.Email); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": commentID})
}
