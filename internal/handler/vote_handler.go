package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"community-feed-api/internal/dto"
	"community-feed-api/internal/response"
	"community-feed-api/internal/service"
)

type VoteHandler struct {
	votingService service.VotingService
}

func NewVoteHandler(votingService service.VotingService) *VoteHandler {
	return &VoteHandler{
		votingService: votingService,
	}
}

// VoteOnPost godoc
// @Summary      게시물 투표
// @Description  게시물에 추천/비추천을 적용합니다. 같은 투표를 다시 보내면 취소, 반대 투표를 보내면 전환됩니다
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID (UUID)"
// @Param        request body dto.VoteRequest true "투표 요청 (upvote 또는 downvote)"
// @Success      200 {object} response.SuccessResponse{data=dto.VoteResponse} "투표 적용 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 투표 타입"
// @Failure      403 {object} response.ErrorResponse "본인 게시물에는 투표 불가"
// @Failure      404 {object} response.ErrorResponse "게시물을 찾을 수 없음"
// @Failure      409 {object} response.ErrorResponse "동시 투표 충돌"
// @Router       /posts/{id}/vote [post]
func (h *VoteHandler) VoteOnPost(c *gin.Context) {
	voter, ok := requireIdentity(c)
	if !ok {
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid post ID")
		return
	}

	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.votingService.VoteOnPost(c.Request.Context(), postID, voter.Email, req.Type)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// VoteOnComment godoc
// @Summary      댓글 투표
// @Description  댓글에 추천/비추천을 적용합니다. 같은 투표를 다시 보내면 취소, 반대 투표를 보내면 전환됩니다
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID (UUID)"
// @Param        request body dto.VoteRequest true "투표 요청 (upvote 또는 downvote)"
// @Success      200 {object} response.SuccessResponse{data=dto.VoteResponse} "투표 적용 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 투표 타입"
// @Failure      403 {object} response.ErrorResponse "본인 댓글에는 투표 불가"
// @Failure      404 {object} response.ErrorResponse "댓글을 찾을 수 없음"
// @Failure      409 {object} response.ErrorResponse "동시 투표 충돌"
// @Router       /comments/{id}/vote [post]
func (h *VoteHandler) VoteOnComment(c *gin.Context) {
	voter, ok := requireIdentity(c)
	if !ok {
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid comment ID")
		return
	}

	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.votingService.VoteOnComment(c.Request.Context(), commentID, voter.Email, req.Type)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}
