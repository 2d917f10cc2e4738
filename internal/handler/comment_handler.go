package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/dto"
	"github.com/titik444/express-blog/internal/middleware"
	"github.com/titik444/express-blog/internal/service"
	"github.com/titik444/express-blog/pkg/response"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	commentService service.CommentService
	likeService    service.LikeService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService service.CommentService, likeService service.LikeService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		likeService:    likeService,
	}
}

// Create handles POST /api/v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.commentService.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, resp)
}

// GetByID handles GET /api/v1/comments/:id. Authenticated viewers also
// see whether they like the comment.
func (h *CommentHandler) GetByID(c *gin.Context) {
	resp, err := h.commentService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	if userID := middleware.UserID(c); userID != "" {
		liked, err := h.likeService.IsLiked(c.Request.Context(), domain.LikeTargetComment, userID, resp.ID)
		if err != nil {
			response.FromError(c, err)
			return
		}
		resp.Liked = liked
	}

	response.Success(c, resp)
}

// Update handles PUT /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.commentService.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, resp)
}

// Delete handles DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	err := h.commentService.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// Like handles POST /api/v1/comments/:id/like
func (h *CommentHandler) Like(c *gin.Context) {
	err := h.likeService.Like(c.Request.Context(), domain.LikeTargetComment, middleware.UserID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"liked": true})
}

// Unlike handles DELETE /api/v1/comments/:id/like
func (h *CommentHandler) Unlike(c *gin.Context) {
	err := h.likeService.Unlike(c.Request.Context(), domain.LikeTargetComment, middleware.UserID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"liked": false})
}
