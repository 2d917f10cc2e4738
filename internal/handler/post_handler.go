package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/dto"
	"github.com/titik444/express-blog/internal/middleware"
	"github.com/titik444/express-blog/internal/service"
	"github.com/titik444/express-blog/pkg/response"
)

// PostHandler handles post endpoints
type PostHandler struct {
	postService service.PostService
	likeService service.LikeService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService service.PostService, likeService service.LikeService) *PostHandler {
	return &PostHandler{
		postService: postService,
		likeService: likeService,
	}
}

// Create handles POST /api/v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.postService.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, resp)
}

// List handles GET /api/v1/posts
func (h *PostHandler) List(c *gin.Context) {
	var filter dto.PostListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err.Error())
		return
	}
	filter.SetDefaults()

	posts, total, err := h.postService.List(c.Request.Context(), &filter)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Paginated(c, posts, filter.Page, filter.Limit, total)
}

// GetBySlug handles GET /api/v1/posts/:slug. Authenticated viewers also
// see whether they like the post.
func (h *PostHandler) GetBySlug(c *gin.Context) {
	resp, err := h.postService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	if userID := middleware.UserID(c); userID != "" {
		liked, err := h.likeService.IsLiked(c.Request.Context(), domain.LikeTargetPost, userID, resp.ID)
		if err != nil {
			response.FromError(c, err)
			return
		}
		resp.Liked = liked
	}

	response.Success(c, resp)
}

// Update handles PATCH /api/v1/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	resp, err := h.postService.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, resp)
}

// Delete handles DELETE /api/v1/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	err := h.postService.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c), middleware.Role(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// Like handles POST /api/v1/posts/:id/like
func (h *PostHandler) Like(c *gin.Context) {
	err := h.likeService.Like(c.Request.Context(), domain.LikeTargetPost, middleware.UserID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"liked": true})
}

// Unlike handles DELETE /api/v1/posts/:id/like
func (h *PostHandler) Unlike(c *gin.Context) {
	err := h.likeService.Unlike(c.Request.Context(), domain.LikeTargetPost, middleware.UserID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"liked": false})
}
