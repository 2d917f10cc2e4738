package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/dto"
	"github.com/titik444/express-blog/internal/middleware"
	"github.com/titik444/express-blog/pkg/apperror"
)

// MockPostService is a mock implementation of PostService
type MockPostService struct {
	posts map[string]*dto.PostResponse
}

func NewMockPostService() *MockPostService {
	return &MockPostService{posts: make(map[string]*dto.PostResponse)}
}

func (m *MockPostService) Create(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	post := &dto.PostResponse{
		ID:      "post-123",
		Title:   req.Title,
		Slug:    "test-slug",
		Content: req.Content,
		Author:  dto.AuthorResponse{ID: authorID},
	}
	m.posts[post.ID] = post
	return post, nil
}

func (m *MockPostService) GetBySlug(ctx context.Context, slug string) (*dto.PostResponse, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, apperror.NotFound("Post not found")
}

func (m *MockPostService) List(ctx context.Context, filter *dto.PostListFilter) ([]*dto.PostResponse, int64, error) {
	var posts []*dto.PostResponse
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	return posts, int64(len(posts)), nil
}

func (m *MockPostService) Update(ctx context.Context, id, actorID string, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("Post not found")
	}
	if post.Author.ID != actorID {
		return nil, apperror.Forbidden("You can only edit your own posts")
	}
	if req.Title != "" {
		post.Title = req.Title
	}
	return post, nil
}

func (m *MockPostService) Delete(ctx context.Context, id, actorID string, actorRole domain.Role) error {
	post, ok := m.posts[id]
	if !ok {
		return apperror.NotFound("Post not found")
	}
	if post.Author.ID != actorID && actorRole != domain.RoleAdmin {
		return apperror.Forbidden("You can only delete your own posts")
	}
	delete(m.posts, id)
	return nil
}

// MockLikeService is a mock implementation of LikeService
type MockLikeService struct {
	likes map[string]bool
}

func NewMockLikeService() *MockLikeService {
	return &MockLikeService{likes: make(map[string]bool)}
}

func (m *MockLikeService) Like(ctx context.Context, target domain.LikeTarget, userID, targetID string) error {
	key := string(target) + ":" + userID + ":" + targetID
	if m.likes[key] {
		return apperror.Conflict("Post already liked")
	}
	m.likes[key] = true
	return nil
}

func (m *MockLikeService) Unlike(ctx context.Context, target domain.LikeTarget, userID, targetID string) error {
	key := string(target) + ":" + userID + ":" + targetID
	if !m.likes[key] {
		return apperror.Conflict("Post not liked yet")
	}
	delete(m.likes, key)
	return nil
}

func (m *MockLikeService) IsLiked(ctx context.Context, target domain.LikeTarget, userID, targetID string) (bool, error) {
	return m.likes[string(target)+":"+userID+":"+targetID], nil
}

func identityFor(userID string, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Set(middleware.ContextRoleKey, role)
		c.Next()
	}
}

func setupPostRouter(h *PostHandler, userID string, role domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	posts := router.Group("/posts")
	if userID != "" {
		posts.Use(identityFor(userID, role))
	}
	{
		posts.GET("", h.List)
		posts.GET("/:slug", h.GetBySlug)
		posts.POST("", h.Create)
		posts.PATCH("/:id", h.Update)
		posts.DELETE("/:id", h.Delete)
		posts.POST("/:id/like", h.Like)
		posts.DELETE("/:id/like", h.Unlike)
	}

	return router
}

func TestPostHandler_Like(t *testing.T) {
	mockPosts := NewMockPostService()
	mockLikes := NewMockLikeService()
	handler := NewPostHandler(mockPosts, mockLikes)
	router := setupPostRouter(handler, "user-1", domain.RoleUser)

	t.Run("first like succeeds", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/posts/post-1/like", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, resp.Code)
		}
	})

	t.Run("second like conflicts", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/posts/post-1/like", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusConflict {
			t.Errorf("expected status %d, got %d", http.StatusConflict, resp.Code)
		}
	})

	t.Run("unlike succeeds after like", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, "/posts/post-1/like", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, resp.Code)
		}
	})

	t.Run("unlike without like conflicts", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, "/posts/post-1/like", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusConflict {
			t.Errorf("expected status %d, got %d", http.StatusConflict, resp.Code)
		}
	})
}

func TestPostHandler_GetBySlug(t *testing.T) {
	mockPosts := NewMockPostService()
	mockLikes := NewMockLikeService()
	handler := NewPostHandler(mockPosts, mockLikes)
	router := setupPostRouter(handler, "user-1", domain.RoleUser)

	mockPosts.posts["post-1"] = &dto.PostResponse{
		ID:   "post-1",
		Slug: "test-post",
	}

	tests := []struct {
		name       string
		slug       string
		wantStatus int
	}{
		{name: "existing post", slug: "test-post", wantStatus: http.StatusOK},
		{name: "non-existent post", slug: "missing", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/posts/"+tt.slug, nil)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, resp.Code)
			}
		})
	}

	t.Run("authenticated viewer sees their like state", func(t *testing.T) {
		mockLikes.likes["post:user-1:post-1"] = true

		req, _ := http.NewRequest(http.MethodGet, "/posts/test-post", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, resp.Code)
		}

		var body struct {
			Data dto.PostResponse `json:"data"`
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !body.Data.Liked {
			t.Error("expected liked = true for the viewer's own like")
		}
	})
}

func TestPostHandler_Update(t *testing.T) {
	mockPosts := NewMockPostService()
	mockLikes := NewMockLikeService()
	handler := NewPostHandler(mockPosts, mockLikes)

	mockPosts.posts["post-1"] = &dto.PostResponse{
		ID:     "post-1",
		Title:  "Original",
		Author: dto.AuthorResponse{ID: "author-1"},
	}

	t.Run("author can update", func(t *testing.T) {
		router := setupPostRouter(handler, "author-1", domain.RoleUser)
		resp := patchJSON(router, "/posts/post-1", dto.UpdatePostRequest{Title: "Changed"})

		if resp.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, resp.Code)
		}
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		router := setupPostRouter(handler, "intruder", domain.RoleUser)
		resp := patchJSON(router, "/posts/post-1", dto.UpdatePostRequest{Title: "Hijacked"})

		if resp.Code != http.StatusForbidden {
			t.Errorf("expected status %d, got %d", http.StatusForbidden, resp.Code)
		}
	})

	t.Run("admin cannot edit another author's post", func(t *testing.T) {
		router := setupPostRouter(handler, "admin-1", domain.RoleAdmin)
		resp := patchJSON(router, "/posts/post-1", dto.UpdatePostRequest{Title: "Moderated"})

		if resp.Code != http.StatusForbidden {
			t.Errorf("expected status %d, got %d", http.StatusForbidden, resp.Code)
		}
	})
}
