package dto

import "strings"

// CreatePostRequest represents a post creation request
type CreatePostRequest struct {
	Title         string   `json:"title" binding:"required,min=3,max=200"`
	Content       string   `json:"content" binding:"required"`
	FeaturedImage string   `json:"featured_image"`
	Categories    []string `json:"categories"` // category ids
}

// Validate checks fields beyond what binding tags cover
func (r *CreatePostRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Title) == "" {
		return false, "Title must not be blank"
	}
	if strings.TrimSpace(r.Content) == "" {
		return false, "Content must not be blank"
	}
	return true, ""
}

// UpdatePostRequest represents a partial post update
type UpdatePostRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	FeaturedImage string   `json:"featured_image"`
	Categories    []string `json:"categories"`
}

// PostListFilter holds pagination and search parameters for post listing
type PostListFilter struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
}

// SetDefaults clamps pagination parameters to sane values
func (f *PostListFilter) SetDefaults() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

// Offset returns the row offset for the current page
func (f *PostListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// AuthorResponse is the embedded author projection on posts and comments
type AuthorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// CategoryResponse is the embedded category projection
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PostResponse represents a post with embedded author and categories
type PostResponse struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Slug          string             `json:"slug"`
	Content       string             `json:"content"`
	FeaturedImage string             `json:"featured_image,omitempty"`
	LikeCount     int                `json:"like_count"`
	Liked         bool               `json:"liked"`
	CreatedAt     string             `json:"created_at"`
	Author        AuthorResponse     `json:"author"`
	Categories    []CategoryResponse `json:"categories"`
}
