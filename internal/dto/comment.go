package dto

import "strings"

// CreateCommentRequest represents a comment creation request
type CreateCommentRequest struct {
	PostID  string `json:"post_id" binding:"required"`
	Content string `json:"content" binding:"required,max=2000"`
}

// Validate checks fields beyond what binding tags cover
func (r *CreateCommentRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Content) == "" {
		return false, "Content must not be blank"
	}
	return true, ""
}

// UpdateCommentRequest represents a comment update
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// CommentResponse represents a comment with its author
type CommentResponse struct {
	ID        string         `json:"id"`
	PostID    string         `json:"post_id"`
	Content   string         `json:"content"`
	LikeCount int            `json:"like_count"`
	Liked     bool           `json:"liked"`
	CreatedAt string         `json:"created_at"`
	Author    AuthorResponse `json:"author"`
}
