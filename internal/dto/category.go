package dto

import "strings"

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// Validate checks fields beyond what binding tags cover
func (r *CreateCategoryRequest) Validate() (bool, string) {
	if strings.TrimSpace(r.Name) == "" {
		return false, "Name must not be blank"
	}
	return true, ""
}

// UpdateCategoryRequest represents a category rename
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}
