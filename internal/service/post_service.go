package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/dto"
	"github.com/titik444/express-blog/internal/repository"
	"github.com/titik444/express-blog/pkg/apperror"
	"github.com/titik444/express-blog/pkg/telemetry"
)

// PostService handles blog post CRUD
type PostService interface {
	Create(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	GetBySlug(ctx context.Context, slugString string) (*dto.PostResponse, error)
	List(ctx context.Context, filter *dto.PostListFilter) ([]*dto.PostResponse, int64, error)
	Update(ctx context.Context, id, actorID string, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	Delete(ctx context.Context, id, actorID string, actorRole domain.Role) error
}

type postService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository) PostService {
	return &postService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *postService) Create(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.post.create")
	defer span.End()

	span.SetAttributes(attribute.String("author_id", authorID))

	if ok, msg := req.Validate(); !ok {
		span.SetStatus(codes.Error, msg)
		return nil, apperror.Validation(msg)
	}

	if err := s.checkCategories(ctx, req.Categories); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	postSlug, err := s.slugFromTitle(ctx, req.Title, "")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	post := &domain.Post{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Slug:          postSlug,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		AuthorID:      authorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.postRepo.Create(ctx, post, req.Categories); err != nil {
		if repository.IsUniqueViolation(err) {
			span.SetStatus(codes.Error, "slug already taken")
			return nil, apperror.Conflict("Post with similar title already exists")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil || created == nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reload post")
		return nil, apperror.Internal(err)
	}

	span.SetAttributes(attribute.String("post_id", post.ID))
	span.SetStatus(codes.Ok, "")
	return toPostResponse(created), nil
}

func (s *postService) GetBySlug(ctx context.Context, slugString string) (*dto.PostResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.post.get_by_slug")
	defer span.End()

	span.SetAttributes(attribute.String("slug", slugString))

	post, err := s.postRepo.GetBySlug(ctx, slugString)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}
	if post == nil {
		span.SetStatus(codes.Error, "post not found")
		return nil, apperror.NotFound("Post not found")
	}

	span.SetStatus(codes.Ok, "")
	return toPostResponse(post), nil
}

func (s *postService) List(ctx context.Context, filter *dto.PostListFilter) ([]*dto.PostResponse, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.post.list")
	defer span.End()

	filter.SetDefaults()

	posts, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, apperror.Internal(err)
	}

	responses := make([]*dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, toPostResponse(post))
	}

	span.SetAttributes(attribute.Int("count", len(responses)))
	span.SetStatus(codes.Ok, "")
	return responses, total, nil
}

// Update modifies a post. Only the author may edit; the slug follows
// the title when the title changes.
func (s *postService) Update(ctx context.Context, id, actorID string, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.post.update")
	defer span.End()

	span.SetAttributes(attribute.String("post_id", id))

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}
	if post == nil {
		span.SetStatus(codes.Error, "post not found")
		return nil, apperror.NotFound("Post not found")
	}

	if post.AuthorID != actorID {
		span.SetStatus(codes.Error, "not the author")
		return nil, apperror.Forbidden("You can only edit your own posts")
	}

	if req.Title != "" && req.Title != post.Title {
		post.Title = req.Title
		newSlug, err := s.slugFromTitle(ctx, req.Title, post.ID)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		post.Slug = newSlug
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.FeaturedImage != "" {
		post.FeaturedImage = req.FeaturedImage
	}
	post.UpdatedAt = time.Now()

	replaceCategories := req.Categories != nil
	if replaceCategories {
		if err := s.checkCategories(ctx, req.Categories); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	if err := s.postRepo.Update(ctx, post, req.Categories, replaceCategories); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}

	updated, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil || updated == nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reload post")
		return nil, apperror.Internal(err)
	}

	span.SetStatus(codes.Ok, "")
	return toPostResponse(updated), nil
}

func (s *postService) Delete(ctx context.Context, id, actorID string, actorRole domain.Role) error {
	ctx, span := telemetry.StartSpan(ctx, "service.post.delete")
	defer span.End()

	span.SetAttributes(attribute.String("post_id", id))

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperror.Internal(err)
	}
	if post == nil {
		span.SetStatus(codes.Error, "post not found")
		return apperror.NotFound("Post not found")
	}

	if post.AuthorID != actorID && actorRole != domain.RoleAdmin {
		span.SetStatus(codes.Error, "not the author")
		return apperror.Forbidden("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperror.Internal(err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// slugFromTitle derives a slug from the title. A slug already held by
// another post is a conflict, on create and on title change alike.
func (s *postService) slugFromTitle(ctx context.Context, title, excludeID string) (string, error) {
	postSlug := slug.Make(title)

	exists, err := s.postRepo.ExistsBySlug(ctx, postSlug, excludeID)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if exists {
		return "", apperror.Conflict("Post with similar title already exists")
	}

	return postSlug, nil
}

func (s *postService) checkCategories(ctx context.Context, categoryIDs []string) error {
	for _, categoryID := range categoryIDs {
		category, err := s.categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			return apperror.Internal(err)
		}
		if category == nil {
			return apperror.Validation("Unknown category: " + categoryID)
		}
	}
	return nil
}

func toPostResponse(post *domain.Post) *dto.PostResponse {
	resp := &dto.PostResponse{
		ID:            post.ID,
		Title:         post.Title,
		Slug:          post.Slug,
		Content:       post.Content,
		FeaturedImage: post.FeaturedImage,
		LikeCount:     post.LikeCount,
		CreatedAt:     post.CreatedAt.Format(time.RFC3339),
		Categories:    make([]dto.CategoryResponse, 0, len(post.Categories)),
	}
	if post.Author != nil {
		resp.Author = dto.AuthorResponse{
			ID:        post.Author.ID,
			Name:      post.Author.Name,
			AvatarURL: post.Author.AvatarURL,
		}
	}
	for _, c := range post.Categories {
		resp.Categories = append(resp.Categories, dto.CategoryResponse{
			ID:   c.ID,
			Name: c.Name,
			Slug: c.Slug,
		})
	}
	return resp
}
