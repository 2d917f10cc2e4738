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

// CategoryService handles category management. Reads are public; writes
// are restricted to admins at the routing layer.
type CategoryService interface {
	Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetBySlug(ctx context.Context, categorySlug string) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]*dto.CategoryResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.create")
	defer span.End()

	if ok, msg := req.Validate(); !ok {
		span.SetStatus(codes.Error, msg)
		return nil, apperror.Validation(msg)
	}

	categorySlug := slug.Make(req.Name)

	exists, err := s.categoryRepo.ExistsBySlug(ctx, categorySlug, "")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}
	if exists {
		span.SetStatus(codes.Error, "category already exists")
		return nil, apperror.Conflict("Category already exists")
	}

	now := time.Now()
	category := &domain.Category{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Slug:      categorySlug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			span.SetStatus(codes.Error, "category already exists")
			return nil, apperror.Conflict("Category already exists")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}

	span.SetAttributes(attribute.String("category_id", category.ID))
	span.SetStatus(codes.Ok, "")
	return toCategoryResponse(category), nil
}

func (s *categoryService) GetBySlug(ctx context.Context, categorySlug string) (*dto.CategoryResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.get_by_slug")
	defer span.End()

	span.SetAttributes(attribute.String("slug", categorySlug))

	category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}
	if category == nil {
		span.SetStatus(codes.Error, "category not found")
		return nil, apperror.NotFound("Category not found")
	}

	span.SetStatus(codes.Ok, "")
	return toCategoryResponse(category), nil
}

func (s *categoryService) List(ctx context.Context) ([]*dto.CategoryResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.list")
	defer span.End()

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}

	responses := make([]*dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, toCategoryResponse(category))
	}

	span.SetStatus(codes.Ok, "")
	return responses, nil
}

func (s *categoryService) Update(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.update")
	defer span.End()

	span.SetAttributes(attribute.String("category_id", id))

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}
	if category == nil {
		span.SetStatus(codes.Error, "category not found")
		return nil, apperror.NotFound("Category not found")
	}

	newSlug := slug.Make(req.Name)

	exists, err := s.categoryRepo.ExistsBySlug(ctx, newSlug, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}
	if exists {
		span.SetStatus(codes.Error, "category already exists")
		return nil, apperror.Conflict("Category already exists")
	}

	category.Name = req.Name
	category.Slug = newSlug
	category.UpdatedAt = time.Now()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}

	span.SetStatus(codes.Ok, "")
	return toCategoryResponse(category), nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.category.delete")
	defer span.End()

	span.SetAttributes(attribute.String("category_id", id))

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperror.Internal(err)
	}
	if category == nil {
		span.SetStatus(codes.Error, "category not found")
		return apperror.NotFound("Category not found")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperror.Internal(err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func toCategoryResponse(category *domain.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
		Slug: category.Slug,
	}
}
