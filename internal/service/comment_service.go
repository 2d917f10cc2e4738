package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/dto"
	"github.com/titik444/express-blog/internal/repository"
	"github.com/titik444/express-blog/pkg/apperror"
	"github.com/titik444/express-blog/pkg/telemetry"
)

// CommentService handles comments on posts
type CommentService interface {
	Create(ctx context.Context, authorID string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CommentResponse, error)
	Update(ctx context.Context, id, actorID string, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, id, actorID string, actorRole domain.Role) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *commentService) Create(ctx context.Context, authorID string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.comment.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("author_id", authorID),
		attribute.String("post_id", req.PostID),
	)

	if ok, msg := req.Validate(); !ok {
		span.SetStatus(codes.Error, msg)
		return nil, apperror.Validation(msg)
	}

	post, err := s.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}
	if post == nil {
		span.SetStatus(codes.Error, "post not found")
		return nil, apperror.NotFound("Post not found")
	}

	now := time.Now()
	comment := &domain.Comment{
		ID:        uuid.New().String(),
		PostID:    req.PostID,
		AuthorID:  authorID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil || created == nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reload comment")
		return nil, apperror.Internal(err)
	}

	span.SetAttributes(attribute.String("comment_id", comment.ID))
	span.SetStatus(codes.Ok, "")
	return toCommentResponse(created), nil
}

func (s *commentService) GetByID(ctx context.Context, id string) (*dto.CommentResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.comment.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("comment_id", id))

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}
	if comment == nil {
		span.SetStatus(codes.Error, "comment not found")
		return nil, apperror.NotFound("Comment not found")
	}

	span.SetStatus(codes.Ok, "")
	return toCommentResponse(comment), nil
}

// Update modifies a comment's content. Only the author may edit.
func (s *commentService) Update(ctx context.Context, id, actorID string, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.comment.update")
	defer span.End()

	span.SetAttributes(attribute.String("comment_id", id))

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}
	if comment == nil {
		span.SetStatus(codes.Error, "comment not found")
		return nil, apperror.NotFound("Comment not found")
	}

	if comment.AuthorID != actorID {
		span.SetStatus(codes.Error, "not the author")
		return nil, apperror.Forbidden("You can only edit your own comments")
	}

	comment.Content = req.Content
	comment.UpdatedAt = time.Now()

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}

	span.SetStatus(codes.Ok, "")
	return toCommentResponse(comment), nil
}

// Delete removes a comment. The author or an admin may delete.
func (s *commentService) Delete(ctx context.Context, id, actorID string, actorRole domain.Role) error {
	ctx, span := telemetry.StartSpan(ctx, "service.comment.delete")
	defer span.End()

	span.SetAttributes(attribute.String("comment_id", id))

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperror.Internal(err)
	}
	if comment == nil {
		span.SetStatus(codes.Error, "comment not found")
		return apperror.NotFound("Comment not found")
	}

	if comment.AuthorID != actorID && actorRole != domain.RoleAdmin {
		span.SetStatus(codes.Error, "not the author")
		return apperror.Forbidden("You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperror.Internal(err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func toCommentResponse(comment *domain.Comment) *dto.CommentResponse {
	resp := &dto.CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Content:   comment.Content,
		LikeCount: comment.LikeCount,
		CreatedAt: comment.CreatedAt.Format(time.RFC3339),
	}
	if comment.Author != nil {
		resp.Author = dto.AuthorResponse{
			ID:        comment.Author.ID,
			Name:      comment.Author.Name,
			AvatarURL: comment.Author.AvatarURL,
		}
	}
	return resp
}
