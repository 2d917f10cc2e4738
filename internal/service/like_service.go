package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/events"
	"github.com/titik444/express-blog/internal/repository"
	"github.com/titik444/express-blog/pkg/apperror"
	"github.com/titik444/express-blog/pkg/telemetry"
)

// LikeService records and removes like memberships. Each state change
// moves the membership row and the denormalized counter together, and
// repeating an operation that already took effect is rejected rather
// than double counted.
type LikeService interface {
	// Like records a like for a user on a target
	Like(ctx context.Context, target domain.LikeTarget, userID, targetID string) error
	// Unlike removes a previously recorded like
	Unlike(ctx context.Context, target domain.LikeTarget, userID, targetID string) error
	// IsLiked reports whether the user currently likes the target
	IsLiked(ctx context.Context, target domain.LikeTarget, userID, targetID string) (bool, error)
}

type likeService struct {
	likeRepo  repository.LikeRepository
	publisher events.Publisher
}

// NewLikeService creates a new LikeService
func NewLikeService(likeRepo repository.LikeRepository, publisher events.Publisher) LikeService {
	return &likeService{
		likeRepo:  likeRepo,
		publisher: publisher,
	}
}

func (s *likeService) Like(ctx context.Context, target domain.LikeTarget, userID, targetID string) error {
	ctx, span := telemetry.StartSpan(ctx, fmt.Sprintf("service.like.%s.like", target))
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("target_id", targetID),
	)

	exists, err := s.likeRepo.TargetExists(ctx, target, targetID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperror.Internal(err)
	}
	if !exists {
		span.SetStatus(codes.Error, "target not found")
		return apperror.NotFound(notFoundMessage(target))
	}

	if err := s.likeRepo.CreateAndIncrement(ctx, target, userID, targetID); err != nil {
		if errors.Is(err, repository.ErrDuplicateLike) {
			span.SetStatus(codes.Error, "already liked")
			return apperror.Conflict(alreadyLikedMessage(target))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperror.Internal(err)
	}

	s.publisher.Publish(ctx, events.TopicContentEvents, likedEvent(target), targetID, map[string]any{
		"user_id":   userID,
		"target_id": targetID,
	})

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *likeService) Unlike(ctx context.Context, target domain.LikeTarget, userID, targetID string) error {
	ctx, span := telemetry.StartSpan(ctx, fmt.Sprintf("service.like.%s.unlike", target))
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", userID),
		attribute.String("target_id", targetID),
	)

	exists, err := s.likeRepo.TargetExists(ctx, target, targetID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperror.Internal(err)
	}
	if !exists {
		span.SetStatus(codes.Error, "target not found")
		return apperror.NotFound(notFoundMessage(target))
	}

	if err := s.likeRepo.DeleteAndDecrement(ctx, target, userID, targetID); err != nil {
		if errors.Is(err, repository.ErrLikeNotFound) {
			span.SetStatus(codes.Error, "not liked")
			return apperror.Conflict(notLikedMessage(target))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperror.Internal(err)
	}

	s.publisher.Publish(ctx, events.TopicContentEvents, unlikedEvent(target), targetID, map[string]any{
		"user_id":   userID,
		"target_id": targetID,
	})

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *likeService) IsLiked(ctx context.Context, target domain.LikeTarget, userID, targetID string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, fmt.Sprintf("service.like.%s.is_liked", target))
	defer span.End()

	liked, err := s.likeRepo.Exists(ctx, target, userID, targetID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, apperror.Internal(err)
	}

	span.SetStatus(codes.Ok, "")
	return liked, nil
}

func notFoundMessage(target domain.LikeTarget) string {
	if target == domain.LikeTargetComment {
		return "Comment not found"
	}
	return "Post not found"
}

func alreadyLikedMessage(target domain.LikeTarget) string {
	if target == domain.LikeTargetComment {
		return "Comment already liked"
	}
	return "Post already liked"
}

func notLikedMessage(target domain.LikeTarget) string {
	if target == domain.LikeTargetComment {
		return "Comment not liked yet"
	}
	return "Post not liked yet"
}

func likedEvent(target domain.LikeTarget) string {
	if target == domain.LikeTargetComment {
		return events.EventCommentLiked
	}
	return events.EventPostLiked
}

func unlikedEvent(target domain.LikeTarget) string {
	if target == domain.LikeTargetComment {
		return events.EventCommentUnliked
	}
	return events.EventPostUnliked
}
