package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/dto"
)

var (
	// ErrDuplicateLike is returned when the (user, target) membership already exists
	ErrDuplicateLike = errors.New("like already exists")
	// ErrLikeNotFound is returned when no membership row matched an unlike
	ErrLikeNotFound = errors.New("like not found")
)

// UserRepository provides access to user records.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PostRepository provides access to posts and their category attachments
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post, categoryIDs []string) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	List(ctx context.Context, filter *dto.PostListFilter) ([]*domain.Post, int64, error)
	Update(ctx context.Context, post *domain.Post, categoryIDs []string, replaceCategories bool) error
	Delete(ctx context.Context, id string) error
	ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error)
}

// CommentRepository provides access to comments
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository provides access to categories
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
	ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error)
}

// LikeRepository maintains like memberships and the denormalized counters.
// CreateAndIncrement and DeleteAndDecrement each run as a single
// transaction so the membership row and the counter move together or
// not at all.
type LikeRepository interface {
	Exists(ctx context.Context, target domain.LikeTarget, userID, targetID string) (bool, error)
	TargetExists(ctx context.Context, target domain.LikeTarget, targetID string) (bool, error)
	CreateAndIncrement(ctx context.Context, target domain.LikeTarget, userID, targetID string) error
	DeleteAndDecrement(ctx context.Context, target domain.LikeTarget, userID, targetID string) error
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
