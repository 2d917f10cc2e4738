package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/titik444/express-blog/internal/domain"
)

type postgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCommentRepository creates a PostgreSQL-backed comment repository
func NewPostgresCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresCommentRepository{pool: pool}
}

func (r *postgresCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, author_id, content, like_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *postgresCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.content, c.like_count, c.created_at, c.updated_at,
		       u.id, u.name, u.email, u.role, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`

	comment := &domain.Comment{Author: &domain.User{}}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.LikeCount,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.Author.ID,
		&comment.Author.Name,
		&comment.Author.Email,
		&comment.Author.Role,
		&comment.Author.AvatarURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

func (r *postgresCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	query := `UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`

	_, err := r.pool.Exec(ctx, query, comment.Content, comment.UpdatedAt, comment.ID)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

func (r *postgresCommentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
