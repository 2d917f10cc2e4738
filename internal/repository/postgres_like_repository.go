package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/titik444/express-blog/internal/domain"
)

type postgresLikeRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLikeRepository creates a PostgreSQL-backed like repository
func NewPostgresLikeRepository(pool *pgxpool.Pool) LikeRepository {
	return &postgresLikeRepository{pool: pool}
}

// tableFor maps a like target onto its membership table, target column
// and counter table. The membership table carries a unique constraint
// on (user_id, target column) which arbitrates concurrent likes.
func tableFor(target domain.LikeTarget) (likeTable, targetColumn, counterTable string) {
	switch target {
	case domain.LikeTargetComment:
		return "comment_likes", "comment_id", "comments"
	default:
		return "post_likes", "post_id", "posts"
	}
}

func (r *postgresLikeRepository) Exists(ctx context.Context, target domain.LikeTarget, userID, targetID string) (bool, error) {
	likeTable, targetColumn, _ := tableFor(target)

	query := fmt.Sprintf(
		`SELECT EXISTS(SELECT 1 FROM %s WHERE user_id = $1 AND %s = $2)`,
		likeTable, targetColumn,
	)

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, targetID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}

	return exists, nil
}

func (r *postgresLikeRepository) TargetExists(ctx context.Context, target domain.LikeTarget, targetID string) (bool, error) {
	_, _, counterTable := tableFor(target)

	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, counterTable)

	var exists bool
	if err := r.pool.QueryRow(ctx, query, targetID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check target existence: %w", err)
	}

	return exists, nil
}

// CreateAndIncrement inserts the membership row and bumps the counter
// in one transaction. A unique violation on the membership row means a
// concurrent or repeated like won the race, reported as ErrDuplicateLike
// with the counter untouched.
func (r *postgresLikeRepository) CreateAndIncrement(ctx context.Context, target domain.LikeTarget, userID, targetID string) error {
	likeTable, targetColumn, counterTable := tableFor(target)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := fmt.Sprintf(
		`INSERT INTO %s (user_id, %s, created_at) VALUES ($1, $2, $3)`,
		likeTable, targetColumn,
	)

	if _, err := tx.Exec(ctx, insertQuery, userID, targetID, time.Now()); err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicateLike
		}
		return fmt.Errorf("failed to create like: %w", err)
	}

	updateQuery := fmt.Sprintf(
		`UPDATE %s SET like_count = like_count + 1 WHERE id = $1`,
		counterTable,
	)

	if _, err := tx.Exec(ctx, updateQuery, targetID); err != nil {
		return fmt.Errorf("failed to increment like count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteAndDecrement removes the membership row and lowers the counter
// in one transaction. When no membership row matched, nothing is
// decremented and ErrLikeNotFound is returned, so the counter can never
// go below the number of remaining memberships.
func (r *postgresLikeRepository) DeleteAndDecrement(ctx context.Context, target domain.LikeTarget, userID, targetID string) error {
	likeTable, targetColumn, counterTable := tableFor(target)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	deleteQuery := fmt.Sprintf(
		`DELETE FROM %s WHERE user_id = $1 AND %s = $2`,
		likeTable, targetColumn,
	)

	tag, err := tx.Exec(ctx, deleteQuery, userID, targetID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLikeNotFound
	}

	// The RowsAffected guard above means the counter moves only when a
	// membership row was actually removed, so it cannot go negative.
	updateQuery := fmt.Sprintf(
		`UPDATE %s SET like_count = like_count - 1 WHERE id = $1`,
		counterTable,
	)

	if _, err := tx.Exec(ctx, updateQuery, targetID); err != nil {
		return fmt.Errorf("failed to decrement like count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
