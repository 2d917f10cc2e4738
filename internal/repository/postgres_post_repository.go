package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/dto"
)

type postgresPostRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPostRepository creates a PostgreSQL-backed post repository
func NewPostgresPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postgresPostRepository{pool: pool}
}

func (r *postgresPostRepository) Create(ctx context.Context, post *domain.Post, categoryIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO posts (id, title, slug, content, featured_image, author_id, like_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)
	`

	_, err = tx.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Content,
		post.FeaturedImage,
		post.AuthorID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	for _, categoryID := range categoryIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`,
			post.ID, categoryID,
		)
		if err != nil {
			return fmt.Errorf("failed to attach category: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *postgresPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	return r.getOne(ctx, "p.id = $1", id)
}

func (r *postgresPostRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.getOne(ctx, "p.slug = $1", slug)
}

func (r *postgresPostRepository) getOne(ctx context.Context, where string, arg any) (*domain.Post, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.slug, p.content, p.featured_image, p.author_id,
		       p.like_count, p.created_at, p.updated_at,
		       u.id, u.name, u.email, u.role, u.avatar_url
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE %s
	`, where)

	post := &domain.Post{Author: &domain.User{}}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.FeaturedImage,
		&post.AuthorID,
		&post.LikeCount,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.Author.ID,
		&post.Author.Name,
		&post.Author.Email,
		&post.Author.Role,
		&post.Author.AvatarURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	categories, err := r.categoriesFor(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.Categories = categories

	return post, nil
}

func (r *postgresPostRepository) categoriesFor(ctx context.Context, postID string) ([]domain.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.created_at, c.updated_at
		FROM categories c
		JOIN post_categories pc ON pc.category_id = c.id
		WHERE pc.post_id = $1
		ORDER BY c.name
	`

	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *postgresPostRepository) List(ctx context.Context, filter *dto.PostListFilter) ([]*domain.Post, int64, error) {
	where := "TRUE"
	args := []any{}
	if filter.Search != "" {
		where = "(p.title ILIKE $1 OR p.content ILIKE $1)"
		args = append(args, "%"+filter.Search+"%")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM posts p WHERE %s`, where)

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.slug, p.content, p.featured_image, p.author_id,
		       p.like_count, p.created_at, p.updated_at,
		       u.id, u.name, u.email, u.role, u.avatar_url
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post := &domain.Post{Author: &domain.User{}}
		err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Slug,
			&post.Content,
			&post.FeaturedImage,
			&post.AuthorID,
			&post.LikeCount,
			&post.CreatedAt,
			&post.UpdatedAt,
			&post.Author.ID,
			&post.Author.Name,
			&post.Author.Email,
			&post.Author.Role,
			&post.Author.AvatarURL,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, post := range posts {
		categories, err := r.categoriesFor(ctx, post.ID)
		if err != nil {
			return nil, 0, err
		}
		post.Categories = categories
	}

	return posts, total, nil
}

func (r *postgresPostRepository) Update(ctx context.Context, post *domain.Post, categoryIDs []string, replaceCategories bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE posts
		SET title = $1, slug = $2, content = $3, featured_image = $4, updated_at = $5
		WHERE id = $6
	`

	_, err = tx.Exec(ctx, query,
		post.Title,
		post.Slug,
		post.Content,
		post.FeaturedImage,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	if replaceCategories {
		if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, post.ID); err != nil {
			return fmt.Errorf("failed to clear post categories: %w", err)
		}
		for _, categoryID := range categoryIDs {
			_, err = tx.Exec(ctx,
				`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`,
				post.ID, categoryID,
			)
			if err != nil {
				return fmt.Errorf("failed to attach category: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *postgresPostRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (r *postgresPostRepository) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}

	return exists, nil
}
