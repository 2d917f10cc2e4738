// Seeds the database with an admin account and sample content for
// local development.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"

	"github.com/titik444/express-blog/internal/db"
	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/repository"
	"github.com/titik444/express-blog/pkg/config"
	"github.com/titik444/express-blog/pkg/database"
	"github.com/titik444/express-blog/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	if err := logger.Init(&logger.Config{Level: "info", ServiceName: "blog-seed", Development: true}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	dbCfg := &database.PostgresConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: 5,
		MinConns: 1,
	}
	pg, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer pg.Close()

	if err := db.Migrate(ctx, dbCfg.DSN()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := seed(ctx, pg); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	fmt.Println("Seed complete")
}

func seed(ctx context.Context, pg *database.PostgresDB) error {
	userRepo := repository.NewPostgresUserRepository(pg.Pool())
	categoryRepo := repository.NewPostgresCategoryRepository(pg.Pool())
	postRepo := repository.NewPostgresPostRepository(pg.Pool())

	now := time.Now()

	admin, err := seedUser(ctx, userRepo, "Admin", "admin@example.com", "admin123", domain.RoleAdmin)
	if err != nil {
		return err
	}
	author, err := seedUser(ctx, userRepo, "Jane Writer", "jane@example.com", "password123", domain.RoleUser)
	if err != nil {
		return err
	}
	_ = admin

	categoryNames := []string{"Technology", "Lifestyle", "Travel"}
	categoryIDs := make([]string, 0, len(categoryNames))
	for _, name := range categoryNames {
		categorySlug := slug.Make(name)
		existing, err := categoryRepo.GetBySlug(ctx, categorySlug)
		if err != nil {
			return err
		}
		if existing != nil {
			categoryIDs = append(categoryIDs, existing.ID)
			continue
		}
		category := &domain.Category{
			ID:        uuid.New().String(),
			Name:      name,
			Slug:      categorySlug,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := categoryRepo.Create(ctx, category); err != nil {
			return err
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	title := "Welcome to the Blog"
	postSlug := slug.Make(title)
	existing, err := postRepo.GetBySlug(ctx, postSlug)
	if err != nil {
		return err
	}
	if existing == nil {
		post := &domain.Post{
			ID:        uuid.New().String(),
			Title:     title,
			Slug:      postSlug,
			Content:   "This is the first post, seeded for local development.",
			AuthorID:  author.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := postRepo.Create(ctx, post, categoryIDs[:1]); err != nil {
			return err
		}
	}

	return nil
}

func seedUser(ctx context.Context, repo repository.UserRepository, name, email, password string, role domain.Role) (*domain.User, error) {
	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
