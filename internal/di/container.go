package di

import (
	"github.com/titik444/express-blog/internal/events"
	"github.com/titik444/express-blog/internal/handler"
	"github.com/titik444/express-blog/internal/repository"
	"github.com/titik444/express-blog/internal/service"
	"github.com/titik444/express-blog/pkg/config"
	"github.com/titik444/express-blog/pkg/database"
	"github.com/titik444/express-blog/pkg/kafka"
	"github.com/titik444/express-blog/pkg/redis"
)

// Container holds all dependencies for the blog service
type Container struct {
	// Infrastructure
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer *kafka.Producer

	// Repositories
	UserRepo     repository.UserRepository
	PostRepo     repository.PostRepository
	CommentRepo  repository.CommentRepository
	CategoryRepo repository.CategoryRepository
	LikeRepo     repository.LikeRepository

	// Services
	TokenService    service.TokenService
	AuthService     service.AuthService
	PostService     service.PostService
	CommentService  service.CommentService
	CategoryService service.CategoryService
	LikeService     service.LikeService

	// Handlers
	HealthHandler   *handler.HealthHandler
	AuthHandler     *handler.AuthHandler
	PostHandler     *handler.PostHandler
	CommentHandler  *handler.CommentHandler
	CategoryHandler *handler.CategoryHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config   *config.Config
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer *kafka.Producer
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:       cfg.DB,
		Redis:    cfg.Redis,
		Producer: cfg.Producer,
	}

	publisher := events.NewPublisher(c.Producer)

	// Initialize repositories
	c.UserRepo = repository.NewPostgresUserRepository(c.DB.Pool())
	c.PostRepo = repository.NewPostgresPostRepository(c.DB.Pool())
	c.CommentRepo = repository.NewPostgresCommentRepository(c.DB.Pool())
	c.CategoryRepo = repository.NewPostgresCategoryRepository(c.DB.Pool())
	c.LikeRepo = repository.NewPostgresLikeRepository(c.DB.Pool())

	// Initialize services
	c.TokenService = service.NewTokenService(&service.TokenServiceConfig{
		Secret:          cfg.Config.JWT.Secret,
		AccessTokenTTL:  cfg.Config.JWT.AccessTokenTTL,
		RefreshTokenTTL: cfg.Config.JWT.RefreshTokenTTL,
	})
	c.AuthService = service.NewAuthService(c.UserRepo, c.TokenService, publisher, &service.AuthServiceConfig{})
	c.PostService = service.NewPostService(c.PostRepo, c.CategoryRepo)
	c.CommentService = service.NewCommentService(c.CommentRepo, c.PostRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.LikeService = service.NewLikeService(c.LikeRepo, publisher)

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis, cfg.Config.App.Version)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.PostHandler = handler.NewPostHandler(c.PostService, c.LikeService)
	c.CommentHandler = handler.NewCommentHandler(c.CommentService, c.LikeService)
	c.CategoryHandler = handler.NewCategoryHandler(c.CategoryService)

	return c
}
