package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/titik444/express-blog/internal/domain"
	"github.com/titik444/express-blog/internal/dto"
	"github.com/titik444/express-blog/internal/events"
	"github.com/titik444/express-blog/internal/repository"
	"github.com/titik444/express-blog/pkg/apperror"
	"github.com/titik444/express-blog/pkg/telemetry"
)

// AuthServiceConfig holds auth service configuration
type AuthServiceConfig struct {
	BcryptCost int
}

// AuthService handles user registration and credential-based sessions
type AuthService interface {
	// Register creates a new user. No tokens are issued; the caller
	// logs in to start a session.
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	// Login authenticates a user and issues a token pair
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Refresh mints a new access token from a valid refresh token
	Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	// Me returns the profile of the authenticated user
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokens    TokenService
	publisher events.Publisher
	config    *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	tokens TokenService,
	publisher events.Publisher,
	config *AuthServiceConfig,
) AuthService {
	if config == nil {
		config = &AuthServiceConfig{}
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		publisher: publisher,
		config:    config,
	}
}

// Register registers a new user
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}
	if exists {
		span.SetStatus(codes.Error, "email already registered")
		return nil, apperror.Conflict("Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Two concurrent registrations can both pass the existence
		// check; the unique index on email settles it.
		if repository.IsUniqueViolation(err) {
			span.SetStatus(codes.Error, "email already registered")
			return nil, apperror.Conflict("Email already registered")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}

	s.publisher.Publish(ctx, events.TopicUserEvents, events.EventUserRegistered, user.ID, map[string]any{
		"user_id":    user.ID,
		"email":      user.Email,
		"registered": now.Format(time.RFC3339),
	})

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")

	resp := toUserResponse(user)
	return &resp, nil
}

// Login authenticates a user. An unknown email and a wrong password
// produce the same error, so callers cannot probe which emails exist.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}
	if user == nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, apperror.Unauthenticated("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, apperror.Unauthenticated("Invalid email or password")
	}

	tokenPair, err := s.tokens.GeneratePair(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")

	return &dto.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
		User:         toUserResponse(user),
	}, nil
}

// Refresh verifies a refresh token and mints a new access token. The
// user row is not re-read: a role change takes effect only after the
// refresh token itself expires.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	_, span := telemetry.StartSpan(ctx, "service.auth.refresh")
	defer span.End()

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			span.SetStatus(codes.Error, "refresh token expired")
			return nil, apperror.Unauthenticated("Refresh token expired")
		}
		span.SetStatus(codes.Error, "invalid refresh token")
		return nil, apperror.Unauthenticated("Invalid refresh token")
	}

	accessToken, expiresIn, err := s.tokens.GenerateAccessToken(claims)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}

	span.SetAttributes(attribute.String("user_id", claims.UserID))
	span.SetStatus(codes.Ok, "")

	return &dto.RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	}, nil
}

// Me retrieves the authenticated user's profile
func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.me")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, apperror.Internal(err)
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, apperror.NotFound("User not found")
	}

	span.SetStatus(codes.Ok, "")
	resp := toUserResponse(user)
	return &resp, nil
}

// toUserResponse converts User to UserResponse
func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
