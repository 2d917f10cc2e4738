package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/titik444/express-blog/internal/domain"
)

// Service-level errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Token type claim values
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenServiceConfig holds token service configuration
type TokenServiceConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TokenService issues and verifies signed access and refresh tokens.
// Both token kinds are stateless JWTs signed with the same secret; a
// type claim keeps one kind from being accepted where the other is
// expected.
type TokenService interface {
	// GeneratePair issues an access/refresh token pair for a user
	GeneratePair(user *domain.User) (*domain.TokenPair, error)
	// GenerateAccessToken issues a fresh access token from verified claims
	GenerateAccessToken(claims *domain.Claims) (string, int64, error)
	// VerifyAccessToken verifies an access token and returns its claims
	VerifyAccessToken(tokenString string) (*domain.Claims, error)
	// VerifyRefreshToken verifies a refresh token and returns its claims
	VerifyRefreshToken(tokenString string) (*domain.Claims, error)
}

type tokenService struct {
	config *TokenServiceConfig
}

// NewTokenService creates a new TokenService
func NewTokenService(config *TokenServiceConfig) TokenService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = 15 * time.Minute
	}
	if config.RefreshTokenTTL == 0 {
		config.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &tokenService{config: config}
}

func (s *tokenService) GeneratePair(user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.sign(user, tokenTypeAccess, s.config.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.sign(user, tokenTypeRefresh, s.config.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenTTL.Seconds()),
	}, nil
}

// GenerateAccessToken mints an access token directly from claims. Used
// by the refresh flow, where the user row is not re-read; the role in
// the refresh token is carried forward as is.
func (s *tokenService) GenerateAccessToken(claims *domain.Claims) (string, int64, error) {
	tokenString, err := s.signClaims(claims.UserID, claims.Role, tokenTypeAccess, s.config.AccessTokenTTL)
	if err != nil {
		return "", 0, err
	}
	return tokenString, int64(s.config.AccessTokenTTL.Seconds()), nil
}

func (s *tokenService) sign(user *domain.User, tokenType string, ttl time.Duration) (string, error) {
	return s.signClaims(user.ID, user.Role, tokenType, ttl)
}

func (s *tokenService) signClaims(userID string, role domain.Role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     userID,
		"user_id": userID,
		"role":    string(role),
		"type":    tokenType,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	})

	return token.SignedString([]byte(s.config.Secret))
}

func (s *tokenService) VerifyAccessToken(tokenString string) (*domain.Claims, error) {
	return s.verify(tokenString, tokenTypeAccess)
}

func (s *tokenService) VerifyRefreshToken(tokenString string) (*domain.Claims, error) {
	return s.verify(tokenString, tokenTypeRefresh)
}

func (s *tokenService) verify(tokenString, wantType string) (*domain.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if tokenType, ok := claims["type"].(string); !ok || tokenType != wantType {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}

	roleString, ok := claims["role"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	role := domain.Role(roleString)
	if !role.Valid() {
		return nil, ErrInvalidToken
	}

	return &domain.Claims{
		UserID: userID,
		Role:   role,
	}, nil
}
