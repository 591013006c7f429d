package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Amit91848/Leetwars/internal/model"
	"github.com/Amit91848/Leetwars/internal/repository"
)

// AuthService issues and validates session tokens. Login is
// username-only: a new username registers, a known one signs in.
type AuthService struct {
	store     repository.Store
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(store repository.Store, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Login resolves or creates the user and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, username string) (*model.LoginResponse, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", ErrInvalidCredentials)
	}

	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		now := s.now()
		user = &model.User{
			ID:        uuid.New().String(),
			Username:  username,
			Provider:  "guest",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.Users().Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		log.Info().Str("userId", user.ID).Str("username", username).Msg("registered new user")
	}

	claims := &model.UserClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &model.LoginResponse{Token: signed, User: user}, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
