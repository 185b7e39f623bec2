package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"voltgrid/internal/models"
	"voltgrid/internal/repository"
)

// ErrInvalidCredentials represents a login failure.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// UserRepository defines the storage contract used by the service.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service authenticates operator users and issues tokens.
type Service struct {
	repo      UserRepository
	hasher    Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewService builds the auth service.
func NewService(repo UserRepository, hasher Hasher, tokenizer *TokenService, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Login authenticates an operator and produces a JWT.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("operator logged in", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return token, user, nil
}
