package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/aircha/todo-web/internal/core/domain"
	"github.com/aircha/todo-web/internal/core/ports"
)

// AuthService implements signup and credential verification.
type AuthService struct {
	repo      ports.UserRepository
	cost      int
	dummyHash []byte
	logger    zerolog.Logger
}

// NewAuthService returns an AuthService hashing with the given bcrypt cost.
// Costs outside bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewAuthService(repo ports.UserRepository, cost int, logger zerolog.Logger) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// Compared against when the email is unknown so both failure paths pay for a hash.
	dummy, err := bcrypt.GenerateFromPassword([]byte("invalid-credentials-placeholder"), cost)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to prepare dummy hash")
	}
	return &AuthService{repo: repo, cost: cost, dummyHash: dummy, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, email, password, nickname string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	nickname = strings.TrimSpace(nickname)
	switch {
	case email == "":
		return nil, domain.NewValidationError("email", "Email is required")
	case strings.TrimSpace(password) == "":
		return nil, domain.NewValidationError("password", "Password is required")
	case nickname == "":
		return nil, domain.NewValidationError("nickname", "Nickname is required")
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateEmail
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Nickname:     nickname,
		CreatedAt:    time.Now().UTC(),
	}

	// The store's unique index still guards the window between lookup and insert.
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Authenticate returns domain.ErrInvalidCredentials for an unknown email and
// for a wrong password alike.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if s.dummyHash != nil {
				_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			}
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
