package service

import (
	"errors"
	"fmt"

	"backend/internal/auth"
	"backend/internal/models"
	"backend/internal/repository"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var ( // Define custom errors
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDeactivated    = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
)

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

type AuthService interface {
	Signup(username, email, password string) (*models.User, string, error)
	Login(email, password string) (*models.User, string, error)
	CurrentUser(userID int64) (*models.User, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens *auth.TokenService
	logger *zap.Logger
}

func NewAuthService(repo repository.UserRepository, tokens *auth.TokenService, logger *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Signup creates a user and returns it along with a freshly issued token.
func (s *authService) Signup(username, email, password string) (*models.User, string, error) {
	existing, err := s.repo.GetUserByEmail(email)
	if err != nil {
		s.logger.Error("Failed to check existing user", zap.Error(err))
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "user",
		IsActive:     true,
	}

	if err := s.repo.CreateUser(user); err != nil {
		// Two signups can race past the existence check; the unique index wins.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, "", ErrEmailTaken
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User signed up", zap.Int64("user_id", user.ID))
	return user, token, nil
}

// Login verifies the credentials and returns the user plus a new token. An
// unknown email and a wrong password both yield ErrInvalidCredentials so the
// response never reveals whether the account exists.
func (s *authService) Login(email, password string) (*models.User, string, error) {
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		s.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, "", fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", ErrUserDeactivated
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(user.ID); err != nil {
		s.logger.Error("Failed to update last login", zap.Error(err))
		return nil, "", fmt.Errorf("failed to update last login: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return user, token, nil
}

// CurrentUser resolves the id carried by a validated token. Tokens are not
// revoked on user deletion, so the row may be gone by now.
func (s *authService) CurrentUser(userID int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		s.logger.Error("Failed to get user by id", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
