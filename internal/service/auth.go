package service

import (
	"context"
	"fmt"
	"strings"

	"franca/internal/apiclient"
	"franca/internal/domain"
	"franca/internal/repository"

	"go.uber.org/zap"
)

// AuthService handles the bot password gate and backend account linking
type AuthService struct {
	repo        repository.SettingsRepository
	api         *apiclient.Client
	botPassword string
	logger      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(repo repository.SettingsRepository, api *apiclient.Client, botPassword string, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:        repo,
		api:         api,
		botPassword: botPassword,
		logger:      logger,
	}
}

// CheckPassword verifies if provided password matches
func (s *AuthService) CheckPassword(password string) bool {
	return password == s.botPassword
}

// IsAuthorized checks if user passed the password gate
func (s *AuthService) IsAuthorized(userID int64) (bool, error) {
	return s.repo.IsAuthorized(userID)
}

// AuthorizeUser marks the user as authorized
func (s *AuthService) AuthorizeUser(userID int64) error {
	return s.repo.Authorize(userID)
}

// EnsureUserExists creates the settings row if it doesn't exist
func (s *AuthService) EnsureUserExists(userID int64) error {
	return s.repo.EnsureUser(userID)
}

// Settings returns the user's stored settings, or nil for unknown users
func (s *AuthService) Settings(userID int64) (*domain.UserSettings, error) {
	return s.repo.Settings(userID)
}

// LinkAccount logs into the backend with "email password" credentials and
// stores the issued token for the user.
func (s *AuthService) LinkAccount(ctx context.Context, userID int64, credentials string) error {
	fields := strings.Fields(credentials)
	if len(fields) != 2 {
		return fmt.Errorf("credentials must be email and password")
	}

	token, err := s.api.Login(ctx, fields[0], fields[1])
	if err != nil {
		return fmt.Errorf("link account: %w", err)
	}

	if err := s.repo.SetToken(userID, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	s.logger.Info("Account linked", zap.Int64("user_id", userID))
	return nil
}

// SetDirection stores the user's preferred drill direction
func (s *AuthService) SetDirection(userID int64, direction domain.Direction) error {
	return s.repo.SetDirection(userID, direction)
}
