package testutil

import (
	"context"

	"franca/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock for practice.Backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) GetQueue(ctx context.Context, direction domain.Direction, limit int) ([]domain.QueueItem, error) {
	args := m.Called(ctx, direction, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QueueItem), args.Error(1)
}

func (m *MockBackend) GetAnkiSummary(ctx context.Context) (domain.SessionCounters, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SessionCounters), args.Error(1)
}

func (m *MockBackend) SubmitReview(ctx context.Context, target domain.ReviewTarget, sub domain.ReviewSubmission) (domain.ReviewFeedback, error) {
	args := m.Called(ctx, target, sub)
	return args.Get(0).(domain.ReviewFeedback), args.Error(1)
}

// MockSettingsRepository is a mock for repository.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) EnsureUser(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockSettingsRepository) IsAuthorized(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettingsRepository) Authorize(userID int64) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockSettingsRepository) Settings(userID int64) (*domain.UserSettings, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserSettings), args.Error(1)
}

func (m *MockSettingsRepository) SetToken(userID int64, token string) error {
	args := m.Called(userID, token)
	return args.Error(0)
}

func (m *MockSettingsRepository) SetDirection(userID int64, direction domain.Direction) error {
	args := m.Called(userID, direction)
	return args.Error(0)
}
