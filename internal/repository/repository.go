package repository

import (
	"franca/internal/domain"
)

// SettingsRepository defines per-user front-end settings operations.
// Only settings are persisted; review queues and counters live in memory.
type SettingsRepository interface {
	EnsureUser(userID int64) error
	IsAuthorized(userID int64) (bool, error)
	Authorize(userID int64) error
	Settings(userID int64) (*domain.UserSettings, error)
	SetToken(userID int64, token string) error
	SetDirection(userID int64, direction domain.Direction) error
}
