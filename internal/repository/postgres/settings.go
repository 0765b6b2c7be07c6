package postgres

import (
	"database/sql"

	"franca/internal/domain"
)

// SettingsRepo implements repository.SettingsRepository
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo creates a new settings repository
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// EnsureUser creates the user's settings row if not exists
func (r *SettingsRepo) EnsureUser(userID int64) error {
	query := `
		INSERT INTO users (user_id, authorized)
		VALUES ($1, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(query, userID)
	return err
}

// IsAuthorized checks if user passed the bot password gate
func (r *SettingsRepo) IsAuthorized(userID int64) (bool, error) {
	var authorized bool
	query := `SELECT authorized FROM users WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&authorized)

	if err == sql.ErrNoRows {
		// User doesn't exist yet
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return authorized, nil
}

// Authorize marks user as authorized
func (r *SettingsRepo) Authorize(userID int64) error {
	query := `
		INSERT INTO users (user_id, authorized)
		VALUES ($1, TRUE)
		ON CONFLICT (user_id)
		DO UPDATE SET authorized = TRUE
	`
	_, err := r.db.Exec(query, userID)
	return err
}

// Settings returns the user's settings, or nil when the user is unknown
func (r *SettingsRepo) Settings(userID int64) (*domain.UserSettings, error) {
	var s domain.UserSettings
	var direction string
	query := `
		SELECT user_id, authorized, api_token, direction, created_at
		FROM users
		WHERE user_id = $1
	`
	err := r.db.QueryRow(query, userID).Scan(
		&s.UserID, &s.Authorized, &s.APIToken, &direction, &s.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.Direction = domain.Direction(direction)
	return &s, nil
}

// SetToken stores the user's backend access token
func (r *SettingsRepo) SetToken(userID int64, token string) error {
	query := `
		UPDATE users
		SET api_token = $2
		WHERE user_id = $1
	`
	_, err := r.db.Exec(query, userID, token)
	return err
}

// SetDirection stores the user's preferred drill direction
func (r *SettingsRepo) SetDirection(userID int64, direction domain.Direction) error {
	query := `
		UPDATE users
		SET direction = $2
		WHERE user_id = $1
	`
	_, err := r.db.Exec(query, userID, string(direction))
	return err
}
