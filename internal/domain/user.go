package domain

import "time"

// UserSettings is the per-user front-end state persisted between chats:
// bot authorization, the linked backend token and the preferred drill
// direction. Queue contents and counters are never persisted.
type UserSettings struct {
	UserID     int64
	Authorized bool
	APIToken   string
	Direction  Direction
	CreatedAt  time.Time
}

// Linked reports whether the user has a backend account token
func (s *UserSettings) Linked() bool {
	return s.APIToken != ""
}

// UserState represents user's current interaction state
type UserState string

const (
	StateIdle               UserState = "idle"
	StateWaitingCredentials UserState = "waiting_credentials"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State UserState
}
