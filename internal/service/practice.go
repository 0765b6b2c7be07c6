package service

import (
	"sync"

	"franca/internal/apiclient"
	"franca/internal/config"
	"franca/internal/domain"
	"franca/internal/practice"

	"go.uber.org/zap"
)

// PracticeService owns the live practice sessions, one per chat. A session
// belongs to its chat alone and is dropped on navigation away.
type PracticeService struct {
	api    *apiclient.Client
	cfg    config.PracticeConfig
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[int64]*practice.Session
}

// NewPracticeService creates a new practice service
func NewPracticeService(api *apiclient.Client, cfg config.PracticeConfig, logger *zap.Logger) *PracticeService {
	return &PracticeService{
		api:      api,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[int64]*practice.Session),
	}
}

// Session returns the user's running session, if any
func (s *PracticeService) Session(userID int64) (*practice.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Begin replaces any running session with a fresh one for the direction
func (s *PracticeService) Begin(userID int64, token string, direction domain.Direction) *practice.Session {
	sess := practice.NewSession(
		s.api.WithToken(token),
		direction,
		s.cfg.FetchLimit,
		s.cfg.FetchThreshold,
		s.logger,
	)

	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()

	s.logger.Info("Practice session started",
		zap.Int64("user_id", userID),
		zap.String("direction", string(direction)),
	)
	return sess
}

// Drop discards the user's session on navigation away
func (s *PracticeService) Drop(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
