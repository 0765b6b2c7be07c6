package practice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"franca/internal/domain"

	"go.uber.org/zap"
)

// Backend is the slice of the API the controller drives. The scheduler
// itself lives server-side; the session only orchestrates fetch-ahead and
// submission around it.
type Backend interface {
	GetQueue(ctx context.Context, direction domain.Direction, limit int) ([]domain.QueueItem, error)
	GetAnkiSummary(ctx context.Context) (domain.SessionCounters, error)
	SubmitReview(ctx context.Context, target domain.ReviewTarget, sub domain.ReviewSubmission) (domain.ReviewFeedback, error)
}

// State is the session's lifecycle phase
type State int

const (
	StateLoading State = iota
	StateActive
	StateCompleted
)

// Outcome reports what a rating submission did to the session
type Outcome struct {
	Submitted bool
	Scored    bool
	Completed bool
	// PrefetchFailed marks a failed buffer top-up after the submission
	// went through; the rating itself is stored and the next advance
	// retries the fetch.
	PrefetchFailed bool
	Feedback       domain.ReviewFeedback
}

// Session is one user's in-memory practice run: an ordered review queue
// replenished ahead of the user's position, plus score, counters and the
// last scheduler feedback. A session is owned by a single chat and is
// discarded on navigation away or direction change.
type Session struct {
	backend   Backend
	logger    *zap.Logger
	limit     int
	threshold int

	mu        sync.Mutex
	direction domain.Direction
	queue     []domain.QueueItem
	held      map[string]struct{}
	index     int
	score     int
	revealed  bool
	completed bool
	loaded    bool
	fetching  bool
	shownAt   time.Time
	counters  domain.SessionCounters
	feedback  *domain.ReviewFeedback
	// epoch changes on every reset; fetches started under an older epoch
	// discard their result instead of touching the fresh queue
	epoch int
}

// NewSession creates an empty session for the given direction
func NewSession(backend Backend, direction domain.Direction, limit, threshold int, logger *zap.Logger) *Session {
	return &Session{
		backend:   backend,
		logger:    logger,
		limit:     limit,
		threshold: threshold,
		direction: direction,
		held:      make(map[string]struct{}),
	}
}

// Start fetches the counters snapshot and the first queue batch. A counters
// failure is non-fatal: the drill still works, only the header goes blank.
func (s *Session) Start(ctx context.Context) error {
	counters, err := s.backend.GetAnkiSummary(ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch session counters", zap.Error(err))
	} else {
		s.mu.Lock()
		s.counters = counters
		s.mu.Unlock()
	}

	_, err = s.LoadMore(ctx)
	return err
}

// LoadMore fetches the next batch and appends every record not already
// held, keeping fetch order. While a fetch is in flight the call is a
// no-op returning the current length. On failure the queue is unchanged
// and the error is returned for the caller to surface; the session stays
// usable and the next depth check retries naturally.
func (s *Session) LoadMore(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.fetching {
		n := len(s.queue)
		s.mu.Unlock()
		return n, nil
	}
	s.fetching = true
	direction := s.direction
	epoch := s.epoch
	s.mu.Unlock()

	items, err := s.backend.GetQueue(ctx, direction, s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		// The session was reset mid-fetch; this result belongs to a
		// discarded run.
		return len(s.queue), nil
	}
	s.fetching = false

	if err != nil {
		s.logger.Error("Failed to fetch review queue",
			zap.String("direction", string(direction)),
			zap.Error(err),
		)
		return len(s.queue), fmt.Errorf("load review queue: %w", err)
	}

	appended := 0
	for _, item := range items {
		if _, dup := s.held[item.WordID]; dup {
			continue
		}
		s.held[item.WordID] = struct{}{}
		s.queue = append(s.queue, item)
		appended++
	}

	if !s.loaded {
		s.loaded = true
		s.shownAt = time.Now()
	}

	s.logger.Debug("Review queue extended",
		zap.Int("fetched", len(items)),
		zap.Int("appended", appended),
		zap.Int("queue_len", len(s.queue)),
	)
	return len(s.queue), nil
}

// EnsureDepth tops the queue up when the remaining buffer past nextIndex
// has shrunk to the threshold. With enough buffer it does nothing.
func (s *Session) EnsureDepth(ctx context.Context, nextIndex int) (int, error) {
	s.mu.Lock()
	remaining := len(s.queue) - nextIndex
	s.mu.Unlock()

	if remaining > s.threshold {
		return s.Len(), nil
	}
	return s.LoadMore(ctx)
}

// Rate submits a grade for the current card. With no current card it is a
// no-op. On success the score grows for known ratings, the feedback is
// replaced, and the position advances or the session completes. On failure
// the card stays current so the user can retry the same rating.
func (s *Session) Rate(ctx context.Context, rating domain.Rating) (Outcome, error) {
	if !rating.Valid() {
		return Outcome{}, fmt.Errorf("rating out of scale: %d", rating)
	}

	s.mu.Lock()
	if s.index >= len(s.queue) {
		s.mu.Unlock()
		return Outcome{}, nil
	}
	item := s.queue[s.index]
	elapsed := time.Since(s.shownAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	epoch := s.epoch
	s.mu.Unlock()

	feedback, err := s.backend.SubmitReview(ctx, item.Target, domain.ReviewSubmission{
		WordID:         item.WordID,
		Rating:         rating,
		ResponseTimeMs: elapsed,
	})
	if err != nil {
		s.logger.Error("Failed to submit review",
			zap.String("word_id", item.WordID),
			zap.Int("rating", int(rating)),
			zap.Error(err),
		)
		return Outcome{}, fmt.Errorf("submit review: %w", err)
	}

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return Outcome{}, nil
	}

	out := Outcome{Submitted: true, Feedback: feedback}
	s.feedback = &feedback
	if rating.Known() {
		s.score++
		out.Scored = true
	}

	s.index++
	if s.index >= len(s.queue) {
		s.completed = true
		out.Completed = true
	} else {
		s.revealed = false
		s.shownAt = time.Now()
	}
	nextIndex := s.index
	s.mu.Unlock()

	if !out.Completed {
		// Prefetch failures are non-fatal here; the next advance retries.
		// The caller still gets to show a transient notice.
		if _, err := s.EnsureDepth(ctx, nextIndex); err != nil {
			s.logger.Warn("Prefetch after rating failed", zap.Error(err))
			out.PrefetchFailed = true
		}
	}
	return out, nil
}

// Reveal flips the current card to its answer side. It reports false when
// the card is already revealed or there is no current card.
func (s *Session) Reveal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revealed || s.index >= len(s.queue) {
		return false
	}
	s.revealed = true
	return true
}

// SetDirection discards the run and re-targets the drill. Queue, score,
// feedback, counters and completion all return to their initial values;
// the caller starts the new fetch sequence.
func (s *Session) SetDirection(direction domain.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.direction = direction
	s.reset()
}

func (s *Session) reset() {
	s.epoch++
	s.queue = nil
	s.held = make(map[string]struct{})
	s.index = 0
	s.score = 0
	s.revealed = false
	s.completed = false
	s.loaded = false
	s.fetching = false
	s.counters = domain.SessionCounters{}
	s.feedback = nil
}

// State derives the lifecycle phase from the queue position
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !s.loaded:
		return StateLoading
	case s.completed || s.index >= len(s.queue):
		return StateCompleted
	default:
		return StateActive
	}
}

// Current returns the card at the user's position
func (s *Session) Current() (domain.QueueItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.queue) {
		return domain.QueueItem{}, false
	}
	return s.queue[s.index], true
}

// Empty reports whether the backend had nothing to review at all
func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded && len(s.queue) == 0
}

// Direction returns the drill direction
func (s *Session) Direction() domain.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.direction
}

// Len returns the held queue length
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Index returns the user's position in the queue
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Score returns how many cards were rated as known this run
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Revealed reports whether the current card shows its answer side
func (s *Session) Revealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed
}

// Counters returns the snapshot taken when the session started
func (s *Session) Counters() domain.SessionCounters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters
}

// Feedback returns the scheduler's answer to the latest submission, or nil
func (s *Session) Feedback() *domain.ReviewFeedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback
}
