package testutil

import (
	"fmt"
	"time"

	"franca/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestItem creates a queue item for tests
func NewTestItem(wordID, word, translation string) domain.QueueItem {
	return domain.QueueItem{
		WordID:      wordID,
		Word:        word,
		Translation: translation,
		Difficulty:  "a1",
		Stage:       domain.StageDue,
		Target:      domain.TargetAnki,
	}
}

// NewTestItems creates n queue items with sequential ids starting at from
func NewTestItems(from, n int) []domain.QueueItem {
	items := make([]domain.QueueItem, 0, n)
	for i := from; i < from+n; i++ {
		items = append(items, domain.QueueItem{
			WordID:      fmt.Sprintf("w%03d", i),
			Word:        fmt.Sprintf("mot-%d", i),
			Translation: fmt.Sprintf("Wort-%d", i),
			Stage:       domain.StageDue,
			Target:      domain.TargetAnki,
		})
	}
	return items
}

// NewTestSettings creates user settings for tests
func NewTestSettings(userID int64, authorized bool, token string) *domain.UserSettings {
	return &domain.UserSettings{
		UserID:     userID,
		Authorized: authorized,
		APIToken:   token,
		Direction:  domain.FrenchToGerman,
		CreatedAt:  time.Now(),
	}
}

// NewTestFeedback creates scheduler feedback for tests
func NewTestFeedback(phase string, intervalDays float64) domain.ReviewFeedback {
	return domain.ReviewFeedback{
		Phase:        phase,
		IntervalDays: intervalDays,
		DueDate:      time.Now().AddDate(0, 0, int(intervalDays)),
	}
}
