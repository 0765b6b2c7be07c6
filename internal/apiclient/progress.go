package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"franca/internal/domain"
)

// queueRecord is the backend's raw review-queue entry
type queueRecord struct {
	WordID       string   `json:"word_id"`
	Word         string   `json:"word"`
	Translations []string `json:"translations"`
	Difficulty   string   `json:"difficulty"`
	Scheduler    string   `json:"scheduler"`
	Stage        string   `json:"stage"`
}

// GetQueue fetches up to limit pending review items for the direction.
// The review endpoint for each item is resolved here, once per record.
func (u *UserClient) GetQueue(ctx context.Context, direction domain.Direction, limit int) ([]domain.QueueItem, error) {
	query := url.Values{}
	query.Set("direction", string(direction))
	query.Set("limit", strconv.Itoa(limit))

	var records []queueRecord
	if err := u.c.do(ctx, http.MethodGet, "/progress/queue", query, u.token, nil, &records); err != nil {
		return nil, err
	}

	items := make([]domain.QueueItem, 0, len(records))
	for _, r := range records {
		items = append(items, domain.QueueItem{
			WordID:      r.WordID,
			Word:        r.Word,
			Translation: strings.Join(r.Translations, ", "),
			Difficulty:  r.Difficulty,
			Stage:       domain.Stage(r.Stage),
			Target:      domain.TargetForScheduler(r.Scheduler),
		})
	}
	return items, nil
}

type ankiSummaryResponse struct {
	StageTotals struct {
		New      int `json:"new"`
		Learning int `json:"learning"`
	} `json:"stage_totals"`
	DueToday int `json:"due_today"`
}

// GetAnkiSummary fetches the aggregate stage counters snapshot
func (u *UserClient) GetAnkiSummary(ctx context.Context) (domain.SessionCounters, error) {
	var resp ankiSummaryResponse
	if err := u.c.do(ctx, http.MethodGet, "/progress/anki/summary", nil, u.token, nil, &resp); err != nil {
		return domain.SessionCounters{}, err
	}
	return domain.SessionCounters{
		New:      resp.StageTotals.New,
		Learning: resp.StageTotals.Learning,
		Due:      resp.DueToday,
	}, nil
}

type reviewResponse struct {
	State        string   `json:"state"`
	IntervalDays float64  `json:"interval_days"`
	DueDate      string   `json:"due_date"`
	EaseFactor   *float64 `json:"ease_factor"`
}

// SubmitReview posts one graded review to the endpoint selected by the
// item's review target.
func (u *UserClient) SubmitReview(ctx context.Context, target domain.ReviewTarget, sub domain.ReviewSubmission) (domain.ReviewFeedback, error) {
	path := "/progress/review"
	if target == domain.TargetAnki {
		path = "/progress/anki/review"
	}

	var resp reviewResponse
	if err := u.c.do(ctx, http.MethodPost, path, nil, u.token, sub, &resp); err != nil {
		return domain.ReviewFeedback{}, err
	}

	fb := domain.ReviewFeedback{
		Phase:        resp.State,
		IntervalDays: resp.IntervalDays,
		EaseFactor:   resp.EaseFactor,
	}
	if resp.DueDate != "" {
		// Due dates arrive as dates, not timestamps
		if due, err := time.Parse("2006-01-02", resp.DueDate); err == nil {
			fb.DueDate = due
		}
	}
	return fb, nil
}

type progressResponse struct {
	XP           int `json:"xp"`
	Level        int `json:"level"`
	StreakDays   int `json:"streak_days"`
	WordsLearned int `json:"words_learned"`
	ReviewsToday int `json:"reviews_today"`
}

// GetProgress fetches the learning progress dashboard summary
func (u *UserClient) GetProgress(ctx context.Context) (domain.ProgressSummary, error) {
	var resp progressResponse
	if err := u.c.do(ctx, http.MethodGet, "/progress/summary", nil, u.token, nil, &resp); err != nil {
		return domain.ProgressSummary{}, err
	}
	return domain.ProgressSummary{
		XP:           resp.XP,
		Level:        resp.Level,
		StreakDays:   resp.StreakDays,
		WordsLearned: resp.WordsLearned,
		ReviewsToday: resp.ReviewsToday,
	}, nil
}
