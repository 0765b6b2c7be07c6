package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"franca/internal/domain"
)

type storyRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Level        string `json:"level"`
	Summary      string `json:"summary"`
	ChapterCount int    `json:"chapter_count"`
}

// ListStories fetches the story catalogue
func (u *UserClient) ListStories(ctx context.Context) ([]domain.Story, error) {
	var records []storyRecord
	if err := u.c.do(ctx, http.MethodGet, "/stories", nil, u.token, nil, &records); err != nil {
		return nil, err
	}

	stories := make([]domain.Story, 0, len(records))
	for _, r := range records {
		stories = append(stories, domain.Story{
			ID:           r.ID,
			Title:        r.Title,
			Level:        r.Level,
			Summary:      r.Summary,
			ChapterCount: r.ChapterCount,
		})
	}
	return stories, nil
}

type chapterRecord struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// GetChapter fetches one chapter of a story
func (u *UserClient) GetChapter(ctx context.Context, storyID string, number int) (domain.Chapter, error) {
	path := fmt.Sprintf("/stories/%s/chapters/%d", storyID, number)

	var record chapterRecord
	if err := u.c.do(ctx, http.MethodGet, path, nil, u.token, nil, &record); err != nil {
		return domain.Chapter{}, err
	}
	return domain.Chapter{
		StoryID: storyID,
		Number:  record.Number,
		Title:   record.Title,
		Text:    record.Text,
	}, nil
}

type achievementRecord struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Unlocked    bool    `json:"unlocked"`
	UnlockedAt  *string `json:"unlocked_at"`
}

// ListAchievements fetches the user's achievements with unlock state
func (u *UserClient) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	var records []achievementRecord
	if err := u.c.do(ctx, http.MethodGet, "/achievements", nil, u.token, nil, &records); err != nil {
		return nil, err
	}

	achievements := make([]domain.Achievement, 0, len(records))
	for _, r := range records {
		a := domain.Achievement{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Unlocked:    r.Unlocked,
		}
		if r.UnlockedAt != nil {
			if at, err := time.Parse(time.RFC3339, *r.UnlockedAt); err == nil {
				a.UnlockedAt = &at
			}
		}
		achievements = append(achievements, a)
	}
	return achievements, nil
}
