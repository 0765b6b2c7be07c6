package service

import (
	"context"
	"errors"

	"franca/internal/apiclient"
	"franca/internal/domain"
)

// ErrStoryNotFound marks a story ID missing from the backend catalogue
var ErrStoryNotFound = errors.New("story not found")

// ContentService serves the story, progress and achievement screens
type ContentService struct {
	api *apiclient.Client
}

// NewContentService creates a new content service
func NewContentService(api *apiclient.Client) *ContentService {
	return &ContentService{api: api}
}

// storiesPageSize keeps story keyboards within one screen
const storiesPageSize = 6

// Stories returns one page of the story catalogue plus the page count
func (s *ContentService) Stories(ctx context.Context, token string, page int) ([]domain.Story, int, error) {
	stories, err := s.api.WithToken(token).ListStories(ctx)
	if err != nil {
		return nil, 0, err
	}

	totalPages := (len(stories) + storiesPageSize - 1) / storiesPageSize
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	start := (page - 1) * storiesPageSize
	if start >= len(stories) {
		return nil, totalPages, nil
	}
	end := start + storiesPageSize
	if end > len(stories) {
		end = len(stories)
	}

	return stories[start:end], totalPages, nil
}

// Story resolves one story by ID across the whole catalogue, regardless
// of which page it is rendered on
func (s *ContentService) Story(ctx context.Context, token, storyID string) (domain.Story, error) {
	stories, err := s.api.WithToken(token).ListStories(ctx)
	if err != nil {
		return domain.Story{}, err
	}
	for _, story := range stories {
		if story.ID == storyID {
			return story, nil
		}
	}
	return domain.Story{}, ErrStoryNotFound
}

// Chapter returns one chapter of a story
func (s *ContentService) Chapter(ctx context.Context, token, storyID string, number int) (domain.Chapter, error) {
	return s.api.WithToken(token).GetChapter(ctx, storyID, number)
}

// Progress returns the dashboard summary
func (s *ContentService) Progress(ctx context.Context, token string) (domain.ProgressSummary, error) {
	return s.api.WithToken(token).GetProgress(ctx)
}

// Achievements returns the user's achievements
func (s *ContentService) Achievements(ctx context.Context, token string) ([]domain.Achievement, error) {
	return s.api.WithToken(token).ListAchievements(ctx)
}
