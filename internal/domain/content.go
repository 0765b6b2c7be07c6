package domain

import "time"

// Story is one browsable story from the backend catalogue
type Story struct {
	ID           string
	Title        string
	Level        string
	Summary      string
	ChapterCount int
}

// Chapter is one narrated chapter of a story
type Chapter struct {
	StoryID string
	Number  int
	Title   string
	Text    string
}

// ProgressSummary is the backend's aggregate learning progress view
type ProgressSummary struct {
	XP           int
	Level        int
	StreakDays   int
	WordsLearned int
	ReviewsToday int
}

// Achievement is one unlockable badge
type Achievement struct {
	ID          string
	Title       string
	Description string
	Unlocked    bool
	UnlockedAt  *time.Time
}
