package domain

import (
	"fmt"
	"time"
)

// Direction selects which translation direction is being drilled
type Direction string

const (
	FrenchToGerman Direction = "fr_to_de"
	GermanToFrench Direction = "de_to_fr"
)

// ParseDirection validates a raw direction value
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case FrenchToGerman, GermanToFrench:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown direction: %q", s)
}

// Opposite returns the reversed drill direction
func (d Direction) Opposite() Direction {
	if d == FrenchToGerman {
		return GermanToFrench
	}
	return FrenchToGerman
}

// Rating is the user's grade for one card, 0 to 3
type Rating int

const (
	RatingAgain Rating = iota // didn't know
	RatingHard
	RatingGood
	RatingEasy
)

// Valid reports whether the rating is on the 0-3 scale
func (r Rating) Valid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// Known reports whether the rating counts towards the session score
func (r Rating) Known() bool {
	return r >= RatingGood
}

// Stage is the scheduler stage label of a queue item
type Stage string

const (
	StageNew      Stage = "new"
	StageLearning Stage = "learning"
	StageDue      Stage = "due"
)

// ReviewTarget names the backend endpoint family a review is submitted to.
// It is resolved once per item when a queue batch is mapped, so rating a
// card never re-inspects the raw scheduler string.
type ReviewTarget int

const (
	TargetGeneric ReviewTarget = iota
	TargetAnki
)

// TargetForScheduler maps a raw scheduler label onto its review endpoint
func TargetForScheduler(scheduler string) ReviewTarget {
	if scheduler == "anki" {
		return TargetAnki
	}
	return TargetGeneric
}

// QueueItem is one vocabulary card pending review, held in memory for the
// duration of a single practice session
type QueueItem struct {
	WordID      string
	Word        string
	Translation string
	Difficulty  string
	Stage       Stage
	Target      ReviewTarget
}

// ReviewSubmission is the payload of one graded review
type ReviewSubmission struct {
	WordID         string `json:"word_id"`
	Rating         Rating `json:"rating"`
	ResponseTimeMs int64  `json:"response_time_ms"`
}

// ReviewFeedback is the scheduler's answer to a submission. Each submission
// replaces the previous feedback, nothing is accumulated.
type ReviewFeedback struct {
	Phase        string
	IntervalDays float64
	DueDate      time.Time
	EaseFactor   *float64
}

// SessionCounters is the aggregate snapshot fetched once per direction
// change. Local rating events do not update it.
type SessionCounters struct {
	New      int
	Learning int
	Due      int
}
