package practice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"franca/internal/domain"
	"franca/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSession(backend Backend, limit, threshold int) *Session {
	return NewSession(backend, domain.FrenchToGerman, limit, threshold, testutil.NewTestLogger())
}

func TestSession_LoadMore_AppendsInFetchOrder(t *testing.T) {
	backend := new(testutil.MockBackend)
	items := testutil.NewTestItems(0, 3)
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).Return(items, nil).Once()

	s := newTestSession(backend, 10, 2)

	n, err := s.LoadMore(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, items[0], current)
	backend.AssertExpectations(t)
}

func TestSession_LoadMore_DeduplicatesAcrossBatches(t *testing.T) {
	backend := new(testutil.MockBackend)
	first := testutil.NewTestItems(0, 3)
	// second batch overlaps the first on two ids
	second := append(testutil.NewTestItems(2, 2), testutil.NewTestItems(4, 1)...)
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).Return(first, nil).Once()
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).Return(second, nil).Once()

	s := newTestSession(backend, 10, 2)

	n, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = s.LoadMore(context.Background())
	require.NoError(t, err)

	// 3 held + 1 genuinely new from the overlapping batch of 3
	assert.Equal(t, 4, n)
	backend.AssertExpectations(t)
}

func TestSession_LoadMore_FailureLeavesQueueUnchanged(t *testing.T) {
	backend := new(testutil.MockBackend)
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(0, 3), nil).Once()
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(nil, fmt.Errorf("connection refused")).Once()
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(3, 2), nil).Once()

	s := newTestSession(backend, 10, 2)

	_, err := s.LoadMore(context.Background())
	require.NoError(t, err)

	n, err := s.LoadMore(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 3, n)

	// the failure is retryable by the next depth check
	n, err = s.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	backend.AssertExpectations(t)
}

func TestSession_LoadMore_ConcurrentCallIsNoOp(t *testing.T) {
	backend := new(testutil.MockBackend)
	enter := make(chan struct{})
	release := make(chan struct{})
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Run(func(mock.Arguments) {
			close(enter)
			<-release
		}).
		Return(testutil.NewTestItems(0, 3), nil).Once()

	s := newTestSession(backend, 10, 2)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.LoadMore(context.Background())
	}()

	<-enter

	// second call while the fetch is outstanding must not double-fetch
	n, err := s.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, n)

	close(release)
	wg.Wait()

	assert.Equal(t, 3, s.Len())
	backend.AssertNumberOfCalls(t, "GetQueue", 1)
}

func TestSession_EnsureDepth_ThresholdPolicy(t *testing.T) {
	backend := new(testutil.MockBackend)
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(0, 5), nil).Once()

	s := newTestSession(backend, 10, 2)
	_, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, s.Len())

	// remaining = 5-2 = 3 > threshold, no fetch
	n, err := s.EnsureDepth(context.Background(), 2)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	backend.AssertNumberOfCalls(t, "GetQueue", 1)

	// remaining = 5-3 = 2 == threshold, exactly one fetch
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(5, 3), nil).Once()

	n, err = s.EnsureDepth(context.Background(), 3)
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
	backend.AssertNumberOfCalls(t, "GetQueue", 2)
}

func TestSession_Rate_NoCurrentCardIsNoOp(t *testing.T) {
	backend := new(testutil.MockBackend)
	s := newTestSession(backend, 10, 2)

	out, err := s.Rate(context.Background(), domain.RatingGood)

	assert.NoError(t, err)
	assert.False(t, out.Submitted)
	backend.AssertNotCalled(t, "SubmitReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestSession_Rate_InvalidRating(t *testing.T) {
	s := newTestSession(new(testutil.MockBackend), 10, 2)

	_, err := s.Rate(context.Background(), domain.Rating(7))
	assert.Error(t, err)
}

func TestSession_Rate_ScoreCountsKnownRatingsOnly(t *testing.T) {
	tests := []struct {
		name          string
		rating        domain.Rating
		expectedScore int
	}{
		{"again leaves score unchanged", domain.RatingAgain, 0},
		{"hard leaves score unchanged", domain.RatingHard, 0},
		{"good increments score", domain.RatingGood, 1},
		{"easy increments score", domain.RatingEasy, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := new(testutil.MockBackend)
			backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
				Return(testutil.NewTestItems(0, 1), nil).Once()
			backend.On("SubmitReview", mock.Anything, domain.TargetAnki, mock.Anything).
				Return(testutil.NewTestFeedback("review", 3), nil).Once()

			s := newTestSession(backend, 10, 0)
			_, err := s.LoadMore(context.Background())
			require.NoError(t, err)

			out, err := s.Rate(context.Background(), tt.rating)

			require.NoError(t, err)
			assert.True(t, out.Submitted)
			assert.Equal(t, tt.expectedScore, s.Score())
			backend.AssertExpectations(t)
		})
	}
}

func TestSession_Rate_SuccessAdvancesAndResetsReveal(t *testing.T) {
	backend := new(testutil.MockBackend)
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(0, 3), nil).Once()
	backend.On("SubmitReview", mock.Anything, domain.TargetAnki, mock.Anything).
		Return(testutil.NewTestFeedback("learning", 1), nil).Once()

	s := newTestSession(backend, 10, 0)
	_, err := s.LoadMore(context.Background())
	require.NoError(t, err)

	require.True(t, s.Reveal())
	require.True(t, s.Revealed())

	out, err := s.Rate(context.Background(), domain.RatingGood)

	require.NoError(t, err)
	assert.False(t, out.Completed)
	assert.Equal(t, 1, s.Index())
	// a new card always starts hidden
	assert.False(t, s.Revealed())
	require.NotNil(t, s.Feedback())
	assert.Equal(t, "learning", s.Feedback().Phase)
}

func TestSession_Rate_FailureKeepsCardCurrent(t *testing.T) {
	backend := new(testutil.MockBackend)
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(0, 2), nil).Once()
	backend.On("SubmitReview", mock.Anything, domain.TargetAnki, mock.Anything).
		Return(domain.ReviewFeedback{}, fmt.Errorf("backend down")).Once()
	backend.On("SubmitReview", mock.Anything, domain.TargetAnki, mock.Anything).
		Return(testutil.NewTestFeedback("review", 2), nil).Once()

	s := newTestSession(backend, 10, 0)
	_, err := s.LoadMore(context.Background())
	require.NoError(t, err)

	before, ok := s.Current()
	require.True(t, ok)

	_, err = s.Rate(context.Background(), domain.RatingEasy)
	assert.Error(t, err)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 0, s.Score())
	assert.Nil(t, s.Feedback())

	after, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, before, after)

	// the user retries the same rating
	out, err := s.Rate(context.Background(), domain.RatingEasy)
	require.NoError(t, err)
	assert.True(t, out.Submitted)
	assert.Equal(t, 1, s.Index())
	backend.AssertExpectations(t)
}

func TestSession_Rate_LastCardCompletesSession(t *testing.T) {
	backend := new(testutil.MockBackend)
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(0, 1), nil).Once()
	backend.On("SubmitReview", mock.Anything, domain.TargetAnki, mock.Anything).
		Return(testutil.NewTestFeedback("review", 4), nil).Once()

	s := newTestSession(backend, 10, 0)
	_, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateActive, s.State())

	out, err := s.Rate(context.Background(), domain.RatingGood)

	require.NoError(t, err)
	assert.True(t, out.Completed)
	assert.Equal(t, StateCompleted, s.State())

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSession_Rate_PrefetchesWhenBufferShrinks(t *testing.T) {
	backend := new(testutil.MockBackend)
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(0, 5), nil).Once()
	backend.On("SubmitReview", mock.Anything, domain.TargetAnki, mock.Anything).
		Return(testutil.NewTestFeedback("review", 1), nil).Times(3)

	s := newTestSession(backend, 10, 2)
	_, err := s.LoadMore(context.Background())
	require.NoError(t, err)

	// index 0 -> 1: remaining 4, no fetch; 1 -> 2: remaining 3, no fetch
	for i := 0; i < 2; i++ {
		_, err = s.Rate(context.Background(), domain.RatingGood)
		require.NoError(t, err)
	}
	backend.AssertNumberOfCalls(t, "GetQueue", 1)

	// index 2 -> 3: remaining 2 hits the threshold, one fetch
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(5, 5), nil).Once()

	_, err = s.Rate(context.Background(), domain.RatingGood)
	require.NoError(t, err)
	backend.AssertNumberOfCalls(t, "GetQueue", 2)
}

func TestSession_Rate_ReportsFailedPrefetch(t *testing.T) {
	backend := new(testutil.MockBackend)
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(0, 3), nil).Once()
	backend.On("SubmitReview", mock.Anything, domain.TargetAnki, mock.Anything).
		Return(testutil.NewTestFeedback("review", 1), nil).Times(2)

	s := newTestSession(backend, 10, 2)
	_, err := s.LoadMore(context.Background())
	require.NoError(t, err)

	// index 0 -> 1: remaining 2 hits the threshold and the top-up fails
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(nil, errors.New("backend down")).Once()

	out, err := s.Rate(context.Background(), domain.RatingGood)

	require.NoError(t, err)
	assert.True(t, out.Submitted)
	assert.True(t, out.PrefetchFailed)

	// the rating stuck regardless and the next advance retries the fetch
	assert.Equal(t, 1, s.Index())
	_, ok := s.Current()
	require.True(t, ok)

	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(3, 3), nil).Once()

	out, err = s.Rate(context.Background(), domain.RatingGood)

	require.NoError(t, err)
	assert.False(t, out.PrefetchFailed)
	assert.Equal(t, 6, s.Len())
}

func TestSession_Rate_DispatchesOnReviewTarget(t *testing.T) {
	item := testutil.NewTestItem("w1", "mot", "Wort")
	item.Target = domain.TargetGeneric

	backend := new(testutil.MockBackend)
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return([]domain.QueueItem{item}, nil).Once()
	backend.On("SubmitReview", mock.Anything, domain.TargetGeneric, mock.MatchedBy(func(sub domain.ReviewSubmission) bool {
		return sub.WordID == "w1" && sub.ResponseTimeMs >= 0
	})).Return(testutil.NewTestFeedback("review", 2), nil).Once()

	s := newTestSession(backend, 10, 0)
	_, err := s.LoadMore(context.Background())
	require.NoError(t, err)

	_, err = s.Rate(context.Background(), domain.RatingHard)
	require.NoError(t, err)
	backend.AssertExpectations(t)
}

func TestSession_SetDirection_ResetsRun(t *testing.T) {
	backend := new(testutil.MockBackend)
	backend.On("GetAnkiSummary", mock.Anything).
		Return(domain.SessionCounters{New: 2, Learning: 3, Due: 4}, nil).Once()
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(0, 3), nil).Once()
	backend.On("SubmitReview", mock.Anything, domain.TargetAnki, mock.Anything).
		Return(testutil.NewTestFeedback("review", 1), nil).Once()

	s := newTestSession(backend, 10, 0)
	require.NoError(t, s.Start(context.Background()))

	_, err := s.Rate(context.Background(), domain.RatingGood)
	require.NoError(t, err)
	require.Equal(t, 1, s.Score())

	s.SetDirection(domain.GermanToFrench)

	// everything back to initial values before any new fetch resolves
	assert.Equal(t, domain.GermanToFrench, s.Direction())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.Index())
	assert.Nil(t, s.Feedback())
	assert.Equal(t, domain.SessionCounters{}, s.Counters())
	assert.Equal(t, StateLoading, s.State())
}

func TestSession_SetDirection_DiscardsInFlightFetch(t *testing.T) {
	backend := new(testutil.MockBackend)
	enter := make(chan struct{})
	release := make(chan struct{})
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Run(func(mock.Arguments) {
			close(enter)
			<-release
		}).
		Return(testutil.NewTestItems(0, 5), nil).Once()

	s := newTestSession(backend, 10, 2)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.LoadMore(context.Background())
	}()

	<-enter
	s.SetDirection(domain.GermanToFrench)
	close(release)
	wg.Wait()

	// the stale batch belongs to the old direction and is dropped
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, StateLoading, s.State())
}

func TestSession_Start(t *testing.T) {
	t.Run("stores counters snapshot", func(t *testing.T) {
		backend := new(testutil.MockBackend)
		backend.On("GetAnkiSummary", mock.Anything).
			Return(domain.SessionCounters{New: 1, Learning: 2, Due: 3}, nil).Once()
		backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
			Return(testutil.NewTestItems(0, 2), nil).Once()

		s := newTestSession(backend, 10, 2)

		require.NoError(t, s.Start(context.Background()))
		assert.Equal(t, domain.SessionCounters{New: 1, Learning: 2, Due: 3}, s.Counters())
		assert.Equal(t, StateActive, s.State())
	})

	t.Run("counters failure is non-fatal", func(t *testing.T) {
		backend := new(testutil.MockBackend)
		backend.On("GetAnkiSummary", mock.Anything).
			Return(domain.SessionCounters{}, fmt.Errorf("summary unavailable")).Once()
		backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
			Return(testutil.NewTestItems(0, 2), nil).Once()

		s := newTestSession(backend, 10, 2)

		require.NoError(t, s.Start(context.Background()))
		assert.Equal(t, StateActive, s.State())
	})
}

func TestSession_EmptyQueueIsAllCaughtUp(t *testing.T) {
	backend := new(testutil.MockBackend)
	backend.On("GetAnkiSummary", mock.Anything).
		Return(domain.SessionCounters{}, nil).Once()
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return([]domain.QueueItem{}, nil).Once()

	s := newTestSession(backend, 10, 2)

	// nothing due is not an error
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Empty())
	assert.Equal(t, StateCompleted, s.State())
}

func TestSession_Reveal(t *testing.T) {
	backend := new(testutil.MockBackend)
	backend.On("GetQueue", mock.Anything, domain.FrenchToGerman, 10).
		Return(testutil.NewTestItems(0, 1), nil).Once()

	s := newTestSession(backend, 10, 2)

	// no current card yet
	assert.False(t, s.Reveal())

	_, err := s.LoadMore(context.Background())
	require.NoError(t, err)

	assert.True(t, s.Reveal())
	// reveal is one-way per card
	assert.False(t, s.Reveal())
}
