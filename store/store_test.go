// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ldr-counter/models"
	"github.com/danielhkuo/ldr-counter/testutil"
)

// --- Counter ---

func TestCounter_FreshIncrementThenRead(t *testing.T) {
	counters := NewCounterStore(testutil.SetupTestDB(t))
	ctx := context.Background()

	got, err := counters.Increment(ctx, models.CounterID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	read, err := counters.Read(ctx, models.CounterID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), read)
}

// SQLite runs with one open connection, so there the concurrent tests check
// that serialized callers see consecutive values. The Postgres variants run the
// same statements against a connection pool and exercise the upsert itself.
func TestCounter_ConcurrentIncrements(t *testing.T) {
	checkConcurrentIncrements(t, testutil.SetupTestDB(t))
}

func TestCounter_ConcurrentIncrements_Postgres(t *testing.T) {
	checkConcurrentIncrements(t, testutil.SetupPostgresDB(t))
}

func checkConcurrentIncrements(t *testing.T, conn *sql.DB) {
	t.Helper()
	counters := NewCounterStore(conn)
	ctx := context.Background()

	// Start from a non-zero value
	for i := 0; i < 5; i++ {
		_, err := counters.Increment(ctx, models.CounterID)
		require.NoError(t, err)
	}
	const start, n = 5, 40

	results := make([]int64, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = counters.Increment(ctx, models.CounterID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	for i, v := range results {
		assert.Equal(t, int64(start+i+1), v, "returned values must be consecutive with no duplicates")
	}

	final, err := counters.Read(ctx, models.CounterID)
	require.NoError(t, err)
	assert.Equal(t, int64(start+n), final)
}

func TestCounter_InitIsIdempotent(t *testing.T) {
	counters := NewCounterStore(testutil.SetupTestDB(t))
	ctx := context.Background()

	require.NoError(t, counters.Init(ctx, models.CounterID))
	for i := 0; i < 3; i++ {
		_, err := counters.Increment(ctx, models.CounterID)
		require.NoError(t, err)
	}

	require.NoError(t, counters.Init(ctx, models.CounterID))
	require.NoError(t, counters.Init(ctx, models.CounterID))

	got, err := counters.Read(ctx, models.CounterID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got, "Init must not reset an existing counter")
}

func TestCounter_UnknownCounter(t *testing.T) {
	counters := NewCounterStore(testutil.SetupTestDB(t))
	ctx := context.Background()

	got, err := counters.Read(ctx, "other-counter")
	require.NoError(t, err)
	assert.Zero(t, got)

	// Increment creates it
	got, err = counters.Increment(ctx, "other-counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestCounter_ClosedDatabase(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	counters := NewCounterStore(conn)
	conn.Close()

	_, err := counters.Increment(context.Background(), models.CounterID)
	assert.ErrorIs(t, err, ErrUnavailable)
}

// --- Ledger ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

const day = 24 * time.Hour

func TestLedger_SequentialDedup(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	ledger := NewLedger(testutil.SetupTestDB(t)).WithClock(clock.Now)
	ctx := context.Background()

	first, err := ledger.CheckAndReserve(ctx, "id-a", day)
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	clock.Set(clock.Now().Add(time.Hour))
	second, err := ledger.CheckAndReserve(ctx, "id-a", day)
	require.NoError(t, err)
	assert.False(t, second.Allowed)
	assert.Equal(t, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC), second.RetryNotBefore)

	// Other identities are independent
	other, err := ledger.CheckAndReserve(ctx, "id-b", day)
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestLedger_ConcurrentDedup(t *testing.T) {
	checkConcurrentDedup(t, testutil.SetupTestDB(t))
}

func TestLedger_ConcurrentDedup_Postgres(t *testing.T) {
	checkConcurrentDedup(t, testutil.SetupPostgresDB(t))
}

func checkConcurrentDedup(t *testing.T, conn *sql.DB) {
	t.Helper()
	ledger := NewLedger(conn)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	results := make(chan Reservation, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := ledger.CheckAndReserve(ctx, "contested", day)
			if err != nil {
				t.Errorf("CheckAndReserve: %v", err)
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	allowed := 0
	for res := range results {
		if res.Allowed {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed, "exactly one concurrent reservation may succeed")
}

func TestLedger_CooldownBoundary(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	testCases := []struct {
		name    string
		offset  time.Duration
		allowed bool
	}{
		{"just before window ends", day - time.Millisecond, false},
		{"just after window ends", day + time.Millisecond, true},
		{"long after", 3 * day, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clock := &fakeClock{now: start}
			ledger := NewLedger(testutil.SetupTestDB(t)).WithClock(clock.Now)
			ctx := context.Background()

			res, err := ledger.CheckAndReserve(ctx, "1.2.3.4", day)
			require.NoError(t, err)
			require.True(t, res.Allowed)

			clock.Set(start.Add(tc.offset))
			res, err = ledger.CheckAndReserve(ctx, "1.2.3.4", day)
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, res.Allowed)
		})
	}
}

func TestLedger_DenialDoesNotExtendWindow(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	ledger := NewLedger(testutil.SetupTestDB(t)).WithClock(clock.Now)
	ctx := context.Background()

	_, err := ledger.CheckAndReserve(ctx, "id", day)
	require.NoError(t, err)

	clock.Set(start.Add(23 * time.Hour))
	res, err := ledger.CheckAndReserve(ctx, "id", day)
	require.NoError(t, err)
	require.False(t, res.Allowed)

	clock.Set(start.Add(day + time.Second))
	res, err = ledger.CheckAndReserve(ctx, "id", day)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "a denied attempt must not refresh the timestamp")
}

// --- Stories ---

func TestStories_AppendAndList(t *testing.T) {
	stories := NewStoryStore(testutil.SetupTestDB(t))
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	id, err := stories.Append(ctx, models.Story{Prompt: models.PromptMeaning, Answer: "everything", SubmittedAt: at})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	list, err := stories.ListApproved(ctx, models.StoryFeedLimit)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, models.PromptMeaning, list[0].Prompt)
	assert.Equal(t, "everything", list[0].Answer)
	assert.True(t, list[0].Approved, "stories are approved on creation")
	assert.True(t, at.Equal(list[0].SubmittedAt))
}

func TestStories_CapAndOrder(t *testing.T) {
	stories := NewStoryStore(testutil.SetupTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of order
	order := []int{3, 9, 0, 7, 1, 5, 8, 2, 6, 4}
	for _, minute := range order {
		_, err := stories.Append(ctx, models.Story{
			Prompt:      models.PromptAdvice,
			Answer:      fmt.Sprintf("answer %d", minute),
			SubmittedAt: base.Add(time.Duration(minute) * time.Minute),
		})
		require.NoError(t, err)
	}

	list, err := stories.ListApproved(ctx, models.StoryFeedLimit)
	require.NoError(t, err)
	require.Len(t, list, models.StoryFeedLimit)

	for i, s := range list {
		assert.Equal(t, fmt.Sprintf("answer %d", 9-i), s.Answer)
	}
}

func TestStories_TiesAreDeterministic(t *testing.T) {
	stories := NewStoryStore(testutil.SetupTestDB(t))
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		_, err := stories.Append(ctx, models.Story{Prompt: models.PromptConnection, Answer: "same time", SubmittedAt: at})
		require.NoError(t, err)
	}

	first, err := stories.ListApproved(ctx, 10)
	require.NoError(t, err)
	second, err := stories.ListApproved(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.Greater(t, first[i-1].ID, first[i].ID, "ties are broken by ID descending")
	}
}

func TestStories_EmptyListIsNotNil(t *testing.T) {
	stories := NewStoryStore(testutil.SetupTestDB(t))

	list, err := stories.ListApproved(context.Background(), models.StoryFeedLimit)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
