package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newCounter() (*MemoryCounter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)}
	return NewMemoryCounter(WithClock(clk.Now)), clk
}

func visitor(s string) *string { return &s }

func TestGetOrCreateIsIdempotent(t *testing.T) {
	c, _ := newCounter()

	v1, err := c.GetOrCreate("hello")
	require.NoError(t, err)
	require.Equal(t, "hello", v1.Slug)
	require.Equal(t, int64(0), v1.Count)
	require.True(t, v1.LastViewed.Equal(time.Unix(0, 0)))
	require.Equal(t, 0, v1.UniqueVisitors)

	v2, err := c.GetOrCreate("hello")
	require.NoError(t, err)
	require.Equal(t, v1, v2)
	require.Len(t, c.List(), 1)
}

func TestRecordViewSimplePolicy(t *testing.T) {
	c, clk := newCounter()
	for i := 0; i < 10; i++ {
		clk.Advance(time.Second)
		v, counted, err := c.RecordView("a", nil)
		require.NoError(t, err)
		require.True(t, counted)
		require.Equal(t, clk.Now(), v.LastViewed)
	}
	v, err := c.Get("a")
	require.NoError(t, err)
	require.Equal(t, int64(10), v.Count)
}

func TestRecordViewDeduplicatesWithinWindow(t *testing.T) {
	c, clk := newCounter()

	v, counted, err := c.RecordView("p", visitor("v1"))
	require.NoError(t, err)
	require.True(t, counted)
	require.Equal(t, int64(1), v.Count)

	clk.Advance(time.Minute)
	v, counted, err = c.RecordView("p", visitor("v1"))
	require.NoError(t, err)
	require.False(t, counted)
	require.Equal(t, int64(1), v.Count)
	// the duplicate still touches lastViewed
	require.Equal(t, clk.Now(), v.LastViewed)

	v, counted, err = c.RecordView("p", visitor("v2"))
	require.NoError(t, err)
	require.True(t, counted)
	require.Equal(t, int64(2), v.Count)
	require.Equal(t, 2, v.UniqueVisitors)
	require.True(t, c.HasVisitor("p", "v1"))
	require.True(t, c.HasVisitor("p", "v2"))
	require.False(t, c.HasVisitor("p", "v3"))
}

// The window is measured from the last view of any visitor, so a steady
// stream of other visitors keeps v1 from ever being recounted.
func TestRecordViewSharedWindowAcrossVisitors(t *testing.T) {
	c, clk := newCounter()

	_, _, err := c.RecordView("p", visitor("v1"))
	require.NoError(t, err)
	_, _, err = c.RecordView("p", visitor("v2"))
	require.NoError(t, err)

	v, counted, err := c.RecordView("p", visitor("v1"))
	require.NoError(t, err)
	require.False(t, counted)
	require.Equal(t, int64(2), v.Count)

	// 46h after v1's first view, but v2 looked 23h ago: still a duplicate
	clk.Advance(23 * time.Hour)
	_, counted, err = c.RecordView("p", visitor("v2"))
	require.NoError(t, err)
	require.False(t, counted)
	clk.Advance(23 * time.Hour)
	v, counted, err = c.RecordView("p", visitor("v1"))
	require.NoError(t, err)
	require.False(t, counted)
	require.Equal(t, int64(2), v.Count)

	// once the slug sits idle for longer than the window, v1 counts again
	clk.Advance(24*time.Hour + time.Second)
	v, counted, err = c.RecordView("p", visitor("v1"))
	require.NoError(t, err)
	require.True(t, counted)
	require.Equal(t, int64(3), v.Count)
}

func TestRecordViewWindowBoundaryIsExclusive(t *testing.T) {
	c, clk := newCounter()
	_, _, err := c.RecordView("p", visitor("v1"))
	require.NoError(t, err)

	clk.Advance(24 * time.Hour)
	_, counted, err := c.RecordView("p", visitor("v1"))
	require.NoError(t, err)
	require.False(t, counted, "exactly one window later is still inside the window")
}

func TestRecordViewCustomWindow(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCounter(WithClock(clk.Now), WithWindow(time.Hour), WithWindow(0))
	require.Equal(t, time.Hour, c.Window())

	_, _, err := c.RecordView("p", visitor("v1"))
	require.NoError(t, err)
	clk.Advance(61 * time.Minute)
	v, counted, err := c.RecordView("p", visitor("v1"))
	require.NoError(t, err)
	require.True(t, counted)
	require.Equal(t, int64(2), v.Count)
}

func TestRecordViewMixedPolicies(t *testing.T) {
	c, _ := newCounter()
	_, _, err := c.RecordView("p", visitor("v1"))
	require.NoError(t, err)
	_, _, err = c.RecordView("p", nil)
	require.NoError(t, err)
	v, counted, err := c.RecordView("p", visitor("v1"))
	require.NoError(t, err)
	require.False(t, counted)
	require.Equal(t, int64(2), v.Count)
	require.Equal(t, 1, v.UniqueVisitors)
}

func TestGetNeverViewed(t *testing.T) {
	c, _ := newCounter()
	_, err := c.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, _, err = c.RecordView("missing", nil)
	require.NoError(t, err)
	v, err := c.Get("missing")
	require.NoError(t, err)
	require.Equal(t, int64(1), v.Count)
}

func TestValidation(t *testing.T) {
	c, _ := newCounter()

	_, err := c.GetOrCreate("")
	require.ErrorIs(t, err, ErrEmptySlug)
	_, _, err = c.RecordView("", nil)
	require.ErrorIs(t, err, ErrEmptySlug)
	_, err = c.Get("")
	require.ErrorIs(t, err, ErrEmptySlug)

	_, _, err = c.RecordView("p", visitor(""))
	require.ErrorIs(t, err, ErrEmptyVisitor)
	// a rejected call must not create the record
	_, err = c.Get("p")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListSortedBySlug(t *testing.T) {
	c, _ := newCounter()
	for _, s := range []string{"zeta", "alpha", "mid"} {
		_, _, err := c.RecordView(s, nil)
		require.NoError(t, err)
	}
	list := c.List()
	require.Len(t, list, 3)
	require.Equal(t, "alpha", list[0].Slug)
	require.Equal(t, "mid", list[1].Slug)
	require.Equal(t, "zeta", list[2].Slug)
}

func TestRecordViewConcurrent(t *testing.T) {
	c, _ := newCounter()
	const workers, perWorker = 16, 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, _, err := c.RecordView("simple", nil)
				assert.NoError(t, err)
				// every worker reuses the same small visitor pool
				_, _, err = c.RecordView("dedup", visitor(fmt.Sprintf("v%d", i%5)))
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	v, err := c.Get("simple")
	require.NoError(t, err)
	require.Equal(t, int64(workers*perWorker), v.Count)

	// the clock never moves, so each distinct visitor counts exactly once
	d, err := c.Get("dedup")
	require.NoError(t, err)
	require.Equal(t, int64(5), d.Count)
	require.Equal(t, 5, d.UniqueVisitors)
}
