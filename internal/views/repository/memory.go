package repository

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dayboard/dayboard/internal/views"
)

var (
	ErrNotFound     = errors.New("view record not found")
	ErrEmptySlug    = errors.New("slug is empty")
	ErrEmptyVisitor = errors.New("visitor id is empty")
)

type Option func(*MemoryCounter)

func WithClock(now func() time.Time) Option {
	return func(m *MemoryCounter) { m.now = now }
}

// WithWindow sets the de-duplication window; non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(m *MemoryCounter) {
		if d > 0 {
			m.window = d
		}
	}
}

// record is the mutable state behind a BlogView. visitors grows for the
// lifetime of the process.
type record struct {
	slug       string
	count      int64
	lastViewed time.Time
	visitors   map[string]struct{}
}

func (r *record) snapshot() views.BlogView {
	return views.BlogView{Slug: r.slug, Count: r.count, LastViewed: r.lastViewed, UniqueVisitors: len(r.visitors)}
}

// MemoryCounter tracks per-slug view counts in memory.
//
// With a visitor id a view is counted when the visitor is new to the slug,
// or when more than the window has passed since lastViewed. lastViewed moves
// on every view, counted or not, and is shared by all visitors of the slug:
// any view restarts the window for everyone.
type MemoryCounter struct {
	mu      sync.RWMutex
	now     func() time.Time
	window  time.Duration
	records map[string]*record
}

func NewMemoryCounter(opts ...Option) *MemoryCounter {
	m := &MemoryCounter{now: time.Now, window: views.DefaultWindow, records: make(map[string]*record)}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *MemoryCounter) Window() time.Duration { return m.window }

// lookup returns the record for slug, creating it when missing. Caller holds m.mu.
func (m *MemoryCounter) lookup(slug string) *record {
	r, ok := m.records[slug]
	if !ok {
		r = &record{slug: slug, lastViewed: time.Unix(0, 0).UTC(), visitors: make(map[string]struct{})}
		m.records[slug] = r
	}
	return r
}

func (m *MemoryCounter) GetOrCreate(slug string) (views.BlogView, error) {
	if slug == "" {
		return views.BlogView{}, ErrEmptySlug
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(slug).snapshot(), nil
}

// RecordView registers one view of slug. A nil visitorID counts
// unconditionally; otherwise the view is de-duplicated. The returned bool
// reports whether the count was incremented.
func (m *MemoryCounter) RecordView(slug string, visitorID *string) (views.BlogView, bool, error) {
	if slug == "" {
		return views.BlogView{}, false, ErrEmptySlug
	}
	if visitorID != nil && *visitorID == "" {
		return views.BlogView{}, false, ErrEmptyVisitor
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.lookup(slug)
	now := m.now()

	counted := true
	if visitorID != nil {
		_, seen := r.visitors[*visitorID]
		counted = !seen || now.Sub(r.lastViewed) > m.window
		if counted {
			r.visitors[*visitorID] = struct{}{}
		}
	}
	if counted {
		r.count++
	}
	r.lastViewed = now
	return r.snapshot(), counted, nil
}

func (m *MemoryCounter) Get(slug string) (views.BlogView, error) {
	if slug == "" {
		return views.BlogView{}, ErrEmptySlug
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[slug]
	if !ok {
		return views.BlogView{}, ErrNotFound
	}
	return r.snapshot(), nil
}

// HasVisitor reports whether visitorID has been counted for slug.
func (m *MemoryCounter) HasVisitor(slug, visitorID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[slug]
	if !ok {
		return false
	}
	_, seen := r.visitors[visitorID]
	return seen
}

// List returns every known record ordered by slug.
func (m *MemoryCounter) List() []views.BlogView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]views.BlogView, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
