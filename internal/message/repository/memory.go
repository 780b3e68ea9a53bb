package repository

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dayboard/dayboard/internal/message"
)

var (
	ErrNotFound  = errors.New("message not found")
	ErrEmptyBody = errors.New("message body is empty")
)

// IDPolicy decides how a new message id is derived inside its bucket.
type IDPolicy int

const (
	// SequenceIDs hands out ids from a per-bucket counter; deleted ids are
	// never reused. DeleteAll resets the counter.
	SequenceIDs IDPolicy = iota
	// LengthIDs assigns len(bucket)+1, so a create after a delete can
	// repeat an id still present in the bucket.
	LengthIDs
)

// ParseIDPolicy maps the configuration value ("sequence" or "length").
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch s {
	case "sequence", "":
		return SequenceIDs, nil
	case "length":
		return LengthIDs, nil
	}
	return SequenceIDs, fmt.Errorf("unknown id policy %q", s)
}

type Option func(*MemoryStore)

// WithClock replaces time.Now; the clock drives both timestamps and bucket selection.
func WithClock(now func() time.Time) Option {
	return func(m *MemoryStore) { m.now = now }
}

func WithIDPolicy(p IDPolicy) Option {
	return func(m *MemoryStore) { m.policy = p }
}

type bucket struct {
	items  []message.Message
	lastID int
}

// MemoryStore keeps messages grouped by day bucket for the lifetime of the
// process. Every operation targets the bucket active at call time; old
// buckets are kept but never read again.
type MemoryStore struct {
	mu      sync.RWMutex
	now     func() time.Time
	policy  IDPolicy
	buckets map[string]*bucket
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	m := &MemoryStore{now: time.Now, buckets: make(map[string]*bucket)}
	for _, o := range opts {
		o(m)
	}
	return m
}

// BucketKey returns the key of the bucket operations currently apply to.
func (m *MemoryStore) BucketKey() string {
	return message.BucketKey(m.now())
}

// active returns the current bucket, creating it when missing. Caller holds m.mu.
func (m *MemoryStore) active(now time.Time) *bucket {
	key := message.BucketKey(now)
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{}
		m.buckets[key] = b
	}
	return b
}

func (b *bucket) indexOf(id int) int {
	for i := range b.items {
		if b.items[i].ID == id {
			return i
		}
	}
	return -1
}

// List returns the active bucket in insertion order. Never nil.
func (m *MemoryStore) List() []message.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.buckets[message.BucketKey(m.now())]
	if !ok {
		return []message.Message{}
	}
	out := make([]message.Message, len(b.items))
	copy(out, b.items)
	return out
}

func (m *MemoryStore) Create(body string) (message.Message, error) {
	if body == "" {
		return message.Message{}, ErrEmptyBody
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	b := m.active(now)

	var id int
	switch m.policy {
	case LengthIDs:
		id = len(b.items) + 1
	default:
		b.lastID++
		id = b.lastID
	}
	msg := message.Message{ID: id, Body: body, CreatedAt: now, UpdatedAt: now}
	b.items = append(b.items, msg)
	return msg, nil
}

func (m *MemoryStore) Update(id int, body string) (message.Message, error) {
	if body == "" {
		return message.Message{}, ErrEmptyBody
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	b := m.active(now)
	i := b.indexOf(id)
	if i < 0 {
		return message.Message{}, ErrNotFound
	}
	b.items[i].Body = body
	b.items[i].UpdatedAt = now
	return b.items[i], nil
}

// Delete removes the first message with the given id from the active bucket.
func (m *MemoryStore) Delete(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.active(m.now())
	i := b.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	b.items = append(b.items[:i], b.items[i+1:]...)
	return nil
}

// DeleteAll empties the active bucket; the next Create starts again at id 1.
func (m *MemoryStore) DeleteAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.active(m.now())
	b.items = nil
	b.lastID = 0
}
