package service

import (
	"context"
	"errors"

	"github.com/dayboard/dayboard/internal/events"
	"github.com/dayboard/dayboard/internal/message"
	"github.com/dayboard/dayboard/internal/message/repository"
	"github.com/dayboard/dayboard/pkg/metrics"
)

var (
	ErrNotFound  = repository.ErrNotFound
	ErrEmptyBody = repository.ErrEmptyBody
)

// Service defines the message operations used by the handler layer.
type Service interface {
	BucketKey() string
	List(ctx context.Context) []message.Message
	Create(ctx context.Context, body string) (message.Message, error)
	Update(ctx context.Context, id int, body string) (message.Message, error)
	// Delete removes one message and returns what is left in the bucket.
	Delete(ctx context.Context, id int) ([]message.Message, error)
	DeleteAll(ctx context.Context)
}

// NewMemoryService returns a Service backed by the in-memory store.
// pub may be nil when change events are not wanted.
func NewMemoryService(pub events.Publisher, opts ...repository.Option) Service {
	return &memoryService{store: repository.NewMemoryStore(opts...), pub: pub}
}

type memoryService struct {
	store *repository.MemoryStore
	pub   events.Publisher
}

func observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrEmptyBody):
		result = "invalid"
	default:
		result = "error"
	}
	metrics.MessageOperations.WithLabelValues(op, result).Inc()
}

func (s *memoryService) BucketKey() string { return s.store.BucketKey() }

func (s *memoryService) List(ctx context.Context) []message.Message {
	list := s.store.List()
	observe("list", nil)
	return list
}

func (s *memoryService) Create(ctx context.Context, body string) (message.Message, error) {
	m, err := s.store.Create(body)
	observe("create", err)
	if err != nil {
		return message.Message{}, err
	}
	s.changed(ctx, events.MessageCreated, m)
	return m, nil
}

func (s *memoryService) Update(ctx context.Context, id int, body string) (message.Message, error) {
	m, err := s.store.Update(id, body)
	observe("update", err)
	if err != nil {
		return message.Message{}, err
	}
	s.changed(ctx, events.MessageUpdated, m)
	return m, nil
}

func (s *memoryService) Delete(ctx context.Context, id int) ([]message.Message, error) {
	err := s.store.Delete(id)
	observe("delete", err)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, events.MessageDeleted, map[string]int{"id": id})
	return s.store.List(), nil
}

func (s *memoryService) DeleteAll(ctx context.Context) {
	s.store.DeleteAll()
	observe("delete_all", nil)
	s.changed(ctx, events.MessagesCleared, nil)
}

func (s *memoryService) changed(ctx context.Context, t events.Type, data interface{}) {
	metrics.ActiveMessages.Set(float64(len(s.store.List())))
	events.Emit(ctx, s.pub, events.New(t, s.store.BucketKey(), data))
}
