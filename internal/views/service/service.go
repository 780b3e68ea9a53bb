package service

import (
	"context"
	"strconv"

	"github.com/dayboard/dayboard/internal/events"
	"github.com/dayboard/dayboard/internal/views"
	"github.com/dayboard/dayboard/internal/views/repository"
	"github.com/dayboard/dayboard/pkg/metrics"
)

var (
	ErrNotFound     = repository.ErrNotFound
	ErrEmptySlug    = repository.ErrEmptySlug
	ErrEmptyVisitor = repository.ErrEmptyVisitor
)

// Service defines the view-counter operations used by the handler layer.
type Service interface {
	// RecordView counts a view of slug; a non-nil visitorID enables de-duplication.
	RecordView(ctx context.Context, slug string, visitorID *string) (views.BlogView, error)
	GetOrCreate(ctx context.Context, slug string) (views.BlogView, error)
	Get(ctx context.Context, slug string) (views.BlogView, error)
	List(ctx context.Context) []views.BlogView
}

// NewMemoryService returns a Service backed by the in-memory counter.
func NewMemoryService(pub events.Publisher, opts ...repository.Option) Service {
	return &memoryService{counter: repository.NewMemoryCounter(opts...), pub: pub}
}

type memoryService struct {
	counter *repository.MemoryCounter
	pub     events.Publisher
}

func (s *memoryService) RecordView(ctx context.Context, slug string, visitorID *string) (views.BlogView, error) {
	v, counted, err := s.counter.RecordView(slug, visitorID)
	if err != nil {
		return views.BlogView{}, err
	}
	policy := "simple"
	if visitorID != nil {
		policy = "dedup"
	}
	metrics.ViewsRecorded.WithLabelValues(policy, strconv.FormatBool(counted)).Inc()
	events.Emit(ctx, s.pub, events.New(events.ViewRecorded, slug, map[string]interface{}{
		"count":   v.Count,
		"counted": counted,
	}))
	return v, nil
}

func (s *memoryService) GetOrCreate(ctx context.Context, slug string) (views.BlogView, error) {
	return s.counter.GetOrCreate(slug)
}

func (s *memoryService) Get(ctx context.Context, slug string) (views.BlogView, error) {
	return s.counter.Get(slug)
}

func (s *memoryService) List(ctx context.Context) []views.BlogView {
	return s.counter.List()
}
