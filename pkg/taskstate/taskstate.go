// Package taskstate keeps track of long running tasks by id.
package taskstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mpapenbr/racestrategy/log"
)

var ErrUnknownTask = errors.New("unknown task")

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

func (s Status) Final() bool {
	return s == StatusDone || s == StatusFailed
}

// Task is a snapshot of a task's state
type Task[V any] struct {
	ID      uuid.UUID `json:"id"`
	Status  Status    `json:"status"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Result  *V        `json:"result,omitempty"`
	Error   string    `json:"error,omitempty"`
}

type Store[V any] interface {
	Create(ctx context.Context) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*Task[V], error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) error
	Complete(ctx context.Context, id uuid.UUID, result *V) error
	Fail(ctx context.Context, id uuid.UUID, err error) error
	// Purge removes final tasks last updated before the given time
	Purge(ctx context.Context, before time.Time) int
}

type (
	Option[V any]      func(*memoryStore[V])
	memoryStore[V any] struct {
		mutex sync.Mutex
		items map[uuid.UUID]*Task[V]
		now   func() time.Time
		l     *log.Logger
	}
)

func WithLogger[V any](l *log.Logger) Option[V] {
	return func(s *memoryStore[V]) {
		s.l = l
	}
}

func WithClock[V any](now func() time.Time) Option[V] {
	return func(s *memoryStore[V]) {
		s.now = now
	}
}

// NewMemoryStore creates a store keeping all tasks in memory
func NewMemoryStore[V any](opts ...Option[V]) Store[V] {
	ret := &memoryStore[V]{
		items: make(map[uuid.UUID]*Task[V]),
		now:   time.Now,
		l:     log.Default().Named("taskstate"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *memoryStore[V]) Create(ctx context.Context) (uuid.UUID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	now := s.now()
	s.items[id] = &Task[V]{ID: id, Status: StatusPending, Created: now, Updated: now}
	s.l.Debug("task created", log.String("id", id.String()))
	return id, nil
}

// Get returns a copy of the task
func (s *memoryStore[V]) Get(ctx context.Context, id uuid.UUID) (*Task[V], error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	t, ok := s.items[id]
	if !ok {
		return nil, ErrUnknownTask
	}
	cp := *t
	return &cp, nil
}

func (s *memoryStore[V]) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return s.update(id, func(t *Task[V]) {
		t.Status = status
	})
}

func (s *memoryStore[V]) Complete(ctx context.Context, id uuid.UUID, result *V) error {
	return s.update(id, func(t *Task[V]) {
		t.Status = StatusDone
		t.Result = result
	})
}

func (s *memoryStore[V]) Fail(ctx context.Context, id uuid.UUID, err error) error {
	return s.update(id, func(t *Task[V]) {
		t.Status = StatusFailed
		t.Error = err.Error()
	})
}

func (s *memoryStore[V]) Purge(ctx context.Context, before time.Time) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	n := 0
	for id, t := range s.items {
		if t.Status.Final() && t.Updated.Before(before) {
			delete(s.items, id)
			n++
		}
	}
	s.l.Debug("purged tasks", log.Int("removed", n), log.Int("remain", len(s.items)))
	return n
}

func (s *memoryStore[V]) update(id uuid.UUID, f func(t *Task[V])) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	t, ok := s.items[id]
	if !ok {
		return ErrUnknownTask
	}
	f(t)
	t.Updated = s.now()
	s.l.Debug("task updated",
		log.String("id", id.String()),
		log.String("status", string(t.Status)))
	return nil
}
