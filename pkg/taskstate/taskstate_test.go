package taskstate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/mpapenbr/racestrategy/log"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestStore(clock *fakeClock) Store[int] {
	return NewMemoryStore(WithLogger[int](log.Nop()), WithClock[int](clock.Now))
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 5, 26, 15, 0, 0, 0, time.UTC)}
	s := newTestStore(clock)

	id, err := s.Create(ctx)
	assert.NilError(t, err)
	task, err := s.Get(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, task.Status, StatusPending)
	assert.Equal(t, task.Created, clock.now)
	assert.Check(t, is.Nil(task.Result))

	clock.advance(time.Second)
	assert.NilError(t, s.SetStatus(ctx, id, StatusRunning))
	task, err = s.Get(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, task.Status, StatusRunning)
	assert.Equal(t, task.Updated, clock.now)
	assert.Check(t, task.Updated.After(task.Created))

	result := 42
	assert.NilError(t, s.Complete(ctx, id, &result))
	task, err = s.Get(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, task.Status, StatusDone)
	assert.Equal(t, *task.Result, 42)
	assert.Check(t, task.Status.Final())
}

func TestStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&fakeClock{})
	id, err := s.Create(ctx)
	assert.NilError(t, err)
	task, err := s.Get(ctx, id)
	assert.NilError(t, err)
	task.Status = StatusDone

	again, err := s.Get(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, again.Status, StatusPending)
}

func TestStore_Fail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&fakeClock{})
	id, err := s.Create(ctx)
	assert.NilError(t, err)
	assert.NilError(t, s.Fail(ctx, id, errors.New("boom")))
	task, err := s.Get(ctx, id)
	assert.NilError(t, err)
	assert.Equal(t, task.Status, StatusFailed)
	assert.Equal(t, task.Error, "boom")
}

func TestStore_UnknownTask(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&fakeClock{})
	unknown := uuid.New()
	_, err := s.Get(ctx, unknown)
	assert.ErrorIs(t, err, ErrUnknownTask)
	assert.ErrorIs(t, s.SetStatus(ctx, unknown, StatusRunning), ErrUnknownTask)
	assert.ErrorIs(t, s.Complete(ctx, unknown, nil), ErrUnknownTask)
	assert.ErrorIs(t, s.Fail(ctx, unknown, errors.New("x")), ErrUnknownTask)
}

func TestStore_Purge(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 5, 26, 15, 0, 0, 0, time.UTC)}
	s := newTestStore(clock)

	oldDone, _ := s.Create(ctx)
	oldRunning, _ := s.Create(ctx)
	assert.NilError(t, s.Complete(ctx, oldDone, nil))
	assert.NilError(t, s.SetStatus(ctx, oldRunning, StatusRunning))

	clock.advance(time.Hour)
	recentDone, _ := s.Create(ctx)
	assert.NilError(t, s.Fail(ctx, recentDone, errors.New("x")))

	assert.Equal(t, s.Purge(ctx, clock.now.Add(-time.Minute)), 1)

	_, err := s.Get(ctx, oldDone)
	assert.ErrorIs(t, err, ErrUnknownTask)
	_, err = s.Get(ctx, oldRunning)
	assert.NilError(t, err, "unfinished tasks are kept")
	_, err = s.Get(ctx, recentDone)
	assert.NilError(t, err)
}
