// Package service combines scenario generation and strategy search and keeps
// track of submitted searches in a task store.
package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mpapenbr/racestrategy/log"
	"github.com/mpapenbr/racestrategy/pkg/model"
	"github.com/mpapenbr/racestrategy/pkg/optimizer"
	"github.com/mpapenbr/racestrategy/pkg/scenario"
	"github.com/mpapenbr/racestrategy/pkg/taskstate"
)

type (
	// StrategyRequest describes a search. If Scenario is set, the race is
	// generated from it with Seed and the search runs against that scenario.
	StrategyRequest struct {
		Search   optimizer.Request
		Scenario *scenario.Config
		Seed     uint64
	}
	Option          func(*StrategyService)
	StrategyService struct {
		opt   *optimizer.Optimizer
		store taskstate.Store[model.BestPlan]
		l     *log.Logger
		mu    sync.Mutex
		done  map[uuid.UUID]chan struct{}
		wg    sync.WaitGroup
	}
)

func WithStore(store taskstate.Store[model.BestPlan]) Option {
	return func(s *StrategyService) {
		s.store = store
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *StrategyService) {
		s.l = l
	}
}

func NewStrategyService(opt *optimizer.Optimizer, opts ...Option) *StrategyService {
	ret := &StrategyService{
		opt:  opt,
		l:    log.Default().Named("service.strategy"),
		done: make(map[uuid.UUID]chan struct{}),
	}
	for _, o := range opts {
		o(ret)
	}
	if ret.store == nil {
		ret.store = taskstate.NewMemoryStore[model.BestPlan]()
	}
	return ret
}

// Optimize runs the search synchronously
func (s *StrategyService) Optimize(ctx context.Context, req *StrategyRequest) (*model.BestPlan, error) {
	search := req.Search
	if req.Scenario != nil {
		cfg := *req.Scenario
		cfg.Laps = search.Laps
		sc, err := scenario.Generate(&cfg, req.Seed)
		if err != nil {
			return nil, err
		}
		search.Weather = sc.Weather
		search.SafetyCars = sc.SafetyCars
		s.l.Debug("using scenario",
			log.Uint64("seed", req.Seed),
			log.Int("safetyCars", len(sc.SafetyCars)))
	}
	return s.opt.Optimize(ctx, &search)
}

// Submit starts the search in the background and returns the task id.
// The search is not bound to ctx, only to the optimizer's own limits.
func (s *StrategyService) Submit(ctx context.Context, req *StrategyRequest) (uuid.UUID, error) {
	id, err := s.store.Create(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	ch := make(chan struct{})
	s.mu.Lock()
	s.done[id] = ch
	s.mu.Unlock()

	bgCtx := log.AddToContext(context.WithoutCancel(ctx),
		s.l.With(log.String("task", id.String())))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.done, id)
			s.mu.Unlock()
			close(ch)
		}()
		s.run(bgCtx, id, req)
	}()
	return id, nil
}

func (s *StrategyService) run(ctx context.Context, id uuid.UUID, req *StrategyRequest) {
	l := log.GetFromContext(ctx)
	if err := s.store.SetStatus(ctx, id, taskstate.StatusRunning); err != nil {
		l.Error("could not set task status", log.ErrorField(err))
		return
	}
	best, err := s.Optimize(ctx, req)
	if err != nil {
		l.Warn("search failed", log.ErrorField(err))
		if err := s.store.Fail(ctx, id, err); err != nil {
			l.Error("could not record failure", log.ErrorField(err))
		}
		return
	}
	if err := s.store.Complete(ctx, id, best); err != nil {
		l.Error("could not record result", log.ErrorField(err))
	}
}

func (s *StrategyService) Task(ctx context.Context, id uuid.UUID) (*taskstate.Task[model.BestPlan], error) {
	return s.store.Get(ctx, id)
}

// Wait blocks until the task is final or ctx is done.
// Tasks no longer tracked as running are read from the store directly.
func (s *StrategyService) Wait(ctx context.Context, id uuid.UUID) (*taskstate.Task[model.BestPlan], error) {
	s.mu.Lock()
	ch, ok := s.done[id]
	s.mu.Unlock()
	if ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.store.Get(ctx, id)
}

// Close waits for all submitted searches to finish
func (s *StrategyService) Close() {
	s.wg.Wait()
}
