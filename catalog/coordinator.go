package catalog

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/reelgrid/movieapi"
)

// Status is the fetch state of a Coordinator
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the coordinator state. Movies and
// Pagination hold the last successful result and survive a failed refresh.
type Snapshot struct {
	Query      Query
	Status     Status
	Movies     []movieapi.Movie
	Pagination *movieapi.PaginationInfo
	Err        error
	Generation uint64
}

// IsLoading reports whether a fetch is in flight
func (s Snapshot) IsLoading() bool {
	return s.Status == StatusLoading
}

// CoordinatorOption configures a Coordinator
type CoordinatorOption func(*Coordinator)

// WithEnabled sets the initial enabled flag. Coordinators start enabled.
func WithEnabled(enabled bool) CoordinatorOption {
	return func(c *Coordinator) {
		c.enabled = enabled
	}
}

// WithListener registers a listener before any snapshot is published
func WithListener(fn Listener) CoordinatorOption {
	return func(c *Coordinator) {
		c.listeners = append(c.listeners, fn)
	}
}

// Coordinator fetches a page of movies whenever its query changes and
// publishes the outcome as snapshots. Only the most recently dispatched
// fetch may update state; superseded fetches are cancelled and their results
// dropped.
type Coordinator struct {
	api    movieapi.API
	logger zerolog.Logger

	ctx      context.Context
	shutdown context.CancelFunc

	mu        sync.Mutex
	idle      *sync.Cond
	inflight  int
	query     Query
	hasQuery  bool
	enabled   bool
	gen       uint64
	cancel    context.CancelFunc
	snap      Snapshot
	listeners []Listener
	outbox    []Snapshot
	draining  bool
}

// NewCoordinator creates a coordinator. Nothing is fetched until the first
// SetQuery.
func NewCoordinator(api movieapi.API, logger zerolog.Logger, opts ...CoordinatorOption) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		api:      api,
		logger:   logger.With().Str("component", "coordinator").Logger(),
		ctx:      ctx,
		shutdown: cancel,
		enabled:  true,
	}
	c.idle = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers a listener. Listeners run synchronously on the
// goroutine that caused the change and must not block.
func (c *Coordinator) OnChange(fn Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Snapshot returns the current state
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Query returns the last accepted query
func (c *Coordinator) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// SetQuery replaces the query and fetches if it differs from the current one
func (c *Coordinator) SetQuery(q Query) error {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.hasQuery && c.query == q {
		c.mu.Unlock()
		return nil
	}
	c.query = q
	c.hasQuery = true

	drain := false
	if c.enabled {
		drain = c.dispatchLocked("query changed")
	} else {
		c.snap.Query = q
	}
	c.mu.Unlock()

	if drain {
		c.drain()
	}
	return nil
}

// SetEnabled toggles fetching. Disabling cancels any in-flight fetch and
// returns to Idle; enabling fetches the current query.
func (c *Coordinator) SetEnabled(enabled bool) {
	c.mu.Lock()
	if c.enabled == enabled {
		c.mu.Unlock()
		return
	}
	c.enabled = enabled

	drain := false
	switch {
	case enabled && c.hasQuery:
		drain = c.dispatchLocked("enabled")
	case !enabled:
		c.cancelLocked()
		c.gen++
		c.snap.Status = StatusIdle
		c.snap.Generation = c.gen
		drain = c.publishLocked()
		c.logger.Debug().Msg("Fetching disabled")
	}
	c.mu.Unlock()

	if drain {
		c.drain()
	}
}

// Refetch fetches the current query again
func (c *Coordinator) Refetch() {
	c.mu.Lock()
	if !c.enabled || !c.hasQuery {
		c.mu.Unlock()
		return
	}
	drain := c.dispatchLocked("refetch")
	c.mu.Unlock()

	if drain {
		c.drain()
	}
}

// Wait blocks until no fetch is in flight. A fetch dispatched while Wait is
// blocked, for example by a debounced search, is waited for too.
func (c *Coordinator) Wait() {
	c.mu.Lock()
	for c.inflight > 0 {
		c.idle.Wait()
	}
	c.mu.Unlock()
}

// Close cancels in-flight fetches and waits for them to return
func (c *Coordinator) Close() {
	c.shutdown()
	c.Wait()
}

// done marks a fetch as finished once its snapshots have been delivered
func (c *Coordinator) done() {
	c.mu.Lock()
	c.inflight--
	if c.inflight == 0 {
		c.idle.Broadcast()
	}
	c.mu.Unlock()
}

func (c *Coordinator) cancelLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// dispatchLocked starts a fetch for the current query. The caller must hold
// c.mu and call drain afterwards when it returns true.
func (c *Coordinator) dispatchLocked(reason string) bool {
	c.cancelLocked()

	c.gen++
	gen := c.gen
	q := c.query

	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel

	c.snap.Query = q
	c.snap.Status = StatusLoading
	c.snap.Err = nil
	c.snap.Generation = gen

	c.logger.Debug().
		Uint64("generation", gen).
		Str("reason", reason).
		Stringer("query", q).
		Msg("Dispatching fetch")

	c.inflight++
	go c.fetch(ctx, cancel, gen, q)

	return c.publishLocked()
}

func (c *Coordinator) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, q Query) {
	defer c.done()
	defer cancel()

	resp, err := c.api.GetMovies(ctx, q.APIQuery())

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug().
			Uint64("generation", gen).
			Msg("Discarding superseded fetch result")
		return
	}
	c.cancel = nil

	if err != nil {
		c.snap.Status = StatusFailed
		c.snap.Err = err
		c.logger.Error().
			Err(err).
			Uint64("generation", gen).
			Stringer("query", q).
			Msg("Failed to fetch movies")
	} else {
		pagination := resp.Pagination
		c.snap.Status = StatusSuccess
		c.snap.Err = nil
		c.snap.Movies = resp.Data
		c.snap.Pagination = &pagination
		c.logger.Debug().
			Uint64("generation", gen).
			Int("count", len(resp.Data)).
			Int("total_pages", pagination.TotalPages).
			Msg("Fetched movies")
	}
	drain := c.publishLocked()
	c.mu.Unlock()

	if drain {
		c.drain()
	}
}

// publishLocked queues the current snapshot for listeners. It returns true
// when the caller is responsible for draining the queue.
func (c *Coordinator) publishLocked() bool {
	if len(c.listeners) == 0 {
		return false
	}
	c.outbox = append(c.outbox, c.snap)
	if c.draining {
		return false
	}
	c.draining = true
	return true
}

// drain delivers queued snapshots in order. Only one goroutine drains at a
// time; snapshots queued meanwhile, including by listeners themselves, are
// picked up by the active drainer.
func (c *Coordinator) drain() {
	for {
		c.mu.Lock()
		if len(c.outbox) == 0 {
			c.draining = false
			c.mu.Unlock()
			return
		}
		batch := c.outbox
		c.outbox = nil
		listeners := slices.Clone(c.listeners)
		c.mu.Unlock()

		for _, snap := range batch {
			for _, fn := range listeners {
				fn(snap)
			}
		}
	}
}
