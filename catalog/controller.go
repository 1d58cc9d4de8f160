package catalog

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/reelgrid/debounce"
)

// ControllerState is the user-facing browse state
type ControllerState struct {
	Page            int
	Limit           int
	SearchQuery     string
	DebouncedSearch string
	Genre           string
}

// ControllerOption configures a PageController
type ControllerOption func(*PageController)

// WithPageSize sets the number of movies per page
func WithPageSize(limit int) ControllerOption {
	return func(p *PageController) {
		if limit > 0 {
			p.state.Limit = limit
		}
	}
}

// WithDebounce sets the search quiet period
func WithDebounce(delay time.Duration) ControllerOption {
	return func(p *PageController) {
		p.delay = delay
	}
}

// WithPageChangeHook registers fn to run after a page-only change has been
// dispatched, the equivalent of scrolling back to the top
func WithPageChangeHook(fn func(page int)) ControllerOption {
	return func(p *PageController) {
		p.onPageChange = fn
	}
}

// PageController owns page, search and genre and feeds the resulting query
// to a Coordinator. Search text is debounced; filter changes reset the page.
type PageController struct {
	coord  *Coordinator
	logger zerolog.Logger

	delay        time.Duration
	onPageChange func(page int)
	debouncer    *debounce.Debouncer[string]

	// pushMu serializes state mutation with query dispatch so the
	// coordinator sees queries in the order they were produced
	pushMu sync.Mutex

	mu    sync.Mutex
	state ControllerState
}

// NewPageController creates a controller bound to coord
func NewPageController(coord *Coordinator, logger zerolog.Logger, opts ...ControllerOption) *PageController {
	p := &PageController{
		coord:  coord,
		logger: logger.With().Str("component", "controller").Logger(),
		delay:  debounce.DefaultDelay,
		state: ControllerState{
			Page:  1,
			Limit: DefaultPageSize,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.debouncer = debounce.New(p.delay, p.applySearch)
	return p
}

// Start dispatches the initial query
func (p *PageController) Start() error {
	return p.update(func(*ControllerState) {})
}

// State returns the current browse state
func (p *PageController) State() ControllerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// SetSearch records the raw search text and resets to page 1. The text
// reaches the coordinator once typing has settled.
func (p *PageController) SetSearch(text string) error {
	err := p.update(func(s *ControllerState) {
		s.SearchQuery = text
		s.Page = 1
	})
	p.debouncer.Set(text)
	return err
}

// FlushSearch applies pending search text immediately
func (p *PageController) FlushSearch() {
	p.debouncer.Flush()
}

func (p *PageController) applySearch(text string) {
	if err := p.update(func(s *ControllerState) {
		s.DebouncedSearch = strings.TrimSpace(text)
	}); err != nil {
		p.logger.Error().Err(err).Str("search", text).Msg("Failed to apply search")
	}
}

// SetGenre selects a genre ("" for all) and resets to page 1
func (p *PageController) SetGenre(genre string) error {
	return p.update(func(s *ControllerState) {
		s.Genre = strings.TrimSpace(genre)
		s.Page = 1
	})
}

// SetPage moves to page n, clamped to the known page range
func (p *PageController) SetPage(n int) error {
	if n < 1 {
		n = 1
	}
	if pg := p.coord.Snapshot().Pagination; pg != nil && pg.TotalPages > 0 && n > pg.TotalPages {
		n = pg.TotalPages
	}

	changed := false
	err := p.update(func(s *ControllerState) {
		changed = s.Page != n
		s.Page = n
	})
	if err != nil {
		return err
	}

	if changed && p.onPageChange != nil {
		p.onPageChange(n)
	}
	return nil
}

// NextPage advances one page when there is one
func (p *PageController) NextPage() error {
	return p.SetPage(p.State().Page + 1)
}

// PrevPage goes back one page
func (p *PageController) PrevPage() error {
	return p.SetPage(p.State().Page - 1)
}

// Reload refetches the current page
func (p *PageController) Reload() {
	p.coord.Refetch()
}

// Close stops any pending search emission
func (p *PageController) Close() {
	p.debouncer.Stop()
}

func (p *PageController) update(mutate func(*ControllerState)) error {
	p.pushMu.Lock()
	defer p.pushMu.Unlock()

	p.mu.Lock()
	mutate(&p.state)
	q := Query{
		Page:   p.state.Page,
		Limit:  p.state.Limit,
		Search: p.state.DebouncedSearch,
		Genre:  p.state.Genre,
	}
	p.mu.Unlock()

	return p.coord.SetQuery(q)
}
