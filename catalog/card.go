package catalog

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/reelgrid/movieapi"
)

// DefaultPrefetchConcurrency bounds concurrent detail fetches
const DefaultPrefetchConcurrency = 6

// Card holds one movie summary and lazily upgrades it with the full record
// the first time it is hovered
type Card struct {
	api     movieapi.API
	logger  zerolog.Logger
	summary movieapi.Movie

	once    sync.Once
	mu      sync.RWMutex
	display movieapi.Movie
	loaded  bool
}

// NewCard creates a card for a summary record
func NewCard(api movieapi.API, summary movieapi.Movie, logger zerolog.Logger) *Card {
	return &Card{
		api:     api,
		logger:  logger,
		summary: summary,
		display: summary,
	}
}

// NewCards creates one card per movie
func NewCards(api movieapi.API, movies []movieapi.Movie, logger zerolog.Logger) []*Card {
	cards := make([]*Card, 0, len(movies))
	for _, m := range movies {
		cards = append(cards, NewCard(api, m, logger))
	}
	return cards
}

// Hover fetches the detail record once and returns the movie to display.
// Concurrent callers wait on the same fetch. A failed fetch is not retried
// and the summary keeps being shown.
func (c *Card) Hover(ctx context.Context) movieapi.Movie {
	c.once.Do(func() {
		detail, err := c.api.GetMovieByID(ctx, c.summary.ID.String())
		if err != nil {
			c.logger.Debug().
				Err(err).
				Str("movie_id", c.summary.ID.String()).
				Str("title", c.summary.Title).
				Msg("Failed to load movie details")
			return
		}

		c.mu.Lock()
		c.display = c.summary.Merge(*detail)
		c.loaded = true
		c.mu.Unlock()
	})
	return c.Display()
}

// Display returns the summary, or the merged record once details loaded
func (c *Card) Display() movieapi.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.display
}

// Summary returns the record the card was created with
func (c *Card) Summary() movieapi.Movie {
	return c.summary
}

// DetailLoaded reports whether the full record has been merged in
func (c *Card) DetailLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Prefetch hovers every card with bounded concurrency. Individual failures
// are absorbed by the cards; only context cancellation is returned.
func Prefetch(ctx context.Context, cards []*Card, limit int) error {
	if len(cards) == 0 {
		return nil
	}
	if limit < 1 {
		limit = DefaultPrefetchConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, card := range cards {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			card.Hover(gctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Displays collects the display record of every card
func Displays(cards []*Card) []movieapi.Movie {
	movies := make([]movieapi.Movie, 0, len(cards))
	for _, card := range cards {
		movies = append(movies, card.Display())
	}
	return movies
}
