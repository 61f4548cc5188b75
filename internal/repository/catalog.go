package repository

import (
	"context"
	"sync"

	"github.com/seonghoon-yang/ticket-reservation/internal/model"
)

// DefaultSeatPrice is the per-seat price applied when the catalog has
// no entry for a game. Orders are priced at creation time and never
// re-priced at payment time.
const DefaultSeatPrice = 25000

// Catalog supplies game metadata and seat pricing. The catalog is
// input data for this core: the booking pipeline only reads it.
type Catalog interface {
	Game(ctx context.Context, gameID string) (model.Game, error)
	// SeatPrice returns the per-seat price for a game, or
	// ErrGameNotFound when the game has no catalog entry.
	SeatPrice(ctx context.Context, gameID string) (int, error)
}

// StaticCatalog is an in-memory Catalog seeded at construction. It is
// the fallback when no catalog database is configured and the fixture
// source for tests.
type StaticCatalog struct {
	mu    sync.RWMutex
	games map[string]model.Game
}

// NewStaticCatalog returns a catalog holding the given games.
func NewStaticCatalog(games ...model.Game) *StaticCatalog {
	c := &StaticCatalog{games: make(map[string]model.Game, len(games))}
	for _, g := range games {
		c.games[g.ID] = g
	}
	return c
}

// Put adds or replaces a game entry.
func (c *StaticCatalog) Put(g model.Game) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.games[g.ID] = g
}

// Game implements Catalog.
func (c *StaticCatalog) Game(_ context.Context, gameID string) (model.Game, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.games[gameID]
	if !ok {
		return model.Game{}, ErrGameNotFound
	}
	return g, nil
}

// SeatPrice implements Catalog.
func (c *StaticCatalog) SeatPrice(ctx context.Context, gameID string) (int, error) {
	g, err := c.Game(ctx, gameID)
	if err != nil {
		return 0, err
	}
	return g.SeatPrice, nil
}
