package cache

import (
	"github.com/dom/hops-games/internal/domain"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultSize = 1000

// GameCache keeps the most recently used games by id. It is safe for
// concurrent use; values are copied in and out.
type GameCache struct {
	entries *lru.Cache[string, *domain.Game]
}

func NewGameCache(size int) (*GameCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, *domain.Game](size)
	if err != nil {
		return nil, err
	}
	return &GameCache{entries: entries}, nil
}

func (c *GameCache) Get(id string) (*domain.Game, bool) {
	game, ok := c.entries.Get(id)
	if !ok {
		return nil, false
	}
	return game.Clone(), true
}

// Set stores game under its id. Nil games and games without an id are ignored.
func (c *GameCache) Set(game *domain.Game) {
	if game == nil || game.ID == "" {
		return
	}
	c.entries.Add(game.ID, game.Clone())
}

func (c *GameCache) Remove(id string) {
	c.entries.Remove(id)
}

func (c *GameCache) Len() int {
	return c.entries.Len()
}
