// Package memory holds process-local repositories for running without a
// database. Games are copied on the way in and out.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dom/hops-games/internal/domain"
	"github.com/dom/hops-games/internal/repository"
)

type GameRepository struct {
	mu    sync.RWMutex
	games map[string]*domain.Game
	order []string
	now   func() time.Time
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		games: make(map[string]*domain.Game),
		now:   time.Now,
	}
}

func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		Game: NewGameRepository(),
	}
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.games[id]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (r *GameRepository) GetByWordsKey(ctx context.Context, wordsKey string) (*domain.Game, error) {
	games := r.filter(func(g *domain.Game) bool { return g.WordsKey == wordsKey })
	if len(games) == 0 {
		return nil, domain.ErrGameNotFound
	}
	return games[0], nil
}

func (r *GameRepository) Scan(ctx context.Context, filter repository.GameFilter) ([]*domain.Game, error) {
	return r.filter(func(g *domain.Game) bool {
		if filter.OwnerID != "" && !strings.Contains(g.OwnerIDs, filter.OwnerID) {
			return false
		}
		if filter.Word != "" && !strings.Contains(g.WordsKey, filter.Word) {
			return false
		}
		return true
	}), nil
}

func (r *GameRepository) ListByPublishMonth(ctx context.Context, month string) ([]*domain.Game, error) {
	games := r.filter(func(g *domain.Game) bool {
		return g.PublishMonth != nil && *g.PublishMonth == month
	})
	sort.SliceStable(games, func(i, j int) bool {
		return publishDateBefore(games[i], games[j])
	})
	return games, nil
}

func (r *GameRepository) ListUnscheduledReady(ctx context.Context) ([]*domain.Game, error) {
	return r.filter(func(g *domain.Game) bool {
		return g.Status == domain.GameStatusReady &&
			g.PublishMonth != nil && strings.HasPrefix(*g.PublishMonth, domain.ReadyPrefix) &&
			!g.LooksNaughty
	}), nil
}

func (r *GameRepository) LatestPublished(ctx context.Context) (*domain.Game, error) {
	games := r.filter(func(g *domain.Game) bool {
		return g.Status == domain.GameStatusPublished && g.PublishDate != nil
	})
	if len(games) == 0 {
		return nil, domain.ErrGameNotFound
	}
	latest := games[0]
	for _, g := range games[1:] {
		if g.PublishDate.After(*latest.PublishDate) {
			latest = g
		}
	}
	return latest, nil
}

func (r *GameRepository) Create(ctx context.Context, game *domain.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[game.ID]; ok {
		return domain.ErrGameExists
	}

	now := r.now().UTC()
	game.CreatedAt = now
	game.UpdatedAt = now
	r.games[game.ID] = game.Clone()
	r.order = append(r.order, game.ID)
	return nil
}

func (r *GameRepository) Update(ctx context.Context, id string, upd domain.GameUpdate) (*domain.Game, error) {
	return r.update(id, upd, nil)
}

func (r *GameRepository) UpdateIfOwners(ctx context.Context, id, expectedOwnerIDs string, upd domain.GameUpdate) (*domain.Game, error) {
	return r.update(id, upd, func(g *domain.Game) bool { return g.OwnerIDs == expectedOwnerIDs })
}

func (r *GameRepository) update(id string, upd domain.GameUpdate, cond func(*domain.Game) bool) (*domain.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	game, ok := r.games[id]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	if cond != nil && !cond(game) {
		return nil, domain.ErrStaleGame
	}

	if !upd.IsEmpty() {
		upd.Apply(game)
		game.UpdatedAt = r.now().UTC()
	}
	return game.Clone(), nil
}

func (r *GameRepository) filter(keep func(*domain.Game) bool) []*domain.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := []*domain.Game{}
	for _, id := range r.order {
		if g := r.games[id]; keep(g) {
			games = append(games, g.Clone())
		}
	}
	return games
}

func publishDateBefore(a, b *domain.Game) bool {
	switch {
	case a.PublishDate == nil:
		return false
	case b.PublishDate == nil:
		return true
	}
	return a.PublishDate.Before(*b.PublishDate)
}
