package repository

import (
	"context"

	"github.com/dom/hops-games/internal/domain"
)

// GameFilter narrows a scan. Empty fields impose no constraint.
type GameFilter struct {
	OwnerID string // contained in owner_ids
	Word    string // contained in words_key
}

// GameRepository stores games. Lookups return domain.ErrGameNotFound when
// nothing matches; list methods return an empty slice instead.
type GameRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Game, error)
	GetByWordsKey(ctx context.Context, wordsKey string) (*domain.Game, error)

	// Scan walks every game, oldest first, applying filter as contains-matches.
	Scan(ctx context.Context, filter GameFilter) ([]*domain.Game, error)
	ListByPublishMonth(ctx context.Context, month string) ([]*domain.Game, error)
	// ListUnscheduledReady returns ready, not naughty games still carrying the
	// ready marker in their publish month.
	ListUnscheduledReady(ctx context.Context) ([]*domain.Game, error)
	// LatestPublished returns the published game with the latest publish date.
	LatestPublished(ctx context.Context) (*domain.Game, error)

	// Create inserts game, failing with domain.ErrGameExists if the id is taken.
	Create(ctx context.Context, game *domain.Game) error
	// Update applies upd to an existing game and returns the stored result.
	Update(ctx context.Context, id string, upd domain.GameUpdate) (*domain.Game, error)
	// UpdateIfOwners is Update guarded by the owner list read earlier. It fails
	// with domain.ErrStaleGame when the stored owners differ.
	UpdateIfOwners(ctx context.Context, id, expectedOwnerIDs string, upd domain.GameUpdate) (*domain.Game, error)
}

type Repositories struct {
	Game GameRepository
}
