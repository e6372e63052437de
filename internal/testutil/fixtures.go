package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dom/hops-games/internal/domain"
	"github.com/dom/hops-games/internal/repository"
	"github.com/google/uuid"
)

// GameBuilder creates test games with a builder pattern
type GameBuilder struct {
	game domain.Game
}

// NewGameBuilder creates a draft game with one owner and three words
func NewGameBuilder() *GameBuilder {
	return &GameBuilder{game: domain.Game{
		ID:       uuid.New().String(),
		Status:   domain.GameStatusDraft,
		OwnerIDs: fmt.Sprintf("owner_%s", uuid.New().String()[:8]),
		WordsKey: "cat|dog|fish",
		Words:    []string{"cat", "dog", "fish"},
	}}
}

// WithID sets the id
func (b *GameBuilder) WithID(id string) *GameBuilder {
	b.game.ID = id
	return b
}

// WithOwners sets the owners in join order
func (b *GameBuilder) WithOwners(owners ...string) *GameBuilder {
	b.game.OwnerIDs = strings.Join(owners, domain.OwnerSeparator)
	return b
}

// WithWords sets the words and derives the words key
func (b *GameBuilder) WithWords(words ...string) *GameBuilder {
	b.game.Words = words
	b.game.WordsKey = domain.WordsKey(words)
	return b
}

// WithStatus sets the status
func (b *GameBuilder) WithStatus(status domain.GameStatus) *GameBuilder {
	b.game.Status = status
	return b
}

// Naughty marks the game as looking naughty
func (b *GameBuilder) Naughty() *GameBuilder {
	b.game.LooksNaughty = true
	return b
}

// Ready makes the game ready with three owners and the ready marker
func (b *GameBuilder) Ready(at time.Time) *GameBuilder {
	marker := domain.ReadyMarker(at)
	b.game.Status = domain.GameStatusReady
	b.game.PublishMonth = &marker
	if len(b.game.Owners()) < domain.MaxOwners {
		b.game.OwnerIDs = strings.Join([]string{"owner1", "owner2", "owner3"}, domain.OwnerSeparator)
	}
	return b
}

// Published publishes the game on date
func (b *GameBuilder) Published(date time.Time) *GameBuilder {
	month := domain.PublishMonthFor(date)
	b.game.Status = domain.GameStatusPublished
	b.game.PublishDate = &date
	b.game.PublishMonth = &month
	return b
}

// Game returns the game without storing it
func (b *GameBuilder) Game() *domain.Game {
	return b.game.Clone()
}

// Build stores the game in repo and returns it
func (b *GameBuilder) Build(t *testing.T, repo repository.GameRepository) *domain.Game {
	t.Helper()

	game := b.Game()
	if err := repo.Create(context.Background(), game); err != nil {
		t.Fatalf("failed to create game: %v", err)
	}
	return game
}

// SeedGames stores count distinct draft games
func SeedGames(t *testing.T, repo repository.GameRepository, count int) []*domain.Game {
	t.Helper()

	games := make([]*domain.Game, count)
	for i := 0; i < count; i++ {
		games[i] = NewGameBuilder().
			WithWords(fmt.Sprintf("alpha%d", i), fmt.Sprintf("beta%d", i)).
			Build(t, repo)
	}
	return games
}

// Date returns UTC midnight of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FixedClock returns a clock stuck at t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
