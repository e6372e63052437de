package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/hops-games/internal/domain"
	"github.com/dom/hops-games/internal/repository"
	"github.com/dom/hops-games/internal/repository/memory"
	"github.com/dom/hops-games/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()

	game := testutil.NewGameBuilder().WithID("g1").Game()
	require.NoError(t, repo.Create(ctx, game))
	assert.False(t, game.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, game.WordsKey, got.WordsKey)

	assert.ErrorIs(t, repo.Create(ctx, testutil.NewGameBuilder().WithID("g1").Game()), domain.ErrGameExists)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestGameRepository_GetByWordsKey(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()
	testutil.NewGameBuilder().WithID("g1").WithWords("dog", "cat").Build(t, repo)

	got, err := repo.GetByWordsKey(ctx, "cat|dog")
	require.NoError(t, err)
	assert.Equal(t, "g1", got.ID)

	_, err = repo.GetByWordsKey(ctx, "cat")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestGameRepository_Scan(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()
	testutil.NewGameBuilder().WithID("g1").WithOwners("owner-1").WithWords("cat", "dog").Build(t, repo)
	testutil.NewGameBuilder().WithID("g2").WithOwners("owner-2", "owner-1").WithWords("fish", "bird").Build(t, repo)

	games, err := repo.Scan(ctx, repository.GameFilter{OwnerID: "owner-1", Word: "bird"})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "g2", games[0].ID)

	games, err = repo.Scan(ctx, repository.GameFilter{})
	require.NoError(t, err)
	assert.Len(t, games, 2)
}

func TestGameRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()
	testutil.NewGameBuilder().WithID("g1").WithOwners("a").Build(t, repo)

	owners := "a|b"
	got, err := repo.UpdateIfOwners(ctx, "g1", "a", domain.GameUpdate{OwnerIDs: &owners})
	require.NoError(t, err)
	assert.Equal(t, "a|b", got.OwnerIDs)

	_, err = repo.UpdateIfOwners(ctx, "g1", "a", domain.GameUpdate{OwnerIDs: &owners})
	assert.ErrorIs(t, err, domain.ErrStaleGame)

	_, err = repo.Update(ctx, "missing", domain.GameUpdate{OwnerIDs: &owners})
	assert.ErrorIs(t, err, domain.ErrGameNotFound)

	got, err = repo.Update(ctx, "g1", domain.GameUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "a|b", got.OwnerIDs)
}

func TestGameRepository_PublishQueries(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewGameRepository()
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	testutil.NewGameBuilder().WithID("p2").WithWords("a", "b").Published(testutil.Date(2025, 1, 9)).Build(t, repo)
	testutil.NewGameBuilder().WithID("p1").WithWords("c", "d").Published(testutil.Date(2025, 1, 3)).Build(t, repo)
	testutil.NewGameBuilder().WithID("r1").WithWords("e", "f").Ready(now).Build(t, repo)
	testutil.NewGameBuilder().WithID("r2").WithWords("g", "h").Ready(now).Naughty().Build(t, repo)

	games, err := repo.ListByPublishMonth(ctx, "2025-01")
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "p1", games[0].ID)
	assert.Equal(t, "p2", games[1].ID)

	ready, err := repo.ListUnscheduledReady(ctx)
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, "r1", ready[0].ID)

	latest, err := repo.LatestPublished(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p2", latest.ID)

	_, err = memory.NewGameRepository().LatestPublished(ctx)
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}
