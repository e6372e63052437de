package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dom/hops-games/internal/domain"
	"github.com/dom/hops-games/internal/repository"
	"github.com/dom/hops-games/internal/repository/postgres"
	"github.com/dom/hops-games/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	repo := repos.Game
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		testDB.Truncate(t)

		game := testutil.NewGameBuilder().WithID("g1").WithWords("fish", "cat", "dog").Game()
		require.NoError(t, repo.Create(ctx, game))

		got, err := repo.GetByID(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "cat|dog|fish", got.WordsKey)
		assert.Equal(t, []string{"fish", "cat", "dog"}, []string(got.Words))
		assert.Equal(t, domain.GameStatusDraft, got.Status)
		assert.Nil(t, got.PublishDate)
		assert.False(t, got.CreatedAt.IsZero())

		_, err = repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrGameNotFound)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		testDB.Truncate(t)

		testutil.NewGameBuilder().WithID("g1").Build(t, repo)
		err := repo.Create(ctx, testutil.NewGameBuilder().WithID("g1").Game())
		assert.ErrorIs(t, err, domain.ErrGameExists)
	})

	t.Run("concurrent creates of one id", func(t *testing.T) {
		testDB.Truncate(t)

		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = repo.Create(ctx, testutil.NewGameBuilder().WithID("same").Game())
			}()
		}
		wg.Wait()

		created := 0
		for _, err := range errs {
			if err == nil {
				created++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrGameExists)
		}
		assert.Equal(t, 1, created)
	})

	t.Run("get by words key", func(t *testing.T) {
		testDB.Truncate(t)

		testutil.NewGameBuilder().WithID("g1").WithWords("dog", "cat").Build(t, repo)

		got, err := repo.GetByWordsKey(ctx, "cat|dog")
		require.NoError(t, err)
		assert.Equal(t, "g1", got.ID)

		_, err = repo.GetByWordsKey(ctx, "cat")
		assert.ErrorIs(t, err, domain.ErrGameNotFound)
	})

	t.Run("scan filters by containment", func(t *testing.T) {
		testDB.Truncate(t)

		testutil.NewGameBuilder().WithID("g1").WithOwners("owner-1").WithWords("cat", "dog").Build(t, repo)
		testutil.NewGameBuilder().WithID("g2").WithOwners("owner-2", "owner-1").WithWords("fish", "bird").Build(t, repo)
		testutil.NewGameBuilder().WithID("g3").WithOwners("owner-3").WithWords("100%", "cat").Build(t, repo)

		tests := []struct {
			name    string
			filter  repository.GameFilter
			wantIDs []string
		}{
			{name: "owner", filter: repository.GameFilter{OwnerID: "owner-1"}, wantIDs: []string{"g1", "g2"}},
			{name: "word", filter: repository.GameFilter{Word: "cat"}, wantIDs: []string{"g1", "g3"}},
			{name: "both", filter: repository.GameFilter{OwnerID: "owner-1", Word: "bird"}, wantIDs: []string{"g2"}},
			{name: "literal percent", filter: repository.GameFilter{Word: "%"}, wantIDs: []string{"g3"}},
			{name: "none", filter: repository.GameFilter{}, wantIDs: []string{"g1", "g2", "g3"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				games, err := repo.Scan(ctx, tt.filter)
				require.NoError(t, err)

				ids := make([]string, len(games))
				for i, g := range games {
					ids[i] = g.ID
				}
				assert.ElementsMatch(t, tt.wantIDs, ids)
			})
		}
	})

	t.Run("publish queries", func(t *testing.T) {
		testDB.Truncate(t)
		now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

		_, err := repo.LatestPublished(ctx)
		assert.ErrorIs(t, err, domain.ErrGameNotFound)

		testutil.NewGameBuilder().WithID("p1").WithWords("a", "b").Published(testutil.Date(2025, 1, 3)).Build(t, repo)
		testutil.NewGameBuilder().WithID("p2").WithWords("c", "d").Published(testutil.Date(2025, 1, 9)).Build(t, repo)
		testutil.NewGameBuilder().WithID("p3").WithWords("e", "f").Published(testutil.Date(2024, 12, 31)).Build(t, repo)
		testutil.NewGameBuilder().WithID("r1").WithWords("g", "h").Ready(now).Build(t, repo)
		testutil.NewGameBuilder().WithID("r2").WithWords("i", "j").Ready(now).Naughty().Build(t, repo)
		testutil.NewGameBuilder().WithID("d1").WithWords("k", "l").Build(t, repo)

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
		require.NotNil(t, latest.PublishDate)
		assert.True(t, testutil.Date(2025, 1, 9).Equal(*latest.PublishDate))
	})

	t.Run("update returns the new record", func(t *testing.T) {
		testDB.Truncate(t)
		stored := testutil.NewGameBuilder().WithID("g1").WithOwners("a").Build(t, repo)

		date := testutil.Date(2025, 2, 1)
		month := domain.PublishMonthFor(date)
		status := domain.GameStatusPublished
		got, err := repo.Update(ctx, "g1", domain.GameUpdate{Status: &status, PublishDate: &date, PublishMonth: &month})
		require.NoError(t, err)

		testutil.AssertPublishedOn(t, got, date)
		assert.Equal(t, "a", got.OwnerIDs)
		assert.Equal(t, stored.WordsKey, got.WordsKey)

		reread, err := repo.GetByID(ctx, "g1")
		require.NoError(t, err)
		testutil.AssertPublishedOn(t, reread, date)

		_, err = repo.Update(ctx, "missing", domain.GameUpdate{Status: &status})
		assert.ErrorIs(t, err, domain.ErrGameNotFound)

		_, err = repo.Update(ctx, "missing", domain.GameUpdate{})
		assert.ErrorIs(t, err, domain.ErrGameNotFound)
	})

	t.Run("update words", func(t *testing.T) {
		testDB.Truncate(t)
		testutil.NewGameBuilder().WithID("g1").Build(t, repo)

		got, err := repo.Update(ctx, "g1", domain.GameUpdate{Words: []string{"sun", "moon"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"sun", "moon"}, []string(got.Words))
	})

	t.Run("update if owners", func(t *testing.T) {
		testDB.Truncate(t)
		testutil.NewGameBuilder().WithID("g1").WithOwners("a").Build(t, repo)

		owners := "a|b"
		got, err := repo.UpdateIfOwners(ctx, "g1", "a", domain.GameUpdate{OwnerIDs: &owners})
		require.NoError(t, err)
		assert.Equal(t, "a|b", got.OwnerIDs)

		_, err = repo.UpdateIfOwners(ctx, "g1", "a", domain.GameUpdate{OwnerIDs: &owners})
		assert.ErrorIs(t, err, domain.ErrStaleGame)

		_, err = repo.UpdateIfOwners(ctx, "missing", "a", domain.GameUpdate{OwnerIDs: &owners})
		assert.ErrorIs(t, err, domain.ErrGameNotFound)
	})
}
