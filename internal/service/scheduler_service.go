package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dom/hops-games/internal/cache"
	"github.com/dom/hops-games/internal/domain"
	"github.com/dom/hops-games/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ScheduleMode decides which games a run publishes and on which days.
type ScheduleMode struct {
	Name string
	// Candidates returns the games to publish, in the order dates are handed out.
	Candidates func(ctx context.Context, repo repository.GameRepository) ([]*domain.Game, error)
	// Dates returns the publish date for the i-th candidate. today is UTC midnight.
	Dates func(ctx context.Context, repo repository.GameRepository, today time.Time) (func(i int) time.Time, error)

	EmptyMessage string
	DoneMessage  string // formatted with the scheduled count
}

// BackfillMode republishes every game, one per day counting back from today.
// It is meant for non-production tables.
var BackfillMode = ScheduleMode{
	Name: "backfill",
	Candidates: func(ctx context.Context, repo repository.GameRepository) ([]*domain.Game, error) {
		return repo.Scan(ctx, repository.GameFilter{})
	},
	Dates: func(_ context.Context, _ repository.GameRepository, today time.Time) (func(int) time.Time, error) {
		return func(i int) time.Time { return today.AddDate(0, 0, -i) }, nil
	},
	EmptyMessage: "No games found in preview table",
	DoneMessage:  "Scheduled %d games backwards in time",
}

// IncrementalMode publishes ready games one per day after the latest
// published game, or after today if nothing is published yet.
var IncrementalMode = ScheduleMode{
	Name: "incremental",
	Candidates: func(ctx context.Context, repo repository.GameRepository) ([]*domain.Game, error) {
		return repo.ListUnscheduledReady(ctx)
	},
	Dates: func(ctx context.Context, repo repository.GameRepository, today time.Time) (func(int) time.Time, error) {
		anchor := today
		latest, err := repo.LatestPublished(ctx)
		switch {
		case err == nil:
			anchor = utcMidnight(*latest.PublishDate)
		case !errors.Is(err, domain.ErrGameNotFound):
			return nil, fmt.Errorf("find latest published game: %w", err)
		}
		return func(i int) time.Time { return anchor.AddDate(0, 0, i+1) }, nil
	},
	EmptyMessage: "No games need scheduling",
	DoneMessage:  "Scheduled %d games",
}

type ScheduleResult struct {
	StatusCode int      `json:"statusCode"`
	Scheduled  int      `json:"scheduled"`
	GameIDs    []string `json:"gameIds,omitempty"`
	Message    string   `json:"message"`
}

type SchedulerService struct {
	gameRepo repository.GameRepository
	cache    *cache.GameCache
	mode     ScheduleMode
	now      func() time.Time
}

func NewSchedulerService(gameRepo repository.GameRepository, gameCache *cache.GameCache, mode ScheduleMode) *SchedulerService {
	return &SchedulerService{
		gameRepo: gameRepo,
		cache:    gameCache,
		mode:     mode,
		now:      time.Now,
	}
}

// WithClock replaces the clock used to find today.
func (s *SchedulerService) WithClock(now func() time.Time) *SchedulerService {
	s.now = now
	return s
}

func (s *SchedulerService) Mode() string {
	return s.mode.Name
}

// Run assigns publish dates and publishes the candidate games. Updates run
// concurrently; the first failure aborts the run and earlier writes stay.
func (s *SchedulerService) Run(ctx context.Context) (*ScheduleResult, error) {
	games, err := s.mode.Candidates(ctx, s.gameRepo)
	if err != nil {
		return nil, fmt.Errorf("list %s candidates: %w", s.mode.Name, err)
	}
	log.Printf("[scheduler.Run] mode=%s candidates=%d", s.mode.Name, len(games))

	if len(games) == 0 {
		return &ScheduleResult{
			StatusCode: http.StatusOK,
			Scheduled:  0,
			Message:    s.mode.EmptyMessage,
		}, nil
	}

	dateFor, err := s.mode.Dates(ctx, s.gameRepo, utcMidnight(s.now()))
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(games))
	g, gctx := errgroup.WithContext(ctx)
	for i, game := range games {
		publishDate := dateFor(i)
		publishMonth := domain.PublishMonthFor(publishDate)
		status := domain.GameStatusPublished
		ids[i] = game.ID

		g.Go(func() error {
			updated, err := s.gameRepo.Update(gctx, game.ID, domain.GameUpdate{
				PublishDate:  &publishDate,
				PublishMonth: &publishMonth,
				Status:       &status,
			})
			if err != nil {
				log.Printf("ERROR [scheduler.Run] gameID=%s: %v", game.ID, err)
				return fmt.Errorf("publish game %s: %w", game.ID, err)
			}
			if s.cache != nil {
				s.cache.Set(updated)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Printf("[scheduler.Run] mode=%s scheduled=%d", s.mode.Name, len(ids))
	return &ScheduleResult{
		StatusCode: http.StatusOK,
		Scheduled:  len(ids),
		GameIDs:    ids,
		Message:    fmt.Sprintf(s.mode.DoneMessage, len(ids)),
	}, nil
}

// RunDaily runs the scheduler every day at offset past UTC midnight until
// ctx is done. Failed runs are logged and retried the next day.
func (s *SchedulerService) RunDaily(ctx context.Context, offset time.Duration) {
	for {
		wait := untilNext(s.now(), offset)
		log.Printf("[scheduler.RunDaily] next run in %s", wait.Round(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := s.Run(ctx); err != nil {
			log.Printf("ERROR [scheduler.RunDaily]: %v", err)
		}
	}
}

// untilNext returns how long until the next moment offset past a UTC midnight.
func untilNext(now time.Time, offset time.Duration) time.Duration {
	next := utcMidnight(now).Add(offset)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

func utcMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
