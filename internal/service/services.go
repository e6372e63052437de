package service

import (
	"github.com/dom/hops-games/internal/cache"
	"github.com/dom/hops-games/internal/config"
	"github.com/dom/hops-games/internal/hops"
	"github.com/dom/hops-games/internal/repository"
	"github.com/dom/hops-games/internal/words"
)

type Services struct {
	Game      *GameService
	Scheduler *SchedulerService
}

// NewServices wires the services over repos. The game service and scheduler
// share one cache so scheduled games read back fresh.
func NewServices(repos *repository.Repositories, cfg *config.Config) (*Services, error) {
	gameCache, err := cache.NewGameCache(cfg.GameCacheSize)
	if err != nil {
		return nil, err
	}

	links := hops.NewClient(hops.Config{
		BaseURL:     cfg.HopsAPIURL,
		HeaderName:  cfg.InternalSecretHeaderName,
		HeaderValue: cfg.InternalSecretHeaderValue,
		Timeout:     cfg.HopsTimeout,
	})

	return &Services{
		Game: NewGameService(repos.Game, gameCache, links, GameServiceConfig{
			AdminUserID: cfg.AdminUserID,
			Normalize:   words.Normalize,
			Profane:     words.LooksNaughty,
		}),
		Scheduler: NewSchedulerService(repos.Game, gameCache, ScheduleModeFor(cfg)),
	}, nil
}

// ScheduleModeFor picks the incremental scheduler in production and the
// backfill scheduler everywhere else.
func ScheduleModeFor(cfg *config.Config) ScheduleMode {
	if cfg.IsProduction() {
		return IncrementalMode
	}
	return BackfillMode
}
