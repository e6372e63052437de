package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dom/hops-games/internal/cache"
	"github.com/dom/hops-games/internal/domain"
	"github.com/dom/hops-games/internal/hops"
	"github.com/dom/hops-games/internal/repository"
	"github.com/go-playground/validator/v10"
)

// maxSubmitAttempts bounds retries after losing a race on the same words key.
const maxSubmitAttempts = 3

// LinkChecker reports whether two words are one hop apart.
type LinkChecker interface {
	Check(ctx context.Context, from, to string) hops.LinkResult
}

type GameServiceConfig struct {
	// AdminUserID may update games directly. Empty disables updates.
	AdminUserID string
	Normalize   func(string) string
	Profane     func(string) bool
	Now         func() time.Time
}

type GameService struct {
	gameRepo  repository.GameRepository
	cache     *cache.GameCache
	links     LinkChecker
	cfg       GameServiceConfig
	validator *validator.Validate
}

func NewGameService(gameRepo repository.GameRepository, gameCache *cache.GameCache, links LinkChecker, cfg GameServiceConfig) *GameService {
	if cfg.Normalize == nil {
		cfg.Normalize = strings.ToLower
	}
	if cfg.Profane == nil {
		cfg.Profane = func(string) bool { return false }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &GameService{
		gameRepo:  gameRepo,
		cache:     gameCache,
		links:     links,
		cfg:       cfg,
		validator: validator.New(),
	}
}

type GameQuery struct {
	OwnerID      string
	Word         string
	PublishMonth string
}

type CreateGameInput struct {
	Words   []string `validate:"min=2,max=5,dive,required"`
	OwnerID string
}

// GetByID returns nil without an error when the game does not exist.
func (s *GameService) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	if game, ok := s.cache.Get(id); ok {
		return game, nil
	}

	game, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrGameNotFound) {
			return nil, nil
		}
		return nil, err
	}
	s.cache.Set(game)
	return game, nil
}

// Query looks games up by publish month when one is given, and otherwise
// scans with the owner and word filters.
func (s *GameService) Query(ctx context.Context, q GameQuery) ([]*domain.Game, error) {
	if q.PublishMonth != "" {
		return s.gameRepo.ListByPublishMonth(ctx, q.PublishMonth)
	}
	return s.gameRepo.Scan(ctx, repository.GameFilter{
		OwnerID: q.OwnerID,
		Word:    q.Word,
	})
}

// Create submits a word chain on behalf of an owner. Submitting words that
// match an existing game joins it; the third owner makes it ready.
func (s *GameService) Create(ctx context.Context, input CreateGameInput) (*domain.Game, error) {
	if input.OwnerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if strings.Contains(input.OwnerID, domain.OwnerSeparator) {
		return nil, fmt.Errorf("%w: owner id may not contain %q", domain.ErrUnauthorized, domain.OwnerSeparator)
	}

	normalized := make([]string, len(input.Words))
	for i, w := range input.Words {
		normalized[i] = s.cfg.Normalize(w)
	}
	if err := s.validator.Struct(CreateGameInput{Words: normalized, OwnerID: input.OwnerID}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidWords, err)
	}
	wordsKey := domain.WordsKey(normalized)

	var err error
	for attempt := 1; attempt <= maxSubmitAttempts; attempt++ {
		var game *domain.Game
		game, err = s.submit(ctx, normalized, wordsKey, input.OwnerID)
		if errors.Is(err, domain.ErrGameExists) || errors.Is(err, domain.ErrStaleGame) {
			log.Printf("WARN [games.Create] wordsKey=%s attempt=%d: %v", wordsKey, attempt, err)
			continue
		}
		return game, err
	}
	return nil, fmt.Errorf("submit %s: %w", wordsKey, err)
}

func (s *GameService) submit(ctx context.Context, words []string, wordsKey, ownerID string) (*domain.Game, error) {
	existing, err := s.gameRepo.GetByWordsKey(ctx, wordsKey)
	switch {
	case err == nil:
		return s.join(ctx, existing, ownerID)
	case !errors.Is(err, domain.ErrGameNotFound):
		return nil, err
	}

	if err := s.checkLinks(ctx, words); err != nil {
		return nil, err
	}

	game := &domain.Game{
		ID:           domain.GameIDFor(wordsKey),
		Status:       domain.GameStatusDraft,
		OwnerIDs:     ownerID,
		WordsKey:     wordsKey,
		Words:        words,
		LooksNaughty: s.cfg.Profane(strings.Join(words, " ")),
	}
	if err := s.gameRepo.Create(ctx, game); err != nil {
		return nil, err
	}
	s.cache.Set(game)
	return game, nil
}

// join adds ownerID to a game that is not yet full.
func (s *GameService) join(ctx context.Context, game *domain.Game, ownerID string) (*domain.Game, error) {
	if game.IsFull() || game.HasOwner(ownerID) {
		return game, nil
	}

	owners := append(game.Owners(), ownerID)
	ownerIDs := strings.Join(owners, domain.OwnerSeparator)
	upd := domain.GameUpdate{OwnerIDs: &ownerIDs}
	if len(owners) == domain.MaxOwners {
		status := domain.GameStatusReady
		marker := domain.ReadyMarker(s.cfg.Now())
		upd.Status = &status
		upd.PublishMonth = &marker
	}

	updated, err := s.gameRepo.UpdateIfOwners(ctx, game.ID, game.OwnerIDs, upd)
	if err != nil {
		return nil, err
	}
	s.cache.Set(updated)
	return updated, nil
}

// checkLinks rejects words whose adjacent pairs are directly linked, in
// submitted order. A pair the words service cannot answer for counts as
// not linked.
func (s *GameService) checkLinks(ctx context.Context, words []string) error {
	pairs := make([]domain.WordPair, 0, len(words)-1)
	for i := 0; i+1 < len(words); i++ {
		pairs = append(pairs, domain.WordPair{From: words[i], To: words[i+1]})
	}

	results := make([]hops.LinkResult, len(pairs))
	var wg sync.WaitGroup
	for i, p := range pairs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.links.Check(ctx, p.From, p.To)
		}()
	}
	wg.Wait()

	var linked []domain.WordPair
	for i, p := range pairs {
		switch results[i] {
		case hops.Linked:
			linked = append(linked, p)
		case hops.Unknown:
			log.Printf("WARN [games.checkLinks] pair=%s: link unknown, treating as not linked", p)
		}
	}
	if len(linked) > 0 {
		return &domain.LinkedPairsError{Pairs: linked}
	}
	return nil
}

// Update overwrites fields of an existing game. Only the configured admin
// may call it; the fields are not revalidated.
func (s *GameService) Update(ctx context.Context, id string, upd domain.GameUpdate, callerID string) (*domain.Game, error) {
	if s.cfg.AdminUserID == "" || callerID != s.cfg.AdminUserID {
		return nil, domain.ErrNotAdmin
	}

	game, err := s.gameRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update game %s: %w", id, err)
	}
	s.cache.Set(game)
	return game, nil
}
