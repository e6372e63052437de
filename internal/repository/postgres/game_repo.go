package postgres

import (
	"context"
	"errors"

	"github.com/dom/hops-games/internal/domain"
	"github.com/dom/hops-games/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *gameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).Take(&game, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &game, nil
}

func (r *gameRepository) GetByWordsKey(ctx context.Context, wordsKey string) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).
		Where("words_key = ?", wordsKey).
		Order("created_at ASC").
		Take(&game).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &game, nil
}

func (r *gameRepository) Scan(ctx context.Context, filter repository.GameFilter) ([]*domain.Game, error) {
	q := r.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if filter.OwnerID != "" {
		q = q.Where("strpos(owner_ids, ?) > 0", filter.OwnerID)
	}
	if filter.Word != "" {
		q = q.Where("strpos(words_key, ?) > 0", filter.Word)
	}
	return r.find(q)
}

func (r *gameRepository) ListByPublishMonth(ctx context.Context, month string) ([]*domain.Game, error) {
	return r.find(r.db.WithContext(ctx).
		Where("publish_month = ?", month).
		Order("publish_date ASC"))
}

func (r *gameRepository) ListUnscheduledReady(ctx context.Context) ([]*domain.Game, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ?", domain.GameStatusReady).
		Where("publish_month LIKE ?", domain.ReadyPrefix+"%").
		Where("looks_naughty = ?", false).
		Order("created_at ASC, id ASC"))
}

func (r *gameRepository) LatestPublished(ctx context.Context) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).
		Select("id", "status", "publish_date").
		Where("status = ? AND publish_date IS NOT NULL", domain.GameStatusPublished).
		Order("publish_date DESC").
		Limit(1).
		Take(&game).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &game, nil
}

func (r *gameRepository) Create(ctx context.Context, game *domain.Game) error {
	return translateError(r.db.WithContext(ctx).Create(game).Error)
}

func (r *gameRepository) Update(ctx context.Context, id string, upd domain.GameUpdate) (*domain.Game, error) {
	return r.update(ctx, upd, "id = ?", id)
}

func (r *gameRepository) UpdateIfOwners(ctx context.Context, id, expectedOwnerIDs string, upd domain.GameUpdate) (*domain.Game, error) {
	game, err := r.update(ctx, upd, "id = ? AND owner_ids = ?", id, expectedOwnerIDs)
	if errors.Is(err, domain.ErrGameNotFound) {
		if _, getErr := r.GetByID(ctx, id); getErr == nil {
			return nil, domain.ErrStaleGame
		}
	}
	return game, err
}

func (r *gameRepository) update(ctx context.Context, upd domain.GameUpdate, query string, args ...interface{}) (*domain.Game, error) {
	if upd.IsEmpty() {
		var game domain.Game
		if err := r.db.WithContext(ctx).Where(query, args...).Take(&game).Error; err != nil {
			return nil, translateError(err)
		}
		return &game, nil
	}

	var games []domain.Game
	result := r.db.WithContext(ctx).
		Model(&games).
		Clauses(clause.Returning{}).
		Where(query, args...).
		Updates(upd.Columns())
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 || len(games) == 0 {
		return nil, domain.ErrGameNotFound
	}
	return &games[0], nil
}

func (r *gameRepository) find(q *gorm.DB) ([]*domain.Game, error) {
	games := []*domain.Game{}
	if err := q.Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrGameNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrGameExists
	}
	return err
}
