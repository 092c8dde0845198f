package store

import (
	"context"

	"boardmatch/backend/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Games persists the imported board-game catalog.
type Games struct {
	db *gorm.DB
}

func NewGames(db *gorm.DB) *Games {
	return &Games{db: db}
}

// Upsert inserts or refreshes a catalog entry keyed by its BGG id.
func (s *Games) Upsert(ctx context.Context, game *models.GameData) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "bgg_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "image_url", "min_players", "max_players",
				"playing_time", "complexity", "description", "updated_at",
			}),
		}).
		Create(game).Error
	return errors.Wrap(err, "upsert game")
}

func (s *Games) GetByBGGID(ctx context.Context, bggID string) (*models.GameData, error) {
	var game models.GameData
	err := s.db.WithContext(ctx).Where("bgg_id = ?", bggID).First(&game).Error
	if err != nil {
		return nil, errors.Wrapf(translate(err), "game bgg:%s", bggID)
	}
	return &game, nil
}

// SearchAfter returns up to limit catalog entries with id > afterID matching
// the name query, ordered by id. The stable id ordering is what makes the
// cursor resumable.
func (s *Games) SearchAfter(ctx context.Context, query string, afterID uint, limit int) ([]models.GameData, error) {
	q := s.db.WithContext(ctx).Model(&models.GameData{}).Where("id > ?", afterID)
	if query != "" {
		q = q.Where("name ILIKE ?", "%"+query+"%")
	}

	var games []models.GameData
	err := q.Order("id ASC").Limit(limit).Find(&games).Error
	return games, errors.Wrap(err, "search games")
}
