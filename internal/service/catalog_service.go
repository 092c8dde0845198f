package service

import (
	"context"
	"log/slog"

	"boardmatch/backend/internal/models"
)

// CatalogService owns the imported board-game catalog. Entries are
// denormalized copies of the external database, refreshed at import time;
// no live join back to the source is performed.
type CatalogService struct {
	games GameStore
	log   *slog.Logger
}

func NewCatalogService(games GameStore, log *slog.Logger) *CatalogService {
	return &CatalogService{games: games, log: log}
}

// Import inserts or refreshes a catalog entry keyed by its BGG id.
func (s *CatalogService) Import(ctx context.Context, game *models.GameData) (*models.GameData, error) {
	if err := s.games.Upsert(ctx, game); err != nil {
		return nil, err
	}
	s.log.Info("catalog entry imported", "bgg_id", game.BGGID, "name", game.Name)
	return s.games.GetByBGGID(ctx, game.BGGID)
}

func (s *CatalogService) GetByBGGID(ctx context.Context, bggID string) (*models.GameData, error) {
	return s.games.GetByBGGID(ctx, bggID)
}

// Search returns one page of catalog entries matching the name query,
// resuming after afterID. It fetches one row past the page size to learn
// whether more pages remain.
func (s *CatalogService) Search(ctx context.Context, query string, afterID uint, limit int) (games []models.GameData, isDone bool, err error) {
	rows, err := s.games.SearchAfter(ctx, query, afterID, limit+1)
	if err != nil {
		return nil, false, err
	}
	if len(rows) <= limit {
		return rows, true, nil
	}
	return rows[:limit], false, nil
}
