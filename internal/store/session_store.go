package store

import (
	"context"

	"boardmatch/backend/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionFilter narrows session listings. Zero values mean "no constraint".
type SessionFilter struct {
	Status        models.SessionStatus
	HostID        uint
	ExcludeHostID uint
	ExcludeIDs    []uint
	Limit         int
	Offset        int
}

// Sessions persists game sessions and their player sets.
type Sessions struct {
	db *gorm.DB
}

func NewSessions(db *gorm.DB) *Sessions {
	return &Sessions{db: db}
}

func (s *Sessions) Create(ctx context.Context, session *models.Session) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(session).Error
	return errors.Wrap(err, "create session")
}

func (s *Sessions) Get(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).
		Preload("Host").
		Preload("Players").
		Preload("InterestedPlayers").
		First(&session, id).Error
	if err != nil {
		return nil, errors.Wrapf(translate(err), "session %d", id)
	}
	return &session, nil
}

// Update writes the session's scalar columns, including status.
func (s *Sessions) Update(ctx context.Context, session *models.Session) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(session).Error
	return errors.Wrap(err, "update session")
}

// List returns sessions matching the filter, soonest scheduled first.
// Unscheduled sessions sort last, newest first among themselves.
func (s *Sessions) List(ctx context.Context, filter SessionFilter) ([]models.Session, error) {
	query := s.db.WithContext(ctx).Model(&models.Session{}).
		Preload("Host").
		Preload("Players").
		Preload("InterestedPlayers")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.HostID != 0 {
		query = query.Where("host_id = ?", filter.HostID)
	}
	if filter.ExcludeHostID != 0 {
		query = query.Where("host_id <> ?", filter.ExcludeHostID)
	}
	if len(filter.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", filter.ExcludeIDs)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var sessions []models.Session
	err := query.Order("scheduled_at ASC NULLS LAST, created_at DESC").Find(&sessions).Error
	return sessions, errors.Wrap(err, "list sessions")
}

func (s *Sessions) AddPlayer(ctx context.Context, sessionID, userID uint) error {
	session := models.Session{Model: gorm.Model{ID: sessionID}}
	user := models.User{Model: gorm.Model{ID: userID}}
	err := s.db.WithContext(ctx).Model(&session).Association("Players").Append(&user)
	return errors.Wrap(err, "add player")
}

func (s *Sessions) RemovePlayer(ctx context.Context, sessionID, userID uint) error {
	session := models.Session{Model: gorm.Model{ID: sessionID}}
	user := models.User{Model: gorm.Model{ID: userID}}
	err := s.db.WithContext(ctx).Model(&session).Association("Players").Delete(&user)
	return errors.Wrap(err, "remove player")
}

func (s *Sessions) AddInterested(ctx context.Context, sessionID, userID uint) error {
	session := models.Session{Model: gorm.Model{ID: sessionID}}
	user := models.User{Model: gorm.Model{ID: userID}}
	err := s.db.WithContext(ctx).Model(&session).Association("InterestedPlayers").Append(&user)
	return errors.Wrap(err, "add interested player")
}

func (s *Sessions) RemoveInterested(ctx context.Context, sessionID, userID uint) error {
	session := models.Session{Model: gorm.Model{ID: sessionID}}
	user := models.User{Model: gorm.Model{ID: userID}}
	err := s.db.WithContext(ctx).Model(&session).Association("InterestedPlayers").Delete(&user)
	return errors.Wrap(err, "remove interested player")
}
