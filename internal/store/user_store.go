package store

import (
	"context"

	"boardmatch/backend/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Users persists user profiles, their libraries and availability windows.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (s *Users) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("GameLibrary").
		Preload("Availability").
		First(&user, id).Error
	if err != nil {
		return nil, errors.Wrapf(translate(err), "user %d", id)
	}
	return &user, nil
}

func (s *Users) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("GameLibrary").
		Preload("Availability").
		Where("discord_id = ?", discordID).
		First(&user).Error
	if err != nil {
		return nil, errors.Wrapf(translate(err), "user discord:%s", discordID)
	}
	return &user, nil
}

// UpsertByDiscordID inserts the user or, when a row with the same discord id
// already exists, updates its display name and avatar. A single conditional
// write, so two concurrent upserts for the same identity cannot both insert.
func (s *Users) UpsertByDiscordID(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "discord_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "avatar_url", "updated_at"}),
		}).
		Create(user).Error
	return errors.Wrap(err, "upsert user")
}

// Save writes the user's scalar columns. Associations are replaced through
// ReplaceLibrary / ReplaceAvailability, never here.
func (s *Users) Save(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
	return errors.Wrap(err, "save user")
}

func (s *Users) ReplaceLibrary(ctx context.Context, userID uint, entries []models.GameLibraryEntry) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.GameLibraryEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		for i := range entries {
			entries[i].UserID = userID
		}
		return tx.Create(&entries).Error
	})
	return errors.Wrap(err, "replace game library")
}

func (s *Users) ReplaceAvailability(ctx context.Context, userID uint, slots []models.AvailabilitySlot) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.AvailabilitySlot{}).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return nil
		}
		for i := range slots {
			slots[i].UserID = userID
		}
		return tx.Create(&slots).Error
	})
	return errors.Wrap(err, "replace availability")
}
