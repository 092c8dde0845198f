package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SessionFeedback is a post-session rating, upserted per (user, session).
type SessionFeedback struct {
	gorm.Model
	UserID    uint `gorm:"not null;uniqueIndex:idx_feedback_user_session"`
	SessionID uint `gorm:"not null;uniqueIndex:idx_feedback_user_session;index"`

	EnjoymentRating  int                       `gorm:"not null"` // 1-5
	Attended         bool                      `gorm:"not null;default:false"`
	PresentPlayerIDs datatypes.JSONSlice[uint] `gorm:"type:jsonb"`
	Comment          string

	User    User    `gorm:"foreignKey:UserID"`
	Session Session `gorm:"foreignKey:SessionID"`
}
