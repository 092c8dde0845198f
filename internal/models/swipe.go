package models

import "gorm.io/gorm"

// SwipeAction is a user's decision about a candidate session.
type SwipeAction string

const (
	SwipeLike SwipeAction = "like"
	SwipePass SwipeAction = "pass"
)

// UserSwipe records exactly one outcome per (user, session) pair.
// A later submission for the same pair overwrites the prior one.
type UserSwipe struct {
	gorm.Model
	UserID    uint        `gorm:"not null;uniqueIndex:idx_swipe_user_session"`
	SessionID uint        `gorm:"not null;uniqueIndex:idx_swipe_user_session;index"`
	Action    SwipeAction `gorm:"size:10;not null"`

	User    User    `gorm:"foreignKey:UserID"`
	Session Session `gorm:"foreignKey:SessionID"`
}
