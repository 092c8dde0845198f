package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionStatus is the lifecycle state of a game session.
type SessionStatus string

const (
	StatusProposed    SessionStatus = "proposed"
	StatusEstablished SessionStatus = "established"
	StatusConfirmed   SessionStatus = "confirmed"
	StatusCompleted   SessionStatus = "completed"
	StatusCancelled   SessionStatus = "cancelled"
)

var statusRank = map[SessionStatus]int{
	StatusProposed:    0,
	StatusEstablished: 1,
	StatusConfirmed:   2,
	StatusCompleted:   3,
}

// Valid reports whether s is a known status value.
func (s SessionStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transitions are allowed from s.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the status machine permits moving from s
// to next: one step forward along proposed -> established -> confirmed ->
// completed, or to cancelled from any non-terminal status.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}

// Session represents a proposed or scheduled gathering around one game.
// Sessions are never deleted; cancellation is a status value.
type Session struct {
	gorm.Model
	HostID uint `gorm:"not null;index"`

	// Denormalized catalog reference, copied at creation time.
	GameBGGID    string `gorm:"size:32;not null"`
	GameName     string `gorm:"size:255;not null"`
	GameImageURL string `gorm:"size:512"`

	Status      SessionStatus `gorm:"size:20;not null;default:'proposed';index"`
	ScheduledAt *time.Time    `gorm:"index"`
	MinPlayers  int           `gorm:"not null"`
	MaxPlayers  int           `gorm:"not null"`
	Channel     string        `gorm:"size:64"`
	Description string
	Location    string `gorm:"size:255"`

	Host              User   `gorm:"foreignKey:HostID"`
	Players           []User `gorm:"many2many:session_players;"`
	InterestedPlayers []User `gorm:"many2many:session_interested_players;"`
}

// HasPlayer reports whether userID is in the session's player set.
func (s *Session) HasPlayer(userID uint) bool {
	for _, p := range s.Players {
		if p.ID == userID {
			return true
		}
	}
	return false
}
