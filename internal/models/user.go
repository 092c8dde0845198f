package models

import "gorm.io/gorm"

// Role controls access to the admin surface.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ExpertiseLevel is a user's self-rated skill tier for one game.
type ExpertiseLevel string

const (
	ExpertiseNovice       ExpertiseLevel = "novice"
	ExpertiseBeginner     ExpertiseLevel = "beginner"
	ExpertiseIntermediate ExpertiseLevel = "intermediate"
	ExpertiseAdvanced     ExpertiseLevel = "advanced"
	ExpertiseExpert       ExpertiseLevel = "expert"
)

var expertiseRank = map[ExpertiseLevel]int{
	ExpertiseNovice:       0,
	ExpertiseBeginner:     1,
	ExpertiseIntermediate: 2,
	ExpertiseAdvanced:     3,
	ExpertiseExpert:       4,
}

// Valid reports whether e is one of the known expertise tiers.
func (e ExpertiseLevel) Valid() bool {
	_, ok := expertiseRank[e]
	return ok
}

// User represents a player profile, keyed by the external Discord identity.
type User struct {
	gorm.Model
	DiscordID   string `gorm:"size:64;uniqueIndex;not null"`
	DisplayName string `gorm:"size:255;not null"`
	AvatarURL   string `gorm:"size:512"`
	Role        Role   `gorm:"size:50;not null;default:'user';index"`

	GameLibrary  []GameLibraryEntry `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Availability []AvailabilitySlot `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	// Web Push subscription. An empty endpoint means the user is unsubscribed.
	PushEndpoint string `gorm:"size:1024"`
	PushP256dh   string `gorm:"size:255"`
	PushAuth     string `gorm:"size:255"`
}

// HasPushSubscription reports whether a push subscription is registered.
func (u *User) HasPushSubscription() bool {
	return u.PushEndpoint != ""
}

// GameLibraryEntry is a denormalized catalog reference in a user's library.
type GameLibraryEntry struct {
	gorm.Model
	UserID    uint           `gorm:"not null;index"`
	BGGID     string         `gorm:"size:32;not null"`
	Name      string         `gorm:"size:255;not null"`
	ImageURL  string         `gorm:"size:512"`
	Expertise ExpertiseLevel `gorm:"size:20;not null;default:'novice'"`
}

// AvailabilitySlot is a weekly recurring window in which a user can play.
type AvailabilitySlot struct {
	gorm.Model
	UserID    uint   `gorm:"not null;index"`
	DayOfWeek int    `gorm:"not null"` // 0 (Sunday) through 6 (Saturday)
	StartTime string `gorm:"size:8;not null"`
	EndTime   string `gorm:"size:8;not null"`
}
