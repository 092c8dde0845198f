package models

import "gorm.io/gorm"

// GameData is a catalog entry imported from the external board-game database.
// Sessions and user libraries store denormalized copies, not foreign keys.
type GameData struct {
	gorm.Model
	BGGID       string `gorm:"size:32;uniqueIndex;not null"`
	Name        string `gorm:"size:255;not null;index"`
	ImageURL    string `gorm:"size:512"`
	MinPlayers  int
	MaxPlayers  int
	PlayingTime int // minutes
	Complexity  float64
	Description string
}
