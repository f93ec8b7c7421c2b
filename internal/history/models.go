package history

import (
	"time"

	"gorm.io/datatypes"
)

// GameRecord is one finished game
type GameRecord struct {
	ID           uint           `gorm:"primaryKey"`
	RoomCode     string         `gorm:"size:16;index;not null"`
	Mode         string         `gorm:"size:32;not null"`
	Category     string         `gorm:"size:64;not null"`
	Word         string         `gorm:"size:64;not null"`
	Winner       string         `gorm:"size:32;not null"`
	Rounds       int            `gorm:"not null"`
	PlayerCount  int            `gorm:"not null"`
	Participants datatypes.JSON `gorm:"type:jsonb;not null"`
	StartedAt    time.Time      `gorm:"not null"`
	EndedAt      time.Time      `gorm:"not null"`
	CreatedAt    time.Time      `gorm:"not null"`
}
