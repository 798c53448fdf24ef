package models

import (
	"time"
)

const (
	BadgeGold   = "gold"
	BadgeSilver = "silver"
	BadgeBronze = "bronze"
)

const (
	BadgeCategoryClan    = "clan"
	BadgeCategoryWarrior = "warrior"
)

// BadgeTypeForRank maps a final rank to its badge, or "" for ranks off the
// podium.
func BadgeTypeForRank(rank int) string {
	switch rank {
	case 1:
		return BadgeGold
	case 2:
		return BadgeSilver
	case 3:
		return BadgeBronze
	default:
		return ""
	}
}

// Badge is awarded only by season close, never mutated afterwards.
type Badge struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	SeasonID  string    `json:"season_id" gorm:"index;not null"`
	TargetID  string    `json:"target_id" gorm:"index;not null"` // clan id or user id per Category
	Category  string    `json:"category" gorm:"type:varchar(8);not null"`
	BadgeType string    `json:"badge_type" gorm:"type:varchar(8);not null"`
	Rank      int       `json:"rank" gorm:"not null"`
	AwardedAt time.Time `json:"awarded_at" gorm:"autoCreateTime"`
}
