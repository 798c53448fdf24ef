package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// WarriorStats are the live per-player aggregates maintained incrementally by
// match settlement and rebuilt from history by the admin recalculation path.
type WarriorStats struct {
	Points            int `json:"points" gorm:"default:0"`
	Wins              int `json:"wins" gorm:"default:0"`
	Losses            int `json:"losses" gorm:"default:0"`
	PowerWins         int `json:"power_wins" gorm:"default:0"`
	CurrentWinStreak  int `json:"current_win_streak" gorm:"default:0"`
	CurrentLossStreak int `json:"current_loss_streak" gorm:"default:0"`
	MaxWinStreak      int `json:"max_win_streak" gorm:"default:0"`
}

// Profile is the local mirror of a registered user plus their warrior
// aggregates. Identity fields are owned by the auth/profile service and kept
// fresh by the sync worker; stats columns are owned exclusively by this
// service and never overwritten by sync.
type Profile struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Nickname  string `json:"nickname" gorm:"uniqueIndex;not null"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role" gorm:"type:varchar(16);default:'user'"`

	IsOnline bool       `json:"is_online" gorm:"default:false"`
	LastSeen *time.Time `json:"last_seen,omitempty"`

	// Nickname changes are rate-limited to one per 30 days.
	NicknameChangedAt *time.Time `json:"nickname_changed_at,omitempty"`

	Warrior WarriorStats `json:"warrior" gorm:"embedded;embeddedPrefix:warrior_"`

	Timestamps
}
