package models

import (
	"time"
)

const (
	ClanRoleCaptain = "captain"
	ClanRoleMember  = "member"
)

// Roster bounds. The store does not enforce these; every mutating path
// re-counts immediately before writing.
const (
	MinRosterSize = 5
	MaxRosterSize = 10
)

type Clan struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Tag         string `json:"tag" gorm:"uniqueIndex;not null;type:varchar(5)"` // stored uppercase
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url,omitempty"`

	// CaptainID must always reference a current member.
	CaptainID string `json:"captain_id" gorm:"index;not null"`

	Points            int `json:"points" gorm:"default:0"`
	PowerWins         int `json:"power_wins" gorm:"default:0"`
	MatchesPlayed     int `json:"matches_played" gorm:"default:0"`
	MatchesWon        int `json:"matches_won" gorm:"default:0"`
	MatchesLost       int `json:"matches_lost" gorm:"default:0"`
	CurrentWinStreak  int `json:"current_win_streak" gorm:"default:0"`
	CurrentLossStreak int `json:"current_loss_streak" gorm:"default:0"`
	MaxWinStreak      int `json:"max_win_streak" gorm:"default:0"`

	Timestamps

	// Relationships
	Members []ClanMember `json:"members,omitempty" gorm:"foreignKey:ClanID"`

	// Calculated fields (not stored in DB)
	MemberCount int64 `json:"member_count,omitempty" gorm:"-"`
}

// ClanMember links a profile to its clan. The unique index on UserID is the
// store-level backstop for the one-clan-per-user rule.
type ClanMember struct {
	ID       string    `json:"id" gorm:"primaryKey"`
	ClanID   string    `json:"clan_id" gorm:"index;not null"`
	UserID   string    `json:"user_id" gorm:"uniqueIndex;not null"`
	Role     string    `json:"role" gorm:"type:varchar(16);default:'member'"`
	JoinedAt time.Time `json:"joined_at" gorm:"autoCreateTime"`

	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}
