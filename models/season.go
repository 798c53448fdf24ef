package models

import (
	"time"
)

// Season is a bounded ranking period. At most one row has IsActive set.
// Closing is an explicit admin action only: client-driven auto-rotation was
// dropped after timezone skew between client and server clocks closed seasons
// early, and no background trigger replaces it.
type Season struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Number    int       `json:"number" gorm:"uniqueIndex;not null"`
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"index;default:false"`

	Timestamps
}

// SeasonClanStats is the frozen snapshot of one clan's standing written at
// season close. Immutable once written.
type SeasonClanStats struct {
	ID       string `json:"id" gorm:"primaryKey"`
	SeasonID string `json:"season_id" gorm:"index:idx_season_clan,unique;not null"`
	ClanID   string `json:"clan_id" gorm:"index:idx_season_clan,unique;not null"`

	// Denormalized so standings survive later clan deletion.
	ClanName string `json:"clan_name"`
	ClanTag  string `json:"clan_tag"`

	Points        int `json:"points"`
	PowerWins     int `json:"power_wins"`
	MatchesPlayed int `json:"matches_played"`
	MatchesWon    int `json:"matches_won"`
	MatchesLost   int `json:"matches_lost"`
	MaxWinStreak  int `json:"max_win_streak"`

	FinalRank int `json:"final_rank" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// SeasonWarriorStats is the per-player counterpart to SeasonClanStats.
type SeasonWarriorStats struct {
	ID       string `json:"id" gorm:"primaryKey"`
	SeasonID string `json:"season_id" gorm:"index:idx_season_warrior,unique;not null"`
	UserID   string `json:"user_id" gorm:"index:idx_season_warrior,unique;not null"`

	Nickname string `json:"nickname"`

	Points       int `json:"points"`
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	PowerWins    int `json:"power_wins"`
	MaxWinStreak int `json:"max_win_streak"`

	FinalRank int `json:"final_rank" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
