package models

import (
	"time"
)

const (
	MatchMode5v5 = "5v5"
	MatchMode3v3 = "3v3"
	MatchMode1v1 = "1v1"
)

const (
	TeamWinner = "winner"
	TeamLoser  = "loser"
)

// Point values per settled match. A power win is a score differential of 5 or
// more and pays the bonus rate.
const (
	BasePoints     = 3
	PowerWinPoints = 4
	PowerWinMargin = 5
)

// Match is an immutable settlement record. Rows are only ever removed by the
// admin deletion cascade, which is followed by aggregate recalculation.
type Match struct {
	ID           string `json:"id" gorm:"primaryKey"`
	WinnerClanID string `json:"winner_clan_id" gorm:"index;not null"`
	LoserClanID  string `json:"loser_clan_id" gorm:"index;not null"`
	WinnerScore  int    `json:"winner_score" gorm:"not null"`
	LoserScore   int    `json:"loser_score" gorm:"not null"`

	PointsAwarded int  `json:"points_awarded" gorm:"not null"`
	PowerWin      bool `json:"power_win" gorm:"default:false"`

	MatchMode  string  `json:"match_mode" gorm:"type:varchar(8);default:'5v5'"`
	ReportedBy string  `json:"reported_by" gorm:"not null"`
	SeasonID   *string `json:"season_id,omitempty" gorm:"index"` // nil = recorded outside any season
	Notes      string  `json:"notes,omitempty"`

	// Guards against duplicate rows when a reporter retries after a partial
	// failure.
	IdempotencyKey string `json:"-" gorm:"uniqueIndex;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`

	Participants []MatchParticipant `json:"participants,omitempty" gorm:"foreignKey:MatchID"`
}

// MatchParticipant attributes the outcome to one member of either roster.
type MatchParticipant struct {
	ID      string `json:"id" gorm:"primaryKey"`
	MatchID string `json:"match_id" gorm:"index;not null"`
	UserID  string `json:"user_id" gorm:"index;not null"`
	ClanID  string `json:"clan_id" gorm:"index;not null"`
	Team    string `json:"team" gorm:"type:varchar(8);not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
