package models

import (
	"time"
)

const (
	ActionDeleteClan      = "delete_clan"
	ActionDeleteUser      = "delete_user"
	ActionAdjustPoints    = "adjust_points"
	ActionAdjustPowerWins = "adjust_power_wins"
	ActionSetRole         = "set_role"
	ActionRecalculate     = "recalculate"
	ActionStartSeason     = "start_season"
	ActionCloseSeason     = "close_season"
)

const (
	TargetClan   = "clan"
	TargetUser   = "user"
	TargetSeason = "season"
)

// AdminAction is the append-only audit log. Rows are never updated or deleted.
type AdminAction struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	AdminID    string    `json:"admin_id" gorm:"index;not null"`
	ActionType string    `json:"action_type" gorm:"index;not null"`
	TargetType string    `json:"target_type" gorm:"not null"`
	TargetID   string    `json:"target_id" gorm:"index;not null"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}
