package models

import (
	"time"
)

// Timestamps adds GORM auto-times. No soft delete: admin removal is a hard
// cascade followed by aggregate repair, so tombstones would only get in the way.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
