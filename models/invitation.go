package models

import (
	"time"
)

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
	InvitationExpired  = "expired"
)

// InvitationTTL: invitations lapse 7 days after creation. Expiry is lazy —
// queries exclude stale rows, no background sweep rewrites them.
const InvitationTTL = 7 * 24 * time.Hour

type ClanInvitation struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ClanID    string    `json:"clan_id" gorm:"index;not null"`
	Email     string    `json:"email" gorm:"index;not null"` // stored lowercase
	InvitedBy string    `json:"invited_by" gorm:"not null"`
	Status    string    `json:"status" gorm:"type:varchar(16);default:'pending'"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`

	Timestamps

	Clan *Clan `json:"clan,omitempty" gorm:"foreignKey:ClanID"`
}

// Pending reports whether the invitation is still actionable at t.
func (i *ClanInvitation) Pending(t time.Time) bool {
	return i.Status == InvitationPending && t.Before(i.ExpiresAt)
}
