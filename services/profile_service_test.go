package services

import (
	"testing"
	"time"

	"clan-league-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureProfileIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)

	first, err := svc.EnsureProfile("user-1", "Shadow_77", "shadow@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "shadow@example.com", first.Email, "email stored lowercase")

	again, err := svc.EnsureProfile("user-1", "Different", "other@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.Nickname, again.Nickname, "existing row wins")
}

func TestEnsureProfileRejectsBadNickname(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)

	for _, nick := range []string{"ab", "way_too_long_for_a_nickname", "spaced out", "bad-dash"} {
		_, err := svc.EnsureProfile("user-1", nick, "a@example.com")
		assert.ErrorIs(t, err, ErrValidation, "nickname %q", nick)
	}
}

func TestChangeNicknameCooldown(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	prof := seedProfile(t, db)

	renamed, err := svc.ChangeNickname(prof.ID, "FreshName")
	require.NoError(t, err)
	assert.Equal(t, "FreshName", renamed.Nickname)
	require.NotNil(t, renamed.NicknameChangedAt)

	// Second change inside the window is refused.
	_, err = svc.ChangeNickname(prof.ID, "AnotherName")
	require.ErrorIs(t, err, ErrCooldown)

	// Re-submitting the current name is a no-op, not a cooldown hit.
	same, err := svc.ChangeNickname(prof.ID, "FreshName")
	require.NoError(t, err)
	assert.Equal(t, "FreshName", same.Nickname)

	// Once the window has passed the change goes through.
	past := time.Now().Add(-NicknameCooldown - time.Hour)
	require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", prof.ID).
		Update("nickname_changed_at", past).Error)

	_, err = svc.ChangeNickname(prof.ID, "AnotherName")
	require.NoError(t, err)
}

func TestChangeNicknameTaken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	a := seedProfile(t, db)
	b := seedProfile(t, db)

	_, err := svc.ChangeNickname(a.ID, b.Nickname)
	require.ErrorIs(t, err, ErrConflict)
}

func TestHeartbeat(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	prof := seedProfile(t, db)

	require.NoError(t, svc.Heartbeat(prof.ID))
	got := reloadProfile(t, db, prof.ID)
	assert.True(t, got.IsOnline)
	require.NotNil(t, got.LastSeen)

	require.ErrorIs(t, svc.Heartbeat("missing-user"), ErrNotFound)
}

func TestWarriorRankingsOrdering(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)

	set := func(id string, points, wins int) {
		require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", id).
			Updates(map[string]interface{}{"warrior_points": points, "warrior_wins": wins}).Error)
	}
	a := seedProfile(t, db)
	b := seedProfile(t, db)
	c := seedProfile(t, db)
	set(a.ID, 12, 4)
	set(b.ID, 12, 5)
	set(c.ID, 9, 3)

	rankings, err := svc.WarriorRankings(10)
	require.NoError(t, err)
	require.Len(t, rankings, 3)
	assert.Equal(t, b.ID, rankings[0].ID, "same points, more wins ranks first")
	assert.Equal(t, a.ID, rankings[1].ID)
	assert.Equal(t, c.ID, rankings[2].ID)
}
