package services

import (
	"testing"

	"clan-league-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateClanStatsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	admin := NewAdminService(db)
	matches := NewMatchService(db)

	a, aProfiles := seedClan(t, db, "Alpha", "AA", 5)
	b, bProfiles := seedClan(t, db, "Bravo", "BB", 5)

	_, err := matches.ReportLoss(bProfiles[0].ID, ReportLossRequest{
		WinnerClanID: a.ID, LoserClanID: b.ID, WinnerScore: 15, LoserScore: 3,
	})
	require.NoError(t, err)
	_, err = matches.ReportLoss(aProfiles[0].ID, ReportLossRequest{
		WinnerClanID: b.ID, LoserClanID: a.ID, WinnerScore: 10, LoserScore: 9,
	})
	require.NoError(t, err)

	before := reloadClan(t, db, a.ID)

	require.NoError(t, admin.RecalculateClanStats(a.ID))
	first := reloadClan(t, db, a.ID)
	require.NoError(t, admin.RecalculateClanStats(a.ID))
	second := reloadClan(t, db, a.ID)

	// Recalculation agrees with the incremental state and with itself.
	assert.Equal(t, before.Points, first.Points)
	assert.Equal(t, before.MaxWinStreak, first.MaxWinStreak)
	assert.Equal(t, first.Points, second.Points)
	assert.Equal(t, first.MatchesWon, second.MatchesWon)
	assert.Equal(t, first.MatchesLost, second.MatchesLost)
	assert.Equal(t, first.CurrentLossStreak, second.CurrentLossStreak)
}

func TestRecalculateRepairsCorruption(t *testing.T) {
	db := setupTestDB(t)
	admin := NewAdminService(db)
	matches := NewMatchService(db)

	a, _ := seedClan(t, db, "Alpha", "AA", 5)
	b, bProfiles := seedClan(t, db, "Bravo", "BB", 5)

	_, err := matches.ReportLoss(bProfiles[0].ID, ReportLossRequest{
		WinnerClanID: a.ID, LoserClanID: b.ID, WinnerScore: 15, LoserScore: 3,
	})
	require.NoError(t, err)

	// Corrupt the aggregates out from under the history.
	require.NoError(t, db.Model(&models.Clan{}).Where("id = ?", a.ID).
		Updates(map[string]interface{}{"points": 999, "matches_won": 42}).Error)

	require.NoError(t, admin.RecalculateClanStats(a.ID))
	fixed := reloadClan(t, db, a.ID)
	assert.Equal(t, 4, fixed.Points)
	assert.Equal(t, 1, fixed.MatchesWon)
	assert.Equal(t, 1, fixed.PowerWins)

	require.NoError(t, admin.RecalculateWarriorStats(bProfiles[0].ID))
	prof := reloadProfile(t, db, bProfiles[0].ID)
	assert.Equal(t, 1, prof.Warrior.Losses)
	assert.Equal(t, 0, prof.Warrior.Wins)
}

func TestRecalculateUnknownClan(t *testing.T) {
	db := setupTestDB(t)
	admin := NewAdminService(db)

	require.ErrorIs(t, admin.RecalculateClanStats("missing"), ErrNotFound)
	require.ErrorIs(t, admin.RecalculateWarriorStats("missing"), ErrNotFound)
}

func TestDeleteClanCascadesAndRepairs(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := NewAdminService(db)
	matches := NewMatchService(db)
	admin := seedProfile(t, db)

	a, _ := seedClan(t, db, "Alpha", "AA", 5)
	b, bProfiles := seedClan(t, db, "Bravo", "BB", 5)

	_, err := matches.ReportLoss(bProfiles[0].ID, ReportLossRequest{
		WinnerClanID: a.ID, LoserClanID: b.ID, WinnerScore: 15, LoserScore: 3,
	})
	require.NoError(t, err)
	require.Equal(t, 1, reloadClan(t, db, b.ID).MatchesLost)

	require.NoError(t, adminSvc.DeleteClan(admin.ID, a.ID))

	// The clan and everything hanging off it are gone.
	var clanCount, matchCount, partCount, memberCount int64
	require.NoError(t, db.Model(&models.Clan{}).Where("id = ?", a.ID).Count(&clanCount).Error)
	require.NoError(t, db.Model(&models.Match{}).Count(&matchCount).Error)
	require.NoError(t, db.Model(&models.MatchParticipant{}).Count(&partCount).Error)
	require.NoError(t, db.Model(&models.ClanMember{}).Where("clan_id = ?", a.ID).Count(&memberCount).Error)
	assert.Zero(t, clanCount)
	assert.Zero(t, matchCount)
	assert.Zero(t, partCount)
	assert.Zero(t, memberCount)

	// The counterpart clan's aggregates no longer count the erased match.
	repaired := reloadClan(t, db, b.ID)
	assert.Zero(t, repaired.MatchesLost)
	assert.Zero(t, repaired.CurrentLossStreak)

	// Its players were repaired too.
	prof := reloadProfile(t, db, bProfiles[0].ID)
	assert.Zero(t, prof.Warrior.Losses)

	var action models.AdminAction
	require.NoError(t, db.First(&action, "action_type = ?", models.ActionDeleteClan).Error)
	assert.Equal(t, a.ID, action.TargetID)
	assert.Equal(t, admin.ID, action.AdminID)
}

func TestDeleteUserPromotesSuccessor(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := NewAdminService(db)
	admin := seedProfile(t, db)

	clan, profiles := seedClan(t, db, "Alpha", "AA", 5)
	captain := profiles[0]
	oldest := profiles[1] // earliest non-captain JoinedAt

	require.NoError(t, adminSvc.DeleteUser(admin.ID, captain.ID))

	got := reloadClan(t, db, clan.ID)
	assert.Equal(t, oldest.ID, got.CaptainID)

	var successor models.ClanMember
	require.NoError(t, db.First(&successor, "user_id = ?", oldest.ID).Error)
	assert.Equal(t, models.ClanRoleCaptain, successor.Role)

	// The deleted captain is fully gone.
	var profCount, memberCount int64
	require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", captain.ID).Count(&profCount).Error)
	require.NoError(t, db.Model(&models.ClanMember{}).Where("user_id = ?", captain.ID).Count(&memberCount).Error)
	assert.Zero(t, profCount)
	assert.Zero(t, memberCount)
}

func TestDeleteUserSoleMemberRemovesClan(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := NewAdminService(db)
	clanSvc := NewClanService(db)
	admin := seedProfile(t, db)
	founder := seedProfile(t, db)

	clan, err := clanSvc.CreateClan(founder.ID, CreateClanRequest{Name: "Solo Act", Tag: "SA"})
	require.NoError(t, err)

	require.NoError(t, adminSvc.DeleteUser(admin.ID, founder.ID))

	var clanCount int64
	require.NoError(t, db.Model(&models.Clan{}).Where("id = ?", clan.ID).Count(&clanCount).Error)
	assert.Zero(t, clanCount)
}

func TestAdjustClanPointsClampsAtZero(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := NewAdminService(db)
	admin := seedProfile(t, db)
	clan, _ := seedClan(t, db, "Alpha", "AA", 5)

	require.NoError(t, db.Model(&models.Clan{}).Where("id = ?", clan.ID).
		Update("points", 2).Error)

	require.NoError(t, adminSvc.AdjustClanPoints(admin.ID, clan.ID, -5, "settled dispute"))
	assert.Zero(t, reloadClan(t, db, clan.ID).Points)

	require.NoError(t, adminSvc.AdjustClanPoints(admin.ID, clan.ID, 7, "manual correction"))
	assert.Equal(t, 7, reloadClan(t, db, clan.ID).Points)

	actions, err := adminSvc.ListActions(10)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	details := []string{actions[0].Details, actions[1].Details}
	for _, a := range actions {
		assert.Equal(t, models.ActionAdjustPoints, a.ActionType)
	}
	assert.Contains(t, details[0]+details[1], "manual correction")
}

func TestAdjustPowerWins(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := NewAdminService(db)
	admin := seedProfile(t, db)
	clan, _ := seedClan(t, db, "Alpha", "AA", 5)

	require.NoError(t, adminSvc.AdjustPowerWins(admin.ID, clan.ID, 2, "missed power wins"))
	assert.Equal(t, 2, reloadClan(t, db, clan.ID).PowerWins)
}

func TestSetUserRole(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := NewAdminService(db)
	admin := seedProfile(t, db)
	target := seedProfile(t, db)

	require.ErrorIs(t, adminSvc.SetUserRole(admin.ID, target.ID, "superuser"), ErrValidation)

	require.NoError(t, adminSvc.SetUserRole(admin.ID, target.ID, models.RoleAdmin))
	assert.Equal(t, models.RoleAdmin, reloadProfile(t, db, target.ID).Role)
}
