package services

import (
	"testing"

	"clan-league-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentSeasonBootstrapsOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)

	first, err := svc.CurrentSeason()
	require.NoError(t, err)
	assert.Equal(t, "Season 1", first.Name)
	assert.Equal(t, 1, first.Number)
	assert.True(t, first.IsActive)

	again, err := svc.CurrentSeason()
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	var total int64
	require.NoError(t, db.Model(&models.Season{}).Count(&total).Error)
	assert.EqualValues(t, 1, total)
}

func TestCurrentSeasonNotFoundBetweenSeasons(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	admin := seedProfile(t, db)

	season, err := svc.CurrentSeason()
	require.NoError(t, err)
	require.NoError(t, svc.CloseSeason(admin.ID, season.ID))

	// A closed season does not re-bootstrap: the gap is explicit.
	_, err = svc.CurrentSeason()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStartNewSeason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	admin := seedProfile(t, db)

	first, err := svc.CurrentSeason()
	require.NoError(t, err)

	// Refused while one is active.
	_, err = svc.StartNewSeason(admin.ID, StartSeasonRequest{Name: "Season 2", Number: 2, DurationDays: 60})
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, svc.CloseSeason(admin.ID, first.ID))

	// Number must advance past the closed one.
	_, err = svc.StartNewSeason(admin.ID, StartSeasonRequest{Name: "Season 1 again", Number: 1, DurationDays: 60})
	require.ErrorIs(t, err, ErrConflict)

	second, err := svc.StartNewSeason(admin.ID, StartSeasonRequest{Name: "Season 2", Number: 2, DurationDays: 60})
	require.NoError(t, err)
	assert.True(t, second.IsActive)

	var action models.AdminAction
	require.NoError(t, db.First(&action, "action_type = ?", models.ActionStartSeason).Error)
	assert.Equal(t, second.ID, action.TargetID)
}

func TestCloseSeason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	matches := NewMatchService(db)
	admin := seedProfile(t, db)

	season, err := svc.CurrentSeason()
	require.NoError(t, err)

	a, _ := seedClan(t, db, "Alpha", "AA", 5)
	b, _ := seedClan(t, db, "Bravo", "BB", 5)
	c, cProfiles := seedClan(t, db, "Charlie", "CC", 5)

	// Bravo beats Charlie twice (one power win), Alpha beats Charlie once.
	_, err = matches.ReportLoss(cProfiles[0].ID, ReportLossRequest{
		WinnerClanID: b.ID, LoserClanID: c.ID, WinnerScore: 15, LoserScore: 5,
	})
	require.NoError(t, err)
	_, err = matches.ReportLoss(cProfiles[0].ID, ReportLossRequest{
		WinnerClanID: b.ID, LoserClanID: c.ID, WinnerScore: 10, LoserScore: 8,
	})
	require.NoError(t, err)
	_, err = matches.ReportLoss(cProfiles[0].ID, ReportLossRequest{
		WinnerClanID: a.ID, LoserClanID: c.ID, WinnerScore: 9, LoserScore: 6,
	})
	require.NoError(t, err)

	require.NoError(t, svc.CloseSeason(admin.ID, season.ID))

	// Frozen table: Bravo (7 pts) > Alpha (3 pts) > Charlie (0 pts).
	standings, err := svc.ClanStandings(season.ID)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, "Bravo", standings[0].ClanName)
	assert.Equal(t, 1, standings[0].FinalRank)
	assert.Equal(t, 7, standings[0].Points)
	assert.Equal(t, 1, standings[0].PowerWins)
	assert.Equal(t, "Alpha", standings[1].ClanName)
	assert.Equal(t, "Charlie", standings[2].ClanName)

	// Podium badges, one per rank.
	badges, err := svc.BadgesFor(b.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, models.BadgeGold, badges[0].BadgeType)
	assert.Equal(t, models.BadgeCategoryClan, badges[0].Category)

	badges, err = svc.BadgesFor(c.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, models.BadgeBronze, badges[0].BadgeType)

	// Live counters reset for the next season.
	for _, id := range []string{a.ID, b.ID, c.ID} {
		clan := reloadClan(t, db, id)
		assert.Zero(t, clan.Points)
		assert.Zero(t, clan.MatchesPlayed)
		assert.Zero(t, clan.MaxWinStreak)
	}
	prof := reloadProfile(t, db, cProfiles[0].ID)
	assert.Zero(t, prof.Warrior.Losses)

	// Season deactivated; a second close is refused, never a double award.
	var stored models.Season
	require.NoError(t, db.First(&stored, "id = ?", season.ID).Error)
	assert.False(t, stored.IsActive)
	require.ErrorIs(t, svc.CloseSeason(admin.ID, season.ID), ErrConflict)

	var badgeCount int64
	require.NoError(t, db.Model(&models.Badge{}).Count(&badgeCount).Error)
	assert.EqualValues(t, 6, badgeCount, "3 clan podium + 3 warrior podium")
}

func TestCloseSeasonTieBreak(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	admin := seedProfile(t, db)

	season, err := svc.CurrentSeason()
	require.NoError(t, err)

	a, _ := seedClan(t, db, "Alpha", "AA", 5)
	b, _ := seedClan(t, db, "Bravo", "BB", 5)
	c, _ := seedClan(t, db, "Charlie", "CC", 5)

	set := func(id string, points, won, played int) {
		require.NoError(t, db.Model(&models.Clan{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"points": points, "matches_won": won, "matches_played": played,
			}).Error)
	}
	// Equal points: wins decide. Equal wins too: name decides.
	set(a.ID, 10, 3, 5)
	set(b.ID, 10, 4, 5)
	set(c.ID, 10, 3, 5)

	require.NoError(t, svc.CloseSeason(admin.ID, season.ID))

	standings, err := svc.ClanStandings(season.ID)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, []string{"Bravo", "Alpha", "Charlie"},
		[]string{standings[0].ClanName, standings[1].ClanName, standings[2].ClanName})
}

func TestWarriorSnapshotAndStandings(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSeasonService(db)
	matches := NewMatchService(db)
	admin := seedProfile(t, db)

	season, err := svc.CurrentSeason()
	require.NoError(t, err)

	a, aProfiles := seedClan(t, db, "Alpha", "AA", 5)
	b, bProfiles := seedClan(t, db, "Bravo", "BB", 5)

	_, err = matches.ReportLoss(bProfiles[0].ID, ReportLossRequest{
		WinnerClanID: a.ID, LoserClanID: b.ID, WinnerScore: 15, LoserScore: 2,
	})
	require.NoError(t, err)

	require.NoError(t, svc.CloseSeason(admin.ID, season.ID))

	rows, err := svc.WarriorStandings(season.ID)
	require.NoError(t, err)
	require.Len(t, rows, 10)

	// All five winners tied on points; ranks 1-3 carry badges.
	assert.Equal(t, 4, rows[0].Points)
	assert.Equal(t, 1, rows[0].FinalRank)
	assert.Equal(t, 1, rows[0].PowerWins)

	badges, err := svc.BadgesFor(rows[0].UserID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, models.BadgeCategoryWarrior, badges[0].Category)
	assert.Equal(t, models.BadgeGold, badges[0].BadgeType)

	// Live warrior counters were reset with the close.
	assert.Zero(t, reloadProfile(t, db, aProfiles[0].ID).Warrior.Points)
}
