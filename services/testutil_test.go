package services

import (
	"fmt"
	"testing"
	"time"

	"clan-league-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection only: each :memory: connection is its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.Clan{},
		&models.ClanMember{},
		&models.ClanInvitation{},
		&models.Match{},
		&models.MatchParticipant{},
		&models.Season{},
		&models.SeasonClanStats{},
		&models.SeasonWarriorStats{},
		&models.Badge{},
		&models.AdminAction{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

var seedSeq int

// seedProfile inserts a profile with a unique nickname and email.
func seedProfile(t *testing.T, db *gorm.DB) *models.Profile {
	t.Helper()
	seedSeq++
	prof := models.Profile{
		ID:       uuid.NewString(),
		Nickname: fmt.Sprintf("warrior_%d", seedSeq),
		Email:    fmt.Sprintf("warrior%d@example.com", seedSeq),
		Role:     models.RoleUser,
	}
	require.NoError(t, db.Create(&prof).Error)
	return &prof
}

// seedClan inserts a clan with n members (profiles included). The first
// member is the captain. JoinedAt is staggered so succession order is stable.
func seedClan(t *testing.T, db *gorm.DB, name, tag string, n int) (*models.Clan, []*models.Profile) {
	t.Helper()

	profiles := make([]*models.Profile, 0, n)
	for i := 0; i < n; i++ {
		profiles = append(profiles, seedProfile(t, db))
	}

	clan := models.Clan{
		ID:        uuid.NewString(),
		Name:      name,
		Tag:       tag,
		Slug:      fmt.Sprintf("%s-%d", tag, seedSeq),
		CaptainID: profiles[0].ID,
	}
	require.NoError(t, db.Create(&clan).Error)

	base := time.Now().Add(-time.Duration(n) * time.Minute)
	for i, p := range profiles {
		role := models.ClanRoleMember
		if i == 0 {
			role = models.ClanRoleCaptain
		}
		member := models.ClanMember{
			ID:       uuid.NewString(),
			ClanID:   clan.ID,
			UserID:   p.ID,
			Role:     role,
			JoinedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&member).Error)
	}
	return &clan, profiles
}

// reloadClan fetches the clan's current row.
func reloadClan(t *testing.T, db *gorm.DB, id string) *models.Clan {
	t.Helper()
	var clan models.Clan
	require.NoError(t, db.First(&clan, "id = ?", id).Error)
	return &clan
}

// reloadProfile fetches the profile's current row.
func reloadProfile(t *testing.T, db *gorm.DB, id string) *models.Profile {
	t.Helper()
	var prof models.Profile
	require.NoError(t, db.First(&prof, "id = ?", id).Error)
	return &prof
}
