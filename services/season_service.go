package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"clan-league-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bootstrap values for the lazily-created first season.
const (
	bootstrapSeasonName = "Season 1"
	bootstrapSeasonDays = 90
)

type SeasonService struct {
	DB *gorm.DB
}

func NewSeasonService(db *gorm.DB) *SeasonService {
	return &SeasonService{DB: db}
}

// CurrentSeason returns the active season. When no season row exists at all
// the first season is created on the spot; when seasons exist but none is
// active (between an explicit close and the next start) it is NotFound.
func (s *SeasonService) CurrentSeason() (*models.Season, error) {
	var season models.Season
	err := s.DB.Where("is_active = ?", true).First(&season).Error
	if err == nil {
		return &season, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistf("load active season", err)
	}

	var total int64
	if err := s.DB.Model(&models.Season{}).Count(&total).Error; err != nil {
		return nil, persistf("count seasons", err)
	}
	if total > 0 {
		return nil, notFoundf("no active season")
	}

	now := time.Now()
	season = models.Season{
		ID:        uuid.NewString(),
		Name:      bootstrapSeasonName,
		Number:    1,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, bootstrapSeasonDays),
		IsActive:  true,
	}
	if err := s.DB.Create(&season).Error; err != nil {
		return nil, persistf("bootstrap first season", err)
	}
	log.Printf("[SEASON] 🎉 bootstrapped %s", season.Name)
	return &season, nil
}

type StartSeasonRequest struct {
	Name         string `json:"name" validate:"required,min=3,max=50"`
	Number       int    `json:"number" validate:"required,min=1"`
	DurationDays int    `json:"duration_days" validate:"required,min=1,max=366"`
}

// StartNewSeason opens a season. Fails when one is already active or the
// season number does not advance.
func (s *SeasonService) StartNewSeason(adminID string, req StartSeasonRequest) (*models.Season, error) {
	var active int64
	if err := s.DB.Model(&models.Season{}).Where("is_active = ?", true).
		Count(&active).Error; err != nil {
		return nil, persistf("count active seasons", err)
	}
	if active > 0 {
		return nil, conflictf("a season is already active")
	}

	var maxNumber int
	if err := s.DB.Model(&models.Season{}).
		Select("COALESCE(MAX(number), 0)").Scan(&maxNumber).Error; err != nil {
		return nil, persistf("load max season number", err)
	}
	if req.Number <= maxNumber {
		return nil, conflictf("season number %d must exceed %d", req.Number, maxNumber)
	}

	now := time.Now()
	season := models.Season{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Number:    req.Number,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, req.DurationDays),
		IsActive:  true,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&season).Error; err != nil {
			return persistf("insert season", err)
		}
		return logAdminAction(tx, adminID, models.ActionStartSeason, models.TargetSeason,
			season.ID, fmt.Sprintf("started %s (#%d, %d days)", req.Name, req.Number, req.DurationDays))
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SEASON] ▶️  %s (#%d) started by %s", season.Name, season.Number, adminID)
	return &season, nil
}

// CloseSeason freezes standings, awards podium badges, resets every live
// counter, and deactivates the season, in that order. Closing a season that
// is not active is a ConflictError — never a double award.
func (s *SeasonService) CloseSeason(adminID, seasonID string) error {
	var season models.Season
	if err := s.DB.First(&season, "id = ?", seasonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("season %s", seasonID)
		}
		return persistf("load season", err)
	}
	if !season.IsActive {
		return conflictf("season %s is already closed", season.Name)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := snapshotClans(tx, season.ID); err != nil {
			return err
		}
		if err := snapshotWarriors(tx, season.ID); err != nil {
			return err
		}

		// Reset live counters for the next season.
		clanReset := map[string]interface{}{
			"points": 0, "power_wins": 0,
			"matches_played": 0, "matches_won": 0, "matches_lost": 0,
			"current_win_streak": 0, "current_loss_streak": 0, "max_win_streak": 0,
		}
		if err := tx.Model(&models.Clan{}).Where("1 = 1").
			Updates(clanReset).Error; err != nil {
			return persistf("reset clan counters", err)
		}
		warriorReset := map[string]interface{}{
			"warrior_points": 0, "warrior_wins": 0, "warrior_losses": 0,
			"warrior_power_wins": 0, "warrior_current_win_streak": 0,
			"warrior_current_loss_streak": 0, "warrior_max_win_streak": 0,
		}
		if err := tx.Model(&models.Profile{}).Where("1 = 1").
			Updates(warriorReset).Error; err != nil {
			return persistf("reset warrior counters", err)
		}

		if err := tx.Model(&models.Season{}).Where("id = ?", season.ID).
			Update("is_active", false).Error; err != nil {
			return persistf("deactivate season", err)
		}
		return logAdminAction(tx, adminID, models.ActionCloseSeason, models.TargetSeason,
			season.ID, fmt.Sprintf("closed %s", season.Name))
	})
	if err != nil {
		return err
	}

	log.Printf("[SEASON] 🏁 %s closed by %s", season.Name, adminID)
	return nil
}

// snapshotClans writes one frozen row per clan that played this season,
// ranked points desc, wins desc, name asc, and awards the podium badges.
func snapshotClans(tx *gorm.DB, seasonID string) error {
	var clans []models.Clan
	err := tx.Where("matches_played > 0").
		Order("points DESC, matches_won DESC, name ASC").
		Find(&clans).Error
	if err != nil {
		return persistf("load ranked clans", err)
	}

	for i, c := range clans {
		rank := i + 1
		snap := models.SeasonClanStats{
			ID:            uuid.NewString(),
			SeasonID:      seasonID,
			ClanID:        c.ID,
			ClanName:      c.Name,
			ClanTag:       c.Tag,
			Points:        c.Points,
			PowerWins:     c.PowerWins,
			MatchesPlayed: c.MatchesPlayed,
			MatchesWon:    c.MatchesWon,
			MatchesLost:   c.MatchesLost,
			MaxWinStreak:  c.MaxWinStreak,
			FinalRank:     rank,
		}
		if err := tx.Create(&snap).Error; err != nil {
			return persistf("insert clan snapshot", err)
		}
		if err := awardBadge(tx, seasonID, c.ID, models.BadgeCategoryClan, rank); err != nil {
			return err
		}
	}
	return nil
}

// snapshotWarriors is the per-player analogue of snapshotClans.
func snapshotWarriors(tx *gorm.DB, seasonID string) error {
	var profiles []models.Profile
	err := tx.Where("warrior_wins > 0 OR warrior_losses > 0").
		Order("warrior_points DESC, warrior_wins DESC, nickname ASC").
		Find(&profiles).Error
	if err != nil {
		return persistf("load ranked warriors", err)
	}

	for i, p := range profiles {
		rank := i + 1
		snap := models.SeasonWarriorStats{
			ID:           uuid.NewString(),
			SeasonID:     seasonID,
			UserID:       p.ID,
			Nickname:     p.Nickname,
			Points:       p.Warrior.Points,
			Wins:         p.Warrior.Wins,
			Losses:       p.Warrior.Losses,
			PowerWins:    p.Warrior.PowerWins,
			MaxWinStreak: p.Warrior.MaxWinStreak,
			FinalRank:    rank,
		}
		if err := tx.Create(&snap).Error; err != nil {
			return persistf("insert warrior snapshot", err)
		}
		if err := awardBadge(tx, seasonID, p.ID, models.BadgeCategoryWarrior, rank); err != nil {
			return err
		}
	}
	return nil
}

func awardBadge(tx *gorm.DB, seasonID, targetID, category string, rank int) error {
	badgeType := models.BadgeTypeForRank(rank)
	if badgeType == "" {
		return nil
	}
	badge := models.Badge{
		ID:        uuid.NewString(),
		SeasonID:  seasonID,
		TargetID:  targetID,
		Category:  category,
		BadgeType: badgeType,
		Rank:      rank,
	}
	if err := tx.Create(&badge).Error; err != nil {
		return persistf("insert badge", err)
	}
	log.Printf("[SEASON] 🎖️ %s badge → %s %s", badgeType, category, targetID)
	return nil
}

// ListSeasons returns all seasons, newest first.
func (s *SeasonService) ListSeasons() ([]models.Season, error) {
	var seasons []models.Season
	if err := s.DB.Order("number DESC").Find(&seasons).Error; err != nil {
		return nil, persistf("list seasons", err)
	}
	return seasons, nil
}

// ClanStandings returns a closed season's frozen clan table.
func (s *SeasonService) ClanStandings(seasonID string) ([]models.SeasonClanStats, error) {
	var rows []models.SeasonClanStats
	err := s.DB.Where("season_id = ?", seasonID).Order("final_rank ASC").Find(&rows).Error
	if err != nil {
		return nil, persistf("list clan standings", err)
	}
	return rows, nil
}

// WarriorStandings returns a closed season's frozen warrior table.
func (s *SeasonService) WarriorStandings(seasonID string) ([]models.SeasonWarriorStats, error) {
	var rows []models.SeasonWarriorStats
	err := s.DB.Where("season_id = ?", seasonID).Order("final_rank ASC").Find(&rows).Error
	if err != nil {
		return nil, persistf("list warrior standings", err)
	}
	return rows, nil
}

// BadgesFor lists every badge a clan or warrior has earned across seasons.
func (s *SeasonService) BadgesFor(targetID string) ([]models.Badge, error) {
	var badges []models.Badge
	err := s.DB.Where("target_id = ?", targetID).Order("awarded_at DESC").Find(&badges).Error
	if err != nil {
		return nil, persistf("list badges", err)
	}
	return badges, nil
}
