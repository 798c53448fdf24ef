package services

import (
	"errors"
	"log"

	"clan-league-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchService struct {
	DB *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{DB: db}
}

// ReportLossRequest is submitted by a member of the losing clan. Only the
// losing side may report — winner-side reporting invites score inflation
// disputes, so it is rejected outright.
type ReportLossRequest struct {
	WinnerClanID   string `json:"winner_clan_id" validate:"required,uuid"`
	LoserClanID    string `json:"loser_clan_id" validate:"required,uuid"`
	WinnerScore    int    `json:"winner_score" validate:"min=0,max=1000"`
	LoserScore     int    `json:"loser_score" validate:"min=0,max=1000"`
	MatchMode      string `json:"match_mode" validate:"omitempty,oneof=5v5 3v3 1v1"`
	Notes          string `json:"notes" validate:"max=500"`
	IdempotencyKey string `json:"-"`
}

// ReportLoss validates and settles a single reported match: match row,
// participant rows, then point/streak increments for both clans and every
// roster member. Preconditions are checked in order before any write.
func (s *MatchService) ReportLoss(reporterID string, req ReportLossRequest) (*models.Match, error) {
	// 1. Reporter must belong to the losing clan.
	var reporter models.ClanMember
	if err := s.DB.Where("user_id = ? AND clan_id = ?", reporterID, req.LoserClanID).
		First(&reporter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorizedf("only members of the losing clan may report a loss")
		}
		return nil, persistf("lookup reporter membership", err)
	}

	// 2. A clan cannot lose to itself.
	if req.WinnerClanID == req.LoserClanID {
		return nil, validationf("winner and loser must be different clans")
	}

	// 3. Scores must describe a loss.
	if req.WinnerScore <= req.LoserScore {
		return nil, validationf("winner score %d must exceed loser score %d", req.WinnerScore, req.LoserScore)
	}

	// 4. Both clans must exist.
	var winner, loser models.Clan
	if err := s.DB.First(&winner, "id = ?", req.WinnerClanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("winner clan %s", req.WinnerClanID)
		}
		return nil, persistf("lookup winner clan", err)
	}
	if err := s.DB.First(&loser, "id = ?", req.LoserClanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("loser clan %s", req.LoserClanID)
		}
		return nil, persistf("lookup loser clan", err)
	}

	points := models.BasePoints
	powerWin := req.WinnerScore-req.LoserScore >= models.PowerWinMargin
	if powerWin {
		points = models.PowerWinPoints
	}

	mode := req.MatchMode
	if mode == "" {
		mode = models.MatchMode5v5
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	// Attach to the active season when one exists; a missing season is not an
	// error, the match is simply recorded outside any window.
	var seasonID *string
	var season models.Season
	if err := s.DB.Where("is_active = ?", true).First(&season).Error; err == nil {
		seasonID = &season.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistf("lookup active season", err)
	}

	match := models.Match{
		ID:             uuid.NewString(),
		WinnerClanID:   req.WinnerClanID,
		LoserClanID:    req.LoserClanID,
		WinnerScore:    req.WinnerScore,
		LoserScore:     req.LoserScore,
		PointsAwarded:  points,
		PowerWin:       powerWin,
		MatchMode:      mode,
		ReportedBy:     reporterID,
		SeasonID:       seasonID,
		Notes:          req.Notes,
		IdempotencyKey: key,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&match).Error; err != nil {
			return persistf("insert match", err)
		}

		var winnerMembers, loserMembers []models.ClanMember
		if err := tx.Where("clan_id = ?", winner.ID).Find(&winnerMembers).Error; err != nil {
			return persistf("load winner roster", err)
		}
		if err := tx.Where("clan_id = ?", loser.ID).Find(&loserMembers).Error; err != nil {
			return persistf("load loser roster", err)
		}

		for _, m := range winnerMembers {
			p := models.MatchParticipant{
				ID:      uuid.NewString(),
				MatchID: match.ID,
				UserID:  m.UserID,
				ClanID:  m.ClanID,
				Team:    models.TeamWinner,
			}
			if err := tx.Create(&p).Error; err != nil {
				return persistf("insert winner participant", err)
			}
		}
		for _, m := range loserMembers {
			p := models.MatchParticipant{
				ID:      uuid.NewString(),
				MatchID: match.ID,
				UserID:  m.UserID,
				ClanID:  m.ClanID,
				Team:    models.TeamLoser,
			}
			if err := tx.Create(&p).Error; err != nil {
				return persistf("insert loser participant", err)
			}
		}

		applyClanWin(&winner, points, powerWin)
		applyClanLoss(&loser)
		if err := tx.Save(&winner).Error; err != nil {
			return persistf("update winner clan", err)
		}
		if err := tx.Save(&loser).Error; err != nil {
			return persistf("update loser clan", err)
		}

		if err := applyWarriorResults(tx, winnerMembers, true, points, powerWin); err != nil {
			return err
		}
		if err := applyWarriorResults(tx, loserMembers, false, 0, false); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SETTLE] %s def. %s %d-%d (+%d pts, power_win=%t, reported by %s)",
		winner.Tag, loser.Tag, req.WinnerScore, req.LoserScore, points, powerWin, reporterID)
	return &match, nil
}

func applyClanWin(c *models.Clan, points int, powerWin bool) {
	c.Points += points
	c.MatchesWon++
	c.MatchesPlayed++
	if powerWin {
		c.PowerWins++
	}
	c.CurrentWinStreak++
	c.CurrentLossStreak = 0
	if c.CurrentWinStreak > c.MaxWinStreak {
		c.MaxWinStreak = c.CurrentWinStreak
	}
}

func applyClanLoss(c *models.Clan) {
	c.MatchesLost++
	c.MatchesPlayed++
	c.CurrentLossStreak++
	c.CurrentWinStreak = 0
}

// applyWarriorResults applies the same incremental point/streak rule to every
// participant's profile.
func applyWarriorResults(tx *gorm.DB, members []models.ClanMember, won bool, points int, powerWin bool) error {
	for _, m := range members {
		var prof models.Profile
		if err := tx.First(&prof, "id = ?", m.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Roster row without a mirrored profile: sync lag, skip.
				log.Printf("[SETTLE] ⚠️ no profile for member %s, skipping warrior update", m.UserID)
				continue
			}
			return persistf("load participant profile", err)
		}
		if won {
			prof.Warrior.Points += points
			prof.Warrior.Wins++
			if powerWin {
				prof.Warrior.PowerWins++
			}
			prof.Warrior.CurrentWinStreak++
			prof.Warrior.CurrentLossStreak = 0
			if prof.Warrior.CurrentWinStreak > prof.Warrior.MaxWinStreak {
				prof.Warrior.MaxWinStreak = prof.Warrior.CurrentWinStreak
			}
		} else {
			prof.Warrior.Losses++
			prof.Warrior.CurrentLossStreak++
			prof.Warrior.CurrentWinStreak = 0
		}
		if err := tx.Save(&prof).Error; err != nil {
			return persistf("update participant profile", err)
		}
	}
	return nil
}

// ClanMatches returns a clan's settled matches, most recent first.
func (s *MatchService) ClanMatches(clanID string, limit int) ([]models.Match, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var matches []models.Match
	err := s.DB.Where("winner_clan_id = ? OR loser_clan_id = ?", clanID, clanID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, persistf("list clan matches", err)
	}
	return matches, nil
}

// SeasonMatches returns every match attached to a season, oldest first.
func (s *MatchService) SeasonMatches(seasonID string) ([]models.Match, error) {
	var matches []models.Match
	err := s.DB.Where("season_id = ?", seasonID).
		Order("created_at ASC, id ASC").
		Find(&matches).Error
	if err != nil {
		return nil, persistf("list season matches", err)
	}
	return matches, nil
}

// RecentMatches returns the latest settled matches across the league.
func (s *MatchService) RecentMatches(limit int) ([]models.Match, error) {
	if limit < 1 || limit > 200 {
		limit = 20
	}
	var matches []models.Match
	err := s.DB.Order("created_at DESC, id DESC").Limit(limit).Find(&matches).Error
	if err != nil {
		return nil, persistf("list recent matches", err)
	}
	return matches, nil
}

// GetMatch loads one match with its participants.
func (s *MatchService) GetMatch(id string) (*models.Match, error) {
	var match models.Match
	err := s.DB.Preload("Participants").First(&match, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("match %s", id)
		}
		return nil, persistf("load match", err)
	}
	return &match, nil
}

// matchOutcomesForClan projects a clan's full history into stats-engine input.
func matchOutcomesForClan(db *gorm.DB, clanID string) ([]MatchOutcome, error) {
	var matches []models.Match
	err := db.Where("winner_clan_id = ? OR loser_clan_id = ?", clanID, clanID).
		Order("created_at ASC, id ASC").
		Find(&matches).Error
	if err != nil {
		return nil, persistf("load clan match history", err)
	}
	outcomes := make([]MatchOutcome, 0, len(matches))
	for _, m := range matches {
		won := m.WinnerClanID == clanID
		outcomes = append(outcomes, MatchOutcome{
			MatchID:  m.ID,
			PlayedAt: m.CreatedAt,
			Won:      won,
			Points:   m.PointsAwarded,
			PowerWin: won && m.PowerWin,
		})
	}
	return outcomes, nil
}

// matchOutcomesForWarrior projects a player's participation history into
// stats-engine input.
func matchOutcomesForWarrior(db *gorm.DB, userID string) ([]MatchOutcome, error) {
	var parts []models.MatchParticipant
	if err := db.Where("user_id = ?", userID).Find(&parts).Error; err != nil {
		return nil, persistf("load participation history", err)
	}
	if len(parts) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(parts))
	teamByMatch := make(map[string]string, len(parts))
	for _, p := range parts {
		ids = append(ids, p.MatchID)
		teamByMatch[p.MatchID] = p.Team
	}
	var matches []models.Match
	if err := db.Where("id IN ?", ids).Order("created_at ASC, id ASC").Find(&matches).Error; err != nil {
		return nil, persistf("load participated matches", err)
	}
	outcomes := make([]MatchOutcome, 0, len(matches))
	for _, m := range matches {
		won := teamByMatch[m.ID] == models.TeamWinner
		outcomes = append(outcomes, MatchOutcome{
			MatchID:  m.ID,
			PlayedAt: m.CreatedAt,
			Won:      won,
			Points:   m.PointsAwarded,
			PowerWin: won && m.PowerWin,
		})
	}
	return outcomes, nil
}
