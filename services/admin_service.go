package services

import (
	"errors"
	"fmt"
	"log"

	"clan-league-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

// logAdminAction appends to the audit log inside the caller's transaction.
func logAdminAction(tx *gorm.DB, adminID, actionType, targetType, targetID, details string) error {
	action := models.AdminAction{
		ID:         uuid.NewString(),
		AdminID:    adminID,
		ActionType: actionType,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
	}
	if err := tx.Create(&action).Error; err != nil {
		return persistf("insert admin action", err)
	}
	return nil
}

// RecalculateClanStats rebuilds a clan's live aggregates from its full match
// history. Zero history resets every field to zero.
func (s *AdminService) RecalculateClanStats(clanID string) error {
	var clan models.Clan
	if err := s.DB.First(&clan, "id = ?", clanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("clan %s", clanID)
		}
		return persistf("load clan", err)
	}

	outcomes, err := matchOutcomesForClan(s.DB, clanID)
	if err != nil {
		return err
	}
	agg := ComputeStats(outcomes)

	updates := map[string]interface{}{
		"points":              agg.Points,
		"power_wins":          agg.PowerWins,
		"matches_won":         agg.Wins,
		"matches_lost":        agg.Losses,
		"matches_played":      agg.Wins + agg.Losses,
		"current_win_streak":  agg.CurrentWinStreak,
		"current_loss_streak": agg.CurrentLossStreak,
		"max_win_streak":      agg.MaxWinStreak,
	}
	if err := s.DB.Model(&models.Clan{}).Where("id = ?", clanID).
		Updates(updates).Error; err != nil {
		return persistf("overwrite clan aggregates", err)
	}
	log.Printf("[REPAIR] clan %s recalculated from %d matches", clan.Tag, len(outcomes))
	return nil
}

// RecalculateWarriorStats rebuilds a profile's warrior aggregates from its
// full participation history.
func (s *AdminService) RecalculateWarriorStats(userID string) error {
	var prof models.Profile
	if err := s.DB.First(&prof, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("profile %s", userID)
		}
		return persistf("load profile", err)
	}

	outcomes, err := matchOutcomesForWarrior(s.DB, userID)
	if err != nil {
		return err
	}
	agg := ComputeStats(outcomes)

	updates := map[string]interface{}{
		"warrior_points":              agg.Points,
		"warrior_wins":                agg.Wins,
		"warrior_losses":              agg.Losses,
		"warrior_power_wins":          agg.PowerWins,
		"warrior_current_win_streak":  agg.CurrentWinStreak,
		"warrior_current_loss_streak": agg.CurrentLossStreak,
		"warrior_max_win_streak":      agg.MaxWinStreak,
	}
	if err := s.DB.Model(&models.Profile{}).Where("id = ?", userID).
		Updates(updates).Error; err != nil {
		return persistf("overwrite warrior aggregates", err)
	}
	log.Printf("[REPAIR] warrior %s recalculated from %d matches", prof.Nickname, len(outcomes))
	return nil
}

// DeleteClan removes a clan and everything hanging off it: memberships,
// invitations, matches, participants. Counterpart clans and every player who
// appeared in the deleted matches are recomputed afterwards, one by one —
// their aggregates still reflect matches that no longer exist.
func (s *AdminService) DeleteClan(adminID, clanID string) error {
	var clan models.Clan
	if err := s.DB.First(&clan, "id = ?", clanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("clan %s", clanID)
		}
		return persistf("load clan", err)
	}

	// Capture the blast radius before anything is deleted.
	var matches []models.Match
	if err := s.DB.Where("winner_clan_id = ? OR loser_clan_id = ?", clanID, clanID).
		Find(&matches).Error; err != nil {
		return persistf("load clan match history", err)
	}
	counterpartClans := map[string]bool{}
	matchIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		matchIDs = append(matchIDs, m.ID)
		if m.WinnerClanID != clanID {
			counterpartClans[m.WinnerClanID] = true
		}
		if m.LoserClanID != clanID {
			counterpartClans[m.LoserClanID] = true
		}
	}
	affectedWarriors := map[string]bool{}
	if len(matchIDs) > 0 {
		var parts []models.MatchParticipant
		if err := s.DB.Where("match_id IN ?", matchIDs).Find(&parts).Error; err != nil {
			return persistf("load affected participants", err)
		}
		for _, p := range parts {
			affectedWarriors[p.UserID] = true
		}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if len(matchIDs) > 0 {
			if err := tx.Where("match_id IN ?", matchIDs).
				Delete(&models.MatchParticipant{}).Error; err != nil {
				return persistf("delete participants", err)
			}
			if err := tx.Where("id IN ?", matchIDs).
				Delete(&models.Match{}).Error; err != nil {
				return persistf("delete matches", err)
			}
		}
		if err := tx.Where("clan_id = ?", clanID).
			Delete(&models.ClanInvitation{}).Error; err != nil {
			return persistf("delete invitations", err)
		}
		if err := tx.Where("clan_id = ?", clanID).
			Delete(&models.ClanMember{}).Error; err != nil {
			return persistf("delete memberships", err)
		}
		if err := tx.Delete(&models.Clan{}, "id = ?", clanID).Error; err != nil {
			return persistf("delete clan", err)
		}
		return logAdminAction(tx, adminID, models.ActionDeleteClan, models.TargetClan,
			clanID, fmt.Sprintf("deleted %s [%s], cascaded %d matches", clan.Name, clan.Tag, len(matchIDs)))
	})
	if err != nil {
		return err
	}

	// Sequential repair loop. Each entity's recalculation is independent; a
	// failure here leaves a recoverable state and the remaining entities are
	// still attempted.
	for id := range counterpartClans {
		if err := s.RecalculateClanStats(id); err != nil {
			log.Printf("[REPAIR] ⚠️ counterpart clan %s: %v", id, err)
		}
	}
	for id := range affectedWarriors {
		if err := s.RecalculateWarriorStats(id); err != nil {
			log.Printf("[REPAIR] ⚠️ counterpart warrior %s: %v", id, err)
		}
	}

	log.Printf("[ADMIN] 🗑️ clan %s deleted by %s (%d counterpart clans, %d warriors repaired)",
		clan.Tag, adminID, len(counterpartClans), len(affectedWarriors))
	return nil
}

// DeleteUser hard-deletes a profile, its memberships, participant rows, and
// invitations addressed to it. A deleted captain's clan gets its longest-
// serving remaining member promoted; a clan left empty is deleted through the
// full cascade.
func (s *AdminService) DeleteUser(adminID, userID string) error {
	var prof models.Profile
	if err := s.DB.First(&prof, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("profile %s", userID)
		}
		return persistf("load profile", err)
	}

	var membership models.ClanMember
	hasClan := true
	if err := s.DB.Where("user_id = ?", userID).First(&membership).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return persistf("load membership", err)
		}
		hasClan = false
	}

	// Captain succession has to be settled before the membership row goes.
	if hasClan && membership.Role == models.ClanRoleCaptain {
		var successor models.ClanMember
		err := s.DB.Where("clan_id = ? AND user_id <> ?", membership.ClanID, userID).
			Order("joined_at ASC").First(&successor).Error
		switch {
		case err == nil:
			if err := s.promoteSuccessor(membership.ClanID, successor.UserID); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Sole member: the clan goes too, with its own repair cascade.
			if err := s.DeleteClan(adminID, membership.ClanID); err != nil {
				return err
			}
		default:
			return persistf("load successor", err)
		}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).
			Delete(&models.MatchParticipant{}).Error; err != nil {
			return persistf("delete participant rows", err)
		}
		if err := tx.Where("user_id = ?", userID).
			Delete(&models.ClanMember{}).Error; err != nil {
			return persistf("delete membership", err)
		}
		if err := tx.Where("email = ?", prof.Email).
			Delete(&models.ClanInvitation{}).Error; err != nil {
			return persistf("delete invitations", err)
		}
		if err := tx.Delete(&models.Profile{}, "id = ?", userID).Error; err != nil {
			return persistf("delete profile", err)
		}
		return logAdminAction(tx, adminID, models.ActionDeleteUser, models.TargetUser,
			userID, fmt.Sprintf("deleted %s", prof.Nickname))
	})
	if err != nil {
		return err
	}

	log.Printf("[ADMIN] 🗑️ user %s deleted by %s", prof.Nickname, adminID)
	return nil
}

func (s *AdminService) promoteSuccessor(clanID, successorID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ClanMember{}).
			Where("clan_id = ? AND user_id = ?", clanID, successorID).
			Update("role", models.ClanRoleCaptain).Error; err != nil {
			return persistf("promote successor", err)
		}
		if err := tx.Model(&models.Clan{}).Where("id = ?", clanID).
			Update("captain_id", successorID).Error; err != nil {
			return persistf("update clan captain", err)
		}
		return nil
	})
}

// AdjustClanPoints applies an audited manual correction to a clan's points.
// The counter never goes negative.
func (s *AdminService) AdjustClanPoints(adminID, clanID string, delta int, reason string) error {
	return s.adjustClanCounter(adminID, clanID, delta, reason, "points", models.ActionAdjustPoints)
}

// AdjustPowerWins mirrors AdjustClanPoints for the power-win counter.
func (s *AdminService) AdjustPowerWins(adminID, clanID string, delta int, reason string) error {
	return s.adjustClanCounter(adminID, clanID, delta, reason, "power_wins", models.ActionAdjustPowerWins)
}

func (s *AdminService) adjustClanCounter(adminID, clanID string, delta int, reason, column, actionType string) error {
	var clan models.Clan
	if err := s.DB.First(&clan, "id = ?", clanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("clan %s", clanID)
		}
		return persistf("load clan", err)
	}

	current := clan.Points
	if column == "power_wins" {
		current = clan.PowerWins
	}
	next := current + delta
	if next < 0 {
		next = 0
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Clan{}).Where("id = ?", clanID).
			Update(column, next).Error; err != nil {
			return persistf("adjust clan counter", err)
		}
		return logAdminAction(tx, adminID, actionType, models.TargetClan, clanID,
			fmt.Sprintf("%s %+d (%d → %d): %s", column, delta, current, next, reason))
	})
}

// SetUserRole flips a profile between user and admin.
func (s *AdminService) SetUserRole(adminID, userID, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return validationf("unknown role %q", role)
	}
	var prof models.Profile
	if err := s.DB.First(&prof, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("profile %s", userID)
		}
		return persistf("load profile", err)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Profile{}).Where("id = ?", userID).
			Update("role", role).Error; err != nil {
			return persistf("update role", err)
		}
		return logAdminAction(tx, adminID, models.ActionSetRole, models.TargetUser,
			userID, fmt.Sprintf("role → %s", role))
	})
}

// ListActions returns the audit log, newest first.
func (s *AdminService) ListActions(limit int) ([]models.AdminAction, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var actions []models.AdminAction
	err := s.DB.Order("created_at DESC").Limit(limit).Find(&actions).Error
	if err != nil {
		return nil, persistf("list admin actions", err)
	}
	return actions, nil
}
