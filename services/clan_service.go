package services

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"clan-league-system/models"
	"clan-league-system/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var tagPattern = regexp.MustCompile(`^[A-Za-z0-9]{2,5}$`)

type ClanService struct {
	DB *gorm.DB
}

func NewClanService(db *gorm.DB) *ClanService {
	return &ClanService{DB: db}
}

type CreateClanRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=30"`
	Tag         string `json:"tag" validate:"required"`
	Description string `json:"description" validate:"max=500"`
}

// CreateClan creates a clan with the creator as sole member and captain.
// Rejected when the creator already belongs to a clan.
func (s *ClanService) CreateClan(creatorID string, req CreateClanRequest) (*models.Clan, error) {
	if len(req.Name) < 3 || len(req.Name) > 30 {
		return nil, validationf("clan name must be 3-30 characters")
	}
	if !tagPattern.MatchString(req.Tag) {
		return nil, validationf("clan tag must be 2-5 alphanumeric characters")
	}

	var memberships int64
	if err := s.DB.Model(&models.ClanMember{}).Where("user_id = ?", creatorID).
		Count(&memberships).Error; err != nil {
		return nil, persistf("count creator memberships", err)
	}
	if memberships > 0 {
		return nil, conflictf("user %s already belongs to a clan", creatorID)
	}

	tag := strings.ToUpper(req.Tag)
	var dupes int64
	if err := s.DB.Model(&models.Clan{}).Where("tag = ?", tag).Count(&dupes).Error; err != nil {
		return nil, persistf("check tag uniqueness", err)
	}
	if dupes > 0 {
		return nil, conflictf("clan tag %s is taken", tag)
	}

	clan := models.Clan{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Tag:         tag,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		CaptainID:   creatorID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&clan).Error; err != nil {
			return persistf("insert clan", err)
		}
		member := models.ClanMember{
			ID:     uuid.NewString(),
			ClanID: clan.ID,
			UserID: creatorID,
			Role:   models.ClanRoleCaptain,
		}
		if err := tx.Create(&member).Error; err != nil {
			return persistf("insert captain membership", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CLAN] ✅ created %s [%s] captain=%s", clan.Name, clan.Tag, creatorID)
	clan.MemberCount = 1
	return &clan, nil
}

type UpdateClanRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=30"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
}

// UpdateClan edits clan profile fields. Captain only.
func (s *ClanService) UpdateClan(callerID, clanID string, req UpdateClanRequest) (*models.Clan, error) {
	clan, err := s.requireCaptain(callerID, clanID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if len(*req.Name) < 3 || len(*req.Name) > 30 {
			return nil, validationf("clan name must be 3-30 characters")
		}
		clan.Name = *req.Name
		clan.Slug = slug.Make(*req.Name)
	}
	if req.Description != nil {
		clan.Description = *req.Description
	}
	if req.LogoURL != nil {
		clan.LogoURL = *req.LogoURL
	}
	if err := s.DB.Save(clan).Error; err != nil {
		return nil, persistf("update clan", err)
	}
	return clan, nil
}

// UpdateLogo stores a new clan logo and points the clan at it. Captain only.
// Removing the previous object is advisory, same as avatars.
func (s *ClanService) UpdateLogo(callerID, clanID string, file *multipart.FileHeader) (*models.Clan, error) {
	clan, err := s.requireCaptain(callerID, clanID)
	if err != nil {
		return nil, err
	}

	oldURL := clan.LogoURL
	key := fmt.Sprintf("logos/%s%s", uuid.NewString(), filepath.Ext(file.Filename))

	var url string
	if utils.R2Enabled() {
		url, err = utils.UploadFileToR2(file, key)
		if err != nil {
			return nil, persistf("upload logo", err)
		}
	} else {
		dest := utils.GetUploadPath(key)
		if err := utils.SaveFile(file, dest); err != nil {
			return nil, persistf("save logo locally", err)
		}
		url = "/" + filepath.ToSlash(dest)
	}

	clan.LogoURL = url
	if err := s.DB.Save(clan).Error; err != nil {
		return nil, persistf("update logo url", err)
	}

	if oldURL != "" && utils.R2Enabled() {
		if err := utils.DeleteFromR2(utils.KeyFromURL(oldURL)); err != nil {
			log.Printf("[CLAN] ⚠️ failed to delete old logo %s: %v", oldURL, err)
		}
	}
	return clan, nil
}

// InviteMember creates a pending invitation. Captain only; re-checks the
// roster cap and the one-pending-invite-per-email rule immediately before the
// write (the store enforces neither).
func (s *ClanService) InviteMember(callerID, clanID, email string) (*models.ClanInvitation, error) {
	if _, err := s.requireCaptain(callerID, clanID); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, validationf("invalid email address")
	}

	size, err := s.rosterSize(clanID)
	if err != nil {
		return nil, err
	}
	if size >= models.MaxRosterSize {
		return nil, conflictf("clan is at the %d-member cap", models.MaxRosterSize)
	}

	var pending int64
	err = s.DB.Model(&models.ClanInvitation{}).
		Where("clan_id = ? AND email = ? AND status = ? AND expires_at > ?",
			clanID, email, models.InvitationPending, time.Now()).
		Count(&pending).Error
	if err != nil {
		return nil, persistf("count pending invitations", err)
	}
	if pending > 0 {
		return nil, conflictf("a pending invitation for %s already exists", email)
	}

	inv := models.ClanInvitation{
		ID:        uuid.NewString(),
		ClanID:    clanID,
		Email:     email,
		InvitedBy: callerID,
		Status:    models.InvitationPending,
		ExpiresAt: time.Now().Add(models.InvitationTTL),
	}
	if err := s.DB.Create(&inv).Error; err != nil {
		return nil, persistf("insert invitation", err)
	}
	log.Printf("[CLAN] 📨 clan %s invited %s", clanID, email)
	return &inv, nil
}

// AcceptInvitation joins the inviting clan. The accepting user's registered
// email must match the invitation case-insensitively, they must be clanless,
// and the clan must still have room.
func (s *ClanService) AcceptInvitation(callerID, invitationID string) error {
	inv, err := s.loadPendingInvitation(invitationID)
	if err != nil {
		return err
	}

	var prof models.Profile
	if err := s.DB.First(&prof, "id = ?", callerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("profile %s", callerID)
		}
		return persistf("load profile", err)
	}
	if !strings.EqualFold(prof.Email, inv.Email) {
		return unauthorizedf("invitation was issued to a different email")
	}

	var memberships int64
	if err := s.DB.Model(&models.ClanMember{}).Where("user_id = ?", callerID).
		Count(&memberships).Error; err != nil {
		return persistf("count memberships", err)
	}
	if memberships > 0 {
		return conflictf("user already belongs to a clan")
	}

	size, err := s.rosterSize(inv.ClanID)
	if err != nil {
		return err
	}
	if size >= models.MaxRosterSize {
		return conflictf("clan is at the %d-member cap", models.MaxRosterSize)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		member := models.ClanMember{
			ID:     uuid.NewString(),
			ClanID: inv.ClanID,
			UserID: callerID,
			Role:   models.ClanRoleMember,
		}
		if err := tx.Create(&member).Error; err != nil {
			return persistf("insert membership", err)
		}
		if err := tx.Model(&models.ClanInvitation{}).Where("id = ?", inv.ID).
			Update("status", models.InvitationAccepted).Error; err != nil {
			return persistf("mark invitation accepted", err)
		}
		return nil
	})
}

// DeclineInvitation marks the invitation rejected. No membership side effect.
func (s *ClanService) DeclineInvitation(callerID, invitationID string) error {
	inv, err := s.loadPendingInvitation(invitationID)
	if err != nil {
		return err
	}
	var prof models.Profile
	if err := s.DB.First(&prof, "id = ?", callerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("profile %s", callerID)
		}
		return persistf("load profile", err)
	}
	if !strings.EqualFold(prof.Email, inv.Email) {
		return unauthorizedf("invitation was issued to a different email")
	}
	if err := s.DB.Model(&models.ClanInvitation{}).Where("id = ?", inv.ID).
		Update("status", models.InvitationRejected).Error; err != nil {
		return persistf("mark invitation rejected", err)
	}
	return nil
}

// PendingInvitations lists live invitations addressed to an email.
func (s *ClanService) PendingInvitations(email string) ([]models.ClanInvitation, error) {
	var invs []models.ClanInvitation
	err := s.DB.Preload("Clan").
		Where("email = ? AND status = ? AND expires_at > ?",
			strings.ToLower(email), models.InvitationPending, time.Now()).
		Order("created_at DESC").
		Find(&invs).Error
	if err != nil {
		return nil, persistf("list pending invitations", err)
	}
	return invs, nil
}

// KickMember removes a member. Captain only, never self, and never below the
// roster floor — disbanding the clan is the only way under it.
func (s *ClanService) KickMember(callerID, clanID, targetID string) error {
	if _, err := s.requireCaptain(callerID, clanID); err != nil {
		return err
	}
	if targetID == callerID {
		return validationf("captain cannot kick themselves")
	}

	var member models.ClanMember
	if err := s.DB.Where("clan_id = ? AND user_id = ?", clanID, targetID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("member %s in clan %s", targetID, clanID)
		}
		return persistf("load member", err)
	}

	size, err := s.rosterSize(clanID)
	if err != nil {
		return err
	}
	if size <= models.MinRosterSize {
		return conflictf("clan cannot drop below %d members", models.MinRosterSize)
	}

	if err := s.DB.Delete(&member).Error; err != nil {
		return persistf("delete membership", err)
	}
	log.Printf("[CLAN] 👢 %s kicked from clan %s", targetID, clanID)
	return nil
}

// LeaveClan removes the caller. Captains must transfer captaincy or disband
// first; the roster floor applies the same as for kicks.
func (s *ClanService) LeaveClan(callerID, clanID string) error {
	var member models.ClanMember
	if err := s.DB.Where("clan_id = ? AND user_id = ?", clanID, callerID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("membership for %s in clan %s", callerID, clanID)
		}
		return persistf("load membership", err)
	}
	if member.Role == models.ClanRoleCaptain {
		return conflictf("captain must transfer captaincy or disband before leaving")
	}

	size, err := s.rosterSize(clanID)
	if err != nil {
		return err
	}
	if size <= models.MinRosterSize {
		return conflictf("clan cannot drop below %d members", models.MinRosterSize)
	}

	if err := s.DB.Delete(&member).Error; err != nil {
		return persistf("delete membership", err)
	}
	return nil
}

// TransferCaptaincy hands the captain role to another current member.
func (s *ClanService) TransferCaptaincy(callerID, clanID, targetID string) error {
	clan, err := s.requireCaptain(callerID, clanID)
	if err != nil {
		return err
	}
	if targetID == callerID {
		return validationf("target is already the captain")
	}
	var target models.ClanMember
	if err := s.DB.Where("clan_id = ? AND user_id = ?", clanID, targetID).
		First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("member %s in clan %s", targetID, clanID)
		}
		return persistf("load target member", err)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ClanMember{}).
			Where("clan_id = ? AND user_id = ?", clanID, callerID).
			Update("role", models.ClanRoleMember).Error; err != nil {
			return persistf("demote captain", err)
		}
		if err := tx.Model(&models.ClanMember{}).
			Where("clan_id = ? AND user_id = ?", clanID, targetID).
			Update("role", models.ClanRoleCaptain).Error; err != nil {
			return persistf("promote member", err)
		}
		clan.CaptainID = targetID
		if err := tx.Save(clan).Error; err != nil {
			return persistf("update clan captain", err)
		}
		return nil
	})
}

// GetClan loads a clan by id or slug, with roster and member count.
func (s *ClanService) GetClan(idOrSlug string) (*models.Clan, error) {
	var clan models.Clan
	err := s.DB.Preload("Members.Profile").
		Where("id = ? OR slug = ?", idOrSlug, idOrSlug).
		First(&clan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("clan %s", idOrSlug)
		}
		return nil, persistf("load clan", err)
	}
	clan.MemberCount = int64(len(clan.Members))
	return &clan, nil
}

// ListClans returns the live standings ordering: points desc, wins desc,
// name asc.
func (s *ClanService) ListClans() ([]models.Clan, error) {
	var clans []models.Clan
	err := s.DB.Order("points DESC, matches_won DESC, name ASC").Find(&clans).Error
	if err != nil {
		return nil, persistf("list clans", err)
	}
	return clans, nil
}

// MemberClan resolves which clan (if any) a user belongs to.
func (s *ClanService) MemberClan(userID string) (*models.Clan, error) {
	var member models.ClanMember
	if err := s.DB.Where("user_id = ?", userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("no clan membership for %s", userID)
		}
		return nil, persistf("load membership", err)
	}
	return s.GetClan(member.ClanID)
}

func (s *ClanService) rosterSize(clanID string) (int64, error) {
	var n int64
	if err := s.DB.Model(&models.ClanMember{}).Where("clan_id = ?", clanID).
		Count(&n).Error; err != nil {
		return 0, persistf("count roster", err)
	}
	return n, nil
}

func (s *ClanService) requireCaptain(callerID, clanID string) (*models.Clan, error) {
	var clan models.Clan
	if err := s.DB.First(&clan, "id = ?", clanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("clan %s", clanID)
		}
		return nil, persistf("load clan", err)
	}
	if clan.CaptainID != callerID {
		return nil, unauthorizedf("only the captain may do this")
	}
	return &clan, nil
}

// loadPendingInvitation fetches an invitation and lazily expires it when its
// window has passed.
func (s *ClanService) loadPendingInvitation(invitationID string) (*models.ClanInvitation, error) {
	var inv models.ClanInvitation
	if err := s.DB.First(&inv, "id = ?", invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("invitation %s", invitationID)
		}
		return nil, persistf("load invitation", err)
	}
	if inv.Status != models.InvitationPending {
		return nil, conflictf("invitation is %s", inv.Status)
	}
	if !inv.Pending(time.Now()) {
		if err := s.DB.Model(&models.ClanInvitation{}).Where("id = ?", inv.ID).
			Update("status", models.InvitationExpired).Error; err != nil {
			log.Printf("[CLAN] ⚠️ failed to mark invitation %s expired: %v", inv.ID, err)
		}
		return nil, conflictf("invitation has expired")
	}
	return &inv, nil
}
