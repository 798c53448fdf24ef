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
	"gorm.io/gorm"
)

var nicknamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// NicknameCooldown limits how often a nickname may change.
const NicknameCooldown = 30 * 24 * time.Hour

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// EnsureProfile creates the local mirror row for a registered user if it does
// not exist yet (idempotent).
func (s *ProfileService) EnsureProfile(userID, nickname, email string) (*models.Profile, error) {
	var prof models.Profile
	err := s.DB.First(&prof, "id = ?", userID).Error
	if err == nil {
		return &prof, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistf("load profile", err)
	}

	if !nicknamePattern.MatchString(nickname) {
		return nil, validationf("nickname must be 3-20 characters, letters/digits/underscore")
	}
	prof = models.Profile{
		ID:       userID,
		Nickname: nickname,
		Email:    strings.ToLower(email),
		Role:     models.RoleUser,
	}
	if err := s.DB.Create(&prof).Error; err != nil {
		return nil, persistf("insert profile", err)
	}
	return &prof, nil
}

// GetProfile loads one profile.
func (s *ProfileService) GetProfile(userID string) (*models.Profile, error) {
	var prof models.Profile
	if err := s.DB.First(&prof, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("profile %s", userID)
		}
		return nil, persistf("load profile", err)
	}
	return &prof, nil
}

// ChangeNickname renames a profile. Allowed at most once per 30 days.
func (s *ProfileService) ChangeNickname(userID, nickname string) (*models.Profile, error) {
	if !nicknamePattern.MatchString(nickname) {
		return nil, validationf("nickname must be 3-20 characters, letters/digits/underscore")
	}

	prof, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if prof.Nickname == nickname {
		return prof, nil
	}
	if prof.NicknameChangedAt != nil {
		if wait := time.Until(prof.NicknameChangedAt.Add(NicknameCooldown)); wait > 0 {
			return nil, cooldownf("nickname can change again in %s", wait.Round(time.Hour))
		}
	}

	var dupes int64
	if err := s.DB.Model(&models.Profile{}).
		Where("nickname = ? AND id <> ?", nickname, userID).
		Count(&dupes).Error; err != nil {
		return nil, persistf("check nickname uniqueness", err)
	}
	if dupes > 0 {
		return nil, conflictf("nickname %s is taken", nickname)
	}

	now := time.Now()
	prof.Nickname = nickname
	prof.NicknameChangedAt = &now
	if err := s.DB.Save(prof).Error; err != nil {
		return nil, persistf("update nickname", err)
	}
	return prof, nil
}

// UpdateAvatar stores a new avatar image and points the profile at it.
// Removing the previous object is advisory: a failure is logged, never
// surfaced.
func (s *ProfileService) UpdateAvatar(userID string, file *multipart.FileHeader) (*models.Profile, error) {
	prof, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	oldURL := prof.AvatarURL
	key := fmt.Sprintf("avatars/%s%s", uuid.NewString(), filepath.Ext(file.Filename))

	var url string
	if utils.R2Enabled() {
		url, err = utils.UploadFileToR2(file, key)
		if err != nil {
			return nil, persistf("upload avatar", err)
		}
	} else {
		dest := utils.GetUploadPath(key)
		if err := utils.SaveFile(file, dest); err != nil {
			return nil, persistf("save avatar locally", err)
		}
		url = "/" + filepath.ToSlash(dest)
	}

	prof.AvatarURL = url
	if err := s.DB.Save(prof).Error; err != nil {
		return nil, persistf("update avatar url", err)
	}

	if oldURL != "" && utils.R2Enabled() {
		if err := utils.DeleteFromR2(utils.KeyFromURL(oldURL)); err != nil {
			log.Printf("[PROFILE] ⚠️ failed to delete old avatar %s: %v", oldURL, err)
		}
	}
	return prof, nil
}

// Heartbeat marks a profile online now. The presence worker flips it back off
// after five minutes without another beat.
func (s *ProfileService) Heartbeat(userID string) error {
	now := time.Now()
	res := s.DB.Model(&models.Profile{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"is_online": true, "last_seen": now})
	if res.Error != nil {
		return persistf("heartbeat", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundf("profile %s", userID)
	}
	return nil
}

// WarriorRankings returns the live individual standings: points desc, wins
// desc, nickname asc.
func (s *ProfileService) WarriorRankings(limit int) ([]models.Profile, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var profiles []models.Profile
	err := s.DB.Order("warrior_points DESC, warrior_wins DESC, nickname ASC").
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, persistf("list warrior rankings", err)
	}
	return profiles, nil
}
