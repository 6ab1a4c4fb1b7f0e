// internal/services/user_service.go
package services

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nightpulse/backend/internal/models"
	"github.com/nightpulse/backend/internal/utils"
)

type UserService struct {
	db      *gorm.DB
	storage *StorageService
}

type UpdateProfileRequest struct {
	Username    *string       `json:"username,omitempty" validate:"omitempty,username"`
	ProfileData *models.JSONB `json:"profile_data,omitempty"`
}

func NewUserService(db *gorm.DB, storage *StorageService) *UserService {
	return &UserService{db: db, storage: storage}
}

func (s *UserService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Username != nil && *req.Username != user.Username {
		var count int64
		s.db.Model(&models.User{}).Where("username = ? AND id != ?", *req.Username, userID).Count(&count)
		if count > 0 {
			return nil, errors.New("username already taken")
		}
		updates["username"] = *req.Username
	}
	if req.ProfileData != nil {
		updates["profile_data"] = *req.ProfileData
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetUser(userID)
}

func (s *UserService) UploadAvatar(userID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if err := s.storage.ValidateImage(file); err != nil {
		return nil, err
	}

	result, err := s.storage.UploadFile(file, header, s.storage.GetDefaultUploadOptions("avatars"))
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Update("avatar_url", result.URL).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (s *UserService) GetNotifications(userID uuid.UUID, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	query = utils.ApplySort(query, params, []string{"created_at"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (s *UserService) MarkNotificationRead(userID, notificationID uuid.UUID) error {
	now := time.Now().Format(time.RFC3339)
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
