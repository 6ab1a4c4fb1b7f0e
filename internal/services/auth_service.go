// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nightpulse/backend/internal/config"
	"github.com/nightpulse/backend/internal/models"
	"github.com/nightpulse/backend/internal/utils"
)

var (
	ErrEmailTaken     = errors.New("email or username already registered")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrUserSuspended  = errors.New("account is suspended")
)

type AuthService struct {
	db     *gorm.DB
	config *config.Config
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
	Role     string `json:"role" validate:"omitempty,role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, config: cfg}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	var existing models.User
	err := s.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleUser
	}
	// Nobody self-registers as admin.
	if role == models.RoleAdmin || role == models.RoleGuest {
		role = models.RoleUser
	}

	user := models.User{
		Username:      req.Username,
		Email:         req.Email,
		Role:          role,
		Status:        models.UserStatusActive,
		ConnectStatus: models.ConnectStatusNone,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(&user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	var user models.User
	if err := s.db.First(&user, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrBadCredentials
	}

	if user.Status != models.UserStatusActive {
		return nil, ErrUserSuspended
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login_at", now)
	user.LastLoginAt = &now

	return s.issueTokens(&user)
}

func (s *AuthService) Refresh(req *RefreshRequest) (*AuthResponse, error) {
	subject, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token subject: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrUserSuspended
	}

	return s.issueTokens(&user)
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.config.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
