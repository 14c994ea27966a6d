// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/liebemama/marketplace-backend/internal/config"
	"github.com/liebemama/marketplace-backend/internal/models"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

type AuthService struct {
	db     *gorm.DB
	config *config.Config
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewAuthService(db *gorm.DB, config *config.Config) *AuthService {
	return &AuthService{db: db, config: config}
}

// Register creates a merchant account. Admin accounts are seeded, not
// self-registered.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var existing int64
	if err := s.db.Model(&models.User{}).
		Where("email = ? OR username = ?", req.Email, req.Username).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: username or email already taken", ErrValidation)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     models.RoleMerchant,
		Status:   models.UserStatusActive,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *AuthService) Login(req *LoginRequest) (*models.User, *TokenPair, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var user models.User
	if err := s.db.First(&user, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("invalid credentials: %w", ErrForbidden)
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status != models.UserStatusActive {
		return nil, nil, fmt.Errorf("account is suspended: %w", ErrForbidden)
	}
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, nil, fmt.Errorf("invalid credentials: %w", ErrForbidden)
	}

	tokens, err := s.issueTokens(&user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login_at", &now)

	return &user, tokens, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	userID, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrForbidden)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("account is suspended: %w", ErrForbidden)
	}

	return s.issueTokens(&user)
}

// GetProfile loads the viewer's own account record.
func (s *AuthService) GetProfile(viewer models.ViewerContext) (*models.User, error) {
	if !viewer.Authenticated() {
		return nil, fmt.Errorf("no signed-in user: %w", ErrForbidden)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", *viewer.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", *viewer.UserID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateProfile lets a signed-in user change their own account fields.
func (s *AuthService) UpdateProfile(viewer models.ViewerContext, req *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.GetProfile(viewer)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"username": req.Username,
		"email":    req.Email,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.config.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
