// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/liebemama/marketplace-backend/internal/models"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

type DashboardStats struct {
	TotalProducts    int64 `json:"total_products"`
	PendingApproval  int64 `json:"pending_approval"`
	TotalMerchants   int64 `json:"total_merchants"`
	UnreadAdminItems int64 `json:"unread_admin_items"`
}

// GetDashboardStats collects the counters shown on the admin landing page.
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.Model(&models.Product{}).
		Where("is_approved = ?", false).
		Count(&stats.PendingApproval).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending products: %w", err)
	}
	if err := s.db.Model(&models.User{}).
		Where("role = ?", models.RoleMerchant).
		Count(&stats.TotalMerchants).Error; err != nil {
		return nil, fmt.Errorf("failed to count merchants: %w", err)
	}
	if err := s.db.Model(&models.Notification{}).
		Where("role = ? AND is_visible = ? AND is_read = ?", models.RoleAdmin, true, false).
		Count(&stats.UnreadAdminItems).Error; err != nil {
		return nil, fmt.Errorf("failed to count unread admin notifications: %w", err)
	}

	return stats, nil
}

// GetSettings lists settings, optionally filtered by category.
func (s *AdminService) GetSettings(category string) ([]models.AdminSettings, error) {
	query := s.db.Model(&models.AdminSettings{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var settings []models.AdminSettings
	if err := query.Order("category, key").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	return settings, nil
}

type UpdateSettingRequest struct {
	Category string       `json:"category" validate:"required"`
	Key      string       `json:"key" validate:"required"`
	Value    models.JSONB `json:"value" validate:"required"`
}

// UpdateSetting upserts one settings row and records who changed it.
func (s *AdminService) UpdateSetting(viewer models.ViewerContext, req *UpdateSettingRequest) (*models.AdminSettings, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !viewer.IsAdmin() || !viewer.Authenticated() {
		return nil, fmt.Errorf("settings are admin-only: %w", ErrForbidden)
	}

	var setting models.AdminSettings
	err := s.db.Where("category = ? AND key = ?", req.Category, req.Key).First(&setting).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("database error: %w", err)
		}
		setting = models.AdminSettings{
			Category: req.Category,
			Key:      req.Key,
			DataType: "string",
		}
	}

	setting.Value = req.Value
	setting.UpdatedBy = *viewer.UserID

	if err := s.db.Save(&setting).Error; err != nil {
		return nil, fmt.Errorf("failed to save setting: %w", err)
	}
	return &setting, nil
}

// ListErrorLogs pages through recorded request failures, newest first.
func (s *AdminService) ListErrorLogs(params utils.PaginationParams) ([]models.ErrorLog, int64, error) {
	query := s.db.Model(&models.ErrorLog{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count error logs: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "endpoint", "error_type"})
	query = utils.ApplyPagination(query, params)

	var logs []models.ErrorLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch error logs: %w", err)
	}
	return logs, total, nil
}
