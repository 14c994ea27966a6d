// internal/services/notification_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/liebemama/marketplace-backend/internal/models"
)

// NotificationService answers mailbox and archive queries for a viewer and
// owns the hide/restore visibility toggles. The addressing rule is the
// only access control: a notification is visible to a viewer when the role
// matches and it is either broadcast or targeted at exactly that user.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// scoped applies the broadcast-or-targeted filter for a viewer. Anonymous
// viewers only see broadcast rows for their role.
func (s *NotificationService) scoped(viewer models.ViewerContext, visible bool) *gorm.DB {
	query := s.db.Model(&models.Notification{}).
		Where("role = ? AND is_visible = ?", viewer.Role, visible)
	if viewer.UserID != nil {
		return query.Where("user_id IS NULL OR user_id = ?", *viewer.UserID)
	}
	return query.Where("user_id IS NULL")
}

// Mailbox returns the viewer's live notifications, newest first.
func (s *NotificationService) Mailbox(viewer models.ViewerContext) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.scoped(viewer, true).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch mailbox: %w", err)
	}
	return notifications, nil
}

// Archive returns the viewer's hidden notifications, newest first.
func (s *NotificationService) Archive(viewer models.ViewerContext) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.scoped(viewer, false).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch archive: %w", err)
	}
	return notifications, nil
}

// UnreadCount is derived on every call, never cached: read and visibility
// state can change between requests from other sessions.
func (s *NotificationService) UnreadCount(viewer models.ViewerContext) (int64, error) {
	var count int64
	if err := s.scoped(viewer, true).
		Where("is_read = ?", false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// Hide archives a notification out of the live mailbox. Reversible.
func (s *NotificationService) Hide(viewer models.ViewerContext, id uuid.UUID) error {
	return s.setVisibility(viewer, id, false)
}

// Restore brings an archived notification back into the live mailbox.
func (s *NotificationService) Restore(viewer models.ViewerContext, id uuid.UUID) error {
	return s.setVisibility(viewer, id, true)
}

func (s *NotificationService) setVisibility(viewer models.ViewerContext, id uuid.UUID, visible bool) error {
	notification, err := s.get(id)
	if err != nil {
		return err
	}
	if err := s.CheckPermissions(notification, viewer); err != nil {
		return err
	}

	if err := s.db.Model(notification).Update("is_visible", visible).Error; err != nil {
		return fmt.Errorf("failed to update notification visibility: %w", err)
	}
	return nil
}

// MarkRead flags a notification as seen by its viewer. Idempotent.
func (s *NotificationService) MarkRead(viewer models.ViewerContext, id uuid.UUID) error {
	notification, err := s.get(id)
	if err != nil {
		return err
	}
	if err := s.CheckPermissions(notification, viewer); err != nil {
		return err
	}

	if notification.IsRead {
		return nil
	}
	if err := s.db.Model(notification).Update("is_read", true).Error; err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// CheckPermissions enforces the addressing rule for mutations. A mismatch
// is an authorization failure, not a data error; the caller learns nothing
// about the notification beyond the denial.
func (s *NotificationService) CheckPermissions(notification *models.Notification, viewer models.ViewerContext) error {
	if notification.Audience().Matches(viewer) {
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"notification_id": notification.ID,
		"viewer_role":     viewer.Role,
		"viewer_username": viewer.Username,
	}).Warn("Unauthorized notification access attempt")

	return fmt.Errorf("notification access denied: %w", ErrForbidden)
}

func (s *NotificationService) get(id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &notification, nil
}
