// internal/services/workflow_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/liebemama/marketplace-backend/internal/models"
)

// WorkflowService is the single write path for approval-cycle
// notifications. Advancing a step archives the live notifications of the
// previous step and creates exactly one notification for the next
// audience, inside one transaction. Nothing else in the codebase creates
// workflow notifications directly.
type WorkflowService struct {
	db *gorm.DB
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{db: db}
}

// AdvanceRequest describes one workflow handoff. FromRole/FromType select
// the prior step to retire; both empty means this opens a fresh cycle.
type AdvanceRequest struct {
	ProductID uuid.UUID
	FromRole  models.Role
	FromType  models.NotificationType
	To        models.Audience
	ToType    models.NotificationType
	Message   string
}

// Validate rejects malformed requests before any store access.
func (r *AdvanceRequest) Validate() error {
	if r.ProductID == uuid.Nil {
		return fmt.Errorf("%w: product id is required", ErrValidation)
	}
	if !r.To.Role.IsValid() {
		return fmt.Errorf("%w: destination role is required", ErrValidation)
	}
	if r.Message == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}
	if !r.ToType.IsValid() {
		return fmt.Errorf("%w: unknown notification type %q", ErrValidation, r.ToType)
	}

	// The retire filter is all-or-nothing.
	if (r.FromRole == "") != (r.FromType == "") {
		return fmt.Errorf("%w: from role and from type must be supplied together", ErrValidation)
	}
	if r.FromRole != "" && !r.FromRole.IsValid() {
		return fmt.Errorf("%w: unknown from role %q", ErrValidation, r.FromRole)
	}
	if r.FromType != "" && !r.FromType.IsValid() {
		return fmt.Errorf("%w: unknown notification type %q", ErrValidation, r.FromType)
	}
	if !models.CanAdvance(r.FromType, r.ToType) {
		return fmt.Errorf("%w: workflow cannot advance from %q to %q", ErrValidation, r.FromType, r.ToType)
	}

	return nil
}

// Advance runs the handoff in its own transaction.
func (s *WorkflowService) Advance(req AdvanceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.advance(tx, req)
	})
}

// AdvanceIn runs the handoff inside a caller-owned transaction so a
// product mutation and its notification commit or roll back together.
func (s *WorkflowService) AdvanceIn(tx *gorm.DB, req AdvanceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.advance(tx, req)
}

func (s *WorkflowService) advance(tx *gorm.DB, req AdvanceRequest) error {
	if req.FromRole != "" && req.FromType != "" {
		result := tx.Model(&models.Notification{}).
			Where("product_id = ? AND role = ? AND notification_type = ? AND is_visible = ?",
				req.ProductID, req.FromRole, req.FromType, true).
			Update("is_visible", false)
		if result.Error != nil {
			return fmt.Errorf("failed to archive previous workflow step: %w", result.Error)
		}

		logrus.WithFields(logrus.Fields{
			"product_id": req.ProductID,
			"from_role":  req.FromRole,
			"from_type":  req.FromType,
			"archived":   result.RowsAffected,
		}).Debug("Workflow step closed")
	}

	notification := &models.Notification{
		ProductID:        req.ProductID,
		Role:             req.To.Role,
		UserID:           req.To.UserID,
		NotificationType: req.ToType,
		Message:          req.Message,
		IsRead:           false,
		IsVisible:        true,
	}

	if err := tx.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create workflow notification: %w", err)
	}

	return nil
}

// OpenStep returns the live admin-side notification type for a product, if
// any. Approve uses it to retire whichever review step is pending.
func (s *WorkflowService) OpenStep(productID uuid.UUID, role models.Role) (models.NotificationType, bool, error) {
	var notification models.Notification
	err := s.db.
		Where("product_id = ? AND role = ? AND is_visible = ?", productID, role, true).
		Order("created_at DESC").
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to look up open workflow step: %w", err)
	}
	return notification.NotificationType, true, nil
}
