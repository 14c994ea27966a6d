// internal/models/notification.go
package models

import (
	"fmt"

	"github.com/google/uuid"
)

// NotificationType tags the workflow event a notification announces.
type NotificationType string

const (
	// NotificationTypeProductSubmitted marks a merchant's first submission
	// of a product, waiting for admin review.
	NotificationTypeProductSubmitted NotificationType = "product_submitted"
	// NotificationTypeProductEdited marks a re-submission: an approved
	// product was changed by its owner and needs review again.
	NotificationTypeProductEdited NotificationType = "product_edited"
	// NotificationTypeProductApproved tells the owning merchant the review
	// passed.
	NotificationTypeProductApproved NotificationType = "product_approved"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeProductSubmitted,
	NotificationTypeProductEdited,
	NotificationTypeProductApproved,
}

func (t NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

// workflowTransitions is the closed vocabulary of workflow steps. The empty
// key covers advances with nothing to retire: a fresh cycle, or an approval
// whose review step was already hidden from the admin mailbox.
var workflowTransitions = map[NotificationType][]NotificationType{
	"": {
		NotificationTypeProductSubmitted,
		NotificationTypeProductEdited,
		NotificationTypeProductApproved,
	},
	NotificationTypeProductSubmitted: {NotificationTypeProductApproved},
	NotificationTypeProductEdited:    {NotificationTypeProductApproved},
	NotificationTypeProductApproved:  {NotificationTypeProductEdited},
}

// CanAdvance reports whether the workflow may move from one step to the
// next. Illegal pairs are rejected before any store access.
func CanAdvance(from, to NotificationType) bool {
	for _, candidate := range workflowTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Audience is the destination of a notification: either every session with
// a role (broadcast) or exactly one user within that role (targeted).
type Audience struct {
	Role   Role
	UserID *uuid.UUID
}

// BroadcastTo addresses every session holding the given role.
func BroadcastTo(role Role) Audience {
	return Audience{Role: role}
}

// TargetedAt addresses one specific user within a role.
func TargetedAt(role Role, userID uuid.UUID) Audience {
	return Audience{Role: role, UserID: &userID}
}

func (a Audience) Targeted() bool {
	return a.UserID != nil
}

// Matches is the single implementation of the addressing rule: role must
// match, and a targeted audience additionally requires the same user id.
func (a Audience) Matches(viewer ViewerContext) bool {
	if a.Role != viewer.Role {
		return false
	}
	if a.UserID == nil {
		return true
	}
	return viewer.UserID != nil && *a.UserID == *viewer.UserID
}

// Notification is one mailbox entry. The role/user pair is fixed at
// creation and never reassigned; hiding is reversible, deletion is not
// performed.
type Notification struct {
	BaseModel
	ProductID        uuid.UUID        `json:"product_id" gorm:"type:uuid;not null;index"`
	Role             Role             `json:"role" gorm:"type:varchar(20);not null;index"`
	UserID           *uuid.UUID       `json:"user_id" gorm:"type:uuid;index"`
	NotificationType NotificationType `json:"notification_type" gorm:"type:varchar(50);not null;index"`
	Message          string           `json:"message" gorm:"type:text;not null"`
	IsRead           bool             `json:"is_read" gorm:"not null;default:false"`
	IsVisible        bool             `json:"is_visible" gorm:"not null;default:true;index"`
}

// Audience reconstructs the addressing value for permission checks.
func (n *Notification) Audience() Audience {
	return Audience{Role: n.Role, UserID: n.UserID}
}
