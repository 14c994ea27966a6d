// internal/handlers/notification.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/liebemama/marketplace-backend/internal/i18n"
	"github.com/liebemama/marketplace-backend/internal/services"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

// NotificationHandler exposes the role-scoped mailbox. The viewer context
// decides which notifications are visible: broadcasts to the viewer's role
// plus items targeted at the viewer personally.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GET /notifications
func (h *NotificationHandler) GetMailbox(c *gin.Context) {
	viewer := utils.GetViewerFromContext(c)

	notifications, err := h.notificationService.Mailbox(viewer)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, notifications)
}

// GET /notifications/archive
func (h *NotificationHandler) GetArchive(c *gin.Context) {
	viewer := utils.GetViewerFromContext(c)

	notifications, err := h.notificationService.Archive(viewer)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, notifications)
}

// GET /notifications/unread-count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	viewer := utils.GetViewerFromContext(c)

	count, err := h.notificationService.UnreadCount(viewer)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"unread": count})
}

// POST /notifications/:id/hide
func (h *NotificationHandler) HideNotification(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	viewer := utils.GetViewerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Hide(viewer, id); err != nil {
		handleServiceError(c, err, "notification")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNotificationHidden),
	})
}

// POST /notifications/:id/restore
func (h *NotificationHandler) RestoreNotification(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	viewer := utils.GetViewerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Restore(viewer, id); err != nil {
		handleServiceError(c, err, "notification")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNotificationRestored),
	})
}

// POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	viewer := utils.GetViewerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(viewer, id); err != nil {
		handleServiceError(c, err, "notification")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNotificationRead),
	})
}
