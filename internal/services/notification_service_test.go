// internal/services/notification_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/liebemama/marketplace-backend/internal/models"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	service   *NotificationService
	admin     *models.User
	merchantA *models.User
	merchantB *models.User
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewNotificationService(suite.db)
	suite.admin = createTestUser(suite.T(), suite.db, "admin", models.RoleAdmin)
	suite.merchantA = createTestUser(suite.T(), suite.db, "merchant_a", models.RoleMerchant)
	suite.merchantB = createTestUser(suite.T(), suite.db, "merchant_b", models.RoleMerchant)
}

func (suite *NotificationServiceTestSuite) seed(audience models.Audience, visible, read bool) *models.Notification {
	notification := &models.Notification{
		ProductID:        uuid.New(),
		Role:             audience.Role,
		UserID:           audience.UserID,
		NotificationType: models.NotificationTypeProductSubmitted,
		Message:          "seed",
		IsVisible:        visible,
		IsRead:           read,
	}
	suite.Require().NoError(suite.db.Create(notification).Error)
	return notification
}

func (suite *NotificationServiceTestSuite) TestMailboxAddressing() {
	adminBroadcast := suite.seed(models.BroadcastTo(models.RoleAdmin), true, false)
	merchantBroadcast := suite.seed(models.BroadcastTo(models.RoleMerchant), true, false)
	targetedAtA := suite.seed(models.TargetedAt(models.RoleMerchant, suite.merchantA.ID), true, false)
	targetedAtB := suite.seed(models.TargetedAt(models.RoleMerchant, suite.merchantB.ID), true, false)
	visitorBroadcast := suite.seed(models.BroadcastTo(models.RoleVisitor), true, false)
	hidden := suite.seed(models.BroadcastTo(models.RoleMerchant), false, false)

	ids := func(notifications []models.Notification) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(notifications))
		for _, n := range notifications {
			out = append(out, n.ID)
		}
		return out
	}

	adminBox, err := suite.service.Mailbox(viewerFor(suite.admin))
	suite.Require().NoError(err)
	assert.ElementsMatch(suite.T(), []uuid.UUID{adminBroadcast.ID}, ids(adminBox))

	merchantABox, err := suite.service.Mailbox(viewerFor(suite.merchantA))
	suite.Require().NoError(err)
	assert.ElementsMatch(suite.T(), []uuid.UUID{merchantBroadcast.ID, targetedAtA.ID}, ids(merchantABox))
	assert.NotContains(suite.T(), ids(merchantABox), targetedAtB.ID)
	assert.NotContains(suite.T(), ids(merchantABox), hidden.ID)

	visitorBox, err := suite.service.Mailbox(models.AnonymousViewer())
	suite.Require().NoError(err)
	assert.ElementsMatch(suite.T(), []uuid.UUID{visitorBroadcast.ID}, ids(visitorBox))
}

func (suite *NotificationServiceTestSuite) TestArchiveShowsOnlyHiddenEntries() {
	suite.seed(models.BroadcastTo(models.RoleMerchant), true, false)
	hidden := suite.seed(models.TargetedAt(models.RoleMerchant, suite.merchantA.ID), false, false)

	archive, err := suite.service.Archive(viewerFor(suite.merchantA))
	suite.Require().NoError(err)
	suite.Require().Len(archive, 1)
	assert.Equal(suite.T(), hidden.ID, archive[0].ID)
}

func (suite *NotificationServiceTestSuite) TestUnreadCountIsDerived() {
	suite.seed(models.BroadcastTo(models.RoleMerchant), true, false)
	target := suite.seed(models.TargetedAt(models.RoleMerchant, suite.merchantA.ID), true, false)
	suite.seed(models.TargetedAt(models.RoleMerchant, suite.merchantA.ID), true, true)
	suite.seed(models.TargetedAt(models.RoleMerchant, suite.merchantA.ID), false, false)

	viewer := viewerFor(suite.merchantA)

	count, err := suite.service.UnreadCount(viewer)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(2), count)

	suite.Require().NoError(suite.service.MarkRead(viewer, target.ID))

	count, err = suite.service.UnreadCount(viewer)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *NotificationServiceTestSuite) TestMarkReadIsIdempotent() {
	target := suite.seed(models.TargetedAt(models.RoleMerchant, suite.merchantA.ID), true, false)
	viewer := viewerFor(suite.merchantA)

	suite.Require().NoError(suite.service.MarkRead(viewer, target.ID))
	suite.Require().NoError(suite.service.MarkRead(viewer, target.ID))

	var stored models.Notification
	suite.Require().NoError(suite.db.First(&stored, "id = ?", target.ID).Error)
	assert.True(suite.T(), stored.IsRead)
}

func (suite *NotificationServiceTestSuite) TestHideRestoreRoundTrip() {
	target := suite.seed(models.TargetedAt(models.RoleMerchant, suite.merchantA.ID), true, false)
	viewer := viewerFor(suite.merchantA)

	suite.Require().NoError(suite.service.Hide(viewer, target.ID))

	mailbox, err := suite.service.Mailbox(viewer)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), mailbox)

	suite.Require().NoError(suite.service.Restore(viewer, target.ID))

	mailbox, err = suite.service.Mailbox(viewer)
	suite.Require().NoError(err)
	suite.Require().Len(mailbox, 1)
	assert.Equal(suite.T(), target.ID, mailbox[0].ID)
}

func (suite *NotificationServiceTestSuite) TestMutationsEnforceAddressingRule() {
	targetedAtA := suite.seed(models.TargetedAt(models.RoleMerchant, suite.merchantA.ID), true, false)
	adminBroadcast := suite.seed(models.BroadcastTo(models.RoleAdmin), true, false)

	// Another merchant may not touch a notification targeted at A
	err := suite.service.Hide(viewerFor(suite.merchantB), targetedAtA.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	// Role mismatch fails even for admins
	err = suite.service.Hide(viewerFor(suite.merchantA), adminBroadcast.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)
	err = suite.service.MarkRead(viewerFor(suite.admin), targetedAtA.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	// Anonymous visitors may not mutate broadcasts outside their role
	err = suite.service.Hide(models.AnonymousViewer(), adminBroadcast.ID)
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	var stored models.Notification
	suite.Require().NoError(suite.db.First(&stored, "id = ?", targetedAtA.ID).Error)
	assert.True(suite.T(), stored.IsVisible)
}

func (suite *NotificationServiceTestSuite) TestHideUnknownNotification() {
	err := suite.service.Hide(viewerFor(suite.merchantA), uuid.New())
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func TestNotificationServiceSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
