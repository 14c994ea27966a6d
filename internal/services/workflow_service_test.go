// internal/services/workflow_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/liebemama/marketplace-backend/internal/models"
)

type WorkflowServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	workflow *WorkflowService
	merchant *models.User
}

func (suite *WorkflowServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.workflow = NewWorkflowService(suite.db)
	suite.merchant = createTestUser(suite.T(), suite.db, "workflow_merchant", models.RoleMerchant)
}

func (suite *WorkflowServiceTestSuite) seedNotification(productID uuid.UUID, audience models.Audience, notificationType models.NotificationType, visible bool) *models.Notification {
	notification := &models.Notification{
		ProductID:        productID,
		Role:             audience.Role,
		UserID:           audience.UserID,
		NotificationType: notificationType,
		Message:          "seed",
		IsVisible:        visible,
	}
	suite.Require().NoError(suite.db.Create(notification).Error)
	return notification
}

func (suite *WorkflowServiceTestSuite) TestValidateRejectsMalformedRequests() {
	productID := uuid.New()

	cases := []struct {
		name string
		req  AdvanceRequest
	}{
		{"missing product", AdvanceRequest{
			To:      models.BroadcastTo(models.RoleAdmin),
			ToType:  models.NotificationTypeProductSubmitted,
			Message: "m",
		}},
		{"missing message", AdvanceRequest{
			ProductID: productID,
			To:        models.BroadcastTo(models.RoleAdmin),
			ToType:    models.NotificationTypeProductSubmitted,
		}},
		{"invalid destination role", AdvanceRequest{
			ProductID: productID,
			To:        models.Audience{Role: "superuser"},
			ToType:    models.NotificationTypeProductSubmitted,
			Message:   "m",
		}},
		{"unknown notification type", AdvanceRequest{
			ProductID: productID,
			To:        models.BroadcastTo(models.RoleAdmin),
			ToType:    "product_exploded",
			Message:   "m",
		}},
		{"from role without from type", AdvanceRequest{
			ProductID: productID,
			FromRole:  models.RoleAdmin,
			To:        models.BroadcastTo(models.RoleAdmin),
			ToType:    models.NotificationTypeProductSubmitted,
			Message:   "m",
		}},
		{"illegal transition", AdvanceRequest{
			ProductID: productID,
			FromRole:  models.RoleAdmin,
			FromType:  models.NotificationTypeProductSubmitted,
			To:        models.BroadcastTo(models.RoleAdmin),
			ToType:    models.NotificationTypeProductEdited,
			Message:   "m",
		}},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			err := suite.workflow.Advance(tc.req)
			assert.ErrorIs(suite.T(), err, ErrValidation)
		})
	}
}

func (suite *WorkflowServiceTestSuite) TestAdvanceArchivesPreviousStepAndCreatesNext() {
	productID := uuid.New()
	old := suite.seedNotification(productID, models.BroadcastTo(models.RoleAdmin), models.NotificationTypeProductSubmitted, true)

	err := suite.workflow.Advance(AdvanceRequest{
		ProductID: productID,
		FromRole:  models.RoleAdmin,
		FromType:  models.NotificationTypeProductSubmitted,
		To:        models.TargetedAt(models.RoleMerchant, suite.merchant.ID),
		ToType:    models.NotificationTypeProductApproved,
		Message:   "approved",
	})
	suite.Require().NoError(err)

	var archived models.Notification
	suite.Require().NoError(suite.db.First(&archived, "id = ?", old.ID).Error)
	assert.False(suite.T(), archived.IsVisible)

	var created []models.Notification
	suite.Require().NoError(suite.db.
		Where("product_id = ? AND notification_type = ?", productID, models.NotificationTypeProductApproved).
		Find(&created).Error)
	suite.Require().Len(created, 1)
	assert.Equal(suite.T(), models.RoleMerchant, created[0].Role)
	suite.Require().NotNil(created[0].UserID)
	assert.Equal(suite.T(), suite.merchant.ID, *created[0].UserID)
	assert.True(suite.T(), created[0].IsVisible)
	assert.False(suite.T(), created[0].IsRead)
}

func (suite *WorkflowServiceTestSuite) TestAdvanceLeavesOtherProductsAlone() {
	productID := uuid.New()
	otherProductID := uuid.New()
	other := suite.seedNotification(otherProductID, models.BroadcastTo(models.RoleAdmin), models.NotificationTypeProductSubmitted, true)

	suite.Require().NoError(suite.workflow.Advance(AdvanceRequest{
		ProductID: productID,
		To:        models.BroadcastTo(models.RoleAdmin),
		ToType:    models.NotificationTypeProductSubmitted,
		Message:   "fresh cycle",
	}))

	var untouched models.Notification
	suite.Require().NoError(suite.db.First(&untouched, "id = ?", other.ID).Error)
	assert.True(suite.T(), untouched.IsVisible)
}

func (suite *WorkflowServiceTestSuite) TestAdvanceArchivesEveryMatchingLiveStep() {
	productID := uuid.New()
	suite.seedNotification(productID, models.BroadcastTo(models.RoleAdmin), models.NotificationTypeProductSubmitted, true)
	suite.seedNotification(productID, models.BroadcastTo(models.RoleAdmin), models.NotificationTypeProductSubmitted, true)

	suite.Require().NoError(suite.workflow.Advance(AdvanceRequest{
		ProductID: productID,
		FromRole:  models.RoleAdmin,
		FromType:  models.NotificationTypeProductSubmitted,
		To:        models.TargetedAt(models.RoleMerchant, suite.merchant.ID),
		ToType:    models.NotificationTypeProductApproved,
		Message:   "approved",
	}))

	var liveAdmin int64
	suite.Require().NoError(suite.db.Model(&models.Notification{}).
		Where("product_id = ? AND role = ? AND is_visible = ?", productID, models.RoleAdmin, true).
		Count(&liveAdmin).Error)
	assert.Zero(suite.T(), liveAdmin)
}

func (suite *WorkflowServiceTestSuite) TestOpenStepReportsLiveAdminStep() {
	productID := uuid.New()

	_, found, err := suite.workflow.OpenStep(productID, models.RoleAdmin)
	suite.Require().NoError(err)
	assert.False(suite.T(), found)

	suite.seedNotification(productID, models.BroadcastTo(models.RoleAdmin), models.NotificationTypeProductEdited, true)

	openType, found, err := suite.workflow.OpenStep(productID, models.RoleAdmin)
	suite.Require().NoError(err)
	assert.True(suite.T(), found)
	assert.Equal(suite.T(), models.NotificationTypeProductEdited, openType)
}

func TestWorkflowServiceSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
