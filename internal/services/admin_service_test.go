// internal/services/admin_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/liebemama/marketplace-backend/internal/models"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

type AdminServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *AdminService
	admin    *models.User
	merchant *models.User
}

func (suite *AdminServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewAdminService(suite.db)
	suite.admin = createTestUser(suite.T(), suite.db, "admin", models.RoleAdmin)
	suite.merchant = createTestUser(suite.T(), suite.db, "merchant", models.RoleMerchant)
}

func (suite *AdminServiceTestSuite) TestDashboardStats() {
	workflow := NewWorkflowService(suite.db)
	products := NewProductService(suite.db, workflow)

	_, err := products.CreateProduct(viewerFor(suite.merchant), &CreateProductRequest{
		Name:  "Pending toy",
		Price: 9,
	}, false)
	suite.Require().NoError(err)
	_, err = products.CreateProduct(viewerFor(suite.admin), &CreateProductRequest{
		Name:  "Shelf filler",
		Price: 4,
	}, true)
	suite.Require().NoError(err)

	stats, err := suite.service.GetDashboardStats()
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(2), stats.TotalProducts)
	assert.Equal(suite.T(), int64(1), stats.PendingApproval)
	assert.Equal(suite.T(), int64(1), stats.TotalMerchants)
	assert.Equal(suite.T(), int64(1), stats.UnreadAdminItems)
}

func (suite *AdminServiceTestSuite) TestUpdateSettingUpsertsAndRecordsEditor() {
	setting, err := suite.service.UpdateSetting(viewerFor(suite.admin), &UpdateSettingRequest{
		Category: "catalog",
		Key:      "products_per_page",
		Value:    models.JSONB{"value": 50},
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.admin.ID, setting.UpdatedBy)

	// Second write updates the same row
	updated, err := suite.service.UpdateSetting(viewerFor(suite.admin), &UpdateSettingRequest{
		Category: "catalog",
		Key:      "products_per_page",
		Value:    models.JSONB{"value": 25},
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), setting.ID, updated.ID)

	settings, err := suite.service.GetSettings("catalog")
	suite.Require().NoError(err)
	suite.Require().Len(settings, 1)
}

func (suite *AdminServiceTestSuite) TestUpdateSettingIsAdminOnly() {
	_, err := suite.service.UpdateSetting(viewerFor(suite.merchant), &UpdateSettingRequest{
		Category: "catalog",
		Key:      "products_per_page",
		Value:    models.JSONB{"value": 50},
	})
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func (suite *AdminServiceTestSuite) TestListErrorLogs() {
	for i := 0; i < 3; i++ {
		suite.Require().NoError(suite.db.Create(&models.ErrorLog{
			Endpoint:  "/v1/merchant/products",
			Method:    "POST",
			Role:      models.RoleMerchant,
			ErrorType: "client_error",
			Message:   "bad payload",
		}).Error)
	}

	logs, total, err := suite.service.ListErrorLogs(utils.PaginationParams{Page: 1, Limit: 2})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(3), total)
	assert.Len(suite.T(), logs, 2)
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}
