// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/liebemama/marketplace-backend/internal/config"
	"github.com/liebemama/marketplace-backend/internal/models"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	utils.SetJWTSecret("test-secret")
	suite.service = NewAuthService(suite.db, &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	})
}

func (suite *AuthServiceTestSuite) register(username string) *models.User {
	user, err := suite.service.Register(&RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "Str0ngPass!",
	})
	suite.Require().NoError(err)
	return user
}

func (suite *AuthServiceTestSuite) TestRegisterCreatesMerchant() {
	user := suite.register("newmerchant")

	assert.Equal(suite.T(), models.RoleMerchant, user.Role)
	assert.Equal(suite.T(), models.UserStatusActive, user.Status)
	assert.NoError(suite.T(), user.CheckPassword("Str0ngPass!"))
}

func (suite *AuthServiceTestSuite) TestRegisterRejectsDuplicates() {
	suite.register("taken")

	_, err := suite.service.Register(&RegisterRequest{
		Username: "taken",
		Email:    "other@example.com",
		Password: "Str0ngPass!",
	})
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *AuthServiceTestSuite) TestRegisterRejectsWeakPassword() {
	_, err := suite.service.Register(&RegisterRequest{
		Username: "weakling",
		Email:    "weak@example.com",
		Password: "short",
	})
	assert.ErrorIs(suite.T(), err, ErrValidation)
}

func (suite *AuthServiceTestSuite) TestLoginIssuesTokens() {
	suite.register("login_user")

	user, tokens, err := suite.service.Login(&LoginRequest{
		Email:    "login_user@example.com",
		Password: "Str0ngPass!",
	})
	suite.Require().NoError(err)
	assert.NotEmpty(suite.T(), tokens.AccessToken)
	assert.NotEmpty(suite.T(), tokens.RefreshToken)
	assert.NotNil(suite.T(), user.LastLoginAt)

	claims, err := utils.ValidateJWT(tokens.AccessToken)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), user.ID.String(), claims.UserID)
	assert.Equal(suite.T(), string(models.RoleMerchant), claims.Role)
}

func (suite *AuthServiceTestSuite) TestLoginRejectsBadCredentials() {
	suite.register("victim")

	_, _, err := suite.service.Login(&LoginRequest{
		Email:    "victim@example.com",
		Password: "WrongPass1!",
	})
	assert.ErrorIs(suite.T(), err, ErrForbidden)

	_, _, err = suite.service.Login(&LoginRequest{
		Email:    "nobody@example.com",
		Password: "Str0ngPass!",
	})
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func (suite *AuthServiceTestSuite) TestLoginRejectsSuspendedAccount() {
	user := suite.register("suspended")
	suite.Require().NoError(suite.db.Model(user).Update("status", models.UserStatusSuspended).Error)

	_, _, err := suite.service.Login(&LoginRequest{
		Email:    "suspended@example.com",
		Password: "Str0ngPass!",
	})
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func (suite *AuthServiceTestSuite) TestRefreshRotatesTokens() {
	suite.register("refresher")
	_, tokens, err := suite.service.Login(&LoginRequest{
		Email:    "refresher@example.com",
		Password: "Str0ngPass!",
	})
	suite.Require().NoError(err)

	fresh, err := suite.service.Refresh(tokens.RefreshToken)
	suite.Require().NoError(err)
	assert.NotEmpty(suite.T(), fresh.AccessToken)

	_, err = suite.service.Refresh("not-a-token")
	assert.ErrorIs(suite.T(), err, ErrForbidden)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
