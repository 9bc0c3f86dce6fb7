// internal/handlers/contribution_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storyweave/storyweave-backend/internal/config"
	"github.com/storyweave/storyweave-backend/internal/middleware"
	"github.com/storyweave/storyweave-backend/internal/models"
	"github.com/storyweave/storyweave-backend/internal/services"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

const (
	testCreator     = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testContributor = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	testVoter       = "0xcccccccccccccccccccccccccccccccccccccccc"
)

type ContributionHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	asset  *models.Asset
}

func (suite *ContributionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)

	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.Contribution{},
		&models.ContributionVote{},
		&models.RoyaltySplit{},
		&models.RoyaltyRecipient{},
		&models.Distribution{},
		&models.Notification{},
	))
	suite.db = db

	cfg := &config.Config{
		Environment: "test",
		Chain:       config.ChainConfig{Network: "testnet"},
		JWT:         config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	chainService := services.NewChainService(cfg)
	notificationService := services.NewNotificationService(db, cfg)
	assetService := services.NewAssetService(db, chainService)
	royaltyService := services.NewRoyaltyService(db, chainService)
	contributionService := services.NewContributionService(db, royaltyService, chainService)

	contributionHandler := NewContributionHandler(contributionService, assetService, notificationService)
	royaltyHandler := NewRoyaltyHandler(royaltyService, notificationService)

	r := gin.New()
	r.Use(middleware.I18nMiddleware())

	contributions := r.Group("/contributions")
	{
		contributions.GET("/:id", contributionHandler.GetContribution)

		protected := contributions.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("", contributionHandler.Submit)
			protected.POST("/:id/vote", contributionHandler.Vote)
			protected.PUT("/:id/approve", contributionHandler.Approve)
			protected.PUT("/:id/reject", contributionHandler.Reject)
		}
	}
	r.GET("/assets/:id/royalties", royaltyHandler.GetSplit)
	suite.router = r

	suite.asset = &models.Asset{
		Kind:           models.AssetKindWorld,
		Name:           "The Hollow Sea",
		Description:    "an ocean with no floor",
		CreatorAddress: testCreator,
		Status:         models.AssetStatusMinted,
	}
	suite.Require().NoError(db.Create(suite.asset).Error)
}

func (suite *ContributionHandlerTestSuite) token(wallet string) string {
	token, err := utils.GenerateJWT(uuid.New(), "tester", wallet, string(models.UserTypeContributor), 1)
	suite.Require().NoError(err)
	return token
}

func (suite *ContributionHandlerTestSuite) do(method, path, wallet string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if wallet != "" {
		req.Header.Set("Authorization", "Bearer "+suite.token(wallet))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ContributionHandlerTestSuite) errorCode(w *httptest.ResponseRecorder) string {
	var response utils.APIResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().NotNil(response.Error)
	return response.Error.Code
}

func (suite *ContributionHandlerTestSuite) submit(wallet string) uuid.UUID {
	w := suite.do("POST", "/contributions", wallet, map[string]interface{}{
		"asset_id":    suite.asset.ID,
		"kind":        "story",
		"title":       "The Drowned Archive",
		"description": "a library beneath the waves",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var response struct {
		Data struct {
			Contribution models.Contribution `json:"contribution"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response.Data.Contribution.ID
}

func (suite *ContributionHandlerTestSuite) TestSubmitRequiresAuth() {
	w := suite.do("POST", "/contributions", "", map[string]interface{}{
		"asset_id": suite.asset.ID,
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ContributionHandlerTestSuite) TestVoteLifecycle() {
	id := suite.submit(testContributor)

	w := suite.do("POST", fmt.Sprintf("/contributions/%s/vote", id), testVoter, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do("POST", fmt.Sprintf("/contributions/%s/vote", id), testVoter, nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("ALREADY_VOTED", suite.errorCode(w))
}

func (suite *ContributionHandlerTestSuite) TestApproveAuthorization() {
	id := suite.submit(testContributor)

	// Only the asset creator may decide
	w := suite.do("PUT", fmt.Sprintf("/contributions/%s/approve", id), testVoter, map[string]interface{}{
		"royalty_percentage": 5,
	})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do("PUT", fmt.Sprintf("/contributions/%s/approve", id), testCreator, map[string]interface{}{
		"royalty_percentage": 5,
	})
	suite.Equal(http.StatusOK, w.Code)

	// Terminal state: a second decision conflicts
	w = suite.do("PUT", fmt.Sprintf("/contributions/%s/reject", id), testCreator, nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("INVALID_STATE", suite.errorCode(w))
}

func (suite *ContributionHandlerTestSuite) TestApproveOverAllocation() {
	first := suite.submit(testContributor)
	second := suite.submit(testVoter)

	w := suite.do("PUT", fmt.Sprintf("/contributions/%s/approve", first), testCreator, map[string]interface{}{
		"royalty_percentage": 70,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do("PUT", fmt.Sprintf("/contributions/%s/approve", second), testCreator, map[string]interface{}{
		"royalty_percentage": 40,
	})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal("INVARIANT_VIOLATION", suite.errorCode(w))
}

func (suite *ContributionHandlerTestSuite) TestRoyaltySplitReadBack() {
	id := suite.submit(testContributor)

	w := suite.do("PUT", fmt.Sprintf("/contributions/%s/approve", id), testCreator, map[string]interface{}{
		"royalty_percentage": 12.5,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do("GET", fmt.Sprintf("/assets/%s/royalties", suite.asset.ID), "", nil)
	suite.Equal(http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Split models.RoyaltySplit `json:"split"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(87.5, response.Data.Split.CreatorPercentage)
	suite.Require().Len(response.Data.Split.Recipients, 1)
	suite.Equal(testContributor, response.Data.Split.Recipients[0].Address)
}

func (suite *ContributionHandlerTestSuite) TestUnknownContribution() {
	w := suite.do("POST", fmt.Sprintf("/contributions/%s/vote", uuid.New()), testVoter, nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", suite.errorCode(w))
}

func TestContributionHandlerSuite(t *testing.T) {
	suite.Run(t, new(ContributionHandlerTestSuite))
}
