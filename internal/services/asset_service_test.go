// internal/services/asset_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave-backend/internal/models"
)

type AssetServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AssetService
}

func (suite *AssetServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewAssetService(suite.db, NewChainService(newTestConfig()))
}

func characterRequest() *CreateAssetRequest {
	return &CreateAssetRequest{
		Kind:        models.AssetKindCharacter,
		Name:        "Kaela of the Dunes",
		Description: "a wandering cartographer",
		Metadata: map[string]interface{}{
			"backstory": "born in the southern wastes",
			"abilities": []interface{}{"sand-reading"},
			"traits":    []interface{}{"stubborn", "curious"},
		},
	}
}

func (suite *AssetServiceTestSuite) TestCreateAsset() {
	asset, err := suite.service.CreateAsset(creatorAddr, characterRequest())

	suite.NoError(err)
	suite.Equal(models.AssetStatusDraft, asset.Status)
	suite.Equal(creatorAddr, asset.CreatorAddress)
	suite.NotEqual(uuid.Nil, asset.ID)
}

func (suite *AssetServiceTestSuite) TestCreateAssetInvalidCreator() {
	_, err := suite.service.CreateAsset("not-an-address", characterRequest())
	suite.ErrorIs(err, ErrValidation)
}

func (suite *AssetServiceTestSuite) TestCreateAssetMissingKindMetadata() {
	req := characterRequest()
	delete(req.Metadata, "backstory")

	_, err := suite.service.CreateAsset(creatorAddr, req)
	suite.ErrorIs(err, ErrValidation)
	suite.Contains(err.Error(), "backstory")
}

func (suite *AssetServiceTestSuite) TestCreateWorldRequiresGeography() {
	_, err := suite.service.CreateAsset(creatorAddr, &CreateAssetRequest{
		Kind:        models.AssetKindWorld,
		Name:        "The Hollow Sea",
		Description: "an ocean with no floor",
		Metadata: map[string]interface{}{
			"culture": "nomadic rafts",
			"era":     "second tide",
		},
	})

	suite.ErrorIs(err, ErrValidation)
	suite.Contains(err.Error(), "geography")
}

func (suite *AssetServiceTestSuite) TestCreatePlotRequiresWorld() {
	_, err := suite.service.CreateAsset(creatorAddr, &CreateAssetRequest{
		Kind:        models.AssetKindPlot,
		Name:        "The Long Drought",
		Description: "three summers without rain",
		Metadata: map[string]interface{}{
			"characters": []interface{}{"Kaela"},
		},
	})

	suite.ErrorIs(err, ErrValidation)
	suite.Contains(err.Error(), "world_id")
}

func (suite *AssetServiceTestSuite) TestMintAsset() {
	asset, err := suite.service.CreateAsset(creatorAddr, characterRequest())
	suite.Require().NoError(err)

	minted, err := suite.service.MintAsset(asset.ID, creatorAddr)
	suite.NoError(err)
	suite.Equal(models.AssetStatusMinted, minted.Status)
	suite.NotEmpty(minted.TokenID)
	suite.Regexp("^0x[0-9a-f]{64}$", minted.MintTxHash)
	suite.NotNil(minted.MintedAt)
}

func (suite *AssetServiceTestSuite) TestMintAssetTwice() {
	asset, err := suite.service.CreateAsset(creatorAddr, characterRequest())
	suite.Require().NoError(err)

	_, err = suite.service.MintAsset(asset.ID, creatorAddr)
	suite.NoError(err)

	_, err = suite.service.MintAsset(asset.ID, creatorAddr)
	suite.ErrorIs(err, ErrInvalidState)
}

func (suite *AssetServiceTestSuite) TestMintAssetByNonCreator() {
	asset, err := suite.service.CreateAsset(creatorAddr, characterRequest())
	suite.Require().NoError(err)

	_, err = suite.service.MintAsset(asset.ID, otherAddr)
	suite.ErrorIs(err, ErrUnauthorized)

	var stored models.Asset
	suite.NoError(suite.db.First(&stored, "id = ?", asset.ID).Error)
	suite.Equal(models.AssetStatusDraft, stored.Status)
}

func (suite *AssetServiceTestSuite) TestMintUnknownAsset() {
	_, err := suite.service.MintAsset(uuid.New(), creatorAddr)
	suite.ErrorIs(err, ErrAssetNotFound)
}

func (suite *AssetServiceTestSuite) TestGetAssetNotFound() {
	_, err := suite.service.GetAsset(uuid.New())
	suite.ErrorIs(err, ErrAssetNotFound)
}

func (suite *AssetServiceTestSuite) TestExists() {
	asset, err := suite.service.CreateAsset(creatorAddr, characterRequest())
	suite.Require().NoError(err)

	exists, err := suite.service.Exists(asset.ID)
	suite.NoError(err)
	suite.True(exists)

	exists, err = suite.service.Exists(uuid.New())
	suite.NoError(err)
	suite.False(exists)
}

func (suite *AssetServiceTestSuite) TestSearchAssetsByKindAndCreator() {
	_, err := suite.service.CreateAsset(creatorAddr, characterRequest())
	suite.Require().NoError(err)
	seedAsset(suite.T(), suite.db, models.AssetKindWorld, otherAddr)

	params := AssetSearchParams{PaginationParams: paginationDefaults()}
	kind := models.AssetKindCharacter
	params.Kind = &kind

	assets, total, err := suite.service.SearchAssets(params)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Len(assets, 1)
	suite.Equal(models.AssetKindCharacter, assets[0].Kind)

	creator := otherAddr
	params = AssetSearchParams{PaginationParams: paginationDefaults()}
	params.CreatorAddress = &creator

	assets, total, err = suite.service.SearchAssets(params)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(otherAddr, assets[0].CreatorAddress)
}

func TestAssetServiceSuite(t *testing.T) {
	suite.Run(t, new(AssetServiceTestSuite))
}
