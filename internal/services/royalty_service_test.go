// internal/services/royalty_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave-backend/internal/models"
)

type RoyaltyServiceTestSuite struct {
	suite.Suite
	db                  *gorm.DB
	service             *RoyaltyService
	contributionService *ContributionService
	asset               *models.Asset
}

func (suite *RoyaltyServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	chainService := NewChainService(newTestConfig())
	suite.service = NewRoyaltyService(suite.db, chainService)
	suite.contributionService = NewContributionService(suite.db, suite.service, chainService)
	suite.asset = seedAsset(suite.T(), suite.db, models.AssetKindCharacter, creatorAddr)
}

func (suite *RoyaltyServiceTestSuite) approve(contributor string, percentage float64) *models.Contribution {
	contribution := seedContribution(suite.T(), suite.db, suite.asset, contributor)
	approved, err := suite.contributionService.Approve(contribution.ID, creatorAddr, &ApproveContributionRequest{
		RoyaltyPercentage: percentage,
	})
	suite.Require().NoError(err)
	return approved
}

func (suite *RoyaltyServiceTestSuite) TestGetSplitDefaultsToCreator() {
	// No split row exists yet; the read surface still reports the
	// creator-100% partition
	split, err := suite.service.GetSplit(suite.asset.ID)
	suite.NoError(err)
	suite.Equal(suite.asset.ID, split.AssetID)
	suite.Equal(creatorAddr, split.CreatorAddress)
	suite.Equal(float64(100), split.CreatorPercentage)
	suite.Empty(split.Recipients)
}

func (suite *RoyaltyServiceTestSuite) TestGetSplitUnknownAsset() {
	_, err := suite.service.GetSplit(uuid.New())
	suite.ErrorIs(err, ErrAssetNotFound)
}

func (suite *RoyaltyServiceTestSuite) TestPartitionAlwaysSumsToHundred() {
	suite.approve(contributorAddr, 12.5)
	suite.approve(otherAddr, 7.25)

	split, err := suite.service.GetSplit(suite.asset.ID)
	suite.NoError(err)

	sum := split.CreatorPercentage
	for _, r := range split.Recipients {
		sum += r.Percentage
	}
	suite.InDelta(100, sum, 0.0001)
	suite.InDelta(80.25, split.CreatorPercentage, 0.0001)
}

func (suite *RoyaltyServiceTestSuite) TestDistributeConservesAmountExactly() {
	suite.approve(contributorAddr, 33.33)

	distribution, err := suite.service.Distribute(suite.asset.ID, &DistributeRequest{Amount: 100.01})
	suite.NoError(err)
	suite.Equal(100.01, distribution.Amount)

	// 10001 cents * 3333bp / 10000 = 3333 cents, truncated; the residue
	// stays with the creator
	recipients := distribution.Allocations["recipients"].([]map[string]interface{})
	suite.Len(recipients, 1)
	suite.Equal(33.33, recipients[0]["amount"])
	suite.Equal(66.68, distribution.CreatorAmount)

	total := distribution.CreatorAmount
	for _, r := range recipients {
		total += r["amount"].(float64)
	}
	suite.Equal(100.01, total)
}

func (suite *RoyaltyServiceTestSuite) TestDistributeWithoutRecipients() {
	distribution, err := suite.service.Distribute(suite.asset.ID, &DistributeRequest{Amount: 50})
	suite.NoError(err)
	suite.Equal(float64(50), distribution.CreatorAmount)

	recipients := distribution.Allocations["recipients"].([]map[string]interface{})
	suite.Empty(recipients)
}

func (suite *RoyaltyServiceTestSuite) TestDistributeNegativeAmount() {
	_, err := suite.service.Distribute(suite.asset.ID, &DistributeRequest{Amount: -1})
	suite.ErrorIs(err, ErrValidation)
}

func (suite *RoyaltyServiceTestSuite) TestDistributeUnknownAsset() {
	_, err := suite.service.Distribute(uuid.New(), &DistributeRequest{Amount: 10})
	suite.ErrorIs(err, ErrAssetNotFound)
}

func (suite *RoyaltyServiceTestSuite) TestDistributeAccumulatesRevenue() {
	_, err := suite.service.Distribute(suite.asset.ID, &DistributeRequest{Amount: 30})
	suite.NoError(err)
	_, err = suite.service.Distribute(suite.asset.ID, &DistributeRequest{Amount: 20.50})
	suite.NoError(err)

	split, err := suite.service.GetSplit(suite.asset.ID)
	suite.NoError(err)
	suite.InDelta(50.50, split.TotalRevenue, 0.0001)
	suite.NotNil(split.LastDistribution)

	distributions, total, err := suite.service.ListDistributions(suite.asset.ID, paginationDefaults())
	suite.NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(distributions, 2)
}

func (suite *RoyaltyServiceTestSuite) TestDistributionRecordsReceipt() {
	distribution, err := suite.service.Distribute(suite.asset.ID, &DistributeRequest{Amount: 10})
	suite.NoError(err)
	suite.Regexp("^0x[0-9a-f]{64}$", distribution.TxHash)
}

func (suite *RoyaltyServiceTestSuite) TestSplitCreatedLazilyOnce() {
	_, err := suite.service.Distribute(suite.asset.ID, &DistributeRequest{Amount: 10})
	suite.NoError(err)
	suite.approve(contributorAddr, 5)

	var count int64
	suite.NoError(suite.db.Model(&models.RoyaltySplit{}).
		Where("asset_id = ?", suite.asset.ID).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func TestRoyaltyServiceSuite(t *testing.T) {
	suite.Run(t, new(RoyaltyServiceTestSuite))
}
