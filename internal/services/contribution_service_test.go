// internal/services/contribution_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave-backend/internal/models"
)

type ContributionServiceTestSuite struct {
	suite.Suite
	db             *gorm.DB
	service        *ContributionService
	royaltyService *RoyaltyService
	asset          *models.Asset
}

func (suite *ContributionServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	chainService := NewChainService(newTestConfig())
	suite.royaltyService = NewRoyaltyService(suite.db, chainService)
	suite.service = NewContributionService(suite.db, suite.royaltyService, chainService)
	suite.asset = seedAsset(suite.T(), suite.db, models.AssetKindWorld, creatorAddr)
}

func (suite *ContributionServiceTestSuite) TestSubmit() {
	contribution, err := suite.service.Submit(contributorAddr, &SubmitContributionRequest{
		AssetID:     suite.asset.ID,
		Kind:        models.ContributionKindStory,
		Title:       "The Shattered Spire",
		Description: "a tower falls and the city changes",
	})

	suite.NoError(err)
	suite.Equal(models.ContributionStatusPending, contribution.Status)
	suite.Equal(int64(0), contribution.Votes)
	suite.Equal(contributorAddr, contribution.ContributorAddress)
}

func (suite *ContributionServiceTestSuite) TestSubmitUnknownAsset() {
	_, err := suite.service.Submit(contributorAddr, &SubmitContributionRequest{
		AssetID:     uuid.New(),
		Kind:        models.ContributionKindStory,
		Title:       "Orphaned",
		Description: "no such asset",
	})

	suite.ErrorIs(err, ErrAssetNotFound)
}

func (suite *ContributionServiceTestSuite) TestSubmitArtworkRequiresURL() {
	_, err := suite.service.Submit(contributorAddr, &SubmitContributionRequest{
		AssetID:     suite.asset.ID,
		Kind:        models.ContributionKindArtwork,
		Title:       "Portrait",
		Description: "a portrait without a file",
	})

	suite.ErrorIs(err, ErrValidation)
}

func (suite *ContributionServiceTestSuite) TestVoteIncrementsOncePerAddress() {
	contribution := seedContribution(suite.T(), suite.db, suite.asset, contributorAddr)

	updated, err := suite.service.Vote(contribution.ID, voterAddr)
	suite.NoError(err)
	suite.Equal(int64(1), updated.Votes)

	// Same address again must fail without touching the count
	_, err = suite.service.Vote(contribution.ID, voterAddr)
	suite.ErrorIs(err, ErrAlreadyVoted)

	var stored models.Contribution
	suite.NoError(suite.db.First(&stored, "id = ?", contribution.ID).Error)
	suite.Equal(int64(1), stored.Votes)

	// A different address still counts
	updated, err = suite.service.Vote(contribution.ID, otherAddr)
	suite.NoError(err)
	suite.Equal(int64(2), updated.Votes)
}

func (suite *ContributionServiceTestSuite) TestVoteOnDecidedContribution() {
	contribution := seedContribution(suite.T(), suite.db, suite.asset, contributorAddr)

	_, err := suite.service.Reject(contribution.ID, creatorAddr)
	suite.NoError(err)

	_, err = suite.service.Vote(contribution.ID, voterAddr)
	suite.ErrorIs(err, ErrInvalidState)
}

func (suite *ContributionServiceTestSuite) TestVoteUnknownContribution() {
	_, err := suite.service.Vote(uuid.New(), voterAddr)
	suite.ErrorIs(err, ErrContributionNotFound)
}

func (suite *ContributionServiceTestSuite) TestApproveGrantsRoyaltyShare() {
	contribution := seedContribution(suite.T(), suite.db, suite.asset, contributorAddr)

	approved, err := suite.service.Approve(contribution.ID, creatorAddr, &ApproveContributionRequest{
		RoyaltyPercentage: 5,
	})

	suite.NoError(err)
	suite.Equal(models.ContributionStatusApproved, approved.Status)
	suite.NotNil(approved.DecidedAt)
	suite.Equal(creatorAddr, approved.DecidedBy)
	suite.NotEmpty(approved.DecisionTxHash)

	split, err := suite.royaltyService.GetSplit(suite.asset.ID)
	suite.NoError(err)
	suite.Equal(float64(95), split.CreatorPercentage)
	suite.Len(split.Recipients, 1)
	suite.Equal(contributorAddr, split.Recipients[0].Address)
	suite.Equal(float64(5), split.Recipients[0].Percentage)
	suite.Equal(contribution.Title, split.Recipients[0].Name)
	suite.Equal(contribution.ID, split.Recipients[0].ContributionID)
}

func (suite *ContributionServiceTestSuite) TestApproveByNonCreator() {
	contribution := seedContribution(suite.T(), suite.db, suite.asset, contributorAddr)

	_, err := suite.service.Approve(contribution.ID, otherAddr, &ApproveContributionRequest{
		RoyaltyPercentage: 5,
	})

	suite.ErrorIs(err, ErrUnauthorized)

	var stored models.Contribution
	suite.NoError(suite.db.First(&stored, "id = ?", contribution.ID).Error)
	suite.Equal(models.ContributionStatusPending, stored.Status)
}

func (suite *ContributionServiceTestSuite) TestDecisionIsTerminal() {
	contribution := seedContribution(suite.T(), suite.db, suite.asset, contributorAddr)

	_, err := suite.service.Approve(contribution.ID, creatorAddr, &ApproveContributionRequest{
		RoyaltyPercentage: 10,
	})
	suite.NoError(err)

	_, err = suite.service.Approve(contribution.ID, creatorAddr, &ApproveContributionRequest{
		RoyaltyPercentage: 10,
	})
	suite.ErrorIs(err, ErrInvalidState)

	_, err = suite.service.Reject(contribution.ID, creatorAddr)
	suite.ErrorIs(err, ErrInvalidState)

	// The second approve must not have decremented the split again
	split, err := suite.royaltyService.GetSplit(suite.asset.ID)
	suite.NoError(err)
	suite.Equal(float64(90), split.CreatorPercentage)
	suite.Len(split.Recipients, 1)
}

func (suite *ContributionServiceTestSuite) TestApproveOverAllocationRollsBack() {
	first := seedContribution(suite.T(), suite.db, suite.asset, contributorAddr)
	second := seedContribution(suite.T(), suite.db, suite.asset, otherAddr)

	_, err := suite.service.Approve(first.ID, creatorAddr, &ApproveContributionRequest{
		RoyaltyPercentage: 60,
	})
	suite.NoError(err)

	_, err = suite.service.Approve(second.ID, creatorAddr, &ApproveContributionRequest{
		RoyaltyPercentage: 50,
	})
	suite.ErrorIs(err, ErrInvariantViolation)

	// Nothing about the failed approval may stick
	var stored models.Contribution
	suite.NoError(suite.db.First(&stored, "id = ?", second.ID).Error)
	suite.Equal(models.ContributionStatusPending, stored.Status)

	split, err := suite.royaltyService.GetSplit(suite.asset.ID)
	suite.NoError(err)
	suite.Equal(float64(40), split.CreatorPercentage)
	suite.Len(split.Recipients, 1)
}

func (suite *ContributionServiceTestSuite) TestApproveInvalidPercentage() {
	contribution := seedContribution(suite.T(), suite.db, suite.asset, contributorAddr)

	_, err := suite.service.Approve(contribution.ID, creatorAddr, &ApproveContributionRequest{
		RoyaltyPercentage: 101,
	})
	suite.ErrorIs(err, ErrValidation)
}

func (suite *ContributionServiceTestSuite) TestRejectLeavesSplitUntouched() {
	contribution := seedContribution(suite.T(), suite.db, suite.asset, contributorAddr)

	rejected, err := suite.service.Reject(contribution.ID, creatorAddr)
	suite.NoError(err)
	suite.Equal(models.ContributionStatusRejected, rejected.Status)
	suite.Nil(rejected.RoyaltyPercentage)

	split, err := suite.royaltyService.GetSplit(suite.asset.ID)
	suite.NoError(err)
	suite.Equal(float64(100), split.CreatorPercentage)
	suite.Empty(split.Recipients)
}

func (suite *ContributionServiceTestSuite) TestListContributionsOldestFirst() {
	first := seedContribution(suite.T(), suite.db, suite.asset, contributorAddr)
	second := seedContribution(suite.T(), suite.db, suite.asset, otherAddr)

	params := ContributionSearchParams{}
	params.Page = 1
	params.Limit = 20
	params.Sort = "created_at"
	params.Order = "asc"
	params.AssetID = &suite.asset.ID

	contributions, total, err := suite.service.ListContributions(params)
	suite.NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(contributions, 2)
	suite.Equal(first.ID, contributions[0].ID)
	suite.Equal(second.ID, contributions[1].ID)
}

func (suite *ContributionServiceTestSuite) TestGetStats() {
	approved := seedContribution(suite.T(), suite.db, suite.asset, contributorAddr)
	seedContribution(suite.T(), suite.db, suite.asset, otherAddr)

	_, err := suite.service.Approve(approved.ID, creatorAddr, &ApproveContributionRequest{
		RoyaltyPercentage: 5,
	})
	suite.NoError(err)

	stats, err := suite.service.GetStats(&suite.asset.ID)
	suite.NoError(err)
	suite.Equal(int64(2), stats.Total)
	suite.Equal(int64(1), stats.Pending)
	suite.Equal(int64(1), stats.Approved)
	suite.Equal(int64(0), stats.Rejected)
}

func TestContributionServiceSuite(t *testing.T) {
	suite.Run(t, new(ContributionServiceTestSuite))
}
