// internal/services/contribution_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave-backend/internal/database"
	"github.com/storyweave/storyweave-backend/internal/models"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

// ContributionService owns the contribution ledger. Contributions move
// pending -> approved or pending -> rejected exactly once; approval and the
// matching royalty grant commit in the same transaction or not at all.
type ContributionService struct {
	db             *gorm.DB
	royaltyService *RoyaltyService
	chainService   *ChainService
}

type SubmitContributionRequest struct {
	AssetID     uuid.UUID              `json:"asset_id" validate:"required"`
	Kind        models.ContributionKind `json:"kind" validate:"required,oneof=character story artwork expansion"`
	Title       string                 `json:"title" validate:"required,min=1,max=255"`
	Description string                 `json:"description" validate:"required,min=1"`
	ArtworkURL  string                 `json:"artwork_url,omitempty"`
}

type ApproveContributionRequest struct {
	RoyaltyPercentage float64 `json:"royalty_percentage" validate:"min=0,max=100"`
}

type ContributionSearchParams struct {
	utils.PaginationParams
	AssetID            *uuid.UUID                 `json:"asset_id,omitempty"`
	Kind               *models.ContributionKind   `json:"kind,omitempty"`
	Status             *models.ContributionStatus `json:"status,omitempty"`
	ContributorAddress *string                    `json:"contributor_address,omitempty"`
}

type ContributionStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

func NewContributionService(db *gorm.DB, royaltyService *RoyaltyService, chainService *ChainService) *ContributionService {
	return &ContributionService{
		db:             db,
		royaltyService: royaltyService,
		chainService:   chainService,
	}
}

// Submit records a new contribution against an existing asset. It enters the
// ledger pending with zero votes.
func (s *ContributionService) Submit(contributorAddress string, req *SubmitContributionRequest) (*models.Contribution, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if !utils.IsEthAddress(contributorAddress) {
		return nil, fmt.Errorf("%w: invalid contributor address", ErrValidation)
	}
	contributorAddress = utils.NormalizeAddress(contributorAddress)

	if req.Kind == models.ContributionKindArtwork && req.ArtworkURL == "" {
		return nil, fmt.Errorf("%w: artwork contributions require an artwork_url", ErrValidation)
	}

	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", req.AssetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	contribution := &models.Contribution{
		AssetID:            req.AssetID,
		Kind:               req.Kind,
		Title:              req.Title,
		Description:        req.Description,
		ContributorAddress: contributorAddress,
		Status:             models.ContributionStatusPending,
		Votes:              0,
		ArtworkURL:         req.ArtworkURL,
	}

	if err := s.db.Create(contribution).Error; err != nil {
		return nil, fmt.Errorf("failed to create contribution: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"contribution_id": contribution.ID,
		"asset_id":        req.AssetID,
		"kind":            req.Kind,
		"contributor":     contributorAddress,
	}).Info("Contribution submitted")

	return contribution, nil
}

// Vote records one endorsement per address per contribution. A repeat vote
// from the same address fails without changing the count.
func (s *ContributionService) Vote(contributionID uuid.UUID, voterAddress string) (*models.Contribution, error) {
	if !utils.IsEthAddress(voterAddress) {
		return nil, fmt.Errorf("%w: invalid voter address", ErrValidation)
	}
	voterAddress = utils.NormalizeAddress(voterAddress)

	var contribution models.Contribution

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&contribution, "id = ?", contributionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContributionNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if contribution.Status.IsTerminal() {
			return ErrInvalidState
		}

		var existing int64
		if err := tx.Model(&models.ContributionVote{}).
			Where("contribution_id = ? AND voter_address = ?", contributionID, voterAddress).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyVoted
		}

		vote := models.ContributionVote{
			ContributionID: contributionID,
			VoterAddress:   voterAddress,
		}
		if err := tx.Create(&vote).Error; err != nil {
			// The unique (contribution_id, voter_address) index backstops
			// the check above under concurrency
			return ErrAlreadyVoted
		}

		res := tx.Model(&models.Contribution{}).
			Where("id = ? AND status = ?", contributionID, models.ContributionStatusPending).
			Update("votes", gorm.Expr("votes + 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to record vote: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidState
		}

		contribution.Votes++
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &contribution, nil
}

// Approve moves a pending contribution to approved and grants its author the
// given share of the asset's royalty split. Only the asset's creator may
// decide. The status flip, the split decrement, and the recipient row all
// commit atomically; if the share would overdraw the creator's remainder
// nothing changes.
func (s *ContributionService) Approve(contributionID uuid.UUID, reviewerAddress string, req *ApproveContributionRequest) (*models.Contribution, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	reviewerAddress = utils.NormalizeAddress(reviewerAddress)

	var contribution models.Contribution

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&contribution, "id = ?", contributionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContributionNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		var asset models.Asset
		if err := tx.First(&asset, "id = ?", contribution.AssetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssetNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if asset.CreatorAddress != reviewerAddress {
			return ErrUnauthorized
		}

		if contribution.Status.IsTerminal() {
			return ErrInvalidState
		}

		split, err := s.royaltyService.GetOrCreateSplit(tx, &asset)
		if err != nil {
			return err
		}

		if err := s.royaltyService.AppendRecipient(tx, split, &contribution, req.RoyaltyPercentage); err != nil {
			return err
		}

		txHash := s.chainService.RecordDecision(contributionID, string(models.ContributionStatusApproved), reviewerAddress)
		now := time.Now()

		res := tx.Model(&models.Contribution{}).
			Where("id = ? AND status = ?", contributionID, models.ContributionStatusPending).
			Updates(map[string]interface{}{
				"status":             models.ContributionStatusApproved,
				"royalty_percentage": req.RoyaltyPercentage,
				"decided_at":         now,
				"decided_by":         reviewerAddress,
				"decision_tx_hash":   txHash,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to approve contribution: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// A concurrent decision won; roll back the royalty grant too
			return ErrInvalidState
		}

		contribution.Status = models.ContributionStatusApproved
		contribution.RoyaltyPercentage = &req.RoyaltyPercentage
		contribution.DecidedAt = &now
		contribution.DecidedBy = reviewerAddress
		contribution.DecisionTxHash = txHash
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"contribution_id": contributionID,
		"reviewer":        reviewerAddress,
		"percentage":      req.RoyaltyPercentage,
	}).Info("Contribution approved")

	return &contribution, nil
}

// Reject moves a pending contribution to rejected. The royalty split is not
// touched.
func (s *ContributionService) Reject(contributionID uuid.UUID, reviewerAddress string) (*models.Contribution, error) {
	reviewerAddress = utils.NormalizeAddress(reviewerAddress)

	var contribution models.Contribution

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&contribution, "id = ?", contributionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContributionNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		var asset models.Asset
		if err := tx.First(&asset, "id = ?", contribution.AssetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssetNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if asset.CreatorAddress != reviewerAddress {
			return ErrUnauthorized
		}

		if contribution.Status.IsTerminal() {
			return ErrInvalidState
		}

		txHash := s.chainService.RecordDecision(contributionID, string(models.ContributionStatusRejected), reviewerAddress)
		now := time.Now()

		res := tx.Model(&models.Contribution{}).
			Where("id = ? AND status = ?", contributionID, models.ContributionStatusPending).
			Updates(map[string]interface{}{
				"status":           models.ContributionStatusRejected,
				"decided_at":       now,
				"decided_by":       reviewerAddress,
				"decision_tx_hash": txHash,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to reject contribution: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidState
		}

		contribution.Status = models.ContributionStatusRejected
		contribution.DecidedAt = &now
		contribution.DecidedBy = reviewerAddress
		contribution.DecisionTxHash = txHash
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"contribution_id": contributionID,
		"reviewer":        reviewerAddress,
	}).Info("Contribution rejected")

	return &contribution, nil
}

func (s *ContributionService) GetContribution(id uuid.UUID) (*models.Contribution, error) {
	var contribution models.Contribution
	if err := s.db.Preload("Asset").First(&contribution, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContributionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &contribution, nil
}

// ListContributions returns contributions in submission order, oldest first
// by default.
func (s *ContributionService) ListContributions(params ContributionSearchParams) ([]models.Contribution, int64, error) {
	query := s.db.Model(&models.Contribution{})

	if params.AssetID != nil {
		query = query.Where("asset_id = ?", *params.AssetID)
	}

	if params.Kind != nil {
		query = query.Where("kind = ?", *params.Kind)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.ContributorAddress != nil {
		query = query.Where("contributor_address = ?", *params.ContributorAddress)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contributions: %w", err)
	}

	allowedSortFields := []string{"created_at", "votes", "decided_at"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var contributions []models.Contribution
	if err := query.Find(&contributions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch contributions: %w", err)
	}

	return contributions, total, nil
}

func (s *ContributionService) GetStats(assetID *uuid.UUID) (*ContributionStats, error) {
	stats := &ContributionStats{}

	base := s.db.Model(&models.Contribution{})
	if assetID != nil {
		base = base.Where("asset_id = ?", *assetID)
	}

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count contributions: %w", err)
	}

	counts := []struct {
		status models.ContributionStatus
		dest   *int64
	}{
		{models.ContributionStatusPending, &stats.Pending},
		{models.ContributionStatusApproved, &stats.Approved},
		{models.ContributionStatusRejected, &stats.Rejected},
	}
	for _, c := range counts {
		if err := base.Session(&gorm.Session{}).Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count contributions: %w", err)
		}
	}

	return stats, nil
}
