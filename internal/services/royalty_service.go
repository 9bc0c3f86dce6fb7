// internal/services/royalty_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave-backend/internal/database"
	"github.com/storyweave/storyweave-backend/internal/models"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

// RoyaltyService owns the split ledger and the distribution engine. A split
// always partitions exactly 100% between the creator and the appended
// recipients; every mutation here preserves that.
type RoyaltyService struct {
	db           *gorm.DB
	chainService *ChainService
}

type DistributeRequest struct {
	Amount           float64 `json:"amount" validate:"min=0"`
	PaymentReference string  `json:"payment_reference,omitempty"`
}

func NewRoyaltyService(db *gorm.DB, chainService *ChainService) *RoyaltyService {
	return &RoyaltyService{
		db:           db,
		chainService: chainService,
	}
}

// GetOrCreateSplit returns the asset's split, creating it with the creator at
// 100% on first touch. Splits are lazy: an asset with no approved
// contributions and no revenue has no row until something needs it.
func (s *RoyaltyService) GetOrCreateSplit(tx *gorm.DB, asset *models.Asset) (*models.RoyaltySplit, error) {
	var split models.RoyaltySplit

	err := tx.Where("asset_id = ?", asset.ID).First(&split).Error
	if err == nil {
		return &split, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	split = models.RoyaltySplit{
		AssetID:           asset.ID,
		AssetKind:         asset.Kind,
		AssetName:         asset.Name,
		CreatorAddress:    asset.CreatorAddress,
		CreatorPercentage: 100,
	}

	if err := tx.Create(&split).Error; err != nil {
		// Lost a create race on the unique asset_id index; the winner's
		// row is the split
		var existing models.RoyaltySplit
		if ferr := tx.Where("asset_id = ?", asset.ID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create royalty split: %w", err)
	}

	return &split, nil
}

// AppendRecipient grants a share to an approved contribution's author by
// carving it out of the creator's remainder. The decrement is guarded so two
// concurrent approvals cannot push the allocation past 100%.
func (s *RoyaltyService) AppendRecipient(tx *gorm.DB, split *models.RoyaltySplit, contribution *models.Contribution, percentage float64) error {
	if percentage < 0 || percentage > 100 {
		return fmt.Errorf("%w: royalty percentage must be between 0 and 100", ErrValidation)
	}

	res := tx.Model(&models.RoyaltySplit{}).
		Where("id = ? AND creator_percentage >= ?", split.ID, percentage).
		Update("creator_percentage", gorm.Expr("creator_percentage - ?", percentage))
	if res.Error != nil {
		return fmt.Errorf("failed to update royalty split: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInvariantViolation
	}

	recipient := models.RoyaltyRecipient{
		SplitID:        split.ID,
		Address:        contribution.ContributorAddress,
		Name:           contribution.Title,
		Percentage:     percentage,
		ContributionID: contribution.ID,
	}

	if err := tx.Create(&recipient).Error; err != nil {
		return fmt.Errorf("failed to create royalty recipient: %w", err)
	}

	split.CreatorPercentage -= percentage
	split.Recipients = append(split.Recipients, recipient)
	return nil
}

// GetSplit returns the asset's split with recipients in approval order. An
// asset without a split reads as the implicit creator-100% default rather
// than an error, so the read surface never depends on lazy creation timing.
func (s *RoyaltyService) GetSplit(assetID uuid.UUID) (*models.RoyaltySplit, error) {
	var split models.RoyaltySplit

	err := s.db.Where("asset_id = ?", assetID).
		Preload("Recipients", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&split).Error
	if err == nil {
		return &split, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &models.RoyaltySplit{
		AssetID:           asset.ID,
		AssetKind:         asset.Kind,
		AssetName:         asset.Name,
		CreatorAddress:    asset.CreatorAddress,
		CreatorPercentage: 100,
		Recipients:        []models.RoyaltyRecipient{},
	}, nil
}

// Distribute apportions a revenue amount across the split as it stands.
// Amounts are computed in integer cents with truncation per recipient; the
// rounding residue goes to the creator, so the allocations sum to the input
// exactly.
func (s *RoyaltyService) Distribute(assetID uuid.UUID, req *DistributeRequest) (*models.Distribution, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: distribution amount cannot be negative", ErrValidation)
	}

	var distribution *models.Distribution

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var asset models.Asset
		if err := tx.First(&asset, "id = ?", assetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssetNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		split, err := s.GetOrCreateSplit(tx, &asset)
		if err != nil {
			return err
		}

		var recipients []models.RoyaltyRecipient
		if err := tx.Where("split_id = ?", split.ID).
			Order("created_at ASC").
			Find(&recipients).Error; err != nil {
			return fmt.Errorf("failed to load recipients: %w", err)
		}

		totalCents := int64(math.Round(req.Amount * 100))
		remaining := totalCents

		recipientAllocations := make([]map[string]interface{}, 0, len(recipients))
		for _, r := range recipients {
			shareCents := totalCents * int64(math.Round(r.Percentage*100)) / 10000
			remaining -= shareCents
			recipientAllocations = append(recipientAllocations, map[string]interface{}{
				"address":         r.Address,
				"name":            r.Name,
				"percentage":      r.Percentage,
				"amount":          centsToAmount(shareCents),
				"contribution_id": r.ContributionID.String(),
			})
		}

		// remaining is the creator's share plus every truncated fraction
		creatorAmount := centsToAmount(remaining)
		txHash := s.chainService.RecordDistribution(assetID, req.Amount)

		distribution = &models.Distribution{
			SplitID:       split.ID,
			AssetID:       assetID,
			Amount:        req.Amount,
			CreatorAmount: creatorAmount,
			Allocations: models.JSONB{
				"creator": map[string]interface{}{
					"address":    split.CreatorAddress,
					"percentage": split.CreatorPercentage,
					"amount":     creatorAmount,
				},
				"recipients": recipientAllocations,
			},
			TxHash: txHash,
		}

		if err := tx.Create(distribution).Error; err != nil {
			return fmt.Errorf("failed to record distribution: %w", err)
		}

		now := time.Now()
		if err := tx.Model(&models.RoyaltySplit{}).
			Where("id = ?", split.ID).
			Updates(map[string]interface{}{
				"total_revenue":     gorm.Expr("total_revenue + ?", req.Amount),
				"last_distribution": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to update split totals: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"asset_id":       assetID,
		"amount":         req.Amount,
		"creator_amount": distribution.CreatorAmount,
		"recipients":     len(distribution.Allocations["recipients"].([]map[string]interface{})),
	}).Info("Revenue distributed")

	return distribution, nil
}

func (s *RoyaltyService) ListDistributions(assetID uuid.UUID, params utils.PaginationParams) ([]models.Distribution, int64, error) {
	query := s.db.Model(&models.Distribution{}).Where("asset_id = ?", assetID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count distributions: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "amount"})
	query = utils.ApplyPagination(query, params)

	var distributions []models.Distribution
	if err := query.Find(&distributions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch distributions: %w", err)
	}

	return distributions, total, nil
}

func centsToAmount(cents int64) float64 {
	return float64(cents) / 100
}
