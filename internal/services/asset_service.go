// internal/services/asset_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave-backend/internal/database"
	"github.com/storyweave/storyweave-backend/internal/models"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

type AssetService struct {
	db           *gorm.DB
	chainService *ChainService
}

type CreateAssetRequest struct {
	Kind        models.AssetKind       `json:"kind" validate:"required,oneof=character world plot"`
	Name        string                 `json:"name" validate:"required,min=1,max=255"`
	Description string                 `json:"description" validate:"required,min=1"`
	ImageURL    string                 `json:"image_url,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type AssetSearchParams struct {
	utils.PaginationParams
	Kind           *models.AssetKind   `json:"kind,omitempty"`
	Status         *models.AssetStatus `json:"status,omitempty"`
	CreatorAddress *string             `json:"creator_address,omitempty"`
	Tags           []string            `json:"tags,omitempty"`
}

// requiredMetadata lists the kind-specific fields each asset variant must
// carry. Attributes enter the registry as a typed variant, not a free-form
// blob: a character without a backstory or a plot without a world is
// rejected at the boundary.
var requiredMetadata = map[models.AssetKind][]string{
	models.AssetKindCharacter: {"backstory", "abilities", "traits"},
	models.AssetKindWorld:     {"geography", "culture", "era"},
	models.AssetKindPlot:      {"characters", "world_id"},
}

func NewAssetService(db *gorm.DB, chainService *ChainService) *AssetService {
	return &AssetService{
		db:           db,
		chainService: chainService,
	}
}

func (s *AssetService) CreateAsset(creatorAddress string, req *CreateAssetRequest) (*models.Asset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if !utils.IsEthAddress(creatorAddress) {
		return nil, fmt.Errorf("%w: invalid creator address", ErrValidation)
	}
	creatorAddress = utils.NormalizeAddress(creatorAddress)

	if err := validateKindMetadata(req.Kind, req.Metadata); err != nil {
		return nil, err
	}

	asset := &models.Asset{
		Kind:           req.Kind,
		Name:           req.Name,
		Description:    req.Description,
		CreatorAddress: creatorAddress,
		Status:         models.AssetStatusDraft,
		ImageURL:       req.ImageURL,
		Tags:           req.Tags,
		Metadata:       models.JSONB(req.Metadata),
	}

	if err := s.db.Create(asset).Error; err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	return asset, nil
}

// MintAsset finalizes a draft asset on the chain layer. Minting assigns the
// token id and timestamp exactly once; the creator address was fixed at
// creation and is never touched.
func (s *AssetService) MintAsset(assetID uuid.UUID, callerAddress string) (*models.Asset, error) {
	var asset models.Asset

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.First(&asset, "id = ?", assetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssetNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if asset.CreatorAddress != utils.NormalizeAddress(callerAddress) {
			return ErrUnauthorized
		}

		txHash := s.chainService.RecordMint(asset.ID, string(asset.Kind), asset.CreatorAddress)
		now := time.Now()
		tokenID := strings.TrimPrefix(txHash, "0x")[:16]

		// Guarded transition: a second concurrent mint finds no draft row
		// and fails instead of double-minting
		res := tx.Model(&models.Asset{}).
			Where("id = ? AND status = ?", assetID, models.AssetStatusDraft).
			Updates(map[string]interface{}{
				"status":       models.AssetStatusMinted,
				"token_id":     tokenID,
				"mint_tx_hash": txHash,
				"minted_at":    now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to mint asset: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrInvalidState
		}

		asset.Status = models.AssetStatusMinted
		asset.TokenID = tokenID
		asset.MintTxHash = txHash
		asset.MintedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

func (s *AssetService) GetAsset(id uuid.UUID) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.Preload("RoyaltySplit").Preload("RoyaltySplit.Recipients").
		First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &asset, nil
}

// Exists is the registry's boundary contract for the contribution ledger.
func (s *AssetService) Exists(id uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Asset{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}

func (s *AssetService) SearchAssets(params AssetSearchParams) ([]models.Asset, int64, error) {
	query := s.db.Model(&models.Asset{})

	if params.Kind != nil {
		query = query.Where("kind = ?", *params.Kind)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CreatorAddress != nil {
		query = query.Where("creator_address = ?", *params.CreatorAddress)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if len(params.Tags) > 0 {
		query = query.Where("tags && ?", params.Tags)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "minted_at"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var assets []models.Asset
	if err := query.Find(&assets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch assets: %w", err)
	}

	return assets, total, nil
}

func (s *AssetService) GetCreatorAssets(creatorAddress string, params utils.PaginationParams) ([]models.Asset, int64, error) {
	query := s.db.Model(&models.Asset{}).Where("creator_address = ?", creatorAddress)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count creator assets: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var assets []models.Asset
	if err := query.Find(&assets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch creator assets: %w", err)
	}

	return assets, total, nil
}

func validateKindMetadata(kind models.AssetKind, metadata map[string]interface{}) error {
	required, ok := requiredMetadata[kind]
	if !ok {
		return fmt.Errorf("%w: unknown asset kind %q", ErrValidation, kind)
	}

	for _, field := range required {
		value, present := metadata[field]
		if !present {
			return fmt.Errorf("%w: %s metadata requires %q", ErrValidation, kind, field)
		}

		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: %s metadata field %q is empty", ErrValidation, kind, field)
			}
		case []interface{}:
			if len(v) == 0 {
				return fmt.Errorf("%w: %s metadata field %q is empty", ErrValidation, kind, field)
			}
		case nil:
			return fmt.Errorf("%w: %s metadata field %q is empty", ErrValidation, kind, field)
		}
	}

	return nil
}
