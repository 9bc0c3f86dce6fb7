// internal/handlers/asset.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storyweave/storyweave-backend/internal/i18n"
	"github.com/storyweave/storyweave-backend/internal/models"
	"github.com/storyweave/storyweave-backend/internal/services"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

type AssetHandler struct {
	assetService   *services.AssetService
	storageService *services.StorageService
}

func NewAssetHandler(assetService *services.AssetService, storageService *services.StorageService) *AssetHandler {
	return &AssetHandler{
		assetService:   assetService,
		storageService: storageService,
	}
}

// POST /assets
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	walletAddress, exists := utils.GetWalletFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	asset, err := h.assetService.CreateAsset(walletAddress, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAssetCreated),
		"asset":   asset,
	})
}

// POST /assets/:id/mint
func (h *AssetHandler) MintAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	walletAddress, exists := utils.GetWalletFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	asset, err := h.assetService.MintAsset(assetID, walletAddress)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAssetMinted),
		"asset":   asset,
	})
}

// GET /assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	asset, err := h.assetService.GetAsset(assetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"asset": asset})
}

// GET /assets
func (h *AssetHandler) SearchAssets(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.AssetSearchParams{
		PaginationParams: params,
	}

	if kind := c.Query("kind"); kind != "" {
		assetKind := models.AssetKind(kind)
		searchParams.Kind = &assetKind
	}

	if status := c.Query("status"); status != "" {
		assetStatus := models.AssetStatus(status)
		searchParams.Status = &assetStatus
	}

	if creator := c.Query("creator"); creator != "" {
		searchParams.CreatorAddress = &creator
	}

	if tags := c.QueryArray("tags"); len(tags) > 0 {
		searchParams.Tags = tags
	}

	assets, total, err := h.assetService.SearchAssets(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(assets, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /creators/:address/assets
func (h *AssetHandler) GetCreatorAssets(c *gin.Context) {
	address := c.Param("address")
	if !utils.IsEthAddress(address) {
		utils.BadRequestResponse(c, "Invalid creator address", nil)
		return
	}

	params := utils.GetPaginationParams(c)

	assets, total, err := h.assetService.GetCreatorAssets(address, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(assets, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /uploads/:category
func (h *AssetHandler) UploadFile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if _, exists := utils.GetWalletFromContext(c); !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "file is required", nil)
		return
	}
	defer file.Close()

	options := h.storageService.GetDefaultUploadOptions(c.Param("category"))

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.ErrorResponse(c, 500, "UPLOAD_FAILED", i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"file":    result,
	})
}
