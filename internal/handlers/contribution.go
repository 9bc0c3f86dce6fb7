// internal/handlers/contribution.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/storyweave/storyweave-backend/internal/i18n"
	"github.com/storyweave/storyweave-backend/internal/models"
	"github.com/storyweave/storyweave-backend/internal/services"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

type ContributionHandler struct {
	contributionService *services.ContributionService
	assetService        *services.AssetService
	notificationService *services.NotificationService
}

func NewContributionHandler(
	contributionService *services.ContributionService,
	assetService *services.AssetService,
	notificationService *services.NotificationService,
) *ContributionHandler {
	return &ContributionHandler{
		contributionService: contributionService,
		assetService:        assetService,
		notificationService: notificationService,
	}
}

// POST /contributions
func (h *ContributionHandler) Submit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	walletAddress, exists := utils.GetWalletFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.SubmitContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	contribution, err := h.contributionService.Submit(walletAddress, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.notifySubmitted(contribution)

	utils.CreatedResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyContributionSubmitted),
		"contribution": contribution,
	})
}

// POST /contributions/:id/vote
func (h *ContributionHandler) Vote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	walletAddress, exists := utils.GetWalletFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	contributionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid contribution ID", nil)
		return
	}

	contribution, err := h.contributionService.Vote(contributionID, walletAddress)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyContributionVoted),
		"contribution": contribution,
	})
}

// PUT /contributions/:id/approve
func (h *ContributionHandler) Approve(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	walletAddress, exists := utils.GetWalletFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	contributionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid contribution ID", nil)
		return
	}

	var req services.ApproveContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	contribution, err := h.contributionService.Approve(contributionID, walletAddress, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.notifyDecided(contribution)

	utils.SuccessResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyContributionApproved),
		"contribution": contribution,
	})
}

// PUT /contributions/:id/reject
func (h *ContributionHandler) Reject(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	walletAddress, exists := utils.GetWalletFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	contributionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid contribution ID", nil)
		return
	}

	contribution, err := h.contributionService.Reject(contributionID, walletAddress)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.notifyDecided(contribution)

	utils.SuccessResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyContributionRejected),
		"contribution": contribution,
	})
}

// GET /contributions/:id
func (h *ContributionHandler) GetContribution(c *gin.Context) {
	contributionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid contribution ID", nil)
		return
	}

	contribution, err := h.contributionService.GetContribution(contributionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"contribution": contribution})
}

// GET /contributions
func (h *ContributionHandler) ListContributions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.ContributionSearchParams{
		PaginationParams: params,
	}

	if assetIDStr := c.Query("asset_id"); assetIDStr != "" {
		if assetID, err := uuid.Parse(assetIDStr); err == nil {
			searchParams.AssetID = &assetID
		}
	}

	if kind := c.Query("kind"); kind != "" {
		contributionKind := models.ContributionKind(kind)
		searchParams.Kind = &contributionKind
	}

	if status := c.Query("status"); status != "" {
		contributionStatus := models.ContributionStatus(status)
		searchParams.Status = &contributionStatus
	}

	if contributor := c.Query("contributor"); contributor != "" {
		searchParams.ContributorAddress = &contributor
	}

	contributions, total, err := h.contributionService.ListContributions(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(contributions, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /contributions/stats
func (h *ContributionHandler) GetStats(c *gin.Context) {
	var assetID *uuid.UUID
	if assetIDStr := c.Query("asset_id"); assetIDStr != "" {
		if id, err := uuid.Parse(assetIDStr); err == nil {
			assetID = &id
		}
	}

	stats, err := h.contributionService.GetStats(assetID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}

func (h *ContributionHandler) notifySubmitted(contribution *models.Contribution) {
	asset, err := h.assetService.GetAsset(contribution.AssetID)
	if err != nil {
		return
	}
	if err := h.notificationService.NotifyContributionSubmitted(asset, contribution); err != nil {
		logrus.WithError(err).Warn("Failed to send submission notification")
	}
}

func (h *ContributionHandler) notifyDecided(contribution *models.Contribution) {
	asset, err := h.assetService.GetAsset(contribution.AssetID)
	if err != nil {
		return
	}
	if err := h.notificationService.NotifyContributionDecided(asset, contribution); err != nil {
		logrus.WithError(err).Warn("Failed to send decision notification")
	}
}
