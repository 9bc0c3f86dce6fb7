// internal/handlers/royalty.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/storyweave/storyweave-backend/internal/i18n"
	"github.com/storyweave/storyweave-backend/internal/services"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

type RoyaltyHandler struct {
	royaltyService      *services.RoyaltyService
	notificationService *services.NotificationService
}

func NewRoyaltyHandler(royaltyService *services.RoyaltyService, notificationService *services.NotificationService) *RoyaltyHandler {
	return &RoyaltyHandler{
		royaltyService:      royaltyService,
		notificationService: notificationService,
	}
}

// GET /assets/:id/royalties
func (h *RoyaltyHandler) GetSplit(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	split, err := h.royaltyService.GetSplit(assetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"split": split})
}

// POST /assets/:id/distribute
func (h *RoyaltyHandler) Distribute(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if _, exists := utils.GetWalletFromContext(c); !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	var req services.DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPaymentInvalidAmount), err.Error())
		return
	}

	distribution, err := h.royaltyService.Distribute(assetID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if split, serr := h.royaltyService.GetSplit(assetID); serr == nil {
		if nerr := h.notificationService.NotifyDistribution(split, distribution); nerr != nil {
			logrus.WithError(nerr).Warn("Failed to send distribution notifications")
		}
	}

	utils.SuccessResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyRevenueDistributed),
		"distribution": distribution,
	})
}

// GET /assets/:id/distributions
func (h *RoyaltyHandler) ListDistributions(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}

	params := utils.GetPaginationParams(c)

	distributions, total, err := h.royaltyService.ListDistributions(assetID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(distributions, total, params)
	utils.PaginatedResponse(c, result)
}
