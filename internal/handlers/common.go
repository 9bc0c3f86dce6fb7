// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/storyweave/storyweave-backend/internal/i18n"
	"github.com/storyweave/storyweave-backend/internal/services"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP responses.
// Every handler funnels service failures through here so a given error kind
// always surfaces with the same status and code.
func respondServiceError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrAssetNotFound):
		utils.NotFoundResponse(c, "asset")
	case errors.Is(err, services.ErrContributionNotFound):
		utils.NotFoundResponse(c, "contribution")
	case errors.Is(err, services.ErrSplitNotFound):
		utils.NotFoundResponse(c, "royalty")
	case errors.Is(err, services.ErrUnauthorized):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAccessDenied))
	case errors.Is(err, services.ErrAlreadyVoted):
		utils.AlreadyVotedResponse(c, i18n.T(lang, i18n.KeyAlreadyVoted))
	case errors.Is(err, services.ErrInvalidState):
		utils.InvalidStateResponse(c, i18n.T(lang, i18n.KeyContributionDecided))
	case errors.Is(err, services.ErrInvariantViolation):
		utils.InvariantViolationResponse(c, i18n.T(lang, i18n.KeyRoyaltyOverAllocated))
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
