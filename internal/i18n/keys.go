// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAccessDenied           = "auth.access_denied"

	// Assets
	KeyAssetMinted   = "asset.minted"
	KeyAssetCreated  = "asset.created"
	KeyAssetNotFound = "asset.not_found"

	// Contributions
	KeyContributionSubmitted = "contribution.submitted"
	KeyContributionVoted     = "contribution.voted"
	KeyContributionApproved  = "contribution.approved"
	KeyContributionRejected  = "contribution.rejected"
	KeyContributionNotFound  = "contribution.not_found"
	KeyContributionDecided   = "contribution.already_decided"
	KeyAlreadyVoted          = "contribution.already_voted"

	// Royalties
	KeyRoyaltySplitNotFound = "royalty.not_found"
	KeyRoyaltyOverAllocated = "royalty.over_allocated"
	KeyRevenueDistributed   = "royalty.distributed"

	// Payments
	KeyPaymentSuccess       = "payment.success"
	KeyPaymentFailed        = "payment.failed"
	KeyPaymentInvalidAmount = "payment.invalid_amount"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
)
