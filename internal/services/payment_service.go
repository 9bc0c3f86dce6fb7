// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave-backend/internal/config"
	"github.com/storyweave/storyweave-backend/internal/models"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

// PaymentService collects revenue for assets through Stripe. A confirmed
// payment becomes a completed RevenueTransaction and immediately runs the
// distribution engine for the asset's split.
type PaymentService struct {
	db             *gorm.DB
	config         *config.Config
	royaltyService *RoyaltyService
}

type CreatePaymentIntentRequest struct {
	AssetID  uuid.UUID `json:"asset_id" validate:"required"`
	Amount   float64   `json:"amount" validate:"required,min=0.01"`
	Currency string    `json:"currency,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret  string    `json:"client_secret"`
	PaymentID     string    `json:"payment_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Status        string    `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string    `json:"payment_intent_id" validate:"required"`
	TransactionID   uuid.UUID `json:"transaction_id" validate:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config, royaltyService *RoyaltyService) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:             db,
		config:         config,
		royaltyService: royaltyService,
	}
}

// CreatePaymentIntent opens a Stripe payment for an asset and records the
// pending transaction it will settle into.
func (s *PaymentService) CreatePaymentIntent(payerAddress string, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var asset models.Asset
	if err := s.db.First(&asset, "id = ?", req.AssetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	amountInCents := int64(req.Amount * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("asset_id", req.AssetID.String())
	params.AddMetadata("payer_address", payerAddress)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	transaction := &models.RevenueTransaction{
		AssetID:          req.AssetID,
		PayerAddress:     payerAddress,
		Amount:           req.Amount,
		Currency:         currency,
		PaymentReference: pi.ID,
		Status:           models.TransactionStatusPending,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret:  pi.ClientSecret,
		PaymentID:     pi.ID,
		TransactionID: transaction.ID,
		Status:        string(pi.Status),
	}, nil
}

// ConfirmPayment settles a pending transaction against its Stripe payment
// intent. On success the amount is distributed across the asset's royalty
// split in the same call.
func (s *PaymentService) ConfirmPayment(req *ConfirmPaymentRequest) (*models.RevenueTransaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}

	var transaction models.RevenueTransaction
	if err := s.db.First(&transaction, "id = ?", req.TransactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("transaction not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if transaction.Status != models.TransactionStatusPending {
		return nil, errors.New("transaction already settled")
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		now := time.Now()
		transaction.Status = models.TransactionStatusCompleted
		transaction.ProcessedAt = &now
		transaction.PaymentReference = pi.ID
		transaction.PlatformFee = s.platformFee(transaction.Amount)

		distribution, err := s.royaltyService.Distribute(transaction.AssetID, &DistributeRequest{
			Amount:           transaction.Amount - transaction.PlatformFee,
			PaymentReference: pi.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("revenue distribution failed: %w", err)
		}
		transaction.DistributionID = &distribution.ID

	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		transaction.Status = models.TransactionStatusPending

	default:
		transaction.Status = models.TransactionStatusFailed
	}

	if err := s.db.Save(&transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"transaction_id": transaction.ID,
		"asset_id":       transaction.AssetID,
		"status":         transaction.Status,
	}).Info("Payment confirmed")

	return &transaction, nil
}

// platformFee takes the configured percentage off the top before the rest
// enters the distribution engine. Computed in cents so fee plus distributable
// always equals the collected amount.
func (s *PaymentService) platformFee(amount float64) float64 {
	pct := s.config.Payment.PlatformFeePercent
	if pct <= 0 {
		return 0
	}

	feeCents := int64(math.Round(amount*100)) * int64(math.Round(pct*100)) / 10000
	return float64(feeCents) / 100
}

func (s *PaymentService) GetAssetRevenue(assetID uuid.UUID, params utils.PaginationParams) ([]models.RevenueTransaction, int64, error) {
	query := s.db.Model(&models.RevenueTransaction{}).Where("asset_id = ?", assetID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var transactions []models.RevenueTransaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}
