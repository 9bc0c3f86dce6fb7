// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// RevenueTransaction is an incoming payment collected for an asset. A
// completed transaction is what triggers a distribution run.
type RevenueTransaction struct {
	BaseModel
	AssetID          uuid.UUID         `json:"asset_id" gorm:"type:uuid;not null;index"`
	PayerAddress     string            `json:"payer_address" gorm:"size:42;index"`
	Amount           float64           `json:"amount" gorm:"type:decimal(14,2);not null"`
	Currency         string            `json:"currency" gorm:"size:10;default:'usd'"`
	PlatformFee      float64           `json:"platform_fee" gorm:"type:decimal(14,2);default:0"`
	PaymentReference string            `json:"payment_reference" gorm:"size:255"`
	Status           TransactionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	DistributionID   *uuid.UUID        `json:"distribution_id" gorm:"type:uuid"`
	ProcessedAt      *time.Time        `json:"processed_at"`

	// Relationships
	Asset        Asset         `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
	Distribution *Distribution `json:"distribution,omitempty" gorm:"foreignKey:DistributionID"`
}
