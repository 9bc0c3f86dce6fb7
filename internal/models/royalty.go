// internal/models/royalty.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// RoyaltySplit partitions 100% of an asset's future revenue between its
// creator and approved contributors. CreatorPercentage is derived: it is
// only ever reduced when a recipient is appended, so
// creator + sum(recipients) == 100 holds by construction.
type RoyaltySplit struct {
	BaseModel
	AssetID           uuid.UUID  `json:"asset_id" gorm:"type:uuid;not null;uniqueIndex"`
	AssetKind         AssetKind  `json:"asset_kind" gorm:"type:varchar(20);not null"`
	AssetName         string     `json:"asset_name" gorm:"size:255"`
	CreatorAddress    string     `json:"creator_address" gorm:"size:42;not null;index"`
	CreatorPercentage float64    `json:"creator_percentage" gorm:"type:decimal(5,2);not null;default:100"`
	TotalRevenue      float64    `json:"total_revenue" gorm:"type:decimal(14,2);not null;default:0"`
	LastDistribution  *time.Time `json:"last_distribution"`

	// Relationships
	Recipients    []RoyaltyRecipient `json:"recipients,omitempty" gorm:"foreignKey:SplitID"`
	Distributions []Distribution     `json:"distributions,omitempty" gorm:"foreignKey:SplitID"`
}

// RoyaltyRecipient is one approved contributor's share of a split. The
// ContributionID back-reference is a non-owning link to the approved
// contribution the share was granted for.
type RoyaltyRecipient struct {
	BaseModel
	SplitID        uuid.UUID `json:"split_id" gorm:"type:uuid;not null;index"`
	Address        string    `json:"address" gorm:"size:42;not null;index"`
	Name           string    `json:"name" gorm:"size:255"`
	Percentage     float64   `json:"percentage" gorm:"type:decimal(5,2);not null"`
	ContributionID uuid.UUID `json:"contribution_id" gorm:"type:uuid;not null;uniqueIndex"`
}

// Distribution is one run of the distribution engine: a revenue amount
// apportioned across the split as it stood at that moment. Allocations
// holds the full address -> amount breakdown.
type Distribution struct {
	BaseModel
	SplitID       uuid.UUID `json:"split_id" gorm:"type:uuid;not null;index"`
	AssetID       uuid.UUID `json:"asset_id" gorm:"type:uuid;not null;index"`
	Amount        float64   `json:"amount" gorm:"type:decimal(14,2);not null"`
	CreatorAmount float64   `json:"creator_amount" gorm:"type:decimal(14,2);not null"`
	Allocations   JSONB     `json:"allocations" gorm:"type:jsonb"`
	TxHash        string    `json:"tx_hash,omitempty" gorm:"size:66"`
}
