// internal/models/asset.go
package models

import (
	"time"

	"github.com/lib/pq"
)

// Asset is a mintable unit of storyworld IP: a character, a world, or a
// plot arc. CreatorAddress is fixed at mint time and never changes.
type Asset struct {
	BaseModel
	Kind           AssetKind      `json:"kind" gorm:"type:varchar(20);not null;index"`
	Name           string         `json:"name" gorm:"size:255;not null"`
	Description    string         `json:"description" gorm:"type:text"`
	CreatorAddress string         `json:"creator_address" gorm:"size:42;not null;index"`
	Status         AssetStatus    `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	TokenID        string         `json:"token_id,omitempty" gorm:"size:78;index"`
	MintTxHash     string         `json:"mint_tx_hash,omitempty" gorm:"size:66"`
	MintedAt       *time.Time     `json:"minted_at"`
	ImageURL       string         `json:"image_url,omitempty" gorm:"size:512"`
	Tags           pq.StringArray `json:"tags" gorm:"type:text[]"`
	Metadata       JSONB          `json:"metadata" gorm:"type:jsonb"`

	// Relationships
	Contributions []Contribution `json:"contributions,omitempty" gorm:"foreignKey:AssetID"`
	RoyaltySplit  *RoyaltySplit  `json:"royalty_split,omitempty" gorm:"foreignKey:AssetID"`
}
