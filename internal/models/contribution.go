// internal/models/contribution.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Contribution is a community-submitted proposal to extend an asset's lore.
// Status starts at pending and moves exactly once to approved or rejected;
// rows are retained as an audit record and never deleted.
type Contribution struct {
	BaseModel
	AssetID            uuid.UUID          `json:"asset_id" gorm:"type:uuid;not null;index"`
	Kind               ContributionKind   `json:"kind" gorm:"type:varchar(20);not null;index"`
	Title              string             `json:"title" gorm:"size:255;not null"`
	Description        string             `json:"description" gorm:"type:text;not null"`
	ContributorAddress string             `json:"contributor_address" gorm:"size:42;not null;index"`
	Status             ContributionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Votes              int64              `json:"votes" gorm:"default:0"`
	RoyaltyPercentage  *float64           `json:"royalty_percentage,omitempty" gorm:"type:decimal(5,2)"`
	ArtworkURL         string             `json:"artwork_url,omitempty" gorm:"size:512"`
	DecidedAt          *time.Time         `json:"decided_at"`
	DecidedBy          string             `json:"decided_by,omitempty" gorm:"size:42"`
	DecisionTxHash     string             `json:"decision_tx_hash,omitempty" gorm:"size:66"`

	// Relationships
	Asset       Asset              `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
	VoteRecords []ContributionVote `json:"-" gorm:"foreignKey:ContributionID"`
}

// ContributionVote records one vote per (contribution, voter) pair. The
// composite unique index is what makes vote re-delivery idempotent.
type ContributionVote struct {
	BaseModel
	ContributionID uuid.UUID `json:"contribution_id" gorm:"type:uuid;not null;uniqueIndex:idx_contribution_voter"`
	VoterAddress   string    `json:"voter_address" gorm:"size:42;not null;uniqueIndex:idx_contribution_voter"`
}
