// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeCreator     UserType = "creator"
	UserTypeContributor UserType = "contributor"
	UserTypeAdmin       UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type AssetKind string

const (
	AssetKindCharacter AssetKind = "character"
	AssetKindWorld     AssetKind = "world"
	AssetKindPlot      AssetKind = "plot"
)

type AssetStatus string

const (
	AssetStatusDraft  AssetStatus = "draft"
	AssetStatusMinted AssetStatus = "minted"
)

type ContributionKind string

const (
	ContributionKindCharacter ContributionKind = "character"
	ContributionKindStory     ContributionKind = "story"
	ContributionKindArtwork   ContributionKind = "artwork"
	ContributionKindExpansion ContributionKind = "expansion"
)

type ContributionStatus string

const (
	ContributionStatusPending  ContributionStatus = "pending"
	ContributionStatusApproved ContributionStatus = "approved"
	ContributionStatusRejected ContributionStatus = "rejected"
)

// IsTerminal reports whether no further status transition is permitted.
func (s ContributionStatus) IsTerminal() bool {
	return s == ContributionStatusApproved || s == ContributionStatusRejected
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)
