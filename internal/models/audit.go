// internal/models/audit.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	ActorAddress string     `json:"actor_address" gorm:"size:42;index"`
	Action       string     `json:"action" gorm:"size:255;not null"`
	ResourceType string     `json:"resource_type" gorm:"size:50;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"size:500"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
}

// Notification is an in-app notice for a wallet address (new submission for
// a creator's asset, a decision for a contributor).
type Notification struct {
	BaseModel
	RecipientAddress string     `json:"recipient_address" gorm:"size:42;not null;index"`
	Type             string     `json:"type" gorm:"size:50;not null;index"`
	Title            string     `json:"title" gorm:"size:255;not null"`
	Message          string     `json:"message" gorm:"type:text"`
	RelatedResource  *uuid.UUID `json:"related_resource" gorm:"type:uuid"`
	ReadAt           *time.Time `json:"read_at"`
}
