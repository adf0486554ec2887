package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AuditRoleGranted        = "role_granted"
	AuditRoleRevoked        = "role_revoked"
	AuditSubmissionOnBehalf = "submission_on_behalf"
	AuditSubmissionRevoked  = "submission_revoked"
	AuditScoreOverride      = "score_override"
	AuditUserBlocked        = "user_blocked"
	AuditUserUnblocked      = "user_unblocked"
	AuditUserDeleted        = "user_deleted"
)

// AuditEntry records privileged administrative actions. Anything that grants
// a capability, rewrites scoring history, or acts on another user's behalf
// must leave a row here.
type AuditEntry struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	ActorID   string    `gorm:"type:uuid;not null;index;column:actor_id" json:"actor_id"`
	Action    string    `gorm:"type:varchar(50);not null" json:"action"`
	TargetID  string    `gorm:"type:uuid;column:target_id" json:"target_id"`
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
