package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppRole string

const (
	RolePlayer AppRole = "player"
	RoleAdmin  AppRole = "admin"
)

// RoleAssignment is the single authoritative role claim for a user.
// The unique constraint on UserID guarantees at most one row per user;
// role elevation happens only through the audited admin endpoints.
type RoleAssignment struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;unique;not null;column:user_id" json:"user_id"`
	Role      AppRole   `gorm:"type:varchar(20);not null;default:'player'" json:"role"`
	GrantedBy *string   `gorm:"type:uuid;column:granted_by" json:"granted_by"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *RoleAssignment) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
