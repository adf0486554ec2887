package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered player or administrator of the platform
type User struct {
	ID         string  `gorm:"type:uuid;primary_key" json:"id"`
	Username   string  `gorm:"type:varchar(50);unique;not null" json:"username"`
	Email      string  `gorm:"type:varchar(100);unique;not null" json:"email"`
	Password   string  `gorm:"type:varchar(255);not null" json:"-"`
	AvatarURL  *string `gorm:"type:varchar(255)" json:"avatar_url"`
	TotalScore int     `gorm:"type:integer;not null;default:0;column:total_score" json:"total_score"`
	// LastSolveAt mirrors the newest correct submission and orders score
	// ties on the leaderboard. RecomputeScore rederives it from the ledger.
	LastSolveAt *time.Time `gorm:"column:last_solve_at" json:"last_solve_at"`
	Blocked     bool       `gorm:"not null;default:false" json:"blocked"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BeforeCreate assigns the uuid primary key so the model works on any driver
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
