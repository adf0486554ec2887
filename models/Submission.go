package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is one recorded flag attempt. Rows are append-only: IsCorrect
// is computed once at write time against the flag current at that moment and
// never recomputed, so the ledger stays a faithful record of what was true
// when the attempt was made.
type Submission struct {
	ID            string     `gorm:"type:uuid;primary_key" json:"id"`
	UserID        string     `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	ChallengeID   string     `gorm:"type:uuid;not null;index;column:challenge_id" json:"challenge_id"`
	SubmittedFlag string     `gorm:"type:varchar(255);not null;column:submitted_flag" json:"submitted_flag"`
	IsCorrect     bool       `gorm:"not null;column:is_correct" json:"is_correct"`
	SubmittedAt   time.Time  `gorm:"not null;column:submitted_at" json:"submitted_at"`
	User          *User      `gorm:"foreignKey:UserID" json:"-"`
	Challenge     *Challenge `gorm:"foreignKey:ChallengeID" json:"-"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
