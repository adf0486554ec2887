package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyInsane Difficulty = "insane"
)

// Challenge represents a task with a points value and a secret flag.
// The Flag field is never serialized; handlers return dedicated response
// structs and correctness is only ever exposed as a boolean.
type Challenge struct {
	ID          string     `gorm:"type:uuid;primary_key" json:"id"`
	Title       string     `gorm:"type:varchar(100);not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Category    string     `gorm:"type:varchar(50);not null" json:"category"`
	Difficulty  Difficulty `gorm:"type:varchar(20);not null;default:'medium'" json:"difficulty"`
	Points      int        `gorm:"type:integer;not null" json:"points"`
	Flag        string     `gorm:"type:varchar(255);not null" json:"-"`
	Hints       []string   `gorm:"serializer:json" json:"hints"`
	// No column default: creators set visibility explicitly, and a default
	// would override an explicit false on insert.
	IsActive    bool       `gorm:"not null;column:is_active" json:"is_active"`
	SolvedCount int        `gorm:"type:integer;not null;default:0;column:solved_count" json:"solved_count"`
	ResourceURL *string    `gorm:"type:varchar(255);column:resource_url" json:"resource_url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
