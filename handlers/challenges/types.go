package challenges

import (
	"time"

	"seenaf/models"
)

// Constants for error messages
const (
	ErrChallengeNotFound     = "Challenge not found"
	ErrNoPermissionCreate    = "User does not have permission to create challenges"
	ErrNoPermissionUpdate    = "User does not have permission to update challenges"
	ErrNoPermissionDelete    = "User does not have permission to delete challenges"
	ErrFailedFetchChallenges = "Failed to fetch challenges"
	ErrFailedCreateChallenge = "Failed to create challenge"
	ErrFailedUpdateChallenge = "Failed to update challenge"
	ErrFailedDeleteChallenge = "Failed to delete challenge"
	ErrInvalidRequest        = "Invalid request data"
	ErrTitleRequired         = "Title is required"
	ErrDescriptionRequired   = "Description is required"
	ErrFlagRequired          = "Flag is required"
	ErrFlagFormat            = "Flag must be in format SEENAF{...}"
	ErrPointsRange           = "Points must be between 1 and 1000"
	ErrInvalidDifficulty     = "Difficulty must be one of easy, medium, hard, insane"
)

// CreateChallengeRequest model for creating a challenge
type CreateChallengeRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Difficulty  string   `json:"difficulty" binding:"required"`
	Points      int      `json:"points" binding:"required"`
	Flag        string   `json:"flag" binding:"required"`
	Hints       []string `json:"hints"`
	ResourceURL *string  `json:"resource_url"`
	IsActive    *bool    `json:"is_active"`
}

// UpdateChallengeRequest model for patching a challenge; nil fields are untouched
type UpdateChallengeRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Difficulty  *string   `json:"difficulty"`
	Points      *int      `json:"points"`
	Flag        *string   `json:"flag"`
	Hints       *[]string `json:"hints"`
	ResourceURL *string   `json:"resource_url"`
}

// SetActiveRequest model for the visibility toggle
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SubmitFlagRequest model for flag submissions
type SubmitFlagRequest struct {
	Flag string `json:"flag"`
	// UserID lets an admin submit on behalf of another user for test and
	// debug purposes; such submissions land in the audit trail.
	UserID string `json:"user_id"`
}

// AdminChallengeResponse includes the flag; only ever returned to admins
type AdminChallengeResponse struct {
	models.Challenge
	Flag string `json:"flag"`
}

// ChallengeStatsResponse model for per-challenge statistics
type ChallengeStatsResponse struct {
	ChallengeID   string     `json:"challenge_id"`
	Title         string     `json:"title"`
	TotalAttempts int        `json:"total_attempts"`
	SolverCount   int        `json:"solver_count"`
	SolveRate     float64    `json:"solve_rate"`
	FirstSolveAt  *time.Time `json:"first_solve_at"`
}

// SolverResponse is one entry in a challenge's solver list
type SolverResponse struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	SolvedAt time.Time `json:"solved_at"`
}

func validDifficulty(d string) bool {
	switch models.Difficulty(d) {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard, models.DifficultyInsane:
		return true
	}
	return false
}
