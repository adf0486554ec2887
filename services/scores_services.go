package services

import (
	"errors"
	"fmt"
	"time"

	"seenaf/database"
	"seenaf/models"
	"seenaf/utils/permissions"

	"gorm.io/gorm"
)

// AddPoints is the incremental scoring path, used inside the submission
// transaction right after a correct submission. It is a performance
// optimization only: RecomputeScore is the authority and the two must agree.
func AddPoints(tx *gorm.DB, userID string, points int, solvedAt time.Time) error {
	result := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"total_score":   gorm.Expr("total_score + ?", points),
			"last_solve_at": solvedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to add points: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	return nil
}

// RecomputeScore derives the user's total score from the ledger: the sum of
// points over challenges with a correct submission by that user. Challenges
// deleted since the solve contribute zero via the inner join. Idempotent.
func RecomputeScore(userID string) (int, error) {
	var exists int64
	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).Count(&exists).Error; err != nil {
		return 0, fmt.Errorf("failed to check user: %w", err)
	}
	if exists == 0 {
		return 0, fmt.Errorf("%w: user", ErrNotFound)
	}

	var total int64
	err := database.DB.Model(&models.Submission{}).
		Select("COALESCE(SUM(challenges.points), 0)").
		Joins("JOIN challenges ON challenges.id = submissions.challenge_id").
		Where("submissions.user_id = ? AND submissions.is_correct", userID).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum scores: %w", err)
	}

	// Rederive the tie-break timestamp alongside the score
	var lastSolveAt *time.Time
	var latest models.Submission
	err = database.DB.
		Where("user_id = ? AND is_correct", userID).
		Order("submitted_at DESC").
		First(&latest).Error
	switch {
	case err == nil:
		lastSolveAt = &latest.SubmittedAt
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return 0, fmt.Errorf("failed to find latest solve: %w", err)
	}

	if err := database.DB.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"total_score":   total,
			"last_solve_at": lastSolveAt,
		}).Error; err != nil {
		return 0, fmt.Errorf("failed to store recomputed score: %w", err)
	}

	InvalidateLeaderboard()
	return int(total), nil
}

// OverrideScore sets a user's total score to an explicit value outside the
// derivation. This is a deliberate administrative override, always audited,
// and RecomputeScore restores the derived value on demand.
func OverrideScore(actor permissions.Actor, userID string, score int) error {
	if !permissions.IsAdmin(actor) {
		return fmt.Errorf("%w: admin capability required", ErrForbidden)
	}
	if score < 0 {
		return fmt.Errorf("%w: score cannot be negative", ErrInvalidInput)
	}

	result := database.DB.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("total_score", score)
	if result.Error != nil {
		return fmt.Errorf("failed to override score: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	InvalidateLeaderboard()
	RecordAudit(actor.UserID, models.AuditScoreOverride, userID,
		fmt.Sprintf("total score set to %d", score))
	return nil
}

// SolvedChallengeIDs returns the ids of challenges the user has solved
func SolvedChallengeIDs(userID string) ([]string, error) {
	var ids []string
	err := database.DB.Model(&models.Submission{}).
		Where("user_id = ? AND is_correct", userID).
		Pluck("challenge_id", &ids).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch solved challenges: %w", err)
	}
	return ids, nil
}
