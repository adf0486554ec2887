package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"seenaf/database"
	"seenaf/metrics"
	"seenaf/models"
	"seenaf/realtime"
	"seenaf/utils/permissions"

	"gorm.io/gorm"
)

// SubmitResult is the tri-state outcome of a flag submission. A wrong flag
// is not an error; AlreadySolved is terminal but distinct from Correct.
type SubmitResult string

const (
	SubmitCorrect       SubmitResult = "correct"
	SubmitIncorrect     SubmitResult = "incorrect"
	SubmitAlreadySolved SubmitResult = "already_solved"
)

// SubmitOutcome is what the caller gets back from a successful submit call
type SubmitOutcome struct {
	Result     SubmitResult `json:"result"`
	Points     int          `json:"points"`
	TotalScore int          `json:"total_score"`
}

// SubmitFlag validates and records one flag attempt for userID against
// challengeID. Correctness is decided here, once, against the flag current
// at this moment; the stored row is never re-evaluated if the flag changes
// later. The duplicate check and the insert run in one transaction, with the
// partial unique index on (user_id, challenge_id) WHERE is_correct as the
// backstop against two concurrent correct submissions double-crediting.
func SubmitFlag(actor permissions.Actor, userID, challengeID, value string) (SubmitOutcome, error) {
	if !permissions.CanActFor(actor, userID) {
		return SubmitOutcome{}, fmt.Errorf("%w: cannot submit for another user", ErrForbidden)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return SubmitOutcome{}, ErrEmptySubmission
	}

	if err := CheckSubmissionCooldown(userID, challengeID); err != nil {
		return SubmitOutcome{}, err
	}

	var outcome SubmitOutcome
	var challenge models.Challenge

	txStart := time.Now()
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&challenge, "id = ?", challengeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: challenge", ErrNotFound)
			}
			return fmt.Errorf("failed to fetch challenge: %w", err)
		}

		// Inactive challenges are indistinguishable from absent ones
		// unless the actor holds the admin capability
		if !permissions.CanReadChallenge(actor, &challenge) {
			return fmt.Errorf("%w: challenge", ErrNotFound)
		}

		var solved int64
		if err := tx.Model(&models.Submission{}).
			Where("user_id = ? AND challenge_id = ? AND is_correct", userID, challengeID).
			Count(&solved).Error; err != nil {
			return fmt.Errorf("failed to check existing solves: %w", err)
		}
		if solved > 0 {
			outcome = SubmitOutcome{Result: SubmitAlreadySolved, Points: 0}
			return nil
		}

		// Exact, case-sensitive comparison. No normalization beyond the
		// trim already applied to the submitted value.
		isCorrect := value == challenge.Flag

		submission := models.Submission{
			UserID:        userID,
			ChallengeID:   challengeID,
			SubmittedFlag: value,
			IsCorrect:     isCorrect,
			SubmittedAt:   time.Now().UTC(),
		}
		if err := tx.Create(&submission).Error; err != nil {
			// A failed insert of a correct row means the unique index
			// fired: a concurrent submission won the race.
			if isCorrect {
				return fmt.Errorf("%w: duplicate correct submission", ErrConflict)
			}
			return fmt.Errorf("failed to record submission: %w", err)
		}

		if !isCorrect {
			outcome = SubmitOutcome{Result: SubmitIncorrect, Points: 0}
			return nil
		}

		if err := tx.Model(&models.Challenge{}).
			Where("id = ?", challengeID).
			UpdateColumn("solved_count", gorm.Expr("solved_count + ?", 1)).Error; err != nil {
			return fmt.Errorf("failed to update solver count: %w", err)
		}

		if err := AddPoints(tx, userID, challenge.Points, submission.SubmittedAt); err != nil {
			return err
		}

		outcome = SubmitOutcome{Result: SubmitCorrect, Points: challenge.Points}
		return nil
	})
	metrics.RecordDBOperation("submit", "submissions", txStart)
	if err != nil {
		return SubmitOutcome{}, err
	}

	metrics.SubmissionCounter.WithLabelValues(string(outcome.Result)).Inc()

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return SubmitOutcome{}, fmt.Errorf("failed to fetch user: %w", err)
	}
	outcome.TotalScore = user.TotalScore

	switch outcome.Result {
	case SubmitCorrect:
		metrics.SolveCounter.WithLabelValues(challengeID).Inc()
		InvalidateLeaderboard()
		ClearSubmissionCooldown(userID, challengeID)
		realtime.BroadcastSolve(realtime.SolveUpdate{
			ChallengeID:    challengeID,
			ChallengeTitle: challenge.Title,
			UserID:         userID,
			Username:       user.Username,
			Points:         challenge.Points,
			SolvedAt:       time.Now().UTC(),
		})
	case SubmitIncorrect:
		RegisterWrongAttempt(userID, challengeID)
	}

	// Admin submissions on behalf of another user are allowed for test and
	// debug purposes only and must never happen silently
	if actor.UserID != userID {
		RecordAudit(actor.UserID, models.AuditSubmissionOnBehalf, userID,
			fmt.Sprintf("test/debug submission for challenge %s, result %s", challengeID, outcome.Result))
	}

	return outcome, nil
}

// RevokeSubmission deletes a ledger row and recomputes the affected user's
// score through the authoritative path. Admin only; always audited.
func RevokeSubmission(actor permissions.Actor, submissionID string) error {
	if !permissions.IsAdmin(actor) {
		return fmt.Errorf("%w: admin capability required", ErrForbidden)
	}

	var submission models.Submission
	if err := database.DB.First(&submission, "id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: submission", ErrNotFound)
		}
		return fmt.Errorf("failed to fetch submission: %w", err)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&submission).Error; err != nil {
			return fmt.Errorf("failed to delete submission: %w", err)
		}
		if submission.IsCorrect {
			if err := tx.Model(&models.Challenge{}).
				Where("id = ? AND solved_count > 0", submission.ChallengeID).
				UpdateColumn("solved_count", gorm.Expr("solved_count - ?", 1)).Error; err != nil {
				return fmt.Errorf("failed to update solver count: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if _, err := RecomputeScore(submission.UserID); err != nil {
		return err
	}

	RecordAudit(actor.UserID, models.AuditSubmissionRevoked, submission.UserID,
		fmt.Sprintf("revoked submission %s for challenge %s", submissionID, submission.ChallengeID))
	return nil
}

// ListUserSubmissions returns a user's attempt history, newest first.
// Actors may only read their own history unless they hold admin.
func ListUserSubmissions(actor permissions.Actor, userID string) ([]models.Submission, error) {
	if !permissions.CanActFor(actor, userID) {
		return nil, fmt.Errorf("%w: cannot view another user's submissions", ErrForbidden)
	}

	var submissions []models.Submission
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	return submissions, nil
}

// ListChallengeSubmissions returns all attempts for a challenge (admin only)
func ListChallengeSubmissions(actor permissions.Actor, challengeID string) ([]models.Submission, error) {
	if !permissions.IsAdmin(actor) {
		return nil, fmt.Errorf("%w: admin capability required", ErrForbidden)
	}

	var submissions []models.Submission
	if err := database.DB.
		Where("challenge_id = ?", challengeID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	return submissions, nil
}
