package services

import (
	"fmt"

	"seenaf/config"
	"seenaf/database"
)

// Wrong-attempt throttling lives in Redis, keyed by user and challenge with
// a TTL, so cooldowns are shared across instances and survive restarts.
// Without Redis the submission flow runs unthrottled rather than failing.

func attemptKey(userID, challengeID string) string {
	return fmt.Sprintf("submitcd:attempts:%s:%s", userID, challengeID)
}

func cooldownKey(userID, challengeID string) string {
	return fmt.Sprintf("submitcd:cooldown:%s:%s", userID, challengeID)
}

// CheckSubmissionCooldown returns ErrRateLimited while a cooldown is active
func CheckSubmissionCooldown(userID, challengeID string) error {
	if database.RDB == nil {
		return nil
	}

	ttl, err := database.RDB.TTL(database.Ctx, cooldownKey(userID, challengeID)).Result()
	if err != nil {
		return nil
	}
	if ttl > 0 {
		return fmt.Errorf("%w: retry in %s", ErrRateLimited, ttl.Round(1e9))
	}
	return nil
}

// RegisterWrongAttempt bumps the wrong-attempt counter and arms a cooldown
// once a threshold is crossed
func RegisterWrongAttempt(userID, challengeID string) {
	if database.RDB == nil {
		return
	}

	cfg := config.DefaultSubmissionRateLimitConfig
	key := attemptKey(userID, challengeID)

	count, err := database.RDB.Incr(database.Ctx, key).Result()
	if err != nil {
		return
	}
	database.RDB.Expire(database.Ctx, key, cfg.CounterTTL)

	switch {
	case count >= int64(cfg.AttemptsThreshold2):
		database.RDB.Set(database.Ctx, cooldownKey(userID, challengeID), count, cfg.CooldownDuration2)
	case count >= int64(cfg.AttemptsThreshold1):
		database.RDB.Set(database.Ctx, cooldownKey(userID, challengeID), count, cfg.CooldownDuration1)
	}
}

// ClearSubmissionCooldown resets the counters after a correct submission
func ClearSubmissionCooldown(userID, challengeID string) {
	if database.RDB == nil {
		return
	}
	database.RDB.Del(database.Ctx, attemptKey(userID, challengeID), cooldownKey(userID, challengeID))
}
