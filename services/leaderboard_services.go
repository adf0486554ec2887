package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"seenaf/database"
	"seenaf/metrics"
	"seenaf/models"
)

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	Rank        int        `json:"rank"`
	UserID      string     `json:"user_id"`
	Username    string     `json:"username"`
	AvatarURL   *string    `json:"avatar_url"`
	TotalScore  int        `json:"total_score"`
	LastSolveAt *time.Time `json:"last_solve_at"`
}

const leaderboardCacheTTL = 30 * time.Second

// Rank returns users ordered by total score descending. Ties break on the
// time of the user's latest correct submission ascending (first to reach the
// score ranks higher), then user id, so repeated calls over unchanged data
// return an identical order. Blocked users are excluded.
func Rank(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	if cached, ok := leaderboardFromCache(limit); ok {
		return cached, nil
	}

	defer metrics.RecordDBOperation("rank", "users", time.Now())

	var users []models.User
	err := database.DB.
		Where("blocked = ?", false).
		Order("total_score DESC, last_solve_at ASC, id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank users: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      user.ID,
			Username:    user.Username,
			AvatarURL:   user.AvatarURL,
			TotalScore:  user.TotalScore,
			LastSolveAt: user.LastSolveAt,
		})
	}

	leaderboardToCache(limit, entries)
	return entries, nil
}

func leaderboardCacheKey(limit int) string {
	return fmt.Sprintf("leaderboard:%d", limit)
}

func leaderboardFromCache(limit int) ([]LeaderboardEntry, bool) {
	if database.RDB == nil {
		return nil, false
	}

	raw, err := database.RDB.Get(database.Ctx, leaderboardCacheKey(limit)).Result()
	if err != nil {
		metrics.LeaderboardCacheMisses.Inc()
		return nil, false
	}

	var entries []LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		metrics.LeaderboardCacheMisses.Inc()
		return nil, false
	}

	metrics.LeaderboardCacheHits.Inc()
	return entries, true
}

func leaderboardToCache(limit int, entries []LeaderboardEntry) {
	if database.RDB == nil {
		return
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := database.RDB.Set(database.Ctx, leaderboardCacheKey(limit), raw, leaderboardCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache leaderboard: %v", err)
	}
}

// InvalidateLeaderboard drops every cached leaderboard page. Called on each
// score change so reads after a write never serve stale ranks.
func InvalidateLeaderboard() {
	if database.RDB == nil {
		return
	}

	keys, err := database.RDB.Keys(database.Ctx, "leaderboard:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	database.RDB.Del(database.Ctx, keys...)
}
