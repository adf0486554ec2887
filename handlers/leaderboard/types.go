package leaderboard

const (
	ErrFailedFetchLeaderboard  = "Failed to fetch leaderboard"
	ErrFailedExportLeaderboard = "Failed to export leaderboard"
	ErrNoPermissionExport      = "User does not have permission to export the leaderboard"
	ErrWebSocketUpgrade        = "Failed to upgrade connection"
)
