package users

import "seenaf/models"

const (
	ErrUserNotFound          = "User not found"
	ErrInvalidRequest        = "Invalid request data"
	ErrFailedFetchUsers      = "Failed to fetch users"
	ErrFailedUpdateUser      = "Failed to update user"
	ErrFailedDeleteUser      = "Failed to delete user"
	ErrFailedUpdateRole      = "Failed to update role"
	ErrUsernameInUse         = "Username already in use"
	ErrInvalidRole           = "Role must be player or admin"
	ErrCurrentPasswordWrong  = "Current password is incorrect"
	ErrCannotChangeOwnRole   = "Administrators cannot change their own role"
	ErrCannotBlockSelf       = "Administrators cannot block themselves"
	ErrCannotDeleteSelf      = "Administrators cannot delete themselves"
	ErrFailedRecomputeScores = "Failed to recompute scores"
)

// UpdateProfileRequest model for self-service profile edits
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

// ChangePasswordRequest model for self-service password changes
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// SetRoleRequest model for audited role grants
type SetRoleRequest struct {
	Role models.AppRole `json:"role" binding:"required"`
}

// SetBlockedRequest model for blocking and unblocking users
type SetBlockedRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

// OverrideScoreRequest model for explicit score overrides
type OverrideScoreRequest struct {
	Score *int `json:"score" binding:"required"`
}

// ProfileResponse is a user together with their resolved role
type ProfileResponse struct {
	models.User
	Role models.AppRole `json:"role"`
}
