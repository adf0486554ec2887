package users

import (
	"net/http"
	"strings"

	"seenaf/database"
	"seenaf/middleware"
	"seenaf/models"
	"seenaf/services"
	"seenaf/utils"
	"seenaf/utils/response"

	"github.com/gin-gonic/gin"
)

// GetProfile returns the authenticated user's profile
// @Summary Own profile
// @Description Profile of the authenticated user, including the resolved role
// @Tags Users
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} map[string]string
// @Router /users/me [get]
// @Security Bearer
func GetProfile(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{User: *user, Role: actor.Role})
}

// UpdateProfile edits the authenticated user's profile
// @Summary Update own profile
// @Description Change the authenticated user's username or avatar
// @Tags Users
// @Accept json
// @Produce json
// @Param profile body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400,401,409 {object} map[string]string
// @Router /users/me [put]
// @Security Bearer
func UpdateProfile(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if len(username) < 3 || len(username) > 50 {
			response.Error(c, http.StatusBadRequest, "Username must be between 3 and 50 characters")
			return
		}
		if username != user.Username {
			var count int64
			database.DB.Model(&models.User{}).Where("username = ?", username).Count(&count)
			if count > 0 {
				response.Error(c, http.StatusConflict, ErrUsernameInUse)
				return
			}
			updates["username"] = username
		}
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}

	if len(updates) > 0 {
		if err := database.DB.Model(user).Updates(updates).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, ErrFailedUpdateUser)
			return
		}
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword changes the authenticated user's password
// @Summary Change own password
// @Description Change the password after verifying the current one
// @Tags Users
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Password change"
// @Success 200 {object} map[string]string
// @Failure 400,401 {object} map[string]string
// @Router /users/me/password [put]
// @Security Bearer
func ChangePassword(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.Password) {
		response.Error(c, http.StatusBadRequest, ErrCurrentPasswordWrong)
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedUpdateUser)
		return
	}

	if err := database.DB.Model(user).Update("password", hashed).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedUpdateUser)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// GetSolvedChallenges lists the ids of challenges the user has solved
// @Summary Solved challenges
// @Description Challenge ids the authenticated user has solved
// @Tags Users
// @Produce json
// @Success 200 {array} string
// @Failure 401 {object} map[string]string
// @Router /users/me/solved [get]
// @Security Bearer
func GetSolvedChallenges(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}

	ids, err := services.SolvedChallengeIDs(user.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedFetchUsers)
		return
	}

	c.JSON(http.StatusOK, ids)
}
