package users

import (
	"errors"
	"fmt"
	"net/http"

	"seenaf/database"
	"seenaf/middleware"
	"seenaf/models"
	"seenaf/services"
	"seenaf/utils/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetUsers lists all users with their roles
// @Summary List users
// @Description List every user and their resolved role (admin only)
// @Tags Users
// @Produce json
// @Success 200 {array} ProfileResponse
// @Failure 401,403 {object} map[string]string
// @Router /users [get]
// @Security Bearer
func GetUsers(c *gin.Context) {
	if _, err := middleware.GetActorFromRequest(c); err != nil {
		return
	}

	var users []models.User
	if err := database.DB.Order("created_at ASC").Find(&users).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedFetchUsers)
		return
	}

	var assignments []models.RoleAssignment
	if err := database.DB.Find(&assignments).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedFetchUsers)
		return
	}
	roles := make(map[string]models.AppRole, len(assignments))
	for _, a := range assignments {
		roles[a.UserID] = a.Role
	}

	profiles := make([]ProfileResponse, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, ProfileResponse{User: u, Role: roles[u.ID]})
	}

	c.JSON(http.StatusOK, profiles)
}

// SetRole changes a user's role
// @Summary Set user role
// @Description Grant or revoke the admin role (admin only). The change is audited; admins cannot change their own role.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body SetRoleRequest true "New role"
// @Success 200 {object} models.RoleAssignment
// @Failure 400,401,403,404 {object} map[string]string
// @Router /users/{id}/role [put]
// @Security Bearer
func SetRole(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	targetID := c.Param("id")
	if targetID == actor.UserID {
		response.Error(c, http.StatusBadRequest, ErrCannotChangeOwnRole)
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}
	if req.Role != models.RolePlayer && req.Role != models.RoleAdmin {
		response.Error(c, http.StatusBadRequest, ErrInvalidRole)
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", targetID).Error; err != nil {
		response.Error(c, http.StatusNotFound, ErrUserNotFound)
		return
	}

	var assignment models.RoleAssignment
	err = database.DB.First(&assignment, "user_id = ?", targetID).Error
	switch {
	case err == nil:
		if err := database.DB.Model(&assignment).
			Updates(map[string]interface{}{"role": req.Role, "granted_by": actor.UserID}).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, ErrFailedUpdateRole)
			return
		}
		assignment.Role = req.Role
	case errors.Is(err, gorm.ErrRecordNotFound):
		assignment = models.RoleAssignment{UserID: targetID, Role: req.Role, GrantedBy: &actor.UserID}
		if err := database.DB.Create(&assignment).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, ErrFailedUpdateRole)
			return
		}
	default:
		response.Error(c, http.StatusInternalServerError, ErrFailedUpdateRole)
		return
	}

	action := models.AuditRoleGranted
	if req.Role == models.RolePlayer {
		action = models.AuditRoleRevoked
	}
	services.RecordAudit(actor.UserID, action, targetID, fmt.Sprintf("role set to %s", req.Role))

	c.JSON(http.StatusOK, assignment)
}

// SetBlocked blocks or unblocks a user
// @Summary Block or unblock a user
// @Description Toggle a user's blocked state (admin only). Blocked users cannot authenticate and are hidden from the leaderboard. Audited.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body SetBlockedRequest true "Blocked state"
// @Success 200 {object} models.User
// @Failure 400,401,403,404 {object} map[string]string
// @Router /users/{id}/blocked [put]
// @Security Bearer
func SetBlocked(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	targetID := c.Param("id")
	if targetID == actor.UserID {
		response.Error(c, http.StatusBadRequest, ErrCannotBlockSelf)
		return
	}

	var req SetBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", targetID).Error; err != nil {
		response.Error(c, http.StatusNotFound, ErrUserNotFound)
		return
	}

	if user.Blocked != *req.Blocked {
		if err := database.DB.Model(&user).Update("blocked", *req.Blocked).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, ErrFailedUpdateUser)
			return
		}
		user.Blocked = *req.Blocked
		services.InvalidateLeaderboard()

		action := models.AuditUserBlocked
		if !*req.Blocked {
			action = models.AuditUserUnblocked
		}
		services.RecordAudit(actor.UserID, action, targetID, "")
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user and their ledger rows
// @Summary Delete a user
// @Description Delete a user together with their submissions and role claim (admin only). Solver counts on affected challenges are adjusted. Audited.
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400,401,403,404 {object} map[string]string
// @Router /users/{id} [delete]
// @Security Bearer
func DeleteUser(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	targetID := c.Param("id")
	if targetID == actor.UserID {
		response.Error(c, http.StatusBadRequest, ErrCannotDeleteSelf)
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", targetID).Error; err != nil {
		response.Error(c, http.StatusNotFound, ErrUserNotFound)
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var solvedIDs []string
		if err := tx.Model(&models.Submission{}).
			Where("user_id = ? AND is_correct", targetID).
			Pluck("challenge_id", &solvedIDs).Error; err != nil {
			return err
		}
		for _, challengeID := range solvedIDs {
			if err := tx.Model(&models.Challenge{}).
				Where("id = ? AND solved_count > 0", challengeID).
				UpdateColumn("solved_count", gorm.Expr("solved_count - ?", 1)).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.RoleAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.PasswordReset{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedDeleteUser)
		return
	}

	services.InvalidateLeaderboard()
	services.RecordAudit(actor.UserID, models.AuditUserDeleted, targetID, user.Username)

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// OverrideScore sets a user's total score to an explicit value
// @Summary Override a user's score
// @Description Set a total score outside the derived value (admin only). Audited; a later recomputation restores the derived score.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body OverrideScoreRequest true "New score"
// @Success 200 {object} map[string]string
// @Failure 400,401,403,404 {object} map[string]string
// @Router /users/{id}/score [put]
// @Security Bearer
func OverrideScore(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req OverrideScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	if err := services.OverrideScore(actor, c.Param("id"), *req.Score); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Score overridden"})
}

// RecomputeScore rederives a user's total score from the ledger
// @Summary Recompute a user's score
// @Description Recompute the total score from recorded correct submissions (admin only)
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} map[string]int
// @Failure 401,403,404 {object} map[string]string
// @Router /users/{id}/recompute [post]
// @Security Bearer
func RecomputeScore(c *gin.Context) {
	if _, err := middleware.GetActorFromRequest(c); err != nil {
		return
	}

	targetID := c.Param("id")
	var user models.User
	if err := database.DB.First(&user, "id = ?", targetID).Error; err != nil {
		response.Error(c, http.StatusNotFound, ErrUserNotFound)
		return
	}

	score, err := services.RecomputeScore(targetID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedRecomputeScores)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_score": score})
}
