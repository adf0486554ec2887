package submissions

import (
	"net/http"
	"strconv"

	"seenaf/middleware"
	"seenaf/services"
	"seenaf/utils/response"

	"github.com/gin-gonic/gin"
)

// GetMySubmissions lists the authenticated user's submission history
// @Summary Own submission history
// @Description List the authenticated user's submissions, newest first
// @Tags Submissions
// @Produce json
// @Success 200 {array} models.Submission
// @Failure 401 {object} map[string]string
// @Router /submissions/me [get]
// @Security Bearer
func GetMySubmissions(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	submissions, err := services.ListUserSubmissions(actor, actor.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// GetUserSubmissions lists a user's submission history
// @Summary User submission history
// @Description List a user's submissions (self or admin), newest first
// @Tags Submissions
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {array} models.Submission
// @Failure 401,403 {object} map[string]string
// @Router /submissions/user/{user_id} [get]
// @Security Bearer
func GetUserSubmissions(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	submissions, err := services.ListUserSubmissions(actor, c.Param("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// GetChallengeSubmissions lists all submissions for a challenge
// @Summary Challenge submission history
// @Description List every submission recorded for a challenge (admin only), newest first
// @Tags Submissions
// @Produce json
// @Param challenge_id path string true "Challenge ID"
// @Success 200 {array} models.Submission
// @Failure 401,403 {object} map[string]string
// @Router /submissions/challenge/{challenge_id} [get]
// @Security Bearer
func GetChallengeSubmissions(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	submissions, err := services.ListChallengeSubmissions(actor, c.Param("challenge_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// RevokeSubmission removes a recorded solve
// @Summary Revoke a submission
// @Description Delete a submission (admin only). A correct submission's points are removed and the user's score recomputed. The action is audited.
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} map[string]string
// @Failure 401,403,404 {object} map[string]string
// @Router /submissions/{id} [delete]
// @Security Bearer
func RevokeSubmission(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	if err := services.RevokeSubmission(actor, c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission revoked"})
}

// GetAuditTrail lists recent audit entries
// @Summary Audit trail
// @Description List recent audited privileged actions (admin only)
// @Tags Submissions
// @Produce json
// @Param limit query int false "Maximum entries to return"
// @Success 200 {array} models.AuditEntry
// @Failure 401,403 {object} map[string]string
// @Router /submissions/audit [get]
// @Security Bearer
func GetAuditTrail(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := services.ListAuditEntries(actor, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
