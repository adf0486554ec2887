package challenges

import (
	"net/http"

	"seenaf/database"
	"seenaf/middleware"
	"seenaf/models"
	"seenaf/services"
	"seenaf/utils/permissions"
	"seenaf/utils/response"

	"github.com/gin-gonic/gin"
)

// SubmitFlag records one flag attempt for a challenge
// @Summary Submit a flag
// @Description Submit a flag attempt. Returns one of correct, incorrect or already_solved. Admins may set user_id to submit on behalf of another user; this is audited.
// @Tags Challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param request body SubmitFlagRequest true "Flag attempt"
// @Success 200 {object} services.SubmitOutcome
// @Failure 400,401,403,404,429 {object} map[string]string
// @Router /challenges/{id}/submit [post]
// @Security Bearer
func SubmitFlag(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var req SubmitFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	targetID := actor.UserID
	if req.UserID != "" {
		targetID = req.UserID
	}

	outcome, err := services.SubmitFlag(actor, targetID, c.Param("id"), req.Flag)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// GetChallengeStatistics returns per-challenge attempt statistics
// @Summary Challenge statistics
// @Description Attempts, solver count, solve rate and first solve time for a challenge
// @Tags Challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} ChallengeStatsResponse
// @Failure 401,404 {object} map[string]string
// @Router /challenges/{id}/stats [get]
// @Security Bearer
func GetChallengeStatistics(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var challenge models.Challenge
	if err := database.DB.First(&challenge, "id = ?", c.Param("id")).Error; err != nil {
		response.Error(c, http.StatusNotFound, ErrChallengeNotFound)
		return
	}
	if !permissions.CanReadChallenge(actor, &challenge) {
		response.Error(c, http.StatusNotFound, ErrChallengeNotFound)
		return
	}

	stats := ChallengeStatsResponse{
		ChallengeID: challenge.ID,
		Title:       challenge.Title,
		SolverCount: challenge.SolvedCount,
	}

	var total int64
	if err := database.DB.Model(&models.Submission{}).
		Where("challenge_id = ?", challenge.ID).
		Count(&total).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedFetchChallenges)
		return
	}
	stats.TotalAttempts = int(total)
	if total > 0 {
		stats.SolveRate = float64(challenge.SolvedCount) / float64(total)
	}

	var first models.Submission
	err = database.DB.
		Where("challenge_id = ? AND is_correct", challenge.ID).
		Order("submitted_at ASC").
		First(&first).Error
	if err == nil {
		stats.FirstSolveAt = &first.SubmittedAt
	}

	c.JSON(http.StatusOK, stats)
}

// GetChallengeSolvers lists the users who solved a challenge
// @Summary Challenge solvers
// @Description List solvers of a challenge in solve order
// @Tags Challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {array} SolverResponse
// @Failure 401,404 {object} map[string]string
// @Router /challenges/{id}/solvers [get]
// @Security Bearer
func GetChallengeSolvers(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	var challenge models.Challenge
	if err := database.DB.First(&challenge, "id = ?", c.Param("id")).Error; err != nil {
		response.Error(c, http.StatusNotFound, ErrChallengeNotFound)
		return
	}
	if !permissions.CanReadChallenge(actor, &challenge) {
		response.Error(c, http.StatusNotFound, ErrChallengeNotFound)
		return
	}

	var solvers []SolverResponse
	if err := database.DB.Model(&models.Submission{}).
		Select("submissions.user_id, users.username, submissions.submitted_at AS solved_at").
		Joins("JOIN users ON users.id = submissions.user_id").
		Where("submissions.challenge_id = ? AND submissions.is_correct", challenge.ID).
		Order("submissions.submitted_at ASC").
		Scan(&solvers).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedFetchChallenges)
		return
	}

	c.JSON(http.StatusOK, solvers)
}
