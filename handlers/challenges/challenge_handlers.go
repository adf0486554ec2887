package challenges

import (
	"errors"
	"net/http"
	"strings"

	"seenaf/database"
	"seenaf/middleware"
	"seenaf/models"
	"seenaf/services"
	"seenaf/utils"
	"seenaf/utils/permissions"
	"seenaf/utils/response"

	"github.com/gin-gonic/gin"
)

// GetChallenges retrieves the challenges visible to the actor
// @Summary List challenges
// @Description List active challenges; admins also see inactive ones. The flag field is never included.
// @Tags Challenges
// @Produce json
// @Param category query string false "Filter by category"
// @Param difficulty query string false "Filter by difficulty"
// @Success 200 {array} models.Challenge
// @Failure 401 {object} map[string]string
// @Router /challenges [get]
// @Security Bearer
func GetChallenges(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	db := database.DB.Model(&models.Challenge{})
	if !permissions.IsAdmin(actor) {
		db = db.Where("is_active = ?", true)
	}
	if category := c.Query("category"); category != "" {
		db = db.Where("category = ?", category)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		db = db.Where("difficulty = ?", difficulty)
	}

	var challenges []models.Challenge
	if err := db.Order("created_at DESC").Find(&challenges).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedFetchChallenges)
		return
	}

	c.JSON(http.StatusOK, challenges)
}

// GetChallenge retrieves a single challenge
// @Summary Get a challenge
// @Description Get a challenge by id. An inactive challenge is NotFound for non-admins, indistinguishable from an absent one.
// @Tags Challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} models.Challenge
// @Failure 401,404 {object} map[string]string
// @Router /challenges/{id} [get]
// @Security Bearer
func GetChallenge(c *gin.Context) {
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
		// Hidden looks exactly like absent
		response.Error(c, http.StatusNotFound, ErrChallengeNotFound)
		return
	}

	if permissions.IsAdmin(actor) {
		c.JSON(http.StatusOK, AdminChallengeResponse{Challenge: challenge, Flag: challenge.Flag})
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// CreateChallenge creates a new challenge
// @Summary Create a challenge
// @Description Create a new challenge (admin only)
// @Tags Challenges
// @Accept json
// @Produce json
// @Param challenge body CreateChallengeRequest true "Challenge data"
// @Success 201 {object} AdminChallengeResponse
// @Failure 400,401,403 {object} map[string]string
// @Router /challenges [post]
// @Security Bearer
func CreateChallenge(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	if !permissions.IsAdmin(actor) {
		response.Error(c, http.StatusForbidden, ErrNoPermissionCreate)
		return
	}

	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if msg, ok := validateChallengeInput(req.Title, req.Description, req.Flag, req.Points, req.Difficulty); !ok {
		response.Error(c, http.StatusBadRequest, msg)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	challenge := models.Challenge{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  models.Difficulty(req.Difficulty),
		Points:      req.Points,
		Flag:        strings.TrimSpace(req.Flag),
		Hints:       req.Hints,
		IsActive:    active,
		ResourceURL: req.ResourceURL,
	}

	if err := database.DB.Create(&challenge).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedCreateChallenge)
		return
	}

	c.JSON(http.StatusCreated, AdminChallengeResponse{Challenge: challenge, Flag: challenge.Flag})
}

// UpdateChallenge patches a challenge
// @Summary Update a challenge
// @Description Update challenge fields (admin only). Changing the points value triggers an authoritative score recomputation for every solver; recorded submissions are never re-judged against a changed flag.
// @Tags Challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param challenge body UpdateChallengeRequest true "Fields to update"
// @Success 200 {object} AdminChallengeResponse
// @Failure 400,401,403,404 {object} map[string]string
// @Router /challenges/{id} [put]
// @Security Bearer
func UpdateChallenge(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	if !permissions.IsAdmin(actor) {
		response.Error(c, http.StatusForbidden, ErrNoPermissionUpdate)
		return
	}

	var challenge models.Challenge
	if err := database.DB.First(&challenge, "id = ?", c.Param("id")).Error; err != nil {
		response.Error(c, http.StatusNotFound, ErrChallengeNotFound)
		return
	}

	var req UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	pointsChanged := false
	updates := map[string]interface{}{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			response.Error(c, http.StatusBadRequest, ErrTitleRequired)
			return
		}
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			response.Error(c, http.StatusBadRequest, ErrDescriptionRequired)
			return
		}
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Difficulty != nil {
		if !validDifficulty(*req.Difficulty) {
			response.Error(c, http.StatusBadRequest, ErrInvalidDifficulty)
			return
		}
		updates["difficulty"] = *req.Difficulty
	}
	if req.Points != nil {
		if *req.Points < 1 || *req.Points > 1000 {
			response.Error(c, http.StatusBadRequest, ErrPointsRange)
			return
		}
		pointsChanged = *req.Points != challenge.Points
		updates["points"] = *req.Points
	}
	if req.Flag != nil {
		if !utils.ValidFlagFormat(*req.Flag) {
			response.Error(c, http.StatusBadRequest, ErrFlagFormat)
			return
		}
		updates["flag"] = strings.TrimSpace(*req.Flag)
	}
	if req.ResourceURL != nil {
		updates["resource_url"] = *req.ResourceURL
	}

	if err := database.DB.Model(&challenge).Updates(updates).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedUpdateChallenge)
		return
	}

	if req.Hints != nil {
		if err := database.DB.Model(&challenge).Update("hints", *req.Hints).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, ErrFailedUpdateChallenge)
			return
		}
	}

	if pointsChanged {
		recomputeSolvers(challenge.ID)
	}

	if err := database.DB.First(&challenge, "id = ?", challenge.ID).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedFetchChallenges)
		return
	}

	c.JSON(http.StatusOK, AdminChallengeResponse{Challenge: challenge, Flag: challenge.Flag})
}

// SetChallengeActive toggles a challenge's visibility
// @Summary Set challenge visibility
// @Description Toggle the active flag (admin only). Setting the same value twice is a no-op.
// @Tags Challenges
// @Accept json
// @Produce json
// @Param id path string true "Challenge ID"
// @Param request body SetActiveRequest true "Visibility"
// @Success 200 {object} models.Challenge
// @Failure 400,401,403,404 {object} map[string]string
// @Router /challenges/{id}/active [put]
// @Security Bearer
func SetChallengeActive(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	if !permissions.IsAdmin(actor) {
		response.Error(c, http.StatusForbidden, ErrNoPermissionUpdate)
		return
	}

	var challenge models.Challenge
	if err := database.DB.First(&challenge, "id = ?", c.Param("id")).Error; err != nil {
		response.Error(c, http.StatusNotFound, ErrChallengeNotFound)
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	// Idempotent: same value twice is a no-op, not an error
	if challenge.IsActive != *req.IsActive {
		if err := database.DB.Model(&challenge).Update("is_active", *req.IsActive).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, ErrFailedUpdateChallenge)
			return
		}
		challenge.IsActive = *req.IsActive
	}

	c.JSON(http.StatusOK, challenge)
}

// DeleteChallenge removes a challenge
// @Summary Delete a challenge
// @Description Delete a challenge (admin only). Ledger rows stay; every solver's score is recomputed without the deleted challenge's points.
// @Tags Challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} map[string]string
// @Failure 401,403,404 {object} map[string]string
// @Router /challenges/{id} [delete]
// @Security Bearer
func DeleteChallenge(c *gin.Context) {
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	if !permissions.IsAdmin(actor) {
		response.Error(c, http.StatusForbidden, ErrNoPermissionDelete)
		return
	}

	var challenge models.Challenge
	if err := database.DB.First(&challenge, "id = ?", c.Param("id")).Error; err != nil {
		response.Error(c, http.StatusNotFound, ErrChallengeNotFound)
		return
	}

	// Solvers to recompute once the challenge row is gone
	var solverIDs []string
	database.DB.Model(&models.Submission{}).
		Where("challenge_id = ? AND is_correct", challenge.ID).
		Pluck("user_id", &solverIDs)

	if err := database.DB.Delete(&challenge).Error; err != nil {
		response.Error(c, http.StatusInternalServerError, ErrFailedDeleteChallenge)
		return
	}

	for _, userID := range solverIDs {
		if _, err := services.RecomputeScore(userID); err != nil && !errors.Is(err, services.ErrNotFound) {
			response.Error(c, http.StatusInternalServerError, "Challenge deleted but score recomputation failed")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Challenge deleted"})
}

func validateChallengeInput(title, description, flag string, points int, difficulty string) (string, bool) {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired, false
	}
	if strings.TrimSpace(description) == "" {
		return ErrDescriptionRequired, false
	}
	if strings.TrimSpace(flag) == "" {
		return ErrFlagRequired, false
	}
	if !utils.ValidFlagFormat(flag) {
		return ErrFlagFormat, false
	}
	if points < 1 || points > 1000 {
		return ErrPointsRange, false
	}
	if !validDifficulty(difficulty) {
		return ErrInvalidDifficulty, false
	}
	return "", true
}

func recomputeSolvers(challengeID string) {
	var solverIDs []string
	database.DB.Model(&models.Submission{}).
		Where("challenge_id = ? AND is_correct", challengeID).
		Pluck("user_id", &solverIDs)
	for _, userID := range solverIDs {
		if _, err := services.RecomputeScore(userID); err != nil {
			// Keep going; the next recompute call will converge
			continue
		}
	}
}
