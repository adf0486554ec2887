package auth

import (
	"errors"
	"net/http"

	"seenaf/database"
	"seenaf/middleware"
	"seenaf/models"
	"seenaf/utils"
	"seenaf/utils/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Login authenticates a user and issues a token
// @Summary Login
// @Description Authenticate with email and password, returns a JWT and sets the auth cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400,401,403 {object} map[string]string
// @Router /auth/login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// Same message for unknown email and wrong password
		response.Error(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		response.Error(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	if user.Blocked {
		response.Error(c, http.StatusForbidden, ErrAccountBlocked)
		return
	}

	// The role claim comes from the role_assignments table and nowhere
	// else. A missing or unreadable assignment blocks the login; it is
	// never guessed or defaulted.
	var assignment models.RoleAssignment
	if err := database.DB.First(&assignment, "user_id = ?", user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusForbidden, "No role assigned to this account")
		} else {
			response.Error(c, http.StatusInternalServerError, ErrRoleResolveFailed)
		}
		return
	}

	token, err := utils.GenerateToken(user, assignment.Role, req.RememberMe)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrTokenGenerateFailed)
		return
	}

	setCookieToken(c, token, req.RememberMe)

	c.JSON(http.StatusOK, AuthResponse{
		Token:      token,
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       string(assignment.Role),
		TotalScore: user.TotalScore,
		AvatarURL:  user.AvatarURL,
		Blocked:    user.Blocked,
	})
}

// RegisterUser creates a new player account
// @Summary Register
// @Description Create a new account. Every new account gets the player role; elevation only happens through an audited admin action.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400,409 {object} map[string]string
// @Router /auth/register [post]
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		response.Error(c, http.StatusConflict, ErrEmailInUse)
		return
	}
	database.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		response.Error(c, http.StatusConflict, ErrUsernameInUse)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrHashPasswordFailed)
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
	}

	tx := database.DB.Begin()
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		response.Error(c, http.StatusInternalServerError, ErrUserCreateFailed)
		return
	}
	if err := tx.Create(&models.RoleAssignment{UserID: user.ID, Role: models.RolePlayer}).Error; err != nil {
		tx.Rollback()
		response.Error(c, http.StatusInternalServerError, ErrUserCreateFailed)
		return
	}
	if err := tx.Commit().Error; err != nil {
		response.Error(c, http.StatusInternalServerError, ErrUserCreateFailed)
		return
	}

	token, err := utils.GenerateToken(user, models.RolePlayer, false)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, ErrTokenGenerateFailed)
		return
	}

	setCookieToken(c, token, false)

	c.JSON(http.StatusCreated, AuthResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(models.RolePlayer),
	})
}

// CheckAuth validates the current session
// @Summary Check session
// @Description Return the authenticated identity and role claim for the current token
// @Tags Auth
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 401 {object} map[string]string
// @Router /auth/check [get]
// @Security Bearer
func CheckAuth(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	actor, err := middleware.GetActorFromRequest(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       string(actor.Role),
		TotalScore: user.TotalScore,
		AvatarURL:  user.AvatarURL,
		Blocked:    user.Blocked,
	})
}

// Logout clears the auth cookie
// @Summary Logout
// @Description Clear the authentication cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func Logout(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"message": ErrLogoutSuccess})
}
