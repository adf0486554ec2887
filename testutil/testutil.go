package testutil

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"seenaf/config"
	"seenaf/database"
	"seenaf/models"
	"seenaf/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an isolated in-memory database, migrates the schema and
// installs it as the global connection for the duration of the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if config.JWTSecret == "" {
		config.JWTSecret = "test-secret"
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps the in-memory database alive and isolated
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB.Close()
	})

	return db
}

// CreateUser inserts a user with the given role claim and a known password
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.AppRole) models.User {
	t.Helper()

	hashed, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: hashed,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}

	assignment := models.RoleAssignment{UserID: user.ID, Role: role}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("failed to create role assignment for %s: %v", username, err)
	}

	return user
}

// CreateChallenge inserts a challenge with sensible defaults
func CreateChallenge(t *testing.T, db *gorm.DB, title string, points int, flag string, active bool) models.Challenge {
	t.Helper()

	challenge := models.Challenge{
		Title:       title,
		Description: "test challenge",
		Category:    "misc",
		Difficulty:  models.DifficultyEasy,
		Points:      points,
		Flag:        flag,
		IsActive:    active,
	}
	if err := db.Create(&challenge).Error; err != nil {
		t.Fatalf("failed to create challenge %s: %v", title, err)
	}

	return challenge
}

// CreateSubmission inserts a ledger row directly, bypassing the submit path
func CreateSubmission(t *testing.T, db *gorm.DB, userID, challengeID string, correct bool, at time.Time) models.Submission {
	t.Helper()

	submission := models.Submission{
		UserID:        userID,
		ChallengeID:   challengeID,
		SubmittedFlag: "SEENAF{seed}",
		IsCorrect:     correct,
		SubmittedAt:   at,
	}
	if err := db.Create(&submission).Error; err != nil {
		t.Fatalf("failed to create submission: %v", err)
	}

	return submission
}

// AuthCookie returns the session cookie for a user, as the login handler sets it
func AuthCookie(t *testing.T, user models.User, role models.AppRole) *http.Cookie {
	t.Helper()

	token, err := utils.GenerateToken(user, role, false)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return &http.Cookie{Name: "auth_token", Value: token}
}
