package database

import (
	"fmt"
	"log"

	"seenaf/config"
	"seenaf/models"
	"seenaf/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Bootstrap admin account created when the database is empty. This is the
// only way an admin role comes into existence outside of an audited grant.
var DefaultAdminUsername = "admin"
var DefaultAdminEmail = "admin@seenaf.io"
var DefaultPassword = "admin"

// InitDB initializes the database connection, migrates the models and populates the database with default values if needed
func InitDB() {
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable TimeZone=UTC",
		config.PostgresHost, config.PostgresPort, config.PostgresUser, config.PostgresDB, config.PostgresPassword)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("failed to migrate database: ", err)
	}

	Populate()
}

// Migrate runs the schema migration and creates the constraints that gorm
// tags cannot express. The partial unique index is the atomic guard against
// two concurrent correct submissions for the same (user, challenge) pair.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.RoleAssignment{},
		&models.Challenge{},
		&models.Submission{},
		&models.AuditEntry{},
		&models.PasswordReset{},
	)
	if err != nil {
		return err
	}

	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_submissions_one_correct
		ON submissions (user_id, challenge_id) WHERE is_correct`).Error
}

// Populate seeds the bootstrap admin account if the database holds no users
func Populate() {
	var countUser int64
	DB.Model(&models.User{}).Count(&countUser)
	if countUser != 0 {
		return
	}

	password := DefaultPassword
	if config.DefaultPassword != "" {
		password = config.DefaultPassword
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		panic(err)
	}

	user := models.User{
		Username: DefaultAdminUsername,
		Email:    DefaultAdminEmail,
		Password: hashed,
	}
	if err := DB.Create(&user).Error; err != nil {
		log.Fatal("failed to create default admin user: ", err)
	}

	assignment := models.RoleAssignment{
		UserID: user.ID,
		Role:   models.RoleAdmin,
	}
	if err := DB.Create(&assignment).Error; err != nil {
		log.Fatal("failed to assign default admin role: ", err)
	}

	log.Println("Default admin user created")
}
