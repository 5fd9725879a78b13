package database

import (
	"fmt"
	"log"

	"github.com/deltanitt/clubs-api/internal/config"
	"github.com/deltanitt/clubs-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return nil
}

func Migrate() error {
	log.Println("Running database migrations...")
	err := DB.AutoMigrate(
		&models.User{},
		&models.Club{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ClubPrivilege{},
		&models.ProjectPrivilege{},
		&models.ClubMembership{},
		&models.ProjectMembership{},
		&models.UserSession{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := SeedPrivileges(DB); err != nil {
		return fmt.Errorf("failed to seed privilege catalogs: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// SeedPrivileges inserts the View/Admin catalog rows for both resource
// kinds if they are missing. Idempotent.
func SeedPrivileges(db *gorm.DB) error {
	levels := []struct {
		Code models.PrivilegeLevel
		Name string
	}{
		{models.PrivilegeView, "View"},
		{models.PrivilegeAdmin, "Admin"},
	}

	for _, l := range levels {
		if err := db.Where(models.ClubPrivilege{Code: l.Code}).
			FirstOrCreate(&models.ClubPrivilege{Code: l.Code, Name: l.Name}).Error; err != nil {
			return err
		}
		if err := db.Where(models.ProjectPrivilege{Code: l.Code}).
			FirstOrCreate(&models.ProjectPrivilege{Code: l.Code, Name: l.Name}).Error; err != nil {
			return err
		}
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
