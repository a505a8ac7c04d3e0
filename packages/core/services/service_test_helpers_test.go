package services

import (
	"testing"

	authModels "auth/models"
	"core/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&authModels.User{},
		&authModels.RefreshToken{},
		&models.Organization{},
		&models.Team{},
		&models.Event{},
		&models.EventRegistration{},
		&models.Round{},
		&models.Group{},
		&models.Leaderboard{},
		&models.LeaderboardEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *authModels.User {
	t.Helper()

	user := &authModels.User{
		Email:    email,
		Username: email,
		Password: "hashed",
		Slug:     email,
		Verified: true,
		Enabled:  true,
		Roles:    authModels.GetDefaultRoles(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestOrg(t *testing.T, db *gorm.DB, ownerID uint) *models.Organization {
	t.Helper()

	org := &models.Organization{
		Name:    "Test Org",
		Slug:    "test-org",
		OwnerID: ownerID,
	}
	if err := db.Create(org).Error; err != nil {
		t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

func createTestTeam(t *testing.T, db *gorm.DB, name string, ownerID uint) *models.Team {
	t.Helper()

	team := &models.Team{
		TeamName: name,
		Slug:     name,
		OwnerID:  ownerID,
	}
	if err := db.Create(team).Error; err != nil {
		t.Fatalf("failed to create test team: %v", err)
	}
	return team
}
