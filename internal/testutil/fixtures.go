package testutil

import (
	"testing"

	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/utils"
	"gorm.io/gorm"
)

// CreateTestUser inserts a user with a real argon2id password hash.
func CreateTestUser(t *testing.T, db *gorm.DB, email, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		IsAdmin:      models.RoleGrantsAdmin(role),
		IsSuperadmin: role == models.RoleSuperadmin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// DefaultTestUser inserts a regular member account.
func DefaultTestUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "test@example.com", "Test123456", models.RoleUser)
}

// DefaultAdminUser inserts an admin account.
func DefaultAdminUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "admin@example.com", "Admin123456", models.RoleAdmin)
}

// DefaultSuperadminUser inserts the club owner account.
func DefaultSuperadminUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "owner@example.com", "Owner123456", models.RoleSuperadmin)
}
