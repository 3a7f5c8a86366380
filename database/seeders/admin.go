package seeders

import (
	"errors"
	"strings"

	"github.com/shashiranjanraj/grocery/app/models"
	"github.com/shashiranjanraj/grocery/config"
	"github.com/shashiranjanraj/grocery/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates an admin account from ADMIN_EMAIL and ADMIN_PASSWORD.
// It does nothing when either is unset or the email is already taken.
func SeedAdmin(db *gorm.DB) error {
	email := strings.ToLower(strings.TrimSpace(config.Get("ADMIN_EMAIL", "")))
	password := config.Get("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		return nil
	}
	if !auth.PasswordStrong(password) {
		return errors.New("ADMIN_PASSWORD does not meet the password rules")
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:     config.Get("ADMIN_NAME", "Administrator"),
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}).Error
}
