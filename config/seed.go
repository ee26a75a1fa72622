package config

import (
	"errors"
	"log"

	"myanmar-travel/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@myanmartravel.local"
	defaultAdminPassword = "admin123"
)

type SeedOptions struct {
	// AdminPassword comes from ADMIN_PASSWORD. Empty falls back to the
	// development default, except in release mode.
	AdminPassword string
	Release       bool
}

// adminPassword picks the password for a freshly seeded admin. ok is false
// when no admin should be created.
func (o SeedOptions) adminPassword() (password string, ok bool) {
	if o.AdminPassword != "" {
		return o.AdminPassword, true
	}
	if o.Release {
		return "", false
	}
	return defaultAdminPassword, true
}

// SeedDatabase ensures the default admin account and site settings exist.
// Catalogue data is seeded separately by the seed command.
func SeedDatabase(db *gorm.DB, opts SeedOptions) {
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)
	password, ok := opts.adminPassword()
	switch {
	case adminCount > 0:
	case !ok:
		log.Println("❌ ADMIN_PASSWORD not set in release mode; no admin account seeded")
	default:
		if opts.AdminPassword == "" {
			log.Printf("⚠️  seeding admin %q with the default password; set ADMIN_PASSWORD", DefaultAdminUsername)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.User{
				Username: DefaultAdminUsername,
				Email:    DefaultAdminEmail,
				FullName: "Site Administrator",
				Password: string(hash),
				Role:     models.RoleAdmin,
			}
			if err := db.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	var setting models.SiteSetting
	err := db.First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.DefaultSiteSetting()
		if err := db.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed site settings: %v", err)
		} else {
			log.Println("Site settings seeded")
		}
	} else if err != nil {
		log.Printf("warning: reading site settings: %v", err)
	}
}
