package main

import (
	"os"
	"strings"

	"finflow/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logger.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatalf("failed to connect postgres database: %v", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	// Ensure the roles master table exists first and seed it so users FK can be applied safely.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			logger.Warnf("migration warning (roles): %v", err)
		}
	}

	// Now migrate the rest (users will get FK to roles). Migrate models
	// individually so a failure on one doesn't block others.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.User{}); err != nil {
			logger.Warnf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.Profile{}); err != nil {
			logger.Warnf("migration warning (profiles): %v", err)
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			logger.Warnf("migration warning (refresh_tokens): %v", err)
		}
		if err := db.AutoMigrate(&models.Card{}); err != nil {
			logger.Warnf("migration warning (cards): %v", err)
		}
		if err := db.AutoMigrate(&models.Category{}); err != nil {
			logger.Warnf("migration warning (categories): %v", err)
		}
		if err := db.AutoMigrate(&models.Debt{}); err != nil {
			logger.Warnf("migration warning (debts): %v", err)
		}
		if err := db.AutoMigrate(&models.Installment{}); err != nil {
			logger.Warnf("migration warning (installments): %v", err)
		}
		if err := db.AutoMigrate(&models.Income{}); err != nil {
			logger.Warnf("migration warning (incomes): %v", err)
		}
		if err := db.AutoMigrate(&models.IncomeEntry{}); err != nil {
			logger.Warnf("migration warning (income_entries): %v", err)
		}
	}

	seedDB()
}

func seedDB() {
	// Ensure master roles exist
	roles := []models.Role{{Name: "administrator", Description: "full access"}, {Name: "user", Description: "regular user"}}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}

	// Check if admin user exists
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		// find administrator role id
		var role models.Role
		if err := db.Where("name = ?", "administrator").First(&role).Error; err != nil {
			logger.Warnf("failed to find administrator role: %v", err)
		}
		// Seed admin user
		rid := role.ID
		admin := models.User{
			Username: "admin",
			RoleID:   &rid,
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		logger.Info("Seeded admin user: username=admin, password=admin123")
	}
	// Ensure admin has a one-to-one profile
	var admin models.User
	if err := db.Where("username = ?", "admin").First(&admin).Error; err != nil {
		logger.Warnf("failed to find admin user after seeding: %v", err)
		return
	}
	var pcount int64
	db.Model(&models.Profile{}).Where("user_id = ?", admin.ID).Count(&pcount)
	if pcount == 0 {
		profile := models.Profile{UserID: admin.ID, Name: "Administrator", Email: "admin@example.com"}
		if err := db.Create(&profile).Error; err != nil {
			logger.Warnf("failed to create profile for admin: %v", err)
		}
	}
}
