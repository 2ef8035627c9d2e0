package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"finflow/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Bootstraps an account from the command line, optionally seeding a first
// billing card so debts can be created right after login.
func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: go run ./cmd/create_user <username> <password> [card_name due_day]")
		os.Exit(2)
	}
	username := os.Args[1]
	password := os.Args[2]

	var cardName string
	var dueDay int
	if len(os.Args) >= 5 {
		cardName = os.Args[3]
		d, err := strconv.Atoi(os.Args[4])
		if err != nil || d < 1 || d > 31 {
			log.Fatalf("due_day must be 1-31, got %q", os.Args[4])
		}
		dueDay = d
	}

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	// ensure roles exist
	var role models.Role
	if err := db.Where("name = ?", "user").First(&role).Error; err != nil {
		// try to create
		role = models.Role{Name: "user", Description: "regular user"}
		db.Create(&role)
	}

	// check existing
	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", username, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	rid := role.ID
	user := models.User{Username: username, HashedPassword: hpw, RoleID: &rid}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	// create profile
	prof := models.Profile{UserID: user.ID, Name: username}
	if err := db.Create(&prof).Error; err != nil {
		log.Printf("warning: failed to create profile: %v", err)
	}
	fmt.Printf("created user %s id=%d\n", username, user.ID)

	if cardName != "" {
		card := models.Card{UserID: user.ID, Name: cardName, DueDay: dueDay}
		if err := db.Create(&card).Error; err != nil {
			log.Printf("warning: failed to create card %s: %v", cardName, err)
		} else {
			fmt.Printf("created card %s id=%d due_day=%d\n", cardName, card.ID, card.DueDay)
		}
	}
}
