// Admin recovery tool. Resets one account's password directly in the
// database, for when the email based reset flow is unavailable.
// cmd/reset-password/main.go
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"evaluation-management-api/config"
	"evaluation-management-api/models"
	"evaluation-management-api/utils"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var (
		email    string
		password string
	)
	flag.StringVar(&email, "email", "", "email of the account to reset")
	flag.StringVar(&password, "password", "", "new password (generated when omitted)")
	flag.Parse()

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		log.Fatal("usage: reset-password -email <address> [-password <secret>]")
	}

	generated := false
	if password == "" {
		password = strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		generated = true
	}
	if len(password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	// Initialize database
	config.InitDB()

	var supervisor models.Supervisor
	if err := config.DB.Where("email = ?", email).First(&supervisor).Error; err != nil {
		log.Fatalf("No account found for %s", email)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if err := config.DB.Model(&supervisor).Update("password_hash", hashed).Error; err != nil {
		log.Fatalf("Failed to update password for %s: %v", email, err)
	}

	log.Printf("Password updated for %s (%s)\n", supervisor.Name, supervisor.Email)
	if generated {
		fmt.Printf("Generated password: %s\n", password)
	}
}
