// Seeder for a fresh install. Creates the manager account and a
// starter question bank when the database is empty.
// cmd/seed/main.go
package main

import (
	"log"
	"os"

	"evaluation-management-api/config"
	"evaluation-management-api/models"
	"evaluation-management-api/utils"

	"github.com/joho/godotenv"
)

type seedAnswer struct {
	text  string
	score int
}

type seedQuestion struct {
	text    string
	answers []seedAnswer
}

var starterQuestions = []seedQuestion{
	{
		text: "How would you rate the employee's work quality?",
		answers: []seedAnswer{
			{"Excellent - Consistently exceeds expectations", 100},
			{"Good - Meets and sometimes exceeds expectations", 80},
			{"Satisfactory - Meets basic expectations", 60},
			{"Needs Improvement - Below expectations", 40},
			{"Unsatisfactory - Significantly below expectations", 20},
		},
	},
	{
		text: "How well does the employee collaborate with team members?",
		answers: []seedAnswer{
			{"Outstanding team player", 100},
			{"Good collaborator", 80},
			{"Adequate teamwork", 60},
			{"Limited collaboration", 40},
			{"Poor team player", 20},
		},
	},
	{
		text: "How effective is the employee's communication?",
		answers: []seedAnswer{
			{"Excellent communicator", 100},
			{"Good communication skills", 80},
			{"Adequate communication", 60},
			{"Needs improvement", 40},
			{"Poor communication", 20},
		},
	},
	{
		text: "Does the employee show initiative and proactivity?",
		answers: []seedAnswer{
			{"Highly proactive and self-motivated", 100},
			{"Shows good initiative", 80},
			{"Adequate initiative", 60},
			{"Limited initiative", 40},
			{"Lacks initiative", 20},
		},
	},
	{
		text: "How reliable and dependable is the employee?",
		answers: []seedAnswer{
			{"Extremely reliable", 100},
			{"Very dependable", 80},
			{"Generally reliable", 60},
			{"Somewhat unreliable", 40},
			{"Unreliable", 20},
		},
	},
}

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database (runs migrations)
	config.InitDB()

	seedManager()
	seedQuestions()

	log.Println("Seeding complete")
}

// seedManager creates the manager account unless one already exists.
func seedManager() {
	var count int64
	if err := config.DB.Model(&models.Supervisor{}).
		Where("role = ?", models.RoleManager).
		Count(&count).Error; err != nil {
		log.Fatal("Failed to check for manager account:", err)
	}
	if count > 0 {
		log.Println("Manager account already exists, skipping")
		return
	}

	email := envOrDefault("SEED_MANAGER_EMAIL", "manager@example.com")
	password := envOrDefault("SEED_MANAGER_PASSWORD", "password123")
	name := envOrDefault("SEED_MANAGER_NAME", "Grand Manager")

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash manager password:", err)
	}

	manager := models.Supervisor{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleManager,
	}
	if err := config.DB.Create(&manager).Error; err != nil {
		log.Fatal("Failed to create manager account:", err)
	}

	log.Printf("Manager login: %s / %s", email, password)
}

// seedQuestions loads the starter bank unless questions already exist.
func seedQuestions() {
	var count int64
	if err := config.DB.Model(&models.EvaluationQuestion{}).Count(&count).Error; err != nil {
		log.Fatal("Failed to check question bank:", err)
	}
	if count > 0 {
		log.Println("Question bank is not empty, skipping starter questions")
		return
	}

	for i, seed := range starterQuestions {
		question := models.EvaluationQuestion{
			QuestionText: seed.text,
			IsActive:     true,
			OrderIndex:   i + 1,
		}
		if err := config.DB.Create(&question).Error; err != nil {
			log.Fatal("Failed to create question:", err)
		}

		for j, answer := range seed.answers {
			score := answer.score
			row := models.QuestionAnswer{
				QuestionID: question.QuestionID,
				AnswerText: answer.text,
				Score:      &score,
				OrderIndex: j + 1,
			}
			if err := config.DB.Create(&row).Error; err != nil {
				log.Fatal("Failed to create answer:", err)
			}
		}
	}

	log.Printf("Created %d starter questions", len(starterQuestions))
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
