package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"evaluation-management-api/config"
	"evaluation-management-api/models"
	"evaluation-management-api/services"
	"evaluation-management-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func staffService() *services.StaffService {
	return services.NewStaffService(config.DB)
}

// GetSupervisors lists every supervisor account with their staff.
func GetSupervisors(c *gin.Context) {
	var supervisors []models.Supervisor
	if err := config.DB.Preload("Employees").Order("name").Find(&supervisors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch supervisors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"supervisors": supervisors,
	})
}

// GetSupervisor returns one supervisor with their staff.
func GetSupervisor(c *gin.Context) {
	supervisorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid supervisor ID"})
		return
	}

	var supervisor models.Supervisor
	if err := config.DB.Preload("Employees").First(&supervisor, supervisorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Supervisor not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"supervisor": supervisor,
	})
}

// CreateSupervisor registers a supervisor account and emails the
// generated starting password. The account works even when the mail
// cannot be delivered; the manager can set a password by hand.
func CreateSupervisor(c *gin.Context) {
	var input services.SupervisorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	input.Email = utils.SanitizeInput(input.Email)
	if !utils.EmailDomainAllowed(input.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Please use a company email address"})
		return
	}

	tempPassword := generateTempPassword()
	hashed, err := utils.HashPassword(tempPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create supervisor"})
		return
	}

	supervisor, svcErr := staffService().CreateSupervisor(input, hashed, c.GetUint("supervisorID"))
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	emailSent := true
	if err := sendWelcomeEmail(*supervisor, tempPassword); err != nil {
		emailSent = false
		log.Printf("Warning: could not send welcome email to %s: %v", supervisor.Email, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"supervisor": supervisor,
		"email_sent": emailSent,
		"message":    "Supervisor created",
	})
}

// UpdateSupervisor rewrites a supervisor's name and email.
func UpdateSupervisor(c *gin.Context) {
	supervisorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid supervisor ID"})
		return
	}

	var input services.SupervisorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	input.Email = utils.SanitizeInput(input.Email)
	if !utils.EmailDomainAllowed(input.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Please use a company email address"})
		return
	}

	supervisor, svcErr := staffService().UpdateSupervisor(uint(supervisorID), input)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"supervisor": supervisor,
		"message":    "Supervisor updated",
	})
}

// SetSupervisorPassword lets the manager reset any account's password.
func SetSupervisorPassword(c *gin.Context) {
	supervisorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid supervisor ID"})
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	if valid, message := utils.ValidatePassword(req.Password); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update password"})
		return
	}

	if svcErr := staffService().SetPassword(uint(supervisorID), hashed); svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated",
	})
}

// DeleteSupervisor removes an account and everything hanging off it.
func DeleteSupervisor(c *gin.Context) {
	supervisorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid supervisor ID"})
		return
	}

	if svcErr := staffService().DeleteSupervisor(uint(supervisorID), c.GetUint("supervisorID")); svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Supervisor deleted",
	})
}

// generateTempPassword builds a random starting password.
func generateTempPassword() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:12]
}

func sendWelcomeEmail(supervisor models.Supervisor, tempPassword string) error {
	subject := "Your evaluation system account"
	paragraphs := []string{
		fmt.Sprintf("Hello %s,", supervisor.Name),
		"An account has been created for you in the employee evaluation system.",
		"Sign in with the credentials below and change the password right away.",
	}
	meta := []emailMetaItem{
		{Label: "Email", Value: supervisor.Email},
		{Label: "Starting password", Value: tempPassword},
	}

	html := buildEmailTemplate(subject, paragraphs, meta, "", "", "")
	return sendMailFunc([]string{supervisor.Email}, subject, html)
}
