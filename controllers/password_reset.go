package controllers

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"evaluation-management-api/config"
	"evaluation-management-api/models"
	"evaluation-management-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	passwordResetTokenGenerator = func() (string, error) {
		return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", ""), nil
	}

	sendMailFunc                              = config.SendMail
	passwordResetRepo passwordResetRepository = &gormPasswordResetRepository{}
)

const passwordResetTokenTTL = 30 * time.Minute

type passwordResetRepository interface {
	FindSupervisorByEmail(email string) (*models.Supervisor, error)
	RevokeResetTokens(supervisorID uint, now time.Time) error
	CreateResetToken(token *models.PasswordResetToken) error
	FindActiveResetTokens(now time.Time) ([]models.PasswordResetToken, error)
	UpdateSupervisorPassword(supervisorID uint, hashedPassword string) error
	RevokeToken(tokenID uint, now time.Time) error
}

type gormPasswordResetRepository struct{}

func (r *gormPasswordResetRepository) FindSupervisorByEmail(email string) (*models.Supervisor, error) {
	var supervisor models.Supervisor
	if err := config.DB.Where("email = ?", email).First(&supervisor).Error; err != nil {
		return nil, err
	}
	return &supervisor, nil
}

func (r *gormPasswordResetRepository) RevokeResetTokens(supervisorID uint, now time.Time) error {
	if supervisorID == 0 {
		return nil
	}

	return config.DB.Model(&models.PasswordResetToken{}).
		Where("supervisor_id = ? AND is_revoked = ?", supervisorID, false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) CreateResetToken(token *models.PasswordResetToken) error {
	return config.DB.Create(token).Error
}

func (r *gormPasswordResetRepository) FindActiveResetTokens(now time.Time) ([]models.PasswordResetToken, error) {
	var tokens []models.PasswordResetToken
	err := config.DB.Where("is_revoked = ? AND expires_at > ?", false, now).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

func (r *gormPasswordResetRepository) UpdateSupervisorPassword(supervisorID uint, hashedPassword string) error {
	return config.DB.Model(&models.Supervisor{}).
		Where("supervisor_id = ?", supervisorID).
		Update("password_hash", hashedPassword).Error
}

func (r *gormPasswordResetRepository) RevokeToken(tokenID uint, now time.Time) error {
	return config.DB.Model(&models.PasswordResetToken{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPassword handles password reset token generation and email dispatch.
func ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid email format",
		})
		return
	}

	supervisor, err := passwordResetRepo.FindSupervisorByEmail(req.Email)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to process request",
			})
			return
		}

		// Always return success for non-existing accounts to avoid email enumeration.
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "If the email exists, a reset link has been sent.",
		})
		return
	}

	rawToken, err := passwordResetTokenGenerator()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to create reset token",
		})
		return
	}

	hashedToken, err := utils.HashPassword(rawToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to secure reset token",
		})
		return
	}

	now := time.Now()

	if err := passwordResetRepo.RevokeResetTokens(supervisor.SupervisorID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to prepare reset token",
		})
		return
	}

	token := models.PasswordResetToken{
		SupervisorID: supervisor.SupervisorID,
		TokenHash:    hashedToken,
		ExpiresAt:    now.Add(passwordResetTokenTTL),
		IsRevoked:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := passwordResetRepo.CreateResetToken(&token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to store reset token",
		})
		return
	}

	if err := sendPasswordResetEmail(*supervisor, rawToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to send reset email",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If the email exists, a reset link has been sent.",
	})
}

// ResetPassword handles password reset using a previously generated token.
func ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	req.Token = utils.SanitizeInput(req.Token)
	req.NewPassword = utils.SanitizeInput(req.NewPassword)
	req.ConfirmPassword = utils.SanitizeInput(req.ConfirmPassword)

	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Token is required",
		})
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Passwords do not match",
		})
		return
	}

	if valid, message := utils.ValidatePassword(req.NewPassword); !valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   message,
		})
		return
	}

	now := time.Now()
	tokenRecord, err := findActivePasswordResetToken(passwordResetRepo, req.Token, now)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid or expired token",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to verify token",
		})
		return
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to hash password",
		})
		return
	}

	if err := passwordResetRepo.UpdateSupervisorPassword(tokenRecord.SupervisorID, hashedPassword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to update password",
		})
		return
	}

	if err := passwordResetRepo.RevokeToken(tokenRecord.TokenID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to revoke token",
		})
		return
	}

	if err := passwordResetRepo.RevokeResetTokens(tokenRecord.SupervisorID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to finalize reset",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password updated successfully",
	})
}

func findActivePasswordResetToken(repo passwordResetRepository, rawToken string, now time.Time) (*models.PasswordResetToken, error) {
	tokens, err := repo.FindActiveResetTokens(now)
	if err != nil {
		return nil, err
	}

	for i := range tokens {
		if utils.CheckPasswordHash(rawToken, tokens[i].TokenHash) {
			return &tokens[i], nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func sendPasswordResetEmail(supervisor models.Supervisor, rawToken string) error {
	baseURL := strings.TrimSpace(os.Getenv("APP_BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	resetURL, err := buildResetURL(baseURL, rawToken)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(supervisor.Name)
	if name == "" {
		name = "there"
	}

	subject := "Password reset instructions"
	expiresIn := "30 minutes"
	paragraphs := []string{
		fmt.Sprintf("Hello %s,", name),
		"We received a request to reset the password for your evaluation system account.",
		fmt.Sprintf("Click the button below to choose a new password. The link expires in %s.", expiresIn),
		"If you did not make this request you can safely ignore this email.",
	}

	meta := []emailMetaItem{{
		Label: "Link expires in",
		Value: expiresIn,
	}}

	escapedResetURL := template.HTMLEscapeString(resetURL)
	footerHTML := fmt.Sprintf(
		"If the button does not work, copy this link into your browser:<br /><a href=\"%s\" style=\"color:#2563eb;\">%s</a>",
		escapedResetURL,
		escapedResetURL,
	)

	html := buildEmailTemplate(subject, paragraphs, meta, "Reset password", resetURL, footerHTML)
	return sendMailFunc([]string{supervisor.Email}, subject, html)
}

func buildResetURL(baseURL, token string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/reset-password"
	query := parsed.Query()
	query.Set("token", token)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
