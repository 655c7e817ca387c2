package controllers

import (
	"net/http"

	"evaluation-management-api/config"
	"evaluation-management-api/services"

	"github.com/gin-gonic/gin"
)

func settingsService() *services.SettingsService {
	return services.NewSettingsService(config.DB)
}

// GetSettings returns the global system settings.
func GetSettings(c *gin.Context) {
	settings, err := settingsService().Get()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"settings": settings,
	})
}

// ToggleEvaluations flips the evaluation gate.
func ToggleEvaluations(c *gin.Context) {
	settings, err := settingsService().ToggleEvaluations()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	status := "disabled"
	if settings.EvaluationsEnabled {
		status = "enabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"settings": settings,
		"message":  "Evaluations " + status,
	})
}
