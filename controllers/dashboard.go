package controllers

import (
	"net/http"
	"time"

	"evaluation-management-api/config"
	"evaluation-management-api/models"
	"evaluation-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns dashboard statistics for the signed-in
// account. Managers get the organization-wide view, supervisors their
// own corner of it.
func GetDashboardStats(c *gin.Context) {
	supervisorID := c.GetUint("supervisorID")
	role := c.GetString("role")

	var stats map[string]interface{}
	if role == models.RoleManager {
		stats = getManagerDashboard()
	} else {
		stats = getSupervisorDashboard(supervisorID)
	}

	if stats == nil {
		stats = make(map[string]interface{})
	}
	stats["current_date"] = time.Now().Format("2006-01-02")

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// getManagerDashboard aggregates across the whole system.
func getManagerDashboard() map[string]interface{} {
	stats := make(map[string]interface{})

	var supervisorCount, employeeCount, evaluationCount, activeQuestionCount int64
	config.DB.Model(&models.Supervisor{}).Count(&supervisorCount)
	config.DB.Model(&models.Employee{}).Count(&employeeCount)
	config.DB.Model(&models.Evaluation{}).Count(&evaluationCount)
	config.DB.Model(&models.EvaluationQuestion{}).Where("is_active = ?", true).Count(&activeQuestionCount)

	stats["supervisors"] = supervisorCount
	stats["employees"] = employeeCount
	stats["evaluations"] = evaluationCount
	stats["active_questions"] = activeQuestionCount

	// Overall average: mean of per-evaluation averages, skipping
	// evaluations that have no responses at all.
	var evaluations []models.Evaluation
	if err := config.DB.Preload("Responses").Find(&evaluations).Error; err == nil {
		sum := 0.0
		counted := 0
		for i := range evaluations {
			if len(evaluations[i].Responses) == 0 {
				continue
			}
			sum += evaluations[i].AverageScore()
			counted++
		}
		average := 0.0
		if counted > 0 {
			average = sum / float64(counted)
		}
		stats["average_score"] = average
	}

	if recent, err := recentEvaluations(0); err == nil {
		stats["recent_evaluations"] = recent
	}

	if settings, err := services.NewSettingsService(config.DB).Get(); err == nil {
		stats["evaluations_enabled"] = settings.EvaluationsEnabled
	}

	if periods, err := services.NewPeriodService(config.DB).List(); err == nil {
		stats["periods"] = periods
	}

	return stats
}

// getSupervisorDashboard shows a supervisor their own staff and work.
func getSupervisorDashboard(supervisorID uint) map[string]interface{} {
	stats := make(map[string]interface{})

	var employeeCount, evaluationCount int64
	config.DB.Model(&models.Employee{}).Where("supervisor_id = ?", supervisorID).Count(&employeeCount)
	config.DB.Model(&models.Evaluation{}).Where("supervisor_id = ?", supervisorID).Count(&evaluationCount)

	stats["employees"] = employeeCount
	stats["evaluations"] = evaluationCount

	if recent, err := recentEvaluations(supervisorID); err == nil {
		stats["recent_evaluations"] = recent
	}

	if settings, err := services.NewSettingsService(config.DB).Get(); err == nil {
		stats["evaluations_enabled"] = settings.EvaluationsEnabled
	}

	return stats
}

// recentEvaluations returns the five newest evaluations, scoped to one
// supervisor when supervisorID is non-zero.
func recentEvaluations(supervisorID uint) ([]services.EvaluationSummary, error) {
	summaries, err := services.NewEvaluationService(config.DB).List(services.EvaluationFilter{
		SupervisorID: supervisorID,
	})
	if err != nil {
		return nil, err
	}
	if len(summaries) > 5 {
		summaries = summaries[:5]
	}
	return summaries, nil
}
