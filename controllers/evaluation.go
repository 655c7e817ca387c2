package controllers

import (
	"net/http"
	"strconv"

	"evaluation-management-api/config"
	"evaluation-management-api/models"
	"evaluation-management-api/services"

	"github.com/gin-gonic/gin"
)

func evaluationService() *services.EvaluationService {
	return services.NewEvaluationService(config.DB)
}

type submitEvaluationRequest struct {
	Selections map[uint]uint `json:"selections"`
	Notes      string        `json:"notes"`
}

// SubmitEvaluation records an assessment of the employee in the URL.
// The whole workflow runs in the service; nothing is stored on failure.
func SubmitEvaluation(c *gin.Context) {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid employee ID"})
		return
	}

	var req submitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	supervisorID := c.GetUint("supervisorID")
	evaluation, svcErr := evaluationService().Submit(supervisorID, services.SubmitInput{
		EmployeeID: uint(employeeID),
		Selections: req.Selections,
		Notes:      req.Notes,
	})
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"evaluation": evaluation,
		"message":    "Evaluation submitted",
	})
}

// GetEvaluations lists evaluations newest first, filtered by query
// parameters. Managers see everything; supervisors only their own work.
func GetEvaluations(c *gin.Context) {
	filter := services.EvaluationFilter{
		EmployeeID:   parseUintQuery(c, "employee_id"),
		SupervisorID: parseUintQuery(c, "supervisor_id"),
		PeriodID:     parseUintQuery(c, "period_id"),
		Year:         parseIntQuery(c, "year"),
		Month:        parseIntQuery(c, "month"),
	}

	if c.GetString("role") != models.RoleManager {
		filter.SupervisorID = c.GetUint("supervisorID")
	}

	evaluations, err := evaluationService().List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"evaluations": evaluations,
		"total":       len(evaluations),
	})
}

// GetEvaluation returns one evaluation with responses, question texts
// and the score aggregates. Managers see any; supervisors their own.
func GetEvaluation(c *gin.Context) {
	evaluationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid evaluation ID"})
		return
	}

	evaluation, svcErr := evaluationService().Get(uint(evaluationID))
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	if c.GetString("role") != models.RoleManager && evaluation.SupervisorID != c.GetUint("supervisorID") {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"evaluation": evaluation,
	})
}

func parseUintQuery(c *gin.Context, name string) uint {
	value, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(value)
}

func parseIntQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}
