package controllers

import (
	"net/http"
	"strconv"

	"evaluation-management-api/config"
	"evaluation-management-api/models"
	"evaluation-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetEmployees lists employees. Managers see the whole roster,
// supervisors only their own staff.
func GetEmployees(c *gin.Context) {
	query := config.DB.Preload("Supervisor").Order("name")
	if c.GetString("role") != models.RoleManager {
		query = query.Where("supervisor_id = ?", c.GetUint("supervisorID"))
	}

	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch employees"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"employees": employees,
		"total":     len(employees),
	})
}

// GetEmployee returns one employee record.
func GetEmployee(c *gin.Context) {
	employee, ok := loadAccessibleEmployee(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"employee": employee,
	})
}

// GetEmployeeEvaluations lists an employee's evaluations with score
// aggregates, newest first.
func GetEmployeeEvaluations(c *gin.Context) {
	employee, ok := loadAccessibleEmployee(c)
	if !ok {
		return
	}

	evaluations, err := evaluationService().List(services.EvaluationFilter{EmployeeID: employee.EmployeeID})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"employee":    employee,
		"evaluations": evaluations,
		"total":       len(evaluations),
	})
}

// CreateEmployee adds a staff record under the supervisor in the URL.
func CreateEmployee(c *gin.Context) {
	supervisorID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid supervisor ID"})
		return
	}

	var input services.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	employee, svcErr := staffService().CreateEmployee(uint(supervisorID), input)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"employee": employee,
		"message":  "Employee created",
	})
}

// UpdateEmployee rewrites an employee's name and code.
func UpdateEmployee(c *gin.Context) {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid employee ID"})
		return
	}

	var input services.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request payload"})
		return
	}

	employee, svcErr := staffService().UpdateEmployee(uint(employeeID), input)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"employee": employee,
		"message":  "Employee updated",
	})
}

// DeleteEmployee removes an employee and their evaluation history.
func DeleteEmployee(c *gin.Context) {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid employee ID"})
		return
	}

	if svcErr := staffService().DeleteEmployee(uint(employeeID)); svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Employee deleted",
	})
}

// loadAccessibleEmployee reads :id, loads the employee and enforces
// that supervisors only reach their own staff. It writes the error
// response itself and reports success through the second return.
func loadAccessibleEmployee(c *gin.Context) (*models.Employee, bool) {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid employee ID"})
		return nil, false
	}

	var employee models.Employee
	if err := config.DB.Preload("Supervisor").First(&employee, employeeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Employee not found"})
		return nil, false
	}

	if c.GetString("role") != models.RoleManager && employee.SupervisorID != c.GetUint("supervisorID") {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Insufficient permissions"})
		return nil, false
	}

	return &employee, true
}
