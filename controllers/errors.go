package controllers

import (
	"log"
	"net/http"

	"evaluation-management-api/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error to its HTTP status. Gate and
// empty-bank rejections surface as 409 so clients can tell "retry
// later" apart from bad input.
func respondServiceError(c *gin.Context, err error) {
	svcErr, ok := services.AsServiceError(err)
	if !ok {
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal server error",
		})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Code {
	case services.ErrCodeInvalid:
		status = http.StatusBadRequest
	case services.ErrCodeForbidden:
		status = http.StatusForbidden
	case services.ErrCodeNotFound:
		status = http.StatusNotFound
	case services.ErrCodeDisabled, services.ErrCodeNoQuestions:
		status = http.StatusConflict
	case services.ErrCodePersistence:
		log.Printf("persistence error: %v", svcErr.Unwrap())
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   svcErr.Message,
		"code":    string(svcErr.Code),
	})
}
