package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"evaluation-management-api/config"
	"evaluation-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetPeriods lists every evaluation period, newest first, for the
// export picker.
func GetPeriods(c *gin.Context) {
	periods, err := services.NewPeriodService(config.DB).List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"periods": periods,
	})
}

// ExportEvaluations streams a period report as a download. The format
// query selects csv (default) or xlsx.
func ExportEvaluations(c *gin.Context) {
	periodID, err := strconv.ParseUint(c.Param("period_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid period ID"})
		return
	}

	exportService := services.NewExportService(config.DB)

	var export *services.Export
	var svcErr error
	switch format := c.DefaultQuery("format", "csv"); format {
	case "csv":
		export, svcErr = exportService.BuildPeriodCSV(uint(periodID))
	case "xlsx":
		export, svcErr = exportService.BuildPeriodXLSX(uint(periodID))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unsupported export format"})
		return
	}
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
