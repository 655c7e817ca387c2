package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"evaluation-management-api/config"
	"evaluation-management-api/services"

	"github.com/gin-gonic/gin"
)

// ImportEmployees ingests an employee roster CSV uploaded as multipart
// "file". Accepted rows are committed together; rejected rows come back
// with their row numbers.
func ImportEmployees(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "A CSV file is required"})
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Only .csv files are supported"})
		return
	}
	if header.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "File exceeds the 5MB limit"})
		return
	}

	result, svcErr := services.NewRosterService(config.DB).Import(file)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imported": result.Imported,
		"errors":   result.Errors,
		"message":  importSummaryMessage(result),
	})
}

// GetImportTemplate serves a starter CSV in the column layout Import
// expects, with one sample row. Remove the sample before uploading.
func GetImportTemplate(c *gin.Context) {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")

	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"Name", "Employee Code", "Supervisor Email"})
	_ = writer.Write([]string{"Jane Cooper", "EMP001", "supervisor@example.com"})
	writer.Flush()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "employee_import_template.csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func importSummaryMessage(result *services.RosterImportResult) string {
	switch {
	case result.Imported > 0 && len(result.Errors) == 0:
		return "All rows imported"
	case result.Imported > 0:
		return "Imported with some rows rejected"
	case len(result.Errors) > 0:
		return "No rows imported"
	default:
		return "The file contained no data rows"
	}
}
