package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"evaluation-management-api/models"

	"gorm.io/gorm"
)

// RosterService ingests employee roster CSV files. Each row is
// (name, employee code, supervisor email); extra columns are ignored.
type RosterService struct {
	db *gorm.DB
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{db: db}
}

// RosterRowError reports why one row was rejected. Row numbers are
// 1-based and count the header line.
type RosterRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// RosterImportResult summarizes an import run.
type RosterImportResult struct {
	Imported int              `json:"imported"`
	Errors   []RosterRowError `json:"errors"`
}

// Import parses the roster, validates rows one by one and commits the
// accepted ones in a single transaction. A rejected row never blocks
// the rest of the file.
func (s *RosterService) Import(r io.Reader) (*RosterImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, NewInvalidError("Could not parse CSV file")
	}

	result := &RosterImportResult{Errors: []RosterRowError{}}
	pending := make([]models.Employee, 0, len(rows))
	pendingCodes := make(map[string]bool, len(rows))

	for i, row := range rows {
		rowNum := i + 1
		if i == 0 && len(row) > 0 && strings.Contains(row[0], "Name") {
			continue
		}
		if len(row) < 3 {
			result.Errors = append(result.Errors, RosterRowError{Row: rowNum, Message: "Not enough columns"})
			continue
		}

		name := strings.TrimSpace(row[0])
		code := strings.TrimSpace(row[1])
		supervisorEmail := strings.TrimSpace(row[2])

		var supervisor models.Supervisor
		if err := s.db.Where("email = ?", supervisorEmail).First(&supervisor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.Errors = append(result.Errors, RosterRowError{
					Row:     rowNum,
					Message: fmt.Sprintf("Supervisor %s not found", supervisorEmail),
				})
				continue
			}
			return nil, NewPersistenceError("Failed to look up supervisor", err)
		}

		duplicate := pendingCodes[code]
		if !duplicate {
			var count int64
			if err := s.db.Model(&models.Employee{}).Where("employee_code = ?", code).Count(&count).Error; err != nil {
				return nil, NewPersistenceError("Failed to check employee code", err)
			}
			duplicate = count > 0
		}
		if duplicate {
			result.Errors = append(result.Errors, RosterRowError{
				Row:     rowNum,
				Message: fmt.Sprintf("Code %s already exists", code),
			})
			continue
		}

		pendingCodes[code] = true
		pending = append(pending, models.Employee{
			Name:         name,
			EmployeeCode: code,
			SupervisorID: supervisor.SupervisorID,
		})
	}

	if len(pending) > 0 {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			for i := range pending {
				if err := tx.Create(&pending[i]).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, NewPersistenceError("Failed to import employees", err)
		}
		result.Imported = len(pending)
	}

	return result, nil
}
