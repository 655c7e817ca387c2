package services

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"evaluation-management-api/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// utf8BOM makes spreadsheet applications detect the CSV as UTF-8.
const utf8BOM = "\ufeff"

// ExportService renders period reports from stored score snapshots.
// Exports never write back to the database.
type ExportService struct {
	db      *gorm.DB
	periods *PeriodService
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db, periods: NewPeriodService(db)}
}

// Export is a rendered report ready to be served as a download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BuildPeriodCSV renders one period as CSV. The header holds the three
// employee columns followed by every question ever created, in display
// order, so months with different active sets still line up. Cells hold
// the selected answer text, or stay empty where a question went
// unanswered.
func (s *ExportService) BuildPeriodCSV(periodID uint) (*Export, error) {
	period, rows, err := s.loadPeriodReport(periodID)
	if err != nil {
		return nil, err
	}

	data, err := renderCSV(rows)
	if err != nil {
		return nil, err
	}

	return &Export{
		Filename:    fmt.Sprintf("evaluations_%d_%02d.csv", period.Year, period.Month),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

// BuildPeriodXLSX renders the same report as a spreadsheet workbook.
func (s *ExportService) BuildPeriodXLSX(periodID uint) (*Export, error) {
	period, rows, err := s.loadPeriodReport(periodID)
	if err != nil {
		return nil, err
	}

	data, err := renderXLSX(rows)
	if err != nil {
		return nil, err
	}

	return &Export{
		Filename:    fmt.Sprintf("evaluations_%d_%02d.xlsx", period.Year, period.Month),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

func (s *ExportService) loadPeriodReport(periodID uint) (*models.EvaluationPeriod, [][]string, error) {
	period, err := s.periods.Get(periodID)
	if err != nil {
		return nil, nil, err
	}

	// Columns cover the full question history, active or not.
	var questions []models.EvaluationQuestion
	if err := s.db.Order("order_index, question_id").Find(&questions).Error; err != nil {
		return nil, nil, NewPersistenceError("Failed to load questions for export", err)
	}

	var evaluations []models.Evaluation
	err = s.db.Where("period_id = ?", period.PeriodID).
		Preload("Employee").
		Preload("Supervisor").
		Preload("Responses.SelectedAnswer").
		Order("evaluation_id").
		Find(&evaluations).Error
	if err != nil {
		return nil, nil, NewPersistenceError("Failed to load evaluations for export", err)
	}

	return period, periodReportRows(questions, evaluations), nil
}

// periodReportRows lays out the report grid: one header row, then one
// row per evaluation with the selected answer text under each question
// column.
func periodReportRows(questions []models.EvaluationQuestion, evaluations []models.Evaluation) [][]string {
	header := make([]string, 0, 3+len(questions))
	header = append(header, "Employee Name", "Employee Code", "Supervisor Email")
	for i := range questions {
		header = append(header, questions[i].QuestionText)
	}

	rows := make([][]string, 0, 1+len(evaluations))
	rows = append(rows, header)
	for i := range evaluations {
		evaluation := &evaluations[i]

		answerText := make(map[uint]string, len(evaluation.Responses))
		for j := range evaluation.Responses {
			response := &evaluation.Responses[j]
			if response.SelectedAnswer != nil {
				answerText[response.QuestionID] = response.SelectedAnswer.AnswerText
			}
		}

		row := make([]string, 0, len(header))
		name, code, email := "", "", ""
		if evaluation.Employee != nil {
			name = evaluation.Employee.Name
			code = evaluation.Employee.EmployeeCode
		}
		if evaluation.Supervisor != nil {
			email = evaluation.Supervisor.Email
		}
		row = append(row, name, code, email)
		for j := range questions {
			row = append(row, answerText[questions[j].QuestionID])
		}
		rows = append(rows, row)
	}
	return rows
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	writer := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, NewPersistenceError("Failed to render CSV export", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, NewPersistenceError("Failed to render CSV export", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(rows [][]string) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Evaluations"
	file.SetSheetName("Sheet1", sheet)
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		if err := file.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &cells); err != nil {
			return nil, NewPersistenceError("Failed to render XLSX export", err)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, NewPersistenceError("Failed to render XLSX export", err)
	}
	return buf.Bytes(), nil
}
