package services

import (
	"errors"
	"time"

	"evaluation-management-api/models"

	"gorm.io/gorm"
)

// EvaluationService runs the submission workflow and serves stored
// evaluations with their score aggregates.
type EvaluationService struct {
	db        *gorm.DB
	settings  *SettingsService
	periods   *PeriodService
	questions *QuestionService
	now       func() time.Time
}

func NewEvaluationService(db *gorm.DB) *EvaluationService {
	return &EvaluationService{
		db:        db,
		settings:  NewSettingsService(db),
		periods:   NewPeriodService(db),
		questions: NewQuestionService(db),
		now:       time.Now,
	}
}

// SubmitInput is one evaluation submission. Selections maps question id
// to the chosen answer id; questions may be left out.
type SubmitInput struct {
	EmployeeID uint          `json:"employee_id"`
	Selections map[uint]uint `json:"selections"`
	Notes      string        `json:"notes"`
}

// EvaluationSummary decorates an evaluation with its score aggregates.
type EvaluationSummary struct {
	models.Evaluation
	TotalScore   int     `json:"total_score"`
	AverageScore float64 `json:"average_score"`
}

// EvaluationFilter narrows List. Zero fields are ignored.
type EvaluationFilter struct {
	EmployeeID   uint
	SupervisorID uint
	PeriodID     uint
	Year         int
	Month        int
}

// Submit runs the whole submission workflow: access check, evaluation
// gate, active question load, answer binding and a single transaction
// that persists the evaluation with its response snapshots. A failure
// at any point leaves nothing behind.
func (s *EvaluationService) Submit(evaluatorID uint, input SubmitInput) (*EvaluationSummary, error) {
	if len(input.Notes) > 1000 {
		return nil, NewInvalidError("Notes must be at most 1000 characters")
	}

	var employee models.Employee
	if err := s.db.First(&employee, input.EmployeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Employee not found")
		}
		return nil, NewPersistenceError("Failed to load employee", err)
	}

	var evaluator models.Supervisor
	if err := s.db.First(&evaluator, evaluatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewForbiddenError("Evaluator account not found")
		}
		return nil, NewPersistenceError("Failed to load evaluator", err)
	}

	// Managers may evaluate anyone; supervisors only their own staff.
	if !evaluator.IsManager() && employee.SupervisorID != evaluator.SupervisorID {
		return nil, NewForbiddenError("You may only evaluate your own employees")
	}

	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}
	if !settings.EvaluationsEnabled {
		return nil, NewDisabledError("Evaluations are currently disabled")
	}

	questions, err := s.questions.ListActive()
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, NewNoQuestionsError("No evaluation questions are available")
	}

	now := s.now()
	period, err := s.periods.GetOrCreate(now.Year(), int(now.Month()))
	if err != nil {
		return nil, err
	}

	evaluation := models.Evaluation{
		SupervisorID: evaluator.SupervisorID,
		EmployeeID:   employee.EmployeeID,
		PeriodID:     &period.PeriodID,
		Year:         now.Year(),
		Month:        int(now.Month()),
		Notes:        input.Notes,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&evaluation).Error; err != nil {
			return err
		}

		for i := range questions {
			question := &questions[i]
			answerID, ok := input.Selections[question.QuestionID]
			if !ok || answerID == 0 {
				// Unanswered questions simply get no response row.
				continue
			}

			answer := findAnswer(question.Answers, answerID)
			if answer == nil {
				// The answer id does not belong to this question;
				// treat the question as unanswered.
				continue
			}

			response := models.EvaluationResponse{
				EvaluationID: evaluation.EvaluationID,
				QuestionID:   question.QuestionID,
				AnswerID:     answer.AnswerID,
				Score:        copyScore(answer.Score),
			}
			if err := tx.Create(&response).Error; err != nil {
				return err
			}
			evaluation.Responses = append(evaluation.Responses, response)
		}
		return nil
	})
	if err != nil {
		return nil, NewPersistenceError("Failed to save evaluation", err)
	}

	evaluation.Employee = &employee
	evaluation.Supervisor = &evaluator
	evaluation.Period = period
	return s.summarize(evaluation), nil
}

// Get loads one evaluation with everything a detail view needs.
func (s *EvaluationService) Get(evaluationID uint) (*EvaluationSummary, error) {
	var evaluation models.Evaluation
	err := s.db.Preload("Employee").
		Preload("Supervisor").
		Preload("Period").
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("response_id")
		}).
		Preload("Responses.Question").
		Preload("Responses.SelectedAnswer").
		First(&evaluation, evaluationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Evaluation not found")
		}
		return nil, NewPersistenceError("Failed to load evaluation", err)
	}
	return s.summarize(evaluation), nil
}

// List returns evaluations matching the filter, newest first, each with
// its score aggregates computed from the stored snapshots.
func (s *EvaluationService) List(filter EvaluationFilter) ([]EvaluationSummary, error) {
	query := s.db.Preload("Employee").
		Preload("Supervisor").
		Preload("Responses")

	if filter.EmployeeID != 0 {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.SupervisorID != 0 {
		query = query.Where("supervisor_id = ?", filter.SupervisorID)
	}
	if filter.PeriodID != 0 {
		query = query.Where("period_id = ?", filter.PeriodID)
	}
	if filter.Year != 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Month != 0 {
		query = query.Where("month = ?", filter.Month)
	}

	var evaluations []models.Evaluation
	if err := query.Order("created_at DESC, evaluation_id DESC").Find(&evaluations).Error; err != nil {
		return nil, NewPersistenceError("Failed to list evaluations", err)
	}

	summaries := make([]EvaluationSummary, 0, len(evaluations))
	for i := range evaluations {
		summaries = append(summaries, *s.summarize(evaluations[i]))
	}
	return summaries, nil
}

func (s *EvaluationService) summarize(evaluation models.Evaluation) *EvaluationSummary {
	return &EvaluationSummary{
		Evaluation:   evaluation,
		TotalScore:   evaluation.TotalScore(),
		AverageScore: evaluation.AverageScore(),
	}
}

func findAnswer(answers []models.QuestionAnswer, answerID uint) *models.QuestionAnswer {
	for i := range answers {
		if answers[i].AnswerID == answerID {
			return &answers[i]
		}
	}
	return nil
}

// copyScore snapshots an answer score so later bank edits cannot reach
// back into stored responses.
func copyScore(score *int) *int {
	if score == nil {
		return nil
	}
	v := *score
	return &v
}
