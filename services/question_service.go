package services

import (
	"errors"

	"evaluation-management-api/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

// QuestionInput carries manager-supplied question fields. A nil
// IsActive means "default to active" on create and "leave as is" on
// update.
type QuestionInput struct {
	QuestionText string `json:"question_text" validate:"required,min=5,max=500"`
	IsActive     *bool  `json:"is_active"`
	OrderIndex   int    `json:"order_index"`
}

func (in *QuestionInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Field() == "QuestionText" {
			return NewInvalidError("Question text must be between 5 and 500 characters")
		}
		return NewInvalidError("Invalid question payload")
	}
	return nil
}

// AnswerInput carries manager-supplied answer fields for one question.
type AnswerInput struct {
	AnswerText string `json:"answer_text" validate:"required,min=1,max=200"`
	Score      *int   `json:"score" validate:"omitempty,min=0,max=100"`
	OrderIndex int    `json:"order_index"`
}

func (in *AnswerInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			switch fieldErrs[0].Field() {
			case "AnswerText":
				return NewInvalidError("Answer text must be between 1 and 200 characters")
			case "Score":
				return NewInvalidError("Score must be between 0 and 100")
			}
		}
		return NewInvalidError("Invalid answer payload")
	}
	return nil
}

// QuestionService owns the question bank: questions, their answer
// choices and the activation flag that controls what new evaluation
// forms show.
type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// ListActive returns the questions shown on a new evaluation form,
// ordered by display order, with their answer choices preloaded in
// display order too.
func (s *QuestionService) ListActive() ([]models.EvaluationQuestion, error) {
	var questions []models.EvaluationQuestion
	err := s.db.Where("is_active = ?", true).
		Order("order_index, question_id").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index, answer_id")
		}).
		Find(&questions).Error
	if err != nil {
		return nil, NewPersistenceError("Failed to load evaluation questions", err)
	}
	return questions, nil
}

// ListAll returns every question regardless of state, for the manager
// bank screen.
func (s *QuestionService) ListAll() ([]models.EvaluationQuestion, error) {
	var questions []models.EvaluationQuestion
	err := s.db.Order("order_index, question_id").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index, answer_id")
		}).
		Find(&questions).Error
	if err != nil {
		return nil, NewPersistenceError("Failed to load evaluation questions", err)
	}
	return questions, nil
}

// Get loads one question with its answers.
func (s *QuestionService) Get(questionID uint) (*models.EvaluationQuestion, error) {
	var question models.EvaluationQuestion
	err := s.db.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index, answer_id")
	}).First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Question not found")
		}
		return nil, NewPersistenceError("Failed to load question", err)
	}
	return &question, nil
}

// Create adds a question to the bank. New questions default to active.
func (s *QuestionService) Create(input QuestionInput) (*models.EvaluationQuestion, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	question := models.EvaluationQuestion{
		QuestionText: input.QuestionText,
		IsActive:     isActive,
		OrderIndex:   input.OrderIndex,
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, NewPersistenceError("Failed to create question", err)
	}
	return &question, nil
}

// Update rewrites a question's text, order and activation flag.
// Stored response snapshots are untouched.
func (s *QuestionService) Update(questionID uint, input QuestionInput) (*models.EvaluationQuestion, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	question, err := s.Get(questionID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"question_text": input.QuestionText,
		"order_index":   input.OrderIndex,
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if err := s.db.Model(question).Updates(updates).Error; err != nil {
		return nil, NewPersistenceError("Failed to update question", err)
	}
	return s.Get(questionID)
}

// Delete removes a question together with its answers and every stored
// response that referenced it, in one transaction. Past evaluations
// keep their other responses.
func (s *QuestionService) Delete(questionID uint) error {
	if _, err := s.Get(questionID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&models.EvaluationResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.QuestionAnswer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.EvaluationQuestion{}, questionID).Error
	})
	if err != nil {
		return NewPersistenceError("Failed to delete question", err)
	}
	return nil
}

// AddAnswer appends an answer choice to a question.
func (s *QuestionService) AddAnswer(questionID uint, input AnswerInput) (*models.QuestionAnswer, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.Get(questionID); err != nil {
		return nil, err
	}

	answer := models.QuestionAnswer{
		QuestionID: questionID,
		AnswerText: input.AnswerText,
		Score:      input.Score,
		OrderIndex: input.OrderIndex,
	}
	if err := s.db.Create(&answer).Error; err != nil {
		return nil, NewPersistenceError("Failed to create answer", err)
	}
	return &answer, nil
}

// UpdateAnswer rewrites an answer's text, score and order. Snapshots
// already taken from it keep the old score.
func (s *QuestionService) UpdateAnswer(answerID uint, input AnswerInput) (*models.QuestionAnswer, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var answer models.QuestionAnswer
	if err := s.db.First(&answer, answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Answer not found")
		}
		return nil, NewPersistenceError("Failed to load answer", err)
	}

	updates := map[string]interface{}{
		"answer_text": input.AnswerText,
		"score":       input.Score,
		"order_index": input.OrderIndex,
	}
	if err := s.db.Model(&answer).Updates(updates).Error; err != nil {
		return nil, NewPersistenceError("Failed to update answer", err)
	}
	return &answer, nil
}

// DeleteAnswer removes an answer choice and the stored responses that
// selected it, in one transaction.
func (s *QuestionService) DeleteAnswer(answerID uint) error {
	var answer models.QuestionAnswer
	if err := s.db.First(&answer, answerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Answer not found")
		}
		return NewPersistenceError("Failed to load answer", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", answerID).Delete(&models.EvaluationResponse{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.QuestionAnswer{}, answerID).Error
	})
	if err != nil {
		return NewPersistenceError("Failed to delete answer", err)
	}
	return nil
}
