package models

import "time"

// EvaluationQuestion is a manager-authored question in the bank.
// Inactive questions stay out of new evaluation forms but keep their
// historical responses and still appear as export columns.
type EvaluationQuestion struct {
	QuestionID   uint      `gorm:"primaryKey;column:question_id" json:"question_id"`
	QuestionText string    `gorm:"column:question_text;size:500;not null" json:"question_text"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	OrderIndex   int       `gorm:"column:order_index;not null;default:0" json:"order_index"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`

	Answers []QuestionAnswer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (EvaluationQuestion) TableName() string {
	return "evaluation_questions"
}

// QuestionAnswer is one selectable choice for a question. Score is
// optional; an unscored answer contributes nothing to totals.
type QuestionAnswer struct {
	AnswerID   uint      `gorm:"primaryKey;column:answer_id" json:"answer_id"`
	QuestionID uint      `gorm:"column:question_id;not null;index" json:"question_id"`
	AnswerText string    `gorm:"column:answer_text;size:200;not null" json:"answer_text"`
	Score      *int      `gorm:"column:score" json:"score"`
	OrderIndex int       `gorm:"column:order_index;not null;default:0" json:"order_index"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`

	Question *EvaluationQuestion `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (QuestionAnswer) TableName() string {
	return "question_answers"
}
