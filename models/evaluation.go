package models

import "time"

// Evaluation is one submitted assessment of an employee. Year and month
// are stamped at submission time alongside the resolved period so the
// record stays filterable even if periods are ever rebuilt.
type Evaluation struct {
	EvaluationID uint      `gorm:"primaryKey;column:evaluation_id" json:"evaluation_id"`
	SupervisorID uint      `gorm:"column:supervisor_id;not null;index" json:"supervisor_id"`
	EmployeeID   uint      `gorm:"column:employee_id;not null;index" json:"employee_id"`
	PeriodID     *uint     `gorm:"column:period_id;index" json:"period_id,omitempty"`
	Year         int       `gorm:"column:year;not null;index:idx_evaluations_year_month" json:"year"`
	Month        int       `gorm:"column:month;not null;index:idx_evaluations_year_month" json:"month"`
	Notes        string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`

	Supervisor *Supervisor          `gorm:"foreignKey:SupervisorID;constraint:OnDelete:CASCADE" json:"supervisor,omitempty"`
	Employee   *Employee            `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"employee,omitempty"`
	Period     *EvaluationPeriod    `gorm:"foreignKey:PeriodID" json:"period,omitempty"`
	Responses  []EvaluationResponse `gorm:"foreignKey:EvaluationID" json:"responses,omitempty"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

// TotalScore sums the response score snapshots. Unscored responses
// count as zero.
func (e *Evaluation) TotalScore() int {
	total := 0
	for i := range e.Responses {
		if e.Responses[i].Score != nil {
			total += *e.Responses[i].Score
		}
	}
	return total
}

// AverageScore divides the total over the scored responses only; a
// response whose answer carried no score widens neither side. An
// evaluation without scored responses averages to zero.
func (e *Evaluation) AverageScore() float64 {
	scored := 0
	for i := range e.Responses {
		if e.Responses[i].Score != nil {
			scored++
		}
	}
	if scored == 0 {
		return 0
	}
	return float64(e.TotalScore()) / float64(scored)
}

// EvaluationResponse records the answer a supervisor picked for one
// question. Score is copied from the answer at submission time and is
// never recomputed, so later edits to the bank cannot rewrite history.
type EvaluationResponse struct {
	ResponseID   uint      `gorm:"primaryKey;column:response_id" json:"response_id"`
	EvaluationID uint      `gorm:"column:evaluation_id;not null;uniqueIndex:uq_responses_evaluation_question" json:"evaluation_id"`
	QuestionID   uint      `gorm:"column:question_id;not null;index;uniqueIndex:uq_responses_evaluation_question" json:"question_id"`
	AnswerID     uint      `gorm:"column:answer_id;not null;index" json:"answer_id"`
	Score        *int      `gorm:"column:score" json:"score"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`

	Evaluation     *Evaluation         `gorm:"foreignKey:EvaluationID;constraint:OnDelete:CASCADE" json:"-"`
	Question       *EvaluationQuestion `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"question,omitempty"`
	SelectedAnswer *QuestionAnswer     `gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE" json:"selected_answer,omitempty"`
}

func (EvaluationResponse) TableName() string {
	return "evaluation_responses"
}
