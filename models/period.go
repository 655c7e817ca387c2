package models

import (
	"fmt"
	"time"
)

// EvaluationPeriod is one calendar month of evaluation activity.
// Rows are created lazily on first submission; (year, month) is unique.
type EvaluationPeriod struct {
	PeriodID  uint      `gorm:"primaryKey;column:period_id" json:"period_id"`
	Year      int       `gorm:"column:year;not null;uniqueIndex:uq_periods_year_month" json:"year"`
	Month     int       `gorm:"column:month;not null;uniqueIndex:uq_periods_year_month" json:"month"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (EvaluationPeriod) TableName() string {
	return "evaluation_periods"
}

// Label renders the period for pickers and reports, e.g. "March 2025".
func (p *EvaluationPeriod) Label() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
}
