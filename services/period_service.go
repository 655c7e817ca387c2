package services

import (
	"errors"
	"time"

	"evaluation-management-api/models"

	"gorm.io/gorm"
)

// PeriodService resolves calendar months to evaluation period rows.
type PeriodService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPeriodService(db *gorm.DB) *PeriodService {
	return &PeriodService{db: db, now: time.Now}
}

// GetOrCreateCurrent resolves the wall clock to this month's period,
// inserting the row on first use. Concurrent first submissions collide
// on the (year, month) unique index; the loser re-reads the winner's row.
func (s *PeriodService) GetOrCreateCurrent() (*models.EvaluationPeriod, error) {
	now := s.now()
	return s.GetOrCreate(now.Year(), int(now.Month()))
}

// GetOrCreate resolves an explicit year and month the same way.
func (s *PeriodService) GetOrCreate(year, month int) (*models.EvaluationPeriod, error) {
	if month < 1 || month > 12 {
		return nil, NewInvalidError("Month must be between 1 and 12")
	}

	var period models.EvaluationPeriod
	err := s.db.Where("year = ? AND month = ?", year, month).First(&period).Error
	if err == nil {
		return &period, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewPersistenceError("Failed to load evaluation period", err)
	}

	period = models.EvaluationPeriod{Year: year, Month: month}
	if createErr := s.db.Create(&period).Error; createErr != nil {
		if !isDuplicateKeyError(createErr) {
			return nil, NewPersistenceError("Failed to create evaluation period", createErr)
		}
		if readErr := s.db.Where("year = ? AND month = ?", year, month).First(&period).Error; readErr != nil {
			return nil, NewPersistenceError("Failed to load evaluation period", readErr)
		}
	}
	return &period, nil
}

// Get loads one period by id.
func (s *PeriodService) Get(periodID uint) (*models.EvaluationPeriod, error) {
	var period models.EvaluationPeriod
	if err := s.db.First(&period, periodID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Evaluation period not found")
		}
		return nil, NewPersistenceError("Failed to load evaluation period", err)
	}
	return &period, nil
}

// List returns every known period, newest first.
func (s *PeriodService) List() ([]models.EvaluationPeriod, error) {
	var periods []models.EvaluationPeriod
	if err := s.db.Order("year DESC, month DESC").Find(&periods).Error; err != nil {
		return nil, NewPersistenceError("Failed to list evaluation periods", err)
	}
	return periods, nil
}
