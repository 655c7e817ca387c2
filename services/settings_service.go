package services

import (
	"errors"

	"evaluation-management-api/models"

	"gorm.io/gorm"
)

// SettingsService manages the single system settings row.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the settings row, creating it with evaluations enabled on
// first access. Two concurrent first calls race on the fixed primary
// key; the loser re-reads the row the winner inserted.
func (s *SettingsService) Get() (*models.SystemSettings, error) {
	var settings models.SystemSettings
	err := s.db.First(&settings, models.SystemSettingsID).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NewPersistenceError("Failed to load system settings", err)
	}

	settings = models.SystemSettings{
		SettingsID:         models.SystemSettingsID,
		EvaluationsEnabled: true,
	}
	if createErr := s.db.Create(&settings).Error; createErr != nil {
		if !isDuplicateKeyError(createErr) {
			return nil, NewPersistenceError("Failed to initialize system settings", createErr)
		}
		if readErr := s.db.First(&settings, models.SystemSettingsID).Error; readErr != nil {
			return nil, NewPersistenceError("Failed to load system settings", readErr)
		}
	}
	return &settings, nil
}

// ToggleEvaluations flips the evaluation gate and returns the new state.
func (s *SettingsService) ToggleEvaluations() (*models.SystemSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	settings.EvaluationsEnabled = !settings.EvaluationsEnabled
	if err := s.db.Model(settings).Update("evaluations_enabled", settings.EvaluationsEnabled).Error; err != nil {
		return nil, NewPersistenceError("Failed to update system settings", err)
	}
	return settings, nil
}

// SetEvaluationsEnabled forces the gate to a known state.
func (s *SettingsService) SetEvaluationsEnabled(enabled bool) (*models.SystemSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	if settings.EvaluationsEnabled == enabled {
		return settings, nil
	}

	settings.EvaluationsEnabled = enabled
	if err := s.db.Model(settings).Update("evaluations_enabled", enabled).Error; err != nil {
		return nil, NewPersistenceError("Failed to update system settings", err)
	}
	return settings, nil
}
