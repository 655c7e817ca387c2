package models

import "time"

// SystemSettingsID is the fixed primary key of the single settings row.
// Concurrent first writers collide on it and fall back to reading the
// row the winner inserted.
const SystemSettingsID = 1

// SystemSettings is the global configuration singleton. Today it only
// carries the evaluation gate.
type SystemSettings struct {
	SettingsID         uint      `gorm:"primaryKey;column:settings_id;autoIncrement:false" json:"-"`
	EvaluationsEnabled bool      `gorm:"column:evaluations_enabled;not null;default:true" json:"evaluations_enabled"`
	UpdatedAt          time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (SystemSettings) TableName() string {
	return "system_settings"
}
