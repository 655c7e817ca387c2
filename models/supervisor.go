package models

import "time"

const (
	RoleManager    = "manager"
	RoleSupervisor = "supervisor"
)

// Supervisor is an account that can sign in and submit evaluations.
// A supervisor with the manager role additionally administers the
// question bank, staff records and system settings.
type Supervisor struct {
	SupervisorID uint      `gorm:"primaryKey;column:supervisor_id" json:"supervisor_id"`
	Name         string    `gorm:"column:name;size:100;not null" json:"name"`
	Email        string    `gorm:"column:email;size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role         string    `gorm:"column:role;size:20;not null;default:supervisor" json:"role"`
	ManagerID    *uint     `gorm:"column:manager_id" json:"manager_id,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`

	Manager   *Supervisor `gorm:"foreignKey:ManagerID" json:"-"`
	Employees []Employee  `gorm:"foreignKey:SupervisorID" json:"employees,omitempty"`
}

func (Supervisor) TableName() string {
	return "supervisors"
}

func (s *Supervisor) IsManager() bool {
	return s.Role == RoleManager
}
