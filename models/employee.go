package models

import "time"

// Employee is a staff member being evaluated. Employees never sign in;
// they exist only as evaluation subjects under one supervisor.
type Employee struct {
	EmployeeID   uint      `gorm:"primaryKey;column:employee_id" json:"employee_id"`
	Name         string    `gorm:"column:name;size:100;not null" json:"name"`
	EmployeeCode string    `gorm:"column:employee_code;size:20;uniqueIndex;not null" json:"employee_code"`
	SupervisorID uint      `gorm:"column:supervisor_id;not null;index" json:"supervisor_id"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`

	Supervisor  *Supervisor  `gorm:"foreignKey:SupervisorID;constraint:OnDelete:CASCADE" json:"supervisor,omitempty"`
	Evaluations []Evaluation `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (Employee) TableName() string {
	return "employees"
}
