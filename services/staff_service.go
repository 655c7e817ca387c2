package services

import (
	"errors"

	"evaluation-management-api/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// SupervisorInput carries manager-supplied supervisor account fields.
type SupervisorInput struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email,max=120"`
}

func (in *SupervisorInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			switch fieldErrs[0].Field() {
			case "Name":
				return NewInvalidError("Name must be between 2 and 100 characters")
			case "Email":
				return NewInvalidError("A valid email address is required")
			}
		}
		return NewInvalidError("Invalid supervisor payload")
	}
	return nil
}

// EmployeeInput carries staff record fields.
type EmployeeInput struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	EmployeeCode string `json:"employee_code" validate:"required,min=3,max=20"`
}

func (in *EmployeeInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			switch fieldErrs[0].Field() {
			case "Name":
				return NewInvalidError("Name must be between 2 and 100 characters")
			case "EmployeeCode":
				return NewInvalidError("Employee code must be between 3 and 20 characters")
			}
		}
		return NewInvalidError("Invalid employee payload")
	}
	return nil
}

// StaffService owns supervisor accounts and employee records, including
// the transactional cascades their deletion requires.
type StaffService struct {
	db *gorm.DB
}

func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{db: db}
}

// CreateSupervisor registers a supervisor account under the acting
// manager. The caller supplies the already-hashed initial password.
func (s *StaffService) CreateSupervisor(input SupervisorInput, passwordHash string, managerID uint) (*models.Supervisor, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if taken, err := s.emailTaken(input.Email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, NewInvalidError("Email already registered")
	}

	supervisor := models.Supervisor{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleSupervisor,
		ManagerID:    &managerID,
	}
	if err := s.db.Create(&supervisor).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, NewInvalidError("Email already registered")
		}
		return nil, NewPersistenceError("Failed to create supervisor", err)
	}
	return &supervisor, nil
}

// UpdateSupervisor rewrites a supervisor's name and email.
func (s *StaffService) UpdateSupervisor(supervisorID uint, input SupervisorInput) (*models.Supervisor, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	supervisor, err := s.GetSupervisor(supervisorID)
	if err != nil {
		return nil, err
	}
	if taken, err := s.emailTaken(input.Email, supervisorID); err != nil {
		return nil, err
	} else if taken {
		return nil, NewInvalidError("Email already registered")
	}

	updates := map[string]interface{}{
		"name":  input.Name,
		"email": input.Email,
	}
	if err := s.db.Model(supervisor).Updates(updates).Error; err != nil {
		return nil, NewPersistenceError("Failed to update supervisor", err)
	}
	return supervisor, nil
}

// SetPassword stores a new password hash for a supervisor.
func (s *StaffService) SetPassword(supervisorID uint, passwordHash string) error {
	supervisor, err := s.GetSupervisor(supervisorID)
	if err != nil {
		return err
	}
	if err := s.db.Model(supervisor).Update("password_hash", passwordHash).Error; err != nil {
		return NewPersistenceError("Failed to update password", err)
	}
	return nil
}

// GetSupervisor loads one supervisor by id.
func (s *StaffService) GetSupervisor(supervisorID uint) (*models.Supervisor, error) {
	var supervisor models.Supervisor
	if err := s.db.First(&supervisor, supervisorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Supervisor not found")
		}
		return nil, NewPersistenceError("Failed to load supervisor", err)
	}
	return &supervisor, nil
}

// DeleteSupervisor removes a supervisor account together with their
// employees, every evaluation they wrote or that covers their staff,
// and the response rows underneath, all in one transaction. Actors
// cannot delete themselves.
func (s *StaffService) DeleteSupervisor(supervisorID, actorID uint) error {
	if supervisorID == actorID {
		return NewInvalidError("You cannot delete yourself")
	}
	if _, err := s.GetSupervisor(supervisorID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var employeeIDs []uint
		if err := tx.Model(&models.Employee{}).
			Where("supervisor_id = ?", supervisorID).
			Pluck("employee_id", &employeeIDs).Error; err != nil {
			return err
		}

		evalQuery := tx.Model(&models.Evaluation{}).Where("supervisor_id = ?", supervisorID)
		if len(employeeIDs) > 0 {
			evalQuery = tx.Model(&models.Evaluation{}).
				Where("supervisor_id = ? OR employee_id IN ?", supervisorID, employeeIDs)
		}
		var evaluationIDs []uint
		if err := evalQuery.Pluck("evaluation_id", &evaluationIDs).Error; err != nil {
			return err
		}

		if len(evaluationIDs) > 0 {
			if err := tx.Where("evaluation_id IN ?", evaluationIDs).Delete(&models.EvaluationResponse{}).Error; err != nil {
				return err
			}
			if err := tx.Where("evaluation_id IN ?", evaluationIDs).Delete(&models.Evaluation{}).Error; err != nil {
				return err
			}
		}
		if len(employeeIDs) > 0 {
			if err := tx.Where("employee_id IN ?", employeeIDs).Delete(&models.Employee{}).Error; err != nil {
				return err
			}
		}

		// Anyone this supervisor managed keeps their account, unlinked.
		if err := tx.Model(&models.Supervisor{}).
			Where("manager_id = ?", supervisorID).
			Update("manager_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("supervisor_id = ?", supervisorID).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Supervisor{}, supervisorID).Error
	})
	if err != nil {
		return NewPersistenceError("Failed to delete supervisor", err)
	}
	return nil
}

// CreateEmployee adds a staff record under a supervisor.
func (s *StaffService) CreateEmployee(supervisorID uint, input EmployeeInput) (*models.Employee, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetSupervisor(supervisorID); err != nil {
		return nil, err
	}
	if taken, err := s.codeTaken(input.EmployeeCode, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, NewInvalidError("Employee code already exists")
	}

	employee := models.Employee{
		Name:         input.Name,
		EmployeeCode: input.EmployeeCode,
		SupervisorID: supervisorID,
	}
	if err := s.db.Create(&employee).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, NewInvalidError("Employee code already exists")
		}
		return nil, NewPersistenceError("Failed to create employee", err)
	}
	return &employee, nil
}

// UpdateEmployee rewrites an employee's name and code.
func (s *StaffService) UpdateEmployee(employeeID uint, input EmployeeInput) (*models.Employee, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	employee, err := s.GetEmployee(employeeID)
	if err != nil {
		return nil, err
	}
	if taken, err := s.codeTaken(input.EmployeeCode, employeeID); err != nil {
		return nil, err
	} else if taken {
		return nil, NewInvalidError("Employee code already exists")
	}

	updates := map[string]interface{}{
		"name":          input.Name,
		"employee_code": input.EmployeeCode,
	}
	if err := s.db.Model(employee).Updates(updates).Error; err != nil {
		return nil, NewPersistenceError("Failed to update employee", err)
	}
	return employee, nil
}

// GetEmployee loads one employee by id.
func (s *StaffService) GetEmployee(employeeID uint) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Employee not found")
		}
		return nil, NewPersistenceError("Failed to load employee", err)
	}
	return &employee, nil
}

// DeleteEmployee removes an employee with every evaluation and response
// recorded about them, in one transaction.
func (s *StaffService) DeleteEmployee(employeeID uint) error {
	if _, err := s.GetEmployee(employeeID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var evaluationIDs []uint
		if err := tx.Model(&models.Evaluation{}).
			Where("employee_id = ?", employeeID).
			Pluck("evaluation_id", &evaluationIDs).Error; err != nil {
			return err
		}
		if len(evaluationIDs) > 0 {
			if err := tx.Where("evaluation_id IN ?", evaluationIDs).Delete(&models.EvaluationResponse{}).Error; err != nil {
				return err
			}
			if err := tx.Where("evaluation_id IN ?", evaluationIDs).Delete(&models.Evaluation{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Employee{}, employeeID).Error
	})
	if err != nil {
		return NewPersistenceError("Failed to delete employee", err)
	}
	return nil
}

func (s *StaffService) emailTaken(email string, excludeID uint) (bool, error) {
	query := s.db.Model(&models.Supervisor{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("supervisor_id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, NewPersistenceError("Failed to check email", err)
	}
	return count > 0, nil
}

func (s *StaffService) codeTaken(code string, excludeID uint) (bool, error) {
	query := s.db.Model(&models.Employee{}).Where("employee_code = ?", code)
	if excludeID != 0 {
		query = query.Where("employee_id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, NewPersistenceError("Failed to check employee code", err)
	}
	return count > 0, nil
}
