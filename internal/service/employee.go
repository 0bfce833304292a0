package service

import (
	"fmt"
	"time"
	"warehouse-docs/internal/models"
	"warehouse-docs/internal/repository"
	"warehouse-docs/internal/undo"

	"github.com/sirupsen/logrus"
)

type EmployeeService struct {
	repo    repository.EmployeeRepository
	records undo.RecordStore
	history *undo.Manager
	logger  *logrus.Logger
}

func NewEmployeeService(repo repository.EmployeeRepository, records undo.RecordStore, history *undo.Manager) *EmployeeService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &EmployeeService{
		repo:    repo,
		records: records,
		history: history,
		logger:  logger,
	}
}

// CreateEmployee crée un employé puis enregistre l'action pour
// annulation. L'action est enregistrée a posteriori, après l'écriture.
func (s *EmployeeService) CreateEmployee(firstName, lastName, position, contractType string, hireDate time.Time, contractEnd *time.Time) (*models.Employee, error) {
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("le prénom et le nom sont obligatoires")
	}
	if contractType == "" {
		contractType = models.ContractTypeCDI
	}

	employee := &models.Employee{
		FirstName:    firstName,
		LastName:     lastName,
		Position:     position,
		ContractType: contractType,
		HireDate:     hireDate,
		ContractEnd:  contractEnd,
	}

	if err := s.repo.Create(employee); err != nil {
		return nil, fmt.Errorf("erreur de création de l'employé: %v", err)
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"name":        employee.FullName(),
	}).Info("Employee created")

	s.recordCreate(employee.ID, fmt.Sprintf("Création de l'employé %s", employee.FullName()))
	return employee, nil
}

// UpdateEmployee modifie un employé en capturant les anciennes et
// nouvelles valeurs pour l'historique
func (s *EmployeeService) UpdateEmployee(id uint, firstName, lastName, position, contractType string, contractEnd *time.Time) (*models.Employee, error) {
	employee, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("erreur de lecture de l'employé: %v", err)
	}
	if employee == nil {
		return nil, fmt.Errorf("employé introuvable")
	}

	oldValues := map[string]any{
		"first_name":    employee.FirstName,
		"last_name":     employee.LastName,
		"position":      employee.Position,
		"contract_type": employee.ContractType,
		"contract_end":  employee.ContractEnd,
	}

	if firstName != "" {
		employee.FirstName = firstName
	}
	if lastName != "" {
		employee.LastName = lastName
	}
	employee.Position = position
	if contractType != "" {
		employee.ContractType = contractType
	}
	employee.ContractEnd = contractEnd

	newValues := map[string]any{
		"first_name":    employee.FirstName,
		"last_name":     employee.LastName,
		"position":      employee.Position,
		"contract_type": employee.ContractType,
		"contract_end":  employee.ContractEnd,
	}

	if err := s.repo.Update(employee); err != nil {
		return nil, fmt.Errorf("erreur de modification de l'employé: %v", err)
	}

	record, err := s.records.GetByID(models.ItemTypeEmployee, employee.ID)
	if err != nil {
		s.logger.WithError(err).Warn("Update not recorded in undo history")
		return employee, nil
	}
	s.history.RecordAction(undo.NewUpdateAction(s.records, record, oldValues, newValues,
		fmt.Sprintf("Modification de l'employé %s", employee.FullName()), models.ItemTypeEmployee))

	return employee, nil
}

// DeleteEmployee supprime logiquement un employé puis enregistre
// l'action, construite depuis l'enregistrement déjà supprimé
func (s *EmployeeService) DeleteEmployee(id uint, reason, deletedBy string) error {
	employee, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("erreur de lecture de l'employé: %v", err)
	}
	if employee == nil {
		return fmt.Errorf("employé introuvable")
	}

	if err := s.repo.SoftDelete(id, reason, deletedBy); err != nil {
		return fmt.Errorf("erreur de suppression de l'employé: %v", err)
	}

	s.logger.WithFields(logrus.Fields{
		"employee_id": id,
		"reason":      reason,
	}).Info("Employee soft deleted")

	record, err := s.records.GetByID(models.ItemTypeEmployee, id)
	if err != nil {
		s.logger.WithError(err).Warn("Delete not recorded in undo history")
		return nil
	}
	s.history.RecordAction(undo.NewDeleteAction(s.records, record,
		fmt.Sprintf("Suppression de l'employé %s", employee.FullName()), models.ItemTypeEmployee))

	return nil
}

// RestoreEmployee restaure un employé supprimé, hors historique
// d'annulation (vue corbeille)
func (s *EmployeeService) RestoreEmployee(id uint) error {
	return s.repo.Restore(id)
}

func (s *EmployeeService) GetEmployee(id uint) (*models.Employee, error) {
	employee, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("erreur de lecture de l'employé: %v", err)
	}
	if employee == nil {
		return nil, fmt.Errorf("employé introuvable")
	}
	return employee, nil
}

func (s *EmployeeService) ListEmployees() ([]*models.Employee, error) {
	return s.repo.GetAll()
}

func (s *EmployeeService) ListDeletedEmployees() ([]*models.Employee, error) {
	return s.repo.GetDeleted()
}

func (s *EmployeeService) recordCreate(id uint, description string) {
	record, err := s.records.GetByID(models.ItemTypeEmployee, id)
	if err != nil {
		s.logger.WithError(err).Warn("Create not recorded in undo history")
		return
	}
	s.history.RecordAction(undo.NewCreateAction(s.records, record, description, models.ItemTypeEmployee))
}
