package service

import (
	"fmt"
	"time"
	"warehouse-docs/internal/models"
	"warehouse-docs/internal/repository"
	"warehouse-docs/internal/undo"

	"github.com/sirupsen/logrus"
)

type TrainingService struct {
	repo         repository.TrainingRepository
	employeeRepo repository.EmployeeRepository
	records      undo.RecordStore
	history      *undo.Manager
	logger       *logrus.Logger
}

func NewTrainingService(repo repository.TrainingRepository, employeeRepo repository.EmployeeRepository, records undo.RecordStore, history *undo.Manager) *TrainingService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &TrainingService{
		repo:         repo,
		employeeRepo: employeeRepo,
		records:      records,
		history:      history,
		logger:       logger,
	}
}

// AddTraining enregistre une formation en ligne pour un employé
func (s *TrainingService) AddTraining(employeeID uint, name, provider string, completionDate, expirationDate time.Time, certificateNumber string) (*models.OnlineTraining, error) {
	if name == "" {
		return nil, fmt.Errorf("le nom de la formation est obligatoire")
	}
	if !expirationDate.After(completionDate) {
		return nil, fmt.Errorf("la date de validité doit suivre la date de réalisation")
	}

	employee, err := s.employeeRepo.GetByID(employeeID)
	if err != nil {
		return nil, fmt.Errorf("erreur de lecture de l'employé: %v", err)
	}
	if employee == nil {
		return nil, fmt.Errorf("employé introuvable")
	}

	training := &models.OnlineTraining{
		EmployeeID:        employeeID,
		Name:              name,
		Provider:          provider,
		CompletionDate:    completionDate,
		ExpirationDate:    expirationDate,
		CertificateNumber: certificateNumber,
	}
	if err := s.repo.Create(training); err != nil {
		return nil, fmt.Errorf("erreur de création de la formation: %v", err)
	}

	s.logger.WithFields(logrus.Fields{
		"training_id": training.ID,
		"employee_id": employeeID,
		"name":        name,
	}).Info("Training added")

	if record, err := s.records.GetByID(models.ItemTypeTraining, training.ID); err == nil {
		s.history.RecordAction(undo.NewCreateAction(s.records, record,
			fmt.Sprintf("Ajout de la formation %s pour %s", name, employee.FullName()), models.ItemTypeTraining))
	}

	return training, nil
}

// UpdateTraining modifie une formation existante
func (s *TrainingService) UpdateTraining(id uint, name, provider string, completionDate, expirationDate time.Time) (*models.OnlineTraining, error) {
	if !expirationDate.After(completionDate) {
		return nil, fmt.Errorf("la date de validité doit suivre la date de réalisation")
	}

	training, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("erreur de lecture de la formation: %v", err)
	}
	if training == nil {
		return nil, fmt.Errorf("formation introuvable")
	}

	oldValues := map[string]any{
		"name":            training.Name,
		"provider":        training.Provider,
		"completion_date": training.CompletionDate,
		"expiration_date": training.ExpirationDate,
	}

	if name != "" {
		training.Name = name
	}
	training.Provider = provider
	training.CompletionDate = completionDate
	training.ExpirationDate = expirationDate

	newValues := map[string]any{
		"name":            training.Name,
		"provider":        training.Provider,
		"completion_date": training.CompletionDate,
		"expiration_date": training.ExpirationDate,
	}

	if err := s.repo.Update(training); err != nil {
		return nil, fmt.Errorf("erreur de modification de la formation: %v", err)
	}

	if record, err := s.records.GetByID(models.ItemTypeTraining, training.ID); err == nil {
		s.history.RecordAction(undo.NewUpdateAction(s.records, record, oldValues, newValues,
			fmt.Sprintf("Modification de la formation %s", training.Name), models.ItemTypeTraining))
	}

	return training, nil
}

// DeleteTraining supprime logiquement une formation
func (s *TrainingService) DeleteTraining(id uint, reason, deletedBy string) error {
	training, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("erreur de lecture de la formation: %v", err)
	}
	if training == nil {
		return fmt.Errorf("formation introuvable")
	}

	if err := s.repo.SoftDelete(id, reason, deletedBy); err != nil {
		return fmt.Errorf("erreur de suppression de la formation: %v", err)
	}

	if record, err := s.records.GetByID(models.ItemTypeTraining, id); err == nil {
		s.history.RecordAction(undo.NewDeleteAction(s.records, record,
			fmt.Sprintf("Suppression de la formation %s", training.Name), models.ItemTypeTraining))
	}

	return nil
}

func (s *TrainingService) ListByEmployee(employeeID uint) ([]*models.OnlineTraining, error) {
	return s.repo.GetByEmployeeID(employeeID)
}
