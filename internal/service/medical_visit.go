package service

import (
	"fmt"
	"time"
	"warehouse-docs/internal/models"
	"warehouse-docs/internal/repository"
	"warehouse-docs/internal/undo"

	"github.com/sirupsen/logrus"
)

type MedicalVisitService struct {
	repo         repository.MedicalVisitRepository
	employeeRepo repository.EmployeeRepository
	records      undo.RecordStore
	history      *undo.Manager
	logger       *logrus.Logger
}

func NewMedicalVisitService(repo repository.MedicalVisitRepository, employeeRepo repository.EmployeeRepository, records undo.RecordStore, history *undo.Manager) *MedicalVisitService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &MedicalVisitService{
		repo:         repo,
		employeeRepo: employeeRepo,
		records:      records,
		history:      history,
		logger:       logger,
	}
}

// AddVisit enregistre une visite médicale et sa date d'échéance
func (s *MedicalVisitService) AddVisit(employeeID uint, visitType string, visitDate, expirationDate time.Time, doctor string) (*models.MedicalVisit, error) {
	if visitType == "" {
		visitType = models.VisitTypePeriodic
	}
	if !expirationDate.After(visitDate) {
		return nil, fmt.Errorf("la date d'échéance doit suivre la date de visite")
	}

	employee, err := s.employeeRepo.GetByID(employeeID)
	if err != nil {
		return nil, fmt.Errorf("erreur de lecture de l'employé: %v", err)
	}
	if employee == nil {
		return nil, fmt.Errorf("employé introuvable")
	}

	visit := &models.MedicalVisit{
		EmployeeID:     employeeID,
		VisitType:      visitType,
		VisitDate:      visitDate,
		ExpirationDate: expirationDate,
		Doctor:         doctor,
	}
	if err := s.repo.Create(visit); err != nil {
		return nil, fmt.Errorf("erreur de création de la visite: %v", err)
	}

	s.logger.WithFields(logrus.Fields{
		"visit_id":    visit.ID,
		"employee_id": employeeID,
		"visit_type":  visitType,
	}).Info("Medical visit added")

	if record, err := s.records.GetByID(models.ItemTypeMedicalVisit, visit.ID); err == nil {
		s.history.RecordAction(undo.NewCreateAction(s.records, record,
			fmt.Sprintf("Ajout d'une visite médicale pour %s", employee.FullName()), models.ItemTypeMedicalVisit))
	}

	return visit, nil
}

// UpdateVisit modifie une visite médicale existante
func (s *MedicalVisitService) UpdateVisit(id uint, visitType string, visitDate, expirationDate time.Time, doctor, notes string) (*models.MedicalVisit, error) {
	if !expirationDate.After(visitDate) {
		return nil, fmt.Errorf("la date d'échéance doit suivre la date de visite")
	}

	visit, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("erreur de lecture de la visite: %v", err)
	}
	if visit == nil {
		return nil, fmt.Errorf("visite introuvable")
	}

	oldValues := map[string]any{
		"visit_type":      visit.VisitType,
		"visit_date":      visit.VisitDate,
		"expiration_date": visit.ExpirationDate,
		"doctor":          visit.Doctor,
		"notes":           visit.Notes,
	}

	if visitType != "" {
		visit.VisitType = visitType
	}
	visit.VisitDate = visitDate
	visit.ExpirationDate = expirationDate
	visit.Doctor = doctor
	visit.Notes = notes

	newValues := map[string]any{
		"visit_type":      visit.VisitType,
		"visit_date":      visit.VisitDate,
		"expiration_date": visit.ExpirationDate,
		"doctor":          visit.Doctor,
		"notes":           visit.Notes,
	}

	if err := s.repo.Update(visit); err != nil {
		return nil, fmt.Errorf("erreur de modification de la visite: %v", err)
	}

	if record, err := s.records.GetByID(models.ItemTypeMedicalVisit, visit.ID); err == nil {
		s.history.RecordAction(undo.NewUpdateAction(s.records, record, oldValues, newValues,
			"Modification d'une visite médicale", models.ItemTypeMedicalVisit))
	}

	return visit, nil
}

// DeleteVisit supprime logiquement une visite médicale
func (s *MedicalVisitService) DeleteVisit(id uint, reason, deletedBy string) error {
	visit, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("erreur de lecture de la visite: %v", err)
	}
	if visit == nil {
		return fmt.Errorf("visite introuvable")
	}

	if err := s.repo.SoftDelete(id, reason, deletedBy); err != nil {
		return fmt.Errorf("erreur de suppression de la visite: %v", err)
	}

	if record, err := s.records.GetByID(models.ItemTypeMedicalVisit, id); err == nil {
		s.history.RecordAction(undo.NewDeleteAction(s.records, record,
			"Suppression d'une visite médicale", models.ItemTypeMedicalVisit))
	}

	return nil
}

func (s *MedicalVisitService) ListByEmployee(employeeID uint) ([]*models.MedicalVisit, error) {
	return s.repo.GetByEmployeeID(employeeID)
}
