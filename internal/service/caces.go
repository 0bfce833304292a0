package service

import (
	"fmt"
	"time"
	"warehouse-docs/internal/models"
	"warehouse-docs/internal/repository"
	"warehouse-docs/internal/undo"

	"github.com/sirupsen/logrus"
)

type CacesService struct {
	repo         repository.CacesRepository
	employeeRepo repository.EmployeeRepository
	records      undo.RecordStore
	history      *undo.Manager
	logger       *logrus.Logger
}

func NewCacesService(repo repository.CacesRepository, employeeRepo repository.EmployeeRepository, records undo.RecordStore, history *undo.Manager) *CacesService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &CacesService{
		repo:         repo,
		employeeRepo: employeeRepo,
		records:      records,
		history:      history,
		logger:       logger,
	}
}

// AddCaces enregistre un certificat pour un employé existant
func (s *CacesService) AddCaces(employeeID uint, category string, obtainedDate, expirationDate time.Time) (*models.Caces, error) {
	if category == "" {
		return nil, fmt.Errorf("la catégorie CACES est obligatoire")
	}
	if !expirationDate.After(obtainedDate) {
		return nil, fmt.Errorf("la date d'expiration doit suivre la date d'obtention")
	}

	employee, err := s.employeeRepo.GetByID(employeeID)
	if err != nil {
		return nil, fmt.Errorf("erreur de lecture de l'employé: %v", err)
	}
	if employee == nil {
		return nil, fmt.Errorf("employé introuvable")
	}

	caces := &models.Caces{
		EmployeeID:     employeeID,
		Category:       category,
		ObtainedDate:   obtainedDate,
		ExpirationDate: expirationDate,
	}
	if err := s.repo.Create(caces); err != nil {
		return nil, fmt.Errorf("erreur de création du CACES: %v", err)
	}

	s.logger.WithFields(logrus.Fields{
		"caces_id":    caces.ID,
		"employee_id": employeeID,
		"category":    category,
	}).Info("CACES added")

	if record, err := s.records.GetByID(models.ItemTypeCaces, caces.ID); err == nil {
		s.history.RecordAction(undo.NewCreateAction(s.records, record,
			fmt.Sprintf("Ajout du CACES %s pour %s", category, employee.FullName()), models.ItemTypeCaces))
	}

	return caces, nil
}

// UpdateCaces modifie les dates ou la catégorie d'un certificat
func (s *CacesService) UpdateCaces(id uint, category string, obtainedDate, expirationDate time.Time) (*models.Caces, error) {
	if !expirationDate.After(obtainedDate) {
		return nil, fmt.Errorf("la date d'expiration doit suivre la date d'obtention")
	}

	caces, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("erreur de lecture du CACES: %v", err)
	}
	if caces == nil {
		return nil, fmt.Errorf("CACES introuvable")
	}

	oldValues := map[string]any{
		"category":        caces.Category,
		"obtained_date":   caces.ObtainedDate,
		"expiration_date": caces.ExpirationDate,
	}

	if category != "" {
		caces.Category = category
	}
	caces.ObtainedDate = obtainedDate
	caces.ExpirationDate = expirationDate

	newValues := map[string]any{
		"category":        caces.Category,
		"obtained_date":   caces.ObtainedDate,
		"expiration_date": caces.ExpirationDate,
	}

	if err := s.repo.Update(caces); err != nil {
		return nil, fmt.Errorf("erreur de modification du CACES: %v", err)
	}

	if record, err := s.records.GetByID(models.ItemTypeCaces, caces.ID); err == nil {
		s.history.RecordAction(undo.NewUpdateAction(s.records, record, oldValues, newValues,
			fmt.Sprintf("Modification du CACES %s", caces.Category), models.ItemTypeCaces))
	}

	return caces, nil
}

// DeleteCaces supprime logiquement un certificat
func (s *CacesService) DeleteCaces(id uint, reason, deletedBy string) error {
	caces, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("erreur de lecture du CACES: %v", err)
	}
	if caces == nil {
		return fmt.Errorf("CACES introuvable")
	}

	if err := s.repo.SoftDelete(id, reason, deletedBy); err != nil {
		return fmt.Errorf("erreur de suppression du CACES: %v", err)
	}

	if record, err := s.records.GetByID(models.ItemTypeCaces, id); err == nil {
		s.history.RecordAction(undo.NewDeleteAction(s.records, record,
			fmt.Sprintf("Suppression du CACES %s", caces.Category), models.ItemTypeCaces))
	}

	return nil
}

func (s *CacesService) ListByEmployee(employeeID uint) ([]*models.Caces, error) {
	return s.repo.GetByEmployeeID(employeeID)
}
