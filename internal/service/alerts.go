package service

import (
	"fmt"
	"sort"
	"time"

	"warehouse-docs/internal/alerts"
	"warehouse-docs/internal/models"
	"warehouse-docs/internal/repository"
	"warehouse-docs/pkg/dateutil"

	"github.com/sirupsen/logrus"
)

// AlertItem - un document dans sa fenêtre d'alerte, prêt pour l'affichage
type AlertItem struct {
	Category       string        `json:"category"`
	ItemType       string        `json:"item_type"`
	ItemID         uint          `json:"item_id"`
	EmployeeID     uint          `json:"employee_id"`
	EmployeeName   string        `json:"employee_name"`
	Title          string        `json:"title"`
	ExpirationDate time.Time     `json:"expiration_date"`
	DaysUntil      int           `json:"days_until"`
	Level          *alerts.Level `json:"level"`
}

// AlertService - couche de consultation des alertes. Elle ne duplique
// aucune logique de seuil : chaque échéance passe par le gestionnaire
// de paramètres pour être classée.
type AlertService struct {
	settings     *alerts.SettingsManager
	employeeRepo repository.EmployeeRepository
	cacesRepo    repository.CacesRepository
	medicalRepo  repository.MedicalVisitRepository
	trainingRepo repository.TrainingRepository
	logger       *logrus.Logger
}

func NewAlertService(
	settings *alerts.SettingsManager,
	employeeRepo repository.EmployeeRepository,
	cacesRepo repository.CacesRepository,
	medicalRepo repository.MedicalVisitRepository,
	trainingRepo repository.TrainingRepository,
) *AlertService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &AlertService{
		settings:     settings,
		employeeRepo: employeeRepo,
		cacesRepo:    cacesRepo,
		medicalRepo:  medicalRepo,
		trainingRepo: trainingRepo,
		logger:       logger,
	}
}

// GetActiveAlerts retourne tous les documents en fenêtre d'alerte pour
// les catégories actives, triés du plus urgent au moins urgent
func (s *AlertService) GetActiveAlerts() ([]AlertItem, error) {
	employees, err := s.employeeRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("erreur de lecture des employés: %v", err)
	}

	names := make(map[uint]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.FullName()
	}

	var items []AlertItem

	if s.settings.IsEnabled(alerts.CategoryCaces) {
		lookahead := s.settings.GetCategorySettings(alerts.CategoryCaces).Levels.Info.Days
		list, err := s.cacesRepo.GetExpiringWithin(lookahead)
		if err != nil {
			return nil, fmt.Errorf("erreur de lecture des CACES: %v", err)
		}
		for _, c := range list {
			name, ok := names[c.EmployeeID]
			if !ok {
				// Employé supprimé : son document ne remonte pas
				continue
			}
			days := dateutil.DaysUntil(c.ExpirationDate)
			level := s.settings.GetAlertLevel(alerts.CategoryCaces, days)
			if level == nil {
				continue
			}
			items = append(items, AlertItem{
				Category:       alerts.CategoryCaces,
				ItemType:       models.ItemTypeCaces,
				ItemID:         c.ID,
				EmployeeID:     c.EmployeeID,
				EmployeeName:   name,
				Title:          fmt.Sprintf("CACES %s", c.Category),
				ExpirationDate: c.ExpirationDate,
				DaysUntil:      days,
				Level:          level,
			})
		}
	}

	if s.settings.IsEnabled(alerts.CategoryMedical) {
		lookahead := s.settings.GetCategorySettings(alerts.CategoryMedical).Levels.Info.Days
		list, err := s.medicalRepo.GetExpiringWithin(lookahead)
		if err != nil {
			return nil, fmt.Errorf("erreur de lecture des visites médicales: %v", err)
		}
		for _, v := range list {
			name, ok := names[v.EmployeeID]
			if !ok {
				continue
			}
			days := dateutil.DaysUntil(v.ExpirationDate)
			level := s.settings.GetAlertLevel(alerts.CategoryMedical, days)
			if level == nil {
				continue
			}
			items = append(items, AlertItem{
				Category:       alerts.CategoryMedical,
				ItemType:       models.ItemTypeMedicalVisit,
				ItemID:         v.ID,
				EmployeeID:     v.EmployeeID,
				EmployeeName:   name,
				Title:          "Visite médicale",
				ExpirationDate: v.ExpirationDate,
				DaysUntil:      days,
				Level:          level,
			})
		}
	}

	if s.settings.IsEnabled(alerts.CategoryTraining) {
		lookahead := s.settings.GetCategorySettings(alerts.CategoryTraining).Levels.Info.Days
		list, err := s.trainingRepo.GetExpiringWithin(lookahead)
		if err != nil {
			return nil, fmt.Errorf("erreur de lecture des formations: %v", err)
		}
		for _, tr := range list {
			name, ok := names[tr.EmployeeID]
			if !ok {
				continue
			}
			days := dateutil.DaysUntil(tr.ExpirationDate)
			level := s.settings.GetAlertLevel(alerts.CategoryTraining, days)
			if level == nil {
				continue
			}
			items = append(items, AlertItem{
				Category:       alerts.CategoryTraining,
				ItemType:       models.ItemTypeTraining,
				ItemID:         tr.ID,
				EmployeeID:     tr.EmployeeID,
				EmployeeName:   name,
				Title:          tr.Name,
				ExpirationDate: tr.ExpirationDate,
				DaysUntil:      days,
				Level:          level,
			})
		}
	}

	if s.settings.IsEnabled(alerts.CategoryContracts) {
		// Les fins de contrat vivent sur la fiche employé, pas dans une
		// table de documents
		for _, e := range employees {
			if e.ContractEnd == nil {
				continue
			}
			days := dateutil.DaysUntil(*e.ContractEnd)
			level := s.settings.GetAlertLevel(alerts.CategoryContracts, days)
			if level == nil {
				continue
			}
			items = append(items, AlertItem{
				Category:       alerts.CategoryContracts,
				ItemType:       models.ItemTypeEmployee,
				ItemID:         e.ID,
				EmployeeID:     e.ID,
				EmployeeName:   e.FullName(),
				Title:          fmt.Sprintf("Fin de contrat %s", e.ContractType),
				ExpirationDate: *e.ContractEnd,
				DaysUntil:      days,
				Level:          level,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DaysUntil < items[j].DaysUntil
	})

	return items, nil
}

// CountByLabel agrège les alertes actives par libellé de palier, pour
// le résumé du tableau de bord
func (s *AlertService) CountByLabel() (map[string]int, error) {
	items, err := s.GetActiveAlerts()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, item := range items {
		counts[item.Level.Label]++
	}
	return counts, nil
}
