package repository

import (
	"errors"
	"warehouse-docs/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("enregistrement introuvable")

type EmployeeRepository interface {
	Create(employee *models.Employee) error
	GetByID(id uint) (*models.Employee, error)
	GetAll() ([]*models.Employee, error)
	GetDeleted() ([]*models.Employee, error)
	Update(employee *models.Employee) error
	SoftDelete(id uint, reason, deletedBy string) error
	Restore(id uint) error
}

type GormEmployeeRepository struct {
	db *gorm.DB
}

func NewGormEmployeeRepository(db *gorm.DB) (*GormEmployeeRepository, error) {
	// Automigration - crée la table si elle n'existe pas
	if err := db.AutoMigrate(&models.Employee{}); err != nil {
		return nil, err
	}
	return &GormEmployeeRepository{db: db}, nil
}

func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	return r.db.Create(employee).Error
}

// GetByID retourne l'employé même supprimé logiquement : l'historique
// d'annulation doit pouvoir le retrouver
func (r *GormEmployeeRepository) GetByID(id uint) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.First(&employee, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &employee, nil
}

func (r *GormEmployeeRepository) GetAll() ([]*models.Employee, error) {
	var employees []*models.Employee
	err := r.db.Where("is_deleted = ?", false).
		Order("last_name, first_name").
		Find(&employees).Error
	return employees, err
}

func (r *GormEmployeeRepository) GetDeleted() ([]*models.Employee, error) {
	var employees []*models.Employee
	err := r.db.Where("is_deleted = ?", true).
		Order("deleted_at DESC").
		Find(&employees).Error
	return employees, err
}

func (r *GormEmployeeRepository) Update(employee *models.Employee) error {
	return r.db.Save(employee).Error
}

func (r *GormEmployeeRepository) SoftDelete(id uint, reason, deletedBy string) error {
	employee, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if employee == nil {
		return ErrNotFound
	}

	employee.MarkDeleted(reason, deletedBy)
	return r.db.Save(employee).Error
}

func (r *GormEmployeeRepository) Restore(id uint) error {
	employee, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if employee == nil {
		return ErrNotFound
	}

	employee.ClearDeleted()
	return r.db.Save(employee).Error
}
