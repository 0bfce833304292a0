package repository

import (
	"errors"
	"time"
	"warehouse-docs/internal/models"

	"gorm.io/gorm"
)

type MedicalVisitRepository interface {
	Create(visit *models.MedicalVisit) error
	GetByID(id uint) (*models.MedicalVisit, error)
	GetByEmployeeID(employeeID uint) ([]*models.MedicalVisit, error)
	GetExpiringWithin(days int) ([]*models.MedicalVisit, error)
	Update(visit *models.MedicalVisit) error
	SoftDelete(id uint, reason, deletedBy string) error
	Restore(id uint) error
}

type GormMedicalVisitRepository struct {
	db *gorm.DB
}

func NewGormMedicalVisitRepository(db *gorm.DB) (*GormMedicalVisitRepository, error) {
	if err := db.AutoMigrate(&models.MedicalVisit{}); err != nil {
		return nil, err
	}
	return &GormMedicalVisitRepository{db: db}, nil
}

func (r *GormMedicalVisitRepository) Create(visit *models.MedicalVisit) error {
	return r.db.Create(visit).Error
}

func (r *GormMedicalVisitRepository) GetByID(id uint) (*models.MedicalVisit, error) {
	var visit models.MedicalVisit
	err := r.db.First(&visit, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &visit, nil
}

func (r *GormMedicalVisitRepository) GetByEmployeeID(employeeID uint) ([]*models.MedicalVisit, error) {
	var visits []*models.MedicalVisit
	err := r.db.Where("employee_id = ? AND is_deleted = ?", employeeID, false).
		Order("visit_date DESC").
		Find(&visits).Error
	return visits, err
}

func (r *GormMedicalVisitRepository) GetExpiringWithin(days int) ([]*models.MedicalVisit, error) {
	cutoff := time.Now().AddDate(0, 0, days)
	var visits []*models.MedicalVisit
	err := r.db.Where("is_deleted = ? AND expiration_date <= ?", false, cutoff).
		Order("expiration_date").
		Find(&visits).Error
	return visits, err
}

func (r *GormMedicalVisitRepository) Update(visit *models.MedicalVisit) error {
	return r.db.Save(visit).Error
}

func (r *GormMedicalVisitRepository) SoftDelete(id uint, reason, deletedBy string) error {
	visit, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if visit == nil {
		return ErrNotFound
	}

	visit.MarkDeleted(reason, deletedBy)
	return r.db.Save(visit).Error
}

func (r *GormMedicalVisitRepository) Restore(id uint) error {
	visit, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if visit == nil {
		return ErrNotFound
	}

	visit.ClearDeleted()
	return r.db.Save(visit).Error
}
