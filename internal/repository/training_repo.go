package repository

import (
	"errors"
	"time"
	"warehouse-docs/internal/models"

	"gorm.io/gorm"
)

type TrainingRepository interface {
	Create(training *models.OnlineTraining) error
	GetByID(id uint) (*models.OnlineTraining, error)
	GetByEmployeeID(employeeID uint) ([]*models.OnlineTraining, error)
	GetExpiringWithin(days int) ([]*models.OnlineTraining, error)
	Update(training *models.OnlineTraining) error
	SoftDelete(id uint, reason, deletedBy string) error
	Restore(id uint) error
}

type GormTrainingRepository struct {
	db *gorm.DB
}

func NewGormTrainingRepository(db *gorm.DB) (*GormTrainingRepository, error) {
	if err := db.AutoMigrate(&models.OnlineTraining{}); err != nil {
		return nil, err
	}
	return &GormTrainingRepository{db: db}, nil
}

func (r *GormTrainingRepository) Create(training *models.OnlineTraining) error {
	return r.db.Create(training).Error
}

func (r *GormTrainingRepository) GetByID(id uint) (*models.OnlineTraining, error) {
	var training models.OnlineTraining
	err := r.db.First(&training, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &training, nil
}

func (r *GormTrainingRepository) GetByEmployeeID(employeeID uint) ([]*models.OnlineTraining, error) {
	var trainings []*models.OnlineTraining
	err := r.db.Where("employee_id = ? AND is_deleted = ?", employeeID, false).
		Order("completion_date DESC").
		Find(&trainings).Error
	return trainings, err
}

func (r *GormTrainingRepository) GetExpiringWithin(days int) ([]*models.OnlineTraining, error) {
	cutoff := time.Now().AddDate(0, 0, days)
	var trainings []*models.OnlineTraining
	err := r.db.Where("is_deleted = ? AND expiration_date <= ?", false, cutoff).
		Order("expiration_date").
		Find(&trainings).Error
	return trainings, err
}

func (r *GormTrainingRepository) Update(training *models.OnlineTraining) error {
	return r.db.Save(training).Error
}

func (r *GormTrainingRepository) SoftDelete(id uint, reason, deletedBy string) error {
	training, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if training == nil {
		return ErrNotFound
	}

	training.MarkDeleted(reason, deletedBy)
	return r.db.Save(training).Error
}

func (r *GormTrainingRepository) Restore(id uint) error {
	training, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if training == nil {
		return ErrNotFound
	}

	training.ClearDeleted()
	return r.db.Save(training).Error
}
