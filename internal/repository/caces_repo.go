package repository

import (
	"errors"
	"time"
	"warehouse-docs/internal/models"

	"gorm.io/gorm"
)

type CacesRepository interface {
	Create(caces *models.Caces) error
	GetByID(id uint) (*models.Caces, error)
	GetByEmployeeID(employeeID uint) ([]*models.Caces, error)
	GetExpiringWithin(days int) ([]*models.Caces, error)
	Update(caces *models.Caces) error
	SoftDelete(id uint, reason, deletedBy string) error
	Restore(id uint) error
}

type GormCacesRepository struct {
	db *gorm.DB
}

func NewGormCacesRepository(db *gorm.DB) (*GormCacesRepository, error) {
	if err := db.AutoMigrate(&models.Caces{}); err != nil {
		return nil, err
	}
	return &GormCacesRepository{db: db}, nil
}

func (r *GormCacesRepository) Create(caces *models.Caces) error {
	return r.db.Create(caces).Error
}

func (r *GormCacesRepository) GetByID(id uint) (*models.Caces, error) {
	var caces models.Caces
	err := r.db.First(&caces, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &caces, nil
}

func (r *GormCacesRepository) GetByEmployeeID(employeeID uint) ([]*models.Caces, error) {
	var list []*models.Caces
	err := r.db.Where("employee_id = ? AND is_deleted = ?", employeeID, false).
		Order("expiration_date").
		Find(&list).Error
	return list, err
}

// GetExpiringWithin retourne les certificats actifs expirant d'ici le
// nombre de jours donné, y compris ceux déjà expirés
func (r *GormCacesRepository) GetExpiringWithin(days int) ([]*models.Caces, error) {
	cutoff := time.Now().AddDate(0, 0, days)
	var list []*models.Caces
	err := r.db.Where("is_deleted = ? AND expiration_date <= ?", false, cutoff).
		Order("expiration_date").
		Find(&list).Error
	return list, err
}

func (r *GormCacesRepository) Update(caces *models.Caces) error {
	return r.db.Save(caces).Error
}

func (r *GormCacesRepository) SoftDelete(id uint, reason, deletedBy string) error {
	caces, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if caces == nil {
		return ErrNotFound
	}

	caces.MarkDeleted(reason, deletedBy)
	return r.db.Save(caces).Error
}

func (r *GormCacesRepository) Restore(id uint) error {
	caces, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if caces == nil {
		return ErrNotFound
	}

	caces.ClearDeleted()
	return r.db.Save(caces).Error
}
