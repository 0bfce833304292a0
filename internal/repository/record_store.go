package repository

import (
	"fmt"
	"warehouse-docs/internal/models"
	"warehouse-docs/internal/undo"

	"gorm.io/gorm"
)

// entity - surface minimale qu'un modèle doit offrir pour être piloté
// par l'historique d'annulation : identifiant, accès aux champs par nom
// et marquage de suppression logique.
type entity interface {
	GetID() uint
	FieldValues() map[string]any
	SetFieldValue(name string, value any) error
	MarkDeleted(reason, deletedBy string)
	ClearDeleted()
	Deleted() bool
}

// GormRecordStore résout un type d'élément et un identifiant vers un
// enregistrement manipulable par les actions d'annulation. C'est
// l'aller-retour base de données des chemins undo/redo.
type GormRecordStore struct {
	db *gorm.DB
}

func NewGormRecordStore(db *gorm.DB) *GormRecordStore {
	return &GormRecordStore{db: db}
}

func (s *GormRecordStore) GetByID(itemType string, id uint) (undo.Record, error) {
	var target entity

	switch itemType {
	case models.ItemTypeEmployee:
		target = &models.Employee{}
	case models.ItemTypeCaces:
		target = &models.Caces{}
	case models.ItemTypeMedicalVisit:
		target = &models.MedicalVisit{}
	case models.ItemTypeTraining:
		target = &models.OnlineTraining{}
	default:
		return nil, fmt.Errorf("type d'élément inconnu: %s", itemType)
	}

	if err := s.db.First(target, id).Error; err != nil {
		return nil, err
	}

	return &gormRecord{db: s.db, entity: target}, nil
}

// gormRecord adapte un modèle GORM aux interfaces Record et
// SoftDeletable du gestionnaire d'annulation
type gormRecord struct {
	db     *gorm.DB
	entity entity
}

func (r *gormRecord) ID() uint {
	return r.entity.GetID()
}

func (r *gormRecord) Snapshot() map[string]any {
	return r.entity.FieldValues()
}

func (r *gormRecord) SetField(name string, value any) error {
	return r.entity.SetFieldValue(name, value)
}

func (r *gormRecord) Save() error {
	return r.db.Save(r.entity).Error
}

func (r *gormRecord) SoftDelete(reason, deletedBy string) error {
	r.entity.MarkDeleted(reason, deletedBy)
	return r.db.Save(r.entity).Error
}

func (r *gormRecord) Restore() error {
	r.entity.ClearDeleted()
	return r.db.Save(r.entity).Error
}

func (r *gormRecord) IsDeleted() bool {
	return r.entity.Deleted()
}
