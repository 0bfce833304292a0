package models

import (
	"fmt"
	"time"
)

// Types d'éléments suivis par l'historique d'annulation
const (
	ItemTypeEmployee     = "employee"
	ItemTypeCaces        = "caces"
	ItemTypeMedicalVisit = "medical_visit"
	ItemTypeTraining     = "training"
)

// SoftDeleteFields - champs communs de suppression logique.
// L'enregistrement reste en base avec un marquage réversible au lieu
// d'être détruit, ce qui permet la restauration depuis l'historique.
type SoftDeleteFields struct {
	IsDeleted    bool       `gorm:"default:false;index" json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at"`
	DeleteReason string     `json:"delete_reason"`
	DeletedBy    string     `json:"deleted_by"`
}

// MarkDeleted pose le marquage de suppression avec le motif et l'auteur
func (s *SoftDeleteFields) MarkDeleted(reason, deletedBy string) {
	now := time.Now()
	s.IsDeleted = true
	s.DeletedAt = &now
	s.DeleteReason = reason
	s.DeletedBy = deletedBy
}

// ClearDeleted retire le marquage (restauration)
func (s *SoftDeleteFields) ClearDeleted() {
	s.IsDeleted = false
	s.DeletedAt = nil
	s.DeleteReason = ""
	s.DeletedBy = ""
}

// Deleted indique si l'enregistrement est supprimé logiquement
func (s *SoftDeleteFields) Deleted() bool {
	return s.IsDeleted
}

// copyTime duplique un pointeur de date pour isoler les instantanés
func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func errUnknownField(name string) error {
	return fmt.Errorf("champ inconnu: %s", name)
}

func errFieldType(name string) error {
	return fmt.Errorf("type de valeur invalide pour le champ %s", name)
}
