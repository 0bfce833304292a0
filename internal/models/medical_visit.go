package models

import "time"

// Types de visite médicale
const (
	VisitTypeInitial    = "initial"
	VisitTypePeriodic   = "periodic"
	VisitTypeReprise    = "reprise"
	VisitTypePreReprise = "pre_reprise"
)

// MedicalVisit - visite médicale du travail avec sa date d'échéance
type MedicalVisit struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	EmployeeID     uint      `gorm:"not null;index" json:"employee_id"`
	VisitType      string    `gorm:"type:varchar(20);default:'periodic'" json:"visit_type"`
	VisitDate      time.Time `gorm:"type:date;not null" json:"visit_date"`
	ExpirationDate time.Time `gorm:"type:date;not null;index" json:"expiration_date"`
	Doctor         string    `json:"doctor"`
	Notes          string    `json:"notes"`
	SoftDeleteFields
}

// TableName fixe le nom de la table en base
func (MedicalVisit) TableName() string {
	return "medical_visits"
}

// GetID retourne l'identifiant de l'enregistrement
func (m *MedicalVisit) GetID() uint {
	return m.ID
}

// FieldValues retourne un instantané des champs persistés, hors identifiant
func (m *MedicalVisit) FieldValues() map[string]any {
	values := map[string]any{
		"created_at":      m.CreatedAt,
		"updated_at":      m.UpdatedAt,
		"employee_id":     m.EmployeeID,
		"visit_type":      m.VisitType,
		"visit_date":      m.VisitDate,
		"expiration_date": m.ExpirationDate,
		"doctor":          m.Doctor,
		"notes":           m.Notes,
	}
	m.softDeleteValues(values)
	return values
}

// SetFieldValue affecte un champ par son nom persisté
func (m *MedicalVisit) SetFieldValue(name string, value any) error {
	if handled, err := m.setSoftDeleteValue(name, value); handled {
		return err
	}

	switch name {
	case "created_at":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		m.CreatedAt = v
	case "updated_at":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		m.UpdatedAt = v
	case "employee_id":
		v, err := asUint(name, value)
		if err != nil {
			return err
		}
		m.EmployeeID = v
	case "visit_type":
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		m.VisitType = v
	case "visit_date":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		m.VisitDate = v
	case "expiration_date":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		m.ExpirationDate = v
	case "doctor":
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		m.Doctor = v
	case "notes":
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		m.Notes = v
	default:
		return errUnknownField(name)
	}
	return nil
}
