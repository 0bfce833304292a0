package models

import "time"

// Types de contrat
const (
	ContractTypeCDI     = "cdi"
	ContractTypeCDD     = "cdd"
	ContractTypeInterim = "interim"
)

// Employee - employé de l'entrepôt. Les documents (CACES, visites
// médicales, formations) lui sont rattachés par clé étrangère.
type Employee struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	FirstName    string     `gorm:"not null" json:"first_name"`
	LastName     string     `gorm:"not null;index" json:"last_name"`
	Position     string     `json:"position"`
	ContractType string     `gorm:"type:varchar(20);default:'cdi'" json:"contract_type"`
	ContractEnd  *time.Time `gorm:"type:date" json:"contract_end"`
	HireDate     time.Time  `gorm:"type:date" json:"hire_date"`
	SoftDeleteFields
}

// TableName fixe le nom de la table en base
func (Employee) TableName() string {
	return "employees"
}

// FullName retourne le nom complet pour l'affichage
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// GetID retourne l'identifiant de l'enregistrement
func (e *Employee) GetID() uint {
	return e.ID
}

// FieldValues retourne un instantané des champs persistés, hors identifiant
func (e *Employee) FieldValues() map[string]any {
	values := map[string]any{
		"created_at":    e.CreatedAt,
		"updated_at":    e.UpdatedAt,
		"first_name":    e.FirstName,
		"last_name":     e.LastName,
		"position":      e.Position,
		"contract_type": e.ContractType,
		"contract_end":  copyTime(e.ContractEnd),
		"hire_date":     e.HireDate,
	}
	e.softDeleteValues(values)
	return values
}

// SetFieldValue affecte un champ par son nom persisté
func (e *Employee) SetFieldValue(name string, value any) error {
	if handled, err := e.setSoftDeleteValue(name, value); handled {
		return err
	}

	switch name {
	case "created_at":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		e.CreatedAt = v
	case "updated_at":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		e.UpdatedAt = v
	case "first_name":
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		e.FirstName = v
	case "last_name":
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		e.LastName = v
	case "position":
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		e.Position = v
	case "contract_type":
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		e.ContractType = v
	case "contract_end":
		v, err := asTimePtr(name, value)
		if err != nil {
			return err
		}
		e.ContractEnd = v
	case "hire_date":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		e.HireDate = v
	default:
		return errUnknownField(name)
	}
	return nil
}
