package models

import "time"

// OnlineTraining - formation en ligne avec attestation et date de validité
type OnlineTraining struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	EmployeeID        uint      `gorm:"not null;index" json:"employee_id"`
	Name              string    `gorm:"not null" json:"name"`
	Provider          string    `json:"provider"`
	CompletionDate    time.Time `gorm:"type:date;not null" json:"completion_date"`
	ExpirationDate    time.Time `gorm:"type:date;not null;index" json:"expiration_date"`
	CertificateNumber string    `json:"certificate_number"`
	SoftDeleteFields
}

// TableName fixe le nom de la table en base
func (OnlineTraining) TableName() string {
	return "online_trainings"
}

// GetID retourne l'identifiant de l'enregistrement
func (o *OnlineTraining) GetID() uint {
	return o.ID
}

// FieldValues retourne un instantané des champs persistés, hors identifiant
func (o *OnlineTraining) FieldValues() map[string]any {
	values := map[string]any{
		"created_at":         o.CreatedAt,
		"updated_at":         o.UpdatedAt,
		"employee_id":        o.EmployeeID,
		"name":               o.Name,
		"provider":           o.Provider,
		"completion_date":    o.CompletionDate,
		"expiration_date":    o.ExpirationDate,
		"certificate_number": o.CertificateNumber,
	}
	o.softDeleteValues(values)
	return values
}

// SetFieldValue affecte un champ par son nom persisté
func (o *OnlineTraining) SetFieldValue(name string, value any) error {
	if handled, err := o.setSoftDeleteValue(name, value); handled {
		return err
	}

	switch name {
	case "created_at":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		o.CreatedAt = v
	case "updated_at":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		o.UpdatedAt = v
	case "employee_id":
		v, err := asUint(name, value)
		if err != nil {
			return err
		}
		o.EmployeeID = v
	case "name":
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		o.Name = v
	case "provider":
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		o.Provider = v
	case "completion_date":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		o.CompletionDate = v
	case "expiration_date":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		o.ExpirationDate = v
	case "certificate_number":
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		o.CertificateNumber = v
	default:
		return errUnknownField(name)
	}
	return nil
}
