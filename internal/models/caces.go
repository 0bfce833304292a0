package models

import "time"

// Catégories CACES courantes en entrepôt (recommandation R489)
const (
	CacesR489Cat1A = "R489-1A"
	CacesR489Cat1B = "R489-1B"
	CacesR489Cat3  = "R489-3"
	CacesR489Cat5  = "R489-5"
	CacesR485Cat2  = "R485-2"
)

// Caces - certificat d'aptitude à la conduite d'engins.
// La clé étrangère est capturée par son identifiant dans les
// instantanés, jamais par l'objet employé lui-même.
type Caces struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	EmployeeID     uint      `gorm:"not null;index" json:"employee_id"`
	Category       string    `gorm:"type:varchar(20);not null" json:"category"`
	ObtainedDate   time.Time `gorm:"type:date;not null" json:"obtained_date"`
	ExpirationDate time.Time `gorm:"type:date;not null;index" json:"expiration_date"`
	SoftDeleteFields
}

// TableName fixe le nom de la table en base
func (Caces) TableName() string {
	return "caces"
}

// GetID retourne l'identifiant de l'enregistrement
func (c *Caces) GetID() uint {
	return c.ID
}

// FieldValues retourne un instantané des champs persistés, hors identifiant
func (c *Caces) FieldValues() map[string]any {
	values := map[string]any{
		"created_at":      c.CreatedAt,
		"updated_at":      c.UpdatedAt,
		"employee_id":     c.EmployeeID,
		"category":        c.Category,
		"obtained_date":   c.ObtainedDate,
		"expiration_date": c.ExpirationDate,
	}
	c.softDeleteValues(values)
	return values
}

// SetFieldValue affecte un champ par son nom persisté
func (c *Caces) SetFieldValue(name string, value any) error {
	if handled, err := c.setSoftDeleteValue(name, value); handled {
		return err
	}

	switch name {
	case "created_at":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		c.CreatedAt = v
	case "updated_at":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		c.UpdatedAt = v
	case "employee_id":
		v, err := asUint(name, value)
		if err != nil {
			return err
		}
		c.EmployeeID = v
	case "category":
		v, err := asString(name, value)
		if err != nil {
			return err
		}
		c.Category = v
	case "obtained_date":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		c.ObtainedDate = v
	case "expiration_date":
		v, err := asTime(name, value)
		if err != nil {
			return err
		}
		c.ExpirationDate = v
	default:
		return errUnknownField(name)
	}
	return nil
}
