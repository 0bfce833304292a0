package models

import "time"

// Conversion explicite des valeurs d'instantané vers les champs des
// modèles. Pas de réflexion : chaque modèle expose FieldValues et
// SetFieldValue pour le gestionnaire d'annulation.

func asString(name string, value any) (string, error) {
	v, ok := value.(string)
	if !ok {
		return "", errFieldType(name)
	}
	return v, nil
}

func asBool(name string, value any) (bool, error) {
	v, ok := value.(bool)
	if !ok {
		return false, errFieldType(name)
	}
	return v, nil
}

func asUint(name string, value any) (uint, error) {
	v, ok := value.(uint)
	if !ok {
		return 0, errFieldType(name)
	}
	return v, nil
}

func asTime(name string, value any) (time.Time, error) {
	v, ok := value.(time.Time)
	if !ok {
		return time.Time{}, errFieldType(name)
	}
	return v, nil
}

func asTimePtr(name string, value any) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	v, ok := value.(*time.Time)
	if !ok {
		return nil, errFieldType(name)
	}
	return copyTime(v), nil
}

// softDeleteValues ajoute les champs de suppression logique à un instantané
func (s *SoftDeleteFields) softDeleteValues(dst map[string]any) {
	dst["is_deleted"] = s.IsDeleted
	dst["deleted_at"] = copyTime(s.DeletedAt)
	dst["delete_reason"] = s.DeleteReason
	dst["deleted_by"] = s.DeletedBy
}

// setSoftDeleteValue traite les champs de suppression logique ;
// retourne false si le champ n'en fait pas partie
func (s *SoftDeleteFields) setSoftDeleteValue(name string, value any) (bool, error) {
	switch name {
	case "is_deleted":
		v, err := asBool(name, value)
		if err != nil {
			return true, err
		}
		s.IsDeleted = v
	case "deleted_at":
		v, err := asTimePtr(name, value)
		if err != nil {
			return true, err
		}
		s.DeletedAt = v
	case "delete_reason":
		v, err := asString(name, value)
		if err != nil {
			return true, err
		}
		s.DeleteReason = v
	case "deleted_by":
		v, err := asString(name, value)
		if err != nil {
			return true, err
		}
		s.DeletedBy = v
	default:
		return false, nil
	}
	return true, nil
}
