package undo

// Record - accès générique à un enregistrement persistant pour les
// actions d'annulation : lecture d'instantané, affectation de champs
// par nom et sauvegarde. L'instantané exclut toujours l'identifiant et
// capture les clés étrangères par leur identifiant référencé.
type Record interface {
	ID() uint
	Snapshot() map[string]any
	SetField(name string, value any) error
	Save() error
}

// SoftDeletable - capacité optionnelle de suppression logique, sondée
// par assertion de type. Un enregistrement qui ne l'implémente pas fait
// simplement échouer le chemin undo/redo correspondant.
type SoftDeletable interface {
	SoftDelete(reason, deletedBy string) error
	Restore() error
	IsDeleted() bool
}

// RecordStore - récupération d'un enregistrement par type d'élément et
// identifiant au moment de l'annulation (aller-retour vers la base).
type RecordStore interface {
	GetByID(itemType string, id uint) (Record, error)
}
