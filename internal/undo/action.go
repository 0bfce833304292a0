package undo

import (
	"sync/atomic"
	"time"
)

// Kind - nature d'une action annulable
type Kind string

const (
	KindDelete Kind = "delete"
	KindUpdate Kind = "update"
	KindCreate Kind = "create"
)

// Motifs système appliqués lors des suppressions déclenchées par
// l'historique lui-même, sans acteur particulier
const (
	deleteRedoReason = "Redo of delete action"
	createUndoReason = "Undo of create action"
)

// Champs d'audit exclus des instantanés de création
var auditFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
}

// Action - une opération enregistrée a posteriori : l'effet réel a déjà
// eu lieu avant l'enregistrement, Execute ne fait que le confirmer.
// Undo applique l'effet inverse, Redo ré-applique l'effet direct.
type Action interface {
	ActionID() int64
	Description() string
	Timestamp() time.Time
	Kind() Kind
	Execute() bool
	Undo() bool
	Redo() bool
}

// Compteur global d'identifiants d'actions, croissant sur la durée de
// vie du processus
var actionCounter int64

func nextActionID() int64 {
	return atomic.AddInt64(&actionCounter, 1)
}

type baseAction struct {
	id          int64
	description string
	timestamp   time.Time
}

func newBaseAction(description string) baseAction {
	return baseAction{
		id:          nextActionID(),
		description: description,
		timestamp:   time.Now(),
	}
}

func (a *baseAction) ActionID() int64 {
	return a.id
}

func (a *baseAction) Description() string {
	return a.description
}

func (a *baseAction) Timestamp() time.Time {
	return a.timestamp
}

// cloneFieldMap copie défensivement une table de valeurs de champs.
// Les valeurs sont des scalaires ou des identifiants de clés
// étrangères ; les dates pointées reçoivent leur propre copie pour
// qu'une mutation ultérieure de l'enregistrement d'origine ne puisse
// pas corrompre l'historique.
func cloneFieldMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for name, value := range src {
		if t, ok := value.(*time.Time); ok && t != nil {
			c := *t
			dst[name] = &c
			continue
		}
		dst[name] = value
	}
	return dst
}

// DeleteAction - suppression logique déjà effectuée, annulable par
// restauration. Construite à partir de l'enregistrement déjà supprimé.
type DeleteAction struct {
	baseAction
	store    RecordStore
	itemType string
	recordID uint
	snapshot map[string]any
}

// NewDeleteAction capture l'instantané de l'enregistrement supprimé
func NewDeleteAction(store RecordStore, record Record, description, itemType string) *DeleteAction {
	return &DeleteAction{
		baseAction: newBaseAction(description),
		store:      store,
		itemType:   itemType,
		recordID:   record.ID(),
		snapshot:   cloneFieldMap(record.Snapshot()),
	}
}

func (a *DeleteAction) Kind() Kind {
	return KindDelete
}

// Execute confirme la suppression, déjà effectuée avant l'enregistrement
func (a *DeleteAction) Execute() bool {
	return true
}

// Undo restaure l'enregistrement supprimé logiquement
func (a *DeleteAction) Undo() bool {
	record, err := a.store.GetByID(a.itemType, a.recordID)
	if err != nil || record == nil {
		return false
	}
	sd, ok := record.(SoftDeletable)
	if !ok {
		return false
	}
	return sd.Restore() == nil
}

// Redo supprime à nouveau, avec un motif système
func (a *DeleteAction) Redo() bool {
	record, err := a.store.GetByID(a.itemType, a.recordID)
	if err != nil || record == nil {
		return false
	}
	sd, ok := record.(SoftDeletable)
	if !ok {
		return false
	}
	return sd.SoftDelete(deleteRedoReason, "") == nil
}

// ItemType retourne l'étiquette de type de l'élément visé
func (a *DeleteAction) ItemType() string {
	return a.itemType
}

// RecordID retourne l'identifiant de l'enregistrement visé
func (a *DeleteAction) RecordID() uint {
	return a.recordID
}

// UpdateAction - modification annulable par retour aux anciennes
// valeurs. Les deux tables de valeurs sont copiées à l'enregistrement.
type UpdateAction struct {
	baseAction
	store     RecordStore
	itemType  string
	recordID  uint
	oldValues map[string]any
	newValues map[string]any
}

// NewUpdateAction copie défensivement les anciennes et nouvelles valeurs
func NewUpdateAction(store RecordStore, record Record, oldValues, newValues map[string]any, description, itemType string) *UpdateAction {
	return &UpdateAction{
		baseAction: newBaseAction(description),
		store:      store,
		itemType:   itemType,
		recordID:   record.ID(),
		oldValues:  cloneFieldMap(oldValues),
		newValues:  cloneFieldMap(newValues),
	}
}

func (a *UpdateAction) Kind() Kind {
	return KindUpdate
}

// Execute confirme la modification, déjà effectuée avant l'enregistrement
func (a *UpdateAction) Execute() bool {
	return true
}

// Undo ré-applique les anciennes valeurs
func (a *UpdateAction) Undo() bool {
	return a.applyValues(a.oldValues)
}

// Redo ré-applique les nouvelles valeurs
func (a *UpdateAction) Redo() bool {
	return a.applyValues(a.newValues)
}

func (a *UpdateAction) applyValues(values map[string]any) bool {
	record, err := a.store.GetByID(a.itemType, a.recordID)
	if err != nil || record == nil {
		return false
	}
	for name, value := range values {
		if err := record.SetField(name, value); err != nil {
			return false
		}
	}
	return record.Save() == nil
}

// CreateAction - création annulable par suppression logique.
// L'instantané exclut l'identifiant et les horodatages d'audit.
type CreateAction struct {
	baseAction
	store    RecordStore
	itemType string
	recordID uint
	snapshot map[string]any
}

// NewCreateAction capture l'instantané de l'enregistrement créé
func NewCreateAction(store RecordStore, record Record, description, itemType string) *CreateAction {
	snapshot := cloneFieldMap(record.Snapshot())
	for field := range auditFields {
		delete(snapshot, field)
	}
	return &CreateAction{
		baseAction: newBaseAction(description),
		store:      store,
		itemType:   itemType,
		recordID:   record.ID(),
		snapshot:   snapshot,
	}
}

func (a *CreateAction) Kind() Kind {
	return KindCreate
}

// Execute confirme la création, déjà effectuée avant l'enregistrement
func (a *CreateAction) Execute() bool {
	return true
}

// Undo supprime logiquement l'élément créé, avec un motif système
func (a *CreateAction) Undo() bool {
	record, err := a.store.GetByID(a.itemType, a.recordID)
	if err != nil || record == nil {
		return false
	}
	sd, ok := record.(SoftDeletable)
	if !ok {
		return false
	}
	return sd.SoftDelete(createUndoReason, "") == nil
}

// Redo restaure l'élément s'il est supprimé puis ré-applique
// l'instantané capturé à la création
func (a *CreateAction) Redo() bool {
	record, err := a.store.GetByID(a.itemType, a.recordID)
	if err != nil || record == nil {
		return false
	}
	sd, ok := record.(SoftDeletable)
	if !ok {
		return false
	}
	if sd.IsDeleted() {
		if sd.Restore() != nil {
			return false
		}
	}
	for name, value := range a.snapshot {
		if err := record.SetField(name, value); err != nil {
			return false
		}
	}
	return record.Save() == nil
}
