package undo

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecord - enregistrement en mémoire avec suppression logique
type fakeRecord struct {
	id           uint
	fields       map[string]any
	deleted      bool
	deleteReason string
	deletedBy    string
	saveErr      error
	saveCalls    int
}

func (r *fakeRecord) ID() uint { return r.id }

func (r *fakeRecord) Snapshot() map[string]any {
	snapshot := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		snapshot[k] = v
	}
	return snapshot
}

func (r *fakeRecord) SetField(name string, value any) error {
	if _, ok := r.fields[name]; !ok {
		return fmt.Errorf("champ inconnu: %s", name)
	}
	r.fields[name] = value
	return nil
}

func (r *fakeRecord) Save() error {
	r.saveCalls++
	return r.saveErr
}

func (r *fakeRecord) SoftDelete(reason, deletedBy string) error {
	r.deleted = true
	r.deleteReason = reason
	r.deletedBy = deletedBy
	return nil
}

func (r *fakeRecord) Restore() error {
	r.deleted = false
	r.deleteReason = ""
	return nil
}

func (r *fakeRecord) IsDeleted() bool { return r.deleted }

// plainRecord - enregistrement sans capacité de suppression logique
type plainRecord struct {
	fakeRecord
}

// Le type embarquant masque les méthodes de suppression derrière un
// type distinct qui ne satisfait pas SoftDeletable
func (r *plainRecord) SoftDelete(reason string) {}

type fakeStore struct {
	records map[string]map[uint]Record
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]map[uint]Record)}
}

func (s *fakeStore) add(itemType string, record Record) {
	if s.records[itemType] == nil {
		s.records[itemType] = make(map[uint]Record)
	}
	s.records[itemType][record.ID()] = record
}

func (s *fakeStore) GetByID(itemType string, id uint) (Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	record, ok := s.records[itemType][id]
	if !ok {
		return nil, errors.New("enregistrement introuvable")
	}
	return record, nil
}

func employeeRecord(id uint) *fakeRecord {
	return &fakeRecord{
		id: id,
		fields: map[string]any{
			"first_name": "Marie",
			"last_name":  "Durand",
			"position":   "cariste",
			"created_at": time.Date(2026, 1, 5, 9, 0, 0, 0, time.Local),
			"updated_at": time.Date(2026, 1, 5, 9, 0, 0, 0, time.Local),
		},
	}
}

func TestDeleteActionUndoRestores(t *testing.T) {
	store := newFakeStore()
	rec := employeeRecord(12)
	rec.deleted = true
	store.add("employee", rec)

	action := NewDeleteAction(store, rec, "Suppression de Marie Durand", "employee")
	assert.Equal(t, KindDelete, action.Kind())
	assert.True(t, action.Execute())
	assert.Equal(t, uint(12), action.RecordID())
	assert.Equal(t, "employee", action.ItemType())

	assert.True(t, action.Undo())
	assert.False(t, rec.deleted)

	assert.True(t, action.Redo())
	assert.True(t, rec.deleted)
	assert.Equal(t, "Redo of delete action", rec.deleteReason)
	assert.Empty(t, rec.deletedBy)
}

func TestDeleteActionFailsOnMissingRecord(t *testing.T) {
	store := newFakeStore()
	rec := employeeRecord(12)
	action := NewDeleteAction(store, rec, "Suppression", "employee")

	// L'enregistrement n'est pas dans le magasin : échec propre, sans panique
	assert.False(t, action.Undo())
	assert.False(t, action.Redo())
}

func TestDeleteActionFailsWithoutSoftDeleteCapability(t *testing.T) {
	store := newFakeStore()
	rec := &plainRecord{fakeRecord: *employeeRecord(7)}
	store.add("employee", rec)

	action := NewDeleteAction(store, rec, "Suppression", "employee")
	assert.False(t, action.Undo())
	assert.False(t, action.Redo())
}

func TestUpdateActionAppliesOldAndNewValues(t *testing.T) {
	store := newFakeStore()
	rec := employeeRecord(3)
	rec.fields["position"] = "préparateur"
	store.add("employee", rec)

	oldValues := map[string]any{"position": "cariste"}
	newValues := map[string]any{"position": "préparateur"}
	action := NewUpdateAction(store, rec, oldValues, newValues, "Changement de poste", "employee")
	assert.Equal(t, KindUpdate, action.Kind())

	assert.True(t, action.Undo())
	assert.Equal(t, "cariste", rec.fields["position"])
	assert.Equal(t, 1, rec.saveCalls)

	assert.True(t, action.Redo())
	assert.Equal(t, "préparateur", rec.fields["position"])
	assert.Equal(t, 2, rec.saveCalls)
}

func TestUpdateActionCopiesValueMaps(t *testing.T) {
	store := newFakeStore()
	rec := employeeRecord(3)
	store.add("employee", rec)

	contractEnd := time.Date(2026, 12, 31, 0, 0, 0, 0, time.Local)
	oldValues := map[string]any{"position": "cariste", "contract_end": &contractEnd}
	newValues := map[string]any{"position": "chef d'équipe"}
	rec.fields["contract_end"] = &contractEnd
	action := NewUpdateAction(store, rec, oldValues, newValues, "Changement", "employee")

	// La mutation ultérieure des valeurs de l'appelant ne doit pas
	// toucher l'historique enregistré
	oldValues["position"] = "corrompu"
	contractEnd = time.Date(2030, 1, 1, 0, 0, 0, 0, time.Local)

	assert.True(t, action.Undo())
	assert.Equal(t, "cariste", rec.fields["position"])
	applied := rec.fields["contract_end"].(*time.Time)
	assert.Equal(t, 2026, applied.Year())
}

func TestUpdateActionFailsOnStoreError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("base fermée")
	rec := employeeRecord(3)

	action := NewUpdateAction(store, rec, map[string]any{"position": "cariste"}, nil, "Changement", "employee")
	assert.False(t, action.Undo())
}

func TestUpdateActionFailsOnUnknownField(t *testing.T) {
	store := newFakeStore()
	rec := employeeRecord(3)
	store.add("employee", rec)

	action := NewUpdateAction(store, rec, map[string]any{"salaire": 1800}, nil, "Changement", "employee")
	assert.False(t, action.Undo())
	assert.Equal(t, 0, rec.saveCalls)
}

func TestCreateActionUndoSoftDeletes(t *testing.T) {
	store := newFakeStore()
	rec := employeeRecord(9)
	store.add("employee", rec)

	action := NewCreateAction(store, rec, "Création de Marie Durand", "employee")
	assert.Equal(t, KindCreate, action.Kind())

	assert.True(t, action.Undo())
	assert.True(t, rec.deleted)
	assert.Equal(t, "Undo of create action", rec.deleteReason)
}

func TestCreateActionRedoRestoresSnapshot(t *testing.T) {
	store := newFakeStore()
	rec := employeeRecord(9)
	createdAt := rec.fields["created_at"]
	store.add("employee", rec)

	action := NewCreateAction(store, rec, "Création", "employee")
	require.True(t, action.Undo())

	// L'enregistrement dérive après la suppression
	rec.fields["position"] = "autre poste"
	mutatedCreation := time.Date(2030, 6, 1, 0, 0, 0, 0, time.Local)
	rec.fields["created_at"] = mutatedCreation

	require.True(t, action.Redo())
	assert.False(t, rec.deleted)
	assert.Equal(t, "cariste", rec.fields["position"])
	// Les horodatages d'audit ne font pas partie de l'instantané de création
	assert.Equal(t, mutatedCreation, rec.fields["created_at"])
	assert.NotEqual(t, createdAt, rec.fields["created_at"])
	assert.Equal(t, 1, rec.saveCalls)
}

func TestActionIDsAreMonotonic(t *testing.T) {
	store := newFakeStore()
	rec := employeeRecord(1)

	a := NewCreateAction(store, rec, "a", "employee")
	b := NewDeleteAction(store, rec, "b", "employee")
	c := NewUpdateAction(store, rec, nil, nil, "c", "employee")

	assert.Less(t, a.ActionID(), b.ActionID())
	assert.Less(t, b.ActionID(), c.ActionID())
	assert.False(t, a.Timestamp().IsZero())
	assert.Equal(t, "a", a.Description())
}

func TestConvenienceRecordersUseSingleton(t *testing.T) {
	ResetInstance()
	t.Cleanup(ResetInstance)

	store := newFakeStore()
	rec := employeeRecord(4)
	rec.deleted = true
	store.add("employee", rec)

	RecordDelete(store, rec, "Suppression de Marie Durand", "employee")
	RecordUpdate(store, rec, map[string]any{"position": "cariste"}, map[string]any{"position": "chef"}, "Changement", "employee")
	RecordCreate(store, rec, "Création", "employee")

	history := Instance().History()
	require.Len(t, history.Undo, 3)
	assert.Equal(t, KindCreate, history.Undo[0].Type)
	assert.Equal(t, KindUpdate, history.Undo[1].Type)
	assert.Equal(t, KindDelete, history.Undo[2].Type)
}
