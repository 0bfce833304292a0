package repository

import (
	"testing"
	"time"

	"warehouse-docs/internal/models"
	"warehouse-docs/internal/undo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStoreGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo, err := NewGormEmployeeRepository(db)
	require.NoError(t, err)
	store := NewGormRecordStore(db)

	employee := newEmployee("Julie", "Bernard")
	require.NoError(t, repo.Create(employee))

	record, err := store.GetByID(models.ItemTypeEmployee, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, employee.ID, record.ID())

	snapshot := record.Snapshot()
	assert.Equal(t, "Julie", snapshot["first_name"])
	assert.NotContains(t, snapshot, "id")

	_, err = store.GetByID(models.ItemTypeEmployee, 9999)
	assert.Error(t, err)

	_, err = store.GetByID("vehicule", employee.ID)
	assert.Error(t, err)
}

func TestRecordSetFieldAndSave(t *testing.T) {
	db := setupTestDB(t)
	repo, err := NewGormEmployeeRepository(db)
	require.NoError(t, err)
	store := NewGormRecordStore(db)

	employee := newEmployee("Julie", "Bernard")
	require.NoError(t, repo.Create(employee))

	record, err := store.GetByID(models.ItemTypeEmployee, employee.ID)
	require.NoError(t, err)
	require.NoError(t, record.SetField("position", "chef d'équipe"))
	assert.Error(t, record.SetField("salaire", 1800))
	require.NoError(t, record.Save())

	got, err := repo.GetByID(employee.ID)
	require.NoError(t, err)
	assert.Equal(t, "chef d'équipe", got.Position)
}

func TestRecordSoftDeleteCapability(t *testing.T) {
	db := setupTestDB(t)
	repo, err := NewGormCacesRepository(db)
	require.NoError(t, err)
	store := NewGormRecordStore(db)

	caces := &models.Caces{
		EmployeeID:     1,
		Category:       models.CacesR489Cat3,
		ObtainedDate:   time.Now().AddDate(-1, 0, 0),
		ExpirationDate: time.Now().AddDate(4, 0, 0),
	}
	require.NoError(t, repo.Create(caces))

	record, err := store.GetByID(models.ItemTypeCaces, caces.ID)
	require.NoError(t, err)

	sd, ok := record.(undo.SoftDeletable)
	require.True(t, ok)
	assert.False(t, sd.IsDeleted())
	require.NoError(t, sd.SoftDelete("motif système", ""))

	got, err := repo.GetByID(caces.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted())
	assert.Equal(t, "motif système", got.DeleteReason)

	require.NoError(t, sd.Restore())
	got, err = repo.GetByID(caces.ID)
	require.NoError(t, err)
	assert.False(t, got.Deleted())
}

// Scénario complet : suppression puis annulation et rétablissement à
// travers le gestionnaire, contre une vraie base SQLite
func TestUndoRedoAgainstDatabase(t *testing.T) {
	db := setupTestDB(t)
	employeeRepo, err := NewGormEmployeeRepository(db)
	require.NoError(t, err)
	store := NewGormRecordStore(db)
	manager := undo.NewManager(10)

	employee := newEmployee("Luc", "Moreau")
	require.NoError(t, employeeRepo.Create(employee))

	// Suppression déjà effectuée, puis enregistrement de l'action
	require.NoError(t, employeeRepo.SoftDelete(employee.ID, "départ", "rh"))
	record, err := store.GetByID(models.ItemTypeEmployee, employee.ID)
	require.NoError(t, err)
	manager.RecordAction(undo.NewDeleteAction(store, record, "Suppression de Luc Moreau", models.ItemTypeEmployee))

	// Undo restaure l'enregistrement en base
	require.NotNil(t, manager.Undo())
	got, err := employeeRepo.GetByID(employee.ID)
	require.NoError(t, err)
	assert.False(t, got.Deleted())

	// Redo supprime à nouveau, avec le motif système
	require.NotNil(t, manager.Redo())
	got, err = employeeRepo.GetByID(employee.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted())
	assert.Equal(t, "Redo of delete action", got.DeleteReason)
}

func TestUpdateActionRevertsDatabaseValues(t *testing.T) {
	db := setupTestDB(t)
	employeeRepo, err := NewGormEmployeeRepository(db)
	require.NoError(t, err)
	store := NewGormRecordStore(db)
	manager := undo.NewManager(10)

	employee := newEmployee("Nina", "Petit")
	require.NoError(t, employeeRepo.Create(employee))

	oldValues := map[string]any{"position": employee.Position}
	employee.Position = "préparateur de commandes"
	newValues := map[string]any{"position": employee.Position}
	require.NoError(t, employeeRepo.Update(employee))

	record, err := store.GetByID(models.ItemTypeEmployee, employee.ID)
	require.NoError(t, err)
	manager.RecordAction(undo.NewUpdateAction(store, record, oldValues, newValues, "Changement de poste", models.ItemTypeEmployee))

	require.NotNil(t, manager.Undo())
	got, err := employeeRepo.GetByID(employee.ID)
	require.NoError(t, err)
	assert.Equal(t, "cariste", got.Position)

	require.NotNil(t, manager.Redo())
	got, err = employeeRepo.GetByID(employee.ID)
	require.NoError(t, err)
	assert.Equal(t, "préparateur de commandes", got.Position)
}
