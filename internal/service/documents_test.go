package service

import (
	"testing"
	"time"

	"warehouse-docs/internal/models"
	"warehouse-docs/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type documentFixture struct {
	*fixture
	caces    *CacesService
	medical  *MedicalVisitService
	training *TrainingService
	empID    uint
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()
	f := newFixture(t)

	cacesRepo, err := repository.NewGormCacesRepository(f.db)
	require.NoError(t, err)
	medicalRepo, err := repository.NewGormMedicalVisitRepository(f.db)
	require.NoError(t, err)
	trainingRepo, err := repository.NewGormTrainingRepository(f.db)
	require.NoError(t, err)

	employee, err := f.employee.CreateEmployee("Marie", "Durand", "cariste", models.ContractTypeCDI, time.Now(), nil)
	require.NoError(t, err)
	f.history.ClearHistory()

	return &documentFixture{
		fixture:  f,
		caces:    NewCacesService(cacesRepo, f.empRepo, f.store, f.history),
		medical:  NewMedicalVisitService(medicalRepo, f.empRepo, f.store, f.history),
		training: NewTrainingService(trainingRepo, f.empRepo, f.store, f.history),
		empID:    employee.ID,
	}
}

func TestAddCacesRecordsUndoableAction(t *testing.T) {
	f := newDocumentFixture(t)
	now := time.Now()

	caces, err := f.caces.AddCaces(f.empID, models.CacesR489Cat3, now, now.AddDate(5, 0, 0))
	require.NoError(t, err)

	desc, ok := f.history.UndoDescription()
	require.True(t, ok)
	assert.Contains(t, desc, "R489-3")
	assert.Contains(t, desc, "Marie Durand")

	require.NotNil(t, f.history.Undo())
	list, err := f.caces.ListByEmployee(f.empID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NotNil(t, f.history.Redo())
	list, err = f.caces.ListByEmployee(f.empID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, caces.ID, list[0].ID)
}

func TestAddCacesValidation(t *testing.T) {
	f := newDocumentFixture(t)
	now := time.Now()

	_, err := f.caces.AddCaces(f.empID, "", now, now.AddDate(5, 0, 0))
	assert.Error(t, err)

	_, err = f.caces.AddCaces(f.empID, models.CacesR489Cat3, now, now.AddDate(-1, 0, 0))
	assert.Error(t, err)

	_, err = f.caces.AddCaces(9999, models.CacesR489Cat3, now, now.AddDate(5, 0, 0))
	assert.Error(t, err)

	assert.False(t, f.history.CanUndo())
}

func TestUpdateCacesUndoRevertsDates(t *testing.T) {
	f := newDocumentFixture(t)
	now := time.Now().Truncate(time.Second)

	caces, err := f.caces.AddCaces(f.empID, models.CacesR489Cat5, now.AddDate(-4, 0, 0), now.AddDate(1, 0, 0))
	require.NoError(t, err)

	_, err = f.caces.UpdateCaces(caces.ID, "", now, now.AddDate(5, 0, 0))
	require.NoError(t, err)

	require.NotNil(t, f.history.Undo())
	list, err := f.caces.ListByEmployee(f.empID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, now.AddDate(1, 0, 0).Unix(), list[0].ExpirationDate.Unix())
}

func TestDeleteMedicalVisitUndoRestores(t *testing.T) {
	f := newDocumentFixture(t)
	now := time.Now()

	visit, err := f.medical.AddVisit(f.empID, models.VisitTypeInitial, now, now.AddDate(2, 0, 0), "Dr Lefèvre")
	require.NoError(t, err)

	require.NoError(t, f.medical.DeleteVisit(visit.ID, "doublon", "rh"))
	list, err := f.medical.ListByEmployee(f.empID)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NotNil(t, f.history.Undo())
	list, err = f.medical.ListByEmployee(f.empID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dr Lefèvre", list[0].Doctor)
}

func TestAddVisitDefaultsToPeriodic(t *testing.T) {
	f := newDocumentFixture(t)
	now := time.Now()

	visit, err := f.medical.AddVisit(f.empID, "", now, now.AddDate(2, 0, 0), "")
	require.NoError(t, err)
	assert.Equal(t, models.VisitTypePeriodic, visit.VisitType)
}

func TestUpdateTrainingUndoRedo(t *testing.T) {
	f := newDocumentFixture(t)
	now := time.Now()

	training, err := f.training.AddTraining(f.empID, "Gestes et postures", "ACME Learning", now, now.AddDate(2, 0, 0), "CERT-42")
	require.NoError(t, err)

	_, err = f.training.UpdateTraining(training.ID, "Gestes et postures niveau 2", "ACME Learning", now, now.AddDate(3, 0, 0))
	require.NoError(t, err)

	require.NotNil(t, f.history.Undo())
	list, err := f.training.ListByEmployee(f.empID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Gestes et postures", list[0].Name)

	require.NotNil(t, f.history.Redo())
	list, err = f.training.ListByEmployee(f.empID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Gestes et postures niveau 2", list[0].Name)
}

func TestTrainingValidationRequiresName(t *testing.T) {
	f := newDocumentFixture(t)
	now := time.Now()

	_, err := f.training.AddTraining(f.empID, "", "ACME", now, now.AddDate(1, 0, 0), "")
	assert.Error(t, err)
	assert.False(t, f.history.CanUndo())
}
