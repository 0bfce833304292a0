package undo

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultMaxHistory - profondeur d'historique par défaut
const DefaultMaxHistory = 100

// HistoryEntry - vue d'une action pour l'affichage de l'historique
type HistoryEntry struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Type        Kind      `json:"type"`
}

// History - contenu des deux piles, du plus récent au plus ancien
type History struct {
	Undo []HistoryEntry `json:"undo"`
	Redo []HistoryEntry `json:"redo"`
}

// Manager maintient deux piles bornées d'actions annulables. Une action
// vit dans exactement une pile à la fois : Undo et Redo la déplacent,
// jamais ne la dupliquent. Aucun verrou interne : comme le reste de
// l'application, le gestionnaire vit sur le fil d'interface.
type Manager struct {
	undoStack  []Action
	redoStack  []Action
	maxHistory int

	undoCallbacks    []func()
	redoCallbacks    []func()
	historyCallbacks []func()

	logger *logrus.Logger
}

// NewManager construit un gestionnaire indépendant, à posséder par le
// contexte applicatif. maxHistory non positif retombe sur la valeur
// par défaut.
func NewManager(maxHistory int) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Manager{
		maxHistory: maxHistory,
		logger:     logger,
	}
}

// Instance globale unique, créée au premier accès
var (
	instanceMu sync.Mutex
	instance   *Manager
)

// Instance retourne le gestionnaire global du processus, créé avec la
// profondeur par défaut au premier appel.
func Instance() *Manager {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = NewManager(DefaultMaxHistory)
	}
	return instance
}

// ResetInstance jette l'instance globale et son historique.
// Réservé à l'isolation des tests.
func ResetInstance() {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	instance = nil
}

// RecordAction empile une action sur la pile d'annulation. Toute
// nouvelle action invalide l'historique de rétablissement ; au-delà de
// maxHistory, la plus ancienne action est évincée.
func (m *Manager) RecordAction(action Action) {
	m.undoStack = append(m.undoStack, action)
	m.redoStack = m.redoStack[:0]

	if len(m.undoStack) > m.maxHistory {
		copy(m.undoStack, m.undoStack[1:])
		m.undoStack[len(m.undoStack)-1] = nil
		m.undoStack = m.undoStack[:len(m.undoStack)-1]
	}

	m.notifyHistoryChanged()
}

// Undo annule l'action la plus récente et la déplace vers la pile de
// rétablissement. En cas d'échec l'action reste au sommet de la pile
// d'annulation, prête pour une nouvelle tentative, et nil est retourné.
func (m *Manager) Undo() Action {
	n := len(m.undoStack)
	if n == 0 {
		return nil
	}

	action := m.undoStack[n-1]
	m.undoStack = m.undoStack[:n-1]

	if !action.Undo() {
		m.undoStack = append(m.undoStack, action)
		m.logger.WithField("action", action.Description()).Warn("Undo failed, action kept on stack")
		return nil
	}

	m.redoStack = append(m.redoStack, action)
	m.notifyHistoryChanged()
	return action
}

// Redo rétablit l'action la plus récemment annulée, symétrique de Undo
func (m *Manager) Redo() Action {
	n := len(m.redoStack)
	if n == 0 {
		return nil
	}

	action := m.redoStack[n-1]
	m.redoStack = m.redoStack[:n-1]

	if !action.Redo() {
		m.redoStack = append(m.redoStack, action)
		m.logger.WithField("action", action.Description()).Warn("Redo failed, action kept on stack")
		return nil
	}

	m.undoStack = append(m.undoStack, action)
	m.notifyHistoryChanged()
	return action
}

// CanUndo indique si une annulation est possible
func (m *Manager) CanUndo() bool {
	return len(m.undoStack) > 0
}

// CanRedo indique si un rétablissement est possible
func (m *Manager) CanRedo() bool {
	return len(m.redoStack) > 0
}

// UndoDescription retourne la description de la prochaine annulation,
// sans dépiler
func (m *Manager) UndoDescription() (string, bool) {
	if n := len(m.undoStack); n > 0 {
		return m.undoStack[n-1].Description(), true
	}
	return "", false
}

// RedoDescription retourne la description du prochain rétablissement,
// sans dépiler
func (m *Manager) RedoDescription() (string, bool) {
	if n := len(m.redoStack); n > 0 {
		return m.redoStack[n-1].Description(), true
	}
	return "", false
}

// ClearHistory vide les deux piles
func (m *Manager) ClearHistory() {
	m.undoStack = nil
	m.redoStack = nil
	m.notifyHistoryChanged()
}

// History retourne le contenu des deux piles, du plus récent au plus ancien
func (m *Manager) History() History {
	history := History{
		Undo: make([]HistoryEntry, 0, len(m.undoStack)),
		Redo: make([]HistoryEntry, 0, len(m.redoStack)),
	}
	for i := len(m.undoStack) - 1; i >= 0; i-- {
		history.Undo = append(history.Undo, historyEntry(m.undoStack[i]))
	}
	for i := len(m.redoStack) - 1; i >= 0; i-- {
		history.Redo = append(history.Redo, historyEntry(m.redoStack[i]))
	}
	return history
}

func historyEntry(action Action) HistoryEntry {
	return HistoryEntry{
		ID:          action.ActionID(),
		Description: action.Description(),
		Timestamp:   action.Timestamp(),
		Type:        action.Kind(),
	}
}

// RegisterUndoCallback enregistre un observateur du changement de
// disponibilité d'annulation
func (m *Manager) RegisterUndoCallback(callback func()) {
	m.undoCallbacks = append(m.undoCallbacks, callback)
}

// RegisterRedoCallback enregistre un observateur du changement de
// disponibilité de rétablissement
func (m *Manager) RegisterRedoCallback(callback func()) {
	m.redoCallbacks = append(m.redoCallbacks, callback)
}

// RegisterHistoryCallback enregistre un observateur des changements
// d'historique
func (m *Manager) RegisterHistoryCallback(callback func()) {
	m.historyCallbacks = append(m.historyCallbacks, callback)
}

// notifyHistoryChanged prévient les observateurs. Un observateur qui
// panique ne doit ni empêcher les suivants ni corrompre les piles.
func (m *Manager) notifyHistoryChanged() {
	for _, callback := range m.historyCallbacks {
		m.safeInvoke(callback)
	}
}

func (m *Manager) safeInvoke(callback func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.WithField("panic", r).Warn("History callback panicked")
		}
	}()
	callback()
}

// Points d'entrée de commodité sur l'instance globale : les formulaires
// n'ont besoin que de ces trois fonctions après leurs écritures.

// RecordDelete enregistre une action de suppression déjà effectuée
func RecordDelete(store RecordStore, record Record, description, itemType string) {
	Instance().RecordAction(NewDeleteAction(store, record, description, itemType))
}

// RecordUpdate enregistre une action de modification déjà effectuée
func RecordUpdate(store RecordStore, record Record, oldValues, newValues map[string]any, description, itemType string) {
	Instance().RecordAction(NewUpdateAction(store, record, oldValues, newValues, description, itemType))
}

// RecordCreate enregistre une action de création déjà effectuée
func RecordCreate(store RecordStore, record Record, description, itemType string) {
	Instance().RecordAction(NewCreateAction(store, record, description, itemType))
}
