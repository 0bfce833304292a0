package alerts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Version du schéma du fichier de configuration
const Version = "1.0"

// DefaultConfigPath - chemin par défaut, relatif au répertoire de travail
const DefaultConfigPath = "config/alert_settings.json"

// Catégories de documents
const (
	CategoryCaces     = "caces"
	CategoryMedical   = "medical"
	CategoryTraining  = "training"
	CategoryContracts = "contracts"
)

var validCategories = []string{CategoryCaces, CategoryMedical, CategoryTraining, CategoryContracts}

// Erreurs de validation des seuils. Un appelant qui ne veut que le
// résultat booléen de la source teste simplement err == nil.
var (
	ErrUnknownCategory      = errors.New("catégorie d'alerte inconnue")
	ErrThresholdNotPositive = errors.New("les seuils doivent être strictement positifs")
	ErrThresholdOrder       = errors.New("les seuils doivent être décroissants (info > warning > alert)")
	ErrCriticalTooHigh      = errors.New("le seuil critique doit être inférieur au seuil d'alerte")
)

// Level - un palier d'alerte. Couleur, libellé et indicateurs de
// notification sont des métadonnées d'affichage opaques : elles ne sont
// pas évaluées par la classification mais doivent survivre au JSON.
type Level struct {
	Days         int    `json:"days"`
	Color        string `json:"color"`
	Label        string `json:"label"`
	Notification bool   `json:"notification"`
	Email        bool   `json:"email"`
}

// Levels - les paliers d'une catégorie, du moins au plus urgent.
// Le palier critique est optionnel et absent du JSON quand il n'existe pas.
type Levels struct {
	Info     Level  `json:"info"`
	Warning  Level  `json:"warning"`
	Alert    Level  `json:"alert"`
	Critical *Level `json:"critical,omitempty"`
}

// CategorySettings - paramètres d'alerte d'une catégorie de documents.
// Invariant : Info.Days > Warning.Days > Alert.Days > 0, et
// Critical.Days < Alert.Days quand le palier critique existe.
type CategorySettings struct {
	Enabled bool   `json:"enabled"`
	Levels  Levels `json:"levels"`
}

// defaultSettings construit les réglages d'usine. Chaque appel retourne
// des copies neuves : aucun état partagé entre instances du gestionnaire.
func defaultSettings() map[string]*CategorySettings {
	return map[string]*CategorySettings{
		CategoryCaces: {
			Enabled: true,
			Levels: Levels{
				Info:     Level{Days: 90, Color: "#FFFF00", Label: "Info"},
				Warning:  Level{Days: 60, Color: "#FFA500", Label: "Warning", Notification: true},
				Alert:    Level{Days: 30, Color: "#FF0000", Label: "Alert", Notification: true},
				Critical: &Level{Days: 7, Color: "#8B0000", Label: "Critical", Notification: true, Email: true},
			},
		},
		CategoryMedical: {
			Enabled: true,
			Levels: Levels{
				Info:     Level{Days: 90, Color: "#FFFF00", Label: "Info"},
				Warning:  Level{Days: 60, Color: "#FFA500", Label: "Warning", Notification: true},
				Alert:    Level{Days: 30, Color: "#FF0000", Label: "Alert", Notification: true},
				Critical: &Level{Days: 7, Color: "#8B0000", Label: "Critical", Notification: true},
			},
		},
		CategoryTraining: {
			Enabled: true,
			Levels: Levels{
				Info:     Level{Days: 60, Color: "#FFFF00", Label: "Info"},
				Warning:  Level{Days: 30, Color: "#FFA500", Label: "Warning", Notification: true},
				Alert:    Level{Days: 14, Color: "#FF0000", Label: "Alert", Notification: true},
				Critical: &Level{Days: 7, Color: "#8B0000", Label: "Critical", Notification: true},
			},
		},
		CategoryContracts: {
			Enabled: true,
			Levels: Levels{
				Info:    Level{Days: 90, Color: "#FFFF00", Label: "Info"},
				Warning: Level{Days: 60, Color: "#FFA500", Label: "Warning", Notification: true},
				Alert:   Level{Days: 30, Color: "#FF0000", Label: "Alert", Notification: true},
			},
		},
	}
}

// Schéma persisté du fichier de configuration
type settingsFile struct {
	Version       string                       `json:"version"`
	LastUpdated   string                       `json:"last_updated"`
	AlertSettings map[string]*CategorySettings `json:"alert_settings"`
}

// Schéma de lecture tolérant : les pointeurs distinguent l'absence
// d'une clé, pour retomber palier par palier sur les valeurs par défaut
type categoryFileEntry struct {
	Enabled *bool `json:"enabled"`
	Levels  struct {
		Info     *Level `json:"info"`
		Warning  *Level `json:"warning"`
		Alert    *Level `json:"alert"`
		Critical *Level `json:"critical"`
	} `json:"levels"`
}

type rawSettingsFile struct {
	Version       string                     `json:"version"`
	AlertSettings map[string]json.RawMessage `json:"alert_settings"`
}

// SettingsManager charge, classe et persiste les seuils d'alerte par
// catégorie de documents. La construction ne peut pas échouer : un
// fichier absent, partiel ou corrompu retombe sur les valeurs d'usine.
type SettingsManager struct {
	configPath string
	settings   map[string]*CategorySettings
	logger     *logrus.Logger
}

// NewSettingsManager construit un gestionnaire lié au chemin donné
// (DefaultConfigPath si vide) et charge la configuration existante.
func NewSettingsManager(configPath string) *SettingsManager {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	m := &SettingsManager{
		configPath: configPath,
		logger:     logger,
	}
	m.settings = m.loadSettings()
	return m
}

func (m *SettingsManager) loadSettings() map[string]*CategorySettings {
	defaults := defaultSettings()

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		// Fichier absent : démarrage sur les valeurs d'usine
		return defaults
	}

	var file rawSettingsFile
	if err := json.Unmarshal(data, &file); err != nil || file.AlertSettings == nil {
		m.logger.WithField("path", m.configPath).Warn("Alert settings file unreadable, falling back to defaults")
		return defaults
	}

	settings := make(map[string]*CategorySettings, len(validCategories))
	for _, category := range validCategories {
		raw, ok := file.AlertSettings[category]
		if !ok {
			settings[category] = defaults[category]
			continue
		}

		var entry categoryFileEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			m.logger.WithField("category", category).Warn("Corrupt category entry, keeping defaults")
			settings[category] = defaults[category]
			continue
		}

		// Fusion palier par palier : une clé absente garde la valeur
		// d'usine de la catégorie
		cs := defaults[category]
		if entry.Enabled != nil {
			cs.Enabled = *entry.Enabled
		}
		if entry.Levels.Info != nil {
			cs.Levels.Info = *entry.Levels.Info
		}
		if entry.Levels.Warning != nil {
			cs.Levels.Warning = *entry.Levels.Warning
		}
		if entry.Levels.Alert != nil {
			cs.Levels.Alert = *entry.Levels.Alert
		}
		if entry.Levels.Critical != nil {
			critical := *entry.Levels.Critical
			cs.Levels.Critical = &critical
		}
		settings[category] = cs
	}

	return settings
}

// SaveSettings sérialise toutes les catégories vers le fichier de
// configuration. Écriture atomique : fichier temporaire puis renommage.
func (m *SettingsManager) SaveSettings() error {
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0o755); err != nil {
		return fmt.Errorf("création du répertoire de configuration: %w", err)
	}

	file := settingsFile{
		Version:       Version,
		LastUpdated:   time.Now().Format(time.RFC3339),
		AlertSettings: m.settings,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	tmp := m.configPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("écriture du fichier de configuration: %w", err)
	}
	return os.Rename(tmp, m.configPath)
}

// GetAlertLevel classe un nombre de jours avant échéance (négatif si
// déjà expiré) dans le palier correspondant. Retourne nil si la
// catégorie est inconnue, désactivée, ou hors de toute fenêtre d'alerte.
func (m *SettingsManager) GetAlertLevel(category string, daysUntil int) *Level {
	cs, ok := m.settings[category]
	if !ok || !cs.Enabled {
		return nil
	}

	// Du plus urgent au moins urgent : le premier palier atteint gagne
	if cs.Levels.Critical != nil && daysUntil <= cs.Levels.Critical.Days {
		return cs.Levels.Critical
	}
	if daysUntil <= cs.Levels.Alert.Days {
		return &cs.Levels.Alert
	}
	if daysUntil <= cs.Levels.Warning.Days {
		return &cs.Levels.Warning
	}
	if daysUntil <= cs.Levels.Info.Days {
		return &cs.Levels.Info
	}

	return nil
}

// GetCategorySettings retourne les paramètres d'une catégorie, nil si inconnue
func (m *SettingsManager) GetCategorySettings(category string) *CategorySettings {
	return m.settings[category]
}

// UpdateCategory valide puis applique de nouveaux seuils pour une
// catégorie et persiste le résultat. En cas de violation, rien n'est
// modifié et l'erreur identifie la règle enfreinte.
func (m *SettingsManager) UpdateCategory(category string, infoDays, warningDays, alertDays int, criticalDays *int, enabled bool) error {
	cs, ok := m.settings[category]
	if !ok {
		return ErrUnknownCategory
	}

	if infoDays <= 0 || warningDays <= 0 || alertDays <= 0 {
		return ErrThresholdNotPositive
	}
	if !(infoDays > warningDays && warningDays > alertDays) {
		return ErrThresholdOrder
	}
	if criticalDays != nil && *criticalDays >= alertDays {
		return ErrCriticalTooHigh
	}

	cs.Levels.Info.Days = infoDays
	cs.Levels.Warning.Days = warningDays
	cs.Levels.Alert.Days = alertDays
	cs.Enabled = enabled
	if criticalDays != nil && cs.Levels.Critical != nil {
		cs.Levels.Critical.Days = *criticalDays
	}

	return m.SaveSettings()
}

// ResetToDefaults restaure les valeurs d'usine pour une catégorie, ou
// pour toutes si la catégorie est vide, puis persiste.
func (m *SettingsManager) ResetToDefaults(category string) error {
	defaults := defaultSettings()

	if category != "" {
		def, ok := defaults[category]
		if !ok {
			return ErrUnknownCategory
		}
		m.settings[category] = def
	} else {
		m.settings = defaults
	}

	return m.SaveSettings()
}

// IsEnabled indique si les alertes sont actives pour une catégorie.
// Faux pour une catégorie inconnue.
func (m *SettingsManager) IsEnabled(category string) bool {
	cs, ok := m.settings[category]
	if !ok {
		return false
	}
	return cs.Enabled
}

// Categories retourne les catégories configurées, dans l'ordre canonique
func (m *SettingsManager) Categories() []string {
	categories := make([]string, 0, len(m.settings))
	for _, category := range validCategories {
		if _, ok := m.settings[category]; ok {
			categories = append(categories, category)
		}
	}
	return categories
}

// ConfigPath retourne le chemin du fichier de configuration
func (m *SettingsManager) ConfigPath() string {
	return m.configPath
}

// ConfigExists indique si le fichier de configuration existe sur disque
func (m *SettingsManager) ConfigExists() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}
