package backup

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// En-tête obligatoire de tout fichier SQLite valide
var sqliteHeader = []byte("SQLite format 3\x00")

// Verification - résultat du contrôle d'intégrité d'une sauvegarde
type Verification struct {
	Path  string `json:"path"`
	Size  int64  `json:"size"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Manager copie le fichier de base vers le répertoire de sauvegarde
// et fait le ménage des copies trop anciennes
type Manager struct {
	databasePath  string
	backupDir     string
	retentionDays int
	logger        *logrus.Logger
}

func NewManager(databasePath, backupDir string, retentionDays int) *Manager {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Manager{
		databasePath:  databasePath,
		backupDir:     backupDir,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// CreateBackup copie la base vers un fichier horodaté et retourne son chemin.
// La description, facultative, est reprise dans le nom du fichier.
func (m *Manager) CreateBackup(description string) (string, error) {
	if _, err := os.Stat(m.databasePath); err != nil {
		return "", fmt.Errorf("base de données inaccessible: %v", err)
	}

	if err := os.MkdirAll(m.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("erreur de création du répertoire de sauvegarde: %v", err)
	}

	name := fmt.Sprintf("backup_%s", time.Now().Format("20060102_150405"))
	if description != "" {
		name += "_" + sanitizeDescription(description)
	}
	target := filepath.Join(m.backupDir, name+".db")

	if err := copyFile(m.databasePath, target); err != nil {
		return "", fmt.Errorf("erreur de copie de la base: %v", err)
	}

	m.logger.WithFields(logrus.Fields{
		"source": m.databasePath,
		"target": target,
	}).Info("Backup created")

	if err := m.pruneOldBackups(); err != nil {
		// La sauvegarde a réussi, le ménage attendra la prochaine fois
		m.logger.WithError(err).Warn("Failed to prune old backups")
	}

	return target, nil
}

// VerifyBackup contrôle qu'une sauvegarde existe, n'est pas vide et
// commence par l'en-tête SQLite
func (m *Manager) VerifyBackup(path string) Verification {
	v := Verification{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		v.Error = fmt.Sprintf("fichier introuvable: %v", err)
		return v
	}
	v.Size = info.Size()
	if v.Size == 0 {
		v.Error = "fichier vide"
		return v
	}

	f, err := os.Open(path)
	if err != nil {
		v.Error = fmt.Sprintf("fichier illisible: %v", err)
		return v
	}
	defer f.Close()

	header := make([]byte, len(sqliteHeader))
	if _, err := io.ReadFull(f, header); err != nil {
		v.Error = fmt.Sprintf("en-tête illisible: %v", err)
		return v
	}
	if !bytes.Equal(header, sqliteHeader) {
		v.Error = "en-tête SQLite absent"
		return v
	}

	v.Valid = true
	return v
}

// ListBackups retourne les chemins des sauvegardes présentes, de la
// plus récente à la plus ancienne
func (m *Manager) ListBackups() ([]string, error) {
	entries, err := filepath.Glob(filepath.Join(m.backupDir, "backup_*.db"))
	if err != nil {
		return nil, err
	}

	// Le préfixe horodaté rend l'ordre lexical chronologique
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// pruneOldBackups supprime les sauvegardes plus anciennes que la
// durée de rétention. Une rétention nulle ou négative désactive le ménage.
func (m *Manager) pruneOldBackups() error {
	if m.retentionDays <= 0 {
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -m.retentionDays)
	entries, err := filepath.Glob(filepath.Join(m.backupDir, "backup_*.db"))
	if err != nil {
		return err
	}

	for _, path := range entries {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				m.logger.WithError(err).WithField("path", path).Warn("Failed to remove old backup")
				continue
			}
			m.logger.WithField("path", path).Info("Old backup removed")
		}
	}
	return nil
}

// sanitizeDescription garde la description sûre pour un nom de fichier
func sanitizeDescription(description string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, description)
	return strings.Trim(mapped, "_")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
