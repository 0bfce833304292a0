package backup

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Statuts transmis aux abonnés après chaque sauvegarde planifiée
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusError   = "error"
)

// Callback reçoit le statut d'une sauvegarde, le chemin du fichier
// produit (vide en cas d'échec) et quelques détails
type Callback func(status, path string, info map[string]any)

// Scheduler déclenche une sauvegarde quotidienne à heure fixe
type Scheduler struct {
	manager    *Manager
	backupTime string
	logger     *logrus.Logger

	mu         sync.Mutex
	cron       *cron.Cron
	running    bool
	lastBackup time.Time
	callbacks  []Callback
}

func NewScheduler(manager *Manager, backupTime string) *Scheduler {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &Scheduler{
		manager:    manager,
		backupTime: backupTime,
		logger:     logger,
	}
}

// cronSpec traduit une heure "HH:MM" en expression cron quotidienne
func cronSpec(backupTime string) (string, error) {
	parts := strings.SplitN(backupTime, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("heure de sauvegarde invalide: %q", backupTime)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("heure de sauvegarde invalide: %q", backupTime)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("heure de sauvegarde invalide: %q", backupTime)
	}

	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// Start arme le déclencheur quotidien. Un planificateur déjà démarré
// reste inchangé.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	spec, err := cronSpec(s.backupTime)
	if err != nil {
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, s.runScheduledBackup); err != nil {
		return fmt.Errorf("erreur de planification: %v", err)
	}
	c.Start()

	s.cron = c
	s.running = true
	s.logger.WithField("backup_time", s.backupTime).Info("Backup scheduler started")
	return nil
}

// Stop arrête le déclencheur et attend la fin d'une sauvegarde en
// cours, au plus cinq secondes
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.running = false
	s.mu.Unlock()

	if c == nil {
		return
	}

	ctx := c.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.logger.Warn("Backup scheduler stop timed out")
	}
	s.logger.Info("Backup scheduler stopped")
}

// IsRunning indique si le déclencheur quotidien est armé
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastBackupTime retourne l'horodatage de la dernière sauvegarde
// planifiée réussie, ou le zéro de time.Time
func (s *Scheduler) LastBackupTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBackup
}

// RegisterCallback abonne un observateur aux résultats de sauvegarde
func (s *Scheduler) RegisterCallback(cb Callback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, cb)
}

// RunBackupNow lance une sauvegarde immédiate hors planification
func (s *Scheduler) RunBackupNow(description string) (string, error) {
	path, err := s.manager.CreateBackup(description)
	if err != nil {
		return "", err
	}

	if v := s.manager.VerifyBackup(path); !v.Valid {
		return path, fmt.Errorf("sauvegarde invalide: %s", v.Error)
	}
	return path, nil
}

func (s *Scheduler) runScheduledBackup() {
	started := time.Now()

	path, err := s.manager.CreateBackup("auto")
	if err != nil {
		s.logger.WithError(err).Error("Scheduled backup failed")
		s.notify(StatusError, "", map[string]any{"error": err.Error()})
		return
	}

	v := s.manager.VerifyBackup(path)
	info := map[string]any{
		"size":        v.Size,
		"duration_ms": time.Since(started).Milliseconds(),
	}
	if !v.Valid {
		s.logger.WithField("path", path).Error("Scheduled backup verification failed")
		info["error"] = v.Error
		s.notify(StatusFailed, path, info)
		return
	}

	s.mu.Lock()
	s.lastBackup = time.Now()
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"path": path,
		"size": v.Size,
	}).Info("Scheduled backup completed")
	s.notify(StatusSuccess, path, info)
}

// notify prévient chaque abonné. Un abonné qui panique n'interrompt
// ni les autres ni le planificateur.
func (s *Scheduler) notify(status, path string, info map[string]any) {
	s.mu.Lock()
	callbacks := make([]Callback, len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	for _, cb := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.WithField("panic", r).Error("Backup callback panicked")
				}
			}()
			cb(status, path, info)
		}()
	}
}
