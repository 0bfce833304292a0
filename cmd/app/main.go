package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"warehouse-docs/internal/alerts"
	"warehouse-docs/internal/backup"
	"warehouse-docs/internal/config"
	"warehouse-docs/internal/repository"
	"warehouse-docs/internal/service"
	"warehouse-docs/internal/undo"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetAppConfig()
	logrus.Info("Config initialized...")

	if dir := filepath.Dir(cfg.DatabaseURL); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logrus.Fatal("Failed to create data directory:", err)
		}
	}

	// Initialisation de la base SQLite
	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // contrainte SQLite
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	// Activation des clés étrangères (nécessaire pour SQLite)
	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		logrus.Infof("Warning: Failed to enable foreign keys: %v", err)
	}

	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create employee repository")
	}

	cacesRepo, err := repository.NewGormCacesRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create caces repository")
	}

	medicalRepo, err := repository.NewGormMedicalVisitRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create medical visit repository")
	}

	trainingRepo, err := repository.NewGormTrainingRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create training repository")
	}

	// Accès générique aux enregistrements pour l'historique d'annulation
	recordStore := repository.NewGormRecordStore(db)
	history := undo.NewManager(cfg.UndoMaxHistory)

	// Paramètres d'alerte persistés en JSON
	settings := alerts.NewSettingsManager(cfg.AlertConfigPath)

	employeeService := service.NewEmployeeService(employeeRepo, recordStore, history)
	alertService := service.NewAlertService(settings, employeeRepo, cacesRepo, medicalRepo, trainingRepo)

	if employees, err := employeeService.ListEmployees(); err != nil {
		logrus.Infof("Warning: Failed to list employees: %v", err)
	} else {
		logrus.Infof("Active employees: %d", len(employees))
	}

	// Résumé des échéances au démarrage
	if counts, err := alertService.CountByLabel(); err != nil {
		logrus.Infof("Warning: Failed to compute alert summary: %v", err)
	} else {
		logrus.WithFields(logrus.Fields{
			"info":     counts["Info"],
			"warning":  counts["Warning"],
			"alert":    counts["Alert"],
			"critical": counts["Critical"],
		}).Info("Expiration alert summary")
	}

	// Sauvegarde quotidienne de la base
	backupManager := backup.NewManager(cfg.DatabaseURL, cfg.BackupDir, cfg.BackupRetentionDays)
	scheduler := backup.NewScheduler(backupManager, cfg.BackupTime)
	scheduler.RegisterCallback(func(status, path string, info map[string]any) {
		logrus.WithFields(logrus.Fields{
			"status": status,
			"path":   path,
		}).Info("Backup finished")
	})

	if cfg.BackupEnabled {
		if err := scheduler.Start(); err != nil {
			logrus.WithError(err).Fatal("Failed to start backup scheduler")
		}
	}

	// Gestion des signaux pour un arrêt propre
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	logrus.Info("Application started. Press Ctrl+C to stop.")
	<-stop

	scheduler.Stop()

	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Application stopped gracefully")
}
