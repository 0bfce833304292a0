package config

import (
	"os"
	"strconv"
	"sync"

	"warehouse-docs/internal/alerts"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	DatabaseURL         string
	AlertConfigPath     string
	BackupDir           string
	BackupTime          string
	BackupRetentionDays int
	BackupEnabled       bool
	UndoMaxHistory      int
}

var instance *AppConfig
var once sync.Once

func GetAppConfig() *AppConfig {
	once.Do(func() {
		// Le fichier .env est facultatif, les valeurs par défaut suffisent
		if err := godotenv.Load(); err != nil {
			logrus.Debugf("no .env file loaded: %s", err.Error())
		}

		instance = &AppConfig{
			DatabaseURL:         getEnv("DATABASE_URL", "data/employees.db"),
			AlertConfigPath:     getEnv("ALERT_CONFIG_PATH", alerts.DefaultConfigPath),
			BackupDir:           getEnv("BACKUP_DIR", "backups"),
			BackupTime:          getEnv("BACKUP_TIME", "02:00"),
			BackupRetentionDays: getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
			BackupEnabled:       getEnvAsBool("BACKUP_ENABLED", true),
			UndoMaxHistory:      getEnvAsInt("UNDO_MAX_HISTORY", 100),
		}
	})

	return instance
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}

	return defaultVal
}
