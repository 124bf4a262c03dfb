package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Fact-Check-Oracle (OpenAI-kompatible API)
	OracleAPIKey  string        `envconfig:"ORACLE_API_KEY"`
	OracleBaseURL string        `envconfig:"ORACLE_BASE_URL"`
	OracleModel   string        `envconfig:"ORACLE_MODEL" default:"gpt-4o-mini"`
	OracleTimeout time.Duration `envconfig:"ORACLE_TIMEOUT" default:"20s"`

	// Verifikations-Worker
	VerifyWorkers   int           `envconfig:"VERIFY_WORKERS" default:"4"`
	VerifyQueueSize int           `envconfig:"VERIFY_QUEUE_SIZE" default:"256"`
	PendingMaxAge   time.Duration `envconfig:"PENDING_MAX_AGE" default:"1h"`

	// Cron-Zeitpläne: nächtliches Re-Scoring + Sweep über hängende PENDING-Signale
	RescoreSchedule string `envconfig:"RESCORE_SCHEDULE" default:"0 3 * * *"`
	SweepSchedule   string `envconfig:"SWEEP_SCHEDULE" default:"*/15 * * * *"`

	// Benachrichtigungs-Webhook für abgeschlossene Verifikationen (leer = deaktiviert)
	NotifyWebhookURL string `envconfig:"NOTIFY_WEBHOOK_URL"`

	// S3-Export (nur von cmd/export benutzt)
	ExportS3Key    string `envconfig:"EXPORT_S3_KEY"`
	ExportS3Secret string `envconfig:"EXPORT_S3_SECRET"`
	ExportS3URL    string `envconfig:"EXPORT_S3_URL"`
	ExportS3Region string `envconfig:"EXPORT_S3_REGION"`
	ExportS3Bucket string `envconfig:"EXPORT_S3_BUCKET"`
	KeepExports    int    `envconfig:"KEEP_EXPORTS" default:"8"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
