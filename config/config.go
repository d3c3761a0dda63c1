package config

import (
	"fmt"

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

	HTTPPort string `envconfig:"HTTP_PORT" default:"8000"`

	JWTSecret      string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiryHours int    `envconfig:"JWT_EXPIRY_HOURS" default:"24"`

	// Bootstrap-Superuser, wird nur angelegt, solange kein Admin existiert.
	InitialAdminEmail    string `envconfig:"INITIAL_ADMIN_EMAIL"`
	InitialAdminPassword string `envconfig:"INITIAL_ADMIN_PASSWORD"`

	// Google-Login: Client-ID als erwartete Audience des ID-Tokens.
	GoogleClientID string `envconfig:"GOOGLE_CLIENT_ID"`

	// OTP für Passwort-Reset
	OTPExpiryMinutes int `envconfig:"OTP_EXPIRY_MINUTES" default:"10"`

	SMTPHost string `envconfig:"SMTP_HOST"`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER"`
	SMTPPass string `envconfig:"SMTP_PASS"`
	SMTPFrom string `envconfig:"SMTP_FROM" default:"noreply@health-survey.local"`

	// Externer Recommender-Webhook für AI-Empfehlungen
	RecommenderURL     string `envconfig:"RECOMMENDER_URL"`
	RecommenderTimeout int    `envconfig:"RECOMMENDER_TIMEOUT_SECONDS" default:"90"`

	// PubMed ESummary für Titel-Anreicherung hochgeladener PDFs
	PubMedBaseURL string `envconfig:"PUBMED_BASE_URL" default:"https://eutils.ncbi.nlm.nih.gov/entrez/eutils"`
	PubMedAPIKey  string `envconfig:"PUBMED_API_KEY"`
	PubMedTool    string `envconfig:"PUBMED_TOOL" default:"survey-admin"`

	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"@hourly"`

	StratoS3Key    string `envconfig:"STRATO_S3_KEY" required:"true"`
	StratoS3Secret string `envconfig:"STRATO_S3_SECRET" required:"true"`
	StratoS3URL    string `envconfig:"STRATO_S3_URL" required:"true"`
	StratoS3Region string `envconfig:"STRATO_S3_REGION" required:"true"`
	StratoS3Bucket string `envconfig:"STRATO_S3_BUCKET" required:"true"`

	// Erlaubte Browser-Origins für das Admin-Dashboard
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`

	// Rate-Limits für öffentliche Endpunkte (Requests pro Minute je IP)
	SubmitRatePerMin int `envconfig:"SUBMIT_RATE_PER_MIN" default:"10"`
	LoginRatePerMin  int `envconfig:"LOGIN_RATE_PER_MIN" default:"20"`
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
