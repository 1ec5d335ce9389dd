package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"5000"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"eco_tourism"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	JWTAccessSecret  string        `env:"JWT_ACCESS_SECRET,required,notEmpty"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET,required,notEmpty"`
	JWTAccessTTL     time.Duration `env:"JWT_ACCESS_TTL" envDefault:"168h"`
	JWTRefreshTTL    time.Duration `env:"JWT_REFRESH_TTL" envDefault:"720h"`

	// ✅ Redis Config (optional: token revocation, rate-limit store, SSE fan-out)
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// ✅ Kafka Config (optional: notification pipeline)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"eco-registration-events"`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"eco-notification-workers"`

	// ✅ Razorpay Keys
	RazorpayKey    string `env:"RAZORPAY_KEY_ID"`
	RazorpaySecret string `env:"RAZORPAY_KEY_SECRET"`

	// ✅ SMTP Config
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	SMTPFromName  string `env:"SMTP_FROM_NAME" envDefault:"EcoEvents"`
	SMTPFromEmail string `env:"SMTP_FROM_EMAIL"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimit   string   `env:"RATE_LIMIT" envDefault:"100-M"`

	// Bootstrap admin, created on startup when no admin exists
	AdminName     string `env:"ADMIN_NAME" envDefault:"Eco Admin"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Load reads .env (if present) and environment variables into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// DSN returns the libpq connection string for Postgres.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func (c *Config) RedisEnabled() bool    { return c.RedisAddr != "" }
func (c *Config) KafkaEnabled() bool    { return len(c.KafkaBrokers) > 0 }
func (c *Config) PaymentsEnabled() bool { return c.RazorpayKey != "" && c.RazorpaySecret != "" }
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}
