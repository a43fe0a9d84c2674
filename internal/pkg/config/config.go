package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, policy windows, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Booking BookingConfig
	Fees    FeeConfig
	Payment PaymentConfig
	Kafka   KafkaConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

// JWT here is verification-only: tokens are issued by the identity gateway,
// this service just needs the shared secret to read renter/owner identity.
type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// BookingConfig carries the hold-window policy values.
// ApprovalWindow bounds how long a booking may sit in pending before the
// sweeper expires it; PaymentWindow bounds awaiting_payment before the
// sweeper cancels it.
type BookingConfig struct {
	ApprovalWindow time.Duration `envconfig:"BOOKING_APPROVAL_WINDOW" default:"48h"`
	PaymentWindow  time.Duration `envconfig:"BOOKING_PAYMENT_WINDOW" default:"30m"`
	SweepInterval  time.Duration `envconfig:"BOOKING_SWEEP_INTERVAL" default:"1m"`
}

type FeeConfig struct {
	RenterPct float64 `envconfig:"FEE_RENTER_PCT" default:"0.07"`
	ListerPct float64 `envconfig:"FEE_LISTER_PCT" default:"0.03"`
}

type PaymentConfig struct {
	BaseURL string        `envconfig:"PAYMENT_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"PAYMENT_API_KEY" required:"true"`
	Timeout time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"10s"`
}

type KafkaConfig struct {
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"booking-events"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "24h",
		},
		Booking: BookingConfig{
			ApprovalWindow: 48 * time.Hour,
			PaymentWindow:  30 * time.Minute,
			SweepInterval:  time.Minute,
		},
		Fees: FeeConfig{
			RenterPct: 0.07,
			ListerPct: 0.03,
		},
		Payment: PaymentConfig{
			BaseURL: "http://localhost:18089",
			APIKey:  "test-key",
			Timeout: 10 * time.Second,
		},
	}
}
