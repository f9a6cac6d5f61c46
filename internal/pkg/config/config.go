package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	SecretKey string `env:"SECRET_KEY, required"`

	TokenTTL            time.Duration `env:"TOKEN_TTL,             default=24h"`
	ConfirmationCodeTTL time.Duration `env:"CONFIRMATION_CODE_TTL, default=24h"`

	Mongo MongoConfig
	Redis RedisConfig
	Mail  MailConfig
	Kafka KafkaConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=yamdb"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MailConfig struct {
	// Backend is "log" or "kafka".
	Backend  string        `env:"MAIL_BACKEND,  default=log"`
	From     string        `env:"MAIL_FROM,     default=noreply@yamdb.local"`
	Workers  int           `env:"MAIL_WORKERS,  default=4"`
	Cooldown time.Duration `env:"MAIL_COOLDOWN, default=1m"`
}

type KafkaConfig struct {
	Brokers   []string `env:"KAFKA_BROKERS,    default=localhost:9092"`
	MailTopic string   `env:"KAFKA_MAIL_TOPIC, default=yamdb.mail"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return FromLookuper(ctx, envconfig.OsLookuper())
}

// FromLookuper builds a Config from l without touching .env.
func FromLookuper(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	switch c.Mail.Backend {
	case "log", "kafka":
	default:
		return fmt.Errorf("MAIL_BACKEND must be log or kafka, got %q", c.Mail.Backend)
	}
	if c.Mail.Workers < 1 {
		return fmt.Errorf("MAIL_WORKERS must be positive, got %d", c.Mail.Workers)
	}
	if c.Mail.Backend == "kafka" && len(c.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required for the kafka mail backend")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}
