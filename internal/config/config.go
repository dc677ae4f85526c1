package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTPAddress       string        `yaml:"http_address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT" env-default:"5s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	GinMode           string        `yaml:"gin_mode" env:"GIN_MODE" env-default:"debug"`
	LogLevel          string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`

	DBDriver   string `yaml:"db_driver" env:"DB_DRIVER" env-default:"mysql"`
	DBHost     string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort     string `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBUser     string `yaml:"db_user" env:"DB_USER" env-default:"todouser"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD" env-default:"todopassword"`
	DBName     string `yaml:"db_name" env:"DB_NAME" env-default:"todo"`
	DBPath     string `yaml:"db_path" env:"DB_PATH" env-default:"todo.db"`

	SessionStore  string `yaml:"session_store" env:"SESSION_STORE" env-default:"cookie"`
	RedisHost     string `yaml:"redis_host" env:"REDIS_HOST" env-default:"localhost"`
	RedisPort     string `yaml:"redis_port" env:"REDIS_PORT" env-default:"6379"`
	SessionSecret string `yaml:"session_secret" env:"SESSION_SECRET" env-default:"default-secret-key-change-me"`

	AdminUsername string `yaml:"admin_username" env:"ADMIN_USERNAME"`
	AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD"`

	OpenAIAPIKey string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIModel  string `yaml:"openai_model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
}

// Load reads configuration from the YAML file at path, falling back to the
// environment when path is empty or the file does not exist.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		err := cleanenv.ReadConfig(path, &cfg)
		if err == nil {
			return &cfg, cfg.validate()
		}
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionStore {
	case "cookie", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	if (c.AdminUsername == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// RedisAddress returns host:port of the session redis.
func (c *Config) RedisAddress() string {
	return c.RedisHost + ":" + c.RedisPort
}
