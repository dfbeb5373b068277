// Package config предоставялет структуры и функции для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// AuthModeAPIKey доступ к /send по статическому ключу.
	AuthModeAPIKey = "apikey"
	// AuthModeToken доступ к /send по персональному токену пользователя.
	AuthModeToken = "token"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"DATABASE_URL"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	SentryDSN               string `yaml:"sentry_dsn" env:"SENTRY_DSN"`
	App                     `yaml:"app"`
	Auth                    `yaml:"auth"`
	HTTPServer              `yaml:"http_server"`
	SMTP                    `yaml:"smtp"`
	DBPool                  `yaml:"db_pool"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimit               `yaml:"rate_limit"`
	Registration            `yaml:"registration"`
}

// App структура с метаданными приложения
type App struct {
	AppName    string `yaml:"name" env:"APP_NAME" env-default:"Cyber Stack"`
	AppVersion string `yaml:"version" env:"APP_VERSION" env-default:"1.0.0"`
	AppURL     string `yaml:"url" env:"APP_URL" env-default:"http://localhost:3000"`
}

// Auth структура для настройки проверки доступа
type Auth struct {
	Mode         string `yaml:"mode" env:"AUTH_MODE" env-default:"apikey"`
	APIKey       string `yaml:"api_key" env:"API_KEY"`
	APIKeyHeader string `yaml:"api_key_header" env:"API_KEY_HEADER" env-default:"apikey"`
	TokenPrefix  string `yaml:"token_prefix" env:"TOKEN_PREFIX" env-default:"mk_"`
	TokenLength  int    `yaml:"token_length" env:"TOKEN_LENGTH" env-default:"32"`
	BcryptCost   int    `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":3000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// SMTP структура для настройки почтового транспорта
type SMTP struct {
	SMTPHost    string        `yaml:"host" env:"SMTP_HOST" env-default:"smtp.ethereal.email"`
	SMTPPort    int           `yaml:"port" env:"SMTP_PORT" env-default:"465"`
	SMTPSecure  bool          `yaml:"secure" env:"SMTP_SECURE" env-default:"true"`
	SMTPUser    string        `yaml:"user" env:"EMAIL_USER"`
	SMTPPass    string        `yaml:"pass" env:"EMAIL_PASS"`
	SMTPFrom    string        `yaml:"from" env:"EMAIL_FROM"`
	SMTPTimeout time.Duration `yaml:"timeout" env:"SMTP_TIMEOUT" env-default:"10s"`
}

// DBPool структура для настройки пула соединений с базой
type DBPool struct {
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDR"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env:"REDIS_TIMEOUT" env-default:"3s"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env:"CACHE_TTL" env-default:"10m"`
}

// RabbitMQ структура для настройки публикации событий
type RabbitMQ struct {
	RabbitMQURL      string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQExchange string        `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"mail"`
	RabbitMQRetries  int           `yaml:"retries" env:"RABBITMQ_RETRIES" env-default:"5"`
	RabbitMQDelay    time.Duration `yaml:"delay" env:"RABBITMQ_RETRY_DELAY" env-default:"2s"`
}

// RateLimit структура для ограничения частоты отправки писем
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"0"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"5"`
}

// Registration структура с правилами допуска адресов при регистрации
type Registration struct {
	AllowedDomains   []string `yaml:"allowed_domains" env:"REGISTRATION_ALLOWED_DOMAINS" env-separator:","`
	AllowedAddresses []string `yaml:"allowed_addresses" env:"REGISTRATION_ALLOWED_ADDRESSES" env-separator:","`
}

// Load читает конфиг из файла CONFIG_PATH (если задан) и переменных окружения.
func Load() (*Config, error) {
	const op = "config.Load"
	var cfg Config

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, завершает процесс при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.Mode {
	case AuthModeAPIKey:
		if c.APIKey == "" {
			return errors.New("API_KEY is required in apikey auth mode")
		}
	case AuthModeToken:
		if c.StorageConnectionString == "" {
			return errors.New("DATABASE_URL is required in token auth mode")
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Mode)
	}
	if c.APIKeyHeader == "" {
		return errors.New("API_KEY_HEADER must not be empty")
	}
	return nil
}

// HasStorage сообщает, настроена ли база данных.
func (c *Config) HasStorage() bool {
	return c.StorageConnectionString != ""
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"App: %s %s (%s)\n"+
			"AuthMode: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"SMTP:\n"+
			"  Host: %s\n"+
			"  Port: %d\n"+
			"  Secure: %t\n"+
			"  User: %s\n"+
			"Storage: %t\n"+
			"Redis: %s\n"+
			"RabbitMQ: %t\n",
		c.Env,
		c.AppName,
		c.AppVersion,
		c.AppURL,
		c.Mode,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.SMTPHost,
		c.SMTPPort,
		c.SMTPSecure,
		c.SMTPUser,
		c.HasStorage(),
		c.AddressRedis,
		c.RabbitMQURL != "",
	)
}
