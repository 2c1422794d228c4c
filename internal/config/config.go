// Package config предоставялет структуры и функции для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	RedisConnection         `yaml:"redis_connection"`
	Session                 `yaml:"session"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Scheduler               `yaml:"scheduler"`
	Fanout                  `yaml:"fanout"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP    string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":3000"`
	TimeoutHTTP    time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:","`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// Session настройки серверных сессий и cookie
type Session struct {
	Secret     string        `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	TTL        time.Duration `yaml:"ttl" env-default:"24h"`
	CookieName string        `yaml:"cookie_name" env-default:"eventmaster.sid"`
	Secure     bool          `yaml:"secure" env:"SESSION_SECURE"`
}

// RabbitMQ настройки подключения к брокеру уведомлений
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SMTP настройки почтового сервера для рассылки уведомлений
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"password" env:"SMTP_PASSWORD"`
}

// Scheduler настройки планировщика напоминаний
type Scheduler struct {
	Interval time.Duration `yaml:"interval" env:"SCHEDULER_INTERVAL" env-default:"1h"`
}

// Fanout ограничивает число одновременных рассылок приглашений
type Fanout struct {
	Concurrency int `yaml:"concurrency" env:"FANOUT_CONCURRENCY" env-default:"8"`
}

// RateLimit настройки ограничителя запросов для открытых ручек
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH, завершает процесс при ошибке
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла, значения могут быть переопределены переменными окружения
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// env-required пропускает пустое значение переменной
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%s: session secret is empty", op)
	}
	return &cfg, nil
}

// String скрывает секреты, пригоден для логирования
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"Session:\n"+
			"  TTL: %s\n"+
			"  CookieName: %s\n"+
			"Scheduler:\n"+
			"  Interval: %s\n"+
			"Fanout:\n"+
			"  Concurrency: %d\n",
		c.Env,
		c.MigrationsPath,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressRedis,
		c.DB,
		c.TTL,
		c.CookieName,
		c.Interval,
		c.Concurrency,
	)
}
