package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Поддерживаемые драйверы БД
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Database      DatabaseConfig      `toml:"database"`
	Server        ServerConfig        `toml:"server"`
	Auth          AuthConfig          `toml:"auth"`
	Redis         RedisConfig         `toml:"redis"`
	Notifications NotificationsConfig `toml:"notifications"`
	Telegram      TelegramConfig      `toml:"telegram"`
	SMS           SMSConfig           `toml:"sms"`
	Webhook       WebhookConfig       `toml:"webhook"`
	Housekeeping  HousekeepingConfig  `toml:"housekeeping"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// DatabaseConfig настройки подключения к БД
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // файл БД для sqlite3
	AutoMigrate     bool   `toml:"auto_migrate"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для выбранного драйвера
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", c.Path)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int    `toml:"http_port"`
	ReadTimeout     int    `toml:"read_timeout"`
	WriteTimeout    int    `toml:"write_timeout"`
	IdleTimeout     int    `toml:"idle_timeout"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
	Timezone        string `toml:"timezone"`
}

// AuthConfig настройки проверки токенов сервиса идентификации
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	ClientScope string `toml:"client_scope"`
}

// RedisConfig настройки кэша доступных слотов
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      int    `toml:"ttl"` // секунды
}

// NotificationsConfig настройки диспетчера уведомлений
type NotificationsConfig struct {
	Workers       int     `toml:"workers"`
	QueueSize     int     `toml:"queue_size"`
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
	SendTimeout   int     `toml:"send_timeout"` // секунды
}

// TelegramConfig настройки уведомлений администратору в Telegram
type TelegramConfig struct {
	Enabled         bool   `toml:"enabled"`
	BotToken        string `toml:"bot_token"`
	AdminChatID     int64  `toml:"admin_chat_id"`
	ListenCallbacks bool   `toml:"listen_callbacks"`
	Debug           bool   `toml:"debug"`
}

// SMSConfig настройки SMS клиенту через Twilio
type SMSConfig struct {
	Enabled    bool   `toml:"enabled"`
	AccountSID string `toml:"account_sid"`
	AuthToken  string `toml:"auth_token"`
	From       string `toml:"from"`
}

// WebhookConfig настройки исходящего вебхука о бронированиях
type WebhookConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// HousekeepingConfig настройки фоновых задач
type HousekeepingConfig struct {
	Enabled            bool   `toml:"enabled"`
	SweepPendingSpec   string `toml:"sweep_pending_spec"`
	AuditCleanupSpec   string `toml:"audit_cleanup_spec"`
	AuditRetentionDays int    `toml:"audit_retention_days"`
	BackupSpec         string `toml:"backup_spec"`
	BackupDir          string `toml:"backup_dir"`
}

// Load читает конфигурацию из TOML файла.
// Перед чтением подгружается .env (если есть), секреты переопределяются переменными окружения.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "salon-schedule-service"},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Auth:  AuthConfig{ClientScope: "client_bookings"},
		Redis: RedisConfig{TTL: 30},
		Notifications: NotificationsConfig{
			Workers:       2,
			QueueSize:     100,
			RatePerSecond: 1,
			Burst:         5,
			SendTimeout:   10,
		},
		Webhook: WebhookConfig{Timeout: 5},
		Housekeeping: HousekeepingConfig{
			SweepPendingSpec:   "*/5 * * * *",
			AuditCleanupSpec:   "0 3 * * *",
			AuditRetentionDays: 180,
			BackupSpec:         "0 4 * * *",
			BackupDir:          "backups",
		},
	}
}

// applyEnv переопределяет секреты и адреса из окружения
func applyEnv(cfg *Config) {
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Redis.Address, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.SMS.AccountSID, "TWILIO_ACCOUNT_SID")
	setString(&cfg.SMS.AuthToken, "TWILIO_AUTH_TOKEN")
	setString(&cfg.SMS.From, "TWILIO_PHONE_NUMBER")

	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.AdminChatID = id
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var problems []string

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			problems = append(problems, "database.host and database.dbname are required for postgres")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			problems = append(problems, "database.path is required for sqlite3")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported database.driver %q", c.Database.Driver))
	}

	if c.Server.HTTPPort <= 0 {
		problems = append(problems, "server.http_port must be positive")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		problems = append(problems, "auth.jwt_secret is required")
	}
	if c.Redis.Enabled && c.Redis.Address == "" {
		problems = append(problems, "redis.address is required when redis is enabled")
	}
	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.AdminChatID == 0) {
		problems = append(problems, "telegram.bot_token and telegram.admin_chat_id are required when telegram is enabled")
	}
	if c.SMS.Enabled && (c.SMS.AccountSID == "" || c.SMS.AuthToken == "" || c.SMS.From == "") {
		problems = append(problems, "sms.account_sid, sms.auth_token and sms.from are required when sms is enabled")
	}
	if c.Webhook.Enabled && c.Webhook.URL == "" {
		problems = append(problems, "webhook.url is required when webhook is enabled")
	}
	if c.Notifications.Workers <= 0 || c.Notifications.QueueSize <= 0 {
		problems = append(problems, "notifications.workers and notifications.queue_size must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
