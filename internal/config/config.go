package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DBConfig struct {
	Host            string `env:"DB_HOST" envDefault:"postgres"`
	Port            int    `env:"DB_PORT" envDefault:"5432"`
	User            string `env:"DB_USER" envDefault:"scheduler"`
	Password        string `env:"DB_PASSWORD" envDefault:"scheduler"`
	Name            string `env:"DB_NAME" envDefault:"scheduler_db"`
	SSLMode         string `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone        string `env:"DB_TIMEZONE" envDefault:"UTC"`
	MaxOpenConns    int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifeTime int    `env:"DB_CONN_MAX_LIFETIME_MIN" envDefault:"30"` // минут
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // json | text
}

type ServerConfig struct {
	GRPCAddr       string        `env:"CORE_GRPC_ADDR" envDefault:":50051"`
	AdminAddr      string        `env:"CORE_ADMIN_ADDR" envDefault:":9090"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
}

type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET"`
}

type RedisConfig struct {
	// Пустой адрес — уведомления пишутся только в лог.
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Channel  string `env:"REDIS_CHANNEL" envDefault:"timetable.changes"`
}

type PolicyConfig struct {
	AdminCanMutateSchedules bool          `env:"ADMIN_CAN_MUTATE_SCHEDULES" envDefault:"false"`
	UndoWindow              time.Duration `env:"UNDO_WINDOW" envDefault:"10s"`
	UndoOwnerOnly           bool          `env:"UNDO_OWNER_ONLY" envDefault:"false"`
}

type Config struct {
	DB     DBConfig
	Log    LogConfig
	Server ServerConfig
	Auth   AuthConfig
	Redis  RedisConfig
	Policy PolicyConfig
}

// Load читает .env / .env.local (если есть), затем переменные окружения.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", ".env.local"}
	}
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// минимальная валидация
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}
	if cfg.Policy.UndoWindow <= 0 {
		return nil, fmt.Errorf("invalid UNDO_WINDOW %s", cfg.Policy.UndoWindow)
	}
	return cfg, nil
}

func loadEnvFiles(files []string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}
