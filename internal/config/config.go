// config реализует конфигурацию comments-service: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Storage  StorageConfig `yaml:"storage"`
	Catalog  CatalogConfig `yaml:"catalog"`
	Cache    CacheConfig   `yaml:"cache"`
	Auth     AuthConfig    `yaml:"auth"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig — общий дедлайн обработки запроса и время на graceful shutdown.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service"  env:"SERVICE"          env-default:"5s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// HTTPConfig — REST API, health и metrics на одном listener.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50084"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// StorageConfig — хранилище комментариев.
// Driver: mongo (по умолчанию) или memory (для локального запуска без БД).
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"mongo"`
	URL    string `yaml:"url"    env:"DATABASE_URL"`
}

// CatalogConfig — PostgreSQL каталога контента (статьи/видео/подкасты).
type CatalogConfig struct {
	URL string `yaml:"url" env:"CATALOG_URL" env-required:"true"`
}

// CacheConfig — Redis-кэш подтверждённого существования контента.
// Пустой URL отключает кэш.
type CacheConfig struct {
	URL    string        `yaml:"url"    env:"REDIS_URL"`
	TTL    time.Duration `yaml:"ttl"    env:"CACHE_TTL"    env-default:"1m"`
	Prefix string        `yaml:"prefix" env:"CACHE_PREFIX" env-default:"comments:content:"`
}

// AuthConfig — проверка Bearer JWT, выпущенных сервисом аутентификации.
type AuthConfig struct {
	JWTSecret string   `yaml:"jwt_secret" env:"JWT_SECRET"  env-required:"true"`
	Issuer    string   `yaml:"issuer"     env:"JWT_ISSUER"  env-default:"auth-service"`
	Audience  []string `yaml:"audience"   env:"JWT_AUDIENCE" env-separator:"," env-default:"content-platform"`
	AdminRole string   `yaml:"admin_role" env:"ADMIN_ROLE"  env-default:"ROLE_ADMIN"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) error {
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return fmt.Errorf("failed to read config %q: %w", p, err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return fmt.Errorf("failed to overlay env: %w", err)
		}

		return nil
	}

	switch {
	case path != "":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}

		if err := readFile(path); err != nil {
			return nil, err
		}
	case os.Getenv("CONFIG_PATH") != "":
		envPath := os.Getenv("CONFIG_PATH")
		if _, err := os.Stat(envPath); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", envPath, err)
		}

		if err := readFile(envPath); err != nil {
			return nil, err
		}
	default:
		if _, err := os.Stat("local.yaml"); err == nil {
			if err := readFile("local.yaml"); err != nil {
				return nil, err
			}

			break
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverMongo:
		if c.Storage.URL == "" {
			return fmt.Errorf("storage.url is required for driver %q", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("storage.driver must be one of %q, %q", DriverMongo, DriverMemory)
	}

	if c.Catalog.URL == "" {
		return fmt.Errorf("catalog.url is required")
	}

	if c.Cache.URL != "" && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Auth.AdminRole == "" {
		return fmt.Errorf("auth.admin_role is required")
	}

	if c.Timeouts.Service < 0 {
		return fmt.Errorf("timeouts.service must be >= 0")
	}

	return nil
}
