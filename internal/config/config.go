// Package config 提供服务运行时配置
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/paiban/shiftplan/pkg/logger"
)

// EnvPrefix 环境变量前缀，例如 SHIFTPLAN_DATABASE__HOST
const EnvPrefix = "SHIFTPLAN_"

var sections = []string{"app.", "server.", "database.", "metrics.", "store."}

// Config 应用配置
type Config struct {
	App      AppConfig      `koanf:"app"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Store    StoreConfig    `koanf:"store"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name      string `koanf:"name" validate:"required"`
	Env       string `koanf:"env" validate:"oneof=development production test"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// APIKey 为空时不校验
	APIKey string `koanf:"api_key"`
	// RateLimit 每个客户端每个窗口内的最大请求数，0 表示不限流
	RateLimit  int           `koanf:"rate_limit" validate:"gte=0"`
	RateWindow time.Duration `koanf:"rate_window"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	Name            string        `koanf:"name"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// StoreConfig 排班文件存储配置
type StoreConfig struct {
	Dir string `koanf:"dir" validate:"required"`
}

// Default 返回默认配置
func Default() Config {
	return Config{
		App: AppConfig{
			Name:      "shiftplan",
			Env:       "development",
			LogLevel:  "info",
			LogFormat: "console",
		},
		Server: ServerConfig{
			Addr:            ":7012",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateWindow:      time.Minute,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Name:            "shiftplan",
			User:            "shiftplan",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Store: StoreConfig{
			Dir: "outputs",
		},
	}
}

// Load 读取可选的 .env 文件后从环境变量加载配置，未给出文件时尝试 ./.env
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, p := range envFiles {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// envKey 把 SHIFTPLAN_DATABASE__HOST 映射为 database.host，其余变量忽略
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	for _, section := range sections {
		if strings.HasPrefix(key, section) {
			return key
		}
	}
	return ""
}

// Logger 返回日志配置
func (c *Config) Logger() logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = c.App.LogLevel
	lc.Format = c.App.LogFormat
	return lc
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsTest 检查是否为测试环境
func (c *Config) IsTest() bool {
	return c.App.Env == "test"
}
