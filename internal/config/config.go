package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	Auth       AuthConfig       `toml:"auth"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SchedulingConfig параметры расчета расписания
// Часы работы используются, если в БД нет записи на день недели
type SchedulingConfig struct {
	Timezone           string `toml:"timezone"`
	DefaultBufferHours int    `toml:"default_buffer_hours"`
	ExhaustiveMaxItems int    `toml:"exhaustive_max_items"`
	ExhaustiveMaxLanes int    `toml:"exhaustive_max_lanes"`
	WeekdayOpenHour    int    `toml:"weekday_open_hour"`
	WeekdayCloseHour   int    `toml:"weekday_close_hour"`
	SundayOpenHour     int    `toml:"sunday_open_hour"`
	SundayCloseHour    int    `toml:"sunday_close_hour"`
}

// Location загружает часовой пояс салона
func (s SchedulingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q: %v", ErrInvalidConfig, s.Timezone, err)
	}
	return loc, nil
}

type AuthConfig struct {
	StaffUserIDs []int64 `toml:"staff_user_ids"`
}

// Load читает конфигурацию из TOML файла, применяет переменные окружения и значения по умолчанию
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if password, ok := os.LookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = password
	}
	if port, ok := os.LookupEnv("HTTP_PORT"); ok {
		parsed, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT must be a number: %v", ErrInvalidConfig, err)
		}
		c.Server.HTTPPort = parsed
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "salon-booking"
	}

	s := &c.Scheduling
	if s.Timezone == "" {
		s.Timezone = "America/Los_Angeles"
	}
	if s.DefaultBufferHours == 0 {
		s.DefaultBufferHours = 1
	}
	if s.ExhaustiveMaxItems == 0 {
		s.ExhaustiveMaxItems = 20
	}
	if s.ExhaustiveMaxLanes == 0 {
		s.ExhaustiveMaxLanes = 4
	}
	if s.WeekdayOpenHour == 0 && s.WeekdayCloseHour == 0 {
		s.WeekdayOpenHour, s.WeekdayCloseHour = 9, 19
	}
	if s.SundayOpenHour == 0 && s.SundayCloseHour == 0 {
		s.SundayOpenHour, s.SundayCloseHour = 10, 17
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}

	s := c.Scheduling
	if _, err := s.Location(); err != nil {
		return err
	}
	if s.DefaultBufferHours < 0 || s.DefaultBufferHours > 72 {
		return fmt.Errorf("%w: scheduling.default_buffer_hours must be in 0..72", ErrInvalidConfig)
	}
	if s.ExhaustiveMaxItems < 0 || s.ExhaustiveMaxLanes < 0 {
		return fmt.Errorf("%w: scheduling exhaustive limits must not be negative", ErrInvalidConfig)
	}
	if !validHours(s.WeekdayOpenHour, s.WeekdayCloseHour) {
		return fmt.Errorf("%w: weekday hours %d-%d are invalid", ErrInvalidConfig, s.WeekdayOpenHour, s.WeekdayCloseHour)
	}
	if !validHours(s.SundayOpenHour, s.SundayCloseHour) {
		return fmt.Errorf("%w: sunday hours %d-%d are invalid", ErrInvalidConfig, s.SundayOpenHour, s.SundayCloseHour)
	}
	return nil
}

func validHours(open, close int) bool {
	return open >= 0 && close <= 24 && open < close
}
