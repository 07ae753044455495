package config

import (
	"fmt"
	"strings"
	"time"
)

// Config - главная структура конфигурации
type Config struct {
	App       AppConfig        `koanf:"app"`
	HTTP      HTTPConfig       `koanf:"http"`
	Log       LogConfig        `koanf:"log"`
	Metrics   MetricsConfig    `koanf:"metrics"`
	Tracing   TracingConfig    `koanf:"tracing"`
	Database  DatabaseConfig   `koanf:"database"`
	Cache     CacheConfig      `koanf:"cache"`
	Report    ReportConfig     `koanf:"report"`
	Building  BuildingConfig   `koanf:"building"`
	Scenarios []ScenarioConfig `koanf:"scenarios"`
	Runner    RunnerConfig     `koanf:"runner"`
}

// AppConfig - общие настройки приложения
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// HTTPConfig - настройки HTTP сервера
type HTTPConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig - настройки логирования
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file
	FilePath   string `koanf:"file_path"`   // путь к файлу логов
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"` // количество бэкапов
	MaxAge     int    `koanf:"max_age"`     // дней
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig - настройки Prometheus метрик
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// TracingConfig - настройки OpenTelemetry
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// DatabaseConfig - настройки базы данных
type DatabaseConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Database        string        `koanf:"database"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// DSN возвращает строку подключения
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode,
	)
}

// CacheConfig - настройки кэширования результатов
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // redis, memory
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"` // для in-memory
}

// Address возвращает адрес кэша
func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReportConfig - настройки генерации отчётов
type ReportConfig struct {
	Format    string `koanf:"format"`     // csv, json, markdown, excel, pdf
	OutputDir string `koanf:"output_dir"` // директория для файлов отчётов
	Title     string `koanf:"title"`
	Author    string `koanf:"author"`
}

// BuildingConfig - описание здания: узлы, коридоры и параметры модели
type BuildingConfig struct {
	Name         string           `koanf:"name"`
	WalkingSpeed float64          `koanf:"walking_speed"` // м/с
	StairPenalty float64          `koanf:"stair_penalty"` // сек
	Nodes        []NodeConfig     `koanf:"nodes"`
	Corridors    []CorridorConfig `koanf:"corridors"`
}

// NodeConfig - узел здания в конфигурации
type NodeConfig struct {
	ID   string `koanf:"id"`
	Role string `koanf:"role"` // entrance, room, junction, stairwell, exit
	Name string `koanf:"name"`
}

// CorridorConfig - коридор здания в конфигурации
type CorridorConfig struct {
	From     string  `koanf:"from"`
	To       string  `koanf:"to"`
	Capacity float64 `koanf:"capacity"` // чел/мин
	Length   float64 `koanf:"length"`   // метры
	Kind     string  `koanf:"kind"`     // corridor, ramp, stairs
}

// ScenarioConfig - именованный сценарий нарушения топологии
type ScenarioConfig struct {
	Name        string             `koanf:"name"`
	Disruptions []DisruptionConfig `koanf:"disruptions"`
}

// DisruptionConfig - закрытие одного коридора
type DisruptionConfig struct {
	From string `koanf:"from"`
	To   string `koanf:"to"`
}

// RunnerConfig - настройки прогона сценариев
type RunnerConfig struct {
	Concurrency int           `koanf:"concurrency"` // 0 или 1 - последовательно
	Timeout     time.Duration `koanf:"timeout"`
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Sprintf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}

	validFormats := map[string]bool{"csv": true, "json": true, "markdown": true, "excel": true, "pdf": true}
	if c.Report.Format != "" && !validFormats[c.Report.Format] {
		errs = append(errs, fmt.Sprintf("report.format must be one of: csv, json, markdown, excel, pdf, got %s", c.Report.Format))
	}

	validDrivers := map[string]bool{"memory": true, "redis": true}
	if c.Cache.Enabled && !validDrivers[c.Cache.Driver] {
		errs = append(errs, fmt.Sprintf("cache.driver must be one of: memory, redis, got %s", c.Cache.Driver))
	}

	if c.Building.WalkingSpeed <= 0 {
		errs = append(errs, fmt.Sprintf("building.walking_speed must be positive, got %g", c.Building.WalkingSpeed))
	}
	if c.Building.StairPenalty < 0 {
		errs = append(errs, fmt.Sprintf("building.stair_penalty must be non-negative, got %g", c.Building.StairPenalty))
	}

	if c.Runner.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("runner.concurrency must be non-negative, got %d", c.Runner.Concurrency))
	}

	seen := map[string]bool{}
	for _, s := range c.Scenarios {
		if s.Name == "" {
			errs = append(errs, "scenarios[].name is required")
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Sprintf("duplicate scenario name %q", s.Name))
		}
		seen[s.Name] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// IsDevelopment проверяет режим разработки
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction проверяет продакшн режим
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
