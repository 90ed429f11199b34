package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/DevN0mad/EmployeeStats/internal/server"
	"github.com/DevN0mad/EmployeeStats/internal/services"
)

// EnvPrefix префикс переменных окружения, переопределяющих значения из файла.
// Например, EMPLOYEE_STATS_HTTP_SERVER_ADDRESS для http_server.address.
const EnvPrefix = "EMPLOYEE_STATS"

// Config представляет конфигурацию приложения.
type Config struct {
	Generator   services.GeneratorOpts  `mapstructure:"generator"`
	Statistics  services.StatisticsOpts `mapstructure:"statistics"`
	Report      services.ReportOpts     `mapstructure:"report"`
	DailyJob    services.DailyJobOpts   `mapstructure:"daily_job"`
	TelegramBot services.TelegramOpts   `mapstructure:"telegram_bot"`
	HttpServer  server.AdminServerOpts  `mapstructure:"http_server"`
}

// Manager управляет конфигурацией приложения, обеспечивая загрузку,
// валидацию и перезагрузку при изменении файла.
type Manager struct {
	mu          sync.RWMutex
	cfg         *Config
	logger      *slog.Logger
	v           *viper.Viper
	subscribers []func(Config)
	validate    *validator.Validate
}

// Load читает и проверяет конфигурацию без отслеживания изменений.
func Load(path string, logger *slog.Logger) (Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	v, err := newViper(path, logger)
	if err != nil {
		return Config{}, err
	}

	return decode(v, validator.New())
}

// NewManager создает новый менеджер конфигурации, загружая конфигурацию из указанного пути.
func NewManager(path string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	v, err := newViper(path, logger)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		logger:   logger,
		v:        v,
		validate: validator.New(),
	}

	cfg, err := decode(v, m.validate)
	if err != nil {
		logger.Error("Validate config", "error", err)
		return nil, err
	}
	m.cfg = &cfg

	logger.Info("Config loaded", "path", path)

	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("Config file changed", "name", e.Name, "op", e.Op.String())
		m.reload()
	})
	v.WatchConfig()

	return m, nil
}

// reload перечитывает конфигурацию и уведомляет подписчиков.
// Невалидная конфигурация игнорируется, остается предыдущая.
func (m *Manager) reload() {
	newCfg, err := decode(m.v, m.validate)
	if err != nil {
		m.logger.Error("Failed to reload config", "error", err)
		return
	}

	m.mu.Lock()
	m.cfg = &newCfg
	subs := append([]func(Config){}, m.subscribers...)
	m.mu.Unlock()

	m.logger.Info("Config reloaded successfully")

	for _, fn := range subs {
		fn(newCfg)
	}
}

// Current возвращает текущую конфигурацию.
func (m *Manager) Current() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.cfg
}

// OnChange регистрирует функцию обратного вызова, которая будет вызвана при изменении конфигурации.
func (m *Manager) OnChange(fn func(Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// newViper готовит viper для файла path. Файл .env рядом с конфигурацией, если есть,
// загружается в окружение; уже заданные переменные окружения не перезаписываются.
func newViper(path string, logger *slog.Logger) (*viper.Viper, error) {
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %q: %w", envFile, err)
		}
		logger.Info("Env file loaded", "path", envFile)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("access env file %q: %w", envFile, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	return v, nil
}

func decode(v *viper.Viper, validate *validator.Validate) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
