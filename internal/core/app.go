package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/DevN0mad/EmployeeStats/internal/config"
	"github.com/DevN0mad/EmployeeStats/internal/server"
	"github.com/DevN0mad/EmployeeStats/internal/services"
)

// Services набор сервисов, собранных из одной конфигурации.
type Services struct {
	Statistics *services.StatisticsService
	Excel      *services.ExcelReportService
}

// BuildServices создает сервисы генерации, статистики и выгрузки по конфигурации.
func BuildServices(cfg config.Config, logger *slog.Logger) (*Services, error) {
	generator := services.NewEmployeeGenerator(cfg.Generator.Source(), logger)

	statSrv, err := services.NewStatisticsService(cfg.Statistics, generator, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("init statistics service: %w", err)
	}

	return &Services{
		Statistics: statSrv,
		Excel:      services.NewExcelReportService(cfg.Report, logger),
	}, nil
}

// App представляет основное приложение, управляющее сервисами.
type App struct {
	logger  *slog.Logger
	rootCtx context.Context

	mu             sync.Mutex
	services       *Services
	dailyJob       *services.DailyJobService
	adminSrv       *server.AdminServer
	servicesCancel context.CancelFunc
	running        sync.WaitGroup
}

// NewApp создает новый экземпляр приложения с заданным логгером и корневым контекстом.
func NewApp(ctx context.Context, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &App{
		logger:  logger,
		rootCtx: ctx,
	}
}

// ApplyConfig применяет конфигурацию к приложению, инициализируя/переинициализируя сервисы.
func (a *App) ApplyConfig(cfg config.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	built, err := BuildServices(cfg, a.logger)
	if err != nil {
		return err
	}

	var dailyJob *services.DailyJobService
	if cfg.DailyJob.Enabled {
		tg, err := services.NewTelegramBot(cfg.TelegramBot, a.logger)
		if err != nil {
			return fmt.Errorf("init telegram bot: %w", err)
		}

		dailyJob, err = services.NewDailyJobService(tg, built.Statistics, built.Excel, cfg.Report.Request, cfg.DailyJob, a.logger)
		if err != nil {
			return fmt.Errorf("init daily job: %w", err)
		}
	}

	adminSrv := server.NewAdminHandler(a.logger, built.Statistics, built.Excel, &cfg.HttpServer)

	a.stopLocked()

	ctx, cancel := context.WithCancel(a.rootCtx)

	if dailyJob != nil {
		a.running.Add(1)
		go func() {
			defer a.running.Done()
			dailyJob.Start(ctx)
		}()
	}

	a.running.Add(1)
	go func() {
		defer a.running.Done()
		if err := adminSrv.Start(ctx); err != nil {
			a.logger.Error("Admin server exited with error", "error", err)
		}
	}()

	a.services = built
	a.dailyJob = dailyJob
	a.adminSrv = adminSrv
	a.servicesCancel = cancel

	a.logger.Info("Services reinitialized successfully with configuration",
		"daily_job", cfg.DailyJob.Enabled,
		"address", cfg.HttpServer.Address)
	return nil
}

// Shutdown останавливает все запущенные сервисы приложения и дожидается их завершения.
func (a *App) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()
}

// stopLocked отменяет контекст текущих сервисов и ждет их остановки,
// чтобы новый сервер мог занять тот же адрес.
func (a *App) stopLocked() {
	if a.servicesCancel == nil {
		return
	}

	a.logger.Info("Stopping services")
	a.servicesCancel()
	a.servicesCancel = nil
	a.running.Wait()
}
