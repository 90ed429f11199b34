package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DevN0mad/EmployeeStats/internal/config"
	"github.com/DevN0mad/EmployeeStats/internal/core"
)

var (
	configPath = flag.String("config", "/etc/employee_stats/config.yaml", "Путь к YAML конфигурации сервиса статистики сотрудников")
)

func main() {
	flag.Parse()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfgMgr, err := config.NewManager(*configPath, logger)
	if err != nil {
		logger.Error("Failed to load employee stats config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	logger.Info("Starting employee stats service", "config", *configPath)
	app := core.NewApp(ctx, logger)

	if err := app.ApplyConfig(cfgMgr.Current()); err != nil {
		logger.Error("Failed to start employee stats services", "error", err)
		os.Exit(1)
	}

	cfgMgr.OnChange(func(newCfg config.Config) {
		if err := app.ApplyConfig(newCfg); err != nil {
			logger.Error("Failed to apply reloaded config, keeping previous services", "error", err)
		}
	})

	<-ctx.Done()
	logger.Info("Stopping employee stats service", "reason", ctx.Err())

	app.Shutdown()
	logger.Info("Employee stats service stopped")
}
