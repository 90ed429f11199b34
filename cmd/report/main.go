package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/DevN0mad/EmployeeStats/internal/config"
	"github.com/DevN0mad/EmployeeStats/internal/core"
	"github.com/DevN0mad/EmployeeStats/internal/services"
)

var (
	configPath = flag.String("config", "/etc/employee_stats/config.yaml", "Путь к файлу с конфигурацией")
)

// Разовый запуск: генерирует сотрудников по report.request, печатает отчет в JSON
// и сохраняет Excel файл в report.save_dir.
func main() {
	flag.Parse()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath, logger)
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	built, err := core.BuildServices(cfg, logger)
	if err != nil {
		logger.Error("Failed to init services", "error", err)
		os.Exit(1)
	}

	report, err := built.Statistics.Run(context.Background(), cfg.Report.Request)
	if err != nil {
		logger.Error("Failed to generate report", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Error("Failed to encode report", "error", err)
		os.Exit(1)
	}

	resPath, err := built.Excel.SaveReport(report, time.Now())
	if err != nil {
		logger.Error("Failed to save report", "error", err)
		os.Exit(1)
	}

	logger.Info("Result path to file", "path", resPath, "summary", services.Summary(report))
}
