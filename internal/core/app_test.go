package core

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevN0mad/EmployeeStats/internal/config"
	"github.com/DevN0mad/EmployeeStats/internal/models"
	"github.com/DevN0mad/EmployeeStats/internal/server"
	"github.com/DevN0mad/EmployeeStats/internal/services"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	minAge, maxAge := 20.0, 40.0
	return config.Config{
		Generator:  services.GeneratorOpts{Seed: 1},
		Statistics: services.StatisticsOpts{AgeRounding: "nearest"},
		Report: services.ReportOpts{
			SaveDir: t.TempDir(),
			Request: models.GenerateRequest{Count: 10, Age: models.AgeRange{Min: &minAge, Max: &maxAge}},
		},
		HttpServer: server.AdminServerOpts{Address: "127.0.0.1:0"},
	}
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestBuildServices(t *testing.T) {
	cfg := testConfig(t)

	built, err := BuildServices(cfg, discardLogger)
	require.NoError(t, err)

	report, err := built.Statistics.Run(context.Background(), cfg.Report.Request)
	require.NoError(t, err)
	assert.Equal(t, 10, report.Total)
}

func TestBuildServices_InvalidRounding(t *testing.T) {
	cfg := testConfig(t)
	cfg.Statistics.AgeRounding = "up"

	_, err := BuildServices(cfg, discardLogger)
	assert.Error(t, err)
}

func TestApp_ApplyConfigAndShutdown(t *testing.T) {
	app := NewApp(context.Background(), discardLogger)

	require.NoError(t, app.ApplyConfig(testConfig(t)))
	// Повторное применение останавливает предыдущие сервисы
	require.NoError(t, app.ApplyConfig(testConfig(t)))

	app.Shutdown()
	app.Shutdown()
}

func TestApp_ApplyConfig_DailyJobRequiresTelegram(t *testing.T) {
	cfg := testConfig(t)
	cfg.DailyJob = services.DailyJobOpts{Enabled: true, Hour: 8}

	app := NewApp(context.Background(), discardLogger)
	err := app.ApplyConfig(cfg)
	assert.ErrorContains(t, err, "init telegram bot")
	app.Shutdown()
}
