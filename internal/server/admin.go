package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/DevN0mad/EmployeeStats/internal/models"
	"github.com/DevN0mad/EmployeeStats/internal/services"
)

const (
	APIv1Prefix = "/api/v1"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxBodyBytes    = 8 << 20
)

// AdminServerOpts параметры для настройки административного сервера.
type AdminServerOpts struct {
	Address             string   `mapstructure:"address" validate:"required"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"min=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"min=0"`
	IdleTimeoutSeconds  int      `mapstructure:"idle_timeout_seconds" validate:"min=0"`
	AllowedOrigins      []string `mapstructure:"allowed_origins"`
}

// AdminServer HTTP API для расчета статистики сотрудников.
type AdminServer struct {
	logger   *slog.Logger
	opts     *AdminServerOpts
	srv      *http.Server
	statSrv  *services.StatisticsService
	excelSrv *services.ExcelReportService
	now      func() time.Time
}

// NewAdminHandler создаёт новый обработчик API.
func NewAdminHandler(
	logger *slog.Logger,
	statSrv *services.StatisticsService,
	excelSrv *services.ExcelReportService,
	opts *AdminServerOpts,
) *AdminServer {
	if logger == nil {
		logger = slog.Default()
	}

	return &AdminServer{
		logger:   logger,
		opts:     opts,
		statSrv:  statSrv,
		excelSrv: excelSrv,
		now:      time.Now,
	}
}

// Router собирает маршруты API.
func (h *AdminServer) Router() http.Handler {
	r := chi.NewRouter()

	if len(h.opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Use(httplog.RequestLogger(h.logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route(APIv1Prefix, func(r chi.Router) {
		r.Route("/statistics", func(r chi.Router) {
			r.Post("/", h.handleStatistics)
			r.Post("/export", h.handleExport)
			r.Post("/compute", h.handleCompute)
		})
	})

	return r
}

// handleStatistics генерирует сотрудников по запросу и возвращает статистику в JSON.
func (h *AdminServer) handleStatistics(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[models.GenerateRequest](w, r)
	if err != nil {
		handleError(w, err)
		return
	}

	report, err := h.statSrv.Run(r.Context(), req)
	if err != nil {
		h.logger.Warn("Statistics request failed", "error", err)
		handleError(w, err)
		return
	}

	writeSuccess(w, report)
}

// handleCompute считает статистику по переданному списку сотрудников.
func (h *AdminServer) handleCompute(w http.ResponseWriter, r *http.Request) {
	employees, err := decodeBody[[]models.Employee](w, r)
	if err != nil {
		handleError(w, err)
		return
	}

	report, err := h.statSrv.Compute(r.Context(), employees)
	if err != nil {
		handleError(w, err)
		return
	}

	writeSuccess(w, report)
}

// handleExport генерирует отчет и отдает его файлом Excel.
func (h *AdminServer) handleExport(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[models.GenerateRequest](w, r)
	if err != nil {
		handleError(w, err)
		return
	}

	report, err := h.statSrv.Run(r.Context(), req)
	if err != nil {
		h.logger.Warn("Export request failed", "error", err)
		handleError(w, err)
		return
	}

	f, err := h.excelSrv.BuildReport(report)
	if err != nil {
		h.logger.Error("Build excel report", "error", err)
		handleError(w, err)
		return
	}
	defer f.Close()

	name := fmt.Sprintf("employee_stats_%s.xlsx", h.now().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := f.Write(w); err != nil {
		h.logger.Error("Write excel report", "error", err)
	}
}

// decodeBody разбирает JSON тело запроса; любая ошибка разбора считается невалидным вводом.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, fmt.Errorf("%w: decode body: %w", services.ErrInvalidInput, err)
	}
	return v, nil
}

// Start запускает административный сервер и блокируется до его остановки.
func (h *AdminServer) Start(ctx context.Context) error {
	h.logger.Info("Starting admin server", "address", h.opts.Address)
	h.srv = &http.Server{
		Addr:         h.opts.Address,
		ReadTimeout:  time.Duration(h.opts.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(h.opts.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(h.opts.IdleTimeoutSeconds) * time.Second,
		Handler:      h.Router(),
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		h.logger.Info("Shutting down admin server (ctx canceled)")

		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.srv.Shutdown(shCtx); err != nil && err != http.ErrServerClosed {
			h.logger.Error("Admin server shutdown error", "error", err)
		}
	}()

	if err := h.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		h.logger.Error("Admin server error", "error", err)
		return err
	}

	<-shutdownDone
	h.logger.Info("Admin server stopped")
	return nil
}
