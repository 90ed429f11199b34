package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/DevN0mad/EmployeeStats/internal/models"
	"github.com/DevN0mad/EmployeeStats/internal/stats"
)

const (
	// DefaultMaxCount ограничение размера выборки, если statistics.max_count не задан.
	DefaultMaxCount = 100_000
	// MaxAgeYears верхняя граница возраста в запросе.
	MaxAgeYears = 150
)

// StatisticsOpts параметры расчета статистики.
type StatisticsOpts struct {
	// AgeRounding политика округления minAge/maxAge/medianAge: "nearest" или "floor".
	AgeRounding string `mapstructure:"age_rounding" validate:"omitempty,oneof=nearest floor"`
	// MaxCount наибольшее допустимое count; 0 означает DefaultMaxCount.
	MaxCount int `mapstructure:"max_count" validate:"min=0"`
}

// StatisticsService генерирует сотрудников и считает по ним статистику.
type StatisticsService struct {
	generator *EmployeeGenerator
	engine    *stats.Engine
	validate  *validator.Validate
	maxCount  int
	now       func() time.Time
	logger    *slog.Logger
}

// NewStatisticsService создает сервис статистики. Если clock равен nil, используется time.Now.
func NewStatisticsService(
	opts StatisticsOpts,
	generator *EmployeeGenerator,
	clock func() time.Time,
	logger *slog.Logger,
) (*StatisticsService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if generator == nil {
		return nil, fmt.Errorf("employee generator is required")
	}

	if clock == nil {
		clock = time.Now
	}

	policy, err := stats.ParseRoundingPolicy(opts.AgeRounding)
	if err != nil {
		return nil, fmt.Errorf("parse age rounding: %w", err)
	}

	maxCount := opts.MaxCount
	if maxCount == 0 {
		maxCount = DefaultMaxCount
	}

	logger.Info("Statistics service configured", "age_rounding", policy.String(), "max_count", maxCount)

	return &StatisticsService{
		generator: generator,
		engine:    stats.NewEngine(policy),
		validate:  validator.New(),
		maxCount:  maxCount,
		now:       clock,
		logger:    logger,
	}, nil
}

// Run проверяет запрос, генерирует сотрудников и возвращает статистику по ним.
// Возраст считается на один и тот же момент времени, что и при генерации.
func (s *StatisticsService) Run(ctx context.Context, req models.GenerateRequest) (*models.EmployeeStats, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err := s.ValidateRequest(req); err != nil {
		s.logger.Warn("Rejected generate request", "error", err)
		return nil, err
	}

	now := s.now()
	employees, err := s.generator.Generate(req.Count, *req.Age.Min, *req.Age.Max, now)
	if err != nil {
		return nil, fmt.Errorf("generate employees: %w", err)
	}

	report, err := s.engine.Compute(employees, now)
	if err != nil {
		s.logger.Error("Failed to compute statistics", "error", err)
		return nil, fmt.Errorf("compute statistics: %w", err)
	}

	s.logger.Info("Statistics computed",
		"total", report.Total,
		"average_age", report.AverageAge,
		"median_workload", report.MedianWorkload)
	return report, nil
}

// Compute считает статистику по уже готовому списку сотрудников, минуя генератор.
func (s *StatisticsService) Compute(ctx context.Context, employees []models.Employee) (*models.EmployeeStats, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	report, err := s.engine.Compute(employees, s.now())
	if err != nil {
		s.logger.Warn("Failed to compute statistics", "employees", len(employees), "error", err)
		return nil, fmt.Errorf("compute statistics: %w", err)
	}
	return report, nil
}

// ValidateRequest проверяет параметры генерации до ее запуска.
// Возраст ограничен [0, MaxAgeYears], count не больше настроенного max_count.
func (s *StatisticsService) ValidateRequest(req models.GenerateRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.validate.Var(req.Count, fmt.Sprintf("lte=%d", s.maxCount)); err != nil {
		return fmt.Errorf("%w: count %d exceeds limit %d", ErrInvalidInput, req.Count, s.maxCount)
	}

	minAge, maxAge := *req.Age.Min, *req.Age.Max
	if !isFinite(minAge) || !isFinite(maxAge) {
		return fmt.Errorf("%w: age bounds must be finite numbers", ErrInvalidInput)
	}

	if err := s.validate.Var(minAge, "gte=0"); err != nil {
		return fmt.Errorf("%w: age min %v is negative", ErrInvalidInput, minAge)
	}

	if err := s.validate.Var(maxAge, fmt.Sprintf("lte=%d", MaxAgeYears)); err != nil {
		return fmt.Errorf("%w: age max %v exceeds %d years", ErrInvalidInput, maxAge, MaxAgeYears)
	}

	if minAge > maxAge {
		return fmt.Errorf("%w: age min %v is greater than max %v", ErrInvalidInput, minAge, maxAge)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
