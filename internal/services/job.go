package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DevN0mad/EmployeeStats/internal/models"
)

// DailyJobOpts параметры необходимые для работы сервиса.
type DailyJobOpts struct {
	Enabled bool `mapstructure:"enabled"`
	Hour    int  `mapstructure:"hour" validate:"min=0,max=23"`
	Minute  int  `mapstructure:"minute" validate:"min=0,max=59"`
}

// FileSender доставляет готовый файл отчета получателю.
type FileSender interface {
	SendFile(ctx context.Context, path, summary string) error
}

// DailyJobService каждый день в заданное время формирует отчет и отправляет его.
type DailyJobService struct {
	sender   FileSender
	statSrv  *StatisticsService
	excelSrv *ExcelReportService
	request  models.GenerateRequest
	hour     int
	minute   int
	timezone *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewDailyJobService создаёт сервис для ежедневной отправки отчетов.
func NewDailyJobService(
	sender FileSender,
	statSrv *StatisticsService,
	excelSrv *ExcelReportService,
	request models.GenerateRequest,
	opts DailyJobOpts,
	logger *slog.Logger,
) (*DailyJobService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if sender == nil {
		return nil, ErrNoSender
	}

	if statSrv == nil || excelSrv == nil {
		return nil, fmt.Errorf("statistics and excel services are required")
	}

	if err := statSrv.ValidateRequest(request); err != nil {
		return nil, fmt.Errorf("daily job request: %w", err)
	}

	logger.Info("Daily job configured",
		"hour", opts.Hour,
		"minute", opts.Minute,
		"timezone", time.Local.String(),
		"count", request.Count)

	return &DailyJobService{
		sender:   sender,
		statSrv:  statSrv,
		excelSrv: excelSrv,
		request:  request,
		hour:     opts.Hour,
		minute:   opts.Minute,
		timezone: time.Local,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// Start запускает цикл отправки.
func (d *DailyJobService) Start(ctx context.Context) {
	nextRun := d.nextRunTime()
	timer := time.NewTimer(time.Until(nextRun))
	d.logger.Info("Next run scheduled", "at", nextRun.Format(time.RFC3339))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Shutdown requested")
			timer.Stop()
			return
		case <-timer.C:
			if err := d.RunOnce(ctx); err != nil {
				d.logger.Error("Daily report sending failed", "error", err)
			} else {
				d.logger.Info("Daily report sent successfully")
			}

			nextRun = d.nextRunTime()
			timer.Reset(time.Until(nextRun))
			d.logger.Info("Next run scheduled", "at", nextRun.Format(time.RFC3339))
		}
	}
}

// RunOnce формирует отчет, сохраняет его в Excel и отправляет файл.
func (d *DailyJobService) RunOnce(ctx context.Context) error {
	report, err := d.statSrv.Run(ctx, d.request)
	if err != nil {
		return fmt.Errorf("run statistics: %w", err)
	}

	path, err := d.excelSrv.SaveReport(report, d.now())
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	if err := d.sender.SendFile(ctx, path, Summary(report)); err != nil {
		return fmt.Errorf("send report: %w", err)
	}

	return nil
}

// nextRunTime вычисляет ближайшее время запуска. Следующий день берется
// календарно, а не через 24h, чтобы переход на летнее время не сдвигал запуск.
func (d *DailyJobService) nextRunTime() time.Time {
	now := d.now().In(d.timezone)
	today := time.Date(now.Year(), now.Month(), now.Day(), d.hour, d.minute, 0, 0, d.timezone)

	if now.After(today) {
		return time.Date(now.Year(), now.Month(), now.Day()+1, d.hour, d.minute, 0, 0, d.timezone)
	}
	return today
}

// Summary короткая текстовая сводка отчета для подписи к файлу.
func Summary(report *models.EmployeeStats) string {
	women := "n/a"
	if report.AverageWomenWorkload != nil {
		women = fmt.Sprintf("%.1f", *report.AverageWomenWorkload)
	}

	return fmt.Sprintf("total=%d averageAge=%.1f age=%d..%d medianAge=%d medianWorkload=%d averageWomenWorkload=%s",
		report.Total,
		report.AverageAge,
		report.MinAge,
		report.MaxAge,
		report.MedianAge,
		report.MedianWorkload,
		women)
}
