package services

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/DevN0mad/EmployeeStats/internal/models"
)

const (
	StatisticsSheet = "Statistics"
	EmployeesSheet  = "Employees"
)

// ReportOpts параметры формирования отчета.
type ReportOpts struct {
	SaveDir string                 `mapstructure:"save_dir" validate:"required"`
	Request models.GenerateRequest `mapstructure:"request"`
}

// ExcelReportService сохраняет статистику сотрудников в Excel.
type ExcelReportService struct {
	opts   ReportOpts
	logger *slog.Logger
}

// NewExcelReportService создает сервис выгрузки отчетов в Excel.
func NewExcelReportService(opts ReportOpts, logger *slog.Logger) *ExcelReportService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ExcelReportService{
		opts:   opts,
		logger: logger,
	}
}

// SaveReport записывает отчет в файл в каталоге SaveDir и возвращает путь к нему.
func (s *ExcelReportService) SaveReport(report *models.EmployeeStats, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(s.opts.SaveDir, 0o755); err != nil {
		s.logger.Error("Failed to create report dir", "dir", s.opts.SaveDir, "error", err)
		return "", fmt.Errorf("create report dir: %w", err)
	}

	f, err := s.BuildReport(report)
	if err != nil {
		return "", err
	}
	defer f.Close()

	name := fmt.Sprintf("employee_stats_%s.xlsx", generatedAt.Format("20060102_150405"))
	path := filepath.Join(s.opts.SaveDir, name)

	s.logger.Info("Saving Excel file", "path", path)
	if err := f.SaveAs(path); err != nil {
		s.logger.Error("Failed to save Excel file", "path", path, "error", err)
		return "", fmt.Errorf("save excel file: %w", err)
	}

	return path, nil
}

// BuildReport создает Excel книгу с двумя листами: сводка и сотрудники по возрастанию нагрузки.
func (s *ExcelReportService) BuildReport(report *models.EmployeeStats) (*excelize.File, error) {
	if report == nil {
		return nil, fmt.Errorf("report is required")
	}

	f := excelize.NewFile()

	if _, err := f.NewSheet(StatisticsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet %q: %w", StatisticsSheet, err)
	}
	// Удаляем дефолтный лист после создания своего, иначе книга остается без листов
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	if err := s.writeSummary(f, report); err != nil {
		f.Close()
		return nil, err
	}

	if err := s.writeEmployees(f, report.SortedByWorkload); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// writeSummary заполняет лист сводной статистики парами "поле - значение".
func (s *ExcelReportService) writeSummary(f *excelize.File, report *models.EmployeeStats) error {
	// Отсутствие женщин в выборке отображается пустой ячейкой, а не нулем
	var womenWorkload any
	if report.AverageWomenWorkload != nil {
		womenWorkload = *report.AverageWomenWorkload
	}

	rows := [][]any{
		{"Field", "Value"},
		{"total", report.Total},
		{"workload10", report.Workload10},
		{"workload20", report.Workload20},
		{"workload30", report.Workload30},
		{"workload40", report.Workload40},
		{"averageAge", report.AverageAge},
		{"minAge", report.MinAge},
		{"maxAge", report.MaxAge},
		{"medianAge", report.MedianAge},
		{"medianWorkload", report.MedianWorkload},
		{"averageWomenWorkload", womenWorkload},
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(StatisticsSheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}

	return f.SetColWidth(StatisticsSheet, "A", "B", 25)
}

// writeEmployees заполняет лист сотрудников.
func (s *ExcelReportService) writeEmployees(f *excelize.File, employees []models.Employee) error {
	if _, err := f.NewSheet(EmployeesSheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", EmployeesSheet, err)
	}

	headers := []any{"ID", "Name", "Surname", "Gender", "Birthdate", "Workload"}
	if err := f.SetSheetRow(EmployeesSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write employee headers: %w", err)
	}

	for i, emp := range employees {
		row := []any{
			emp.ID,
			emp.Name,
			emp.Surname,
			string(emp.Gender),
			emp.Birthdate.UTC().Format(time.RFC3339),
			emp.Workload,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(EmployeesSheet, cell, &row); err != nil {
			return fmt.Errorf("write employee row %d: %w", i+2, err)
		}
	}

	for i := range headers {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(EmployeesSheet, colName, colName, 20); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	return nil
}
