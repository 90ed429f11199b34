package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/DevN0mad/EmployeeStats/internal/models"
)

// Engine считает сводную статистику по сотрудникам.
type Engine struct {
	ageRounding RoundingPolicy
}

// NewEngine создает движок с заданной политикой округления возраста.
func NewEngine(ageRounding RoundingPolicy) *Engine {
	return &Engine{ageRounding: ageRounding}
}

// AgeRounding возвращает политику округления minAge, maxAge и medianAge.
func (e *Engine) AgeRounding() RoundingPolicy {
	return e.ageRounding
}

// Compute строит отчет по сотрудникам на момент now.
//
// Записи с нагрузкой вне {10,20,30,40} учитываются в total, возрасте и медиане
// нагрузки, но не попадают ни в одну из четырех корзин workloadNN.
func (e *Engine) Compute(employees []models.Employee, now time.Time) (*models.EmployeeStats, error) {
	total := len(employees)
	if total == 0 {
		return nil, ErrEmptyPopulation
	}

	report := &models.EmployeeStats{Total: total}

	ages := make([]float64, 0, total)
	workloads := make([]float64, 0, total)
	var (
		sumAges        float64
		minAge, maxAge float64
		womenSum       float64
		womenCount     int
	)

	for i, emp := range employees {
		switch emp.Workload {
		case models.Workload10:
			report.Workload10++
		case models.Workload20:
			report.Workload20++
		case models.Workload30:
			report.Workload30++
		case models.Workload40:
			report.Workload40++
		}

		age := Age(emp.Birthdate, now)
		ages = append(ages, age)
		sumAges += age
		if i == 0 || age < minAge {
			minAge = age
		}
		if i == 0 || age > maxAge {
			maxAge = age
		}

		workloads = append(workloads, float64(emp.Workload))

		if emp.Gender == models.GenderFemale {
			womenSum += float64(emp.Workload)
			womenCount++
		}
	}

	medianAge, err := Median(ages)
	if err != nil {
		return nil, err
	}
	medianWorkload, err := Median(workloads)
	if err != nil {
		return nil, err
	}

	// Возраст усредняется и берется медиана по непрерывным значениям,
	// до целых лет приводится только результат, одной политикой e.ageRounding.
	report.AverageAge = RoundOneDecimal(sumAges / float64(total))
	report.MinAge = e.ageRounding.Whole(minAge)
	report.MaxAge = e.ageRounding.Whole(maxAge)
	report.MedianAge = e.ageRounding.Whole(medianAge)

	report.MedianWorkload = roundHalfUp(medianWorkload)

	if womenCount > 0 {
		avg := RoundOneDecimal(womenSum / float64(womenCount))
		report.AverageWomenWorkload = &avg
	}

	report.SortedByWorkload = SortByWorkload(employees)

	return report, nil
}

// SortByWorkload возвращает копию списка, упорядоченную по возрастанию нагрузки.
// Порядок сотрудников с одинаковой нагрузкой сохраняется.
func SortByWorkload(employees []models.Employee) []models.Employee {
	sorted := slices.Clone(employees)
	slices.SortStableFunc(sorted, func(a, b models.Employee) int {
		return cmp.Compare(a.Workload, b.Workload)
	})
	return sorted
}
