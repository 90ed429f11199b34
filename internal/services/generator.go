package services

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"

	"github.com/DevN0mad/EmployeeStats/internal/models"
	"github.com/DevN0mad/EmployeeStats/internal/stats"
)

// GeneratorOpts параметры генератора сотрудников.
type GeneratorOpts struct {
	// Seed начальное значение генератора; 0 означает засев от текущего времени.
	Seed int64 `mapstructure:"seed"`
}

// Source возвращает источник случайных чисел согласно настройкам.
func (o GeneratorOpts) Source() rand.Source {
	if o.Seed == 0 {
		return rand.NewSource(time.Now().UnixNano())
	}
	return rand.NewSource(o.Seed)
}

// EmployeeGenerator генерирует случайных сотрудников из переданного источника случайности.
type EmployeeGenerator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	faker  faker.Faker
	logger *slog.Logger
}

// NewEmployeeGenerator создает генератор поверх src. Один и тот же seed дает одинаковых сотрудников.
func NewEmployeeGenerator(src rand.Source, logger *slog.Logger) *EmployeeGenerator {
	if logger == nil {
		logger = slog.Default()
	}

	// faker, идентификаторы и даты рождения берут значения из одного потока rng
	rng := rand.New(src)
	return &EmployeeGenerator{
		rng:    rng,
		faker:  faker.Faker{Generator: rng},
		logger: logger,
	}
}

// Generate создает count сотрудников, возраст которых на момент now лежит в [minAge, maxAge] годах.
func (g *EmployeeGenerator) Generate(count int, minAge, maxAge float64, now time.Time) ([]models.Employee, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	employees := make([]models.Employee, 0, count)
	for i := 0; i < count; i++ {
		emp, err := g.generateEmployee(minAge, maxAge, now)
		if err != nil {
			g.logger.Error("Failed to generate employee", "index", i, "error", err)
			return nil, fmt.Errorf("generate employee %d: %w", i, err)
		}
		employees = append(employees, emp)
	}

	g.logger.Debug("Employees generated", "count", len(employees), "min_age", minAge, "max_age", maxAge)
	return employees, nil
}

// generateEmployee создает одного сотрудника; пол выбирается первым, имя подбирается под пол.
func (g *EmployeeGenerator) generateEmployee(minAge, maxAge float64, now time.Time) (models.Employee, error) {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return models.Employee{}, fmt.Errorf("generate id: %w", err)
	}

	gender := models.Gender(g.faker.RandomStringElement([]string{
		string(models.GenderMale),
		string(models.GenderFemale),
	}))

	person := g.faker.Person()
	name := person.FirstNameMale()
	if gender == models.GenderFemale {
		name = person.FirstNameFemale()
	}

	return models.Employee{
		ID:        id.String(),
		Name:      name,
		Surname:   person.LastName(),
		Gender:    gender,
		Birthdate: g.randomBirthdate(minAge, maxAge, now),
		Workload:  g.faker.RandomIntElement(models.Workloads),
	}, nil
}

// randomBirthdate выбирает дату рождения равномерно между now-maxAge и now-minAge.
func (g *EmployeeGenerator) randomBirthdate(minAge, maxAge float64, now time.Time) time.Time {
	yearMs := float64(stats.YearLength.Milliseconds())
	nowMs := float64(now.UnixMilli())

	oldest := nowMs - maxAge*yearMs
	youngest := nowMs - minAge*yearMs

	birthMs := oldest + g.rng.Float64()*(youngest-oldest)
	return time.UnixMilli(int64(birthMs)).UTC()
}
