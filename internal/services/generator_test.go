package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevN0mad/EmployeeStats/internal/models"
	"github.com/DevN0mad/EmployeeStats/internal/stats"
)

var fixedNow = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

func TestEmployeeGenerator_Generate(t *testing.T) {
	gen := NewEmployeeGenerator(rand.NewSource(42), nil)

	employees, err := gen.Generate(200, 19, 35, fixedNow)
	require.NoError(t, err)
	require.Len(t, employees, 200)

	ids := make(map[string]struct{}, len(employees))
	for _, emp := range employees {
		assert.NotEmpty(t, emp.Name)
		assert.NotEmpty(t, emp.Surname)
		assert.Contains(t, []models.Gender{models.GenderMale, models.GenderFemale}, emp.Gender)
		assert.Contains(t, models.Workloads, emp.Workload)

		age := stats.Age(emp.Birthdate, fixedNow)
		assert.GreaterOrEqual(t, age, 19.0-1e-9)
		assert.LessOrEqual(t, age, 35.0+1e-9)

		_, dup := ids[emp.ID]
		assert.False(t, dup, "duplicate id %s", emp.ID)
		ids[emp.ID] = struct{}{}
	}
}

func TestEmployeeGenerator_SameSeedSameEmployees(t *testing.T) {
	a, err := NewEmployeeGenerator(rand.NewSource(7), nil).Generate(25, 20, 60, fixedNow)
	require.NoError(t, err)
	b, err := NewEmployeeGenerator(rand.NewSource(7), nil).Generate(25, 20, 60, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEmployeeGenerator_DegenerateAgeRange(t *testing.T) {
	employees, err := NewEmployeeGenerator(rand.NewSource(1), nil).Generate(10, 30, 30, fixedNow)
	require.NoError(t, err)

	for _, emp := range employees {
		assert.InDelta(t, 30.0, stats.Age(emp.Birthdate, fixedNow), 1e-6)
	}
}

func TestGeneratorOpts_Source(t *testing.T) {
	a := rand.New(GeneratorOpts{Seed: 5}.Source()).Int63()
	b := rand.New(GeneratorOpts{Seed: 5}.Source()).Int63()
	assert.Equal(t, a, b)

	assert.NotNil(t, GeneratorOpts{}.Source())
}

func TestEmployeeGenerator_IDsDrawnFromSeededSource(t *testing.T) {
	gen := NewEmployeeGenerator(rand.NewSource(7), nil)

	employees, err := gen.Generate(1, 19, 35, fixedNow)
	require.NoError(t, err)

	// идентификатор первого сотрудника это первые байты потока с тем же seed
	want, err := uuid.NewRandomFromReader(rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, want.String(), employees[0].ID)
}
