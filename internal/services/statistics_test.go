package services

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevN0mad/EmployeeStats/internal/models"
	"github.com/DevN0mad/EmployeeStats/internal/stats"
)

func ptr(v float64) *float64 { return &v }

func newTestStatisticsService(t *testing.T, seed int64) *StatisticsService {
	t.Helper()
	srv, err := NewStatisticsService(
		StatisticsOpts{},
		NewEmployeeGenerator(rand.NewSource(seed), nil),
		func() time.Time { return fixedNow },
		nil,
	)
	require.NoError(t, err)
	return srv
}

func TestStatisticsService_ValidateRequest(t *testing.T) {
	srv := newTestStatisticsService(t, 1)

	cases := []struct {
		name  string
		req   models.GenerateRequest
		valid bool
	}{
		{"valid", models.GenerateRequest{Count: 10, Age: models.AgeRange{Min: ptr(19), Max: ptr(35)}}, true},
		{"equal bounds", models.GenerateRequest{Count: 1, Age: models.AgeRange{Min: ptr(30), Max: ptr(30)}}, true},
		{"zero count", models.GenerateRequest{Count: 0, Age: models.AgeRange{Min: ptr(19), Max: ptr(35)}}, false},
		{"negative count", models.GenerateRequest{Count: -5, Age: models.AgeRange{Min: ptr(19), Max: ptr(35)}}, false},
		{"NaN min", models.GenerateRequest{Count: 10, Age: models.AgeRange{Min: ptr(math.NaN()), Max: ptr(35)}}, false},
		{"infinite max", models.GenerateRequest{Count: 10, Age: models.AgeRange{Min: ptr(19), Max: ptr(math.Inf(1))}}, false},
		{"inverted bounds", models.GenerateRequest{Count: 10, Age: models.AgeRange{Min: ptr(50), Max: ptr(10)}}, false},
		{"missing min", models.GenerateRequest{Count: 10, Age: models.AgeRange{Max: ptr(35)}}, false},
		{"missing max", models.GenerateRequest{Count: 10, Age: models.AgeRange{Min: ptr(19)}}, false},
		{"negative min", models.GenerateRequest{Count: 10, Age: models.AgeRange{Min: ptr(-1), Max: ptr(35)}}, false},
		{"max above limit", models.GenerateRequest{Count: 10, Age: models.AgeRange{Min: ptr(19), Max: ptr(MaxAgeYears + 1)}}, false},
		{"huge max", models.GenerateRequest{Count: 5, Age: models.AgeRange{Min: ptr(0), Max: ptr(1e300)}}, false},
		{"zero min and max limit", models.GenerateRequest{Count: 5, Age: models.AgeRange{Min: ptr(0), Max: ptr(MaxAgeYears)}}, true},
		{"count at default limit", models.GenerateRequest{Count: DefaultMaxCount, Age: models.AgeRange{Min: ptr(19), Max: ptr(35)}}, true},
		{"count above default limit", models.GenerateRequest{Count: DefaultMaxCount + 1, Age: models.AgeRange{Min: ptr(19), Max: ptr(35)}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := srv.ValidateRequest(c.req)
			if c.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestStatisticsService_Run(t *testing.T) {
	srv := newTestStatisticsService(t, 42)

	report, err := srv.Run(context.Background(), models.GenerateRequest{
		Count: 50,
		Age:   models.AgeRange{Min: ptr(19), Max: ptr(35)},
	})
	require.NoError(t, err)

	assert.Equal(t, 50, report.Total)
	assert.Equal(t, report.Total, report.Workload10+report.Workload20+report.Workload30+report.Workload40)
	assert.GreaterOrEqual(t, report.MinAge, 19)
	assert.LessOrEqual(t, report.MaxAge, 35)
	assert.LessOrEqual(t, report.MinAge, report.MedianAge)
	assert.LessOrEqual(t, report.MedianAge, report.MaxAge)
	assert.Len(t, report.SortedByWorkload, 50)
}

func TestStatisticsService_Run_SameSeedSameReport(t *testing.T) {
	req := models.GenerateRequest{Count: 30, Age: models.AgeRange{Min: ptr(20), Max: ptr(65)}}

	a, err := newTestStatisticsService(t, 9).Run(context.Background(), req)
	require.NoError(t, err)
	b, err := newTestStatisticsService(t, 9).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestStatisticsService_Run_InvalidInputSkipsGeneration(t *testing.T) {
	srv := newTestStatisticsService(t, 1)

	report, err := srv.Run(context.Background(), models.GenerateRequest{
		Count: 0,
		Age:   models.AgeRange{Min: ptr(19), Max: ptr(35)},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, report)
}

func TestStatisticsService_Run_CanceledContext(t *testing.T) {
	srv := newTestStatisticsService(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := srv.Run(ctx, models.GenerateRequest{Count: 1, Age: models.AgeRange{Min: ptr(19), Max: ptr(35)}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatisticsService_Compute(t *testing.T) {
	srv := newTestStatisticsService(t, 1)

	employees := []models.Employee{
		{ID: "1", Gender: models.GenderFemale, Birthdate: fixedNow.AddDate(-30, 0, 0), Workload: 20},
		{ID: "2", Gender: models.GenderMale, Birthdate: fixedNow.AddDate(-40, 0, 0), Workload: 40},
	}

	report, err := srv.Compute(context.Background(), employees)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 30, report.MedianWorkload)
	require.NotNil(t, report.AverageWomenWorkload)
	assert.InDelta(t, 20.0, *report.AverageWomenWorkload, 1e-9)

	_, err = srv.Compute(context.Background(), nil)
	assert.ErrorIs(t, err, stats.ErrEmptyPopulation)
}

func TestNewStatisticsService(t *testing.T) {
	gen := NewEmployeeGenerator(rand.NewSource(1), nil)

	_, err := NewStatisticsService(StatisticsOpts{AgeRounding: "ceil"}, gen, nil, nil)
	assert.ErrorIs(t, err, stats.ErrUnknownPolicy)

	_, err = NewStatisticsService(StatisticsOpts{}, nil, nil, nil)
	assert.Error(t, err)

	srv, err := NewStatisticsService(StatisticsOpts{AgeRounding: "floor"}, gen, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, stats.RoundFloor, srv.engine.AgeRounding())
}

func TestStatisticsService_ValidateRequest_ConfiguredMaxCount(t *testing.T) {
	srv, err := NewStatisticsService(
		StatisticsOpts{MaxCount: 100},
		NewEmployeeGenerator(rand.NewSource(1), nil),
		func() time.Time { return fixedNow },
		nil,
	)
	require.NoError(t, err)

	age := models.AgeRange{Min: ptr(19), Max: ptr(35)}
	assert.NoError(t, srv.ValidateRequest(models.GenerateRequest{Count: 100, Age: age}))

	err = srv.ValidateRequest(models.GenerateRequest{Count: 101, Age: age})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "exceeds limit 100")

	// запрос сверх лимита отклоняется до генерации
	_, err = srv.Run(context.Background(), models.GenerateRequest{Count: math.MaxInt, Age: age})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
