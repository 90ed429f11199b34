package stats

import (
	"fmt"
	"math"
	"strings"
)

// RoundingPolicy определяет, как непрерывный возраст приводится к целым годам.
type RoundingPolicy int

const (
	// RoundNearest округляет к ближайшему целому, половина вверх.
	RoundNearest RoundingPolicy = iota
	// RoundFloor отбрасывает дробную часть (полных лет).
	RoundFloor
)

// DefaultAgeRounding политика для minAge, maxAge и medianAge.
// Одна на все три поля: при смешении направлений minAge мог бы оказаться больше medianAge.
const DefaultAgeRounding = RoundNearest

// ParseRoundingPolicy разбирает имя политики из конфигурации ("nearest" или "floor").
// Пустая строка означает DefaultAgeRounding.
func ParseRoundingPolicy(name string) (RoundingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultAgeRounding, nil
	case "nearest":
		return RoundNearest, nil
	case "floor":
		return RoundFloor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

func (p RoundingPolicy) String() string {
	switch p {
	case RoundNearest:
		return "nearest"
	case RoundFloor:
		return "floor"
	default:
		return fmt.Sprintf("RoundingPolicy(%d)", int(p))
	}
}

// Whole приводит значение к целому по политике.
func (p RoundingPolicy) Whole(v float64) int {
	if p == RoundFloor {
		return int(math.Floor(v))
	}
	return roundHalfUp(v)
}

// RoundOneDecimal округляет до одного знака после запятой, половина вверх.
func RoundOneDecimal(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
