package models

// AgeRange интервал возраста в годах.
type AgeRange struct {
	Min *float64 `json:"min" mapstructure:"min" validate:"required"`
	Max *float64 `json:"max" mapstructure:"max" validate:"required"`
}

// GenerateRequest параметры генерации сотрудников.
type GenerateRequest struct {
	Count int      `json:"count" mapstructure:"count" validate:"gt=0"`
	Age   AgeRange `json:"age" mapstructure:"age"`
}
