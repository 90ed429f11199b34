package models

import "time"

// Gender пол сотрудника.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Допустимые значения рабочей нагрузки (процент от полной ставки).
const (
	Workload10 = 10
	Workload20 = 20
	Workload30 = 30
	Workload40 = 40
)

// Workloads перечисляет допустимые значения нагрузки по возрастанию.
var Workloads = []int{Workload10, Workload20, Workload30, Workload40}

// Employee представляет сгенерированную запись о сотруднике.
type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Gender    Gender    `json:"gender"`
	Birthdate time.Time `json:"birthdate"`
	Workload  int       `json:"workload"`
}
