package models

// EmployeeStats представляет статистику по набору сотрудников.
type EmployeeStats struct {
	Total      int `json:"total"`
	Workload10 int `json:"workload10"`
	Workload20 int `json:"workload20"`
	Workload30 int `json:"workload30"`
	Workload40 int `json:"workload40"`

	AverageAge float64 `json:"averageAge"`
	MinAge     int     `json:"minAge"`
	MaxAge     int     `json:"maxAge"`
	MedianAge  int     `json:"medianAge"`

	MedianWorkload int `json:"medianWorkload"`
	// AverageWomenWorkload равен nil, если в выборке нет женщин.
	AverageWomenWorkload *float64 `json:"averageWomenWorkload"`

	SortedByWorkload []Employee `json:"sortedByWorkload"`
}
