package stats

import "time"

// YearLength длина года, используемая при переводе разницы дат в возраст.
const YearLength = 365.25 * 24 * time.Hour

// Age возвращает непрерывный (дробный) возраст в годах на момент now.
//
// Разница считается по миллисекундным меткам времени, поэтому не переполняется
// на интервалах, превышающих диапазон time.Duration.
func Age(birthdate, now time.Time) float64 {
	elapsed := now.UnixMilli() - birthdate.UnixMilli()
	return float64(elapsed) / float64(YearLength.Milliseconds())
}
