package domain

import "encoding/json"

// Rows and columns of a WeekSchedule.
const (
	DayTypes    = 3
	HoursPerDay = 24
	Weekday     = 0
	Saturday    = 1
	Sunday      = 2
)

// WeekSchedule holds hourly values for a weekday, a Saturday and a Sunday.
// The array type fixes the 3x24 shape; decoding rejects any other shape.
type WeekSchedule [DayTypes][HoursPerDay]float64

// Uniform returns a schedule with every hour set to v.
func Uniform(v float64) WeekSchedule {
	var w WeekSchedule
	for d := range w {
		for h := range w[d] {
			w[d][h] = v
		}
	}
	return w
}

// Rows returns the schedule as nested slices.
func (w WeekSchedule) Rows() [][]float64 {
	out := make([][]float64, DayTypes)
	for d := range w {
		out[d] = append([]float64(nil), w[d][:]...)
	}
	return out
}

func (w WeekSchedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Rows())
}

func (w *WeekSchedule) UnmarshalJSON(data []byte) error {
	m, err := FixedShapeMatrix(DayTypes, HoursPerDay).Decode("", data)
	if err != nil {
		return err
	}
	*w = weekFromRows(m)
	return nil
}

// weekFromRows copies an already shape-checked matrix.
func weekFromRows(m [][]float64) WeekSchedule {
	var w WeekSchedule
	for d := range w {
		copy(w[d][:], m[d])
	}
	return w
}
