package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Point is one dated value in a time series.
type Point struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// Series is an ordered, irregularly dated value series. Dates are treated as
// exact keys: two points belong to the same instant only when their dates
// compare equal.
type Series []Point

// At returns the value at the given date.
func (s Series) At(date time.Time) (decimal.Decimal, bool) {
	for _, p := range s {
		if p.Date.Equal(date) {
			return p.Value, true
		}
	}
	return decimal.Decimal{}, false
}

// Last returns the final point of the series.
func (s Series) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// Dates returns the ordered dates of the series.
func (s Series) Dates() []time.Time {
	dates := make([]time.Time, len(s))
	for i, p := range s {
		dates[i] = p.Date
	}
	return dates
}

// Values returns the series values as float64 for rendering.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value.InexactFloat64()
	}
	return values
}
