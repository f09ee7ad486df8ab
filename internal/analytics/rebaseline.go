package analytics

import (
	"time"

	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

// Rebaseline rescales a value curve so that it equals exactly 1.0 at the
// first point on or after the cutoff date. Points before the cutoff are
// flattened to the 1.0 "not yet started" sentinel; points from the cutoff on
// are divided by the cutoff value, so relative growth after the cutoff is
// preserved. A curve with no point on or after the cutoff yields an empty
// result.
//
// Applying the transform twice with the same cutoff is idempotent within
// decimal division precision.
func Rebaseline(curve market.Series, cutoff time.Time) market.Series {
	cutoffIdx := -1
	for i, p := range curve {
		if !p.Date.Before(cutoff) {
			cutoffIdx = i
			break
		}
	}
	if cutoffIdx < 0 {
		return nil
	}

	cutoffValue := curve[cutoffIdx].Value
	if cutoffValue.IsZero() {
		// Value curves are strictly positive by contract; a zero here means
		// the input is unusable rather than rescalable.
		return nil
	}

	out := make(market.Series, len(curve))
	for i, p := range curve {
		if i < cutoffIdx {
			out[i] = market.Point{Date: p.Date, Value: one}
			continue
		}
		out[i] = market.Point{Date: p.Date, Value: p.Value.Div(cutoffValue)}
	}
	return out
}
