// Package analytics derives comparative portfolio views from raw betting
// records and market price histories: realized returns, value curves,
// cutoff rebaselines, and the synthetic median composite model.
//
// Everything in this package is a pure function over already-fetched inputs.
// Gaps in the data surface as soft "unavailable" results, never as fabricated
// zeros; only the fetch shell produces hard errors.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

// AlignAndAverage merges irregularly dated series into one. The output covers
// the union of all input dates; at each date the value is the arithmetic mean
// of only the series that carry an explicit point there. Absent series are
// left out of the mean entirely: no interpolation, no forward-fill, no
// zero-fill.
func AlignAndAverage(series ...market.Series) market.Series {
	byDate := make(map[time.Time][]decimal.Decimal)
	for _, s := range series {
		for _, p := range s {
			key := p.Date.UTC()
			byDate[key] = append(byDate[key], p.Value)
		}
	}
	if len(byDate) == 0 {
		return nil
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	merged := make(market.Series, 0, len(dates))
	for _, d := range dates {
		values := byDate[d]
		merged = append(merged, market.Point{
			Date:  d,
			Value: decimal.Avg(values[0], values[1:]...),
		})
	}
	return merged
}
