package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

// CurveMode selects the portfolio value semantics.
type CurveMode string

const (
	// CurveCompound reinvests all capital each period:
	// value[i] = value[i-1] * (1 + return[i]).
	CurveCompound CurveMode = "compound"
	// CurveAdditive restakes a fixed $1 each period regardless of prior
	// outcome: value[i] = value[i-1] + return[i].
	CurveAdditive CurveMode = "additive"
)

// Valid reports whether the mode is one of the two supported semantics.
func (m CurveMode) Valid() bool {
	return m == CurveCompound || m == CurveAdditive
}

// PeriodReturn is the fractional return realized between one decision and the
// next (or the latest data for the final open period), stamped with the
// decision date it belongs to.
type PeriodReturn struct {
	Date   time.Time
	Return decimal.Decimal
}

var one = decimal.NewFromInt(1)

// BuildCurve folds ordered period returns into a portfolio value curve. The
// curve starts at 1.0 on the first decision date and is indexed by exactly
// the source dates: no gap dates are fabricated.
func BuildCurve(returns []PeriodReturn, mode CurveMode) market.Series {
	if len(returns) == 0 {
		return nil
	}

	curve := make(market.Series, len(returns))
	curve[0] = market.Point{Date: returns[0].Date, Value: one}
	for i := 1; i < len(returns); i++ {
		prev := curve[i-1].Value
		var next decimal.Decimal
		switch mode {
		case CurveAdditive:
			next = prev.Add(returns[i].Return)
		default:
			next = prev.Mul(one.Add(returns[i].Return))
		}
		curve[i] = market.Point{Date: returns[i].Date, Value: next}
	}
	return curve
}
