package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

// MarketReturn is the realized outcome of a single bet over one decision
// window. Available is false when a bounding price could not be found; an
// unavailable gain is excluded from aggregation, never treated as zero.
type MarketReturn struct {
	MarketID  string
	Question  string
	Gain      decimal.Decimal
	Available bool
	Traded    bool
}

// EventReturn aggregates the available market gains of one event.
type EventReturn struct {
	EventID   string
	Title     string
	Gain      decimal.Decimal
	Available bool
	Markets   []MarketReturn
}

// Breakdown is the full returns picture of one decision: the sum of all
// available event gains, the number of trades placed, and the per-event
// detail.
type Breakdown struct {
	ModelID     string
	TargetDate  time.Time
	TotalReturn decimal.Decimal
	TotalBets   int
	Events      []EventReturn
}

// MarketGain computes the realized gain of one bet between the decision date
// and the window end. The entry price is the first series point on or after
// the decision date; the exit price is the last point on or before windowEnd,
// or the latest available point when windowEnd is nil (mark-to-latest).
//
// The boolean result distinguishes "no gain" from "gain unknown": when either
// bounding price is missing the gain is unavailable and must not enter sums.
// A zero bet always yields a zero, available gain.
func MarketGain(md market.MarketDecision, prices market.PriceSeries, decisionDate time.Time, windowEnd *time.Time) (decimal.Decimal, bool) {
	if md.Bet.IsZero() {
		return decimal.Zero, true
	}

	startIdx := -1
	for i, p := range prices.Points {
		if !p.Date.Before(decisionDate) {
			startIdx = i
			break
		}
	}
	if startIdx < 0 {
		return decimal.Decimal{}, false
	}

	endIdx := -1
	for i, p := range prices.Points {
		if windowEnd != nil && p.Date.After(*windowEnd) {
			break
		}
		endIdx = i
	}
	if endIdx < startIdx {
		return decimal.Decimal{}, false
	}

	startPrice := prices.Points[startIdx].Price
	endPrice := prices.Points[endIdx].Price
	return md.Bet.Mul(endPrice.Sub(startPrice)), true
}

// EventGain sums the available market gains of one event decision over the
// given window. The event is available when at least one component gain is,
// or when the event placed no bets at all.
func EventGain(ed market.EventDecision, pricesByMarket map[string]market.PriceSeries, decisionDate time.Time, windowEnd *time.Time) EventReturn {
	out := EventReturn{
		EventID: ed.EventID,
		Title:   ed.Title,
		Gain:    decimal.Zero,
		Markets: make([]MarketReturn, 0, len(ed.Markets)),
	}

	traded := false
	for _, md := range ed.Markets {
		gain, ok := MarketGain(md, pricesByMarket[md.MarketID], decisionDate, windowEnd)
		mr := MarketReturn{
			MarketID:  md.MarketID,
			Question:  md.Question,
			Gain:      gain,
			Available: ok,
			Traded:    md.Traded(),
		}
		out.Markets = append(out.Markets, mr)
		if md.Traded() {
			traded = true
		}
		if ok {
			out.Gain = out.Gain.Add(gain)
			out.Available = true
		}
	}
	if !traded {
		out.Available = true
	}
	return out
}

// ComputeReturns folds a full decision into its returns breakdown. The
// decision window runs from the decision's target date to the next decision's
// target date for the same model; pass nil to mark the final open period to
// the latest available price.
func ComputeReturns(d market.Decision, next *market.Decision, pricesByMarket map[string]market.PriceSeries) Breakdown {
	var windowEnd *time.Time
	if next != nil {
		end := next.TargetDate
		windowEnd = &end
	}

	out := Breakdown{
		ModelID:     d.ModelID,
		TargetDate:  d.TargetDate,
		TotalReturn: decimal.Zero,
		Events:      make([]EventReturn, 0, len(d.Events)),
	}

	for _, ed := range d.Events {
		er := EventGain(ed, pricesByMarket, d.TargetDate, windowEnd)
		out.Events = append(out.Events, er)
		if er.Available {
			out.TotalReturn = out.TotalReturn.Add(er.Gain)
		}
		for _, md := range ed.Markets {
			if md.Traded() {
				out.TotalBets++
			}
		}
	}
	return out
}
