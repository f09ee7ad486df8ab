package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one observation of a market's implied probability.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// PriceSeries is the ordered price history of a single market.
type PriceSeries struct {
	MarketID string       `json:"market_id"`
	Points   []PricePoint `json:"points"`
}

// MarketDecision is a single bet: sign of Bet picks the side (positive backs
// "Yes", negative backs "No"), |Bet| is the stake in dollars.
type MarketDecision struct {
	MarketID             string           `json:"market_id"`
	Question             string           `json:"question"`
	Rationale            string           `json:"rationale,omitempty"`
	EstimatedProbability decimal.Decimal  `json:"estimated_probability"`
	Bet                  decimal.Decimal  `json:"bet"`
	Confidence           int              `json:"confidence"`
	NetGain              *decimal.Decimal `json:"net_gain,omitempty"`
}

// Traded reports whether this record counts as a trade.
func (m MarketDecision) Traded() bool {
	return !m.Bet.IsZero()
}

// EventDecision is one model's allocation within one event on one decision date.
type EventDecision struct {
	EventID     string           `json:"event_id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Markets     []MarketDecision `json:"market_decisions"`
	Unallocated decimal.Decimal  `json:"unallocated"`
	NetGains    Series           `json:"net_gains,omitempty"`
}

// Decision is one model's full allocation on one target date. Decisions are
// append-only records produced upstream; this code never mutates them.
type Decision struct {
	ModelID    string          `json:"model_id"`
	TargetDate time.Time       `json:"target_date"`
	DecidedAt  time.Time       `json:"decided_at"`
	Events     []EventDecision `json:"event_decisions"`
	NetGains   Series          `json:"net_gains,omitempty"`
}

// MarketInfo describes one market inside a fetched event, including its
// full price history.
type MarketInfo struct {
	ID       string      `json:"id"`
	Question string      `json:"question"`
	Prices   PriceSeries `json:"prices"`
}

// Event is the collaborator-service view of a prediction-market event.
type Event struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Markets     []MarketInfo `json:"markets"`
}

// Standard return horizons reported by the upstream leaderboard.
const (
	HorizonOneDay  = "1d"
	HorizonTwoDay  = "2d"
	HorizonWeek    = "7d"
	HorizonAllTime = "all"
)

// Horizons lists the standard horizons in display order.
func Horizons() []string {
	return []string{HorizonOneDay, HorizonTwoDay, HorizonWeek, HorizonAllTime}
}

// HorizonStats carries the precomputed average return and annualized Sharpe
// ratio for one horizon.
type HorizonStats struct {
	AvgReturn decimal.Decimal `json:"avg_return"`
	Sharpe    decimal.Decimal `json:"sharpe"`
}

// LeaderboardEntry is one model's row in the leaderboard snapshot. Brier and
// per-horizon statistics are computed upstream; this code only derives
// comparative views from them.
type LeaderboardEntry struct {
	ModelID       string                  `json:"model_id"`
	ModelName     string                  `json:"model_name"`
	FinalProfit   decimal.Decimal         `json:"final_profit"`
	TradeCount    int                     `json:"trade_count"`
	Brier         decimal.Decimal         `json:"brier"`
	Horizons      map[string]HorizonStats `json:"horizons"`
	CompoundCurve Series                  `json:"compound_curve"`
	AdditiveCurve Series                  `json:"additive_curve"`
}
