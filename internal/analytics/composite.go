package analytics

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

// ErrIncompleteCoverage marks a composite request that cannot be satisfied
// because one or more required models are absent from the leaderboard
// snapshot. Callers omit the composite instead of showing a partial entry.
var ErrIncompleteCoverage = errors.New("analytics: required models not all present")

// CompositeSpec names the synthetic model and fixes the set of underlying
// models it is built from. At least two models are required.
type CompositeSpec struct {
	ModelID   string
	ModelName string
	Required  []string
}

// Median returns the middle order statistic of the values; for an even count
// it is the mean of the two central values after ascending sort. The input
// slice is not modified.
func Median(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Decimal{}
	}

	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return decimal.Avg(sorted[mid-1], sorted[mid])
}

type pairKey struct {
	eventID string
	date    time.Time
}

type marketContribution struct {
	question string
	bets     []decimal.Decimal
	probs    []decimal.Decimal
}

type eventMeta struct {
	title       string
	description string
}

// BuildAggregateDecisions synthesizes the composite model's decision history.
// An (event, target date) pair qualifies only when every required model
// placed at least one nonzero bet somewhere within that event on that date;
// pairs failing the predicate are dropped entirely. Within a qualifying pair,
// the composite bet and estimated probability for each market are the medians
// of the nonzero contributions.
func BuildAggregateDecisions(spec CompositeSpec, decisionsByModel map[string][]market.Decision) []market.Decision {
	participants := make(map[pairKey]map[string]bool)
	contributions := make(map[pairKey]map[string]*marketContribution)
	meta := make(map[pairKey]eventMeta)

	for _, modelID := range spec.Required {
		for _, d := range decisionsByModel[modelID] {
			for _, ed := range d.Events {
				pair := pairKey{eventID: ed.EventID, date: d.TargetDate.UTC()}
				for _, md := range ed.Markets {
					if !md.Traded() {
						continue
					}
					if participants[pair] == nil {
						participants[pair] = make(map[string]bool)
						contributions[pair] = make(map[string]*marketContribution)
						meta[pair] = eventMeta{title: ed.Title, description: ed.Description}
					}
					participants[pair][modelID] = true
					mc := contributions[pair][md.MarketID]
					if mc == nil {
						mc = &marketContribution{question: md.Question}
						contributions[pair][md.MarketID] = mc
					}
					mc.bets = append(mc.bets, md.Bet)
					mc.probs = append(mc.probs, md.EstimatedProbability)
				}
			}
		}
	}

	qualifying := make([]pairKey, 0, len(participants))
	for pair, models := range participants {
		covered := true
		for _, modelID := range spec.Required {
			if !models[modelID] {
				covered = false
				break
			}
		}
		if covered {
			qualifying = append(qualifying, pair)
		}
	}
	sort.Slice(qualifying, func(i, j int) bool {
		if !qualifying[i].date.Equal(qualifying[j].date) {
			return qualifying[i].date.Before(qualifying[j].date)
		}
		return qualifying[i].eventID < qualifying[j].eventID
	})

	var decisions []market.Decision
	for _, pair := range qualifying {
		ed := market.EventDecision{
			EventID:     pair.eventID,
			Title:       meta[pair].title,
			Description: meta[pair].description,
		}

		marketIDs := make([]string, 0, len(contributions[pair]))
		for id := range contributions[pair] {
			marketIDs = append(marketIDs, id)
		}
		sort.Strings(marketIDs)

		for _, id := range marketIDs {
			mc := contributions[pair][id]
			ed.Markets = append(ed.Markets, market.MarketDecision{
				MarketID:             id,
				Question:             mc.question,
				Bet:                  Median(mc.bets),
				EstimatedProbability: Median(mc.probs),
			})
		}

		if n := len(decisions); n > 0 && decisions[n-1].TargetDate.Equal(pair.date) {
			decisions[n-1].Events = append(decisions[n-1].Events, ed)
			continue
		}
		decisions = append(decisions, market.Decision{
			ModelID:    spec.ModelID,
			TargetDate: pair.date,
			Events:     []market.EventDecision{ed},
		})
	}
	return decisions
}

// BuildAggregateEntry assembles the composite leaderboard row. Summary
// statistics are approximated as the arithmetic mean of each statistic across
// the required models, and the value curves come from aligning and averaging
// the underlying models' curves; neither is recomputed from the synthetic
// decisions. Returns ErrIncompleteCoverage when any required model is missing
// from the snapshot.
func BuildAggregateEntry(spec CompositeSpec, leaderboard []market.LeaderboardEntry, decisionsByModel map[string][]market.Decision) (market.LeaderboardEntry, error) {
	if len(spec.Required) < 2 {
		return market.LeaderboardEntry{}, ErrIncompleteCoverage
	}

	byID := make(map[string]market.LeaderboardEntry, len(leaderboard))
	for _, e := range leaderboard {
		byID[e.ModelID] = e
	}

	members := make([]market.LeaderboardEntry, 0, len(spec.Required))
	for _, modelID := range spec.Required {
		e, ok := byID[modelID]
		if !ok {
			return market.LeaderboardEntry{}, ErrIncompleteCoverage
		}
		members = append(members, e)
	}

	entry := market.LeaderboardEntry{
		ModelID:   spec.ModelID,
		ModelName: spec.ModelName,
		Horizons:  make(map[string]market.HorizonStats),
	}

	profits := make([]decimal.Decimal, len(members))
	briers := make([]decimal.Decimal, len(members))
	for i, m := range members {
		profits[i] = m.FinalProfit
		briers[i] = m.Brier
	}
	entry.FinalProfit = mean(profits)
	entry.Brier = mean(briers)

	for _, horizon := range market.Horizons() {
		var avgReturns, sharpes []decimal.Decimal
		for _, m := range members {
			if hs, ok := m.Horizons[horizon]; ok {
				avgReturns = append(avgReturns, hs.AvgReturn)
				sharpes = append(sharpes, hs.Sharpe)
			}
		}
		if len(avgReturns) == 0 {
			continue
		}
		entry.Horizons[horizon] = market.HorizonStats{
			AvgReturn: mean(avgReturns),
			Sharpe:    mean(sharpes),
		}
	}

	compound := make([]market.Series, len(members))
	additive := make([]market.Series, len(members))
	for i, m := range members {
		compound[i] = m.CompoundCurve
		additive[i] = m.AdditiveCurve
	}
	entry.CompoundCurve = AlignAndAverage(compound...)
	entry.AdditiveCurve = AlignAndAverage(additive...)

	for _, d := range BuildAggregateDecisions(spec, decisionsByModel) {
		for _, ed := range d.Events {
			for _, md := range ed.Markets {
				if md.Traded() {
					entry.TradeCount++
				}
			}
		}
	}

	return entry, nil
}

func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Decimal{}
	}
	return decimal.Avg(values[0], values[1:]...)
}
