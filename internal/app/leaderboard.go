package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/PresageLabs/PrediBench-sub000/internal/analytics"
	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

// Leaderboard prints the current leaderboard snapshot, optionally injecting
// the synthetic composite entry and rebaselining every curve to a cutoff
// date. Incomplete composite coverage is a soft condition: the composite row
// is omitted with a warning and the real entries still render.
func (a *App) Leaderboard(ctx context.Context, opts LeaderboardOptions) error {
	client := a.newClient()

	entries, err := client.Leaderboard(ctx)
	if err != nil {
		return err
	}

	if opts.WithComposite && a.Config.Composite.Enabled() {
		composite, err := a.buildComposite(ctx, entries)
		if err != nil {
			if !errors.Is(err, analytics.ErrIncompleteCoverage) {
				return err
			}
			a.Logger.Warn().Msg("composite skipped: required models not all present")
		} else {
			entries = append(entries, composite)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].FinalProfit.GreaterThan(entries[j].FinalProfit)
	})

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Model\tProfit\tTrades\tBrier\tSharpe(7d)\tCurve End")

	for _, entry := range entries {
		curve := a.canonicalCurve(entry)
		if opts.Cutoff != nil {
			curve = analytics.Rebaseline(curve, *opts.Cutoff)
		}
		curveEnd := "-"
		if last, ok := curve.Last(); ok {
			curveEnd = last.Value.StringFixed(4)
		}

		sharpe := "-"
		if hs, ok := entry.Horizons[market.HorizonWeek]; ok {
			sharpe = hs.Sharpe.StringFixed(2)
		}

		name := entry.ModelName
		if name == "" {
			name = entry.ModelID
		}

		fmt.Fprintf(
			writer,
			"%s\t%s\t%d\t%s\t%s\t%s\n",
			name,
			entry.FinalProfit.StringFixed(2),
			entry.TradeCount,
			entry.Brier.StringFixed(3),
			sharpe,
			curveEnd,
		)
	}

	return writer.Flush()
}

// buildComposite fetches the required models' decision histories and
// assembles the synthetic median entry.
func (a *App) buildComposite(ctx context.Context, entries []market.LeaderboardEntry) (market.LeaderboardEntry, error) {
	client := a.newClient()
	spec := a.compositeSpec()

	decisionsByModel := make(map[string][]market.Decision, len(spec.Required))
	for _, modelID := range spec.Required {
		decisions, err := client.DecisionsByModel(ctx, modelID)
		if err != nil {
			return market.LeaderboardEntry{}, err
		}
		decisionsByModel[modelID] = decisions
	}

	return analytics.BuildAggregateEntry(spec, entries, decisionsByModel)
}

// ParseCutoff converts a CLI date flag (YYYY-MM-DD or RFC3339) into a cutoff
// time.
func ParseCutoff(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	cutoff, err := time.Parse("2006-01-02", value)
	if err != nil {
		cutoff, err = time.Parse(time.RFC3339, value)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid cutoff %q: %w", value, err)
	}
	return &cutoff, nil
}
