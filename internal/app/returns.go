package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/PresageLabs/PrediBench-sub000/internal/analytics"
	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

// Returns recomputes one model's per-decision returns breakdown from raw
// decision records and market price histories, and prints it together with
// the value curve implied by the configured semantics. Markets without
// usable prices are reported as unavailable and left out of every sum.
func (a *App) Returns(ctx context.Context, opts ReturnsOptions) error {
	if opts.ModelID == "" {
		return errors.New("model id is required")
	}

	client := a.newClient()

	decisions, err := client.DecisionsByModel(ctx, opts.ModelID)
	if err != nil {
		return err
	}
	if len(decisions) == 0 {
		fmt.Fprintf(os.Stdout, "no decisions found for model %s\n", opts.ModelID)
		return nil
	}

	sort.Slice(decisions, func(i, j int) bool {
		return decisions[i].TargetDate.Before(decisions[j].TargetDate)
	})
	if opts.Limit > 0 && len(decisions) > opts.Limit {
		decisions = decisions[len(decisions)-opts.Limit:]
	}

	// Price lookups are shared across decisions but stay local to this
	// request; nothing is cached between invocations.
	prices := make(map[string]market.PriceSeries)
	fetched := make(map[string]bool)

	var periodReturns []analytics.PeriodReturn
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tEvent\tGain\tBets\tStatus")

	for i, decision := range decisions {
		for _, ed := range decision.Events {
			if fetched[ed.EventID] {
				continue
			}
			fetched[ed.EventID] = true
			event, err := client.EventByID(ctx, ed.EventID)
			if err != nil {
				return err
			}
			for _, mi := range event.Markets {
				prices[mi.ID] = mi.Prices
			}
		}

		var next *market.Decision
		if i+1 < len(decisions) {
			next = &decisions[i+1]
		}

		breakdown := analytics.ComputeReturns(decision, next, prices)
		periodReturns = append(periodReturns, analytics.PeriodReturn{
			Date:   decision.TargetDate,
			Return: breakdown.TotalReturn,
		})

		for _, er := range breakdown.Events {
			status := "ok"
			if !er.Available {
				status = "unavailable"
			}
			bets := 0
			for _, mr := range er.Markets {
				if mr.Traded {
					bets++
				}
			}
			title := er.Title
			if title == "" {
				title = er.EventID
			}
			fmt.Fprintf(
				writer,
				"%s\t%s\t%s\t%d\t%s\n",
				decision.TargetDate.UTC().Format("2006-01-02"),
				title,
				er.Gain.StringFixed(4),
				bets,
				status,
			)
		}
	}

	if err := writer.Flush(); err != nil {
		return err
	}

	curve := analytics.BuildCurve(periodReturns, a.curveMode())
	if last, ok := curve.Last(); ok {
		fmt.Fprintf(os.Stdout, "\n%s portfolio value (%s): %s as of %s\n",
			opts.ModelID,
			a.curveMode(),
			last.Value.StringFixed(4),
			last.Date.UTC().Format("2006-01-02"),
		)
	}
	return nil
}
