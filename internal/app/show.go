package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// Show prints recently archived leaderboard snapshots.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show snapshots")
	}
	if closeStore != nil {
		defer closeStore()
	}

	snapshots, err := store.ListRecentSnapshots(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Fprintln(os.Stdout, "no snapshots found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Taken (UTC)\tModels\tLeader\tProfit")

	for _, snapshot := range snapshots {
		fmt.Fprintf(
			writer,
			"%s\t%d\t%s\t%s\n",
			snapshot.TakenAt.UTC().Format(time.RFC3339),
			snapshot.ModelCount,
			snapshot.TopModelID,
			snapshot.TopProfit.StringFixed(2),
		)
	}

	return writer.Flush()
}
