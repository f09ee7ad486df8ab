package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/PresageLabs/PrediBench-sub000/internal/app"
)

var archiveAt string

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Capture and archive one leaderboard snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ArchiveOptions{}

		if archiveAt != "" {
			at, err := time.Parse(time.RFC3339, archiveAt)
			if err != nil {
				return fmt.Errorf("invalid --at value: %w", err)
			}
			opts.At = at
		}

		return getApp().Archive(cmd.Context(), opts)
	},
}

func init() {
	archiveCmd.Flags().StringVar(&archiveAt, "at", "", "Snapshot timestamp (RFC3339, defaults to now)")
}
