package cli

import (
	"github.com/spf13/cobra"

	"github.com/PresageLabs/PrediBench-sub000/internal/app"
)

var (
	leaderboardCutoff    string
	leaderboardComposite bool
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Display the model leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		cutoff, err := app.ParseCutoff(leaderboardCutoff)
		if err != nil {
			return err
		}

		opts := app.LeaderboardOptions{
			Cutoff:        cutoff,
			WithComposite: leaderboardComposite,
		}

		return getApp().Leaderboard(cmd.Context(), opts)
	},
}

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardCutoff, "cutoff", "", "Rebaseline all curves to this date (YYYY-MM-DD)")
	leaderboardCmd.Flags().BoolVar(&leaderboardComposite, "composite", false, "Include the synthetic median composite model")
}
