package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PresageLabs/PrediBench-sub000/internal/app"
)

var (
	returnsModel string
	returnsLimit int
)

var returnsCmd = &cobra.Command{
	Use:   "returns",
	Short: "Recompute a model's per-decision returns breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		if returnsModel == "" {
			return fmt.Errorf("--model is required")
		}

		opts := app.ReturnsOptions{
			ModelID: returnsModel,
			Limit:   returnsLimit,
		}

		return getApp().Returns(cmd.Context(), opts)
	},
}

func init() {
	returnsCmd.Flags().StringVar(&returnsModel, "model", "", "Model id to analyze")
	returnsCmd.Flags().IntVar(&returnsLimit, "limit", 0, "Only analyze the most recent N decisions (0 = all)")
}
