package cli

import (
	"github.com/spf13/cobra"

	"github.com/PresageLabs/PrediBench-sub000/internal/app"
)

var (
	exportModels    []string
	exportComposite bool
	exportCutoff    string
	exportPNGPath   string
	exportCSVPath   string
	exportMaxPoints int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export portfolio value curves as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		cutoff, err := app.ParseCutoff(exportCutoff)
		if err != nil {
			return err
		}

		opts := app.ExportOptions{
			ModelIDs:      exportModels,
			WithComposite: exportComposite,
			Cutoff:        cutoff,
			PNGPath:       exportPNGPath,
			CSVPath:       exportCSVPath,
			MaxPoints:     exportMaxPoints,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringSliceVar(&exportModels, "model", nil, "Model ids to export (default all)")
	exportCmd.Flags().BoolVar(&exportComposite, "composite", false, "Include the synthetic median composite model")
	exportCmd.Flags().StringVar(&exportCutoff, "cutoff", "", "Rebaseline curves to this date (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportMaxPoints, "max-points", 0, "Maximum data points per curve (defaults to config)")
}
