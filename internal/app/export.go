package app

import (
	"context"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/PresageLabs/PrediBench-sub000/internal/analytics"
	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

type namedCurve struct {
	Name  string
	Curve market.Series
}

// Export renders selected models' portfolio value curves as CSV and/or PNG,
// optionally rebaselined to a cutoff date for fair comparison.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

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

	selected := selectEntries(entries, opts.ModelIDs)
	if len(selected) == 0 {
		a.Logger.Info().Msg("no matching models to export")
		return nil
	}

	curves := make([]namedCurve, 0, len(selected))
	for _, entry := range selected {
		curve := a.canonicalCurve(entry)
		if opts.Cutoff != nil {
			curve = analytics.Rebaseline(curve, *opts.Cutoff)
		}
		if len(curve) == 0 {
			a.Logger.Warn().Str("model", entry.ModelID).Msg("empty curve, skipping")
			continue
		}
		name := entry.ModelName
		if name == "" {
			name = entry.ModelID
		}
		curves = append(curves, namedCurve{Name: name, Curve: downsampleCurve(curve, opts.MaxPoints)})
	}
	if len(curves) == 0 {
		a.Logger.Info().Msg("nothing to export")
		return nil
	}

	if opts.CSVPath != "" {
		if err := writeCurvesCSV(opts.CSVPath, curves); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeCurvesPNG(opts.PNGPath, curves); err != nil {
			return err
		}
	}

	a.Logger.Info().Int("models", len(curves)).Msg("export complete")
	return nil
}

func selectEntries(entries []market.LeaderboardEntry, modelIDs []string) []market.LeaderboardEntry {
	if len(modelIDs) == 0 {
		return entries
	}
	wanted := make(map[string]bool, len(modelIDs))
	for _, id := range modelIDs {
		wanted[id] = true
	}
	selected := make([]market.LeaderboardEntry, 0, len(modelIDs))
	for _, entry := range entries {
		if wanted[entry.ModelID] {
			selected = append(selected, entry)
		}
	}
	return selected
}

func downsampleCurve(curve market.Series, max int) market.Series {
	if max <= 0 || len(curve) <= max {
		return curve
	}

	result := make(market.Series, 0, max)
	step := float64(len(curve)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(curve) {
			idx = len(curve) - 1
		}
		result = append(result, curve[idx])
	}
	return result
}

func writeCurvesCSV(path string, curves []namedCurve) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"model", "date", "value"}); err != nil {
		return err
	}

	for _, nc := range curves {
		for _, point := range nc.Curve {
			record := []string{
				nc.Name,
				point.Date.UTC().Format(time.RFC3339),
				point.Value.String(),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	return writer.Error()
}

func writeCurvesPNG(path string, curves []namedCurve) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	valueFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.3f")
	}

	series := make([]chart.Series, 0, len(curves))
	for _, nc := range curves {
		series = append(series, chart.TimeSeries{
			Name:    nc.Name,
			XValues: nc.Curve.Dates(),
			YValues: nc.Curve.Values(),
		})
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Portfolio value",
			ValueFormatter: valueFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
