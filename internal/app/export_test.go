package app

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

func sampleCurve(n int) market.Series {
	curve := make(market.Series, n)
	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := range curve {
		curve[i] = market.Point{
			Date:  base.AddDate(0, 0, i),
			Value: decimal.NewFromInt(int64(i)),
		}
	}
	return curve
}

func TestDownsampleCurveKeepsEndpoints(t *testing.T) {
	curve := sampleCurve(100)
	down := downsampleCurve(curve, 10)

	if len(down) != 10 {
		t.Fatalf("expected 10 points, got %d", len(down))
	}
	if !down[0].Date.Equal(curve[0].Date) {
		t.Fatal("first point must survive downsampling")
	}
	if !down[len(down)-1].Date.Equal(curve[len(curve)-1].Date) {
		t.Fatal("last point must survive downsampling")
	}
}

func TestDownsampleCurveNoop(t *testing.T) {
	curve := sampleCurve(5)
	if got := downsampleCurve(curve, 10); len(got) != 5 {
		t.Fatalf("short curve must pass through, got %d points", len(got))
	}
	if got := downsampleCurve(curve, 0); len(got) != 5 {
		t.Fatalf("zero max must disable downsampling, got %d points", len(got))
	}
}

func TestSelectEntries(t *testing.T) {
	entries := []market.LeaderboardEntry{
		{ModelID: "a"}, {ModelID: "b"}, {ModelID: "c"},
	}

	if got := selectEntries(entries, nil); len(got) != 3 {
		t.Fatalf("empty filter must keep all entries, got %d", len(got))
	}

	got := selectEntries(entries, []string{"c", "a"})
	if len(got) != 2 || got[0].ModelID != "a" || got[1].ModelID != "c" {
		t.Fatalf("filter should keep leaderboard order: %#v", got)
	}
}
