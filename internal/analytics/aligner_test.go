package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return parsed
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestAlignAndAverageUnion(t *testing.T) {
	d1 := day(t, "2025-09-17")
	d2 := day(t, "2025-09-24")

	a := market.Series{{Date: d1, Value: dec("2")}, {Date: d2, Value: dec("4")}}
	b := market.Series{{Date: d1, Value: dec("6")}}

	merged := AlignAndAverage(a, b)
	if len(merged) != 2 {
		t.Fatalf("expected 2 points, got %d", len(merged))
	}
	if !merged[0].Date.Equal(d1) || !merged[0].Value.Equal(dec("4")) {
		t.Fatalf("d1 should average to 4, got %s at %s", merged[0].Value, merged[0].Date)
	}
	// d2 exists only in series a; b's absence must not drag the mean.
	if !merged[1].Date.Equal(d2) || !merged[1].Value.Equal(dec("4")) {
		t.Fatalf("d2 should keep a's value 4, got %s", merged[1].Value)
	}
}

func TestAlignAndAverageSingleSeries(t *testing.T) {
	d1 := day(t, "2025-09-17")
	a := market.Series{{Date: d1, Value: dec("1.25")}}

	merged := AlignAndAverage(a)
	if len(merged) != 1 || !merged[0].Value.Equal(dec("1.25")) {
		t.Fatalf("single series should pass through unchanged: %v", merged)
	}
}

func TestAlignAndAverageEmpty(t *testing.T) {
	if got := AlignAndAverage(); len(got) != 0 {
		t.Fatalf("no inputs should yield empty output, got %v", got)
	}
	if got := AlignAndAverage(market.Series{}, nil); len(got) != 0 {
		t.Fatalf("empty inputs should yield empty output, got %v", got)
	}
}
