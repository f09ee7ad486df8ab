package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

var tolerance = decimal.New(1, -12)

func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

func TestRebaselineAtCutoff(t *testing.T) {
	curve := market.Series{
		{Date: day(t, "2025-09-01"), Value: dec("1.0")},
		{Date: day(t, "2025-09-08"), Value: dec("1.1")},
		{Date: day(t, "2025-09-15"), Value: dec("0.9")},
	}

	out := Rebaseline(curve, day(t, "2025-09-08"))
	if len(out) != 3 {
		t.Fatalf("expected 3 points, got %d", len(out))
	}
	if !out[0].Value.Equal(dec("1")) {
		t.Fatalf("pre-cutoff point must flatten to the 1.0 sentinel, got %s", out[0].Value)
	}
	if !out[1].Value.Equal(dec("1")) {
		t.Fatalf("cutoff point must be exactly 1.0, got %s", out[1].Value)
	}
	if !approxEqual(out[2].Value, dec("0.8181818181818182")) {
		t.Fatalf("expected ~0.818 after cutoff, got %s", out[2].Value)
	}
}

func TestRebaselineIdempotent(t *testing.T) {
	curve := market.Series{
		{Date: day(t, "2025-09-01"), Value: dec("0.7")},
		{Date: day(t, "2025-09-08"), Value: dec("1.4")},
		{Date: day(t, "2025-09-15"), Value: dec("2.1")},
	}
	cutoff := day(t, "2025-09-08")

	once := Rebaseline(curve, cutoff)
	twice := Rebaseline(once, cutoff)

	if len(once) != len(twice) {
		t.Fatalf("idempotence broken: %d vs %d points", len(once), len(twice))
	}
	for i := range once {
		if !approxEqual(once[i].Value, twice[i].Value) {
			t.Fatalf("point %d drifted: %s vs %s", i, once[i].Value, twice[i].Value)
		}
	}
}

func TestRebaselinePreservesRelativeGrowth(t *testing.T) {
	curve := market.Series{
		{Date: day(t, "2025-09-01"), Value: dec("2")},
		{Date: day(t, "2025-09-08"), Value: dec("3")},
	}

	out := Rebaseline(curve, day(t, "2025-09-01"))
	ratioBefore := curve[1].Value.Div(curve[0].Value)
	ratioAfter := out[1].Value.Div(out[0].Value)
	if !approxEqual(ratioBefore, ratioAfter) {
		t.Fatalf("growth ratio changed: %s vs %s", ratioBefore, ratioAfter)
	}
}

func TestRebaselineCutoffBeyondCurve(t *testing.T) {
	curve := market.Series{
		{Date: day(t, "2025-09-01"), Value: dec("1")},
	}

	if out := Rebaseline(curve, day(t, "2025-10-01")); len(out) != 0 {
		t.Fatalf("no point on/after cutoff must yield empty output, got %v", out)
	}
}

func TestRebaselineEmptyCurve(t *testing.T) {
	if out := Rebaseline(nil, day(t, "2025-09-01")); len(out) != 0 {
		t.Fatalf("empty curve must stay empty, got %v", out)
	}
}
