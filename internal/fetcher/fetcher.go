package fetcher

import (
	"context"
	"time"

	"github.com/PresageLabs/PrediBench-sub000/internal/market"
)

// DecisionFetcher retrieves betting decision records from the upstream
// PrediBench service.
type DecisionFetcher interface {
	DecisionsByModel(ctx context.Context, modelID string) ([]market.Decision, error)
	DecisionsByDate(ctx context.Context, date time.Time) ([]market.Decision, error)
}

// EventFetcher retrieves event details including per-market price history.
type EventFetcher interface {
	EventByID(ctx context.Context, eventID string) (market.Event, error)
}

// LeaderboardFetcher retrieves the current leaderboard snapshot with its
// precomputed per-model statistics.
type LeaderboardFetcher interface {
	Leaderboard(ctx context.Context) ([]market.LeaderboardEntry, error)
}
