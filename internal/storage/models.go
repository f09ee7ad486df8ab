package storage

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is one archived leaderboard capture.
type Snapshot struct {
	ID         int64
	TakenAt    time.Time
	ModelCount int
	TopModelID string
	TopProfit  decimal.Decimal
	Payload    json.RawMessage
	CreatedAt  time.Time
}

// DecisionRecord is one archived decision payload, keyed by model and target
// date. Decisions are append-only upstream, so re-archiving the same key is
// an idempotent upsert.
type DecisionRecord struct {
	ModelID    string
	TargetDate time.Time
	Payload    json.RawMessage
	ArchivedAt time.Time
}
